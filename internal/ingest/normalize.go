package ingest

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"dockpass/internal/domain"
)

// dateLayouts are the delivery date formats seen in customer schedules.
// excelize returns formatted cell text, so both ISO and the regional
// day-first layouts show up.
var dateLayouts = []string{
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
	"2-1-2006",
	"2/1/2006",
	"02-Jan-06",
	"02-Jan-2006",
	"01-02-06",
}

// NormalizeInvoices groups raw invoice rows by invoice number and builds
// domain invoices with line items. Rows with missing key fields or a
// non-numeric quantity are kept but marked as error rows; the returned
// error count is the total number of such rows.
func NormalizeInvoices(rows []InvoiceRow, uploadID uuid.UUID) ([]*domain.Invoice, int) {
	byNo := make(map[string]*domain.Invoice)
	var order []string
	errorCount := 0

	for _, r := range rows {
		invoiceNo := strings.TrimSpace(r.InvoiceNo)
		key := invoiceNo
		if key == "" {
			// A row without an invoice number still needs to surface as an
			// error; attach it to a synthetic bucket per row.
			key = fmt.Sprintf("__missing_%d", r.RowNo)
		}

		inv, ok := byNo[key]
		if !ok {
			inv = &domain.Invoice{
				ID:           uuid.New(),
				UploadID:     uploadID,
				InvoiceNo:    invoiceNo,
				CustomerName: strings.TrimSpace(r.CustomerName),
				CustomerCode: strings.TrimSpace(r.CustomerCode),
			}
			byNo[key] = inv
			order = append(order, key)
		}

		item := domain.InvoiceLineItem{
			ID:               uuid.New(),
			InvoiceID:        inv.ID,
			LineNo:           r.RowNo,
			CustomerItemCode: strings.TrimSpace(r.CustomerItemCode),
			InternalPartCode: strings.TrimSpace(r.InternalPartCode),
			MatchStatus:      domain.MatchStatusUnmatched,
		}

		if msg := lineError(invoiceNo, r); msg != "" {
			item.MatchStatus = domain.MatchStatusError
			item.RowError = msg
			errorCount++
		} else {
			qty, _ := parseQuantity(r.Quantity)
			item.Quantity = qty
			inv.TotalQuantity += qty
		}

		inv.Items = append(inv.Items, item)
	}

	out := make([]*domain.Invoice, 0, len(order))
	for _, key := range order {
		out = append(out, byNo[key])
	}
	return out, errorCount
}

// lineError reports why an invoice row is unusable, or "" when it is fine.
func lineError(invoiceNo string, r InvoiceRow) string {
	switch {
	case invoiceNo == "":
		return "missing invoice number"
	case strings.TrimSpace(r.CustomerName) == "":
		return "missing customer name"
	case strings.TrimSpace(r.CustomerItemCode) == "":
		return "missing customer item code"
	}
	if _, err := parseQuantity(r.Quantity); err != nil {
		return fmt.Sprintf("bad quantity %q", strings.TrimSpace(r.Quantity))
	}
	return ""
}

// NormalizeSchedule converts raw schedule rows into schedule entries.
// Rows missing the customer code or part number are dropped and counted as
// errors; an unparseable date leaves DeliveryDate nil but keeps the row,
// since location and time filters still work without it.
func NormalizeSchedule(rows []ScheduleRow, uploadID uuid.UUID) ([]domain.ScheduleEntry, int) {
	var out []domain.ScheduleEntry
	errorCount := 0

	for _, r := range rows {
		cust := strings.TrimSpace(r.CustomerCode)
		part := strings.TrimSpace(r.PartNumber)
		if cust == "" || part == "" {
			errorCount++
			continue
		}
		entry := domain.ScheduleEntry{
			ID:                uuid.New(),
			UploadID:          uploadID,
			SheetOrigin:       r.SheetOrigin,
			CustomerCode:      cust,
			PartNumber:        part,
			DeliveryTime:      strings.TrimSpace(r.DeliveryTime),
			UnloadingLocation: strings.TrimSpace(r.UnloadingLocation),
		}
		if d := parseDate(r.DeliveryDate); d != nil {
			entry.DeliveryDate = d
		}
		out = append(out, entry)
	}
	return out, errorCount
}

// parseQuantity accepts integer quantities, tolerating the ".0" suffix
// excelize produces for numeric cells and thousands separators.
func parseQuantity(s string) (int, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, fmt.Errorf("empty quantity")
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		n := int(f)
		if float64(n) != f || n < 0 {
			return 0, fmt.Errorf("quantity %q is not a whole number", s)
		}
		return n, nil
	}
	return 0, fmt.Errorf("quantity %q is not numeric", s)
}

func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return &t
		}
	}
	return nil
}

// SummarizeErrors returns the per-row error messages for an upload preview,
// sorted by row number.
func SummarizeErrors(invoices []*domain.Invoice) []string {
	type rowErr struct {
		row int
		msg string
	}
	var errs []rowErr
	for _, inv := range invoices {
		for _, item := range inv.Items {
			if item.RowError != "" {
				errs = append(errs, rowErr{row: item.LineNo, msg: item.RowError})
			}
		}
	}
	sort.Slice(errs, func(i, j int) bool { return errs[i].row < errs[j].row })

	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = fmt.Sprintf("row %d: %s", e.row, e.msg)
	}
	return out
}
