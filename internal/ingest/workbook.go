package ingest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// InvoiceRow is one raw invoice workbook row before normalization.
type InvoiceRow struct {
	RowNo            int
	InvoiceNo        string
	CustomerName     string
	CustomerCode     string
	CustomerItemCode string
	InternalPartCode string
	Quantity         string
	Description      string
}

// ScheduleRow is one raw delivery schedule row before normalization.
type ScheduleRow struct {
	RowNo             int
	SheetOrigin       string
	CustomerCode      string
	PartNumber        string
	DeliveryDate      string
	DeliveryTime      string
	UnloadingLocation string
}

// invoiceColumns maps normalized header names to InvoiceRow fields.
// Workbooks from different customers label the same column differently, so
// each field accepts several candidates.
var invoiceColumns = map[string][]string{
	"invoice_no":         {"invoiceno", "invoicenumber", "invno", "billno"},
	"customer_name":      {"customername", "customer", "consignee", "partyname"},
	"customer_code":      {"customercode", "billto", "billtocode", "custcode"},
	"customer_item_code": {"customeritemcode", "customeritem", "custitemcode", "customerpartno"},
	"internal_part_code": {"internalpartcode", "partcode", "partno", "itemcode"},
	"quantity":           {"quantity", "qty", "invoiceqty"},
	"description":        {"description", "itemdescription", "materialdescription"},
}

var scheduleColumns = map[string][]string{
	"customer_code":      {"customercode", "billto", "custcode", "customer"},
	"part_number":        {"partnumber", "partno", "customeritemcode", "itemcode"},
	"delivery_date":      {"deliverydate", "date", "scheduledate"},
	"delivery_time":      {"deliverytime", "time", "slot"},
	"unloading_location": {"unloadinglocation", "location", "unloadingpoint", "dock"},
}

// ReadInvoiceRows reads the first sheet of an invoice workbook into raw
// rows using flexible header lookup. Completely empty rows are skipped.
func ReadInvoiceRows(data []byte) ([]InvoiceRow, error) {
	rows, _, err := readSheet(data, invoiceColumns)
	if err != nil {
		return nil, err
	}

	var out []InvoiceRow
	for _, r := range rows {
		row := InvoiceRow{
			RowNo:            r.rowNo,
			InvoiceNo:        r.get("invoice_no"),
			CustomerName:     r.get("customer_name"),
			CustomerCode:     r.get("customer_code"),
			CustomerItemCode: r.get("customer_item_code"),
			InternalPartCode: r.get("internal_part_code"),
			Quantity:         r.get("quantity"),
			Description:      r.get("description"),
		}
		if row.InvoiceNo == "" && row.CustomerItemCode == "" && row.InternalPartCode == "" {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

// ReadScheduleRows reads every sheet of a delivery schedule workbook into
// raw rows; the originating sheet name is kept on each row.
func ReadScheduleRows(data []byte) ([]ScheduleRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	var out []ScheduleRow
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		if len(rows) == 0 {
			continue
		}
		cols := findColumns(rows[0], scheduleColumns)
		if cols["customer_code"] < 0 {
			// Not a schedule sheet; skip.
			continue
		}
		for i := 1; i < len(rows); i++ {
			r := sheetRow{rowNo: i + 1, cells: rows[i], cols: cols}
			row := ScheduleRow{
				RowNo:             r.rowNo,
				SheetOrigin:       sheet,
				CustomerCode:      r.get("customer_code"),
				PartNumber:        r.get("part_number"),
				DeliveryDate:      r.get("delivery_date"),
				DeliveryTime:      r.get("delivery_time"),
				UnloadingLocation: r.get("unloading_location"),
			}
			if row.CustomerCode == "" && row.PartNumber == "" {
				continue
			}
			out = append(out, row)
		}
	}
	return out, nil
}

type sheetRow struct {
	rowNo int
	cells []string
	cols  map[string]int
}

func (r sheetRow) get(field string) string {
	idx := r.cols[field]
	if idx < 0 || idx >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[idx])
}

// readSheet opens the workbook, reads the first sheet and resolves its
// header row against the column candidates.
func readSheet(data []byte, columns map[string][]string) ([]sheetRow, string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, "", fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, sheet, nil
	}

	cols := findColumns(rows[0], columns)
	var out []sheetRow
	for i := 1; i < len(rows); i++ {
		out = append(out, sheetRow{rowNo: i + 1, cells: rows[i], cols: cols})
	}
	return out, sheet, nil
}

// findColumns resolves header cells to field indexes; -1 means not found.
func findColumns(header []string, columns map[string][]string) map[string]int {
	cols := make(map[string]int, len(columns))
	for field := range columns {
		cols[field] = -1
	}
	for i, cell := range header {
		key := normalizeHeader(cell)
		for field, candidates := range columns {
			if cols[field] >= 0 {
				continue
			}
			for _, cand := range candidates {
				if key == cand {
					cols[field] = i
					break
				}
			}
		}
	}
	return cols
}

// normalizeHeader lowercases a header cell and strips spaces, dots,
// underscores and hyphens so that "Customer Item Code", "customer_item_code"
// and "CustomerItemCode" all resolve to the same key.
func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '.', '_', '-', '/':
			return -1
		}
		return r
	}, s)
}
