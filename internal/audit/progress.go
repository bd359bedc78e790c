package audit

import (
	"strings"

	"github.com/google/uuid"

	"dockpass/internal/domain"
)

// UniqueItem is one distinct customer item on an invoice: the unit of
// audit progress. Quantity aggregates every matched line carrying the same
// customer item code, since one customer item may appear on several lines.
type UniqueItem struct {
	Code       string
	Quantity   int
	LineItemID uuid.UUID
	LineNo     int
}

// UniqueCustomerItems derives the distinct customer items of an invoice
// from its matched line items, in line discovery order. Lines with an
// empty customer item code and lines that are not matched are excluded.
func UniqueCustomerItems(inv *domain.Invoice) []UniqueItem {
	byCode := make(map[string]int)
	var items []UniqueItem
	for i := range inv.Items {
		line := &inv.Items[i]
		if line.MatchStatus != domain.MatchStatusMatched {
			continue
		}
		code := strings.TrimSpace(line.CustomerItemCode)
		if code == "" {
			continue
		}
		if pos, ok := byCode[code]; ok {
			items[pos].Quantity += line.Quantity
			continue
		}
		byCode[code] = len(items)
		items = append(items, UniqueItem{
			Code:       code,
			Quantity:   line.Quantity,
			LineItemID: line.ID,
			LineNo:     line.LineNo,
		})
	}
	return items
}

// ExpectedUniqueItemCount is the audit target for an invoice: the number of
// distinct customer item codes among its matched lines. It is never the raw
// line count.
func ExpectedUniqueItemCount(inv *domain.Invoice) int {
	return len(UniqueCustomerItems(inv))
}

// IsValidated reports whether the customer item code is already in the
// invoice's validated list.
func IsValidated(inv *domain.Invoice, code string) bool {
	code = strings.TrimSpace(code)
	for i := range inv.Validated {
		if inv.Validated[i].CustomerItemCode == code {
			return true
		}
	}
	return false
}

// UnscannedItems returns the unique customer items of an invoice not yet in
// its validated list, in discovery order.
func UnscannedItems(inv *domain.Invoice) []UniqueItem {
	var out []UniqueItem
	for _, item := range UniqueCustomerItems(inv) {
		if !IsValidated(inv, item.Code) {
			out = append(out, item)
		}
	}
	return out
}

// ReadyToComplete reports whether the invoice has scanned every expected
// unique item. Completion itself requires the explicit complete-audit
// action; reaching the count alone never flips AuditComplete.
func ReadyToComplete(inv *domain.Invoice) bool {
	expected := ExpectedUniqueItemCount(inv)
	return expected > 0 && inv.ScannedCount >= expected
}

// ProgressPercent returns audit progress as 0-100 for display.
func ProgressPercent(inv *domain.Invoice) int {
	expected := ExpectedUniqueItemCount(inv)
	if expected == 0 {
		return 0
	}
	pct := inv.ScannedCount * 100 / expected
	if pct > 100 {
		pct = 100
	}
	return pct
}
