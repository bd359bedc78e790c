package audit

import (
	"strings"

	"dockpass/internal/domain"
)

// ClassifyItems recomputes the match status of every line item that is not
// in an error or warning state. An item is matched iff its invoice has a
// customer code present in the schedule AND the item's trimmed customer
// item code is among that customer's scheduled part numbers. Matching is
// case-sensitive exact string equality after trimming.
func ClassifyItems(invoices []*domain.Invoice, idx *ScheduleIndex) {
	for _, inv := range invoices {
		custInSchedule := strings.TrimSpace(inv.CustomerCode) != "" && idx.HasCustomer(inv.CustomerCode)
		for i := range inv.Items {
			item := &inv.Items[i]
			if item.MatchStatus == domain.MatchStatusError || item.MatchStatus == domain.MatchStatusWarning {
				continue
			}
			if custInSchedule && idx.HasPart(inv.CustomerCode, item.CustomerItemCode) {
				item.MatchStatus = domain.MatchStatusMatched
			} else {
				item.MatchStatus = domain.MatchStatusUnmatched
			}
		}
	}
}

// InScope filters invoices to those whose customer code appears in the
// schedule and which belong to the requested view. Dispatched invoices are
// never in scope.
func InScope(invoices []*domain.Invoice, idx *ScheduleIndex, view domain.InvoiceView) []*domain.Invoice {
	var out []*domain.Invoice
	for _, inv := range invoices {
		if inv.DispatchedAt != nil {
			continue
		}
		if strings.TrimSpace(inv.CustomerCode) == "" || !idx.HasCustomer(inv.CustomerCode) {
			continue
		}
		switch view {
		case domain.ViewNeedsAudit:
			if inv.AuditComplete {
				continue
			}
		case domain.ViewNeedsDispatch:
			if !inv.AuditComplete {
				continue
			}
		}
		out = append(out, inv)
	}
	return out
}
