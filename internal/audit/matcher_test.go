package audit_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"dockpass/internal/audit"
	"dockpass/internal/domain"
)

func lineItem(code string, qty int, status domain.MatchStatus) domain.InvoiceLineItem {
	return domain.InvoiceLineItem{
		ID:               uuid.New(),
		CustomerItemCode: code,
		InternalPartCode: "INT-" + code,
		Quantity:         qty,
		MatchStatus:      status,
	}
}

func invoice(no, customerCode, customerName string, items ...domain.InvoiceLineItem) *domain.Invoice {
	inv := &domain.Invoice{
		ID:           uuid.New(),
		InvoiceNo:    no,
		CustomerCode: customerCode,
		CustomerName: customerName,
	}
	for i := range items {
		items[i].InvoiceID = inv.ID
		items[i].LineNo = i + 1
		inv.TotalQuantity += items[i].Quantity
	}
	inv.Items = items
	return inv
}

func TestClassifyItems_MarksExactlyMatchingItems(t *testing.T) {
	may1 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local)
	idx := audit.NewScheduleIndex([]domain.ScheduleEntry{
		scheduleEntry("C1", "P100", may1, "10:00", "L1"),
		scheduleEntry("C1", "P200", may1, "10:00", "L1"),
	})

	inv1 := invoice("INV-1", "C1", "Acme",
		lineItem("P100", 5, domain.MatchStatusUnmatched),
		lineItem("P200", 3, domain.MatchStatusUnmatched),
		lineItem("P999", 2, domain.MatchStatusUnmatched),
	)
	// Customer absent from schedule: imported, but items stay unmatched.
	inv2 := invoice("INV-2", "C9", "Other",
		lineItem("P100", 1, domain.MatchStatusUnmatched),
	)

	audit.ClassifyItems([]*domain.Invoice{inv1, inv2}, idx)

	assert.Equal(t, domain.MatchStatusMatched, inv1.Items[0].MatchStatus)
	assert.Equal(t, domain.MatchStatusMatched, inv1.Items[1].MatchStatus)
	assert.Equal(t, domain.MatchStatusUnmatched, inv1.Items[2].MatchStatus)
	assert.Equal(t, domain.MatchStatusUnmatched, inv2.Items[0].MatchStatus)
}

func TestClassifyItems_TrimsButStaysCaseSensitive(t *testing.T) {
	may1 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local)
	idx := audit.NewScheduleIndex([]domain.ScheduleEntry{
		scheduleEntry("C1", "P100", may1, "10:00", "L1"),
	})

	inv := invoice("INV-1", "C1", "Acme",
		lineItem(" P100 ", 1, domain.MatchStatusUnmatched),
		lineItem("p100", 1, domain.MatchStatusUnmatched),
	)
	audit.ClassifyItems([]*domain.Invoice{inv}, idx)

	assert.Equal(t, domain.MatchStatusMatched, inv.Items[0].MatchStatus)
	assert.Equal(t, domain.MatchStatusUnmatched, inv.Items[1].MatchStatus)
}

func TestClassifyItems_ErrorAndWarningLinesKeepStatus(t *testing.T) {
	may1 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local)
	idx := audit.NewScheduleIndex([]domain.ScheduleEntry{
		scheduleEntry("C1", "P100", may1, "10:00", "L1"),
	})

	inv := invoice("INV-1", "C1", "Acme",
		lineItem("P100", 1, domain.MatchStatusError),
		lineItem("P100", 1, domain.MatchStatusWarning),
	)
	audit.ClassifyItems([]*domain.Invoice{inv}, idx)

	assert.Equal(t, domain.MatchStatusError, inv.Items[0].MatchStatus)
	assert.Equal(t, domain.MatchStatusWarning, inv.Items[1].MatchStatus)
}

func TestInScope_Views(t *testing.T) {
	may1 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local)
	idx := audit.NewScheduleIndex([]domain.ScheduleEntry{
		scheduleEntry("C1", "P100", may1, "10:00", "L1"),
	})

	pending := invoice("INV-1", "C1", "Acme", lineItem("P100", 1, domain.MatchStatusMatched))
	audited := invoice("INV-2", "C1", "Acme", lineItem("P100", 1, domain.MatchStatusMatched))
	audited.AuditComplete = true
	dispatched := invoice("INV-3", "C1", "Acme")
	now := time.Now()
	dispatched.DispatchedAt = &now
	offSchedule := invoice("INV-4", "C9", "Other")
	noCode := invoice("INV-5", "", "Anon")

	all := []*domain.Invoice{pending, audited, dispatched, offSchedule, noCode}

	needsAudit := audit.InScope(all, idx, domain.ViewNeedsAudit)
	assert.Equal(t, []*domain.Invoice{pending}, needsAudit)

	needsDispatch := audit.InScope(all, idx, domain.ViewNeedsDispatch)
	assert.Equal(t, []*domain.Invoice{audited}, needsDispatch)
}
