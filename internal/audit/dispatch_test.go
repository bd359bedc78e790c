package audit_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"dockpass/internal/audit"
	"dockpass/internal/domain"
)

func auditedInvoice(no, customerName string, codes ...string) *domain.Invoice {
	inv := invoice(no, "C1", customerName)
	for i, code := range codes {
		item := lineItem(code, i+1, domain.MatchStatusMatched)
		item.InvoiceID = inv.ID
		item.LineNo = i + 1
		inv.Items = append(inv.Items, item)
		inv.Validated = append(inv.Validated, domain.ValidatedItem{
			ID:               uuid.New(),
			InvoiceID:        inv.ID,
			LineItemID:       item.ID,
			CustomerItemCode: code,
			Quantity:         i + 1,
			ScannedBy:        uuid.New(),
			ScannedAt:        time.Now(),
		})
	}
	inv.ScannedCount = len(codes)
	inv.AuditComplete = true
	return inv
}

func customerScan(partCode string) domain.ScanEvent {
	return domain.ScanEvent{
		SourceLabel: domain.LabelCustomer,
		RawValue:    partCode,
		PartCode:    partCode,
		Timestamp:   time.Now(),
	}
}

func TestNewDispatchBatch_Preconditions(t *testing.T) {
	_, err := audit.NewDispatchBatch(nil)
	assert.ErrorIs(t, err, domain.ErrEmptySelection)

	// Mixed customers are always rejected.
	a := auditedInvoice("INV-1", "Acme", "P100")
	b := auditedInvoice("INV-2", "Globex", "P200")
	_, err = audit.NewDispatchBatch([]*domain.Invoice{a, b})
	assert.ErrorIs(t, err, domain.ErrMixedCustomers)

	notAudited := invoice("INV-3", "C1", "Acme", lineItem("P100", 1, domain.MatchStatusMatched))
	_, err = audit.NewDispatchBatch([]*domain.Invoice{notAudited})
	assert.ErrorIs(t, err, domain.ErrAuditNotComplete)

	blocked := auditedInvoice("INV-4", "Acme", "P100")
	blocked.Blocked = true
	_, err = audit.NewDispatchBatch([]*domain.Invoice{blocked})
	assert.ErrorIs(t, err, domain.ErrInvoiceBlocked)

	gone := auditedInvoice("INV-5", "Acme", "P100")
	now := time.Now()
	gone.DispatchedAt = &now
	_, err = audit.NewDispatchBatch([]*domain.Invoice{gone})
	assert.ErrorIs(t, err, domain.ErrInvoiceDispatched)
}

func TestDispatchBatch_ExpectedCountIsSumOfScannedCounts(t *testing.T) {
	a := auditedInvoice("INV-1", "Acme", "P100", "P200")
	b := auditedInvoice("INV-2", "Acme", "P300")
	batch, err := audit.NewDispatchBatch([]*domain.Invoice{a, b})
	assert.NoError(t, err)
	assert.Equal(t, 3, batch.ExpectedBarcodeCount())
	assert.Equal(t, 0, batch.LoadedCount())
	assert.False(t, batch.Complete())
}

func TestDispatchBatch_RecordLoad(t *testing.T) {
	a := auditedInvoice("INV-1", "Acme", "P100")
	b := auditedInvoice("INV-2", "Acme", "P200")
	batch, _ := audit.NewDispatchBatch([]*domain.Invoice{a, b})
	user := uuid.New()
	now := time.Now()

	res, err := batch.RecordLoad(customerScan("P200"), user, now)
	assert.NoError(t, err)
	assert.Equal(t, b.ID, res.Invoice.ID)
	assert.NotNil(t, res.Item.LoadedAt)
	assert.Equal(t, user, *res.Item.LoadedBy)
	assert.Equal(t, 1, batch.LoadedCount())

	// Duplicate load scan of the same item is rejected.
	_, err = batch.RecordLoad(customerScan("P200"), user, now)
	assert.ErrorIs(t, err, domain.ErrAlreadyLoaded)
	assert.Equal(t, 1, batch.LoadedCount())

	// A part never validated during audit is rejected.
	_, err = batch.RecordLoad(customerScan("P999"), user, now)
	assert.ErrorIs(t, err, domain.ErrItemNotExpected)

	// Dispatch scanning uses the customer label only.
	internal := customerScan("P100")
	internal.SourceLabel = domain.LabelInternal
	_, err = batch.RecordLoad(internal, user, now)
	assert.ErrorIs(t, err, domain.ErrItemNotExpected)
}

func TestDispatchBatch_IssueGatedOnFullLoad(t *testing.T) {
	a := auditedInvoice("INV-1", "Acme", "P100", "P200")
	batch, _ := audit.NewDispatchBatch([]*domain.Invoice{a})
	user := uuid.New()
	now := time.Now()

	_, _, err := batch.Issue("GP-1", "KA-01-1234", user, now)
	assert.ErrorIs(t, err, domain.ErrLoadIncomplete)

	_, _ = batch.RecordLoad(customerScan("P100"), user, now)
	_, _ = batch.RecordLoad(customerScan("P200"), user, now)

	_, _, err = batch.Issue("GP-1", "", user, now)
	assert.ErrorIs(t, err, domain.ErrVehicleRequired)

	gp, payload, err := batch.Issue("GP-1", "KA-01-1234", user, now)
	assert.NoError(t, err)
	assert.Equal(t, "GP-1", gp.GatepassNo)
	assert.Equal(t, "KA-01-1234", gp.VehicleNumber)
	assert.Equal(t, []string{"INV-1"}, payload.InvoiceNos)
	assert.Len(t, payload.ItemSummary, 2)
}

func TestDispatchBatch_IssueStampsEveryInvoice(t *testing.T) {
	// Two invoices of one customer loaded together get the same vehicle
	// and dispatch timestamp.
	a := auditedInvoice("INV-1", "Acme", "P100")
	b := auditedInvoice("INV-2", "Acme", "P200")
	batch, _ := audit.NewDispatchBatch([]*domain.Invoice{a, b})
	user := uuid.New()
	now := time.Now()

	_, _ = batch.RecordLoad(customerScan("P100"), user, now)
	_, _ = batch.RecordLoad(customerScan("P200"), user, now)
	assert.True(t, batch.Complete())

	gp, payload, err := batch.Issue("GP-7", "MH-12-0001", user, now)
	assert.NoError(t, err)
	assert.Len(t, gp.InvoiceIDs, 2)
	assert.Equal(t, []string{"INV-1", "INV-2"}, payload.InvoiceNos)

	for _, inv := range []*domain.Invoice{a, b} {
		assert.Equal(t, "MH-12-0001", inv.VehicleNumber)
		assert.NotNil(t, inv.DispatchedAt)
		assert.Equal(t, now, *inv.DispatchedAt)
		assert.Equal(t, user, *inv.DispatchedBy)
	}
}
