package audit_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"dockpass/internal/audit"
	"dockpass/internal/domain"
)

func TestUniqueCustomerItems_AggregatesDuplicateCodes(t *testing.T) {
	inv := invoice("INV-1", "C1", "Acme",
		lineItem("P100", 5, domain.MatchStatusMatched),
		lineItem("P200", 3, domain.MatchStatusMatched),
		lineItem("P100", 2, domain.MatchStatusMatched), // same customer item, second line
		lineItem("P300", 9, domain.MatchStatusUnmatched),
		lineItem("", 4, domain.MatchStatusMatched), // no customer item code
	)

	items := audit.UniqueCustomerItems(inv)
	assert.Len(t, items, 2)
	assert.Equal(t, "P100", items[0].Code)
	assert.Equal(t, 7, items[0].Quantity)
	assert.Equal(t, "P200", items[1].Code)
	assert.Equal(t, 3, items[1].Quantity)

	// Unit of progress is the unique item count, never the raw line count.
	assert.Equal(t, 2, audit.ExpectedUniqueItemCount(inv))
}

func TestUnscannedItems_ExcludesValidated(t *testing.T) {
	inv := invoice("INV-1", "C1", "Acme",
		lineItem("P100", 5, domain.MatchStatusMatched),
		lineItem("P200", 3, domain.MatchStatusMatched),
	)
	inv.Validated = []domain.ValidatedItem{
		{ID: uuid.New(), InvoiceID: inv.ID, CustomerItemCode: "P100", Quantity: 5},
	}

	unscanned := audit.UnscannedItems(inv)
	assert.Len(t, unscanned, 1)
	assert.Equal(t, "P200", unscanned[0].Code)
	assert.True(t, audit.IsValidated(inv, "P100"))
	assert.False(t, audit.IsValidated(inv, "P200"))
}

func TestReadyToComplete_RequiresFullCount(t *testing.T) {
	inv := invoice("INV-1", "C1", "Acme",
		lineItem("P100", 5, domain.MatchStatusMatched),
		lineItem("P200", 3, domain.MatchStatusMatched),
	)

	inv.ScannedCount = 1
	assert.False(t, audit.ReadyToComplete(inv))
	assert.Equal(t, 50, audit.ProgressPercent(inv))

	inv.ScannedCount = 2
	assert.True(t, audit.ReadyToComplete(inv))
	assert.Equal(t, 100, audit.ProgressPercent(inv))

	// Reaching the count never flips AuditComplete by itself.
	assert.False(t, inv.AuditComplete)
}

func TestReadyToComplete_FalseForEmptyInvoice(t *testing.T) {
	inv := invoice("INV-1", "C1", "Acme")
	assert.False(t, audit.ReadyToComplete(inv))
	assert.Equal(t, 0, audit.ProgressPercent(inv))
}
