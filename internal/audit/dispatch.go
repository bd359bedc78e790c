package audit

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"dockpass/internal/domain"
)

// DispatchBatch aggregates audited invoices selected for one vehicle load.
// All invoices must share one customer; dispatch scanning re-verifies the
// physical loading of exactly the items validated during audit, using the
// customer label alone.
type DispatchBatch struct {
	Invoices []*domain.Invoice
	loaded   map[uuid.UUID]bool // validated item ID → loaded
}

// NewDispatchBatch validates the selection: same customer name on every
// invoice, all audit-complete, none blocked, none already dispatched.
// Precondition violations reject the whole batch with no partial state.
func NewDispatchBatch(invoices []*domain.Invoice) (*DispatchBatch, error) {
	if len(invoices) == 0 {
		return nil, domain.ErrEmptySelection
	}
	customer := invoices[0].CustomerName
	for _, inv := range invoices {
		if inv.CustomerName != customer {
			return nil, domain.ErrMixedCustomers
		}
		if inv.DispatchedAt != nil {
			return nil, domain.ErrInvoiceDispatched
		}
		if inv.Blocked {
			return nil, domain.ErrInvoiceBlocked
		}
		if !inv.AuditComplete {
			return nil, domain.ErrAuditNotComplete
		}
	}
	b := &DispatchBatch{Invoices: invoices, loaded: make(map[uuid.UUID]bool)}
	for _, inv := range invoices {
		for i := range inv.Validated {
			if inv.Validated[i].LoadedAt != nil {
				b.loaded[inv.Validated[i].ID] = true
			}
		}
	}
	return b, nil
}

// ExpectedBarcodeCount is the dispatch target: the sum of every invoice's
// audited scanned count. Dispatch verifies those exact items, it does not
// introduce a new quantity.
func (b *DispatchBatch) ExpectedBarcodeCount() int {
	total := 0
	for _, inv := range b.Invoices {
		total += inv.ScannedCount
	}
	return total
}

// LoadedCount returns how many validated items have been load-scanned.
func (b *DispatchBatch) LoadedCount() int {
	return len(b.loaded)
}

// Complete reports whether every expected item has been loaded.
func (b *DispatchBatch) Complete() bool {
	return b.LoadedCount() == b.ExpectedBarcodeCount()
}

// LoadResult attributes a dispatch load scan to a specific invoice and
// validated item.
type LoadResult struct {
	Invoice *domain.Invoice
	Item    *domain.ValidatedItem
}

// RecordLoad attributes one customer-label scan to a not-yet-loaded
// validated item, searching invoices in batch order and matching on the
// scanned part code. A second scan of an already-loaded item is rejected;
// a part code never validated during audit is rejected without state
// change.
func (b *DispatchBatch) RecordLoad(ev domain.ScanEvent, userID uuid.UUID, now time.Time) (*LoadResult, error) {
	if ev.SourceLabel != domain.LabelCustomer {
		return nil, domain.ErrItemNotExpected
	}
	code := strings.TrimSpace(ev.PartCode)
	if code == "" {
		code = strings.TrimSpace(ev.RawValue)
	}

	seen := false
	for _, inv := range b.Invoices {
		for i := range inv.Validated {
			v := &inv.Validated[i]
			if v.CustomerItemCode != code {
				continue
			}
			seen = true
			if b.loaded[v.ID] {
				continue
			}
			loadedAt := now
			v.LoadedAt = &loadedAt
			v.LoadedBy = &userID
			b.loaded[v.ID] = true
			return &LoadResult{Invoice: inv, Item: v}, nil
		}
	}
	if seen {
		return nil, domain.ErrAlreadyLoaded
	}
	return nil, domain.ErrItemNotExpected
}

// GatepassItem is one line of the gatepass item summary.
type GatepassItem struct {
	InvoiceNo        string `json:"invoice_no"`
	CustomerItemCode string `json:"customer_item_code"`
	Quantity         int    `json:"quantity"`
}

// GatepassPayload is the structured issuance payload handed to the external
// document/QR renderer.
type GatepassPayload struct {
	GatepassID    uuid.UUID      `json:"gatepass_id"`
	GatepassNo    string         `json:"gatepass_no"`
	VehicleNumber string         `json:"vehicle_number"`
	Timestamp     time.Time      `json:"timestamp"`
	AuthorizedBy  uuid.UUID      `json:"authorized_by"`
	InvoiceNos    []string       `json:"invoice_nos"`
	ItemSummary   []GatepassItem `json:"item_summary"`
}

// Issue closes the batch: it is rejected until every expected item is
// loaded, then stamps each invoice dispatched and builds the gatepass with
// its item summary. Stamped invoices leave every audit and dispatch view
// permanently.
func (b *DispatchBatch) Issue(gatepassNo, vehicleNumber string, authorizedBy uuid.UUID, now time.Time) (*domain.Gatepass, *GatepassPayload, error) {
	if strings.TrimSpace(vehicleNumber) == "" {
		return nil, nil, domain.ErrVehicleRequired
	}
	if !b.Complete() {
		return nil, nil, fmt.Errorf("%w: %d of %d loaded",
			domain.ErrLoadIncomplete, b.LoadedCount(), b.ExpectedBarcodeCount())
	}

	var items []GatepassItem
	var invoiceNos []string
	var invoiceIDs []uuid.UUID
	for _, inv := range b.Invoices {
		inv.VehicleNumber = vehicleNumber
		dispatchedAt := now
		inv.DispatchedAt = &dispatchedAt
		by := authorizedBy
		inv.DispatchedBy = &by

		invoiceNos = append(invoiceNos, inv.InvoiceNo)
		invoiceIDs = append(invoiceIDs, inv.ID)
		for i := range inv.Validated {
			items = append(items, GatepassItem{
				InvoiceNo:        inv.InvoiceNo,
				CustomerItemCode: inv.Validated[i].CustomerItemCode,
				Quantity:         inv.Validated[i].Quantity,
			})
		}
	}
	sort.Strings(invoiceNos)

	summary, err := json.Marshal(items)
	if err != nil {
		return nil, nil, fmt.Errorf("marshaling item summary: %w", err)
	}

	gp := &domain.Gatepass{
		ID:            uuid.New(),
		GatepassNo:    gatepassNo,
		VehicleNumber: vehicleNumber,
		AuthorizedBy:  authorizedBy,
		ItemSummary:   summary,
		IssuedAt:      now,
		InvoiceIDs:    invoiceIDs,
	}
	payload := &GatepassPayload{
		GatepassID:    gp.ID,
		GatepassNo:    gatepassNo,
		VehicleNumber: vehicleNumber,
		Timestamp:     now,
		AuthorizedBy:  authorizedBy,
		InvoiceNos:    invoiceNos,
		ItemSummary:   items,
	}
	return gp, payload, nil
}
