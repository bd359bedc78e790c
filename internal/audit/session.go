package audit

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"dockpass/internal/domain"
)

// Session is one operator's in-progress audit over one or more invoices
// from the same filtered selection. The invoice slice keeps selection
// order; every scan-pair resolution attributes its outcome to exactly one
// invoice. The session itself is ephemeral — the invoice store remains the
// single source of truth and the invoices here are reloaded from it before
// each scan.
type Session struct {
	Invoices []*domain.Invoice
	Pair     ScanPair
}

// NewSession validates and creates an audit session. Every invoice must be
// audit-eligible: not blocked, not dispatched, not already audit-complete.
func NewSession(invoices []*domain.Invoice) (*Session, error) {
	if len(invoices) == 0 {
		return nil, domain.ErrEmptySelection
	}
	for _, inv := range invoices {
		if inv.Blocked {
			return nil, domain.ErrInvoiceBlocked
		}
		if inv.DispatchedAt != nil {
			return nil, domain.ErrInvoiceDispatched
		}
		if inv.AuditComplete {
			return nil, domain.ErrInvoiceNotEligible
		}
	}
	return &Session{Invoices: invoices}, nil
}

// MatchResult identifies the invoice and validated item a successful pair
// was attributed to.
type MatchResult struct {
	Invoice   *domain.Invoice
	Item      UniqueItem
	Validated domain.ValidatedItem
}

// ScanResult is the outcome of feeding one scan event into the session.
type ScanResult struct {
	Outcome ScanOutcome
	Match   *MatchResult
	Blocked []*domain.Invoice
	Alerts  []domain.MismatchAlert
}

// HandleScan feeds one scan event through the pair state machine and, on
// resolution, applies the outcome to the session invoices. The caller
// persists the mutations.
//
// A session containing any blocked invoice rejects scans outright: a
// match could route to any selected invoice, so the blocked-invoice gate
// applies to the whole selection, before the state machine is entered.
// An event with a label that is neither customer nor internal is rejected
// the same way: such a scan must never count as the pair's first label,
// or the internal-first rule could be sidestepped.
func (s *Session) HandleScan(ev domain.ScanEvent, userID uuid.UUID, now time.Time) (*ScanResult, error) {
	if ev.SourceLabel != domain.LabelCustomer && ev.SourceLabel != domain.LabelInternal {
		return nil, domain.ErrUnknownLabel
	}
	for _, inv := range s.Invoices {
		if inv.Blocked {
			return nil, domain.ErrInvoiceBlocked
		}
	}

	s.Pair.Record(ev)
	outcome := s.Pair.Resolve()
	if outcome == OutcomePending {
		return &ScanResult{Outcome: OutcomePending}, nil
	}

	customer, internal := s.Pair.Snapshots()
	s.Pair.Clear()

	if outcome == OutcomeMismatch {
		result := &ScanResult{Outcome: OutcomeMismatch}
		custJSON, _ := json.Marshal(customer)
		intJSON, _ := json.Marshal(internal)
		for _, inv := range s.Invoices {
			inv.Blocked = true
			blockedAt := now
			inv.BlockedAt = &blockedAt
			result.Blocked = append(result.Blocked, inv)
			result.Alerts = append(result.Alerts, domain.MismatchAlert{
				ID:           uuid.New(),
				InvoiceID:    inv.ID,
				UserID:       userID,
				CustomerScan: custJSON,
				InternalScan: intJSON,
				Step:         domain.StepDocAudit,
				NotifyStatus: domain.NotifyStatusPending,
				CreatedAt:    now,
			})
		}
		return result, nil
	}

	match, err := s.routeMatch(customer.PartCode, userID, now)
	if err != nil {
		return nil, err
	}
	return &ScanResult{Outcome: OutcomeMatch, Match: match}, nil
}

// routeMatch resolves which unscanned customer item a matched pair
// represents and applies it: invoices are searched in selection order, and
// within an invoice items in line discovery order. When the scan payload
// carries a part code, only items with that customer item code qualify; a
// code already validated everywhere it appears is a duplicate scan. The
// chosen invoice gains a validated record and its scanned count, with
// quantity always taken from the invoice data rather than the barcode.
func (s *Session) routeMatch(partCode string, userID uuid.UUID, now time.Time) (*MatchResult, error) {
	partCode = strings.TrimSpace(partCode)

	var target *domain.Invoice
	var item UniqueItem
	seenCode := false
	for _, inv := range s.Invoices {
		for _, u := range UnscannedItems(inv) {
			if partCode != "" && u.Code != partCode {
				continue
			}
			target = inv
			item = u
			break
		}
		if target != nil {
			break
		}
		if partCode != "" {
			for _, u := range UniqueCustomerItems(inv) {
				if u.Code == partCode {
					seenCode = true
				}
			}
		}
	}
	if target == nil {
		if seenCode {
			return nil, domain.ErrDuplicateScan
		}
		return nil, domain.ErrNoUnscannedItems
	}

	validated := domain.ValidatedItem{
		ID:               uuid.New(),
		InvoiceID:        target.ID,
		LineItemID:       item.LineItemID,
		CustomerItemCode: item.Code,
		Quantity:         item.Quantity,
		ScannedBy:        userID,
		ScannedAt:        now,
	}
	target.Validated = append(target.Validated, validated)
	target.ScannedCount++

	return &MatchResult{Invoice: target, Item: item, Validated: validated}, nil
}
