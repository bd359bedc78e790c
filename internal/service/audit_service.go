package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"dockpass/internal/audit"
	"dockpass/internal/domain"
	"dockpass/internal/port"
)

// StartSessionInput is the DTO for opening an audit session from a
// completed filter selection.
type StartSessionInput struct {
	CustomerCode string     `json:"customer_code" binding:"required"`
	DeliveryDate *time.Time `json:"delivery_date"`
	Locations    []string   `json:"locations"`
	Times        []string   `json:"times"`
}

// ScanInput is the DTO for one barcode read.
type ScanInput struct {
	SourceLabel domain.LabelSource `json:"source_label" binding:"required"`
	RawValue    string             `json:"raw_value" binding:"required"`
	PartCode    string             `json:"part_code"`
	Quantity    string             `json:"quantity"`
	BinNumber   string             `json:"bin_number"`
}

// InvoiceProgress reports audit progress for one session invoice.
type InvoiceProgress struct {
	InvoiceID       uuid.UUID `json:"invoice_id"`
	InvoiceNo       string    `json:"invoice_no"`
	ScannedCount    int       `json:"scanned_count"`
	ExpectedCount   int       `json:"expected_count"`
	Percent         int       `json:"percent"`
	ReadyToComplete bool      `json:"ready_to_complete"`
	Blocked         bool      `json:"blocked"`
}

// SessionState is the session view returned to the scanning client.
type SessionState struct {
	Invoices    []InvoiceProgress `json:"invoices"`
	PairStarted bool              `json:"pair_started"`
}

// ScanResponse reports the result of one scan.
type ScanResponse struct {
	Outcome  string           `json:"outcome"`
	Matched  *InvoiceProgress `json:"matched,omitempty"`
	ItemCode string           `json:"item_code,omitempty"`
	Session  *SessionState    `json:"session,omitempty"`
	Blocked  []uuid.UUID      `json:"blocked,omitempty"`
}

// AuditService drives the document audit flow: the cascading schedule
// filter, the per-operator scan session and the explicit audit completion.
type AuditService interface {
	CustomerOptions(ctx context.Context) ([]string, error)
	DateOptions(ctx context.Context, customerCode string) ([]time.Time, error)
	LocationOptions(ctx context.Context, customerCode string, date time.Time) ([]string, error)
	TimeOptions(ctx context.Context, customerCode string, date time.Time, locations []string) ([]string, error)

	PreviewSelection(ctx context.Context, input StartSessionInput) (*SessionState, error)
	StartSession(ctx context.Context, userID uuid.UUID, input StartSessionInput) (*SessionState, error)
	GetSession(ctx context.Context, userID uuid.UUID) (*SessionState, error)
	EndSession(userID uuid.UUID)
	Scan(ctx context.Context, userID uuid.UUID, input ScanInput) (*ScanResponse, error)
	ClearScan(ctx context.Context, userID uuid.UUID) (*SessionState, error)

	CompleteAudit(ctx context.Context, invoiceID uuid.UUID) error
	Unblock(ctx context.Context, invoiceID uuid.UUID) error
}

// operatorSession is the persistent slice of a session between requests:
// the chosen invoices by id and the half-open scan pair, if any.
type operatorSession struct {
	invoiceIDs []uuid.UUID
	pair       audit.ScanPair
}

type auditService struct {
	invoiceRepo  port.InvoiceRepository
	scheduleRepo port.ScheduleRepository
	alertRepo    port.MismatchAlertRepository

	mu       sync.Mutex
	sessions map[uuid.UUID]*operatorSession
}

// NewAuditService creates a new AuditService implementation.
func NewAuditService(
	invoiceRepo port.InvoiceRepository,
	scheduleRepo port.ScheduleRepository,
	alertRepo port.MismatchAlertRepository,
) AuditService {
	return &auditService{
		invoiceRepo:  invoiceRepo,
		scheduleRepo: scheduleRepo,
		alertRepo:    alertRepo,
		sessions:     make(map[uuid.UUID]*operatorSession),
	}
}

func (s *auditService) CustomerOptions(ctx context.Context) ([]string, error) {
	idx, invoices, err := s.scope(ctx)
	if err != nil {
		return nil, err
	}
	return audit.CustomerOptions(idx, invoices), nil
}

func (s *auditService) DateOptions(ctx context.Context, customerCode string) ([]time.Time, error) {
	idx, invoices, err := s.scope(ctx)
	if err != nil {
		return nil, err
	}
	return audit.DateOptions(idx, invoices, customerCode), nil
}

func (s *auditService) LocationOptions(ctx context.Context, customerCode string, date time.Time) ([]string, error) {
	idx, invoices, err := s.scope(ctx)
	if err != nil {
		return nil, err
	}
	return audit.LocationOptions(idx, invoices, customerCode, date), nil
}

func (s *auditService) TimeOptions(ctx context.Context, customerCode string, date time.Time, locations []string) ([]string, error) {
	idx, invoices, err := s.scope(ctx)
	if err != nil {
		return nil, err
	}
	return audit.TimeOptions(idx, invoices, customerCode, date, locations), nil
}

// PreviewSelection resolves a filter selection into its eligible invoices
// without opening a session.
func (s *auditService) PreviewSelection(ctx context.Context, input StartSessionInput) (*SessionState, error) {
	idx, invoices, err := s.scope(ctx)
	if err != nil {
		return nil, err
	}
	selected := audit.SelectInvoices(idx, invoices, selection(input))
	return sessionState(selected, false), nil
}

func (s *auditService) StartSession(ctx context.Context, userID uuid.UUID, input StartSessionInput) (*SessionState, error) {
	idx, invoices, err := s.scope(ctx)
	if err != nil {
		return nil, err
	}

	selected := audit.SelectInvoices(idx, invoices, selection(input))
	sess, err := audit.NewSession(selected)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(sess.Invoices))
	for i, inv := range sess.Invoices {
		ids[i] = inv.ID
	}

	s.mu.Lock()
	s.sessions[userID] = &operatorSession{invoiceIDs: ids}
	s.mu.Unlock()

	log.Printf("auditService.StartSession: user %s opened session over %d invoices for customer %s",
		userID, len(ids), input.CustomerCode)

	return sessionState(sess.Invoices, false), nil
}

func (s *auditService) GetSession(ctx context.Context, userID uuid.UUID) (*SessionState, error) {
	s.mu.Lock()
	op, ok := s.sessions[userID]
	s.mu.Unlock()
	if !ok {
		return nil, domain.ErrNoActiveSession
	}

	invoices, err := s.invoiceRepo.GetByIDs(ctx, op.invoiceIDs)
	if err != nil {
		return nil, err
	}
	return sessionState(invoices, op.pair.First() != ""), nil
}

// ClearScan abandons a half-open scan pair with no side effects. The
// operator rescans both labels afterwards.
func (s *auditService) ClearScan(ctx context.Context, userID uuid.UUID) (*SessionState, error) {
	s.mu.Lock()
	op, ok := s.sessions[userID]
	if ok {
		op.pair.Clear()
	}
	s.mu.Unlock()
	if !ok {
		return nil, domain.ErrNoActiveSession
	}

	invoices, err := s.invoiceRepo.GetByIDs(ctx, op.invoiceIDs)
	if err != nil {
		return nil, err
	}
	return sessionState(invoices, false), nil
}

func (s *auditService) EndSession(userID uuid.UUID) {
	s.mu.Lock()
	delete(s.sessions, userID)
	s.mu.Unlock()
}

// Scan feeds one barcode read into the operator's session. The invoices
// are reloaded from the store on every scan so that an admin unblock or a
// concurrent completion is always respected.
func (s *auditService) Scan(ctx context.Context, userID uuid.UUID, input ScanInput) (*ScanResponse, error) {
	s.mu.Lock()
	op, ok := s.sessions[userID]
	s.mu.Unlock()
	if !ok {
		return nil, domain.ErrNoActiveSession
	}

	invoices, err := s.invoiceRepo.GetByIDs(ctx, op.invoiceIDs)
	if err != nil {
		return nil, err
	}

	sess := &audit.Session{Invoices: invoices, Pair: op.pair}
	now := time.Now().UTC()
	ev := domain.ScanEvent{
		SourceLabel: input.SourceLabel,
		RawValue:    input.RawValue,
		PartCode:    input.PartCode,
		Quantity:    input.Quantity,
		BinNumber:   input.BinNumber,
		Timestamp:   now,
	}

	result, err := sess.HandleScan(ev, userID, now)
	if err != nil {
		// A failed attribution abandons the pair; the operator rescans
		// both labels.
		s.mu.Lock()
		op.pair = audit.ScanPair{}
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	op.pair = sess.Pair
	s.mu.Unlock()

	switch result.Outcome {
	case audit.OutcomePending:
		return &ScanResponse{
			Outcome: string(audit.OutcomePending),
			Session: sessionState(invoices, true),
		}, nil

	case audit.OutcomeMismatch:
		for _, inv := range result.Blocked {
			if err := s.invoiceRepo.Block(ctx, inv.ID, now); err != nil {
				return nil, err
			}
		}
		if err := s.alertRepo.CreateBatch(ctx, result.Alerts); err != nil {
			return nil, err
		}
		s.EndSession(userID)

		blocked := make([]uuid.UUID, len(result.Blocked))
		for i, inv := range result.Blocked {
			blocked[i] = inv.ID
		}
		log.Printf("auditService.Scan: mismatch by user %s blocked %d invoices", userID, len(blocked))
		return &ScanResponse{
			Outcome: string(audit.OutcomeMismatch),
			Blocked: blocked,
			Session: sessionState(invoices, false),
		}, nil

	default:
		if err := s.invoiceRepo.AddValidatedItem(ctx, &result.Match.Validated); err != nil {
			return nil, err
		}
		progress := invoiceProgress(result.Match.Invoice)
		return &ScanResponse{
			Outcome:  string(audit.OutcomeMatch),
			Matched:  &progress,
			ItemCode: result.Match.Item.Code,
			Session:  sessionState(invoices, false),
		}, nil
	}
}

// CompleteAudit marks an invoice audit-complete. This is an explicit
// operator action: reaching 100% scan progress by itself never flips the
// flag.
func (s *auditService) CompleteAudit(ctx context.Context, invoiceID uuid.UUID) error {
	inv, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return err
	}
	if inv.Blocked {
		return domain.ErrInvoiceBlocked
	}
	if !audit.ReadyToComplete(inv) {
		return fmt.Errorf("%w: %d of %d items scanned",
			domain.ErrAuditIncomplete, inv.ScannedCount, audit.ExpectedUniqueItemCount(inv))
	}
	return s.invoiceRepo.CompleteAudit(ctx, invoiceID, time.Now().UTC())
}

func (s *auditService) Unblock(ctx context.Context, invoiceID uuid.UUID) error {
	log.Printf("auditService.Unblock: unblocking invoice %s", invoiceID)
	return s.invoiceRepo.Unblock(ctx, invoiceID)
}

// scope loads the schedule index and the active invoices. A missing
// confirmed schedule makes the whole audit flow unavailable.
func (s *auditService) scope(ctx context.Context) (*audit.ScheduleIndex, []*domain.Invoice, error) {
	entries, err := s.scheduleRepo.ListActive(ctx)
	if err != nil {
		return nil, nil, err
	}
	if len(entries) == 0 {
		return nil, nil, domain.ErrScheduleMissing
	}

	invoices, err := s.invoiceRepo.ListActive(ctx)
	if err != nil {
		return nil, nil, err
	}
	return audit.NewScheduleIndex(entries), invoices, nil
}

// selection builds the cascade from a request; downstream filters left
// empty stay unset.
func selection(input StartSessionInput) audit.Selection {
	var sel audit.Selection
	sel.SetCustomer(input.CustomerCode)
	if input.DeliveryDate != nil {
		sel.SetDate(*input.DeliveryDate)
	}
	if len(input.Locations) > 0 {
		sel.SetLocations(input.Locations)
	}
	if len(input.Times) > 0 {
		sel.SetTimes(input.Times)
	}
	return sel
}

func invoiceProgress(inv *domain.Invoice) InvoiceProgress {
	return InvoiceProgress{
		InvoiceID:       inv.ID,
		InvoiceNo:       inv.InvoiceNo,
		ScannedCount:    inv.ScannedCount,
		ExpectedCount:   audit.ExpectedUniqueItemCount(inv),
		Percent:         audit.ProgressPercent(inv),
		ReadyToComplete: audit.ReadyToComplete(inv),
		Blocked:         inv.Blocked,
	}
}

func sessionState(invoices []*domain.Invoice, pairStarted bool) *SessionState {
	state := &SessionState{PairStarted: pairStarted}
	for _, inv := range invoices {
		state.Invoices = append(state.Invoices, invoiceProgress(inv))
	}
	return state
}
