package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"dockpass/internal/domain"
)

// InvoiceRepository is the single source of truth for invoices. Every
// mutating method is an atomic read-modify-write keyed by invoice id with
// a guarded UPDATE, so concurrent views can never observe a half-applied
// transition. Get methods load line items and validated items.
type InvoiceRepository interface {
	CreateBatch(ctx context.Context, invoices []*domain.Invoice) error
	GetByID(ctx context.Context, invoiceID uuid.UUID) (*domain.Invoice, error)
	GetByIDs(ctx context.Context, invoiceIDs []uuid.UUID) ([]*domain.Invoice, error)
	ListActive(ctx context.Context) ([]*domain.Invoice, error)
	ListByView(ctx context.Context, view domain.InvoiceView, offset, limit int) ([]*domain.Invoice, int, error)

	// UpdateMatchStatuses persists recomputed line item match statuses.
	UpdateMatchStatuses(ctx context.Context, items []domain.InvoiceLineItem) error

	// DeleteByUpload removes an upload's invoices and their children.
	// Dispatched invoices are never touched.
	DeleteByUpload(ctx context.Context, uploadID uuid.UUID) error

	// AddValidatedItem inserts a validated record and increments the
	// invoice's scanned count in one transaction. It fails if the invoice
	// is blocked, dispatched, or the customer item code is already
	// validated for it.
	AddValidatedItem(ctx context.Context, item *domain.ValidatedItem) error

	// Block freezes an invoice after a mismatch. Already-blocked invoices
	// are left untouched.
	Block(ctx context.Context, invoiceID uuid.UUID, at time.Time) error

	// Unblock clears a block; the admin action referenced by the audit
	// protocol.
	Unblock(ctx context.Context, invoiceID uuid.UUID) error

	// CompleteAudit flips auditComplete and stamps the audit date. It
	// fails unless the invoice is unblocked, undispatched and not yet
	// complete.
	CompleteAudit(ctx context.Context, invoiceID uuid.UUID, at time.Time) error

	// MarkLoaded stamps a validated item as loaded during dispatch.
	MarkLoaded(ctx context.Context, validatedItemID, loadedBy uuid.UUID, at time.Time) error

	// StampDispatched stamps every given invoice with the vehicle and
	// dispatcher in one transaction.
	StampDispatched(ctx context.Context, invoiceIDs []uuid.UUID, vehicleNumber string, dispatchedBy uuid.UUID, at time.Time) error
}

// MismatchAlertRepository defines the contract for the append-only
// mismatch audit trail.
type MismatchAlertRepository interface {
	CreateBatch(ctx context.Context, alerts []domain.MismatchAlert) error
	List(ctx context.Context, offset, limit int) ([]domain.MismatchAlert, int, error)
	ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]domain.MismatchAlert, error)

	// ClaimPending atomically claims up to limit alerts awaiting
	// supervisor notification, for the notify worker.
	ClaimPending(ctx context.Context, limit int) ([]domain.MismatchAlert, error)
	MarkNotified(ctx context.Context, alertID uuid.UUID) error
	MarkNotifyFailed(ctx context.Context, alertID uuid.UUID, maxRetries int) error
}

// GatepassRepository defines the contract for gatepass persistence.
type GatepassRepository interface {
	Create(ctx context.Context, gp *domain.Gatepass) error
	GetByID(ctx context.Context, gatepassID uuid.UUID) (*domain.Gatepass, error)
	List(ctx context.Context, offset, limit int) ([]domain.Gatepass, int, error)
	NextNumber(ctx context.Context) (string, error)
}

// StatsRepository provides dashboard counts over the invoice store.
type StatsRepository interface {
	DashboardCounts(ctx context.Context) (*domain.DashboardCounts, error)
}
