package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"dockpass/internal/domain"
	"dockpass/internal/port"
)

type alertRepo struct {
	db *sqlx.DB
}

// NewAlertRepo creates a new PostgreSQL-backed MismatchAlertRepository.
func NewAlertRepo(db *sqlx.DB) port.MismatchAlertRepository {
	return &alertRepo{db: db}
}

func (r *alertRepo) CreateBatch(ctx context.Context, alerts []domain.MismatchAlert) error {
	if len(alerts) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("alertRepo.CreateBatch begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `INSERT INTO mismatch_alerts (
		id, invoice_id, user_id, customer_scan, internal_scan,
		step, notify_status, notify_attempts, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	now := time.Now().UTC()
	for i := range alerts {
		alerts[i].CreatedAt = now
		a := &alerts[i]
		_, err = tx.ExecContext(ctx, query,
			a.ID, a.InvoiceID, a.UserID, a.CustomerScan, a.InternalScan,
			a.Step, a.NotifyStatus, a.NotifyAttempts, a.CreatedAt)
		if err != nil {
			return fmt.Errorf("alertRepo.CreateBatch insert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("alertRepo.CreateBatch commit: %w", err)
	}
	return nil
}

func (r *alertRepo) List(ctx context.Context, offset, limit int) ([]domain.MismatchAlert, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM mismatch_alerts")
	if err != nil {
		return nil, 0, fmt.Errorf("alertRepo.List count: %w", err)
	}

	var alerts []domain.MismatchAlert
	err = r.db.SelectContext(ctx, &alerts,
		"SELECT * FROM mismatch_alerts ORDER BY created_at DESC LIMIT $1 OFFSET $2",
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("alertRepo.List: %w", err)
	}
	return alerts, total, nil
}

func (r *alertRepo) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]domain.MismatchAlert, error) {
	var alerts []domain.MismatchAlert
	err := r.db.SelectContext(ctx, &alerts,
		"SELECT * FROM mismatch_alerts WHERE invoice_id = $1 ORDER BY created_at DESC",
		invoiceID)
	if err != nil {
		return nil, fmt.Errorf("alertRepo.ListByInvoice: %w", err)
	}
	return alerts, nil
}

// ClaimPending picks up to limit pending alerts and bumps their attempt
// counter in one statement. FOR UPDATE SKIP LOCKED keeps concurrent worker
// instances from claiming the same alert twice.
func (r *alertRepo) ClaimPending(ctx context.Context, limit int) ([]domain.MismatchAlert, error) {
	var alerts []domain.MismatchAlert
	err := r.db.SelectContext(ctx, &alerts,
		`UPDATE mismatch_alerts SET notify_attempts = notify_attempts + 1
		 WHERE id IN (
			SELECT id FROM mismatch_alerts
			WHERE notify_status = $1
			ORDER BY created_at
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		 )
		 RETURNING *`, domain.NotifyStatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("alertRepo.ClaimPending: %w", err)
	}
	return alerts, nil
}

func (r *alertRepo) MarkNotified(ctx context.Context, alertID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE mismatch_alerts SET notify_status = $1 WHERE id = $2",
		domain.NotifyStatusNotified, alertID)
	if err != nil {
		return fmt.Errorf("alertRepo.MarkNotified: %w", err)
	}
	return nil
}

// MarkNotifyFailed returns the alert to pending until maxRetries attempts
// have been burned, then parks it as failed.
func (r *alertRepo) MarkNotifyFailed(ctx context.Context, alertID uuid.UUID, maxRetries int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE mismatch_alerts
		 SET notify_status = CASE WHEN notify_attempts >= $1 THEN $2 ELSE $3 END
		 WHERE id = $4`,
		maxRetries, domain.NotifyStatusFailed, domain.NotifyStatusPending, alertID)
	if err != nil {
		return fmt.Errorf("alertRepo.MarkNotifyFailed: %w", err)
	}
	return nil
}
