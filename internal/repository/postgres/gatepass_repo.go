package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"dockpass/internal/domain"
	"dockpass/internal/port"
)

type gatepassRepo struct {
	db *sqlx.DB
}

// NewGatepassRepo creates a new PostgreSQL-backed GatepassRepository.
func NewGatepassRepo(db *sqlx.DB) port.GatepassRepository {
	return &gatepassRepo{db: db}
}

func (r *gatepassRepo) Create(ctx context.Context, gp *domain.Gatepass) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("gatepassRepo.Create begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO gatepasses (
			id, gatepass_no, vehicle_number, authorized_by, item_summary, issued_at
		) VALUES ($1, $2, $3, $4, $5, $6)`,
		gp.ID, gp.GatepassNo, gp.VehicleNumber, gp.AuthorizedBy, gp.ItemSummary, gp.IssuedAt)
	if err != nil {
		return fmt.Errorf("gatepassRepo.Create: %w", err)
	}

	for _, invoiceID := range gp.InvoiceIDs {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO gatepass_invoices (gatepass_id, invoice_id) VALUES ($1, $2)",
			gp.ID, invoiceID)
		if err != nil {
			return fmt.Errorf("gatepassRepo.Create invoice link: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("gatepassRepo.Create commit: %w", err)
	}
	return nil
}

func (r *gatepassRepo) GetByID(ctx context.Context, gatepassID uuid.UUID) (*domain.Gatepass, error) {
	var gp domain.Gatepass
	err := r.db.GetContext(ctx, &gp, "SELECT * FROM gatepasses WHERE id = $1", gatepassID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("gatepassRepo.GetByID: %w", err)
	}

	err = r.db.SelectContext(ctx, &gp.InvoiceIDs,
		"SELECT invoice_id FROM gatepass_invoices WHERE gatepass_id = $1", gatepassID)
	if err != nil {
		return nil, fmt.Errorf("gatepassRepo.GetByID invoices: %w", err)
	}
	return &gp, nil
}

func (r *gatepassRepo) List(ctx context.Context, offset, limit int) ([]domain.Gatepass, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM gatepasses")
	if err != nil {
		return nil, 0, fmt.Errorf("gatepassRepo.List count: %w", err)
	}

	var passes []domain.Gatepass
	err = r.db.SelectContext(ctx, &passes,
		"SELECT * FROM gatepasses ORDER BY issued_at DESC LIMIT $1 OFFSET $2",
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("gatepassRepo.List: %w", err)
	}
	return passes, total, nil
}

// NextNumber issues the next gatepass number from a dedicated sequence,
// formatted as GP-000001.
func (r *gatepassRepo) NextNumber(ctx context.Context) (string, error) {
	var seq int64
	err := r.db.GetContext(ctx, &seq, "SELECT nextval('gatepass_no_seq')")
	if err != nil {
		return "", fmt.Errorf("gatepassRepo.NextNumber: %w", err)
	}
	return fmt.Sprintf("GP-%06d", seq), nil
}
