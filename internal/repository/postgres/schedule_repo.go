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

type scheduleRepo struct {
	db *sqlx.DB
}

// NewScheduleRepo creates a new PostgreSQL-backed ScheduleRepository.
func NewScheduleRepo(db *sqlx.DB) port.ScheduleRepository {
	return &scheduleRepo{db: db}
}

func (r *scheduleRepo) CreateBatch(ctx context.Context, entries []domain.ScheduleEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("scheduleRepo.CreateBatch begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `INSERT INTO schedule_entries (
		id, upload_id, customer_code, part_number, delivery_date,
		delivery_time, unloading_location, sheet_origin, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	now := time.Now().UTC()
	for i := range entries {
		entries[i].CreatedAt = now
		e := &entries[i]
		_, err = tx.ExecContext(ctx, query,
			e.ID, e.UploadID, e.CustomerCode, e.PartNumber, e.DeliveryDate,
			e.DeliveryTime, e.UnloadingLocation, e.SheetOrigin, e.CreatedAt)
		if err != nil {
			return fmt.Errorf("scheduleRepo.CreateBatch insert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("scheduleRepo.CreateBatch commit: %w", err)
	}
	return nil
}

// ListActive returns schedule entries from confirmed uploads only; staged
// or failed workbooks never feed the audit filters.
func (r *scheduleRepo) ListActive(ctx context.Context) ([]domain.ScheduleEntry, error) {
	var entries []domain.ScheduleEntry
	err := r.db.SelectContext(ctx, &entries,
		`SELECT s.* FROM schedule_entries s
		 JOIN uploads u ON u.id = s.upload_id
		 WHERE u.status = $1
		 ORDER BY s.customer_code, s.part_number`, domain.UploadStatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("scheduleRepo.ListActive: %w", err)
	}
	return entries, nil
}

func (r *scheduleRepo) ListByUpload(ctx context.Context, uploadID uuid.UUID) ([]domain.ScheduleEntry, error) {
	var entries []domain.ScheduleEntry
	err := r.db.SelectContext(ctx, &entries,
		`SELECT * FROM schedule_entries WHERE upload_id = $1
		 ORDER BY customer_code, part_number`, uploadID)
	if err != nil {
		return nil, fmt.Errorf("scheduleRepo.ListByUpload: %w", err)
	}
	return entries, nil
}

func (r *scheduleRepo) DeleteByUpload(ctx context.Context, uploadID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM schedule_entries WHERE upload_id = $1", uploadID)
	if err != nil {
		return fmt.Errorf("scheduleRepo.DeleteByUpload: %w", err)
	}
	return nil
}
