package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"dockpass/internal/domain"
	"dockpass/internal/port"
)

type uploadRepo struct {
	db *sqlx.DB
}

// NewUploadRepo creates a new PostgreSQL-backed UploadRepository.
func NewUploadRepo(db *sqlx.DB) port.UploadRepository {
	return &uploadRepo{db: db}
}

func (r *uploadRepo) Create(ctx context.Context, upload *domain.Upload) error {
	now := time.Now().UTC()
	upload.CreatedAt = now
	upload.UpdatedAt = now

	query := `INSERT INTO uploads (
		id, kind, file_name, original_name, file_size, content_type,
		s3_bucket, s3_key, row_count, error_count, status,
		uploaded_by, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.db.ExecContext(ctx, query,
		upload.ID, upload.Kind, upload.FileName, upload.OriginalName,
		upload.FileSize, upload.ContentType, upload.S3Bucket, upload.S3Key,
		upload.RowCount, upload.ErrorCount, upload.Status,
		upload.UploadedBy, upload.CreatedAt, upload.UpdatedAt)
	if err != nil {
		return fmt.Errorf("uploadRepo.Create: %w", err)
	}
	return nil
}

func (r *uploadRepo) GetByID(ctx context.Context, uploadID uuid.UUID) (*domain.Upload, error) {
	var upload domain.Upload
	err := r.db.GetContext(ctx, &upload, "SELECT * FROM uploads WHERE id = $1", uploadID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("uploadRepo.GetByID: %w", err)
	}
	return &upload, nil
}

func (r *uploadRepo) List(ctx context.Context, kind domain.UploadKind, offset, limit int) ([]domain.Upload, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM uploads WHERE kind = $1", kind)
	if err != nil {
		return nil, 0, fmt.Errorf("uploadRepo.List count: %w", err)
	}

	var uploads []domain.Upload
	err = r.db.SelectContext(ctx, &uploads,
		`SELECT * FROM uploads WHERE kind = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, kind, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("uploadRepo.List: %w", err)
	}
	return uploads, total, nil
}

func (r *uploadRepo) UpdateStatus(ctx context.Context, uploadID uuid.UUID, status domain.UploadStatus) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE uploads SET status = $1, updated_at = $2 WHERE id = $3",
		status, time.Now().UTC(), uploadID)
	if err != nil {
		return fmt.Errorf("uploadRepo.UpdateStatus: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("uploadRepo.UpdateStatus rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
