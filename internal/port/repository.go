package port

import (
	"context"

	"github.com/google/uuid"

	"dockpass/internal/domain"
)

// UserRepository defines the contract for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, offset, limit int) ([]domain.User, int, error)
}

// UploadRepository defines the contract for workbook upload persistence.
type UploadRepository interface {
	Create(ctx context.Context, upload *domain.Upload) error
	GetByID(ctx context.Context, uploadID uuid.UUID) (*domain.Upload, error)
	List(ctx context.Context, kind domain.UploadKind, offset, limit int) ([]domain.Upload, int, error)
	UpdateStatus(ctx context.Context, uploadID uuid.UUID, status domain.UploadStatus) error
}

// ScheduleRepository defines the contract for delivery schedule persistence.
// ListActive returns entries belonging to confirmed uploads only.
type ScheduleRepository interface {
	CreateBatch(ctx context.Context, entries []domain.ScheduleEntry) error
	ListActive(ctx context.Context) ([]domain.ScheduleEntry, error)
	ListByUpload(ctx context.Context, uploadID uuid.UUID) ([]domain.ScheduleEntry, error)
	DeleteByUpload(ctx context.Context, uploadID uuid.UUID) error
}
