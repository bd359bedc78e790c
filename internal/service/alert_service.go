package service

import (
	"context"

	"github.com/google/uuid"

	"dockpass/internal/domain"
	"dockpass/internal/port"
)

// AlertService exposes the mismatch audit trail.
type AlertService interface {
	List(ctx context.Context, offset, limit int) ([]domain.MismatchAlert, int, error)
	ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]domain.MismatchAlert, error)
}

type alertService struct {
	alertRepo port.MismatchAlertRepository
}

// NewAlertService creates a new AlertService implementation.
func NewAlertService(alertRepo port.MismatchAlertRepository) AlertService {
	return &alertService{alertRepo: alertRepo}
}

func (s *alertService) List(ctx context.Context, offset, limit int) ([]domain.MismatchAlert, int, error) {
	return s.alertRepo.List(ctx, offset, limit)
}

func (s *alertService) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]domain.MismatchAlert, error) {
	return s.alertRepo.ListByInvoice(ctx, invoiceID)
}
