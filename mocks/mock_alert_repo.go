package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"dockpass/internal/domain"
)

// MockAlertRepo is a mock implementation of port.MismatchAlertRepository.
type MockAlertRepo struct {
	mock.Mock
}

func (m *MockAlertRepo) CreateBatch(ctx context.Context, alerts []domain.MismatchAlert) error {
	args := m.Called(ctx, alerts)
	return args.Error(0)
}

func (m *MockAlertRepo) List(ctx context.Context, offset, limit int) ([]domain.MismatchAlert, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.MismatchAlert), args.Int(1), args.Error(2)
}

func (m *MockAlertRepo) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]domain.MismatchAlert, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MismatchAlert), args.Error(1)
}

func (m *MockAlertRepo) ClaimPending(ctx context.Context, limit int) ([]domain.MismatchAlert, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MismatchAlert), args.Error(1)
}

func (m *MockAlertRepo) MarkNotified(ctx context.Context, alertID uuid.UUID) error {
	args := m.Called(ctx, alertID)
	return args.Error(0)
}

func (m *MockAlertRepo) MarkNotifyFailed(ctx context.Context, alertID uuid.UUID, maxRetries int) error {
	args := m.Called(ctx, alertID, maxRetries)
	return args.Error(0)
}
