package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"dockpass/internal/domain"
)

// MockGatepassRepo is a mock implementation of port.GatepassRepository.
type MockGatepassRepo struct {
	mock.Mock
}

func (m *MockGatepassRepo) Create(ctx context.Context, gp *domain.Gatepass) error {
	args := m.Called(ctx, gp)
	return args.Error(0)
}

func (m *MockGatepassRepo) GetByID(ctx context.Context, gatepassID uuid.UUID) (*domain.Gatepass, error) {
	args := m.Called(ctx, gatepassID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Gatepass), args.Error(1)
}

func (m *MockGatepassRepo) List(ctx context.Context, offset, limit int) ([]domain.Gatepass, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Gatepass), args.Int(1), args.Error(2)
}

func (m *MockGatepassRepo) NextNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}
