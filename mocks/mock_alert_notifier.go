package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"dockpass/internal/domain"
)

// MockAlertNotifier is a mock implementation of port.AlertNotifier.
type MockAlertNotifier struct {
	mock.Mock
}

func (m *MockAlertNotifier) NotifyMismatch(ctx context.Context, alert *domain.MismatchAlert, inv *domain.Invoice) error {
	args := m.Called(ctx, alert, inv)
	return args.Error(0)
}
