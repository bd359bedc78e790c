package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"dockpass/internal/domain"
)

// MockInvoiceRepo is a mock implementation of port.InvoiceRepository.
type MockInvoiceRepo struct {
	mock.Mock
}

func (m *MockInvoiceRepo) CreateBatch(ctx context.Context, invoices []*domain.Invoice) error {
	args := m.Called(ctx, invoices)
	return args.Error(0)
}

func (m *MockInvoiceRepo) GetByID(ctx context.Context, invoiceID uuid.UUID) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepo) GetByIDs(ctx context.Context, invoiceIDs []uuid.UUID) ([]*domain.Invoice, error) {
	args := m.Called(ctx, invoiceIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepo) ListActive(ctx context.Context) ([]*domain.Invoice, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepo) ListByView(ctx context.Context, view domain.InvoiceView, offset, limit int) ([]*domain.Invoice, int, error) {
	args := m.Called(ctx, view, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Invoice), args.Int(1), args.Error(2)
}

func (m *MockInvoiceRepo) UpdateMatchStatuses(ctx context.Context, items []domain.InvoiceLineItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockInvoiceRepo) DeleteByUpload(ctx context.Context, uploadID uuid.UUID) error {
	args := m.Called(ctx, uploadID)
	return args.Error(0)
}

func (m *MockInvoiceRepo) AddValidatedItem(ctx context.Context, item *domain.ValidatedItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockInvoiceRepo) Block(ctx context.Context, invoiceID uuid.UUID, at time.Time) error {
	args := m.Called(ctx, invoiceID, at)
	return args.Error(0)
}

func (m *MockInvoiceRepo) Unblock(ctx context.Context, invoiceID uuid.UUID) error {
	args := m.Called(ctx, invoiceID)
	return args.Error(0)
}

func (m *MockInvoiceRepo) CompleteAudit(ctx context.Context, invoiceID uuid.UUID, at time.Time) error {
	args := m.Called(ctx, invoiceID, at)
	return args.Error(0)
}

func (m *MockInvoiceRepo) MarkLoaded(ctx context.Context, validatedItemID, loadedBy uuid.UUID, at time.Time) error {
	args := m.Called(ctx, validatedItemID, loadedBy, at)
	return args.Error(0)
}

func (m *MockInvoiceRepo) StampDispatched(ctx context.Context, invoiceIDs []uuid.UUID, vehicleNumber string, dispatchedBy uuid.UUID, at time.Time) error {
	args := m.Called(ctx, invoiceIDs, vehicleNumber, dispatchedBy, at)
	return args.Error(0)
}
