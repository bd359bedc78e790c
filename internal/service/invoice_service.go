package service

import (
	"context"

	"github.com/google/uuid"

	"dockpass/internal/domain"
	"dockpass/internal/port"
)

// InvoiceService exposes the invoice worklist views and single-invoice
// detail reads.
type InvoiceService interface {
	GetByID(ctx context.Context, invoiceID uuid.UUID) (*domain.Invoice, error)
	ListByView(ctx context.Context, view domain.InvoiceView, offset, limit int) ([]*domain.Invoice, int, error)
}

type invoiceService struct {
	invoiceRepo port.InvoiceRepository
}

// NewInvoiceService creates a new InvoiceService implementation.
func NewInvoiceService(invoiceRepo port.InvoiceRepository) InvoiceService {
	return &invoiceService{invoiceRepo: invoiceRepo}
}

func (s *invoiceService) GetByID(ctx context.Context, invoiceID uuid.UUID) (*domain.Invoice, error) {
	return s.invoiceRepo.GetByID(ctx, invoiceID)
}

func (s *invoiceService) ListByView(ctx context.Context, view domain.InvoiceView, offset, limit int) ([]*domain.Invoice, int, error) {
	return s.invoiceRepo.ListByView(ctx, view, offset, limit)
}
