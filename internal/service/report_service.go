package service

import (
	"context"
	"fmt"
	"io"

	"dockpass/internal/csvexport"
	"dockpass/internal/domain"
	"dockpass/internal/port"
)

// reportPageSize is the batch size for streaming CSV exports.
const reportPageSize = 500

// ReportService streams CSV registers for office use: the dispatch
// register and the mismatch register.
type ReportService interface {
	ExportDispatched(ctx context.Context, w io.Writer) error
	ExportAlerts(ctx context.Context, w io.Writer) error
}

type reportService struct {
	invoiceRepo port.InvoiceRepository
	alertRepo   port.MismatchAlertRepository
}

// NewReportService creates a new ReportService implementation.
func NewReportService(invoiceRepo port.InvoiceRepository, alertRepo port.MismatchAlertRepository) ReportService {
	return &reportService{invoiceRepo: invoiceRepo, alertRepo: alertRepo}
}

func (s *reportService) ExportDispatched(ctx context.Context, w io.Writer) error {
	if _, err := w.Write(csvexport.BOM); err != nil {
		return fmt.Errorf("reportService.ExportDispatched: %w", err)
	}
	cw := csvexport.NewWriter(w)
	if err := cw.WriteDispatchHeader(); err != nil {
		return fmt.Errorf("reportService.ExportDispatched: %w", err)
	}

	for offset := 0; ; offset += reportPageSize {
		invoices, total, err := s.invoiceRepo.ListByView(ctx, domain.ViewDispatched, offset, reportPageSize)
		if err != nil {
			return fmt.Errorf("reportService.ExportDispatched: %w", err)
		}
		if err := cw.WriteDispatched(invoices); err != nil {
			return fmt.Errorf("reportService.ExportDispatched: %w", err)
		}
		if offset+len(invoices) >= total || len(invoices) == 0 {
			break
		}
	}
	return cw.Flush()
}

func (s *reportService) ExportAlerts(ctx context.Context, w io.Writer) error {
	if _, err := w.Write(csvexport.BOM); err != nil {
		return fmt.Errorf("reportService.ExportAlerts: %w", err)
	}
	cw := csvexport.NewWriter(w)
	if err := cw.WriteAlertHeader(); err != nil {
		return fmt.Errorf("reportService.ExportAlerts: %w", err)
	}

	for offset := 0; ; offset += reportPageSize {
		alerts, total, err := s.alertRepo.List(ctx, offset, reportPageSize)
		if err != nil {
			return fmt.Errorf("reportService.ExportAlerts: %w", err)
		}
		if err := cw.WriteAlerts(alerts); err != nil {
			return fmt.Errorf("reportService.ExportAlerts: %w", err)
		}
		if offset+len(alerts) >= total || len(alerts) == 0 {
			break
		}
	}
	return cw.Flush()
}
