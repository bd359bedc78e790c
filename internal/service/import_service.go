package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"dockpass/internal/audit"
	"dockpass/internal/config"
	"dockpass/internal/domain"
	"dockpass/internal/ingest"
	"dockpass/internal/port"
)

// ImportInput is the DTO for workbook import requests.
type ImportInput struct {
	Kind       domain.UploadKind
	UploadedBy uuid.UUID
	File       multipart.File
	Header     *multipart.FileHeader
}

// ImportService manages workbook imports: invoice sets and delivery
// schedules land as staged uploads and become audit-eligible only on
// confirmation.
type ImportService interface {
	ImportWorkbook(ctx context.Context, input ImportInput) (*domain.Upload, error)
	ConfirmUpload(ctx context.Context, uploadID uuid.UUID) (*domain.Upload, error)
	DiscardUpload(ctx context.Context, uploadID uuid.UUID) error
	GetUpload(ctx context.Context, uploadID uuid.UUID) (*domain.Upload, error)
	ListUploads(ctx context.Context, kind domain.UploadKind, offset, limit int) ([]domain.Upload, int, error)
	ListScheduleEntries(ctx context.Context, uploadID uuid.UUID) ([]domain.ScheduleEntry, error)
	GetDownloadURL(ctx context.Context, uploadID uuid.UUID) (string, error)
}

type importService struct {
	uploadRepo   port.UploadRepository
	invoiceRepo  port.InvoiceRepository
	scheduleRepo port.ScheduleRepository
	storage      port.ObjectStorage
	cfg          *config.S3Config
}

// NewImportService creates a new ImportService implementation.
func NewImportService(
	uploadRepo port.UploadRepository,
	invoiceRepo port.InvoiceRepository,
	scheduleRepo port.ScheduleRepository,
	storage port.ObjectStorage,
	cfg *config.S3Config,
) ImportService {
	return &importService{
		uploadRepo:   uploadRepo,
		invoiceRepo:  invoiceRepo,
		scheduleRepo: scheduleRepo,
		storage:      storage,
		cfg:          cfg,
	}
}

func (s *importService) ImportWorkbook(ctx context.Context, input ImportInput) (*domain.Upload, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.Header.Filename), "."))
	if _, ok := domain.AllowedWorkbookExtensions[ext]; !ok {
		return nil, domain.ErrUnsupportedFileType
	}

	maxBytes := s.cfg.MaxFileSizeMB * 1024 * 1024
	if input.Header.Size > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	// excelize needs the whole workbook in memory anyway.
	data, err := io.ReadAll(input.File)
	if err != nil {
		return nil, fmt.Errorf("importService.ImportWorkbook read: %w", err)
	}

	uploadID := uuid.New()
	upload := &domain.Upload{
		ID:           uploadID,
		Kind:         input.Kind,
		FileName:     uploadID.String() + "." + ext,
		OriginalName: input.Header.Filename,
		FileSize:     input.Header.Size,
		ContentType:  "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		S3Bucket:     s.cfg.Bucket,
		S3Key:        fmt.Sprintf("uploads/%s/%s/%s", input.Kind, uploadID, input.Header.Filename),
		Status:       domain.UploadStatusStaged,
		UploadedBy:   input.UploadedBy,
	}

	var invoices []*domain.Invoice
	var entries []domain.ScheduleEntry

	switch input.Kind {
	case domain.UploadKindInvoice:
		rows, err := ingest.ReadInvoiceRows(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrWorkbookUnreadable, err)
		}
		upload.RowCount = len(rows)
		invoices, upload.ErrorCount = ingest.NormalizeInvoices(rows, uploadID)

		// Classify against the current schedule so the staged preview
		// already shows match statuses.
		if idx, err := s.scheduleIndex(ctx); err == nil && idx != nil {
			audit.ClassifyItems(invoices, idx)
		}
	case domain.UploadKindSchedule:
		rows, err := ingest.ReadScheduleRows(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrWorkbookUnreadable, err)
		}
		upload.RowCount = len(rows)
		entries, upload.ErrorCount = ingest.NormalizeSchedule(rows, uploadID)
	default:
		return nil, fmt.Errorf("importService.ImportWorkbook: unknown kind %q", input.Kind)
	}

	log.Printf("importService.ImportWorkbook: staging %s workbook %s (%d rows, %d errors) by user %s",
		input.Kind, input.Header.Filename, upload.RowCount, upload.ErrorCount, input.UploadedBy)

	if err := s.uploadRepo.Create(ctx, upload); err != nil {
		return nil, fmt.Errorf("creating upload record: %w", err)
	}

	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      upload.S3Bucket,
		Key:         upload.S3Key,
		Body:        bytes.NewReader(data),
		ContentType: upload.ContentType,
		Size:        upload.FileSize,
	}); err != nil {
		log.Printf("importService.ImportWorkbook: archive failed for upload %s: %v", upload.ID, err)
		_ = s.uploadRepo.UpdateStatus(ctx, upload.ID, domain.UploadStatusFailed)
		return nil, domain.ErrUploadFailed
	}

	switch input.Kind {
	case domain.UploadKindInvoice:
		if err := s.invoiceRepo.CreateBatch(ctx, invoices); err != nil {
			_ = s.uploadRepo.UpdateStatus(ctx, upload.ID, domain.UploadStatusFailed)
			return nil, err
		}
	case domain.UploadKindSchedule:
		if err := s.scheduleRepo.CreateBatch(ctx, entries); err != nil {
			_ = s.uploadRepo.UpdateStatus(ctx, upload.ID, domain.UploadStatusFailed)
			return nil, err
		}
	}

	return upload, nil
}

// ConfirmUpload promotes a staged upload. Confirmation is denied while the
// workbook still has error rows; fix the sheet and re-import instead.
func (s *importService) ConfirmUpload(ctx context.Context, uploadID uuid.UUID) (*domain.Upload, error) {
	upload, err := s.uploadRepo.GetByID(ctx, uploadID)
	if err != nil {
		return nil, err
	}
	if upload.Status != domain.UploadStatusStaged {
		return nil, domain.ErrUploadNotStaged
	}
	if upload.ErrorCount > 0 {
		return nil, domain.ErrUploadHasErrors
	}

	if err := s.uploadRepo.UpdateStatus(ctx, uploadID, domain.UploadStatusConfirmed); err != nil {
		return nil, err
	}
	upload.Status = domain.UploadStatusConfirmed

	// The confirmed workbook changes what is in scope, so every active
	// invoice line gets reclassified against the current schedule.
	if err := s.reclassify(ctx); err != nil {
		log.Printf("importService.ConfirmUpload: reclassify after %s: %v", uploadID, err)
	}
	return upload, nil
}

// DiscardUpload throws away a staged upload: its rows are deleted, the
// archived workbook is removed from storage and the upload is marked
// discarded. Confirmed uploads cannot be discarded; their rows may carry
// audit state.
func (s *importService) DiscardUpload(ctx context.Context, uploadID uuid.UUID) error {
	upload, err := s.uploadRepo.GetByID(ctx, uploadID)
	if err != nil {
		return err
	}
	if upload.Status != domain.UploadStatusStaged {
		return domain.ErrUploadNotStaged
	}

	switch upload.Kind {
	case domain.UploadKindInvoice:
		if err := s.invoiceRepo.DeleteByUpload(ctx, uploadID); err != nil {
			return err
		}
	case domain.UploadKindSchedule:
		if err := s.scheduleRepo.DeleteByUpload(ctx, uploadID); err != nil {
			return err
		}
	}

	if err := s.storage.Delete(ctx, upload.S3Bucket, upload.S3Key); err != nil {
		// The rows are already gone; a stale archive object is harmless.
		log.Printf("importService.DiscardUpload: deleting archive for upload %s: %v", uploadID, err)
	}

	log.Printf("importService.DiscardUpload: discarded staged %s upload %s (%d rows)",
		upload.Kind, uploadID, upload.RowCount)
	return s.uploadRepo.UpdateStatus(ctx, uploadID, domain.UploadStatusDiscarded)
}

func (s *importService) GetUpload(ctx context.Context, uploadID uuid.UUID) (*domain.Upload, error) {
	return s.uploadRepo.GetByID(ctx, uploadID)
}

func (s *importService) ListUploads(ctx context.Context, kind domain.UploadKind, offset, limit int) ([]domain.Upload, int, error) {
	return s.uploadRepo.List(ctx, kind, offset, limit)
}

// ListScheduleEntries returns the rows of one schedule upload, for
// previewing a staged workbook before confirming it.
func (s *importService) ListScheduleEntries(ctx context.Context, uploadID uuid.UUID) ([]domain.ScheduleEntry, error) {
	upload, err := s.uploadRepo.GetByID(ctx, uploadID)
	if err != nil {
		return nil, err
	}
	if upload.Kind != domain.UploadKindSchedule {
		return nil, domain.ErrNotFound
	}
	return s.scheduleRepo.ListByUpload(ctx, uploadID)
}

func (s *importService) GetDownloadURL(ctx context.Context, uploadID uuid.UUID) (string, error) {
	upload, err := s.uploadRepo.GetByID(ctx, uploadID)
	if err != nil {
		return "", err
	}
	return s.storage.GetPresignedURL(ctx, upload.S3Bucket, upload.S3Key, s.cfg.PresignExpiry)
}

// scheduleIndex builds the index over confirmed schedule entries, or nil
// when no schedule has been confirmed yet.
func (s *importService) scheduleIndex(ctx context.Context) (*audit.ScheduleIndex, error) {
	entries, err := s.scheduleRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return audit.NewScheduleIndex(entries), nil
}

func (s *importService) reclassify(ctx context.Context) error {
	idx, err := s.scheduleIndex(ctx)
	if err != nil {
		return err
	}
	if idx == nil {
		return nil
	}

	invoices, err := s.invoiceRepo.ListActive(ctx)
	if err != nil {
		return err
	}

	before := make(map[uuid.UUID]domain.MatchStatus)
	for _, inv := range invoices {
		for _, item := range inv.Items {
			before[item.ID] = item.MatchStatus
		}
	}

	audit.ClassifyItems(invoices, idx)

	var changed []domain.InvoiceLineItem
	for _, inv := range invoices {
		for _, item := range inv.Items {
			if before[item.ID] != item.MatchStatus {
				changed = append(changed, item)
			}
		}
	}
	return s.invoiceRepo.UpdateMatchStatuses(ctx, changed)
}
