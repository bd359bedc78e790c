package service_test

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/xuri/excelize/v2"

	"dockpass/internal/config"
	"dockpass/internal/domain"
	"dockpass/internal/port"
	"dockpass/internal/service"
	"dockpass/mocks"
)

func setupImportService() (
	service.ImportService,
	*mocks.MockUploadRepo,
	*mocks.MockInvoiceRepo,
	*mocks.MockScheduleRepo,
	*mocks.MockObjectStorage,
) {
	uploadRepo := new(mocks.MockUploadRepo)
	invoiceRepo := new(mocks.MockInvoiceRepo)
	scheduleRepo := new(mocks.MockScheduleRepo)
	storage := new(mocks.MockObjectStorage)
	cfg := &config.S3Config{Bucket: "test-bucket", MaxFileSizeMB: 10, PresignExpiry: 900}
	svc := service.NewImportService(uploadRepo, invoiceRepo, scheduleRepo, storage, cfg)
	return svc, uploadRepo, invoiceRepo, scheduleRepo, storage
}

// workbookFile satisfies multipart.File over an in-memory workbook.
type workbookFile struct {
	*bytes.Reader
}

func (workbookFile) Close() error { return nil }

func buildInvoiceWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	header := []interface{}{"Invoice No", "Customer Name", "Customer Code", "Customer Item Code", "Part No", "Qty"}
	assert.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		assert.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	assert.NoError(t, err)
	return buf.Bytes()
}

func importInput(name string, data []byte) service.ImportInput {
	return service.ImportInput{
		Kind:       domain.UploadKindInvoice,
		UploadedBy: uuid.New(),
		File:       workbookFile{bytes.NewReader(data)},
		Header:     &multipart.FileHeader{Filename: name, Size: int64(len(data))},
	}
}

// --- ImportWorkbook ---

func TestImportService_ImportWorkbook_StagesInvoices(t *testing.T) {
	svc, uploadRepo, invoiceRepo, scheduleRepo, storage := setupImportService()

	data := buildInvoiceWorkbook(t, [][]interface{}{
		{"INV-001", "Acme Forge", "CUST1", "P-100", "INT-100", 10},
		{"INV-001", "Acme Forge", "CUST1", "P-200", "INT-200", 5},
		{"INV-002", "Acme Forge", "CUST1", "P-100", "INT-100", 4},
	})

	scheduleRepo.On("ListActive", mock.Anything).Return([]domain.ScheduleEntry{}, nil)
	uploadRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Upload")).Return(nil)
	storage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Return(&port.UploadOutput{Location: "s3://test-bucket/key"}, nil)
	invoiceRepo.On("CreateBatch", mock.Anything, mock.AnythingOfType("[]*domain.Invoice")).Return(nil)

	upload, err := svc.ImportWorkbook(context.Background(), importInput("invoices.xlsx", data))

	assert.NoError(t, err)
	assert.Equal(t, domain.UploadStatusStaged, upload.Status)
	assert.Equal(t, 3, upload.RowCount)
	assert.Equal(t, 0, upload.ErrorCount)
	uploadRepo.AssertExpectations(t)
	invoiceRepo.AssertCalled(t, "CreateBatch", mock.Anything, mock.AnythingOfType("[]*domain.Invoice"))
}

func TestImportService_ImportWorkbook_CountsErrorRows(t *testing.T) {
	svc, uploadRepo, invoiceRepo, scheduleRepo, storage := setupImportService()

	// Second row lacks a customer item code, third has a bad quantity.
	data := buildInvoiceWorkbook(t, [][]interface{}{
		{"INV-001", "Acme Forge", "CUST1", "P-100", "INT-100", 10},
		{"INV-001", "Acme Forge", "CUST1", "", "INT-200", 5},
		{"INV-002", "Acme Forge", "CUST1", "P-100", "INT-100", "lots"},
	})

	scheduleRepo.On("ListActive", mock.Anything).Return([]domain.ScheduleEntry{}, nil)
	uploadRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Upload")).Return(nil)
	storage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Return(&port.UploadOutput{}, nil)
	invoiceRepo.On("CreateBatch", mock.Anything, mock.AnythingOfType("[]*domain.Invoice")).Return(nil)

	upload, err := svc.ImportWorkbook(context.Background(), importInput("invoices.xlsx", data))

	assert.NoError(t, err)
	assert.Equal(t, 2, upload.ErrorCount)
}

func TestImportService_ImportWorkbook_UnsupportedExtension(t *testing.T) {
	svc, _, _, _, _ := setupImportService()

	upload, err := svc.ImportWorkbook(context.Background(), importInput("invoices.csv", nil))
	assert.Nil(t, upload)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestImportService_ImportWorkbook_FileTooLarge(t *testing.T) {
	svc, _, _, _, _ := setupImportService()

	input := importInput("invoices.xlsx", nil)
	input.Header.Size = 11 * 1024 * 1024
	upload, err := svc.ImportWorkbook(context.Background(), input)
	assert.Nil(t, upload)
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
}

func TestImportService_ImportWorkbook_ArchiveFailureMarksFailed(t *testing.T) {
	svc, uploadRepo, _, scheduleRepo, storage := setupImportService()

	data := buildInvoiceWorkbook(t, [][]interface{}{
		{"INV-001", "Acme Forge", "CUST1", "P-100", "INT-100", 10},
	})

	scheduleRepo.On("ListActive", mock.Anything).Return([]domain.ScheduleEntry{}, nil)
	uploadRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Upload")).Return(nil)
	storage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Return(nil, assert.AnError)
	uploadRepo.On("UpdateStatus", mock.Anything, mock.AnythingOfType("uuid.UUID"), domain.UploadStatusFailed).Return(nil)

	upload, err := svc.ImportWorkbook(context.Background(), importInput("invoices.xlsx", data))
	assert.Nil(t, upload)
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	uploadRepo.AssertExpectations(t)
}

// --- ConfirmUpload ---

func TestImportService_ConfirmUpload_Success(t *testing.T) {
	svc, uploadRepo, invoiceRepo, scheduleRepo, _ := setupImportService()

	staged := &domain.Upload{
		ID:     uuid.New(),
		Kind:   domain.UploadKindInvoice,
		Status: domain.UploadStatusStaged,
	}
	uploadRepo.On("GetByID", mock.Anything, staged.ID).Return(staged, nil)
	uploadRepo.On("UpdateStatus", mock.Anything, staged.ID, domain.UploadStatusConfirmed).Return(nil)

	// Reclassification runs over the confirmed scope.
	inv := auditInvoice()
	inv.Items[1].MatchStatus = domain.MatchStatusUnmatched
	scheduleRepo.On("ListActive", mock.Anything).Return(auditSchedule(), nil)
	invoiceRepo.On("ListActive", mock.Anything).Return([]*domain.Invoice{inv}, nil)
	invoiceRepo.On("UpdateMatchStatuses", mock.Anything, mock.AnythingOfType("[]domain.InvoiceLineItem")).Return(nil)

	upload, err := svc.ConfirmUpload(context.Background(), staged.ID)

	assert.NoError(t, err)
	assert.Equal(t, domain.UploadStatusConfirmed, upload.Status)
	// The unmatched P-200 line is now scheduled, so its status flips.
	assert.Equal(t, domain.MatchStatusMatched, inv.Items[1].MatchStatus)
	uploadRepo.AssertExpectations(t)
	invoiceRepo.AssertCalled(t, "UpdateMatchStatuses", mock.Anything, mock.AnythingOfType("[]domain.InvoiceLineItem"))
}

func TestImportService_ConfirmUpload_NotStaged(t *testing.T) {
	svc, uploadRepo, _, _, _ := setupImportService()

	confirmed := &domain.Upload{ID: uuid.New(), Status: domain.UploadStatusConfirmed}
	uploadRepo.On("GetByID", mock.Anything, confirmed.ID).Return(confirmed, nil)

	upload, err := svc.ConfirmUpload(context.Background(), confirmed.ID)
	assert.Nil(t, upload)
	assert.ErrorIs(t, err, domain.ErrUploadNotStaged)
	uploadRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestImportService_ConfirmUpload_DeniedWhileErrors(t *testing.T) {
	svc, uploadRepo, _, _, _ := setupImportService()

	staged := &domain.Upload{ID: uuid.New(), Status: domain.UploadStatusStaged, ErrorCount: 3}
	uploadRepo.On("GetByID", mock.Anything, staged.ID).Return(staged, nil)

	upload, err := svc.ConfirmUpload(context.Background(), staged.ID)
	assert.Nil(t, upload)
	assert.ErrorIs(t, err, domain.ErrUploadHasErrors)
	uploadRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

// --- DiscardUpload ---

func TestImportService_DiscardUpload_ScheduleRemovesEntriesAndArchive(t *testing.T) {
	svc, uploadRepo, _, scheduleRepo, storage := setupImportService()

	staged := &domain.Upload{
		ID:       uuid.New(),
		Kind:     domain.UploadKindSchedule,
		S3Bucket: "test-bucket",
		S3Key:    "uploads/schedule/abc/schedule.xlsx",
		Status:   domain.UploadStatusStaged,
	}
	uploadRepo.On("GetByID", mock.Anything, staged.ID).Return(staged, nil)
	scheduleRepo.On("DeleteByUpload", mock.Anything, staged.ID).Return(nil)
	storage.On("Delete", mock.Anything, "test-bucket", staged.S3Key).Return(nil)
	uploadRepo.On("UpdateStatus", mock.Anything, staged.ID, domain.UploadStatusDiscarded).Return(nil)

	err := svc.DiscardUpload(context.Background(), staged.ID)
	assert.NoError(t, err)
	scheduleRepo.AssertExpectations(t)
	storage.AssertExpectations(t)
	uploadRepo.AssertExpectations(t)
}

func TestImportService_DiscardUpload_InvoiceRemovesInvoices(t *testing.T) {
	svc, uploadRepo, invoiceRepo, _, storage := setupImportService()

	staged := &domain.Upload{
		ID:       uuid.New(),
		Kind:     domain.UploadKindInvoice,
		S3Bucket: "test-bucket",
		S3Key:    "uploads/invoice/abc/invoices.xlsx",
		Status:   domain.UploadStatusStaged,
	}
	uploadRepo.On("GetByID", mock.Anything, staged.ID).Return(staged, nil)
	invoiceRepo.On("DeleteByUpload", mock.Anything, staged.ID).Return(nil)
	storage.On("Delete", mock.Anything, "test-bucket", staged.S3Key).Return(nil)
	uploadRepo.On("UpdateStatus", mock.Anything, staged.ID, domain.UploadStatusDiscarded).Return(nil)

	err := svc.DiscardUpload(context.Background(), staged.ID)
	assert.NoError(t, err)
	invoiceRepo.AssertExpectations(t)
}

func TestImportService_DiscardUpload_ConfirmedRejected(t *testing.T) {
	svc, uploadRepo, invoiceRepo, scheduleRepo, _ := setupImportService()

	confirmed := &domain.Upload{
		ID:     uuid.New(),
		Kind:   domain.UploadKindInvoice,
		Status: domain.UploadStatusConfirmed,
	}
	uploadRepo.On("GetByID", mock.Anything, confirmed.ID).Return(confirmed, nil)

	err := svc.DiscardUpload(context.Background(), confirmed.ID)
	assert.ErrorIs(t, err, domain.ErrUploadNotStaged)
	invoiceRepo.AssertNotCalled(t, "DeleteByUpload", mock.Anything, mock.Anything)
	scheduleRepo.AssertNotCalled(t, "DeleteByUpload", mock.Anything, mock.Anything)
}

// --- ListScheduleEntries ---

func TestImportService_ListScheduleEntries(t *testing.T) {
	svc, uploadRepo, _, scheduleRepo, _ := setupImportService()

	staged := &domain.Upload{
		ID:     uuid.New(),
		Kind:   domain.UploadKindSchedule,
		Status: domain.UploadStatusStaged,
	}
	entries := []domain.ScheduleEntry{
		{ID: uuid.New(), UploadID: staged.ID, CustomerCode: "CUST1", PartNumber: "P-100"},
	}
	uploadRepo.On("GetByID", mock.Anything, staged.ID).Return(staged, nil)
	scheduleRepo.On("ListByUpload", mock.Anything, staged.ID).Return(entries, nil)

	got, err := svc.ListScheduleEntries(context.Background(), staged.ID)
	assert.NoError(t, err)
	assert.Equal(t, entries, got)
}

func TestImportService_ListScheduleEntries_WrongKind(t *testing.T) {
	svc, uploadRepo, _, scheduleRepo, _ := setupImportService()

	upload := &domain.Upload{ID: uuid.New(), Kind: domain.UploadKindInvoice, Status: domain.UploadStatusStaged}
	uploadRepo.On("GetByID", mock.Anything, upload.ID).Return(upload, nil)

	got, err := svc.ListScheduleEntries(context.Background(), upload.ID)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	scheduleRepo.AssertNotCalled(t, "ListByUpload", mock.Anything, mock.Anything)
}

// --- GetDownloadURL ---

func TestImportService_GetDownloadURL(t *testing.T) {
	svc, uploadRepo, _, _, storage := setupImportService()

	upload := &domain.Upload{
		ID:       uuid.New(),
		S3Bucket: "test-bucket",
		S3Key:    "uploads/invoice/abc/invoices.xlsx",
		Status:   domain.UploadStatusConfirmed,
	}
	uploadRepo.On("GetByID", mock.Anything, upload.ID).Return(upload, nil)
	storage.On("GetPresignedURL", mock.Anything, "test-bucket", upload.S3Key, int64(900)).
		Return("https://signed.example/url", nil)

	url, err := svc.GetDownloadURL(context.Background(), upload.ID)
	assert.NoError(t, err)
	assert.Equal(t, "https://signed.example/url", url)
}
