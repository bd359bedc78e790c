package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"dockpass/internal/audit"
	"dockpass/internal/domain"
	"dockpass/internal/port"
)

// StartBatchInput is the DTO for opening a dispatch batch.
type StartBatchInput struct {
	InvoiceIDs []uuid.UUID `json:"invoice_ids" binding:"required,min=1"`
}

// LoadScanInput is the DTO for one dispatch load scan.
type LoadScanInput struct {
	SourceLabel domain.LabelSource `json:"source_label" binding:"required"`
	RawValue    string             `json:"raw_value" binding:"required"`
	PartCode    string             `json:"part_code"`
	BinNumber   string             `json:"bin_number"`
}

// IssueGatepassInput is the DTO for gatepass issuance.
type IssueGatepassInput struct {
	VehicleNumber string `json:"vehicle_number" binding:"required"`
}

// BatchState is the dispatch batch view returned to the loading client.
type BatchState struct {
	CustomerName  string      `json:"customer_name"`
	InvoiceIDs    []uuid.UUID `json:"invoice_ids"`
	InvoiceNos    []string    `json:"invoice_nos"`
	ExpectedCount int         `json:"expected_count"`
	LoadedCount   int         `json:"loaded_count"`
	Complete      bool        `json:"complete"`
}

// LoadScanResponse reports the result of one load scan.
type LoadScanResponse struct {
	InvoiceNo string      `json:"invoice_no"`
	ItemCode  string      `json:"item_code"`
	Batch     *BatchState `json:"batch"`
}

// DispatchService drives the dispatch flow: batch selection over audited
// invoices, load verification scanning and gated gatepass issuance.
type DispatchService interface {
	StartBatch(ctx context.Context, userID uuid.UUID, input StartBatchInput) (*BatchState, error)
	GetBatch(ctx context.Context, userID uuid.UUID) (*BatchState, error)
	EndBatch(userID uuid.UUID)
	LoadScan(ctx context.Context, userID uuid.UUID, input LoadScanInput) (*LoadScanResponse, error)
	IssueGatepass(ctx context.Context, userID uuid.UUID, input IssueGatepassInput) (*domain.Gatepass, *audit.GatepassPayload, error)

	GetGatepass(ctx context.Context, gatepassID uuid.UUID) (*domain.Gatepass, error)
	ListGatepasses(ctx context.Context, offset, limit int) ([]domain.Gatepass, int, error)
}

type dispatchService struct {
	invoiceRepo  port.InvoiceRepository
	gatepassRepo port.GatepassRepository

	mu      sync.Mutex
	batches map[uuid.UUID][]uuid.UUID // user → selected invoice ids
}

// NewDispatchService creates a new DispatchService implementation.
func NewDispatchService(invoiceRepo port.InvoiceRepository, gatepassRepo port.GatepassRepository) DispatchService {
	return &dispatchService{
		invoiceRepo:  invoiceRepo,
		gatepassRepo: gatepassRepo,
		batches:      make(map[uuid.UUID][]uuid.UUID),
	}
}

func (s *dispatchService) StartBatch(ctx context.Context, userID uuid.UUID, input StartBatchInput) (*BatchState, error) {
	batch, err := s.loadBatch(ctx, input.InvoiceIDs)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.batches[userID] = input.InvoiceIDs
	s.mu.Unlock()

	log.Printf("dispatchService.StartBatch: user %s opened batch over %d invoices for %s",
		userID, len(input.InvoiceIDs), batch.Invoices[0].CustomerName)
	return batchState(batch), nil
}

func (s *dispatchService) GetBatch(ctx context.Context, userID uuid.UUID) (*BatchState, error) {
	ids, err := s.batchIDs(userID)
	if err != nil {
		return nil, err
	}
	batch, err := s.loadBatch(ctx, ids)
	if err != nil {
		return nil, err
	}
	return batchState(batch), nil
}

func (s *dispatchService) EndBatch(userID uuid.UUID) {
	s.mu.Lock()
	delete(s.batches, userID)
	s.mu.Unlock()
}

// LoadScan verifies one physical item against the audit record. The batch
// is rebuilt from the store per scan, so loaded stamps persisted by
// earlier scans are always honored.
func (s *dispatchService) LoadScan(ctx context.Context, userID uuid.UUID, input LoadScanInput) (*LoadScanResponse, error) {
	ids, err := s.batchIDs(userID)
	if err != nil {
		return nil, err
	}
	batch, err := s.loadBatch(ctx, ids)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	ev := domain.ScanEvent{
		SourceLabel: input.SourceLabel,
		RawValue:    input.RawValue,
		PartCode:    input.PartCode,
		BinNumber:   input.BinNumber,
		Timestamp:   now,
	}

	result, err := batch.RecordLoad(ev, userID, now)
	if err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.MarkLoaded(ctx, result.Item.ID, userID, now); err != nil {
		return nil, err
	}

	return &LoadScanResponse{
		InvoiceNo: result.Invoice.InvoiceNo,
		ItemCode:  result.Item.CustomerItemCode,
		Batch:     batchState(batch),
	}, nil
}

// IssueGatepass closes the batch: every audited item must be loaded and a
// vehicle number supplied. The invoices are stamped dispatched and the
// gatepass persisted; the returned payload feeds the document/QR renderer.
func (s *dispatchService) IssueGatepass(ctx context.Context, userID uuid.UUID, input IssueGatepassInput) (*domain.Gatepass, *audit.GatepassPayload, error) {
	ids, err := s.batchIDs(userID)
	if err != nil {
		return nil, nil, err
	}
	batch, err := s.loadBatch(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	gatepassNo, err := s.gatepassRepo.NextNumber(ctx)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	gp, payload, err := batch.Issue(gatepassNo, input.VehicleNumber, userID, now)
	if err != nil {
		return nil, nil, err
	}

	if err := s.invoiceRepo.StampDispatched(ctx, gp.InvoiceIDs, gp.VehicleNumber, userID, now); err != nil {
		return nil, nil, err
	}
	if err := s.gatepassRepo.Create(ctx, gp); err != nil {
		return nil, nil, err
	}
	s.EndBatch(userID)

	log.Printf("dispatchService.IssueGatepass: issued %s for vehicle %s covering %d invoices",
		gp.GatepassNo, gp.VehicleNumber, len(gp.InvoiceIDs))
	return gp, payload, nil
}

func (s *dispatchService) GetGatepass(ctx context.Context, gatepassID uuid.UUID) (*domain.Gatepass, error) {
	return s.gatepassRepo.GetByID(ctx, gatepassID)
}

func (s *dispatchService) ListGatepasses(ctx context.Context, offset, limit int) ([]domain.Gatepass, int, error) {
	return s.gatepassRepo.List(ctx, offset, limit)
}

func (s *dispatchService) batchIDs(userID uuid.UUID) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids, ok := s.batches[userID]
	if !ok {
		return nil, domain.ErrNoDispatchBatch
	}
	return ids, nil
}

func (s *dispatchService) loadBatch(ctx context.Context, ids []uuid.UUID) (*audit.DispatchBatch, error) {
	invoices, err := s.invoiceRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return audit.NewDispatchBatch(invoices)
}

func batchState(batch *audit.DispatchBatch) *BatchState {
	state := &BatchState{
		CustomerName:  batch.Invoices[0].CustomerName,
		ExpectedCount: batch.ExpectedBarcodeCount(),
		LoadedCount:   batch.LoadedCount(),
		Complete:      batch.Complete(),
	}
	for _, inv := range batch.Invoices {
		state.InvoiceIDs = append(state.InvoiceIDs, inv.ID)
		state.InvoiceNos = append(state.InvoiceNos, inv.InvoiceNo)
	}
	return state
}
