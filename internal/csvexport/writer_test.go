package csvexport_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"dockpass/internal/csvexport"
	"dockpass/internal/domain"
)

func TestWriteDispatched(t *testing.T) {
	auditDate := time.Date(2026, 8, 29, 14, 0, 0, 0, time.UTC)
	dispatchedAt := time.Date(2026, 8, 30, 9, 30, 0, 0, time.UTC)
	inv := &domain.Invoice{
		InvoiceNo:     "INV-100",
		CustomerName:  "Acme Auto",
		CustomerCode:  "ACME",
		TotalQuantity: 240,
		ScannedCount:  3,
		AuditDate:     &auditDate,
		VehicleNumber: "KA-01-AB-1234",
		DispatchedAt:  &dispatchedAt,
	}

	var buf bytes.Buffer
	buf.Write(csvexport.BOM)
	w := csvexport.NewWriter(&buf)
	assert.NoError(t, w.WriteDispatchHeader())
	assert.NoError(t, w.WriteDispatched([]*domain.Invoice{inv}))
	assert.NoError(t, w.Flush())

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, string(csvexport.BOM)))

	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(out, string(csvexport.BOM))), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Invoice Number")
	assert.Contains(t, lines[1], "INV-100")
	assert.Contains(t, lines[1], "KA-01-AB-1234")
	assert.Contains(t, lines[1], "240")
	assert.Contains(t, lines[1], dispatchedAt.Format(time.RFC3339))
}

func TestWriteAlertsRecoversScanOrder(t *testing.T) {
	base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	customer, _ := json.Marshal(domain.ScanEvent{
		SourceLabel: domain.LabelCustomer, RawValue: "C-100|20", Timestamp: base.Add(time.Second),
	})
	internal, _ := json.Marshal(domain.ScanEvent{
		SourceLabel: domain.LabelInternal, RawValue: "C-100|20", Timestamp: base,
	})
	alert := domain.MismatchAlert{
		ID:           uuid.New(),
		InvoiceID:    uuid.New(),
		UserID:       uuid.New(),
		CustomerScan: customer,
		InternalScan: internal,
		Step:         domain.StepDocAudit,
		NotifyStatus: domain.NotifyStatusPending,
		CreatedAt:    base.Add(2 * time.Second),
	}

	var buf bytes.Buffer
	w := csvexport.NewWriter(&buf)
	assert.NoError(t, w.WriteAlertHeader())
	assert.NoError(t, w.WriteAlerts([]domain.MismatchAlert{alert}))
	assert.NoError(t, w.Flush())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	// The internal label was scanned first: the wrong-order mismatch.
	assert.Contains(t, lines[1], string(domain.LabelInternal))
	assert.Contains(t, lines[1], "C-100|20")
	assert.Contains(t, lines[1], domain.StepDocAudit)
}

func TestWriteDispatchedEmptyTimestamps(t *testing.T) {
	var buf bytes.Buffer
	w := csvexport.NewWriter(&buf)
	assert.NoError(t, w.WriteDispatched([]*domain.Invoice{{InvoiceNo: "INV-1"}}))
	assert.NoError(t, w.Flush())

	assert.Equal(t, "INV-1,,,0,0,,,\n", buf.String())
}
