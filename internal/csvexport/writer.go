package csvexport

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"dockpass/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// dispatchColumns defines the dispatch register header row.
var dispatchColumns = []string{
	"Invoice Number",
	"Customer Name",
	"Customer Code",
	"Total Quantity",
	"Items Audited",
	"Audit Date",
	"Vehicle Number",
	"Dispatched At",
}

// alertColumns defines the mismatch register header row.
var alertColumns = []string{
	"Invoice ID",
	"Step",
	"Customer Scan Value",
	"Internal Scan Value",
	"First Label",
	"Recorded By",
	"Recorded At",
	"Notify Status",
}

// Writer wraps csv.Writer for exporting dispatch and mismatch registers.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteDispatchHeader writes the dispatch register header row.
func (w *Writer) WriteDispatchHeader() error {
	return w.csv.Write(dispatchColumns)
}

// WriteDispatched converts dispatched invoices to CSV rows and writes them.
func (w *Writer) WriteDispatched(invoices []*domain.Invoice) error {
	for _, inv := range invoices {
		if err := w.csv.Write(dispatchedRow(inv)); err != nil {
			return err
		}
	}
	return nil
}

// WriteAlertHeader writes the mismatch register header row.
func (w *Writer) WriteAlertHeader() error {
	return w.csv.Write(alertColumns)
}

// WriteAlerts converts mismatch alerts to CSV rows and writes them.
func (w *Writer) WriteAlerts(alerts []domain.MismatchAlert) error {
	for i := range alerts {
		if err := w.csv.Write(alertRow(&alerts[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() error {
	w.csv.Flush()
	return w.csv.Error()
}

func dispatchedRow(inv *domain.Invoice) []string {
	return []string{
		inv.InvoiceNo,
		inv.CustomerName,
		inv.CustomerCode,
		strconv.Itoa(inv.TotalQuantity),
		strconv.Itoa(inv.ScannedCount),
		formatTimePtr(inv.AuditDate),
		inv.VehicleNumber,
		formatTimePtr(inv.DispatchedAt),
	}
}

func alertRow(a *domain.MismatchAlert) []string {
	return []string{
		a.InvoiceID.String(),
		a.Step,
		scanValue(a.CustomerScan),
		scanValue(a.InternalScan),
		firstLabel(a),
		a.UserID.String(),
		a.CreatedAt.Format(time.RFC3339),
		string(a.NotifyStatus),
	}
}

// scanValue extracts the raw barcode payload from a stored scan snapshot.
func scanValue(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var ev domain.ScanEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return ""
	}
	return ev.RawValue
}

// firstLabel recovers which label was scanned first from the snapshot
// timestamps. An internal-first pair is the wrong-order case.
func firstLabel(a *domain.MismatchAlert) string {
	var customer, internal domain.ScanEvent
	if err := json.Unmarshal(a.CustomerScan, &customer); err != nil {
		return ""
	}
	if err := json.Unmarshal(a.InternalScan, &internal); err != nil {
		return string(domain.LabelCustomer)
	}
	if internal.Timestamp.Before(customer.Timestamp) {
		return string(domain.LabelInternal)
	}
	return string(domain.LabelCustomer)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
