package ingest_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"dockpass/internal/domain"
	"dockpass/internal/ingest"
)

func TestNormalizeInvoicesGroupsByInvoiceNo(t *testing.T) {
	rows := []ingest.InvoiceRow{
		{RowNo: 2, InvoiceNo: "INV-100", CustomerName: "Acme Auto", CustomerCode: "ACME", CustomerItemCode: "C-100", InternalPartCode: "P-100", Quantity: "10"},
		{RowNo: 3, InvoiceNo: "INV-100", CustomerName: "Acme Auto", CustomerCode: "ACME", CustomerItemCode: "C-200", InternalPartCode: "P-200", Quantity: "4"},
		{RowNo: 4, InvoiceNo: "INV-101", CustomerName: "Beta Motors", CustomerCode: "BETA", CustomerItemCode: "C-300", InternalPartCode: "P-300", Quantity: "7"},
	}

	invoices, errCount := ingest.NormalizeInvoices(rows, uuid.New())

	assert.Equal(t, 0, errCount)
	assert.Len(t, invoices, 2)

	assert.Equal(t, "INV-100", invoices[0].InvoiceNo)
	assert.Equal(t, "Acme Auto", invoices[0].CustomerName)
	assert.Equal(t, 14, invoices[0].TotalQuantity)
	assert.Len(t, invoices[0].Items, 2)
	assert.Equal(t, invoices[0].ID, invoices[0].Items[0].InvoiceID)

	assert.Equal(t, "INV-101", invoices[1].InvoiceNo)
	assert.Equal(t, 7, invoices[1].TotalQuantity)
}

func TestNormalizeInvoicesMarksErrorRows(t *testing.T) {
	rows := []ingest.InvoiceRow{
		{RowNo: 2, InvoiceNo: "INV-100", CustomerName: "Acme Auto", CustomerItemCode: "C-100", Quantity: "10"},
		{RowNo: 3, InvoiceNo: "INV-100", CustomerName: "Acme Auto", CustomerItemCode: "", Quantity: "5"},
		{RowNo: 4, InvoiceNo: "INV-100", CustomerName: "Acme Auto", CustomerItemCode: "C-300", Quantity: "abc"},
		{RowNo: 5, InvoiceNo: "", CustomerName: "Acme Auto", CustomerItemCode: "C-400", Quantity: "3"},
	}

	invoices, errCount := ingest.NormalizeInvoices(rows, uuid.New())

	assert.Equal(t, 3, errCount)

	inv := invoices[0]
	assert.Len(t, inv.Items, 3)
	assert.Equal(t, domain.MatchStatusUnmatched, inv.Items[0].MatchStatus)
	assert.Equal(t, domain.MatchStatusError, inv.Items[1].MatchStatus)
	assert.Equal(t, "missing customer item code", inv.Items[1].RowError)
	assert.Equal(t, domain.MatchStatusError, inv.Items[2].MatchStatus)
	assert.Contains(t, inv.Items[2].RowError, "bad quantity")

	// Error rows never contribute to the invoice total.
	assert.Equal(t, 10, inv.TotalQuantity)

	// The row with no invoice number surfaces as its own error bucket.
	assert.Len(t, invoices, 2)
	assert.Equal(t, "missing invoice number", invoices[1].Items[0].RowError)
}

func TestNormalizeInvoicesTrimsAndParsesQuantities(t *testing.T) {
	rows := []ingest.InvoiceRow{
		{RowNo: 2, InvoiceNo: " INV-100 ", CustomerName: " Acme ", CustomerItemCode: " C-100 ", InternalPartCode: " P-100 ", Quantity: "1,200.0"},
	}

	invoices, errCount := ingest.NormalizeInvoices(rows, uuid.New())

	assert.Equal(t, 0, errCount)
	assert.Equal(t, "INV-100", invoices[0].InvoiceNo)
	assert.Equal(t, "C-100", invoices[0].Items[0].CustomerItemCode)
	assert.Equal(t, "P-100", invoices[0].Items[0].InternalPartCode)
	assert.Equal(t, 1200, invoices[0].Items[0].Quantity)
}

func TestNormalizeSchedule(t *testing.T) {
	rows := []ingest.ScheduleRow{
		{RowNo: 2, SheetOrigin: "ACME", CustomerCode: "ACME", PartNumber: "C-100", DeliveryDate: "2026-08-30", DeliveryTime: "08:00", UnloadingLocation: "Dock 1"},
		{RowNo: 3, SheetOrigin: "ACME", CustomerCode: "ACME", PartNumber: "C-200", DeliveryDate: "30/08/2026", DeliveryTime: "", UnloadingLocation: "Dock 2"},
		{RowNo: 4, SheetOrigin: "ACME", CustomerCode: "", PartNumber: "C-300"},
		{RowNo: 5, SheetOrigin: "ACME", CustomerCode: "ACME", PartNumber: "C-400", DeliveryDate: "not a date"},
	}

	entries, errCount := ingest.NormalizeSchedule(rows, uuid.New())

	assert.Equal(t, 1, errCount)
	assert.Len(t, entries, 3)

	want := time.Date(2026, 8, 30, 0, 0, 0, 0, time.Local)
	assert.Equal(t, want, *entries[0].DeliveryDate)
	assert.Equal(t, want, *entries[1].DeliveryDate)
	assert.Equal(t, "Dock 1", entries[0].UnloadingLocation)

	// An unparseable date keeps the row but leaves the date unset.
	assert.Nil(t, entries[2].DeliveryDate)
	assert.Equal(t, "C-400", entries[2].PartNumber)
}

func TestSummarizeErrors(t *testing.T) {
	rows := []ingest.InvoiceRow{
		{RowNo: 4, InvoiceNo: "INV-100", CustomerName: "Acme", CustomerItemCode: "", Quantity: "5"},
		{RowNo: 2, InvoiceNo: "INV-100", CustomerName: "Acme", CustomerItemCode: "C-100", Quantity: "x"},
		{RowNo: 3, InvoiceNo: "INV-100", CustomerName: "Acme", CustomerItemCode: "C-200", Quantity: "5"},
	}
	invoices, _ := ingest.NormalizeInvoices(rows, uuid.New())

	errs := ingest.SummarizeErrors(invoices)

	assert.Len(t, errs, 2)
	assert.Contains(t, errs[0], "row 2")
	assert.Contains(t, errs[1], "row 4")
}
