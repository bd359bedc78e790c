package audit_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"dockpass/internal/audit"
	"dockpass/internal/domain"
)

func scan(label domain.LabelSource, raw string) domain.ScanEvent {
	return domain.ScanEvent{
		SourceLabel: label,
		RawValue:    raw,
		PartCode:    "",
		Timestamp:   time.Now(),
	}
}

func TestScanPair_CustomerFirstEqualPayloads_Match(t *testing.T) {
	var p audit.ScanPair
	p.Record(scan(domain.LabelCustomer, "ABC123"))
	assert.Equal(t, audit.OutcomePending, p.Resolve())
	assert.False(t, p.Complete())

	p.Record(scan(domain.LabelInternal, "ABC123"))
	assert.True(t, p.Complete())
	assert.Equal(t, audit.OutcomeMatch, p.Resolve())
}

func TestScanPair_InternalFirst_AlwaysMismatch(t *testing.T) {
	// Equal payloads do not rescue a wrong-order pair.
	var p audit.ScanPair
	p.Record(scan(domain.LabelInternal, "XYZ"))
	p.Record(scan(domain.LabelCustomer, "XYZ"))
	assert.Equal(t, audit.OutcomeMismatch, p.Resolve())
	assert.Equal(t, domain.LabelInternal, p.First())
}

func TestScanPair_CustomerFirstDifferentPayloads_Mismatch(t *testing.T) {
	var p audit.ScanPair
	p.Record(scan(domain.LabelCustomer, "ABC123"))
	p.Record(scan(domain.LabelInternal, "ABC999"))
	assert.Equal(t, audit.OutcomeMismatch, p.Resolve())
}

func TestScanPair_PayloadsComparedTrimmed(t *testing.T) {
	var p audit.ScanPair
	p.Record(scan(domain.LabelCustomer, "  ABC123 "))
	p.Record(scan(domain.LabelInternal, "ABC123"))
	assert.Equal(t, audit.OutcomeMatch, p.Resolve())
}

func TestScanPair_RescanSameLabelReplacesValueKeepsFirst(t *testing.T) {
	var p audit.ScanPair
	p.Record(scan(domain.LabelCustomer, "WRONG"))
	p.Record(scan(domain.LabelCustomer, "RIGHT"))
	assert.Equal(t, domain.LabelCustomer, p.First())

	p.Record(scan(domain.LabelInternal, "RIGHT"))
	assert.Equal(t, audit.OutcomeMatch, p.Resolve())
}

func TestScanPair_ClearDiscardsState(t *testing.T) {
	var p audit.ScanPair
	p.Record(scan(domain.LabelInternal, "XYZ"))
	p.Clear()

	assert.False(t, p.Complete())
	assert.Equal(t, domain.LabelSource(""), p.First())

	// After clearing, a fresh correctly-ordered pair matches.
	p.Record(scan(domain.LabelCustomer, "XYZ"))
	p.Record(scan(domain.LabelInternal, "XYZ"))
	assert.Equal(t, audit.OutcomeMatch, p.Resolve())
}
