package audit

import (
	"strings"

	"dockpass/internal/domain"
)

// ScanOutcome is the resolution of a scan pair.
type ScanOutcome string

const (
	// OutcomePending means the pair is still waiting for its second scan.
	OutcomePending  ScanOutcome = "pending"
	OutcomeMatch    ScanOutcome = "match"
	OutcomeMismatch ScanOutcome = "mismatch"
)

// ScanPair holds the ephemeral state of one two-scan interaction:
// Empty → one label scanned → resolved. The label type that arrived first
// is recorded once per pair; re-scanning the same label before resolution
// replaces its value but never changes which label came first. Clearing a
// half-open pair discards it with no side effects.
type ScanPair struct {
	customer *domain.ScanEvent
	internal *domain.ScanEvent
	first    domain.LabelSource
}

// Record stores a scan event on its label slot.
func (p *ScanPair) Record(ev domain.ScanEvent) {
	if p.first == "" {
		p.first = ev.SourceLabel
	}
	evCopy := ev
	switch ev.SourceLabel {
	case domain.LabelCustomer:
		p.customer = &evCopy
	case domain.LabelInternal:
		p.internal = &evCopy
	}
}

// Complete reports whether both labels have been scanned.
func (p *ScanPair) Complete() bool {
	return p.customer != nil && p.internal != nil
}

// First returns which label type was scanned first, or "" for an empty pair.
func (p *ScanPair) First() domain.LabelSource {
	return p.first
}

// Snapshots returns the recorded customer and internal scans.
func (p *ScanPair) Snapshots() (customer, internal *domain.ScanEvent) {
	return p.customer, p.internal
}

// Resolve applies the two-scan protocol to a complete pair:
//
//   - customer label first and equal trimmed payloads → match
//   - internal label first → mismatch, regardless of payload equality
//   - customer label first but differing payloads → mismatch
//
// The internal-first rule is deliberate: it forces the harder-to-skip
// customer label to be presented first, so a technician cannot satisfy the
// audit by scanning only the internal label. Payload equality does not
// rescue a wrong-order pair.
func (p *ScanPair) Resolve() ScanOutcome {
	if !p.Complete() {
		return OutcomePending
	}
	if p.first == domain.LabelInternal {
		return OutcomeMismatch
	}
	if strings.TrimSpace(p.customer.RawValue) == strings.TrimSpace(p.internal.RawValue) {
		return OutcomeMatch
	}
	return OutcomeMismatch
}

// Clear resets the pair to empty. Resolution always clears back to empty;
// an operator may also clear a half-open pair to abandon it.
func (p *ScanPair) Clear() {
	p.customer = nil
	p.internal = nil
	p.first = ""
}
