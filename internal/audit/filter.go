package audit

import (
	"sort"
	"strings"
	"time"

	"dockpass/internal/domain"
)

// Selection is the operator's four-stage cascading filter: customer →
// delivery date → unloading location(s) → delivery time(s). Setting an
// upstream stage clears every downstream stage, so stale narrow filters
// can never survive a broader change.
type Selection struct {
	CustomerCode string     `json:"customer_code"`
	DeliveryDate *time.Time `json:"delivery_date"`
	Locations    []string   `json:"locations"`
	Times        []string   `json:"times"`
}

// SetCustomer selects a customer and clears date, locations and times.
func (s *Selection) SetCustomer(code string) {
	s.CustomerCode = strings.TrimSpace(code)
	s.DeliveryDate = nil
	s.Locations = nil
	s.Times = nil
}

// SetDate selects a delivery date and clears locations and times.
func (s *Selection) SetDate(d time.Time) {
	day := DayStart(d)
	s.DeliveryDate = &day
	s.Locations = nil
	s.Times = nil
}

// SetLocations selects unloading locations and clears times.
func (s *Selection) SetLocations(locations []string) {
	s.Locations = locations
	s.Times = nil
}

// SetTimes selects delivery times.
func (s *Selection) SetTimes(times []string) {
	s.Times = times
}

// Filter converts the selection into a schedule filter.
func (s *Selection) Filter() ScheduleFilter {
	return ScheduleFilter{
		CustomerCode: s.CustomerCode,
		DeliveryDate: s.DeliveryDate,
		Locations:    s.Locations,
		Times:        s.Times,
	}
}

// matchedParts collects the customer item codes appearing on matched lines
// of the given invoices.
func matchedParts(invoices []*domain.Invoice) map[string]struct{} {
	parts := make(map[string]struct{})
	for _, inv := range invoices {
		for _, u := range UniqueCustomerItems(inv) {
			parts[u.Code] = struct{}{}
		}
	}
	return parts
}

// invoicesForCustomer narrows in-scope invoices to one customer code.
func invoicesForCustomer(invoices []*domain.Invoice, customerCode string) []*domain.Invoice {
	customerCode = strings.TrimSpace(customerCode)
	var out []*domain.Invoice
	for _, inv := range invoices {
		if strings.TrimSpace(inv.CustomerCode) == customerCode {
			out = append(out, inv)
		}
	}
	return out
}

// CustomerOptions returns the customer codes that are both present in the
// schedule and carried by at least one in-scope invoice, sorted.
func CustomerOptions(idx *ScheduleIndex, invoices []*domain.Invoice) []string {
	inScope := InScope(invoices, idx, domain.ViewNeedsAudit)
	seen := make(map[string]struct{})
	var codes []string
	for _, inv := range inScope {
		code := strings.TrimSpace(inv.CustomerCode)
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// DateOptions returns delivery dates whose schedule entries reference at
// least one part number matched by the customer's in-scope invoices.
func DateOptions(idx *ScheduleIndex, invoices []*domain.Invoice, customerCode string) []time.Time {
	parts := matchedParts(invoicesForCustomer(InScope(invoices, idx, domain.ViewNeedsAudit), customerCode))
	var out []time.Time
	for _, d := range idx.DatesFor(customerCode) {
		date := d
		sched := idx.FilteredParts(ScheduleFilter{CustomerCode: customerCode, DeliveryDate: &date})
		if intersects(sched, parts) {
			out = append(out, d)
		}
	}
	return out
}

// LocationOptions returns unloading locations valid under the chosen
// customer and date, restricted to schedule entries whose parts intersect
// the invoices' matched items.
func LocationOptions(idx *ScheduleIndex, invoices []*domain.Invoice, customerCode string, date time.Time) []string {
	parts := matchedParts(invoicesForCustomer(InScope(invoices, idx, domain.ViewNeedsAudit), customerCode))
	var out []string
	for _, loc := range idx.LocationsFor(customerCode, date) {
		d := date
		sched := idx.FilteredParts(ScheduleFilter{CustomerCode: customerCode, DeliveryDate: &d, Locations: []string{loc}})
		if intersects(sched, parts) {
			out = append(out, loc)
		}
	}
	return out
}

// TimeOptions returns delivery times valid under the chosen customer, date
// and locations.
func TimeOptions(idx *ScheduleIndex, invoices []*domain.Invoice, customerCode string, date time.Time, locations []string) []string {
	parts := matchedParts(invoicesForCustomer(InScope(invoices, idx, domain.ViewNeedsAudit), customerCode))
	var out []string
	for _, t := range idx.TimesFor(customerCode, date, locations) {
		d := date
		sched := idx.FilteredParts(ScheduleFilter{CustomerCode: customerCode, DeliveryDate: &d, Locations: locations, Times: []string{t}})
		if intersects(sched, parts) {
			out = append(out, t)
		}
	}
	return out
}

// SelectInvoices resolves the invoice set for a full selection: every
// in-scope, audit-pending invoice of the chosen customer having at least
// one matched line whose customer item code appears among the schedule
// entries satisfying all chosen filters. Sorted by invoice number,
// lexicographic ascending.
func SelectInvoices(idx *ScheduleIndex, invoices []*domain.Invoice, sel Selection) []*domain.Invoice {
	scheduled := idx.FilteredParts(sel.Filter())
	candidates := invoicesForCustomer(InScope(invoices, idx, domain.ViewNeedsAudit), sel.CustomerCode)

	var out []*domain.Invoice
	for _, inv := range candidates {
		for _, u := range UniqueCustomerItems(inv) {
			if _, ok := scheduled[u.Code]; ok {
				out = append(out, inv)
				break
			}
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].InvoiceNo < out[b].InvoiceNo })
	return out
}

func intersects(a, b map[string]struct{}) bool {
	for k := range a {
		if _, ok := b[k]; ok {
			return true
		}
	}
	return false
}
