package audit

import (
	"sort"
	"strings"
	"time"

	"dockpass/internal/domain"
)

// ScheduleIndex is a pure lookup structure over the confirmed delivery
// schedule: customer code → set of scheduled part numbers, plus filtered
// lookups over (customer, date, location, time). It is rebuilt from the
// store whenever the schedule or a filter changes and holds no other state.
type ScheduleIndex struct {
	entries       []domain.ScheduleEntry
	partsByCust   map[string]map[string]struct{}
	entriesByCust map[string][]int
}

// NewScheduleIndex builds an index from schedule entries. Customer codes
// and part numbers are trimmed; entries without a customer code are ignored.
func NewScheduleIndex(entries []domain.ScheduleEntry) *ScheduleIndex {
	idx := &ScheduleIndex{
		entries:       entries,
		partsByCust:   make(map[string]map[string]struct{}),
		entriesByCust: make(map[string][]int),
	}
	for i := range entries {
		cust := strings.TrimSpace(entries[i].CustomerCode)
		if cust == "" {
			continue
		}
		idx.entriesByCust[cust] = append(idx.entriesByCust[cust], i)
		part := strings.TrimSpace(entries[i].PartNumber)
		if part == "" {
			continue
		}
		if idx.partsByCust[cust] == nil {
			idx.partsByCust[cust] = make(map[string]struct{})
		}
		idx.partsByCust[cust][part] = struct{}{}
	}
	return idx
}

// HasCustomer reports whether the customer code appears in the schedule.
func (x *ScheduleIndex) HasCustomer(customerCode string) bool {
	_, ok := x.entriesByCust[strings.TrimSpace(customerCode)]
	return ok
}

// HasPart reports whether the part number is scheduled for the customer.
func (x *ScheduleIndex) HasPart(customerCode, partNumber string) bool {
	parts, ok := x.partsByCust[strings.TrimSpace(customerCode)]
	if !ok {
		return false
	}
	_, ok = parts[strings.TrimSpace(partNumber)]
	return ok
}

// Parts returns the set of scheduled part numbers for a customer.
func (x *ScheduleIndex) Parts(customerCode string) map[string]struct{} {
	return x.partsByCust[strings.TrimSpace(customerCode)]
}

// CustomerCodes returns all customer codes in the schedule, sorted.
func (x *ScheduleIndex) CustomerCodes() []string {
	codes := make([]string, 0, len(x.entriesByCust))
	for c := range x.entriesByCust {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// ScheduleFilter narrows schedule entries by the operator's selections.
// Nil/empty fields are unset and do not constrain the lookup.
type ScheduleFilter struct {
	CustomerCode string
	DeliveryDate *time.Time
	Locations    []string
	Times        []string
}

// FilteredParts returns the part numbers from schedule entries satisfying
// every set predicate of the filter. Dates are compared as calendar days in
// local time, never as instants.
func (x *ScheduleIndex) FilteredParts(f ScheduleFilter) map[string]struct{} {
	parts := make(map[string]struct{})
	for _, i := range x.matching(f) {
		part := strings.TrimSpace(x.entries[i].PartNumber)
		if part != "" {
			parts[part] = struct{}{}
		}
	}
	return parts
}

// DatesFor returns the distinct delivery dates scheduled for a customer,
// normalized to local midnight, ascending.
func (x *ScheduleIndex) DatesFor(customerCode string) []time.Time {
	seen := make(map[time.Time]struct{})
	var dates []time.Time
	for _, i := range x.entriesByCust[strings.TrimSpace(customerCode)] {
		if x.entries[i].DeliveryDate == nil {
			continue
		}
		d := DayStart(*x.entries[i].DeliveryDate)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		dates = append(dates, d)
	}
	sort.Slice(dates, func(a, b int) bool { return dates[a].Before(dates[b]) })
	return dates
}

// LocationsFor returns the distinct unloading locations for a customer on a
// delivery date, sorted.
func (x *ScheduleIndex) LocationsFor(customerCode string, date time.Time) []string {
	f := ScheduleFilter{CustomerCode: customerCode, DeliveryDate: &date}
	seen := make(map[string]struct{})
	var locations []string
	for _, i := range x.matching(f) {
		loc := strings.TrimSpace(x.entries[i].UnloadingLocation)
		if loc == "" {
			continue
		}
		if _, ok := seen[loc]; ok {
			continue
		}
		seen[loc] = struct{}{}
		locations = append(locations, loc)
	}
	sort.Strings(locations)
	return locations
}

// TimesFor returns the distinct delivery times for a customer on a delivery
// date at the given locations, sorted.
func (x *ScheduleIndex) TimesFor(customerCode string, date time.Time, locations []string) []string {
	f := ScheduleFilter{CustomerCode: customerCode, DeliveryDate: &date, Locations: locations}
	seen := make(map[string]struct{})
	var times []string
	for _, i := range x.matching(f) {
		t := strings.TrimSpace(x.entries[i].DeliveryTime)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		times = append(times, t)
	}
	sort.Strings(times)
	return times
}

// matching returns the indexes of entries satisfying every set predicate.
func (x *ScheduleIndex) matching(f ScheduleFilter) []int {
	var out []int
	locSet := toSet(f.Locations)
	timeSet := toSet(f.Times)
	for _, i := range x.entriesByCust[strings.TrimSpace(f.CustomerCode)] {
		e := &x.entries[i]
		if f.DeliveryDate != nil {
			if e.DeliveryDate == nil || !SameDay(*e.DeliveryDate, *f.DeliveryDate) {
				continue
			}
		}
		if len(locSet) > 0 {
			if _, ok := locSet[strings.TrimSpace(e.UnloadingLocation)]; !ok {
				continue
			}
		}
		if len(timeSet) > 0 {
			if _, ok := timeSet[strings.TrimSpace(e.DeliveryTime)]; !ok {
				continue
			}
		}
		out = append(out, i)
	}
	return out
}

// DayStart normalizes a timestamp to local midnight so schedule dates are
// compared as calendar days rather than instants.
func DayStart(t time.Time) time.Time {
	y, m, d := t.Local().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// SameDay reports whether two timestamps fall on the same local calendar day.
func SameDay(a, b time.Time) bool {
	return DayStart(a).Equal(DayStart(b))
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}
