package audit_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"dockpass/internal/audit"
	"dockpass/internal/domain"
)

func datePtr(t time.Time) *time.Time { return &t }

func scheduleEntry(customer, part string, date time.Time, deliveryTime, location string) domain.ScheduleEntry {
	return domain.ScheduleEntry{
		CustomerCode:      customer,
		PartNumber:        part,
		DeliveryDate:      datePtr(date),
		DeliveryTime:      deliveryTime,
		UnloadingLocation: location,
		SheetOrigin:       "Sheet1",
	}
}

func TestScheduleIndex_PartsByCustomer(t *testing.T) {
	may1 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local)
	idx := audit.NewScheduleIndex([]domain.ScheduleEntry{
		scheduleEntry("C1", "P100", may1, "10:00", "L1"),
		scheduleEntry("C1", "P200", may1, "10:00", "L1"),
		scheduleEntry("C2", "P300", may1, "11:00", "L2"),
		scheduleEntry("  C1 ", " P400 ", may1, "12:00", "L1"), // trimmed
		{CustomerCode: "", PartNumber: "P999"},                // no customer, ignored
	})

	assert.True(t, idx.HasCustomer("C1"))
	assert.True(t, idx.HasCustomer("C2"))
	assert.False(t, idx.HasCustomer("C3"))

	assert.True(t, idx.HasPart("C1", "P100"))
	assert.True(t, idx.HasPart("C1", "P400"))
	assert.True(t, idx.HasPart("C1", " P100 "))
	assert.False(t, idx.HasPart("C1", "P300"))
	assert.False(t, idx.HasPart("C1", "p100")) // case sensitive

	assert.Equal(t, []string{"C1", "C2"}, idx.CustomerCodes())
}

func TestScheduleIndex_FilteredParts_AllPredicates(t *testing.T) {
	may1 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local)
	may2 := may1.AddDate(0, 0, 1)
	idx := audit.NewScheduleIndex([]domain.ScheduleEntry{
		scheduleEntry("C1", "P100", may1, "10:00", "L1"),
		scheduleEntry("C1", "P200", may1, "10:00", "L2"),
		scheduleEntry("C1", "P300", may1, "14:00", "L1"),
		scheduleEntry("C1", "P400", may2, "10:00", "L1"),
	})

	parts := idx.FilteredParts(audit.ScheduleFilter{
		CustomerCode: "C1",
		DeliveryDate: datePtr(may1),
		Locations:    []string{"L1"},
		Times:        []string{"10:00"},
	})
	assert.Len(t, parts, 1)
	assert.Contains(t, parts, "P100")

	// No time constraint: both L1 entries on may1.
	parts = idx.FilteredParts(audit.ScheduleFilter{
		CustomerCode: "C1",
		DeliveryDate: datePtr(may1),
		Locations:    []string{"L1"},
	})
	assert.Len(t, parts, 2)
	assert.Contains(t, parts, "P100")
	assert.Contains(t, parts, "P300")
}

func TestScheduleIndex_DateComparedAsCalendarDay(t *testing.T) {
	// Schedule holds a mid-day instant; filter uses late evening. Still the
	// same calendar day in local time, so the entry must match.
	noon := time.Date(2024, 5, 1, 12, 30, 0, 0, time.Local)
	evening := time.Date(2024, 5, 1, 23, 45, 0, 0, time.Local)
	idx := audit.NewScheduleIndex([]domain.ScheduleEntry{
		scheduleEntry("C1", "P100", noon, "10:00", "L1"),
	})

	parts := idx.FilteredParts(audit.ScheduleFilter{CustomerCode: "C1", DeliveryDate: datePtr(evening)})
	assert.Contains(t, parts, "P100")

	nextDay := evening.Add(time.Hour)
	parts = idx.FilteredParts(audit.ScheduleFilter{CustomerCode: "C1", DeliveryDate: datePtr(nextDay)})
	assert.Empty(t, parts)
}

func TestScheduleIndex_OptionLookups(t *testing.T) {
	may1 := time.Date(2024, 5, 1, 9, 0, 0, 0, time.Local)
	may2 := time.Date(2024, 5, 2, 9, 0, 0, 0, time.Local)
	idx := audit.NewScheduleIndex([]domain.ScheduleEntry{
		scheduleEntry("C1", "P100", may1, "10:00", "L1"),
		scheduleEntry("C1", "P200", may1, "14:00", "L2"),
		scheduleEntry("C1", "P300", may2, "10:00", "L1"),
	})

	dates := idx.DatesFor("C1")
	assert.Len(t, dates, 2)
	assert.Equal(t, audit.DayStart(may1), dates[0])
	assert.Equal(t, audit.DayStart(may2), dates[1])

	assert.Equal(t, []string{"L1", "L2"}, idx.LocationsFor("C1", may1))
	assert.Equal(t, []string{"L1"}, idx.LocationsFor("C1", may2))

	assert.Equal(t, []string{"10:00"}, idx.TimesFor("C1", may1, []string{"L1"}))
	assert.Equal(t, []string{"10:00", "14:00"}, idx.TimesFor("C1", may1, nil))
}

func TestDayStart(t *testing.T) {
	ts := time.Date(2024, 5, 1, 18, 22, 41, 12345, time.Local)
	d := audit.DayStart(ts)
	assert.Equal(t, 0, d.Hour())
	assert.Equal(t, 0, d.Minute())
	assert.True(t, audit.SameDay(ts, d))
	assert.False(t, audit.SameDay(ts, d.AddDate(0, 0, 1)))
}
