package availability

import (
	"time"
)

const (
	// DefaultHorizonDays is the number of days searched when none is given.
	DefaultHorizonDays = 7
	// DefaultMaxResults caps the number of slots returned.
	DefaultMaxResults = 5
)

// SearchOptions control FindFreeSlots.
type SearchOptions struct {
	Now             time.Time      // zero means time.Now()
	Location        *time.Location // nil means UTC
	HorizonDays     int
	Preference      TimeOfDayPreference
	ExcludeWeekends bool
	MaxResults      int
}

func (o SearchOptions) withDefaults() SearchOptions {
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.HorizonDays <= 0 {
		o.HorizonDays = DefaultHorizonDays
	}
	if o.Preference == "" {
		o.Preference = AnyTime
	}
	if o.MaxResults <= 0 {
		o.MaxResults = DefaultMaxResults
	}
	return o
}

// SearchStart returns midnight of the day after now in loc.
func SearchStart(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, loc)
}

// FindFreeSlots walks the horizon one day at a time, starting tomorrow, and
// picks the earliest whole hour in the preference window where an event of
// the given duration fits without overlapping any busy interval. At most one
// slot is produced per day.
func FindFreeSlots(duration time.Duration, busy []BusyInterval, opts SearchOptions) []CandidateSlot {
	opts = opts.withDefaults()
	slots := []CandidateSlot{}
	if duration <= 0 {
		return slots
	}

	window := opts.Preference.Window()
	durationHours := int((duration + time.Hour - 1) / time.Hour)
	lastHour := window.EndHour - durationHours
	start := SearchStart(opts.Now, opts.Location)

	for offset := 1; offset <= opts.HorizonDays && len(slots) < opts.MaxResults; offset++ {
		day := time.Date(start.Year(), start.Month(), start.Day()+offset-1, 0, 0, 0, 0, opts.Location)
		if opts.ExcludeWeekends && isWeekend(day.Weekday()) {
			continue
		}

		for hour := window.StartHour; hour <= lastHour; hour++ {
			slotStart := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, opts.Location)
			slotEnd := slotStart.Add(duration)
			if conflictsWithAny(slotStart, slotEnd, busy) {
				continue
			}
			slots = append(slots, CandidateSlot{
				Start:     slotStart,
				End:       slotEnd,
				DayOffset: offset,
				DayOfWeek: day.Weekday(),
			})
			break
		}
	}

	return slots
}

func conflictsWithAny(start, end time.Time, busy []BusyInterval) bool {
	for _, b := range busy {
		if Overlaps(start, end, b.Start, b.End) {
			return true
		}
	}
	return false
}

func isWeekend(d time.Weekday) bool {
	return d == time.Saturday || d == time.Sunday
}
