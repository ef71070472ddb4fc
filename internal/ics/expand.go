package ics

import (
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/teemow/slotfinder/internal/availability"
	"github.com/teemow/slotfinder/internal/logging"
)

// maxOccurrences caps the instances produced for one series per query.
const maxOccurrences = 5000

// instanceID returns the id of the instance of uid originally starting at start.
func instanceID(uid string, start time.Time) string {
	return uid + "_" + start.UTC().Format(layoutUTC)
}

// splitInstanceID is the inverse of instanceID.
func splitInstanceID(id string) (string, time.Time, bool) {
	i := strings.LastIndex(id, "_")
	if i <= 0 {
		return "", time.Time{}, false
	}
	t, err := time.Parse(layoutUTC, id[i+1:])
	if err != nil {
		return "", time.Time{}, false
	}
	return id[:i], t, true
}

func (v vevent) toEvent(calendarID, id string, start, end time.Time) availability.Event {
	ev := availability.Event{
		ID:          id,
		Summary:     v.Summary,
		Start:       start,
		End:         end,
		CalendarID:  calendarID,
		AllDay:      v.AllDay,
		Status:      v.Status,
		Transparent: v.Transparent,
	}
	if id != v.UID {
		ev.SeriesID = v.UID
	}
	return ev
}

// instanceEnd returns the end of an instance starting at start. All-day
// instances keep their length in days across DST changes.
func (v vevent) instanceEnd(start time.Time) time.Time {
	if v.AllDay {
		days := int(v.End.Sub(v.Start).Round(24*time.Hour) / (24 * time.Hour))
		return start.AddDate(0, 0, days)
	}
	return start.Add(v.End.Sub(v.Start))
}

// recurrence builds the rule set of the master event, or nil when the event
// does not recur or its RRULE cannot be parsed.
func (s *series) recurrence(logger logging.Logger) *rrule.Set {
	m := s.master
	if m == nil || m.RRule == "" {
		return nil
	}
	r, err := rrule.StrToRRule(m.RRule)
	if err != nil {
		logger.Warn("invalid RRULE, treating event as single", "uid", m.UID, "rrule", m.RRule, "error", err)
		return nil
	}
	r.DTStart(m.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range m.ExDates {
		set.ExDate(ex)
	}
	return &set
}

func (s *series) override(originalStart time.Time) (vevent, bool) {
	for _, ov := range s.overrides {
		if ov.RecurrenceID.Equal(originalStart) {
			return ov, true
		}
	}
	return vevent{}, false
}

// events returns every instance of the series overlapping [from, to).
func (s *series) events(calendarID string, from, to time.Time, logger logging.Logger) []availability.Event {
	var out []availability.Event
	add := func(ev availability.Event) {
		if availability.Overlaps(ev.Start, ev.End, from, to) {
			out = append(out, ev)
		}
	}

	// Overrides are reported at their new time, wherever the original was.
	for _, ov := range s.overrides {
		add(ov.toEvent(calendarID, instanceID(ov.UID, *ov.RecurrenceID), ov.Start, ov.End))
	}

	m := s.master
	if m == nil {
		return out
	}
	set := s.recurrence(logger)
	if set == nil {
		add(m.toEvent(calendarID, m.UID, m.Start, m.End))
		return out
	}

	// Instances starting before from can still overlap it.
	starts := set.Between(from.Add(-m.End.Sub(m.Start)), to, true)
	if len(starts) > maxOccurrences {
		logger.Warn("truncating recurring event", "uid", m.UID, "cap", maxOccurrences)
		starts = starts[:maxOccurrences]
	}
	for _, start := range starts {
		if _, ok := s.override(start); ok {
			continue
		}
		add(m.toEvent(calendarID, instanceID(m.UID, start), start, m.instanceEnd(start)))
	}
	return out
}

// instance returns the instance of the series that originally started at
// originalStart.
func (s *series) instance(calendarID string, originalStart time.Time, logger logging.Logger) (availability.Event, bool) {
	if ov, ok := s.override(originalStart); ok {
		return ov.toEvent(calendarID, instanceID(ov.UID, originalStart), ov.Start, ov.End), true
	}
	set := s.recurrence(logger)
	if set == nil {
		return availability.Event{}, false
	}
	for _, start := range set.Between(originalStart, originalStart, true) {
		if start.Equal(originalStart) {
			m := s.master
			return m.toEvent(calendarID, instanceID(m.UID, start), start, m.instanceEnd(start)), true
		}
	}
	return availability.Event{}, false
}
