package availability

import (
	"time"
)

// NameResolver maps a calendar id to a display name.
type NameResolver func(calendarID string) string

// CheckConflicts returns every busy interval that overlaps [start, end).
// Calendar names are resolved at most once per calendar id.
func CheckConflicts(start, end time.Time, busy []BusyInterval, resolve NameResolver, loc *time.Location) ConflictCheckResult {
	return CheckConflictsWithNearby(start, end, busy, 0, resolve, loc)
}

// CheckConflictsWithNearby behaves like CheckConflicts and additionally
// reports events that end within buffer before start or begin within buffer
// after end. A zero buffer disables nearby detection.
func CheckConflictsWithNearby(start, end time.Time, busy []BusyInterval, buffer time.Duration, resolve NameResolver, loc *time.Location) ConflictCheckResult {
	names := newNameCache(resolve)
	result := ConflictCheckResult{
		ConflictingEvents: []ConflictingEvent{},
	}

	for _, b := range busy {
		switch {
		case Overlaps(start, end, b.Start, b.End):
			result.ConflictingEvents = append(result.ConflictingEvents, toConflictingEvent(b, names, loc))
		case buffer > 0 && isNearby(start, end, b, buffer):
			result.NearbyEvents = append(result.NearbyEvents, toConflictingEvent(b, names, loc))
		}
	}

	result.HasConflicts = len(result.ConflictingEvents) > 0
	return result
}

// isNearby reports whether b ends in (start-buffer, start] or begins in
// [end, end+buffer).
func isNearby(start, end time.Time, b BusyInterval, buffer time.Duration) bool {
	endsBefore := b.End.After(start.Add(-buffer)) && !b.End.After(start)
	startsAfter := !b.Start.Before(end) && b.Start.Before(end.Add(buffer))
	return endsBefore || startsAfter
}

func toConflictingEvent(b BusyInterval, names *nameCache, loc *time.Location) ConflictingEvent {
	summary := b.Summary
	if summary == "" {
		summary = DefaultEventSummary
	}
	return ConflictingEvent{
		ID:           b.SourceEventID,
		Summary:      summary,
		Start:        FormatDisplay(b.Start, loc),
		End:          FormatDisplay(b.End, loc),
		StartTime:    b.Start.Format(time.RFC3339),
		EndTime:      b.End.Format(time.RFC3339),
		CalendarID:   b.SourceCalendarID,
		CalendarName: names.get(b.SourceCalendarID),
	}
}

type nameCache struct {
	resolve NameResolver
	names   map[string]string
}

func newNameCache(resolve NameResolver) *nameCache {
	return &nameCache{resolve: resolve, names: make(map[string]string)}
}

func (c *nameCache) get(calendarID string) string {
	if name, ok := c.names[calendarID]; ok {
		return name
	}
	name := calendarID
	if c.resolve != nil {
		if n := c.resolve(calendarID); n != "" {
			name = n
		}
	}
	c.names[calendarID] = name
	return name
}

// NamesFromCalendars builds a NameResolver backed by a calendar list.
func NamesFromCalendars(calendars []CalendarRef) NameResolver {
	byID := make(map[string]string, len(calendars))
	for _, c := range calendars {
		byID[c.ID] = c.Name()
	}
	return func(id string) string {
		return byID[id]
	}
}
