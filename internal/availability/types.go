package availability

import (
	"fmt"
	"strings"
	"time"
)

// DefaultEventSummary is shown for events without a title.
const DefaultEventSummary = "Untitled Event"

// Event status values that affect busy-ness.
const (
	StatusConfirmed = "confirmed"
	StatusTentative = "tentative"
	StatusCancelled = "cancelled"
)

// CalendarRef identifies a calendar the user can read.
type CalendarRef struct {
	ID          string
	DisplayName string
	TimeZone    string // IANA name, may be empty
	Primary     bool
}

// Name returns the display name, falling back to the calendar id.
func (c CalendarRef) Name() string {
	if c.DisplayName != "" {
		return c.DisplayName
	}
	return c.ID
}

// Event is a provider event reduced to the fields the engine needs.
type Event struct {
	ID          string
	Summary     string
	Start       time.Time
	End         time.Time
	CalendarID  string
	AllDay      bool
	Status      string
	Transparent bool // "show as available"

	// SeriesID is the id of the recurring series this event is an instance
	// of. Empty for single events.
	SeriesID string
}

// Is reports whether id names this event or the series it belongs to.
func (e Event) Is(id string) bool {
	return id != "" && (e.ID == id || e.SeriesID == id)
}

// HasTimes reports whether both start and end are set.
func (e Event) HasTimes() bool {
	return !e.Start.IsZero() && !e.End.IsZero()
}

// Blocks reports whether the event occupies time on the calendar.
func (e Event) Blocks() bool {
	if !e.HasTimes() || !e.Start.Before(e.End) {
		return false
	}
	return e.Status != StatusCancelled && !e.Transparent
}

// DisplaySummary returns the summary or DefaultEventSummary.
func (e Event) DisplaySummary() string {
	if strings.TrimSpace(e.Summary) == "" {
		return DefaultEventSummary
	}
	return e.Summary
}

// BusyInterval is a span of time during which some calendar is occupied.
// Start is always before End.
type BusyInterval struct {
	Start            time.Time
	End              time.Time
	SourceCalendarID string
	SourceEventID    string
	Summary          string
}

// ConflictingEvent describes an existing event that collides with a
// proposed time range.
type ConflictingEvent struct {
	ID           string `json:"id"`
	Summary      string `json:"summary"`
	Start        string `json:"start"`
	End          string `json:"end"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	CalendarID   string `json:"calendarId"`
	CalendarName string `json:"calendarName"`
}

// ConflictCheckResult is the outcome of a conflict check.
type ConflictCheckResult struct {
	HasConflicts      bool               `json:"hasConflicts"`
	ConflictingEvents []ConflictingEvent `json:"conflictingEvents"`
	NearbyEvents      []ConflictingEvent `json:"nearbyEvents,omitempty"`
}

// CandidateSlot is a conflict-free placement for an event.
type CandidateSlot struct {
	Start     time.Time
	End       time.Time
	DayOffset int
	DayOfWeek time.Weekday
}

// RescheduleSuggestion is a scored candidate slot.
type RescheduleSuggestion struct {
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	StartFormatted string    `json:"startFormatted"`
	EndFormatted   string    `json:"endFormatted"`
	DayOffset      int       `json:"dayOffset"`
	DayOfWeek      string    `json:"dayOfWeek"`
	Score          int       `json:"score"`
	Reason         string    `json:"reason"`
}

// TimeOfDayPreference restricts the hours considered by the slot search.
type TimeOfDayPreference string

const (
	Morning   TimeOfDayPreference = "morning"
	Afternoon TimeOfDayPreference = "afternoon"
	Evening   TimeOfDayPreference = "evening"
	AnyTime   TimeOfDayPreference = "any"
)

// TimeWindow is a half-open range of wall-clock hours [StartHour, EndHour).
type TimeWindow struct {
	StartHour int
	EndHour   int
}

// Contains reports whether hour lies inside the window.
func (w TimeWindow) Contains(hour int) bool {
	return hour >= w.StartHour && hour < w.EndHour
}

var preferenceWindows = map[TimeOfDayPreference]TimeWindow{
	Morning:   {StartHour: 8, EndHour: 12},
	Afternoon: {StartHour: 12, EndHour: 17},
	Evening:   {StartHour: 17, EndHour: 21},
	AnyTime:   {StartHour: 8, EndHour: 21},
}

var preferenceLabels = map[TimeOfDayPreference]string{
	Morning:   "Morning (8AM-12PM)",
	Afternoon: "Afternoon (12PM-5PM)",
	Evening:   "Evening (5PM-9PM)",
	AnyTime:   "Any time",
}

// Window returns the hour window for the preference. Unknown values map to
// the AnyTime window.
func (p TimeOfDayPreference) Window() TimeWindow {
	if w, ok := preferenceWindows[p]; ok {
		return w
	}
	return preferenceWindows[AnyTime]
}

// Label returns the human readable label for the preference.
func (p TimeOfDayPreference) Label() string {
	if l, ok := preferenceLabels[p]; ok {
		return l
	}
	return preferenceLabels[AnyTime]
}

// ParseTimeOfDay validates a preference string. The empty string means AnyTime.
func ParseTimeOfDay(s string) (TimeOfDayPreference, error) {
	p := TimeOfDayPreference(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return AnyTime, nil
	}
	if _, ok := preferenceWindows[p]; !ok {
		return "", fmt.Errorf("invalid time of day preference %q: must be one of morning, afternoon, evening, any", s)
	}
	return p, nil
}
