package scheduling

import (
	"fmt"
	"strings"
	"time"

	"github.com/teemow/slotfinder/internal/availability"
)

// ConflictCheckRequest checks a proposed time against a single calendar.
type ConflictCheckRequest struct {
	Account    string
	CalendarID string // defaults to "primary"
	StartTime  string // RFC3339
	EndTime    string // RFC3339
}

// AllCalendarsConflictRequest checks a proposed time against every calendar.
type AllCalendarsConflictRequest struct {
	Account   string
	StartTime string
	EndTime   string
	// ExcludeEventID is ignored when collecting busy time, typically the
	// event being moved.
	ExcludeEventID string
}

// RescheduleRequest asks for alternative times for an existing event.
type RescheduleRequest struct {
	Account            string
	EventID            string
	CalendarID         string // defaults to "primary"
	PreferredTimeOfDay string // morning, afternoon, evening or any
	DaysToSearch       int    // 0 uses the configured horizon
	ExcludeWeekends    *bool  // nil uses the configured default
	TimeZone           string // IANA zone, empty uses the calendar zone
	MaxResults         int    // 0 uses the configured maximum
}

// ApplyRescheduleRequest moves an event to a new time.
type ApplyRescheduleRequest struct {
	Account    string
	EventID    string
	CalendarID string // defaults to "primary"
	NewStart   string // RFC3339
	NewEnd     string // RFC3339
}

// EventInfo describes the event a reschedule operates on.
type EventInfo struct {
	ID              string `json:"id"`
	Summary         string `json:"summary"`
	Start           string `json:"start"`
	End             string `json:"end"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	DurationMinutes int    `json:"duration"`
	CalendarID      string `json:"calendarId,omitempty"`
}

// RescheduleResult is the outcome of FindRescheduleSuggestions.
type RescheduleResult struct {
	Success     bool                                `json:"success"`
	Event       *EventInfo                          `json:"event,omitempty"`
	Suggestions []availability.RescheduleSuggestion `json:"suggestions"`
	Error       string                              `json:"error,omitempty"`
}

// ApplyRescheduleResult is the outcome of ApplyReschedule.
type ApplyRescheduleResult struct {
	Success bool       `json:"success"`
	Event   *EventInfo `json:"event,omitempty"`
	Error   string     `json:"error,omitempty"`
}

// User-facing failure messages.
const (
	msgEventNotFound   = "Event not found or access denied"
	msgMissingTimes    = "Event has no start or end time"
	msgInvalidDuration = "Event has an invalid time range"
	msgPatchFailed     = "Failed to reschedule event"
)

// ParseTimeRange parses two RFC3339 timestamps and requires start < end.
func ParseTimeRange(start, end string) (TimeRange, error) {
	s, err := time.Parse(time.RFC3339, strings.TrimSpace(start))
	if err != nil {
		return TimeRange{}, fmt.Errorf("%w: invalid start time %q, use RFC3339 such as 2025-01-15T10:00:00Z", ErrInvalidRequest, start)
	}
	e, err := time.Parse(time.RFC3339, strings.TrimSpace(end))
	if err != nil {
		return TimeRange{}, fmt.Errorf("%w: invalid end time %q, use RFC3339 such as 2025-01-15T11:00:00Z", ErrInvalidRequest, end)
	}
	if !s.Before(e) {
		return TimeRange{}, fmt.Errorf("%w: end time must be after start time", ErrInvalidRequest)
	}
	return TimeRange{Start: s, End: e}, nil
}

func calendarOrPrimary(id string) string {
	if strings.TrimSpace(id) == "" {
		return PrimaryCalendarID
	}
	return id
}

func newEventInfo(ev *availability.Event, loc *time.Location) *EventInfo {
	return &EventInfo{
		ID:              ev.ID,
		Summary:         ev.DisplaySummary(),
		Start:           availability.FormatDisplay(ev.Start, loc),
		End:             availability.FormatDisplay(ev.End, loc),
		StartTime:       ev.Start.Format(time.RFC3339),
		EndTime:         ev.End.Format(time.RFC3339),
		DurationMinutes: int(ev.End.Sub(ev.Start).Round(time.Minute) / time.Minute),
		CalendarID:      ev.CalendarID,
	}
}
