package calendar

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"

	"github.com/teemow/slotfinder/internal/availability"
)

const (
	dateLayout          = "2006-01-02"
	transparencyFreeKey = "transparent"
)

// toEvent converts a Google Calendar event. All-day dates are interpreted in
// loc, which should be the calendar's time zone.
func toEvent(calendarID string, ev *calendar.Event, loc *time.Location) availability.Event {
	if ev == nil {
		return availability.Event{CalendarID: calendarID}
	}
	out := availability.Event{
		ID:          ev.Id,
		Summary:     ev.Summary,
		CalendarID:  calendarID,
		Status:      ev.Status,
		Transparent: ev.Transparency == transparencyFreeKey,
		SeriesID:    ev.RecurringEventId,
	}
	out.Start, out.AllDay = parseEventTime(ev.Start, loc)
	out.End, _ = parseEventTime(ev.End, loc)
	return out
}

// parseEventTime returns the instant described by dt and whether it was a
// date without a time. Unparseable values yield the zero time.
func parseEventTime(dt *calendar.EventDateTime, loc *time.Location) (time.Time, bool) {
	if dt == nil {
		return time.Time{}, false
	}
	if dt.DateTime != "" {
		t, err := time.Parse(time.RFC3339, dt.DateTime)
		if err != nil {
			return time.Time{}, false
		}
		return t, false
	}
	if dt.Date != "" {
		if dt.TimeZone != "" {
			if tz, err := time.LoadLocation(dt.TimeZone); err == nil {
				loc = tz
			}
		}
		if loc == nil {
			loc = time.UTC
		}
		t, err := time.ParseInLocation(dateLayout, dt.Date, loc)
		if err != nil {
			return time.Time{}, true
		}
		return t, true
	}
	return time.Time{}, false
}

// toCalendarRef converts a calendar list entry. A summary override set by the
// user wins over the calendar's own summary.
func toCalendarRef(entry *calendar.CalendarListEntry) availability.CalendarRef {
	if entry == nil {
		return availability.CalendarRef{}
	}
	name := entry.SummaryOverride
	if name == "" {
		name = entry.Summary
	}
	return availability.CalendarRef{
		ID:          entry.Id,
		DisplayName: name,
		TimeZone:    entry.TimeZone,
		Primary:     entry.Primary,
	}
}

// loadLocation returns the location for an IANA name, or UTC.
func loadLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// isNotFound reports whether err is a 404 or 410 from the API.
func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone
}

// wrapNotFound replaces API not-found errors with sentinel.
func wrapNotFound(err error, sentinel error) error {
	if isNotFound(err) {
		return fmt.Errorf("%w: %v", sentinel, err)
	}
	return err
}
