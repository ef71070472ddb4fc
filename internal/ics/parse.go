package ics

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/teemow/slotfinder/internal/availability"
	"github.com/teemow/slotfinder/internal/logging"
)

const (
	layoutUTC   = "20060102T150405Z"
	layoutLocal = "20060102T150405"
	layoutDate  = "20060102"

	propCalName      = "X-WR-CALNAME"
	propCalTimeZone  = "X-WR-TIMEZONE"
	propTransparency = ical.ComponentProperty("TRANSP")
	propRecurrenceID = ical.ComponentProperty("RECURRENCE-ID")
)

// vevent is a parsed VEVENT before recurrence expansion.
type vevent struct {
	UID         string
	Summary     string
	Start       time.Time
	End         time.Time
	AllDay      bool
	Status      string
	Transparent bool

	RRule        string
	ExDates      []time.Time
	RecurrenceID *time.Time
}

// isOverride reports whether the event replaces one instance of a series.
func (v vevent) isOverride() bool {
	return v.RecurrenceID != nil
}

// calendarFile is one parsed .ics file.
type calendarFile struct {
	ref         availability.CalendarRef
	wantPrimary bool
	loc         *time.Location
	series      map[string]*series
	order       []string
}

// series groups the master event of a UID with its overridden instances.
type series struct {
	master    *vevent
	overrides []vevent
}

// parseCalendar parses r into a calendar with the given id. name overrides
// the X-WR-CALNAME property. Events that cannot be used are logged and
// skipped.
func parseCalendar(id, name string, r io.Reader, logger logging.Logger) (*calendarFile, error) {
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse calendar %s: %w", id, err)
	}

	cf := &calendarFile{
		ref:    availability.CalendarRef{ID: id, DisplayName: name},
		loc:    time.UTC,
		series: make(map[string]*series),
	}
	for _, prop := range cal.CalendarProperties {
		switch prop.IANAToken {
		case propCalName:
			if cf.ref.DisplayName == "" {
				cf.ref.DisplayName = prop.Value
			}
		case propCalTimeZone:
			if loc, err := time.LoadLocation(prop.Value); err == nil {
				cf.loc = loc
				cf.ref.TimeZone = prop.Value
			}
		}
	}

	for _, comp := range cal.Events() {
		ev, err := parseVEvent(comp, cf.loc)
		if err != nil {
			logger.Warn("skipping ics event", "calendar_id", id, "error", err)
			continue
		}
		s, ok := cf.series[ev.UID]
		if !ok {
			s = &series{}
			cf.series[ev.UID] = s
			cf.order = append(cf.order, ev.UID)
		}
		if ev.isOverride() {
			s.overrides = append(s.overrides, ev)
		} else {
			s.master = &ev
		}
	}

	logger.Debug("parsed ics calendar", "calendar_id", id, "series", len(cf.order))
	return cf, nil
}

func parseVEvent(ve *ical.VEvent, loc *time.Location) (vevent, error) {
	var out vevent

	uid := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uid == nil || uid.Value == "" {
		return out, errors.New("missing UID")
	}
	out.UID = uid.Value

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Summary = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyStatus); p != nil {
		out.Status = strings.ToLower(p.Value)
	}
	if p := ve.GetProperty(propTransparency); p != nil {
		out.Transparent = strings.EqualFold(p.Value, "TRANSPARENT")
	}

	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil {
		return out, fmt.Errorf("event %s: missing DTSTART", out.UID)
	}
	out.AllDay = isDateValue(dtStart)

	var err error
	out.Start, err = propertyTime(dtStart, loc)
	if err != nil {
		return out, fmt.Errorf("event %s: invalid DTSTART: %w", out.UID, err)
	}
	// Without DTEND an all-day event lasts one day and a timed event is
	// instantaneous.
	out.End = out.Start
	if out.AllDay {
		out.End = out.Start.AddDate(0, 0, 1)
	}
	if dtEnd := ve.GetProperty(ical.ComponentPropertyDtEnd); dtEnd != nil {
		if out.End, err = propertyTime(dtEnd, out.Start.Location()); err != nil {
			return out, fmt.Errorf("event %s: invalid DTEND: %w", out.UID, err)
		}
	}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		out.RRule = p.Value
	}
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			t, err := parseICSTime(strings.TrimSpace(part), tzidOf(p, out.Start.Location()))
			if err == nil {
				out.ExDates = append(out.ExDates, t)
			}
		}
	}
	if p := ve.GetProperty(propRecurrenceID); p != nil {
		t, err := propertyTime(p, out.Start.Location())
		if err != nil {
			return out, fmt.Errorf("event %s: invalid RECURRENCE-ID: %w", out.UID, err)
		}
		out.RecurrenceID = &t
	}

	return out, nil
}

// isDateValue reports whether the property holds a DATE rather than a
// DATE-TIME.
func isDateValue(p *ical.IANAProperty) bool {
	if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

// tzidOf returns the location named by the TZID parameter, or fallback.
func tzidOf(p *ical.IANAProperty, fallback *time.Location) *time.Location {
	if tzs, ok := p.ICalParameters["TZID"]; ok && len(tzs) > 0 {
		if loc, err := time.LoadLocation(tzs[0]); err == nil {
			return loc
		}
	}
	return fallback
}

func propertyTime(p *ical.IANAProperty, fallback *time.Location) (time.Time, error) {
	return parseICSTime(p.Value, tzidOf(p, fallback))
}

// parseICSTime parses UTC, floating and date-only values. Floating and
// date-only values are interpreted in loc.
func parseICSTime(v string, loc *time.Location) (time.Time, error) {
	switch {
	case v == "":
		return time.Time{}, errors.New("empty time value")
	case strings.HasSuffix(v, "Z"):
		return time.Parse(layoutUTC, v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation(layoutLocal, v, loc)
	default:
		return time.ParseInLocation(layoutDate, v, loc)
	}
}

// defaultCalendarID derives a calendar id from a file path.
func defaultCalendarID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
