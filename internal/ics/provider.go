package ics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/teemow/slotfinder/internal/availability"
	"github.com/teemow/slotfinder/internal/config"
	"github.com/teemow/slotfinder/internal/logging"
	"github.com/teemow/slotfinder/internal/scheduling"
)

// ErrReadOnly is returned by PatchEvent.
var ErrReadOnly = errors.New("ics calendars are read-only")

// Provider serves parsed .ics files.
type Provider struct {
	calendars []*calendarFile
	byID      map[string]*calendarFile
	primary   *calendarFile
	logger    logging.Logger
}

var _ scheduling.Provider = (*Provider)(nil)

// NewProvider reads and parses every source. The first source marked
// Primary, or else the first source, answers for "primary".
func NewProvider(sources []config.ICSSource, logger logging.Logger) (*Provider, error) {
	p := newProvider(logger)
	for _, src := range sources {
		f, err := os.Open(src.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open ics file: %w", err)
		}
		err = p.add(src, f)
		_ = f.Close()
		if err != nil {
			return nil, err
		}
	}
	return p, nil
}

func newProvider(logger logging.Logger) *Provider {
	if logger == nil {
		logger = logging.NewSlogAdapter(nil)
	}
	return &Provider{byID: make(map[string]*calendarFile), logger: logger}
}

func (p *Provider) add(src config.ICSSource, r io.Reader) error {
	id := src.ID
	if id == "" {
		id = defaultCalendarID(src.Path)
	}
	if _, dup := p.byID[id]; dup {
		return fmt.Errorf("duplicate ics calendar id %q", id)
	}

	cf, err := parseCalendar(id, src.Name, r, p.logger)
	if err != nil {
		return err
	}
	cf.wantPrimary = src.Primary
	p.calendars = append(p.calendars, cf)
	p.byID[id] = cf
	p.choosePrimary()
	return nil
}

// choosePrimary marks exactly one calendar as primary.
func (p *Provider) choosePrimary() {
	p.primary = nil
	for _, cf := range p.calendars {
		if cf.wantPrimary && p.primary == nil {
			p.primary = cf
		}
		cf.ref.Primary = false
	}
	if p.primary == nil && len(p.calendars) > 0 {
		p.primary = p.calendars[0]
	}
	if p.primary != nil {
		p.primary.ref.Primary = true
	}
}

func (p *Provider) calendar(calendarID string) (*calendarFile, error) {
	if calendarID == scheduling.PrimaryCalendarID && p.primary != nil {
		return p.primary, nil
	}
	if cf, ok := p.byID[calendarID]; ok {
		return cf, nil
	}
	return nil, fmt.Errorf("%w: %s", scheduling.ErrCalendarNotFound, calendarID)
}

func (p *Provider) ListCalendars(context.Context) ([]availability.CalendarRef, error) {
	refs := make([]availability.CalendarRef, 0, len(p.calendars))
	for _, cf := range p.calendars {
		refs = append(refs, cf.ref)
	}
	return refs, nil
}

func (p *Provider) GetCalendar(_ context.Context, calendarID string) (*availability.CalendarRef, error) {
	cf, err := p.calendar(calendarID)
	if err != nil {
		return nil, err
	}
	ref := cf.ref
	return &ref, nil
}

// ListEvents returns event instances overlapping [timeMin, timeMax) ordered
// by start.
func (p *Provider) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]availability.Event, error) {
	cf, err := p.calendar(calendarID)
	if err != nil {
		return nil, err
	}

	var out []availability.Event
	for _, uid := range cf.order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out = append(out, cf.series[uid].events(calendarID, timeMin, timeMax, p.logger)...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out, nil
}

// GetEvent accepts the UID of a single event, the UID of a recurring master
// or an instance id.
func (p *Provider) GetEvent(_ context.Context, calendarID, eventID string) (*availability.Event, error) {
	cf, err := p.calendar(calendarID)
	if err != nil {
		return nil, err
	}

	if s, ok := cf.series[eventID]; ok && s.master != nil {
		ev := s.master.toEvent(calendarID, eventID, s.master.Start, s.master.End)
		return &ev, nil
	}
	if uid, start, ok := splitInstanceID(eventID); ok {
		if s, ok := cf.series[uid]; ok {
			if ev, ok := s.instance(calendarID, start, p.logger); ok {
				return &ev, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s", scheduling.ErrEventNotFound, eventID)
}

// PatchEvent always fails.
func (p *Provider) PatchEvent(context.Context, string, string, time.Time, time.Time) (*availability.Event, error) {
	return nil, ErrReadOnly
}

// ProviderFactory serves the same files for every account. Files are
// re-read on each call so edits are picked up without a restart.
type ProviderFactory struct {
	sources []config.ICSSource
	logger  logging.Logger
}

var _ scheduling.ProviderFactory = (*ProviderFactory)(nil)

// NewProviderFactory creates a factory for sources.
func NewProviderFactory(sources []config.ICSSource, logger logging.Logger) *ProviderFactory {
	return &ProviderFactory{sources: sources, logger: logger}
}

func (f *ProviderFactory) ProviderFor(context.Context, string) (scheduling.Provider, error) {
	if len(f.sources) == 0 {
		return nil, errors.New("no ics calendars configured")
	}
	return NewProvider(f.sources, f.logger)
}
