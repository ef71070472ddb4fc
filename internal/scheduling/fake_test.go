package scheduling

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/teemow/slotfinder/internal/availability"
)

// testNow is Monday 10 March 2025, 15:00 UTC.
var testNow = time.Date(2025, time.March, 10, 15, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func day(offset, hour, minute int) time.Time {
	return time.Date(2025, time.March, 10+offset, hour, minute, 0, 0, time.UTC)
}

type patchCall struct {
	calendarID, eventID string
	start, end          time.Time
}

type fakeProvider struct {
	mu sync.Mutex

	calendars []availability.CalendarRef
	listErr   error

	events    map[string][]availability.Event
	eventErrs map[string]error
	blocking  map[string]bool

	patches  []patchCall
	patchErr error

	listCalls map[string]int
}

func newFakeProvider(calendars ...availability.CalendarRef) *fakeProvider {
	return &fakeProvider{
		calendars: calendars,
		events:    map[string][]availability.Event{},
		eventErrs: map[string]error{},
		blocking:  map[string]bool{},
		listCalls: map[string]int{},
	}
}

func (f *fakeProvider) add(calendarID string, events ...availability.Event) *fakeProvider {
	for i := range events {
		events[i].CalendarID = calendarID
	}
	f.events[calendarID] = append(f.events[calendarID], events...)
	return f
}

func (f *fakeProvider) ListCalendars(context.Context) ([]availability.CalendarRef, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.calendars, nil
}

func (f *fakeProvider) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]availability.Event, error) {
	f.mu.Lock()
	f.listCalls[calendarID]++
	blocking := f.blocking[calendarID]
	err := f.eventErrs[calendarID]
	f.mu.Unlock()

	if blocking {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}

	var out []availability.Event
	for _, ev := range f.events[calendarID] {
		if ev.HasTimes() && availability.Overlaps(ev.Start, ev.End, timeMin, timeMax) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeProvider) GetEvent(_ context.Context, calendarID, eventID string) (*availability.Event, error) {
	for _, ev := range f.events[calendarID] {
		if ev.ID == eventID {
			ev := ev
			return &ev, nil
		}
	}
	return nil, ErrEventNotFound
}

func (f *fakeProvider) GetCalendar(_ context.Context, calendarID string) (*availability.CalendarRef, error) {
	for _, c := range f.calendars {
		if c.ID == calendarID || (calendarID == PrimaryCalendarID && c.Primary) {
			c := c
			return &c, nil
		}
	}
	return nil, ErrCalendarNotFound
}

func (f *fakeProvider) PatchEvent(_ context.Context, calendarID, eventID string, start, end time.Time) (*availability.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.patchErr != nil {
		return nil, f.patchErr
	}
	f.patches = append(f.patches, patchCall{calendarID, eventID, start, end})
	return &availability.Event{ID: eventID, Summary: "Moved", Start: start, End: end, CalendarID: calendarID}, nil
}

func factoryFor(p Provider) ProviderFactory {
	return ProviderFactoryFunc(func(context.Context, string) (Provider, error) {
		return p, nil
	})
}

var errNoCredentials = errors.New("no token found for account")

func failingFactory() ProviderFactory {
	return ProviderFactoryFunc(func(context.Context, string) (Provider, error) {
		return nil, errNoCredentials
	})
}
