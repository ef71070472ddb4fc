package calendar_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/teemow/slotfinder/internal/availability"
	"github.com/teemow/slotfinder/internal/google"
	"github.com/teemow/slotfinder/internal/scheduling"
	"github.com/teemow/slotfinder/internal/server"
)

// testNow is Monday 10 March 2025, 15:00 UTC.
var testNow = time.Date(2025, time.March, 10, 15, 0, 0, 0, time.UTC)

func at(dayOffset, hour int) time.Time {
	return time.Date(2025, time.March, 10+dayOffset, hour, 0, 0, 0, time.UTC)
}

type fakeProvider struct {
	calendars []availability.CalendarRef
	events    map[string][]availability.Event
	patched   []string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		calendars: []availability.CalendarRef{
			{ID: "primary", DisplayName: "Work", Primary: true, TimeZone: "UTC"},
			{ID: "family", DisplayName: "Family"},
		},
		events: map[string][]availability.Event{
			"primary": {
				{ID: "standup", Summary: "Standup", Start: at(1, 9), End: at(1, 10), CalendarID: "primary"},
				{ID: "review", Summary: "Review", Start: at(0, 16), End: at(0, 17), CalendarID: "primary"},
			},
			"family": {
				{ID: "school", Summary: "School run", Start: at(1, 8), End: at(1, 9), CalendarID: "family"},
			},
		},
	}
}

func (f *fakeProvider) ListCalendars(context.Context) ([]availability.CalendarRef, error) {
	return f.calendars, nil
}

func (f *fakeProvider) GetCalendar(_ context.Context, calendarID string) (*availability.CalendarRef, error) {
	for _, c := range f.calendars {
		if c.ID == calendarID {
			return &c, nil
		}
	}
	return nil, scheduling.ErrCalendarNotFound
}

func (f *fakeProvider) ListEvents(_ context.Context, calendarID string, timeMin, timeMax time.Time) ([]availability.Event, error) {
	var out []availability.Event
	for _, ev := range f.events[calendarID] {
		if ev.Start.Before(timeMax) && timeMin.Before(ev.End) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeProvider) GetEvent(_ context.Context, calendarID, eventID string) (*availability.Event, error) {
	for _, ev := range f.events[calendarID] {
		if ev.ID == eventID {
			return &ev, nil
		}
	}
	return nil, scheduling.ErrEventNotFound
}

func (f *fakeProvider) PatchEvent(ctx context.Context, calendarID, eventID string, start, end time.Time) (*availability.Event, error) {
	ev, err := f.GetEvent(ctx, calendarID, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to patch event: %w", err)
	}
	f.patched = append(f.patched, eventID)
	ev.Start, ev.End = start, end
	return ev, nil
}

func newTestServerContext(t *testing.T, p scheduling.Provider, readOnly bool) *server.ServerContext {
	t.Helper()
	factory := scheduling.ProviderFactoryFunc(func(context.Context, string) (scheduling.Provider, error) {
		return p, nil
	})
	svc := scheduling.NewService(factory, nil, scheduling.WithClock(func() time.Time { return testNow }))
	sc, err := server.NewServerContext(context.Background(), svc, "test", readOnly)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func newMissingTokenServerContext(t *testing.T) *server.ServerContext {
	t.Helper()
	factory := scheduling.ProviderFactoryFunc(func(_ context.Context, account string) (scheduling.Provider, error) {
		return nil, fmt.Errorf("%w for account %q", google.ErrTokenNotFound, account)
	})
	sc, err := server.NewServerContext(context.Background(), scheduling.NewService(factory, nil), "google", true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)
	return text.Text
}

func decodeResult(t *testing.T, result *mcp.CallToolResult, v any) {
	t.Helper()
	require.False(t, result.IsError, resultText(t, result))
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), v))
}
