package calendar

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/teemow/slotfinder/internal/availability"
	"github.com/teemow/slotfinder/internal/google"
	"github.com/teemow/slotfinder/internal/scheduling"
)

// Client wraps the Google Calendar service for one account.
type Client struct {
	svc     *calendar.Service
	account string
}

var _ scheduling.Provider = (*Client)(nil)

// NewClient creates a Client authenticated with the account's token from
// tokens. Extra options are applied after the HTTP client, which lets tests
// point the client at a local server.
func NewClient(ctx context.Context, account string, tokens google.TokenProvider, opts ...option.ClientOption) (*Client, error) {
	if tokens == nil {
		return nil, fmt.Errorf("token provider cannot be nil")
	}

	token, err := tokens.GetTokenForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to get Google OAuth token for account %s: %w", account, err)
	}

	client := google.HTTPClient(ctx, token)

	// Force HTTP/1.1 by disabling HTTP/2
	if t, ok := client.Transport.(*oauth2.Transport); ok {
		base := http.DefaultTransport.(*http.Transport).Clone()
		base.ForceAttemptHTTP2 = false
		base.TLSNextProto = map[string]func(string, *tls.Conn) http.RoundTripper{}
		t.Base = base
	}

	return newClient(ctx, account, append([]option.ClientOption{option.WithHTTPClient(client)}, opts...)...)
}

func newClient(ctx context.Context, account string, opts ...option.ClientOption) (*Client, error) {
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}
	return &Client{svc: svc, account: account}, nil
}

// Account returns the account this client is associated with.
func (c *Client) Account() string {
	return c.account
}

// ListCalendars lists every calendar on the account's calendar list.
func (c *Client) ListCalendars(ctx context.Context) ([]availability.CalendarRef, error) {
	var out []availability.CalendarRef
	err := c.svc.CalendarList.List().Pages(ctx, func(page *calendar.CalendarList) error {
		for _, entry := range page.Items {
			out = append(out, toCalendarRef(entry))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}
	return out, nil
}

// GetCalendar returns the calendar list entry for calendarID. "primary" is
// accepted.
func (c *Client) GetCalendar(ctx context.Context, calendarID string) (*availability.CalendarRef, error) {
	entry, err := c.svc.CalendarList.Get(calendarID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get calendar %s: %w", calendarID, wrapNotFound(err, scheduling.ErrCalendarNotFound))
	}
	ref := toCalendarRef(entry)
	return &ref, nil
}

// ListEvents lists event instances on calendarID overlapping [timeMin, timeMax).
// Recurring events are expanded by the API.
func (c *Client) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]availability.Event, error) {
	call := c.svc.Events.List(calendarID).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime")

	var out []availability.Event
	err := call.Pages(ctx, func(page *calendar.Events) error {
		loc := loadLocation(page.TimeZone)
		for _, ev := range page.Items {
			out = append(out, toEvent(calendarID, ev, loc))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", wrapNotFound(err, scheduling.ErrCalendarNotFound))
	}
	return out, nil
}

// GetEvent retrieves a specific event by ID.
func (c *Client) GetEvent(ctx context.Context, calendarID, eventID string) (*availability.Event, error) {
	ev, err := c.svc.Events.Get(calendarID, eventID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", wrapNotFound(err, scheduling.ErrEventNotFound))
	}
	out := toEvent(calendarID, ev, time.UTC)
	return &out, nil
}

// PatchEvent moves an event to [start, end). Only the start and end fields
// are sent; everything else on the event is left untouched.
func (c *Client) PatchEvent(ctx context.Context, calendarID, eventID string, start, end time.Time) (*availability.Event, error) {
	patch := &calendar.Event{
		Start: &calendar.EventDateTime{DateTime: start.Format(time.RFC3339)},
		End:   &calendar.EventDateTime{DateTime: end.Format(time.RFC3339)},
	}
	ev, err := c.svc.Events.Patch(calendarID, eventID, patch).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", wrapNotFound(err, scheduling.ErrEventNotFound))
	}
	out := toEvent(calendarID, ev, time.UTC)
	return &out, nil
}
