package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/teemow/slotfinder/internal/availability"
)

// PrimaryCalendarID is the alias providers accept for the user's main calendar.
const PrimaryCalendarID = "primary"

var (
	// ErrInvalidRequest marks malformed input such as an unparsable timestamp.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrEventNotFound is returned by providers when an event does not exist
	// or is not visible to the caller.
	ErrEventNotFound = errors.New("event not found")

	// ErrCalendarNotFound is returned by providers for unknown calendars.
	ErrCalendarNotFound = errors.New("calendar not found")
)

// Provider is a calendar backend scoped to one authenticated account.
// Implementations must honor context cancellation.
type Provider interface {
	// ListCalendars returns every calendar the account can read.
	ListCalendars(ctx context.Context) ([]availability.CalendarRef, error)

	// ListEvents returns single (expanded) events overlapping [timeMin, timeMax).
	ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]availability.Event, error)

	GetEvent(ctx context.Context, calendarID, eventID string) (*availability.Event, error)
	GetCalendar(ctx context.Context, calendarID string) (*availability.CalendarRef, error)

	// PatchEvent moves an event, leaving every other field untouched.
	PatchEvent(ctx context.Context, calendarID, eventID string, start, end time.Time) (*availability.Event, error)
}

// ProviderFactory builds a fresh Provider for an account. Credential lookup
// failures are returned as errors.
type ProviderFactory interface {
	ProviderFor(ctx context.Context, account string) (Provider, error)
}

// ProviderFactoryFunc adapts a function to ProviderFactory.
type ProviderFactoryFunc func(ctx context.Context, account string) (Provider, error)

// ProviderFor calls f.
func (f ProviderFactoryFunc) ProviderFor(ctx context.Context, account string) (Provider, error) {
	return f(ctx, account)
}

// TimeRange is a half-open interval [Start, End).
type TimeRange struct {
	Start time.Time
	End   time.Time
}
