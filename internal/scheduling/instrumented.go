package scheduling

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/teemow/slotfinder/internal/availability"
	"github.com/teemow/slotfinder/internal/instrumentation"
)

// instrumentedProvider records a span and metrics for every provider call.
type instrumentedProvider struct {
	next    Provider
	name    string
	metrics *instrumentation.Metrics
}

// Instrument wraps p so that each call is traced and counted under the
// given provider name.
func Instrument(p Provider, name string, metrics *instrumentation.Metrics) Provider {
	return &instrumentedProvider{next: p, name: name, metrics: metrics}
}

// InstrumentFactory wraps every Provider produced by f.
func InstrumentFactory(f ProviderFactory, name string, metrics *instrumentation.Metrics) ProviderFactory {
	return ProviderFactoryFunc(func(ctx context.Context, account string) (Provider, error) {
		p, err := f.ProviderFor(ctx, account)
		if err != nil {
			return nil, err
		}
		return Instrument(p, name, metrics), nil
	})
}

func (ip *instrumentedProvider) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span, time.Time) {
	ctx, span := instrumentation.StartProviderSpan(ctx, ip.name, op, attrs...)
	return ctx, span, time.Now()
}

func (ip *instrumentedProvider) finish(ctx context.Context, span trace.Span, op string, started time.Time, err error) {
	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
		instrumentation.SetSpanError(span, err)
	} else {
		instrumentation.SetSpanSuccess(span)
	}
	ip.metrics.RecordProviderOperation(ctx, ip.name, op, status, time.Since(started))
	span.End()
}

func (ip *instrumentedProvider) ListCalendars(ctx context.Context) ([]availability.CalendarRef, error) {
	ctx, span, started := ip.start(ctx, instrumentation.OperationListCalendars)
	cals, err := ip.next.ListCalendars(ctx)
	ip.finish(ctx, span, instrumentation.OperationListCalendars, started, err)
	return cals, err
}

func (ip *instrumentedProvider) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]availability.Event, error) {
	attrs := instrumentation.NewSpanAttributeBuilder().WithCalendar(calendarID).Build()
	ctx, span, started := ip.start(ctx, instrumentation.OperationListEvents, attrs...)
	events, err := ip.next.ListEvents(ctx, calendarID, timeMin, timeMax)
	span.SetAttributes(attribute.Int("calendar.event_count", len(events)))
	ip.finish(ctx, span, instrumentation.OperationListEvents, started, err)
	return events, err
}

func (ip *instrumentedProvider) GetEvent(ctx context.Context, calendarID, eventID string) (*availability.Event, error) {
	attrs := instrumentation.NewSpanAttributeBuilder().WithCalendar(calendarID).WithEvent(eventID).Build()
	ctx, span, started := ip.start(ctx, instrumentation.OperationGetEvent, attrs...)
	ev, err := ip.next.GetEvent(ctx, calendarID, eventID)
	ip.finish(ctx, span, instrumentation.OperationGetEvent, started, err)
	return ev, err
}

func (ip *instrumentedProvider) GetCalendar(ctx context.Context, calendarID string) (*availability.CalendarRef, error) {
	attrs := instrumentation.NewSpanAttributeBuilder().WithCalendar(calendarID).Build()
	ctx, span, started := ip.start(ctx, instrumentation.OperationGetCalendar, attrs...)
	cal, err := ip.next.GetCalendar(ctx, calendarID)
	ip.finish(ctx, span, instrumentation.OperationGetCalendar, started, err)
	return cal, err
}

func (ip *instrumentedProvider) PatchEvent(ctx context.Context, calendarID, eventID string, start, end time.Time) (*availability.Event, error) {
	attrs := instrumentation.NewSpanAttributeBuilder().WithCalendar(calendarID).WithEvent(eventID).Build()
	ctx, span, started := ip.start(ctx, instrumentation.OperationPatchEvent, attrs...)
	ev, err := ip.next.PatchEvent(ctx, calendarID, eventID, start, end)
	ip.finish(ctx, span, instrumentation.OperationPatchEvent, started, err)
	return ev, err
}
