package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the default tracer name for slotfinder.
const TracerName = "github.com/teemow/slotfinder"

// Span attribute keys.
const (
	// SpanAttrTool is the MCP tool name attribute.
	SpanAttrTool = "mcp.tool"

	// SpanAttrProvider is the calendar provider attribute (google, ics).
	SpanAttrProvider = "calendar.provider"

	// SpanAttrOperation is the provider operation attribute.
	SpanAttrOperation = "calendar.operation"

	// SpanAttrCalendarID is the calendar identifier.
	SpanAttrCalendarID = "calendar.id"

	// SpanAttrEventID is the event identifier.
	SpanAttrEventID = "calendar.event_id"

	// SpanAttrCalendarCount is the number of calendars visited by an aggregation.
	SpanAttrCalendarCount = "calendar.count"

	// SpanAttrFailedCount is the number of calendars skipped after an error.
	SpanAttrFailedCount = "calendar.failed_count"

	// SpanAttrAccount is the anonymized user account attribute.
	SpanAttrAccount = "mcp.account"

	// SpanAttrReadOnly indicates if the server runs in read-only mode.
	SpanAttrReadOnly = "mcp.read_only"
)

// SpanAttributeBuilder helps construct span attributes with consistent naming.
type SpanAttributeBuilder struct {
	attrs []attribute.KeyValue
}

// NewSpanAttributeBuilder creates a new SpanAttributeBuilder.
func NewSpanAttributeBuilder() *SpanAttributeBuilder {
	return &SpanAttributeBuilder{
		attrs: make([]attribute.KeyValue, 0, 8),
	}
}

// WithCalendar adds the calendar id attribute.
func (b *SpanAttributeBuilder) WithCalendar(calendarID string) *SpanAttributeBuilder {
	if calendarID != "" {
		b.attrs = append(b.attrs, attribute.String(SpanAttrCalendarID, calendarID))
	}
	return b
}

// WithEvent adds the event id attribute.
func (b *SpanAttributeBuilder) WithEvent(eventID string) *SpanAttributeBuilder {
	if eventID != "" {
		b.attrs = append(b.attrs, attribute.String(SpanAttrEventID, eventID))
	}
	return b
}

// WithAccount adds the user account attribute. Callers pass an anonymized value.
func (b *SpanAttributeBuilder) WithAccount(account string) *SpanAttributeBuilder {
	if account != "" {
		b.attrs = append(b.attrs, attribute.String(SpanAttrAccount, account))
	}
	return b
}

// WithReadOnly adds the read-only indicator attribute.
func (b *SpanAttributeBuilder) WithReadOnly(readOnly bool) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.Bool(SpanAttrReadOnly, readOnly))
	return b
}

// Build returns the constructed attributes.
func (b *SpanAttributeBuilder) Build() []attribute.KeyValue {
	return b.attrs
}

// StartSpan starts a new span with the given name and attributes.
// The caller is responsible for ending the span with defer span.End().
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// StartToolSpan starts a server span for an MCP tool invocation.
func StartToolSpan(ctx context.Context, toolName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := make([]attribute.KeyValue, 0, len(attrs)+1)
	allAttrs = append(allAttrs, attribute.String(SpanAttrTool, toolName))
	allAttrs = append(allAttrs, attrs...)

	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, "tool."+toolName,
		trace.WithAttributes(allAttrs...),
		trace.WithSpanKind(trace.SpanKindServer),
	)
}

// StartProviderSpan starts a client span for a calendar provider call.
func StartProviderSpan(ctx context.Context, provider, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := make([]attribute.KeyValue, 0, len(attrs)+2)
	allAttrs = append(allAttrs,
		attribute.String(SpanAttrProvider, provider),
		attribute.String(SpanAttrOperation, operation),
	)
	allAttrs = append(allAttrs, attrs...)

	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, "calendar."+provider+"."+operation,
		trace.WithAttributes(allAttrs...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// SetSpanError records an error on the span and sets the status to error.
func SetSpanError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// SetSpanSuccess sets the span status to OK.
func SetSpanSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// AddSpanEvent adds an event to the span with optional attributes.
func AddSpanEvent(span trace.Span, name string, attrs ...attribute.KeyValue) {
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// GetTraceID returns the trace ID from the current span in context.
// Returns empty string if no valid span is present.
func GetTraceID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		return span.SpanContext().TraceID().String()
	}
	return ""
}
