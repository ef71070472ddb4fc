package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
const (
	attrStatus     = "status"
	attrOperation  = "operation"
	attrProvider   = "provider"
	attrResult     = "result"
	attrTool       = "tool"
	attrAccount    = "account"
	attrPreference = "preference"
)

// Metrics provides methods for recording observability metrics.
type Metrics struct {
	// Calendar provider metrics
	providerOperationsTotal   metric.Int64Counter
	providerOperationDuration metric.Float64Histogram

	// Aggregation metrics
	aggregationCalendarsTotal metric.Int64Counter
	aggregationDuration       metric.Float64Histogram

	// Reschedule metrics
	suggestionsReturned metric.Int64Histogram

	// MCP Tool metrics
	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	// detailedLabels controls whether high-cardinality labels are included
	detailedLabels bool
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The detailedLabels parameter controls whether high-cardinality labels are included.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{
		detailedLabels: detailedLabels,
	}

	var err error

	m.providerOperationsTotal, err = meter.Int64Counter(
		"calendar_api_operations_total",
		metric.WithDescription("Total number of calendar provider operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar_api_operations_total counter: %w", err)
	}

	m.providerOperationDuration, err = meter.Float64Histogram(
		"calendar_api_operation_duration_seconds",
		metric.WithDescription("Calendar provider operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar_api_operation_duration_seconds histogram: %w", err)
	}

	m.aggregationCalendarsTotal, err = meter.Int64Counter(
		"calendar_aggregation_calendars_total",
		metric.WithDescription("Calendars visited while collecting busy intervals, by result"),
		metric.WithUnit("{calendar}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar_aggregation_calendars_total counter: %w", err)
	}

	m.aggregationDuration, err = meter.Float64Histogram(
		"calendar_aggregation_duration_seconds",
		metric.WithDescription("Time spent collecting busy intervals across calendars"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar_aggregation_duration_seconds histogram: %w", err)
	}

	m.suggestionsReturned, err = meter.Int64Histogram(
		"reschedule_suggestions_returned",
		metric.WithDescription("Number of reschedule suggestions returned per request"),
		metric.WithUnit("{suggestion}"),
		metric.WithExplicitBucketBoundaries(0, 1, 2, 3, 5, 10),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create reschedule_suggestions_returned histogram: %w", err)
	}

	m.toolInvocationsTotal, err = meter.Int64Counter(
		"mcp_tool_invocations_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_invocations_total counter: %w", err)
	}

	m.toolDuration, err = meter.Float64Histogram(
		"mcp_tool_duration_seconds",
		metric.WithDescription("MCP tool execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordProviderOperation records a calendar provider call.
//
// Parameters:
//   - provider: Provider name (google, ics)
//   - operation: Operation type (list_calendars, list_events, get_event, patch_event, ...)
//   - status: Result status ("success" or "error")
//   - duration: Time taken for the operation
func (m *Metrics) RecordProviderOperation(ctx context.Context, provider, operation, status string, duration time.Duration) {
	if m == nil || m.providerOperationsTotal == nil || m.providerOperationDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrProvider, provider),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	m.providerOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.providerOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordAggregation records one busy-interval aggregation run.
// fetched and failed count the calendars that succeeded and those that were skipped.
func (m *Metrics) RecordAggregation(ctx context.Context, fetched, failed int, duration time.Duration) {
	if m == nil || m.aggregationCalendarsTotal == nil || m.aggregationDuration == nil {
		return // Instrumentation not initialized
	}

	m.aggregationCalendarsTotal.Add(ctx, int64(fetched), metric.WithAttributes(attribute.String(attrResult, AggregationFetched)))
	m.aggregationCalendarsTotal.Add(ctx, int64(failed), metric.WithAttributes(attribute.String(attrResult, AggregationFailed)))
	m.aggregationDuration.Record(ctx, duration.Seconds())
}

// RecordSuggestions records how many reschedule suggestions a request produced.
func (m *Metrics) RecordSuggestions(ctx context.Context, preference string, count int) {
	if m == nil || m.suggestionsReturned == nil {
		return // Instrumentation not initialized
	}

	m.suggestionsReturned.Record(ctx, int64(count), metric.WithAttributes(attribute.String(attrPreference, preference)))
}

// RecordToolInvocation records an MCP tool invocation with tool name, status, and duration.
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status string, duration time.Duration) {
	m.RecordToolInvocationWithAccount(ctx, toolName, status, "", duration)
}

// RecordToolInvocationWithAccount records an MCP tool invocation with account info.
// The account label is only attached when detailedLabels is enabled.
func (m *Metrics) RecordToolInvocationWithAccount(ctx context.Context, toolName, status, account string, duration time.Duration) {
	if m == nil || m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}

	// Only add high-cardinality labels if explicitly enabled
	if m.detailedLabels && account != "" {
		attrs = append(attrs, attribute.String(attrAccount, account))
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}
