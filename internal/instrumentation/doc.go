// Package instrumentation provides OpenTelemetry metrics, tracing and audit
// logging for the slotfinder MCP server.
//
// # Metrics
//
// Calendar provider metrics:
//   - calendar_api_operations_total: provider calls by provider, operation and status
//   - calendar_api_operation_duration_seconds: provider call durations
//
// Aggregation metrics:
//   - calendar_aggregation_calendars_total: calendars visited by result (fetched, failed)
//   - calendar_aggregation_duration_seconds: time spent collecting busy intervals
//   - reschedule_suggestions_returned: suggestions per request by preference
//
// MCP tool metrics:
//   - mcp_tool_invocations_total: tool invocations by tool and status
//   - mcp_tool_duration_seconds: tool execution durations
//
// # Tracing
//
// Spans are created for MCP tool invocations (tool.<name>), busy interval
// aggregation and every provider call (calendar.<provider>.<operation>).
//
// # Configuration
//
// Instrumentation is configured through environment variables:
//   - INSTRUMENTATION_ENABLED: enable or disable instrumentation (default: true)
//   - METRICS_EXPORTER: prometheus, otlp or stdout (default: prometheus)
//   - TRACING_EXPORTER: otlp, stdout or none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces and metrics
//   - OTEL_TRACES_SAMPLER_ARG: sampling rate between 0.0 and 1.0 (default: 0.1)
//   - OTEL_SERVICE_NAME: service name (default: slotfinder)
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	provider.Metrics().RecordProviderOperation(ctx, instrumentation.ProviderGoogle,
//		instrumentation.OperationListEvents, instrumentation.StatusSuccess, time.Since(start))
package instrumentation
