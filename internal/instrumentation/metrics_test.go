package instrumentation

import (
	"context"
	"testing"
	"time"
)

func TestMetrics_RecordProviderOperation(t *testing.T) {
	ctx := context.Background()
	metrics := newTestProvider(t).Metrics()

	// Should not panic
	metrics.RecordProviderOperation(ctx, ProviderGoogle, OperationListEvents, StatusSuccess, 200*time.Millisecond)
	metrics.RecordProviderOperation(ctx, ProviderGoogle, OperationPatchEvent, StatusError, 500*time.Millisecond)
	metrics.RecordProviderOperation(ctx, ProviderICS, OperationListCalendars, StatusSuccess, time.Millisecond)
}

func TestMetrics_RecordAggregation(t *testing.T) {
	ctx := context.Background()
	metrics := newTestProvider(t).Metrics()

	metrics.RecordAggregation(ctx, 3, 1, 750*time.Millisecond)
	metrics.RecordAggregation(ctx, 0, 0, 0)
	metrics.RecordSuggestions(ctx, "morning", 5)
	metrics.RecordSuggestions(ctx, "any", 0)
}

func TestMetrics_RecordToolInvocation(t *testing.T) {
	ctx := context.Background()

	for _, detailed := range []bool{false, true} {
		provider := newTestProvider(t)
		metrics := provider.Metrics()
		metrics.detailedLabels = detailed

		metrics.RecordToolInvocation(ctx, "calendar_check_conflicts", StatusSuccess, 100*time.Millisecond)
		metrics.RecordToolInvocationWithAccount(ctx, "calendar_suggest_reschedule", StatusError, "example.com", 50*time.Millisecond)
	}
}

func TestMetrics_NoOp(t *testing.T) {
	ctx := context.Background()

	provider, err := NewProvider(ctx, Config{ServiceName: "test-service", Enabled: false})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}

	var nilMetrics *Metrics
	for _, metrics := range []*Metrics{provider.Metrics(), nilMetrics} {
		metrics.RecordProviderOperation(ctx, ProviderGoogle, OperationGetEvent, StatusSuccess, time.Millisecond)
		metrics.RecordAggregation(ctx, 1, 0, time.Millisecond)
		metrics.RecordSuggestions(ctx, "any", 1)
		metrics.RecordToolInvocation(ctx, "test_tool", StatusSuccess, time.Millisecond)
		metrics.RecordToolInvocationWithAccount(ctx, "test_tool", StatusSuccess, "example.com", time.Millisecond)
	}
}
