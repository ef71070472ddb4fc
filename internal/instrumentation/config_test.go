package instrumentation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	for _, key := range []string{"OTEL_SERVICE_NAME", "INSTRUMENTATION_ENABLED", "METRICS_EXPORTER", "TRACING_EXPORTER", "OTEL_TRACES_SAMPLER_ARG"} {
		t.Setenv(key, "")
	}

	config := DefaultConfig()

	assert.Equal(t, "slotfinder", config.ServiceName)
	assert.True(t, config.Enabled)
	assert.Equal(t, ExporterPrometheus, config.MetricsExporter)
	assert.Equal(t, ExporterNone, config.TracingExporter)
	assert.InDelta(t, 0.1, config.TraceSamplingRate, 1e-9)
	assert.True(t, config.AuditLogging.Enabled)
	assert.False(t, config.AuditLogging.IncludePII)
}

func TestDefaultConfig_FromEnv(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "test-service")
	t.Setenv("INSTRUMENTATION_ENABLED", "false")
	t.Setenv("METRICS_EXPORTER", "stdout")
	t.Setenv("TRACING_EXPORTER", "stdout")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.5")
	t.Setenv("AUDIT_LOGGING_INCLUDE_PII", "not-a-bool")

	config := DefaultConfig()

	assert.Equal(t, "test-service", config.ServiceName)
	assert.False(t, config.Enabled)
	assert.Equal(t, ExporterStdout, config.MetricsExporter)
	assert.Equal(t, ExporterStdout, config.TracingExporter)
	assert.InDelta(t, 0.5, config.TraceSamplingRate, 1e-9)
	assert.False(t, config.AuditLogging.IncludePII, "invalid booleans fall back to the default")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{
			name:   "defaults",
			config: Config{MetricsExporter: ExporterPrometheus, TracingExporter: ExporterNone, TraceSamplingRate: 0.1},
		},
		{
			name:    "sampling rate too high",
			config:  Config{TraceSamplingRate: 1.5},
			wantErr: "sampling rate",
		},
		{
			name:    "negative sampling rate",
			config:  Config{TraceSamplingRate: -0.1},
			wantErr: "sampling rate",
		},
		{
			name:    "unknown metrics exporter",
			config:  Config{MetricsExporter: "statsd"},
			wantErr: "invalid metrics exporter",
		},
		{
			name:    "unknown tracing exporter",
			config:  Config{TracingExporter: "jaeger"},
			wantErr: "invalid tracing exporter",
		},
		{
			name:    "otlp without endpoint",
			config:  Config{TracingExporter: ExporterOTLP},
			wantErr: "OTLP endpoint",
		},
		{
			name:   "otlp with endpoint",
			config: Config{MetricsExporter: ExporterOTLP, TracingExporter: ExporterOTLP, OTLPEndpoint: "localhost:4318"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
