package instrumentation

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/teemow/slotfinder/internal/logging"
)

// ToolInvocation captures a single MCP tool call for audit logging.
//
// Account usually holds the user's email address and therefore PII. The
// operational log only carries a hash and the email domain; the full value is
// reserved for LogAuditAttrs.
type ToolInvocation struct {
	Tool    string
	Account string

	// Calendar target, when the tool addresses a single calendar or event
	CalendarID string
	EventID    string

	// Outcome fields filled by the handler
	Conflicts   int
	Suggestions int

	StartTime time.Time
	Duration  time.Duration
	Success   bool
	Error     string

	TraceID string
	SpanID  string
}

// NewToolInvocation creates a new ToolInvocation with timing started.
// Call Complete() when the tool operation finishes.
func NewToolInvocation(tool string) *ToolInvocation {
	return &ToolInvocation{
		Tool:      tool,
		StartTime: time.Now(),
	}
}

// WithAccount sets the account the tool acted on.
func (ti *ToolInvocation) WithAccount(account string) *ToolInvocation {
	ti.Account = account
	return ti
}

// WithTarget sets the calendar and event the tool acted on.
func (ti *ToolInvocation) WithTarget(calendarID, eventID string) *ToolInvocation {
	ti.CalendarID = calendarID
	ti.EventID = eventID
	return ti
}

// WithSpanContext extracts trace context from the current span.
func (ti *ToolInvocation) WithSpanContext(ctx context.Context) *ToolInvocation {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		ti.TraceID = span.SpanContext().TraceID().String()
		ti.SpanID = span.SpanContext().SpanID().String()
	}
	return ti
}

// Complete marks the invocation as completed and calculates duration.
func (ti *ToolInvocation) Complete(success bool, err error) *ToolInvocation {
	ti.Duration = time.Since(ti.StartTime)
	ti.Success = success
	if err != nil {
		ti.Error = err.Error()
	}
	return ti
}

// UserDomain returns the domain portion of the account for lower-cardinality logging.
func (ti *ToolInvocation) UserDomain() string {
	return ExtractUserDomain(ti.Account)
}

// Status returns "success" or "error" based on the Success field.
func (ti *ToolInvocation) Status() string {
	if ti.Success {
		return StatusSuccess
	}
	return StatusError
}

// LogAttrs returns slog attributes without PII.
func (ti *ToolInvocation) LogAttrs() []slog.Attr {
	attrs := ti.commonAttrs()
	if ti.Account != "" {
		attrs = append(attrs,
			logging.UserHash(ti.Account),
			slog.String("user_domain", ti.UserDomain()),
		)
	}
	return append(attrs, ti.outcomeAttrs()...)
}

// LogAuditAttrs returns slog attributes including the full account value.
// Audit logs built from these attributes must go to access-controlled storage.
func (ti *ToolInvocation) LogAuditAttrs() []slog.Attr {
	attrs := ti.commonAttrs()
	if ti.Account != "" {
		attrs = append(attrs, slog.String("user", ti.Account))
	}
	attrs = append(attrs, ti.outcomeAttrs()...)
	if ti.SpanID != "" {
		attrs = append(attrs, slog.String("span_id", ti.SpanID))
	}
	return attrs
}

func (ti *ToolInvocation) commonAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("tool", ti.Tool),
		slog.Duration("duration", ti.Duration),
		slog.Bool("success", ti.Success),
	}
	if ti.CalendarID != "" {
		attrs = append(attrs, slog.String("calendar_id", ti.CalendarID))
	}
	if ti.EventID != "" {
		attrs = append(attrs, slog.String("event_id", ti.EventID))
	}
	return attrs
}

func (ti *ToolInvocation) outcomeAttrs() []slog.Attr {
	var attrs []slog.Attr
	if ti.Conflicts > 0 {
		attrs = append(attrs, slog.Int("conflicts", ti.Conflicts))
	}
	if ti.Suggestions > 0 {
		attrs = append(attrs, slog.Int("suggestions", ti.Suggestions))
	}
	if ti.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ti.TraceID))
	}
	if ti.Error != "" {
		attrs = append(attrs, slog.String("error", ti.Error))
	}
	return attrs
}

// AuditLogger provides structured audit logging for tool invocations.
type AuditLogger struct {
	logger     *slog.Logger
	includePII bool
	enabled    bool
}

// NewAuditLogger creates an AuditLogger from the audit logging configuration.
func NewAuditLogger(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:     logger,
		includePII: config.IncludePII,
		enabled:    config.Enabled,
	}
}

// LogToolInvocation logs a finished tool invocation. Failures are logged at
// warn level.
func (al *AuditLogger) LogToolInvocation(ctx context.Context, ti *ToolInvocation) {
	if al == nil || !al.enabled {
		return
	}

	attrs := ti.LogAttrs()
	if al.includePII {
		attrs = ti.LogAuditAttrs()
	}

	level := slog.LevelInfo
	msg := "tool_executed"
	if !ti.Success {
		level = slog.LevelWarn
		msg = "tool_failed"
	}
	al.logger.LogAttrs(ctx, level, msg, attrs...)
}
