package server

import (
	"context"
	"errors"
	"sync"

	"github.com/teemow/slotfinder/internal/instrumentation"
	"github.com/teemow/slotfinder/internal/scheduling"
)

// ServerContext holds what MCP tool handlers share for the lifetime of the
// server.
type ServerContext struct {
	ctx      context.Context
	cancel   context.CancelFunc
	service  *scheduling.Service
	source   string
	readOnly bool

	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger

	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a server context around service. source names the
// calendar backend ("google" or "ics") and is reported by health checks.
func NewServerContext(ctx context.Context, service *scheduling.Service, source string, readOnly bool) (*ServerContext, error) {
	if service == nil {
		return nil, errors.New("scheduling service is required")
	}
	shutdownCtx, cancel := context.WithCancel(ctx)
	return &ServerContext{
		ctx:      shutdownCtx,
		cancel:   cancel,
		service:  service,
		source:   source,
		readOnly: readOnly,
	}, nil
}

// Context returns the server context. It is cancelled on Shutdown.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Service returns the scheduling service.
func (sc *ServerContext) Service() *scheduling.Service {
	return sc.service
}

// Source returns the calendar backend name.
func (sc *ServerContext) Source() string {
	return sc.source
}

// ReadOnly reports whether write tools are disabled.
func (sc *ServerContext) ReadOnly() bool {
	return sc.readOnly
}

// SetMetrics sets the metrics recorder used by tool handlers.
func (sc *ServerContext) SetMetrics(m *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = m
}

// Metrics returns the metrics recorder, or nil.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetAuditLogger sets the audit logger used by tool handlers.
func (sc *ServerContext) SetAuditLogger(al *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = al
}

// AuditLogger returns the audit logger, or nil.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown cancels the server context. It is safe to call more than once.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
