package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

const (
	// DefaultHTTPAddr is the default listen address of the streamable HTTP transport.
	DefaultHTTPAddr = ":8080"

	// MCPEndpointPath is where the MCP streamable HTTP handler is mounted.
	MCPEndpointPath = "/mcp"
)

// HTTPServerConfig configures the streamable HTTP transport.
type HTTPServerConfig struct {
	Addr string

	// DisableStreaming answers every request with a single JSON response
	// instead of upgrading to SSE.
	DisableStreaming bool
}

// HTTPServer exposes an MCP server over streamable HTTP together with the
// health endpoints.
type HTTPServer struct {
	addr    string
	handler http.Handler
	health  *HealthChecker

	mu         sync.Mutex
	httpServer *http.Server
	listener   net.Listener
}

// NewHTTPServer wires mcpSrv and the health checker for sc into one mux.
func NewHTTPServer(mcpSrv *mcpserver.MCPServer, sc *ServerContext, config HTTPServerConfig) (*HTTPServer, error) {
	if mcpSrv == nil {
		return nil, errors.New("mcp server is required")
	}
	if config.Addr == "" {
		config.Addr = DefaultHTTPAddr
	}

	opts := []mcpserver.StreamableHTTPOption{
		mcpserver.WithEndpointPath(MCPEndpointPath),
	}
	if config.DisableStreaming {
		opts = append(opts, mcpserver.WithDisableStreaming(true))
	}
	streamable := mcpserver.NewStreamableHTTPServer(mcpSrv, opts...)

	health := NewHealthChecker(sc)
	mux := http.NewServeMux()
	mux.Handle(MCPEndpointPath, streamable)
	health.RegisterHealthEndpoints(mux)

	return &HTTPServer{
		addr:    config.Addr,
		handler: mux,
		health:  health,
	}, nil
}

// Handler returns the root handler serving /mcp and the health endpoints.
func (s *HTTPServer) Handler() http.Handler {
	return s.handler
}

// Health returns the health checker backing the health endpoints.
func (s *HTTPServer) Health() *HealthChecker {
	return s.health
}

// Start serves until Shutdown is called.
func (s *HTTPServer) Start() error {
	return s.StartWithReadySignal(nil)
}

// StartWithReadySignal binds the listener, closes ready and serves until
// Shutdown. A nil ready channel is ignored.
func (s *HTTPServer) StartWithReadySignal(ready chan<- struct{}) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.mu.Lock()
	s.httpServer = srv
	s.listener = ln
	s.mu.Unlock()

	slog.Info("starting streamable HTTP server", "addr", ln.Addr().String(), "endpoint", MCPEndpointPath)
	if ready != nil {
		close(ready)
	}

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown marks the server as not ready and drains open connections.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.health.SetReady(false)

	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// Addr returns the bound listener address once started, otherwise the
// configured address.
func (s *HTTPServer) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}
