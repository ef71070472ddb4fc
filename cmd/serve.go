package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/teemow/slotfinder/internal/instrumentation"
	"github.com/teemow/slotfinder/internal/resources"
	"github.com/teemow/slotfinder/internal/server"
	"github.com/teemow/slotfinder/internal/tools/calendar_tools"
	"github.com/teemow/slotfinder/internal/tools/google_tools"
)

const (
	transportStdio          = "stdio"
	transportStreamableHTTP = "streamable-http"
)

// MetricsConfig holds configuration for the metrics server
type MetricsConfig struct {
	// Enabled determines whether to start the metrics server (default: true)
	Enabled bool

	// Addr is the address for the metrics server (e.g., ":9090")
	Addr string
}

type serveOptions struct {
	transport        string
	httpAddr         string
	yolo             bool
	disableStreaming bool
	metrics          MetricsConfig
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	so := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the MCP server exposing the calendar tools to AI assistants.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport

The server starts in read-only mode. Use --yolo to register
calendar_apply_reschedule, which moves events.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loadMetricsEnv(cmd, &so.metrics)
			return runServe(opts, so)
		},
	}

	cmd.Flags().StringVar(&so.transport, "transport", transportStdio, "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&so.httpAddr, "http-addr", server.DefaultHTTPAddr, "HTTP server address (for streamable-http transport)")
	cmd.Flags().BoolVar(&so.yolo, "yolo", false, "Enable write operations (moving events). Default is read-only mode.")
	cmd.Flags().BoolVar(&so.disableStreaming, "disable-streaming", false, "Disable streaming for HTTP transport (for compatibility with certain clients)")
	cmd.Flags().BoolVar(&so.metrics.Enabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&so.metrics.Addr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

// loadMetricsEnv applies METRICS_ENABLED and METRICS_ADDR unless the
// corresponding flag was set explicitly.
func loadMetricsEnv(cmd *cobra.Command, config *MetricsConfig) {
	if !cmd.Flags().Changed("metrics-enabled") {
		switch os.Getenv("METRICS_ENABLED") {
		case "true":
			config.Enabled = true
		case "false":
			config.Enabled = false
		}
	}
	if !cmd.Flags().Changed("metrics-addr") {
		if addr := os.Getenv("METRICS_ADDR"); addr != "" {
			config.Addr = addr
		}
	}
}

func runServe(opts *rootOptions, so *serveOptions) error {
	if so.transport != transportStdio && so.transport != transportStreamableHTTP {
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", so.transport)
	}

	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// stdout carries the stdio protocol, so logs always go to stderr
	e, err := opts.loadEngine(os.Stderr)
	if err != nil {
		return err
	}
	logger := e.logger
	slog.SetDefault(logger)

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version
	if err := instrConfig.Validate(); err != nil {
		return fmt.Errorf("invalid instrumentation config: %w", err)
	}

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			logger.Warn("error during instrumentation shutdown", "error", err)
		}
	}()

	readOnly := !so.yolo
	if readOnly {
		logger.Info("starting server in read-only mode (use --yolo to enable write operations)")
	} else {
		logger.Info("starting server with write operations enabled")
		if e.source == instrumentation.ProviderICS {
			logger.Warn("ics calendars are read-only, calendar_apply_reschedule will fail")
		}
	}

	serverContext, err := server.NewServerContext(shutdownCtx, e.service(provider.Metrics()), e.source, readOnly)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	if provider.Enabled() {
		serverContext.SetMetrics(provider.Metrics())
		serverContext.SetAuditLogger(provider.Audit())
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			logger.Warn("error during server context shutdown", "error", err)
		}
	}()

	mcpSrv := mcpserver.NewMCPServer("slotfinder", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false),
	)
	if err := calendar_tools.RegisterCalendarTools(mcpSrv, serverContext, readOnly); err != nil {
		return fmt.Errorf("failed to register calendar tools: %w", err)
	}
	if e.source == instrumentation.ProviderGoogle {
		if err := google_tools.RegisterGoogleTools(mcpSrv, serverContext); err != nil {
			return fmt.Errorf("failed to register google tools: %w", err)
		}
	}
	if err := resources.RegisterCalendarResources(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register resources: %w", err)
	}

	if so.transport == transportStdio {
		return runStdioServer(mcpSrv)
	}

	var health *server.HealthChecker
	if so.metrics.Enabled && provider.ServesPrometheus() {
		health = server.NewHealthChecker(serverContext)
		metricsServer, err := startMetricsServer(so.metrics, provider, health, logger)
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(ctx); err != nil {
				logger.Warn("error during metrics server shutdown", "error", err)
			}
		}()
	}

	return runStreamableHTTPServer(shutdownCtx, mcpSrv, serverContext, so, health, logger)
}

func startMetricsServer(config MetricsConfig, provider *instrumentation.Provider, health *server.HealthChecker, logger *slog.Logger) (*server.MetricsServer, error) {
	metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:                    config.Addr,
		InstrumentationProvider: provider,
		Health:                  health,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}

	// Use ready channel to confirm metrics server started successfully
	metricsReady := make(chan struct{})
	metricsErr := make(chan error, 1)
	go func() {
		if err := metricsServer.StartWithReadySignal(metricsReady); err != nil {
			metricsErr <- err
		}
		close(metricsErr)
	}()

	select {
	case <-metricsReady:
		logger.Info("metrics server started", "addr", metricsServer.Addr())
	case err := <-metricsErr:
		return nil, fmt.Errorf("metrics server failed to start: %w", err)
	case <-time.After(5 * time.Second):
		return nil, errors.New("metrics server startup timed out")
	}
	return metricsServer, nil
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	if err := mcpserver.ServeStdio(mcpSrv); err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, so *serveOptions, metricsHealth *server.HealthChecker, logger *slog.Logger) error {
	httpServer, err := server.NewHTTPServer(mcpSrv, sc, server.HTTPServerConfig{
		Addr:             so.httpAddr,
		DisableStreaming: so.disableStreaming,
	})
	if err != nil {
		return fmt.Errorf("failed to create HTTP server: %w", err)
	}

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.Start(); err != nil {
			serverDone <- err
		}
	}()

	logger.Info("streamable HTTP server starting",
		"addr", so.httpAddr,
		"endpoint", server.MCPEndpointPath,
		"health", "/healthz, /readyz")

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping HTTP server")
		if metricsHealth != nil {
			metricsHealth.SetReady(false)
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
	}

	logger.Info("HTTP server gracefully stopped")
	return nil
}
