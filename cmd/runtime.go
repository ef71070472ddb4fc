package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/teemow/slotfinder/internal/calendar"
	"github.com/teemow/slotfinder/internal/config"
	"github.com/teemow/slotfinder/internal/google"
	"github.com/teemow/slotfinder/internal/ics"
	"github.com/teemow/slotfinder/internal/instrumentation"
	"github.com/teemow/slotfinder/internal/logging"
	"github.com/teemow/slotfinder/internal/scheduling"
)

// engine is the configured calendar backend shared by all commands.
type engine struct {
	cfg     *config.Config
	logger  *slog.Logger
	factory scheduling.ProviderFactory
	source  string
}

// loadEngine reads the configuration and selects the calendar backend. Logs
// go to logOut.
func (o *rootOptions) loadEngine(logOut io.Writer) (*engine, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	level := logging.ParseLevel(cfg.Log.Level)
	if o.debug {
		level = slog.LevelDebug
	}
	logger := logging.NewLogger(logOut, cfg.Log.Format, level)

	sources := cfg.ICS
	if len(o.icsPaths) > 0 {
		sources = make([]config.ICSSource, 0, len(o.icsPaths))
		for _, path := range o.icsPaths {
			sources = append(sources, config.ICSSource{Path: path})
		}
	}

	e := &engine{cfg: cfg, logger: logger}
	if len(sources) > 0 {
		e.source = instrumentation.ProviderICS
		e.factory = ics.NewProviderFactory(sources, logging.NewSlogAdapter(logger))
	} else {
		e.source = instrumentation.ProviderGoogle
		e.factory = calendar.NewProviderFactory(google.NewFileTokenProvider())
	}
	logger.Debug("calendar backend selected", logging.Provider(e.source), slog.Int("ics_sources", len(sources)))
	return e, nil
}

// service builds the scheduling service. A nil metrics recorder disables
// provider instrumentation.
func (e *engine) service(metrics *instrumentation.Metrics) *scheduling.Service {
	factory := e.factory
	if metrics != nil {
		factory = scheduling.InstrumentFactory(factory, e.source, metrics)
	}
	return scheduling.NewService(factory, e.cfg,
		scheduling.WithLogger(e.logger),
		scheduling.WithMetrics(metrics),
	)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
