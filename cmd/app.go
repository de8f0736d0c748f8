package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/timvw/tmux-persist/internal/config"
	"github.com/timvw/tmux-persist/internal/logging"
	"github.com/timvw/tmux-persist/internal/mux"
	telem "github.com/timvw/tmux-persist/internal/otel"
	"github.com/timvw/tmux-persist/internal/persist"
	"github.com/timvw/tmux-persist/internal/proc"
	"github.com/timvw/tmux-persist/internal/runner"
	"github.com/timvw/tmux-persist/internal/store"
)

// app holds everything a subcommand needs, built from config and flags.
type app struct {
	cfg   *config.Config
	log   *slog.Logger
	tel   *telem.Telemetry
	mux   mux.Multiplexer
	store *store.Store
	saver *persist.Saver
}

// newApp loads configuration (defaults -> config file -> env vars -> flags)
// and wires the capture pipeline.
func newApp(ctx context.Context) (*app, error) {
	var (
		cfg *config.Config
		err error
	)
	if flagConfig != "" {
		cfg, err = config.LoadFrom(flagConfig)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if flagOutputDir != "" {
		cfg.OutputDir = flagOutputDir
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if flagVerbose {
		cfg.LogLevel = "debug"
	}

	log := logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	if cfg.ConfigFile != "" {
		log.Debug("config loaded", "path", cfg.ConfigFile)
	}

	// Wire build version into OTEL service metadata
	telem.Version = Version

	// Initialize OTEL (no-op if no endpoint configured)
	tel, err := telem.Init(ctx, telem.OTELConfig{
		Endpoint: cfg.OTELEndpoint,
		Headers:  cfg.OTELHeaders,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: otel init failed: %v\n", err)
	}

	r := runner.WithTimeout(runner.OSRunner{}, cfg.CommandTimeoutDuration)
	m, err := getMultiplexer(r)
	if err != nil {
		return nil, fmt.Errorf("no supported terminal multiplexer found: %w", err)
	}

	st := store.New(cfg.OutputDir, cfg.Extension)
	saver := &persist.Saver{
		Mux:             m,
		Resolver:        proc.NewResolver(proc.NewPSWithRunner(r), logging.ForComponent(logging.CompResolve)),
		Store:           st,
		ExcludeSessions: cfg.ExcludeSessions,
		Logger:          logging.ForComponent(logging.CompPersist),
	}
	if tel != nil {
		saver.Tracer = tel.Tracer
		saver.Metrics = tel.Metrics
	}

	return &app{cfg: cfg, log: log, tel: tel, mux: m, store: st, saver: saver}, nil
}

// close flushes telemetry and the log file.
func (a *app) close(ctx context.Context) {
	if a.tel != nil {
		a.tel.Shutdown(ctx)
	}
	logging.Shutdown()
}

// getMultiplexer returns the configured or auto-detected multiplexer.
func getMultiplexer(r runner.Runner) (mux.Multiplexer, error) {
	if flagMux != "" {
		return mux.FromName(flagMux, r)
	}
	return mux.Detect(r)
}
