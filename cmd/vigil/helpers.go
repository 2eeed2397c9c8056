package main

import (
	"fmt"
	"log/slog"
	"os"

	"vigil/internal/config"
	"vigil/internal/logging"
	"vigil/internal/store"
	"vigil/internal/track"
)

// loadConfig resolves the workspace config, with flags taking precedence
// over file values.
func loadConfig() (*config.Config, error) {
	path := rootFlags.configPath
	if path == "" {
		path = config.DefaultPath
	}
	cfg, err := config.LoadFromPath(path)
	if err != nil {
		return nil, err
	}
	if rootFlags.backend != "" {
		cfg.Backend = rootFlags.backend
	}
	if rootFlags.storePath != "" {
		cfg.StorePath = rootFlags.storePath
	}
	if rootFlags.logLevel != "" {
		cfg.LogLevel = rootFlags.logLevel
	}
	if rootFlags.logFormat != "" {
		cfg.LogFormat = rootFlags.logFormat
	}
	return cfg, nil
}

// initLogging configures the global logger from config.
func initLogging(cfg *config.Config) {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logging.Init(level, cfg.LogFormat)
}

// openGateway constructs the persistence gateway selected by config.
func openGateway(cfg *config.Config) (track.Gateway, error) {
	switch cfg.Backend {
	case "", "sqlite":
		path := cfg.StorePath
		if path == "" {
			path = store.DefaultDBPath
		}
		return store.Open(path)
	case "file":
		path := cfg.StorePath
		if path == "" {
			path = store.DefaultFilePath
		}
		return store.OpenFile(path)
	default:
		return nil, fmt.Errorf("unknown backend %q (want sqlite or file)", cfg.Backend)
	}
}

// openTracker wires config, logging, gateway, and tracker for a command.
// Load warnings are printed to stderr so truncated history is noticed.
func openTracker() (*track.Tracker, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	initLogging(cfg)
	gw, err := openGateway(cfg)
	if err != nil {
		return nil, err
	}
	t, err := track.Open(gw)
	if err != nil {
		_ = gw.Close()
		return nil, err
	}
	for _, w := range t.LoadWarnings() {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	return t, nil
}
