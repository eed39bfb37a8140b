package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/1broseidon/wintrans/internal/config"
	"github.com/1broseidon/wintrans/internal/engine"
	"github.com/1broseidon/wintrans/internal/platform"
	"github.com/1broseidon/wintrans/internal/runtimepath"
)

var (
	configPath string
	version    = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "wintrans",
	Short: "Make selected desktop windows translucent",
	Long: `wintrans lists the top-level windows on the desktop and lets you mark
some of them translucent at a shared opacity. Every window is restored to full
opacity when wintrans exits.`,
	RunE:          runInteractive,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: <user config dir>/wintrans/config.yaml)")
	rootCmd.Flags().Bool("plain", false, "Use the plain raw-mode console instead of the full-screen TUI")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads --config or the default location.
func loadConfig() (*config.LoadResult, error) {
	path := configPath
	if path == "" {
		var err error
		path, err = config.DefaultConfigPath()
		if err != nil {
			return nil, err
		}
	}
	return config.LoadFromPath(path)
}

// newLogger builds the process logger. Shells draw on the terminal, so
// their logs go to a file; the daemon and MCP server log to stderr.
func newLogger(cfg *config.Config, toFile bool) (*slog.Logger, io.Closer, error) {
	level, err := cfg.Logging.SlogLevel()
	if err != nil {
		return nil, nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	path := cfg.Logging.File
	if path == "" && toFile {
		path, err = runtimepath.LogPath()
		if err != nil {
			return nil, nil, err
		}
	}
	if path == "" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, opts)), f, nil
}

// startEngine connects to the window system and runs the first discovery.
// The caller owns teardown: Shutdown the engine, then Close the backend.
func startEngine(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*engine.Engine, platform.Backend, error) {
	backend, err := platform.NewBackend()
	if err != nil {
		return nil, nil, err
	}
	if c, ok := backend.(interface{ Compositing() bool }); ok && !c.Compositing() {
		logger.Warn("no compositing manager detected; opacity changes will not be visible")
	}
	eng := engine.New(backend, cfg.EngineOptions(logger))
	if err := eng.Initialize(ctx); err != nil {
		backend.Close()
		return nil, nil, fmt.Errorf("failed to initialize: %w", err)
	}
	return eng, backend, nil
}
