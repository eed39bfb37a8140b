package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/1broseidon/wintrans/internal/engine"
	"github.com/1broseidon/wintrans/internal/hotkeys"
	"github.com/1broseidon/wintrans/internal/ipc"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run wintrans in the background with global hotkeys and IPC",
	Long: `Run the engine without a terminal. Commands arrive from the configured
global hotkeys (X11) and from 'wintrans send' over the runtime socket.`,
	Args: cobra.NoArgs,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(daemonCmd)
}

// eventLooper is implemented by backends that deliver hotkey events.
type eventLooper interface {
	EventLoop()
	QuitEventLoop()
}

func runDaemon(cmd *cobra.Command, args []string) error {
	res, err := loadConfig()
	if err != nil {
		return err
	}
	logger, logFile, err := newLogger(res.Config, false)
	if err != nil {
		return err
	}
	defer logFile.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng, backend, err := startEngine(ctx, res.Config, logger)
	if err != nil {
		return err
	}
	defer backend.Close()
	defer eng.Shutdown()

	server, err := ipc.NewServer(eng, logger)
	if err != nil {
		return err
	}
	if err := server.Start(); err != nil {
		return err
	}
	defer server.Stop()
	logger.Info("ipc server listening", "socket", server.SocketPath())

	handler, err := hotkeys.NewHandler(backend, func(c engine.Command) {
		if err := eng.HandleCommand(context.Background(), c); err != nil && !errors.Is(err, engine.ErrClosed) {
			logger.Warn("hotkey command failed", "command", c.String(), "error", err)
		}
	}, logger)
	switch {
	case errors.Is(err, hotkeys.ErrNoX11):
		logger.Warn("global hotkeys unavailable", "error", err)
	case err != nil:
		return err
	default:
		go handler.Run(ctx)
		if err := handler.Register(res.Config.HotkeyBindings()); err != nil {
			logger.Warn("some hotkeys were not registered", "error", err)
		}
	}

	if loop, ok := backend.(eventLooper); ok {
		go loop.EventLoop()
		defer loop.QuitEventLoop()
	}

	logger.Info("wintrans daemon started", "windows", len(eng.Status().Windows))
	select {
	case <-ctx.Done():
		logger.Info("shutting down wintrans daemon")
	case <-eng.Done():
		logger.Info("exit requested")
	}
	eng.Shutdown()
	return nil
}
