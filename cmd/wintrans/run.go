package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/1broseidon/wintrans/internal/tui"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the interactive window list (default)",
	Args:  cobra.NoArgs,
	RunE:  runInteractive,
}

func init() {
	runCmd.Flags().Bool("plain", false, "Use the plain raw-mode console instead of the full-screen TUI")
	rootCmd.AddCommand(runCmd)
}

func runInteractive(cmd *cobra.Command, args []string) error {
	plain, _ := cmd.Flags().GetBool("plain")

	res, err := loadConfig()
	if err != nil {
		return err
	}
	logger, logFile, err := newLogger(res.Config, true)
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

	// A signal tears down like Exit; the shells then observe Done.
	go func() {
		select {
		case <-ctx.Done():
			eng.Shutdown()
		case <-eng.Done():
		}
	}()

	if plain {
		err = tui.NewConsole(eng, os.Stdin, os.Stdout, logger).Run(ctx)
	} else {
		err = tui.RunInteractive(eng)
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
