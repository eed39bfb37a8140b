package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/1broseidon/wintrans/internal/ipc"
	"github.com/1broseidon/wintrans/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol integration",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server (stdio transport)",
	Long: `Start the MCP server on stdio. Designed to be invoked by MCP clients.

By default the server runs its own engine and restores every window when the
client disconnects. With --daemon it forwards to a running 'wintrans daemon'.`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().Bool("daemon", false, "Forward tool calls to the running daemon")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, args []string) error {
	useDaemon, _ := cmd.Flags().GetBool("daemon")

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

	var ctl mcp.Controller
	if useDaemon {
		client := ipc.NewClient()
		if err := client.Ping(); err != nil {
			return err
		}
		ctl = client
	} else {
		eng, backend, err := startEngine(ctx, res.Config, logger)
		if err != nil {
			return err
		}
		defer backend.Close()
		defer eng.Shutdown()
		ctl = mcp.NewLocalController(eng)
	}

	return mcp.NewServer(ctl, logger).Run(ctx)
}
