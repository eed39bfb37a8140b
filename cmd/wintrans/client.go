package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/wintrans/internal/engine"
	"github.com/1broseidon/wintrans/internal/ipc"
	"github.com/1broseidon/wintrans/internal/platform"
)

var sendCmd = &cobra.Command{
	Use:   "send <command>",
	Short: "Send a command to the running daemon",
	Long: "Run one command in the daemon and print the resulting text.\n\nCommands: " +
		strings.Join(engine.CommandNames(), ", "),
	Args:      cobra.ExactArgs(1),
	ValidArgs: engine.CommandNames(),
	RunE:      runSend,
}

var selectCmd = &cobra.Command{
	Use:   "select <window-id>",
	Short: "Mark a window translucent in the running daemon",
	Long:  "Select or unselect one window by the ID printed by 'wintrans list' or 'wintrans status'.",
	Args:  cobra.ExactArgs(1),
	RunE:  runSelect,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the daemon's opacity and window list",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print the text the daemon currently shows",
	Args:  cobra.NoArgs,
	RunE:  runSnapshot,
}

func init() {
	selectCmd.Flags().Bool("off", false, "Unselect the window instead")
	statusCmd.Flags().Bool("json", false, "Print JSON instead of YAML")
	rootCmd.AddCommand(sendCmd, selectCmd, statusCmd, snapshotCmd)
}

func runSend(cmd *cobra.Command, args []string) error {
	c, err := engine.ParseCommand(args[0])
	if err != nil {
		return err
	}
	text, err := ipc.NewClient().RunCommand(c.String())
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), text)
	return nil
}

func runSelect(cmd *cobra.Command, args []string) error {
	id, err := parseWindowID(args[0])
	if err != nil {
		return err
	}
	off, _ := cmd.Flags().GetBool("off")

	status, err := ipc.NewClient().SetSelected(id, !off)
	if err != nil {
		return err
	}
	return printStatus(cmd, status, false)
}

func runStatus(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		return fmt.Errorf("daemon not reachable: %w", err)
	}
	return printStatus(cmd, status, asJSON)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	text, err := ipc.NewClient().GetSnapshot()
	if err != nil {
		return fmt.Errorf("daemon not reachable: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), text)
	return nil
}

// parseWindowID accepts decimal or 0x-prefixed hex IDs.
func parseWindowID(s string) (platform.WindowID, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 0, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid window id %q", s)
	}
	return platform.WindowID(id), nil
}

func printStatus(cmd *cobra.Command, status *engine.Status, asJSON bool) error {
	var (
		out []byte
		err error
	)
	if asJSON {
		out, err = json.MarshalIndent(status, "", "  ")
		out = append(out, '\n')
	} else {
		out, err = yaml.Marshal(status)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
