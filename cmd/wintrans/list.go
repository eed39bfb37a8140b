package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/wintrans/internal/discovery"
	"github.com/1broseidon/wintrans/internal/platform"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the windows wintrans would manage",
	Long:  "Run one discovery pass and print the windows found, without changing any window style.",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().Int("depth", 0, "Discovery depth (default from config; 1 = top-level windows only)")
	rootCmd.AddCommand(listCmd)
}

// windowEntry is the YAML output for one discovered window.
type windowEntry struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
	Class string `yaml:"class,omitempty"`
}

func runList(cmd *cobra.Command, args []string) error {
	res, err := loadConfig()
	if err != nil {
		return err
	}
	logger, logFile, err := newLogger(res.Config, false)
	if err != nil {
		return err
	}
	defer logFile.Close()

	backend, err := platform.NewBackend()
	if err != nil {
		return err
	}
	defer backend.Close()

	opts := res.Config.EngineOptions(logger).Discovery
	if depth, _ := cmd.Flags().GetInt("depth"); depth > 0 {
		opts.MaxDepth = depth
	}

	windows := discovery.NewDiscoverer(backend, opts).Windows()
	return printWindows(cmd, windows)
}

func printWindows(cmd *cobra.Command, windows []platform.Window) error {
	entries := make([]windowEntry, 0, len(windows))
	for _, w := range windows {
		entries = append(entries, windowEntry{
			ID:    fmt.Sprintf("%#x", uint64(w.ID)),
			Label: w.Label,
			Class: w.Class,
		})
	}
	out, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal windows: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
