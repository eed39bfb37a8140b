package main

import (
	"github.com/spf13/cobra"

	"github.com/1broseidon/wintrans/internal/ipc"
	"github.com/1broseidon/wintrans/internal/palette"
)

var paletteCmd = &cobra.Command{
	Use:   "palette",
	Short: "Pick windows and commands from rofi, fuzzel, wofi or dmenu",
	Long: `Open a launcher listing the daemon's windows and commands. Choosing a
window toggles its transparency; the palette reopens until dismissed.`,
	Args: cobra.NoArgs,
	RunE: runPalette,
}

func init() {
	paletteCmd.Flags().String("backend", "auto", "Launcher: auto, rofi, fuzzel, wofi, dmenu")
	paletteCmd.Flags().Bool("once", false, "Close after the first action")
	rootCmd.AddCommand(paletteCmd)
}

func runPalette(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("backend")
	once, _ := cmd.Flags().GetBool("once")

	backend, err := palette.NewBackend(name)
	if err != nil {
		return err
	}
	return palette.Run(backend, ipc.NewClient(), once)
}
