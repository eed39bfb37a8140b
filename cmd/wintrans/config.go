package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the configuration",
}

var configPrintCmd = &cobra.Command{
	Use:   "print",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigPrint,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configPrintCmd, configValidateCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigPrint(cmd *cobra.Command, args []string) error {
	res, err := loadConfig()
	if err != nil {
		return err
	}
	out, err := res.Config.Marshal()
	if err != nil {
		return err
	}
	if !res.Exists {
		fmt.Fprintf(cmd.OutOrStdout(), "# %s not found; showing defaults\n", res.Path)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	res, err := loadConfig()
	if err != nil {
		return err
	}
	if !res.Exists {
		fmt.Fprintf(cmd.OutOrStdout(), "%s not found; defaults are valid\n", res.Path)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", res.Path)
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	res, err := loadConfig()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Path)
	return nil
}
