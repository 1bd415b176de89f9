/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cardazim/cardazim/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write a configuration file with default collector settings and a
freshly generated API key.

Examples:
  cardazim init
  cardazim init --config ./cardazim.yaml --data-dir ./cards --force`,
	Args: cobra.NoArgs,
	// Runs before any config exists, so skip the root pre-run.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}
		dataDir, _ := cmd.Flags().GetString("data-dir")
		force, _ := cmd.Flags().GetBool("force")
		printKey, _ := cmd.Flags().GetBool("print-key")

		return initConfig(cmd.OutOrStdout(), configPath, dataDir, force, printKey)
	},
}

func initConfig(out io.Writer, configPath, dataDir string, force, printKey bool) error {
	if config.ConfigExists(configPath) && !force {
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", configPath)
	}

	cfg, err := config.BootstrapConfig(configPath, dataDir)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Configuration written to %s\n", configPath)
	fmt.Fprintf(out, "Data directory: %s\n", cfg.DataDir)
	fmt.Fprintf(out, "Collector: %s:%d\n", cfg.Server.Bind, cfg.Server.Port)
	if printKey {
		fmt.Fprintf(out, "API key: %s\n", cfg.API.APIKey)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")
	initCmd.Flags().Bool("print-key", false, "Print the generated API key")
}
