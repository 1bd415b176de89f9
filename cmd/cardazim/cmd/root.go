/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cardazim/cardazim/pkg/config"
	"github.com/cardazim/cardazim/pkg/di"
	"github.com/cardazim/cardazim/pkg/storage"
)

var (
	container *di.Container
	cfg       *config.Config
	logger    *logrus.Logger
)

// SetContainer injects the dependency container used by all commands
func SetContainer(c *di.Container) {
	container = c
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cardazim",
	Short: "cardazim - trade riddle cards over TCP",
	Long: `cardazim sends and collects riddle cards. A card carries a name, a
creator, a riddle and an image encrypted with the riddle's solution.
Collectors store received cards and can solve them later.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cfg = loaded

		logger, err = config.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: OS-specific location)")
	rootCmd.PersistentFlags().StringP("data-dir", "d", "", "Data directory for the card store")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
}

// loadConfig reads the config file if present and applies flag overrides.
// A missing file at the default location is not an error.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	explicit := configPath != ""
	if !explicit {
		configPath = config.GetDefaultConfigPath()
	}

	loaded := config.DefaultConfig()
	if config.ConfigExists(configPath) {
		var err error
		if loaded, err = config.LoadConfig(configPath); err != nil {
			return nil, err
		}
	} else if explicit {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if cmd.Flags().Changed("data-dir") {
		loaded.DataDir, _ = cmd.Flags().GetString("data-dir")
	}
	if cmd.Flags().Changed("log-level") {
		loaded.Logging.Level, _ = cmd.Flags().GetString("log-level")
	}

	if err := loaded.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return loaded, nil
}

// openStore opens the card store in the configured data directory
func openStore() (*storage.CardStore, error) {
	if container == nil {
		return nil, errors.New("dependency container not initialized")
	}
	if err := os.MkdirAll(cfg.DataDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	return container.OpenStore(cfg.DataDir)
}
