/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ssargent/cdstream/pkg/codec"
	"github.com/ssargent/cdstream/pkg/config"
	"github.com/ssargent/cdstream/pkg/di"
)

var (
	container *di.Container

	// registry names record signatures in command output
	registry = codec.NewRegistry()
)

// SetContainer injects the dependency container. Commands build one from
// the configuration when none has been set.
func SetContainer(c *di.Container) {
	container = c
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cdstream",
	Short: "cdstream - composite record stream inspector",
	Long: `cdstream reads binary composite-record streams: sequences of records
that each start with a self-describing signature header in byte, word or
dword form.

It decodes single headers, walks streams in either direction, jumps to the
last record and decodes fixed-layout search match buffers.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if container != nil {
			return nil
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		c, err := di.NewContainer(cfg)
		if err != nil {
			return fmt.Errorf("failed to create container: %w", err)
		}
		container = c
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if container != nil {
			// stderr cannot always be synced
			_ = container.Sync()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default ~/.config/cdstream/config.yaml)")
	rootCmd.PersistentFlags().String("store-kind", "", "Record store kind: memory, file or mmap")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
}

// loadConfig loads the config file and environment, then applies flags
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("store-kind") {
		cfg.Store.Kind, _ = cmd.Flags().GetString("store-kind")
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Logging.Level = "debug"
		cfg.Logging.Development = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
