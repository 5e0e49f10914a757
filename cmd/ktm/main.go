// Package main provides the ktm command line client.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/skalanux/ktm/internal/config"
)

// Build-time variables (set via ldflags)
var (
	version = "0.1"
)

// Global configuration and state
var (
	cfg        *config.DaemonConfig
	globalOpts struct {
		verbose    bool
		configPath string
	}
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ktm",
	Short: "Client for the ktmd notification daemon",
	Long: `ktm talks to the desktop notification server and reads the files
ktmd maintains.

It can send and close notifications, query the server, print the unread
message counter and browse the notification history.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()

		// Only paths are read from the daemon config, so a broken file
		// falls back to the defaults instead of failing the command.
		var err error
		cfg, err = config.LoadDaemonConfig(globalOpts.configPath)
		if err != nil {
			logger.Warn("failed to load config, using defaults", "error", err)
			cfg = config.DefaultDaemonConfig()
		}
		for _, d := range cfg.Normalize() {
			logger.Debug("invalid configuration value", "field", d.Field, "value", d.Value)
		}
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ktm:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to ktmd config file (default: ~/.config/ktm/ktmd.toml)")
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger = slog.New(handler)
	slog.SetDefault(logger)
}
