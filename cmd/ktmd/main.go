// Package main is the entry point for the ktmd notification daemon.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/skalanux/ktm/internal/config"
)

const (
	appID   = "io.github.skalanux.ktmd"
	appName = "ktmd"
)

// Build-time variables (set via ldflags)
var (
	version = "0.1"
)

// flagValues holds the command line settings that override the config file.
type flagValues struct {
	configPath      string
	logLevel        string
	expireTimeout   int
	margins         string
	layoutAnchor    string
	layoutDirection string
	unreadFile      string
	headless        bool
}

var opts flagValues

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Desktop notification daemon",
	Long: `ktmd implements the freedesktop.org desktop notification specification.

Notifications are shown as popups stacked from one corner of the screen.
Settings are read from ~/.config/ktm/ktmd.toml; command line flags take
precedence over the file. Changes to the file are applied while running.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd)
	},
}

func init() {
	registerFlags(rootCmd.Flags(), &opts)
}

func registerFlags(f *pflag.FlagSet, opts *flagValues) {
	f.StringVar(&opts.configPath, "config", "",
		"Path to config file (default: ~/.config/ktm/ktmd.toml)")
	f.StringVarP(&opts.logLevel, "loglevel", "l", config.DefaultLogLevel,
		"Log level: DEBUG, INFO, WARNING, ERROR or CRITICAL")
	f.IntVarP(&opts.expireTimeout, "expire-timeout", "t", int(config.DefaultMaxExpire.Milliseconds()),
		"Maximum and default expiration timeout in milliseconds")
	f.StringVarP(&opts.margins, "margins", "m", "0,0,0,0",
		"Screen margins as top,right,bottom,left")
	f.StringVarP(&opts.layoutAnchor, "layout-anchor", "a", "NORTH_EAST",
		"Corner popups stack from: NORTH_WEST, SOUTH_WEST, SOUTH_EAST or NORTH_EAST")
	f.StringVarP(&opts.layoutDirection, "layout-direction", "d", "VERTICAL",
		"Stacking direction: VERTICAL or HORIZONTAL")
	f.StringVar(&opts.unreadFile, "unread-file", config.DefaultUnreadPath,
		"File holding the unread message counter")
	f.BoolVar(&opts.headless, "headless", false,
		"Log popups instead of drawing them (no display needed)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ktmd:", err)
		os.Exit(1)
	}
}

// flagOverlay returns a function applying the flags the user set
// explicitly. It is applied at startup and to every reloaded file.
func flagOverlay(cmd *cobra.Command, v flagValues, logger *slog.Logger) func(cfg *config.DaemonConfig) {
	changed := func(name string) bool { return cmd.Flags().Changed(name) }

	return func(cfg *config.DaemonConfig) {
		if changed("loglevel") {
			cfg.LogLevel = v.logLevel
		}
		if changed("expire-timeout") {
			cfg.Timeouts.MaxExpire = config.Millis(v.expireTimeout)
		}
		if changed("margins") {
			if err := cfg.SetMargins(v.margins); err != nil {
				logger.Warn("ignoring margins flag", "value", v.margins, "error", err)
			}
		}
		if changed("layout-anchor") {
			cfg.Layout.Anchor = v.layoutAnchor
		}
		if changed("layout-direction") {
			cfg.Layout.Direction = v.layoutDirection
		}
		if changed("unread-file") {
			cfg.Unread.Path = v.unreadFile
			cfg.Unread.Enabled = v.unreadFile != ""
		}
	}
}
