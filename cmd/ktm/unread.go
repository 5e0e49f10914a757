package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/skalanux/ktm/internal/config"
	"github.com/skalanux/ktm/internal/store"
)

var unreadOpts struct {
	file   string
	reset  bool
	waybar bool
}

// WaybarStatus represents the Waybar custom module JSON format.
type WaybarStatus struct {
	Text    string `json:"text"`
	Alt     string `json:"alt,omitempty"`
	Tooltip string `json:"tooltip,omitempty"`
	Class   string `json:"class,omitempty"`
}

var unreadCmd = &cobra.Command{
	Use:   "unread",
	Short: "Print or reset the unread message counter",
	Long: `Print the number of unread messages counted by ktmd.

With --waybar the count is printed in Waybar's custom module JSON format:

  "custom/unread": {
    "exec": "ktm unread --waybar",
    "interval": 5,
    "return-type": "json",
    "on-click": "ktm unread --reset"
  }`,
	Args: cobra.NoArgs,
	RunE: runUnread,
}

func init() {
	rootCmd.AddCommand(unreadCmd)

	unreadCmd.Flags().StringVar(&unreadOpts.file, "file", "",
		"Counter file (default: unread.path from the config)")
	unreadCmd.Flags().BoolVar(&unreadOpts.reset, "reset", false,
		"Reset the counter to 0")
	unreadCmd.Flags().BoolVar(&unreadOpts.waybar, "waybar", false,
		"Output Waybar-compatible JSON")
}

func runUnread(cmd *cobra.Command, args []string) error {
	path := unreadOpts.file
	if path == "" {
		path = cfg.Unread.Path
	}
	counter := store.NewUnreadCounter(config.ExpandPath(path))

	if unreadOpts.reset {
		if err := counter.Reset(); err != nil {
			return err
		}
		logger.Debug("unread counter reset", "path", counter.Path())
	}

	n, err := counter.Value()
	if err != nil {
		if unreadOpts.waybar {
			return outputStatus(cmd.OutOrStdout(), WaybarStatus{Alt: "error", Class: "error"})
		}
		return err
	}

	if unreadOpts.waybar {
		return outputStatus(cmd.OutOrStdout(), unreadStatus(n))
	}
	fmt.Fprintln(cmd.OutOrStdout(), n)
	return nil
}

// unreadStatus creates a WaybarStatus for an unread count.
func unreadStatus(n int) WaybarStatus {
	if n <= 0 {
		return WaybarStatus{
			Text:    "",
			Alt:     "empty",
			Tooltip: "No unread messages",
			Class:   "empty",
		}
	}

	tooltip := "1 unread message"
	if n > 1 {
		tooltip = fmt.Sprintf("%d unread messages", n)
	}
	return WaybarStatus{
		Text:    fmt.Sprintf("%d", n),
		Alt:     "unread",
		Tooltip: tooltip,
		Class:   "unread",
	}
}

// outputStatus writes the status as JSON.
func outputStatus(w io.Writer, status WaybarStatus) error {
	return json.NewEncoder(w).Encode(status)
}
