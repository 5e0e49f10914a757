package main

import (
	"fmt"
	"strconv"

	"github.com/esiqveland/notify"
	"github.com/spf13/cobra"
)

var closeCmd = &cobra.Command{
	Use:   "close ID...",
	Short: "Close notifications by ID",
	Long: `Ask the notification server to close the given notifications.

Closing an ID that is not on screen is not an error.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClose,
}

func init() {
	rootCmd.AddCommand(closeCmd)
}

func runClose(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}

	conn, err := sessionBus()
	if err != nil {
		return err
	}
	defer conn.Close()

	notifier, err := notify.New(conn)
	if err != nil {
		return fmt.Errorf("failed to create notifier: %w", err)
	}
	defer notifier.Close()

	for _, id := range ids {
		if _, err := notifier.CloseNotification(id); err != nil {
			return fmt.Errorf("failed to close notification %d: %w", id, err)
		}
		logger.Debug("close requested", "id", id)
	}
	return nil
}

func parseIDs(args []string) ([]uint32, error) {
	ids := make([]uint32, 0, len(args))
	for _, a := range args {
		id, err := strconv.ParseUint(a, 10, 32)
		if err != nil || id == 0 {
			return nil, fmt.Errorf("invalid notification ID %q", a)
		}
		ids = append(ids, uint32(id))
	}
	return ids, nil
}
