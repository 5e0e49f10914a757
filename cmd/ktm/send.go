package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/esiqveland/notify"
	godbus "github.com/godbus/dbus/v5"
	"github.com/spf13/cobra"

	"github.com/skalanux/ktm/internal/dbus"
	"github.com/skalanux/ktm/internal/history"
)

var sendOpts struct {
	appName     string
	icon        string
	image       string
	category    string
	urgency     string
	timeout     int
	replaces    uint32
	transient   bool
	wait        bool
	waitTimeout time.Duration
}

var sendCmd = &cobra.Command{
	Use:   "send SUMMARY [BODY]",
	Short: "Send a notification",
	Long: `Send a notification to the notification server and print its ID.

With --wait, ktm blocks until the notification is closed and then prints
the close reason (expired, dismissed, closed or undefined).

Examples:
  ktm send "Build done" "All 42 tests passed"
  ktm send -u critical -t 0 "Disk almost full"
  id=$(ktm send "Downloading") && ktm send -r "$id" "Download finished"`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)

	f := sendCmd.Flags()
	f.StringVarP(&sendOpts.appName, "app-name", "a", "ktm", "Application name")
	f.StringVarP(&sendOpts.icon, "icon", "i", "", "Icon name or path")
	f.StringVar(&sendOpts.image, "image", "", "Image file sent as the image-path hint")
	f.StringVarP(&sendOpts.category, "category", "c", "", "Notification category")
	f.StringVarP(&sendOpts.urgency, "urgency", "u", "normal", "Urgency (low, normal, critical)")
	f.IntVarP(&sendOpts.timeout, "expire-time", "t", -1,
		"Expiration timeout in milliseconds (-1 = server default, 0 = never)")
	f.Uint32VarP(&sendOpts.replaces, "replace-id", "r", 0, "ID of the notification to replace")
	f.BoolVar(&sendOpts.transient, "transient", false, "Keep the notification out of the history")
	f.BoolVarP(&sendOpts.wait, "wait", "w", false, "Wait until the notification is closed")
	f.DurationVar(&sendOpts.waitTimeout, "wait-timeout", 0, "Give up waiting after this long (0 = forever)")
}

func runSend(cmd *cobra.Command, args []string) error {
	note, err := buildNotification(args)
	if err != nil {
		return err
	}

	conn, err := sessionBus()
	if err != nil {
		return err
	}
	defer conn.Close()

	// Subscribe before sending so a short-lived notification is not missed.
	var watcher *dbus.ClosedWatcher
	if sendOpts.wait {
		watcher, err = dbus.WatchClosed(conn, logger)
		if err != nil {
			return err
		}
		defer watcher.Close()
	}

	id, err := notify.SendNotification(conn, note)
	if err != nil {
		return err
	}
	logger.Debug("notification sent", "id", id, "summary", note.Summary)
	fmt.Fprintln(cmd.OutOrStdout(), id)

	if watcher == nil {
		return nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if sendOpts.waitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, sendOpts.waitTimeout)
		defer cancel()
	}

	reason, err := watcher.Wait(ctx, id)
	if err != nil {
		return fmt.Errorf("waiting for notification %d: %w", id, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), reason.String())
	return nil
}

// buildNotification turns the command line into a notification.
func buildNotification(args []string) (notify.Notification, error) {
	urgency, err := history.ParseUrgency(sendOpts.urgency)
	if err != nil {
		return notify.Notification{}, err
	}

	note := notify.Notification{
		AppName:       sendOpts.appName,
		ReplacesID:    sendOpts.replaces,
		AppIcon:       sendOpts.icon,
		Summary:       args[0],
		ExpireTimeout: time.Duration(sendOpts.timeout) * time.Millisecond,
	}
	if len(args) > 1 {
		note.Body = args[1]
	}
	note.SetUrgency(notify.Urgency(urgency))

	if sendOpts.image != "" {
		abs, err := filepath.Abs(sendOpts.image)
		if err != nil {
			return notify.Notification{}, fmt.Errorf("invalid image path: %w", err)
		}
		note.AddHint(notify.HintImageFilePath(abs))
	}
	if sendOpts.category != "" {
		note.AddHint(notify.Hint{ID: "category", Variant: godbus.MakeVariant(sendOpts.category)})
	}
	if sendOpts.transient {
		note.AddHint(notify.Hint{ID: "transient", Variant: godbus.MakeVariant(true)})
	}
	return note, nil
}
