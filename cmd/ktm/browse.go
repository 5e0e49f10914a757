package main

import (
	"fmt"

	"github.com/esiqveland/notify"
	"github.com/spf13/cobra"

	"github.com/skalanux/ktm/internal/history"
	"github.com/skalanux/ktm/internal/store"
	"github.com/skalanux/ktm/internal/tui"
)

var browseOpts struct {
	clipboard string
	noWatch   bool
}

var historyBrowseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the notification history interactively",
	Long: `Open a terminal browser over the notification history.

The list follows the history file and reloads when ktmd writes to it.
Popups that are still open can be closed from the browser when ktmd is
reachable on the session bus.`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	historyCmd.AddCommand(historyBrowseCmd)

	historyBrowseCmd.Flags().StringVar(&browseOpts.clipboard, "clipboard", "",
		"Clipboard command (default: wl-copy, xclip or xsel)")
	historyBrowseCmd.Flags().BoolVar(&browseOpts.noWatch, "no-watch", false,
		"Do not reload when the history file changes")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	path, err := historyPath()
	if err != nil {
		return err
	}

	opts := tui.RunOptions{
		Load:             journalLoader(path),
		ClipboardCommand: browseOpts.clipboard,
	}

	if !browseOpts.noWatch {
		watcher, err := store.NewJournalWatcher(path, logger)
		if err != nil {
			logger.Warn("failed to create history watcher", "error", err)
		} else if err := watcher.Start(); err != nil {
			logger.Warn("failed to watch history file", "path", path, "error", err)
			watcher.Stop()
		} else {
			defer watcher.Stop()
			opts.Changes = watcher.Changes()
		}
	}

	if conn, err := sessionBus(); err != nil {
		logger.Debug("closing popups disabled", "error", err)
	} else {
		defer conn.Close()
		notifier, err := notify.New(conn)
		if err != nil {
			logger.Debug("closing popups disabled", "error", err)
		} else {
			defer notifier.Close()
			opts.Close = func(id uint32) error {
				_, err := notifier.CloseNotification(id)
				return err
			}
		}
	}

	return tui.Run(opts)
}

// journalLoader returns a loader reading the journal at path, newest
// entry first.
func journalLoader(path string) tui.LoadFunc {
	return func() ([]history.Entry, error) {
		records, err := store.ReadJournal(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read history: %w", err)
		}
		entries := history.Build(records)
		history.Sort(entries, history.DefaultSortOptions())
		return entries, nil
	}
}
