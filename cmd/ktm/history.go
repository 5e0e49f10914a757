package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skalanux/ktm/internal/config"
	"github.com/skalanux/ktm/internal/history"
	"github.com/skalanux/ktm/internal/output"
	"github.com/skalanux/ktm/internal/store"
)

var historyOpts struct {
	file string

	// Filter options
	since   string
	app     string
	urgency string
	search  string
	open    bool
	limit   int

	// Sort options
	sortBy    string
	sortOrder string

	// Output options
	format   string
	template string
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse the notification history",
	Long: `Print the notifications ktmd has shown, newest first.

Each entry pairs a notification with the way it was closed. Notifications
still on screen, or whose close was never recorded, show as open.

Examples:
  # Everything from the last day
  ktm history --since 1d

  # Critical notifications from one application as JSON
  ktm history --app firefox --urgency critical --format json

  # Pick an entry with a launcher
  ktm history --format dmenu | fuzzel -d`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all history entries",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyClearCmd)

	historyCmd.PersistentFlags().StringVar(&historyOpts.file, "history-file", "",
		"Path to history file (default: ~/.local/share/ktm/history.jsonl)")

	// Filter flags
	historyCmd.Flags().StringVar(&historyOpts.since, "since", "",
		"Show notifications from the last duration (e.g., 1h, 7d, 1w)")
	historyCmd.Flags().StringVar(&historyOpts.app, "app", "",
		"Filter by application name (exact match)")
	historyCmd.Flags().StringVar(&historyOpts.urgency, "urgency", "",
		"Filter by urgency (low, normal, critical)")
	historyCmd.Flags().StringVarP(&historyOpts.search, "search", "s", "",
		"Search in summary and body")
	historyCmd.Flags().BoolVar(&historyOpts.open, "open", false,
		"Only notifications that have not been closed")
	historyCmd.Flags().IntVarP(&historyOpts.limit, "limit", "n", 0,
		"Maximum number of notifications to show (0=unlimited)")

	// Sort flags
	historyCmd.Flags().StringVar(&historyOpts.sortBy, "sort", "time",
		"Sort by field (time, app, urgency)")
	historyCmd.Flags().StringVar(&historyOpts.sortOrder, "order", "desc",
		"Sort order (asc, desc)")

	// Output flags
	historyCmd.Flags().StringVarP(&historyOpts.format, "format", "f", "plain",
		"Output format (plain, dmenu, json, yaml)")
	historyCmd.Flags().StringVar(&historyOpts.template, "template", "",
		"Custom Go template for plain and dmenu output")
}

func runHistory(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(historyOpts.format)
	if err != nil {
		return err
	}
	filterOpts, err := historyFilterOptions()
	if err != nil {
		return err
	}

	path, err := historyPath()
	if err != nil {
		return err
	}
	records, err := store.ReadJournal(path)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	logger.Debug("history loaded", "path", path, "records", len(records))

	entries := history.Build(records)
	if historyOpts.search != "" {
		entries = history.Search(entries, historyOpts.search)
	}
	history.Sort(entries, history.SortOptions{
		Field: history.ParseSortField(historyOpts.sortBy),
		Order: history.ParseSortOrder(historyOpts.sortOrder),
	})
	entries = history.Filter(entries, filterOpts)

	opts := output.DefaultOptions()
	opts.Template = historyOpts.template
	return output.NewFormatter(format, opts).Format(cmd.OutOrStdout(), entries)
}

// historyFilterOptions converts the filter flags. Invalid values are
// errors rather than being ignored.
func historyFilterOptions() (history.FilterOptions, error) {
	opts := history.FilterOptions{
		App:      historyOpts.app,
		OpenOnly: historyOpts.open,
		Limit:    historyOpts.limit,
	}

	if historyOpts.since != "" {
		d, err := history.ParseDuration(historyOpts.since)
		if err != nil {
			return opts, fmt.Errorf("invalid --since: %w", err)
		}
		opts.Since = d
	}

	if historyOpts.urgency != "" {
		u, err := history.ParseUrgency(historyOpts.urgency)
		if err != nil {
			return opts, err
		}
		opts.Urgency = &u
	}

	return opts, nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	path, err := historyPath()
	if err != nil {
		return err
	}
	j, err := store.OpenJSONLJournal(path)
	if err != nil {
		return err
	}
	defer j.Close()

	if err := j.Clear(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", path)
	return nil
}

// historyPath resolves the journal path: flag, then config, then default.
func historyPath() (string, error) {
	path := historyOpts.file
	if path == "" {
		path = cfg.History.Path
	}
	if path == "" {
		return config.HistoryPath()
	}
	return config.ExpandPath(path), nil
}
