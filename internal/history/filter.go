package history

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FilterOptions specifies criteria for filtering entries.
type FilterOptions struct {
	Since    time.Duration // Only entries newer than now-since (0 = all)
	App      string        // Exact match on app name, case-insensitive
	Urgency  *int          // nil = any
	OpenOnly bool          // Only entries without a recorded close
	Limit    int           // Maximum results (0 = unlimited)
}

// Filter returns the entries matching opts, keeping their order.
func Filter(entries []Entry, opts FilterOptions) []Entry {
	now := time.Now()
	result := make([]Entry, 0, len(entries))

	for _, e := range entries {
		if opts.Since > 0 && e.ReceivedAt.Before(now.Add(-opts.Since)) {
			continue
		}
		if opts.App != "" && !strings.EqualFold(e.AppName, opts.App) {
			continue
		}
		if opts.Urgency != nil && e.Urgency != *opts.Urgency {
			continue
		}
		if opts.OpenOnly && !e.Open() {
			continue
		}
		result = append(result, e)
	}

	if opts.Limit > 0 && len(result) > opts.Limit {
		result = result[:opts.Limit]
	}
	return result
}

// Search returns entries whose summary or body contains term,
// case-insensitively.
func Search(entries []Entry, term string) []Entry {
	if term == "" {
		return entries
	}

	term = strings.ToLower(term)
	var result []Entry
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Summary), term) ||
			strings.Contains(strings.ToLower(e.Body), term) {
			result = append(result, e)
		}
	}
	return result
}

// ParseDuration parses a duration with day and week suffixes in addition
// to Go durations: 48h, 7d, 1w. "0" and "" mean no limit.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "0" || s == "" {
		return 0, nil
	}

	if days, found := strings.CutSuffix(s, "d"); found {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	if weeks, found := strings.CutSuffix(s, "w"); found {
		n, err := strconv.Atoi(weeks)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		return time.Duration(n) * 7 * 24 * time.Hour, nil
	}

	return time.ParseDuration(s)
}

// ParseUrgency parses an urgency name or number.
func ParseUrgency(s string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "0":
		return 0, nil
	case "normal", "1":
		return 1, nil
	case "critical", "2":
		return 2, nil
	default:
		return 0, fmt.Errorf("invalid urgency %q, must be low, normal or critical", s)
	}
}
