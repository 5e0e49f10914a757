package history

import (
	"sort"
	"strings"
)

// SortField is a field entries can be sorted by.
type SortField string

const (
	SortByTime    SortField = "time"
	SortByApp     SortField = "app"
	SortByUrgency SortField = "urgency"
)

// SortOrder is ascending or descending.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortOptions specifies sorting criteria.
type SortOptions struct {
	Field SortField
	Order SortOrder
}

// DefaultSortOptions returns newest first.
func DefaultSortOptions() SortOptions {
	return SortOptions{Field: SortByTime, Order: SortDesc}
}

// Sort sorts entries in place. Ties keep journal order.
func Sort(entries []Entry, opts SortOptions) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		switch opts.Field {
		case SortByApp:
			ai, bi := strings.ToLower(a.AppName), strings.ToLower(b.AppName)
			if ai == bi {
				return false
			}
			if opts.Order == SortDesc {
				return ai > bi
			}
			return ai < bi
		case SortByUrgency:
			if a.Urgency == b.Urgency {
				return false
			}
			if opts.Order == SortDesc {
				return a.Urgency > b.Urgency
			}
			return a.Urgency < b.Urgency
		default:
			if a.ReceivedAt.Equal(b.ReceivedAt) {
				return false
			}
			if opts.Order == SortDesc {
				return a.ReceivedAt.After(b.ReceivedAt)
			}
			return a.ReceivedAt.Before(b.ReceivedAt)
		}
	})
}

// ParseSortField parses a sort field, defaulting to time.
func ParseSortField(s string) SortField {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "app", "appname", "a":
		return SortByApp
	case "urgency", "u":
		return SortByUrgency
	default:
		return SortByTime
	}
}

// ParseSortOrder parses a sort order, defaulting to descending.
func ParseSortOrder(s string) SortOrder {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending", "a":
		return SortAsc
	default:
		return SortDesc
	}
}
