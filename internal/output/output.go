// Package output formats notification history for the ktm command.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/skalanux/ktm/internal/history"
)

// Formatter writes history entries.
type Formatter interface {
	Format(w io.Writer, entries []history.Entry) error
}

// FormatType is an output format name.
type FormatType string

const (
	FormatPlain FormatType = "plain"
	FormatDmenu FormatType = "dmenu"
	FormatJSON  FormatType = "json"
	FormatYAML  FormatType = "yaml"
)

// Formats lists the supported format names.
var Formats = []FormatType{FormatPlain, FormatDmenu, FormatJSON, FormatYAML}

// ParseFormat parses a format name.
func ParseFormat(s string) (FormatType, error) {
	f := FormatType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q, must be one of: %v", s, Formats)
}

// Options configures formatters.
type Options struct {
	Template   string // Custom text/template for plain and dmenu output
	ShowIndex  bool
	BodyMaxLen int    // 0 = unlimited
	Separator  string // dmenu field separator
}

// DefaultOptions returns the options used by ktm history.
func DefaultOptions() Options {
	return Options{
		ShowIndex:  true,
		BodyMaxLen: 80,
		Separator:  " | ",
	}
}

// NewFormatter returns the formatter for format. Unknown formats get
// the plain formatter.
func NewFormatter(format FormatType, opts Options) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}
	case FormatYAML:
		return &YAMLFormatter{}
	case FormatDmenu:
		return NewDmenuFormatter(opts)
	default:
		return NewPlainFormatter(opts)
	}
}
