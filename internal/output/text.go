package output

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/skalanux/ktm/internal/history"
	"github.com/skalanux/ktm/internal/markup"
	"github.com/skalanux/ktm/internal/model"
)

// templateData is what custom templates see.
type templateData struct {
	Index        int
	Entry        *history.Entry
	RelativeTime string
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"truncate": truncate,
		"plain":    markup.Strip,
		"reltime":  humanize.Time,
		"urgencyIcon": func(urgency int) string {
			switch urgency {
			case model.UrgencyLow:
				return "L"
			case model.UrgencyCritical:
				return "!"
			default:
				return "-"
			}
		},
	}
}

func parseTemplate(name, text string) *template.Template {
	if text == "" {
		return nil
	}
	tmpl, err := template.New(name).Funcs(templateFuncs()).Parse(text)
	if err != nil {
		return nil
	}
	return tmpl
}

// shortTime returns a compact age such as "5m" or "2d".
func shortTime(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	default:
		return fmt.Sprintf("%dw", int(d.Hours()/24/7))
	}
}

// truncate shortens s to maxLen runes, ending in "..." when cut.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if maxLen <= 0 || len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// singleLine strips markup and collapses whitespace.
func singleLine(s string, maxLen int) string {
	return truncate(strings.Join(strings.Fields(markup.Strip(s)), " "), maxLen)
}
