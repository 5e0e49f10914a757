package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/skalanux/ktm/internal/history"
	"github.com/skalanux/ktm/internal/model"
)

var (
	indexStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	appStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	summaryStyle  = lipgloss.NewStyle().Bold(true)
	criticalStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	metaStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// PlainFormatter writes a human readable listing.
type PlainFormatter struct {
	opts     Options
	template *template.Template
}

// NewPlainFormatter creates a plain formatter.
func NewPlainFormatter(opts Options) *PlainFormatter {
	return &PlainFormatter{opts: opts, template: parseTemplate("plain", opts.Template)}
}

// Format implements Formatter.
func (f *PlainFormatter) Format(w io.Writer, entries []history.Entry) error {
	for i := range entries {
		if err := f.formatEntry(w, i+1, &entries[i]); err != nil {
			return err
		}
	}
	return nil
}

func (f *PlainFormatter) formatEntry(w io.Writer, index int, e *history.Entry) error {
	if f.template != nil {
		if err := f.template.Execute(w, templateData{
			Index:        index,
			Entry:        e,
			RelativeTime: humanize.Time(e.ReceivedAt),
		}); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err
	}

	var sb strings.Builder
	if f.opts.ShowIndex {
		sb.WriteString(indexStyle.Render(fmt.Sprintf("[%d]", index)) + " ")
	}
	if e.AppName != "" {
		sb.WriteString(appStyle.Render("<"+e.AppName+">") + " ")
	}

	style := summaryStyle
	if e.Urgency == model.UrgencyCritical {
		style = criticalStyle
	}
	sb.WriteString(style.Render(singleLine(e.Summary, 0)))

	sb.WriteString(" " + metaStyle.Render("("+f.status(e)+")"))
	sb.WriteString("\n")

	if e.Body != "" {
		sb.WriteString("    " + singleLine(e.Body, f.opts.BodyMaxLen) + "\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func (f *PlainFormatter) status(e *history.Entry) string {
	received := humanize.Time(e.ReceivedAt)
	if e.Open() {
		return received + ", open"
	}
	return fmt.Sprintf("%s, %s after %s", received, e.CloseReason, humanizeDuration(e))
}

// humanizeDuration formats how long an entry stayed on screen.
func humanizeDuration(e *history.Entry) string {
	return strings.TrimSpace(humanize.RelTime(e.ReceivedAt, e.ClosedAt, "", ""))
}
