package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/skalanux/ktm/internal/history"
)

// DmenuFormatter writes one line per entry for dmenu, rofi or fuzzel.
type DmenuFormatter struct {
	opts     Options
	template *template.Template
}

// NewDmenuFormatter creates a dmenu formatter.
func NewDmenuFormatter(opts Options) *DmenuFormatter {
	return &DmenuFormatter{opts: opts, template: parseTemplate("dmenu", opts.Template)}
}

// Format implements Formatter.
func (f *DmenuFormatter) Format(w io.Writer, entries []history.Entry) error {
	for i := range entries {
		if _, err := fmt.Fprintln(w, f.formatLine(i+1, &entries[i])); err != nil {
			return err
		}
	}
	return nil
}

func (f *DmenuFormatter) formatLine(index int, e *history.Entry) string {
	if f.template != nil {
		var buf strings.Builder
		data := templateData{Index: index, Entry: e, RelativeTime: shortTime(e.ReceivedAt)}
		if err := f.template.Execute(&buf, data); err == nil {
			return buf.String()
		}
	}

	sep := f.opts.Separator
	if sep == "" {
		sep = " | "
	}

	var parts []string
	if f.opts.ShowIndex {
		parts = append(parts, fmt.Sprintf("%d", index))
	}
	parts = append(parts, shortTime(e.ReceivedAt))
	if e.AppName != "" {
		parts = append(parts, e.AppName)
	}

	content := singleLine(e.Summary, 0)
	if body := singleLine(e.Body, f.opts.BodyMaxLen); body != "" {
		content += ": " + body
	}
	parts = append(parts, content)

	return strings.Join(parts, sep)
}
