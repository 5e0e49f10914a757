package daemon

import (
	"log/slog"
	"strings"

	"github.com/skalanux/ktm/internal/layout"
	"github.com/skalanux/ktm/internal/markup"
)

// LogRenderer is a Renderer for sessions without a display. Its windows
// only log what a popup would show and where.
type LogRenderer struct {
	logger *slog.Logger
	screen layout.Size
	width  int
}

// NewLogRenderer creates a LogRenderer for a virtual screen.
func NewLogRenderer(screen layout.Size, popupWidth int, logger *slog.Logger) *LogRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogRenderer{logger: logger, screen: screen, width: popupWidth}
}

// ScreenSize implements Renderer.
func (r *LogRenderer) ScreenSize() layout.Size {
	return r.screen
}

// NewWindow implements Renderer.
func (r *LogRenderer) NewWindow(c Content, _ func()) (Window, error) {
	body := markup.Strip(c.Body)

	// Summary line plus one line per body line, 20px each, plus padding.
	lines := 1
	if body != "" {
		lines += strings.Count(body, "\n") + 1
	}

	return &logWindow{
		logger:  r.logger,
		summary: markup.Strip(c.Summary),
		body:    body,
		icon:    c.Icon.Kind.String(),
		width:   r.width,
		height:  lines*20 + 16,
	}, nil
}

type logWindow struct {
	logger  *slog.Logger
	summary string
	body    string
	icon    string

	width, height int
	x, y          int
}

func (w *logWindow) Size() (int, int) {
	return w.width, w.height
}

func (w *logWindow) Move(x, y int) {
	w.x, w.y = x, y
}

func (w *logWindow) Show() {
	w.logger.Info("popup",
		"summary", w.summary, "body", w.body, "icon", w.icon,
		"x", w.x, "y", w.y, "width", w.width, "height", w.height)
}

func (w *logWindow) Hide() {}

func (w *logWindow) Destroy() {}
