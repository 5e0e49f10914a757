package display

import (
	"log/slog"

	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/skalanux/ktm/internal/daemon"
	"github.com/skalanux/ktm/internal/layout"
)

// fallbackScreen is used when no monitor geometry is available.
var fallbackScreen = layout.Size{Width: 1920, Height: 1080}

// Options configures a Renderer.
type Options struct {
	PopupWidth int
	IconSize   int
}

// Renderer creates popup windows on the default display. It implements
// daemon.Renderer and must only be used on the GTK main thread.
type Renderer struct {
	app     *gtk.Application
	opts    Options
	logger  *slog.Logger
	display *gdk.Display
}

// NewRenderer creates a Renderer for app.
func NewRenderer(app *gtk.Application, opts Options, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{app: app, opts: opts, logger: logger}
}

// Start connects to the default display.
func (r *Renderer) Start() error {
	r.display = gdk.DisplayGetDefault()
	if r.display == nil {
		return &DisplayError{Message: "no display available"}
	}
	r.logger.Info("display renderer started", "screen", r.ScreenSize())
	return nil
}

// ScreenSize implements daemon.Renderer.
func (r *Renderer) ScreenSize() layout.Size {
	if size, ok := monitorSize(primaryMonitor(r.display)); ok {
		return size
	}
	return fallbackScreen
}

// NewWindow implements daemon.Renderer.
func (r *Renderer) NewWindow(c daemon.Content, onClick func()) (daemon.Window, error) {
	if r.display == nil {
		return nil, &DisplayError{Message: "renderer not started"}
	}
	return newPopup(r.app, r.display, primaryMonitor(r.display), c, r.opts.PopupWidth, r.opts.IconSize, onClick, r.logger), nil
}

// DisplayError represents a display-related error.
type DisplayError struct {
	Message string
	Cause   error
}

func (e *DisplayError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *DisplayError) Unwrap() error {
	return e.Cause
}
