package theme

import (
	"context"
	"log/slog"
	"sync"

	"github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
)

// Loader installs the popup stylesheets on a display. The user
// stylesheet, if any, is layered over the default one.
type Loader struct {
	mu      sync.Mutex
	logger  *slog.Logger
	base    *gtk.CSSProvider
	user    *gtk.CSSProvider
	sheet   *Stylesheet
	watcher *Watcher
}

// NewLoader creates a Loader. It must be called on the GTK main thread.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger: logger,
		base:   gtk.NewCSSProvider(),
		user:   gtk.NewCSSProvider(),
	}
}

// Load loads the default stylesheet and the user stylesheet at userPath.
// An empty userPath means no user stylesheet. A user file that cannot be
// read is logged and skipped.
func (l *Loader) Load(userPath string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.base.LoadFromString(DefaultCSS)

	if userPath == "" {
		return
	}
	sheet, err := LoadStylesheet(userPath)
	if err != nil {
		l.logger.Warn("failed to load user stylesheet, using default", "path", userPath, "error", err)
		return
	}
	l.sheet = sheet
	l.user.LoadFromString(sheet.CSS)
	l.logger.Info("loaded user stylesheet", "path", userPath)
}

// Apply registers the stylesheets with display, or the default display
// when nil.
func (l *Loader) Apply(display *gdk.Display) {
	if display == nil {
		display = gdk.DisplayGetDefault()
	}
	if display == nil {
		l.logger.Warn("no display available, cannot apply stylesheet")
		return
	}

	gtk.StyleContextAddProviderForDisplay(display, l.base, gtk.STYLE_PROVIDER_PRIORITY_APPLICATION)
	gtk.StyleContextAddProviderForDisplay(display, l.user, gtk.STYLE_PROVIDER_PRIORITY_USER)
}

// StartHotReload reloads the user stylesheet when its file changes.
func (l *Loader) StartHotReload(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.sheet == nil {
		return
	}
	if l.watcher != nil {
		l.watcher.Stop()
	}

	l.watcher = NewWatcher(l.sheet, l.logger)
	l.watcher.SetChangeCallback(func(css string) {
		glib.IdleAdd(func() {
			l.user.LoadFromString(css)
		})
	})
	if err := l.watcher.Start(ctx); err != nil {
		l.logger.Warn("stylesheet hot reload disabled", "path", l.sheet.Path, "error", err)
		l.watcher = nil
	}
}

// StopHotReload stops watching the user stylesheet.
func (l *Loader) StopHotReload() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.watcher != nil {
		l.watcher.Stop()
		l.watcher = nil
	}
}
