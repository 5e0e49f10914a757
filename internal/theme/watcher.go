package theme

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settleDelay lets editors finish writing before the stylesheet is re-read.
const settleDelay = 100 * time.Millisecond

// Watcher re-reads a stylesheet when a CSS file in its directory changes
// and reports the new CSS. Imports from the same directory are covered.
type Watcher struct {
	mu       sync.RWMutex
	logger   *slog.Logger
	sheet    *Stylesheet
	onChange func(css string)

	fw      *fsnotify.Watcher
	doneCh  chan struct{}
	running bool
}

// NewWatcher creates a watcher for sheet.
func NewWatcher(sheet *Stylesheet, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		logger: logger,
		sheet:  sheet,
	}
}

// SetChangeCallback sets the function receiving the new CSS. It runs on
// the watcher goroutine.
func (w *Watcher) SetChangeCallback(cb func(css string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = cb
}

// Start begins watching the stylesheet's directory.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running || w.sheet == nil {
		return nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create stylesheet watcher: %w", err)
	}
	dir := filepath.Dir(w.sheet.Path)
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w.fw = fw
	w.doneCh = make(chan struct{})
	w.running = true

	go w.watchLoop(ctx, fw, w.doneCh)
	w.logger.Debug("stylesheet watcher started", "path", w.sheet.Path)
	return nil
}

// Stop stops watching and waits for the goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	fw, done := w.fw, w.doneCh
	w.mu.Unlock()

	fw.Close()
	<-done
}

// IsRunning reports whether the watcher is active.
func (w *Watcher) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

func (w *Watcher) watchLoop(ctx context.Context, fw *fsnotify.Watcher, done chan struct{}) {
	defer close(done)

	var settle *time.Timer
	var fire <-chan time.Time
	defer func() {
		if settle != nil {
			settle.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Ext(event.Name) != ".css" {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if settle == nil {
				settle = time.NewTimer(settleDelay)
			} else {
				settle.Reset(settleDelay)
			}
			fire = settle.C
		case <-fire:
			fire = nil
			w.check()
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("stylesheet watcher error", "error", err)
		}
	}
}

func (w *Watcher) check() {
	w.mu.RLock()
	sheet, cb := w.sheet, w.onChange
	w.mu.RUnlock()

	changed, err := sheet.Reload()
	if errors.Is(err, os.ErrNotExist) {
		// Mid-replace; the Create that follows triggers another check.
		return
	}
	if err != nil {
		w.logger.Warn("failed to reload stylesheet", "path", sheet.Path, "error", err)
		return
	}
	if changed {
		w.logger.Info("stylesheet changed, reloading", "path", sheet.Path)
		if cb != nil {
			cb(sheet.CSS)
		}
	}
}
