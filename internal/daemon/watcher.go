package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/skalanux/ktm/internal/config"
)

// ConfigWatcher watches the daemon config file and reloads it on change.
// A file that fails to parse or has rejected values is ignored as a whole.
type ConfigWatcher struct {
	mu     sync.RWMutex
	logger *slog.Logger

	configPath string
	watcher    *fsnotify.Watcher

	currentConfig *config.DaemonConfig

	// Re-applies settings that must win over the file, such as command
	// line flags.
	overlay func(cfg *config.DaemonConfig)

	onReloadCallback func(newConfig *config.DaemonConfig)
	onErrorCallback  func(err error)

	doneCh  chan struct{}
	running bool
}

// NewConfigWatcher creates a ConfigWatcher for the file at configPath.
func NewConfigWatcher(configPath string, logger *slog.Logger) *ConfigWatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConfigWatcher{
		logger:     logger,
		configPath: configPath,
	}
}

// SetOverlay sets a function applied to every reloaded config before it
// is validated.
func (w *ConfigWatcher) SetOverlay(overlay func(cfg *config.DaemonConfig)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.overlay = overlay
}

// SetReloadCallback sets the callback to invoke when config is successfully reloaded.
func (w *ConfigWatcher) SetReloadCallback(callback func(newConfig *config.DaemonConfig)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReloadCallback = callback
}

// SetErrorCallback sets the callback to invoke when a changed config is rejected.
func (w *ConfigWatcher) SetErrorCallback(callback func(err error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onErrorCallback = callback
}

// Start begins watching. The directory is watched rather than the file so
// editors that replace the file are handled.
func (w *ConfigWatcher) Start(ctx context.Context, initialConfig *config.DaemonConfig) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	dir := filepath.Dir(w.configPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory %s: %w", dir, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w.watcher = fw
	w.currentConfig = initialConfig
	w.doneCh = make(chan struct{})
	w.running = true

	go w.watchLoop(ctx, fw, w.doneCh)

	w.logger.Debug("config watcher started", "path", w.configPath)
	return nil
}

// Stop stops watching the config file.
func (w *ConfigWatcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	fw, done := w.watcher, w.doneCh
	w.mu.Unlock()

	fw.Close()
	<-done
	w.logger.Debug("config watcher stopped")
}

// CurrentConfig returns the last accepted configuration.
func (w *ConfigWatcher) CurrentConfig() *config.DaemonConfig {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.currentConfig
}

func (w *ConfigWatcher) watchLoop(ctx context.Context, fw *fsnotify.Watcher, done chan struct{}) {
	defer close(done)

	name := filepath.Base(w.configPath)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.reload()
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", "error", err)
		}
	}
}

// reload loads the file and reports the outcome through the callbacks.
func (w *ConfigWatcher) reload() {
	w.mu.RLock()
	overlay := w.overlay
	reloadCallback := w.onReloadCallback
	errorCallback := w.onErrorCallback
	w.mu.RUnlock()

	if _, err := os.Stat(w.configPath); errors.Is(err, os.ErrNotExist) {
		// Removed, or the first half of an atomic replace.
		return
	}

	newConfig, err := config.LoadDaemonConfig(w.configPath)
	if err == nil {
		if overlay != nil {
			overlay(newConfig)
		}
		if diags := newConfig.Normalize(); len(diags) > 0 {
			errs := make([]error, len(diags))
			for i, d := range diags {
				errs[i] = d
			}
			err = errors.Join(errs...)
		}
	}

	if err != nil {
		w.logger.Warn("config file changed but was rejected", "path", w.configPath, "error", err)
		if errorCallback != nil {
			errorCallback(err)
		}
		return
	}

	w.mu.Lock()
	w.currentConfig = newConfig
	w.mu.Unlock()

	w.logger.Info("config reloaded", "path", w.configPath)
	if reloadCallback != nil {
		reloadCallback(newConfig)
	}
}
