package store

import (
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// JournalWatcher reports writes to a journal file. Bursts of writes are
// coalesced into a single pending change.
type JournalWatcher struct {
	watcher  *fsnotify.Watcher
	filePath string
	logger   *slog.Logger
	changes  chan struct{}
	done     chan struct{}
	mu       sync.Mutex
	running  bool
}

// NewJournalWatcher creates a watcher for the journal at filePath.
func NewJournalWatcher(filePath string, logger *slog.Logger) (*JournalWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &JournalWatcher{
		watcher:  watcher,
		filePath: filePath,
		logger:   logger,
		changes:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}, nil
}

// Changes returns the channel signalled after the journal changes.
// It is closed by Stop.
func (jw *JournalWatcher) Changes() <-chan struct{} {
	return jw.changes
}

// Start begins watching the file for changes.
func (jw *JournalWatcher) Start() error {
	jw.mu.Lock()
	defer jw.mu.Unlock()
	if jw.running {
		return nil
	}

	// Watch the directory containing the file (more reliable for writes)
	if err := jw.watcher.Add(filepath.Dir(jw.filePath)); err != nil {
		return err
	}
	jw.running = true

	go jw.watch()
	return nil
}

func (jw *JournalWatcher) watch() {
	defer close(jw.changes)
	filename := filepath.Base(jw.filePath)

	for {
		select {
		case event, ok := <-jw.watcher.Events:
			if !ok {
				return
			}

			// Only care about our file
			if filepath.Base(event.Name) != filename {
				continue
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				jw.logger.Debug("journal changed", "file", jw.filePath)
				select {
				case jw.changes <- struct{}{}:
				default:
				}
			}

		case err, ok := <-jw.watcher.Errors:
			if !ok {
				return
			}
			jw.logger.Warn("journal watcher error", "error", err)

		case <-jw.done:
			return
		}
	}
}

// Stop stops the watcher.
func (jw *JournalWatcher) Stop() error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	if !jw.running {
		return jw.watcher.Close()
	}

	jw.running = false
	close(jw.done)
	return jw.watcher.Close()
}
