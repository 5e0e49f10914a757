package display

import (
	"sync"
	"time"

	"github.com/diamondburned/gotk4/pkg/core/glib"

	"github.com/skalanux/ktm/internal/daemon"
)

// MainLoop is a daemon.Loop running work on the GLib main context, the
// same thread GTK widgets live on.
type MainLoop struct {
	mu     sync.RWMutex
	closed bool
}

// NewMainLoop creates a MainLoop.
func NewMainLoop() *MainLoop {
	return &MainLoop{}
}

// Post queues fn as an idle callback.
func (l *MainLoop) Post(fn func()) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return false
	}
	glib.IdleAdd(fn)
	return true
}

// Close makes later Posts fail. Call it before the main context stops
// so callers blocked in daemon.Call are not left waiting.
func (l *MainLoop) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
}

// Scheduler is a daemon.Scheduler backed by GLib timeout sources.
type Scheduler struct{}

// NewScheduler creates a Scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Schedule runs fn on the main context after d.
func (s *Scheduler) Schedule(d time.Duration, fn func()) daemon.Timer {
	t := &glibTimer{}
	t.handle = glib.TimeoutAdd(uint(d.Milliseconds()), func() bool {
		t.done = true
		fn()
		return false
	})
	return t
}

// glibTimer is only touched on the main context.
type glibTimer struct {
	handle glib.SourceHandle
	done   bool
}

func (t *glibTimer) Stop() {
	if t.done {
		return
	}
	t.done = true
	glib.SourceRemove(t.handle)
}
