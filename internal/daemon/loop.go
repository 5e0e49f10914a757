package daemon

import (
	"context"
	"sync"
	"time"
)

// Loop runs functions one at a time on a single goroutine.
type Loop interface {
	// Post queues fn. It returns false if the loop no longer accepts work.
	Post(fn func()) bool
}

// Call runs fn on the loop and waits for it to finish.
// It returns false if the loop refused the work. Call must not be used
// from inside the loop.
func Call(l Loop, fn func()) bool {
	done := make(chan struct{})
	ok := l.Post(func() {
		defer close(done)
		fn()
	})
	if !ok {
		return false
	}
	<-done
	return true
}

// Timer is a pending scheduled callback.
type Timer interface {
	// Stop cancels the callback if it has not run yet.
	Stop()
}

// Scheduler runs callbacks on the loop after a delay.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) Timer
}

// ChanLoop is a Loop backed by a goroutine reading from a channel.
type ChanLoop struct {
	queue chan func()
	done  chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewChanLoop creates a loop with the given queue size.
func NewChanLoop(size int) *ChanLoop {
	return &ChanLoop{
		queue: make(chan func(), size),
		done:  make(chan struct{}),
	}
}

// Post queues fn.
func (l *ChanLoop) Post(fn func()) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		return false
	}
	select {
	case l.queue <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Run executes queued functions until ctx is cancelled. Work queued
// before cancellation still runs before Run returns.
func (l *ChanLoop) Run(ctx context.Context) {
	for {
		select {
		case fn := <-l.queue:
			fn()
		case <-ctx.Done():
			l.shutdown()
			return
		}
	}
}

func (l *ChanLoop) shutdown() {
	close(l.done)

	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()

	for {
		select {
		case fn := <-l.queue:
			fn()
		default:
			return
		}
	}
}

// AfterFuncScheduler schedules callbacks with time.AfterFunc and runs them
// on a Loop.
type AfterFuncScheduler struct {
	loop Loop
}

// NewAfterFuncScheduler creates a scheduler posting to loop.
func NewAfterFuncScheduler(loop Loop) *AfterFuncScheduler {
	return &AfterFuncScheduler{loop: loop}
}

// Schedule runs fn on the loop after d.
func (s *AfterFuncScheduler) Schedule(d time.Duration, fn func()) Timer {
	return &afterFuncTimer{t: time.AfterFunc(d, func() {
		s.loop.Post(fn)
	})}
}

type afterFuncTimer struct {
	t *time.Timer
}

func (t *afterFuncTimer) Stop() {
	t.t.Stop()
}
