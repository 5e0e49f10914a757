package daemon

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/skalanux/ktm/internal/dbus"
	"github.com/skalanux/ktm/internal/layout"
	"github.com/skalanux/ktm/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeWindow struct {
	content   Content
	onClick   func()
	w, h      int
	x, y      int
	shown     bool
	hidden    bool
	destroyed bool
}

func (f *fakeWindow) Size() (int, int) { return f.w, f.h }
func (f *fakeWindow) Move(x, y int)    { f.x, f.y = x, y }
func (f *fakeWindow) Show()            { f.shown = true }
func (f *fakeWindow) Hide()            { f.hidden = true }
func (f *fakeWindow) Destroy()         { f.destroyed = true }

type fakeRenderer struct {
	screen  layout.Size
	height  int
	fail    bool
	windows []*fakeWindow
}

func (r *fakeRenderer) NewWindow(c Content, onClick func()) (Window, error) {
	if r.fail {
		return nil, errors.New("no display")
	}
	h := r.height
	if h == 0 {
		h = 50
	}
	w := &fakeWindow{content: c, onClick: onClick, w: 100, h: h}
	r.windows = append(r.windows, w)
	return w, nil
}

func (r *fakeRenderer) ScreenSize() layout.Size { return r.screen }

func (r *fakeRenderer) last() *fakeWindow {
	return r.windows[len(r.windows)-1]
}

type fakeTimer struct {
	delay   time.Duration
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() { t.stopped = true }

// fire runs the callback even if the timer was stopped, like a timer whose
// callback was already queued on the loop.
func (t *fakeTimer) fire() { t.fn() }

type fakeScheduler struct {
	timers []*fakeTimer
}

func (s *fakeScheduler) Schedule(d time.Duration, fn func()) Timer {
	t := &fakeTimer{delay: d, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) last() *fakeTimer {
	if len(s.timers) == 0 {
		return nil
	}
	return s.timers[len(s.timers)-1]
}

type closedSignal struct {
	id     uint32
	reason dbus.CloseReason
}

type fakeEmitter struct {
	signals []closedSignal
	err     error
}

func (e *fakeEmitter) EmitNotificationClosed(id uint32, reason dbus.CloseReason) error {
	e.signals = append(e.signals, closedSignal{id, reason})
	return e.err
}

type fakeCounter struct {
	n   int
	err error
}

func (c *fakeCounter) Increment() error {
	if c.err != nil {
		return c.err
	}
	c.n++
	return nil
}

type fakeJournal struct {
	records []model.Record
	err     error
}

func (j *fakeJournal) Append(r model.Record) error {
	if j.err != nil {
		return j.err
	}
	j.records = append(j.records, r)
	return nil
}

type playedSound struct {
	file    string
	name    string
	urgency int
}

type fakeSound struct {
	played []playedSound
}

func (s *fakeSound) Play(file, name string, urgency int) {
	s.played = append(s.played, playedSound{file, name, urgency})
}
