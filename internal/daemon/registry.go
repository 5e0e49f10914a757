package daemon

import (
	"errors"
	"slices"

	"github.com/skalanux/ktm/internal/layout"
)

// Window is an on-screen popup.
type Window interface {
	layout.Window
	Show()
	Hide()
	Destroy()
}

// ErrUnknownID is returned when an operation names an ID without a window.
var ErrUnknownID = errors.New("no window registered for notification")

// Registry tracks the popups on screen and their expiration timers.
// Windows keep insertion order, which is also their stacking order.
// Every ID with a timer also has a window.
//
// A Registry is not safe for concurrent use; it belongs to the loop.
type Registry struct {
	order   []uint32
	windows map[uint32]Window
	timers  map[uint32]Timer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		windows: make(map[uint32]Window),
		timers:  make(map[uint32]Timer),
	}
}

// Insert registers a window. A new ID goes to the end of the stacking
// order; an existing ID keeps its position.
func (r *Registry) Insert(id uint32, w Window) {
	if _, exists := r.windows[id]; !exists {
		r.order = append(r.order, id)
	}
	r.windows[id] = w
}

// Replace swaps the window of an existing ID in place.
func (r *Registry) Replace(id uint32, w Window) bool {
	if _, exists := r.windows[id]; !exists {
		return false
	}
	r.windows[id] = w
	return true
}

// Window returns the window registered for id.
func (r *Registry) Window(id uint32) (Window, bool) {
	w, ok := r.windows[id]
	return w, ok
}

// Has reports whether id has a window.
func (r *Registry) Has(id uint32) bool {
	_, ok := r.windows[id]
	return ok
}

// Remove unregisters id, stopping its timer. It returns the removed window.
func (r *Registry) Remove(id uint32) (Window, bool) {
	w, ok := r.windows[id]
	if !ok {
		return nil, false
	}
	r.RemoveTimer(id)
	delete(r.windows, id)
	if i := slices.Index(r.order, id); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
	return w, true
}

// SetTimer attaches an expiration timer to id, stopping any previous one.
func (r *Registry) SetTimer(id uint32, t Timer) error {
	if !r.Has(id) {
		return ErrUnknownID
	}
	if old, ok := r.timers[id]; ok {
		old.Stop()
	}
	r.timers[id] = t
	return nil
}

// Timer returns the timer registered for id.
func (r *Registry) Timer(id uint32) (Timer, bool) {
	t, ok := r.timers[id]
	return t, ok
}

// RemoveTimer stops and forgets the timer of id.
func (r *Registry) RemoveTimer(id uint32) bool {
	t, ok := r.timers[id]
	if !ok {
		return false
	}
	t.Stop()
	delete(r.timers, id)
	return true
}

// IDs returns the registered IDs in stacking order.
func (r *Registry) IDs() []uint32 {
	return slices.Clone(r.order)
}

// Windows returns the registered windows in stacking order.
func (r *Registry) Windows() []Window {
	out := make([]Window, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.windows[id])
	}
	return out
}

// Len returns the number of windows.
func (r *Registry) Len() int {
	return len(r.windows)
}

// TimerCount returns the number of pending timers.
func (r *Registry) TimerCount() int {
	return len(r.timers)
}
