package display

import (
	"unsafe"

	"github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"

	"github.com/skalanux/ktm/internal/layout"
)

// primaryMonitor returns the first monitor of display. GTK4 has no
// notion of a primary monitor.
func primaryMonitor(display *gdk.Display) *gdk.Monitor {
	if display == nil {
		return nil
	}
	monitors := display.Monitors()
	if monitors == nil || monitors.NItems() == 0 {
		return nil
	}
	return wrapMonitor(monitors.Item(0))
}

// wrapMonitor wraps a list item as a gdk.Monitor. gotk4 does not export
// its own wrapper; gdk.Monitor is a struct embedding *glib.Object.
func wrapMonitor(obj *glib.Object) *gdk.Monitor {
	if obj == nil {
		return nil
	}
	type monitor struct {
		_ [0]func()
		*glib.Object
	}
	m := &monitor{Object: obj}
	return (*gdk.Monitor)(unsafe.Pointer(m))
}

// monitorSize returns the logical size of monitor.
func monitorSize(monitor *gdk.Monitor) (layout.Size, bool) {
	if monitor == nil {
		return layout.Size{}, false
	}
	geo := monitor.Geometry()
	if geo == nil {
		return layout.Size{}, false
	}
	return layout.Size{Width: geo.Width(), Height: geo.Height()}, true
}
