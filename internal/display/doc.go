// Package display renders notification popups as GTK4 layer-shell windows
// and runs the daemon loop on the GLib main context.
package display
