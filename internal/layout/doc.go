// Package layout positions notification popups on screen.
// Popups are stacked contiguously from one of four screen corners,
// either vertically or horizontally, inside configurable margins.
package layout
