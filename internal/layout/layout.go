package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// Anchor is the screen corner notifications are stacked from.
type Anchor int

const (
	// NorthWest stacks from the top-left corner.
	NorthWest Anchor = iota
	// SouthWest stacks from the bottom-left corner.
	SouthWest
	// SouthEast stacks from the bottom-right corner.
	SouthEast
	// NorthEast stacks from the top-right corner.
	NorthEast
)

// String returns the configuration name of the anchor.
func (a Anchor) String() string {
	switch a {
	case NorthWest:
		return "NORTH_WEST"
	case SouthWest:
		return "SOUTH_WEST"
	case SouthEast:
		return "SOUTH_EAST"
	case NorthEast:
		return "NORTH_EAST"
	default:
		return "UNKNOWN"
	}
}

// ValidAnchors returns all anchors in declaration order.
func ValidAnchors() []Anchor {
	return []Anchor{NorthWest, SouthWest, SouthEast, NorthEast}
}

// ParseAnchor parses an anchor name such as "north_east" or "NORTH-EAST".
func ParseAnchor(s string) (Anchor, error) {
	name := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	for _, a := range ValidAnchors() {
		if a.String() == name {
			return a, nil
		}
	}
	return NorthWest, fmt.Errorf("invalid layout anchor %q, must be one of: %v", s, ValidAnchors())
}

// Direction is the axis successive notifications are offset along.
type Direction int

const (
	// Vertical stacks notifications above or below each other.
	Vertical Direction = iota
	// Horizontal stacks notifications next to each other.
	Horizontal
)

// String returns the configuration name of the direction.
func (d Direction) String() string {
	switch d {
	case Vertical:
		return "VERTICAL"
	case Horizontal:
		return "HORIZONTAL"
	default:
		return "UNKNOWN"
	}
}

// ParseDirection parses a direction name, case-insensitively.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "VERTICAL":
		return Vertical, nil
	case "HORIZONTAL":
		return Horizontal, nil
	default:
		return Vertical, fmt.Errorf("invalid layout direction %q, must be VERTICAL or HORIZONTAL", s)
	}
}

// Margins is the free space kept on each side of the screen, in pixels.
type Margins struct {
	Top    int
	Right  int
	Bottom int
	Left   int
}

// String formats margins the way ParseMargins accepts them.
func (m Margins) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", m.Top, m.Right, m.Bottom, m.Left)
}

// ParseMargins parses "top,right,bottom,left". Values must be non-negative integers.
func ParseMargins(s string) (Margins, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Margins{}, fmt.Errorf("margins %q: need 4 comma separated values, got %d", s, len(parts))
	}

	var vals [4]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Margins{}, fmt.Errorf("margins %q: %w", s, err)
		}
		if v < 0 {
			return Margins{}, fmt.Errorf("margins %q: value %d is negative", s, v)
		}
		vals[i] = v
	}

	return Margins{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3]}, nil
}

// Config holds everything the layout engine needs besides the windows.
type Config struct {
	Margins   Margins
	Anchor    Anchor
	Direction Direction
}

// DefaultConfig returns the layout used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Anchor:    NorthEast,
		Direction: Vertical,
	}
}

// Size is a width/height pair in pixels.
type Size struct {
	Width  int
	Height int
}

// Window is anything that can be measured and moved.
type Window interface {
	Size() (width, height int)
	Move(x, y int)
}

// Apply moves every window so they are stacked without overlap from the
// configured anchor. Windows are placed in slice order.
func Apply(cfg Config, screen Size, windows []Window) {
	m := cfg.Margins

	var bx, by int
	switch cfg.Anchor {
	case NorthWest:
		bx, by = m.Left, m.Top
	case SouthWest:
		bx, by = m.Left, screen.Height-m.Bottom
	case SouthEast:
		bx, by = screen.Width-m.Right, screen.Height-m.Bottom
	case NorthEast:
		bx, by = screen.Width-m.Right, m.Top
	}

	// Anchors on the right or bottom edge grow towards the screen center.
	dx, dy := 1, 1
	if cfg.Anchor == SouthEast || cfg.Anchor == NorthEast {
		dx = -1
	}
	if cfg.Anchor == SouthWest || cfg.Anchor == SouthEast {
		dy = -1
	}

	for _, w := range windows {
		width, height := w.Size()

		x, y := bx, by
		if dx < 0 {
			x -= width
		}
		if dy < 0 {
			y -= height
		}
		w.Move(x, y)

		switch cfg.Direction {
		case Vertical:
			by += dy * height
		case Horizontal:
			bx += dx * width
		}
	}
}
