package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/skalanux/ktm/internal/layout"
)

// Diagnostic describes a configuration value that was rejected and
// replaced by its default.
type Diagnostic struct {
	Field   string
	Value   any
	Message string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s (got %v)", d.Field, d.Message, d.Value)
}

// ParseLogLevel maps a level name to a slog level.
// WARNING and CRITICAL are accepted as aliases of WARN and ERROR.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR", "CRITICAL":
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("unknown log level %q", s)
	}
}

// Normalize replaces every invalid value with its default and reports
// what was replaced. The config is always usable afterwards.
func (c *DaemonConfig) Normalize() []Diagnostic {
	def := DefaultDaemonConfig()
	var diags []Diagnostic

	reject := func(field string, value any, msg string) {
		diags = append(diags, Diagnostic{Field: field, Value: value, Message: msg})
	}

	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		reject("log_level", c.LogLevel, "unknown level, using "+def.LogLevel)
		c.LogLevel = def.LogLevel
	}

	if c.Timeouts.MaxExpire.Milliseconds() < 1 {
		reject("timeouts.max_expire", c.Timeouts.MaxExpire.Duration(), "must be at least 1ms")
		c.Timeouts.MaxExpire = def.Timeouts.MaxExpire
	}

	if _, err := marginsFromSlice(c.Layout.Margins); err != nil {
		reject("layout.margins", c.Layout.Margins, err.Error())
		c.Layout.Margins = def.Layout.Margins
	}
	if _, err := layout.ParseAnchor(c.Layout.Anchor); err != nil {
		reject("layout.anchor", c.Layout.Anchor, "unknown anchor")
		c.Layout.Anchor = def.Layout.Anchor
	}
	if _, err := layout.ParseDirection(c.Layout.Direction); err != nil {
		reject("layout.direction", c.Layout.Direction, "unknown direction")
		c.Layout.Direction = def.Layout.Direction
	}

	if c.Popup.Width <= 0 {
		reject("popup.width", c.Popup.Width, "must be positive")
		c.Popup.Width = def.Popup.Width
	}
	if c.Popup.IconSize <= 0 {
		reject("popup.icon_size", c.Popup.IconSize, "must be positive")
		c.Popup.IconSize = def.Popup.IconSize
	}

	if c.Unread.Enabled && strings.TrimSpace(c.Unread.Path) == "" {
		reject("unread.path", c.Unread.Path, "must not be empty")
		c.Unread.Path = def.Unread.Path
	}

	if c.Sound.Volume < 0 || c.Sound.Volume > 100 {
		reject("sound.volume", c.Sound.Volume, "must be between 0 and 100")
		c.Sound.Volume = def.Sound.Volume
	}

	return diags
}

// LogLevelValue returns the parsed log level.
func (c *DaemonConfig) LogLevelValue() slog.Level {
	lvl, _ := ParseLogLevel(c.LogLevel)
	return lvl
}

// LayoutSettings converts the layout section to a layout.Config.
// Invalid values fall back to the defaults, so Normalize should run first
// if rejections need to be reported.
func (c *DaemonConfig) LayoutSettings() layout.Config {
	out := layout.DefaultConfig()
	if m, err := marginsFromSlice(c.Layout.Margins); err == nil {
		out.Margins = m
	}
	if a, err := layout.ParseAnchor(c.Layout.Anchor); err == nil {
		out.Anchor = a
	}
	if d, err := layout.ParseDirection(c.Layout.Direction); err == nil {
		out.Direction = d
	}
	return out
}

// SetMargins stores margins parsed from a "t,r,b,l" string.
func (c *DaemonConfig) SetMargins(s string) error {
	m, err := layout.ParseMargins(s)
	if err != nil {
		return err
	}
	c.Layout.Margins = []int{m.Top, m.Right, m.Bottom, m.Left}
	return nil
}

func marginsFromSlice(vals []int) (layout.Margins, error) {
	if len(vals) != 4 {
		return layout.Margins{}, fmt.Errorf("need 4 values, got %d", len(vals))
	}
	for _, v := range vals {
		if v < 0 {
			return layout.Margins{}, fmt.Errorf("value %d is negative", v)
		}
	}
	return layout.Margins{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3]}, nil
}
