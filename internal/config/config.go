// Package config handles ktmd configuration loading and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultMaxExpire   = 10 * time.Second
	DefaultLogLevel    = "WARNING"
	DefaultUnreadPath  = "/tmp/unread_notifications"
	DefaultUnreadMatch = "New message"
	DefaultPopupWidth  = 300
	DefaultIconSize    = 48
	DefaultVolume      = 100
)

// DaemonConfig is the configuration for ktmd.
// Loaded from ~/.config/ktm/ktmd.toml and overridden by command line flags.
type DaemonConfig struct {
	LogLevel string        `toml:"log_level"`
	Timeouts TimeoutConfig `toml:"timeouts"`
	Layout   LayoutConfig  `toml:"layout"`
	Popup    PopupConfig   `toml:"popup"`
	Unread   UnreadConfig  `toml:"unread"`
	History  HistoryConfig `toml:"history"`
	Sound    SoundConfig   `toml:"sound"`
}

// TimeoutConfig contains expiration settings.
type TimeoutConfig struct {
	// MaxExpire caps caller supplied timeouts and is used when the caller
	// asks for the server default.
	MaxExpire Duration `toml:"max_expire"`
}

// LayoutConfig describes where popups are stacked.
type LayoutConfig struct {
	Margins   []int  `toml:"margins"`   // top, right, bottom, left
	Anchor    string `toml:"anchor"`    // NORTH_WEST, SOUTH_WEST, SOUTH_EAST, NORTH_EAST
	Direction string `toml:"direction"` // VERTICAL or HORIZONTAL
}

// PopupConfig contains popup rendering settings.
type PopupConfig struct {
	Width    int    `toml:"width"`     // Preferred popup width in pixels
	IconSize int    `toml:"icon_size"` // Icons are scaled to fit this square
	CSS      string `toml:"css"`       // Optional user stylesheet
}

// UnreadConfig controls the unread counter file.
type UnreadConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
	Match   string `toml:"match"` // Summary substring that counts as unread
}

// HistoryConfig controls the notification journal.
type HistoryConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"` // Defaults to $XDG_DATA_HOME/ktm/history.jsonl
}

// SoundConfig controls notification sounds. The per-urgency files play
// when a notification names no sound of its own.
type SoundConfig struct {
	Enabled  bool   `toml:"enabled"`
	Volume   int    `toml:"volume"` // 0-100
	Low      string `toml:"low"`
	Normal   string `toml:"normal"`
	Critical string `toml:"critical"`
}

// DefaultDaemonConfig returns a new DaemonConfig with default values.
func DefaultDaemonConfig() *DaemonConfig {
	return &DaemonConfig{
		LogLevel: DefaultLogLevel,
		Timeouts: TimeoutConfig{
			MaxExpire: Duration(DefaultMaxExpire),
		},
		Layout: LayoutConfig{
			Margins:   []int{0, 0, 0, 0},
			Anchor:    "NORTH_EAST",
			Direction: "VERTICAL",
		},
		Popup: PopupConfig{
			Width:    DefaultPopupWidth,
			IconSize: DefaultIconSize,
		},
		Unread: UnreadConfig{
			Enabled: true,
			Path:    DefaultUnreadPath,
			Match:   DefaultUnreadMatch,
		},
		History: HistoryConfig{
			Enabled: true,
		},
		Sound: SoundConfig{
			Volume: DefaultVolume,
		},
	}
}

// DaemonConfigPath returns the path to the daemon config file.
func DaemonConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "ktm", "ktmd.toml"), nil
}

// DataDir returns the ktm data directory.
// Uses XDG_DATA_HOME if set, otherwise ~/.local/share.
func DataDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "ktm"), nil
}

// HistoryPath returns the default path of the history journal.
func HistoryPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.jsonl"), nil
}

// LoadDaemonConfig loads the daemon configuration from path.
// An empty path means DaemonConfigPath. A missing file yields the defaults.
// The result is not normalized; call Normalize before use.
func LoadDaemonConfig(path string) (*DaemonConfig, error) {
	if path == "" {
		var err error
		path, err = DaemonConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
	}

	cfg := DefaultDaemonConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// MaxExpireMillis returns the maximum expiration timeout in milliseconds.
func (c *DaemonConfig) MaxExpireMillis() int {
	return c.Timeouts.MaxExpire.Milliseconds()
}

// ExpandPath replaces a leading ~ with the home directory.
func ExpandPath(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
}
