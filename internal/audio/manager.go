package audio

import (
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/skalanux/ktm/internal/config"
)

// Playback is the part of Player the Manager drives.
type Playback interface {
	Play(path string) error
	SetVolume(volume float64)
	ClearCache()
	Close()
}

// Manager picks the sound for a notification and plays it in the
// background.
type Manager struct {
	mu      sync.RWMutex
	logger  *slog.Logger
	player  Playback
	enabled bool
	sounds  map[int]string // urgency -> file

	// resolveName finds the file for a themed sound name.
	resolveName func(name string) string
	wg          sync.WaitGroup
}

// NewManager creates a Manager playing through a new Player.
func NewManager(cfg config.SoundConfig, logger *slog.Logger) *Manager {
	return newManager(cfg, NewPlayer(logger), logger)
}

func newManager(cfg config.SoundConfig, player Playback, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		logger:      logger,
		player:      player,
		resolveName: ResolveSoundName,
	}
	m.UpdateConfig(cfg)
	return m
}

// UpdateConfig applies a new sound configuration and drops cached sounds.
func (m *Manager) UpdateConfig(cfg config.SoundConfig) {
	sounds := make(map[int]string)
	for urgency, path := range map[int]string{0: cfg.Low, 1: cfg.Normal, 2: cfg.Critical} {
		if path == "" {
			continue
		}
		path = config.ExpandPath(path)
		if _, err := os.Stat(path); err != nil {
			m.logger.Warn("sound file not found", "urgency", urgency, "path", path)
			continue
		}
		sounds[urgency] = path
	}

	m.mu.Lock()
	m.enabled = cfg.Enabled
	m.sounds = sounds
	m.mu.Unlock()

	m.player.SetVolume(float64(cfg.Volume) / 100.0)
	m.player.ClearCache()
	m.logger.Debug("sound configuration applied", "enabled", cfg.Enabled, "sounds", len(sounds))
}

// Enabled reports whether sounds are played at all.
func (m *Manager) Enabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.enabled
}

// SoundFor returns the file to play: the sound-file hint, then the
// sound-name hint, then the file configured for the urgency. An empty
// result means silence.
func (m *Manager) SoundFor(file, name string, urgency int) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.enabled {
		return ""
	}
	if file != "" {
		return pathFromURI(file)
	}
	if name != "" {
		if p := m.resolveName(name); p != "" {
			return p
		}
		m.logger.Debug("sound name not found in theme", "name", name)
	}
	return m.sounds[urgency]
}

// Play plays the sound for a notification without blocking.
func (m *Manager) Play(file, name string, urgency int) {
	path := m.SoundFor(file, name, urgency)
	if path == "" {
		return
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := m.player.Play(path); err != nil {
			m.logger.Warn("failed to play sound", "path", path, "error", err)
		}
	}()
}

// Stop waits for pending decodes and closes the player.
func (m *Manager) Stop() {
	m.wg.Wait()
	m.player.Close()
}

func pathFromURI(s string) string {
	if !strings.HasPrefix(s, "file://") {
		return config.ExpandPath(s)
	}
	u, err := url.Parse(s)
	if err != nil || u.Path == "" {
		return strings.TrimPrefix(s, "file://")
	}
	return filepath.Clean(u.Path)
}
