package audio

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// Player decodes sound files and plays them on the default output.
type Player struct {
	mu     sync.Mutex
	logger *slog.Logger

	// Volume control (0.0 to 1.0)
	volume float64

	initialized bool
	sampleRate  beep.SampleRate

	cache *soundCache
}

// maxCachedSounds bounds the decode cache. Hint files name arbitrary paths,
// so the cache evicts the oldest entry once it is full.
const maxCachedSounds = 16

type soundCache struct {
	mu      sync.Mutex
	limit   int
	buffers map[string]*beep.Buffer
	order   []string
}

func newSoundCache(limit int) *soundCache {
	return &soundCache{limit: limit, buffers: make(map[string]*beep.Buffer)}
}

func (c *soundCache) get(path string) (*beep.Buffer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.buffers[path]
	return b, ok
}

func (c *soundCache) put(path string, b *beep.Buffer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.buffers[path]; ok {
		c.buffers[path] = b
		return
	}
	for len(c.order) >= c.limit {
		delete(c.buffers, c.order[0])
		c.order = c.order[1:]
	}
	c.buffers[path] = b
	c.order = append(c.order, path)
}

func (c *soundCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buffers)
}

func (c *soundCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buffers = make(map[string]*beep.Buffer)
	c.order = nil
}

// NewPlayer creates a Player. The speaker is opened on first use.
func NewPlayer(logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	return &Player{
		logger:     logger,
		volume:     1.0,
		sampleRate: beep.SampleRate(44100),
		cache:      newSoundCache(maxCachedSounds),
	}
}

// SetVolume sets the playback volume, clamped to 0.0-1.0.
func (p *Player) SetVolume(volume float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = min(max(volume, 0), 1)
}

// Play starts playing the file at path and returns once it is decoded.
// WAV, Ogg Vorbis and MP3 files are supported.
func (p *Player) Play(path string) error {
	if path == "" {
		return nil
	}

	buffer, ok := p.cache.get(path)

	if !ok {
		var err error
		buffer, err = p.load(path)
		if err != nil {
			return err
		}
		p.cache.put(path, buffer)
	}

	p.play(buffer)
	return nil
}

// ClearCache drops decoded sounds so changed files are read again.
func (p *Player) ClearCache() {
	p.cache.clear()
}

// Close stops playback and releases the speaker.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		speaker.Close()
		p.initialized = false
	}
	p.ClearCache()
}

func (p *Player) load(path string) (*beep.Buffer, error) {
	decode, err := decoderFor(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sound file: %w", err)
	}
	defer func() { _ = f.Close() }()

	streamer, format, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode sound %s: %w", path, err)
	}
	defer func() { _ = streamer.Close() }()

	if err := p.ensureInitialized(format.SampleRate); err != nil {
		return nil, err
	}

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)
	p.logger.Debug("sound loaded", "path", path, "sample_rate", format.SampleRate)
	return buffer, nil
}

type decodeFunc func(f *os.File) (beep.StreamSeekCloser, beep.Format, error)

// decoderFor picks a decoder by file extension.
func decoderFor(path string) (decodeFunc, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return wav.Decode(f) }, nil
	case ".ogg", ".oga":
		return func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return vorbis.Decode(f) }, nil
	case ".mp3":
		return func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return mp3.Decode(f) }, nil
	default:
		return nil, fmt.Errorf("unsupported audio format: %s", filepath.Ext(path))
	}
}

func (p *Player) ensureInitialized(sampleRate beep.SampleRate) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	// 100ms of buffer keeps latency low without underruns.
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("failed to initialize speaker: %w", err)
	}
	p.sampleRate = sampleRate
	p.initialized = true
	p.logger.Debug("speaker initialized", "sample_rate", sampleRate)
	return nil
}

func (p *Player) play(buffer *beep.Buffer) {
	p.mu.Lock()
	volume := p.volume
	sampleRate := p.sampleRate
	p.mu.Unlock()

	var streamer beep.Streamer = buffer.Streamer(0, buffer.Len())
	if buffer.Format().SampleRate != sampleRate {
		streamer = beep.Resample(4, buffer.Format().SampleRate, sampleRate, streamer)
	}
	if volume < 1.0 {
		streamer = &effects.Volume{
			Streamer: streamer,
			Base:     2,
			Volume:   volumeToExponent(volume),
			Silent:   volume == 0,
		}
	}

	speaker.Play(streamer)
}

// volumeToExponent converts a linear volume to the base 2 exponent
// effects.Volume expects.
func volumeToExponent(volume float64) float64 {
	if volume <= 0 {
		return -10
	}
	return math.Log2(volume)
}
