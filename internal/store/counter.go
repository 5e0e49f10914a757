package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// UnreadCounter keeps the number of unread messages in a plain text file
// so status bars can display it.
type UnreadCounter struct {
	mu   sync.Mutex
	path string
}

// NewUnreadCounter returns a counter backed by the file at path.
func NewUnreadCounter(path string) *UnreadCounter {
	return &UnreadCounter{path: path}
}

// Path returns the counter file path.
func (c *UnreadCounter) Path() string {
	return c.path
}

// Reset writes 0 to the counter file.
func (c *UnreadCounter) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.write(0)
}

// Increment adds one to the stored value. A missing file counts as 0.
func (c *UnreadCounter) Increment() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, err := c.read()
	if err != nil {
		return err
	}
	return c.write(n + 1)
}

// Value returns the stored value. A missing file counts as 0.
func (c *UnreadCounter) Value() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.read()
}

func (c *UnreadCounter) read() (int, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read unread counter: %w", err)
	}

	s := strings.TrimSpace(string(data))
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("unread counter %s holds %q: %w", c.path, s, err)
	}
	return n, nil
}

// write replaces the file atomically so readers never see a partial value.
func (c *UnreadCounter) write(n int) error {
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(c.path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(strconv.Itoa(n)); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write unread counter: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write unread counter: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write unread counter: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace unread counter: %w", err)
	}
	return nil
}
