package config

import (
	"fmt"
	"strconv"
	"time"
)

// Duration is a timeout in the config file. A bare number is taken as
// milliseconds, the unit notification timeouts use on the bus; anything
// else must parse with time.ParseDuration.
type Duration time.Duration

// Millis returns a Duration of ms milliseconds.
func Millis(ms int) Duration {
	return Duration(time.Duration(ms) * time.Millisecond)
}

// UnmarshalText parses "2500" or "2.5s".
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)
	if ms, err := strconv.Atoi(s); err == nil {
		*d = Millis(ms)
		return nil
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q, want milliseconds or a value like 10s: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText writes the duration in time.Duration notation.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration().String()), nil
}

// Milliseconds returns the duration in whole milliseconds.
func (d Duration) Milliseconds() int {
	return int(d.Duration().Milliseconds())
}

// Duration returns the value as a time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
