// Package model defines the history records written by ktmd.
package model

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Urgency levels matching freedesktop spec.
const (
	UrgencyLow      = 0
	UrgencyNormal   = 1
	UrgencyCritical = 2
)

// UrgencyNames maps urgency levels to human-readable names.
var UrgencyNames = map[int]string{
	UrgencyLow:      "low",
	UrgencyNormal:   "normal",
	UrgencyCritical: "critical",
}

// Event is the lifecycle event a record describes.
type Event string

const (
	// EventReceived is written when a notification is shown or replaced.
	EventReceived Event = "received"
	// EventClosed is written when a notification leaves the screen.
	EventClosed Event = "closed"
)

// Record is one line of the history journal.
type Record struct {
	ID             string `json:"id"` // ULID, sortable by creation time
	Event          Event  `json:"event"`
	Timestamp      int64  `json:"timestamp"` // Unix milliseconds
	NotificationID uint32 `json:"notification_id"`

	// Set for received events.
	AppName       string `json:"app_name,omitempty"`
	Summary       string `json:"summary,omitempty"`
	Body          string `json:"body,omitempty"`
	Icon          string `json:"icon,omitempty"`
	ReplacesID    uint32 `json:"replaces_id,omitempty"`
	ExpireTimeout int32  `json:"expire_timeout,omitempty"`
	Urgency       int    `json:"urgency,omitempty"`
	UrgencyName   string `json:"urgency_name,omitempty"`

	// Set for closed events.
	CloseReason string `json:"close_reason,omitempty"`
}

// Validation errors.
var (
	ErrEmptyID            = errors.New("id cannot be empty")
	ErrUnknownEvent       = errors.New("event must be received or closed")
	ErrInvalidTimestamp   = errors.New("timestamp must be greater than 0")
	ErrZeroNotificationID = errors.New("notification_id cannot be 0")
	ErrMissingReason      = errors.New("closed records need a close_reason")
)

func newRecord(event Event, id uint32) (*Record, error) {
	now := time.Now()
	key, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ULID: %w", err)
	}
	return &Record{
		ID:             key.String(),
		Event:          event,
		Timestamp:      now.UnixMilli(),
		NotificationID: id,
	}, nil
}

// NewReceived creates a record for a notification that was displayed.
func NewReceived(id uint32) (*Record, error) {
	r, err := newRecord(EventReceived, id)
	if err != nil {
		return nil, err
	}
	r.SetUrgency(UrgencyNormal)
	return r, nil
}

// NewClosed creates a record for a notification that was closed.
func NewClosed(id uint32, reason string) (*Record, error) {
	r, err := newRecord(EventClosed, id)
	if err != nil {
		return nil, err
	}
	r.CloseReason = reason
	return r, nil
}

// Validate checks that the record has all required fields.
func (r *Record) Validate() error {
	if r.ID == "" {
		return ErrEmptyID
	}
	if r.Event != EventReceived && r.Event != EventClosed {
		return ErrUnknownEvent
	}
	if r.Timestamp <= 0 {
		return ErrInvalidTimestamp
	}
	if r.NotificationID == 0 {
		return ErrZeroNotificationID
	}
	if r.Event == EventClosed && r.CloseReason == "" {
		return ErrMissingReason
	}
	return nil
}

// SetUrgency sets the urgency level and its human-readable name.
func (r *Record) SetUrgency(level int) {
	if level < UrgencyLow || level > UrgencyCritical {
		level = UrgencyNormal
	}
	r.Urgency = level
	r.UrgencyName = UrgencyNames[level]
}

// Time returns the timestamp as a time.Time.
func (r *Record) Time() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// BodyTruncated returns the body truncated to maxLen characters.
// If the body is longer, it is truncated and "..." is appended.
func (r *Record) BodyTruncated(maxLen int) string {
	if maxLen <= 0 {
		return ""
	}

	// Collapse whitespace and newlines to single spaces
	body := []rune(strings.Join(strings.Fields(r.Body), " "))

	if len(body) <= maxLen {
		return string(body)
	}
	if maxLen <= 3 {
		return string(body[:maxLen])
	}
	return string(body[:maxLen-3]) + "..."
}
