// Package history turns journal records into notification entries and
// provides filtering, searching and sorting over them.
package history

import (
	"time"

	"github.com/skalanux/ktm/internal/model"
)

// ReasonReplaced marks an entry whose popup content was replaced by a
// later notification with the same ID.
const ReasonReplaced = "replaced"

// Entry is one notification as it was shown, with how it left the screen.
type Entry struct {
	NotificationID uint32    `json:"notification_id" yaml:"notification_id"`
	AppName        string    `json:"app_name" yaml:"app_name"`
	Summary        string    `json:"summary" yaml:"summary"`
	Body           string    `json:"body,omitempty" yaml:"body,omitempty"`
	Icon           string    `json:"icon,omitempty" yaml:"icon,omitempty"`
	Urgency        int       `json:"urgency" yaml:"urgency"`
	UrgencyName    string    `json:"urgency_name" yaml:"urgency_name"`
	ReceivedAt     time.Time `json:"received_at" yaml:"received_at"`
	ClosedAt       time.Time `json:"closed_at,omitzero" yaml:"closed_at,omitempty"`
	CloseReason    string    `json:"close_reason,omitempty" yaml:"close_reason,omitempty"`
}

// Open reports whether no close was recorded for the entry.
func (e *Entry) Open() bool {
	return e.CloseReason == ""
}

// Duration returns how long the entry was on screen, or 0 when it is open.
func (e *Entry) Duration() time.Duration {
	if e.Open() {
		return 0
	}
	return e.ClosedAt.Sub(e.ReceivedAt)
}

// Build pairs received and closed records into entries, in the order the
// notifications were received. A received record for an ID that is still
// open closes the earlier entry as replaced. Closed records without an
// open entry are ignored.
func Build(records []model.Record) []Entry {
	var entries []Entry
	open := make(map[uint32]int)

	for _, r := range records {
		switch r.Event {
		case model.EventReceived:
			if idx, ok := open[r.NotificationID]; ok {
				entries[idx].ClosedAt = r.Time()
				entries[idx].CloseReason = ReasonReplaced
			}
			entries = append(entries, Entry{
				NotificationID: r.NotificationID,
				AppName:        r.AppName,
				Summary:        r.Summary,
				Body:           r.Body,
				Icon:           r.Icon,
				Urgency:        r.Urgency,
				UrgencyName:    r.UrgencyName,
				ReceivedAt:     r.Time(),
			})
			open[r.NotificationID] = len(entries) - 1
		case model.EventClosed:
			idx, ok := open[r.NotificationID]
			if !ok {
				continue
			}
			entries[idx].ClosedAt = r.Time()
			entries[idx].CloseReason = r.CloseReason
			delete(open, r.NotificationID)
		}
	}
	return entries
}
