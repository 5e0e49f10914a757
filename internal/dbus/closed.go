package dbus

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"
)

// ClosedEvent is a decoded NotificationClosed signal.
type ClosedEvent struct {
	ID     uint32
	Reason CloseReason
}

// ParseClosedSignal decodes a NotificationClosed signal.
// It returns false for any other signal or a malformed body.
func ParseClosedSignal(sig *dbus.Signal) (ClosedEvent, bool) {
	if sig == nil || sig.Name != DBusInterface+".NotificationClosed" {
		return ClosedEvent{}, false
	}
	if len(sig.Body) < 2 {
		return ClosedEvent{}, false
	}
	id, ok := sig.Body[0].(uint32)
	if !ok {
		return ClosedEvent{}, false
	}
	reason, ok := sig.Body[1].(uint32)
	if !ok {
		return ClosedEvent{}, false
	}
	return ClosedEvent{ID: id, Reason: CloseReason(reason)}, true
}

// ClosedWatcher observes NotificationClosed signals from whichever server
// owns the notification name.
type ClosedWatcher struct {
	conn   *dbus.Conn
	logger *slog.Logger
	ch     chan *dbus.Signal
}

func closedMatch() []dbus.MatchOption {
	return []dbus.MatchOption{
		dbus.WithMatchObjectPath(DBusPath),
		dbus.WithMatchInterface(DBusInterface),
		dbus.WithMatchMember("NotificationClosed"),
	}
}

// WatchClosed subscribes to NotificationClosed on conn.
func WatchClosed(conn *dbus.Conn, logger *slog.Logger) (*ClosedWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := conn.AddMatchSignal(closedMatch()...); err != nil {
		return nil, fmt.Errorf("failed to add match rule: %w", err)
	}

	w := &ClosedWatcher{
		conn:   conn,
		logger: logger,
		ch:     make(chan *dbus.Signal, 16),
	}
	conn.Signal(w.ch)
	return w, nil
}

// Wait blocks until the notification with the given ID is closed or ctx
// is done.
func (w *ClosedWatcher) Wait(ctx context.Context, id uint32) (CloseReason, error) {
	return waitClosed(ctx, w.ch, id, w.logger)
}

func waitClosed(ctx context.Context, ch <-chan *dbus.Signal, id uint32, logger *slog.Logger) (CloseReason, error) {
	for {
		select {
		case <-ctx.Done():
			return CloseReasonUndefined, ctx.Err()
		case sig, ok := <-ch:
			if !ok {
				return CloseReasonUndefined, fmt.Errorf("connection closed while waiting for notification %d", id)
			}
			ev, ok := ParseClosedSignal(sig)
			if !ok {
				continue
			}
			logger.Debug("observed NotificationClosed", "id", ev.ID, "reason", ev.Reason.String())
			if ev.ID == id {
				return ev.Reason, nil
			}
		}
	}
}

// Close removes the subscription.
func (w *ClosedWatcher) Close() error {
	w.conn.RemoveSignal(w.ch)
	return w.conn.RemoveMatchSignal(closedMatch()...)
}
