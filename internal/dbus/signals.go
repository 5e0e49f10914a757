package dbus

import (
	"fmt"
)

// EmitNotificationClosed tells clients that notification id left the
// screen and why.
func (s *NotificationServer) EmitNotificationClosed(id uint32, reason CloseReason) error {
	if err := s.emit("NotificationClosed", id, uint32(reason)); err != nil {
		return err
	}
	s.logger.Debug("emitted NotificationClosed", "id", id, "reason", reason.String())
	return nil
}

// emit sends a signal of the notification interface from DBusPath.
func (s *NotificationServer) emit(member string, args ...any) error {
	s.mu.RLock()
	conn := s.conn
	s.mu.RUnlock()

	if conn == nil {
		return ErrNotConnected
	}
	if err := conn.Emit(DBusPath, DBusInterface+"."+member, args...); err != nil {
		return fmt.Errorf("failed to emit %s: %w", member, err)
	}
	return nil
}
