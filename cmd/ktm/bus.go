package main

import (
	"fmt"

	godbus "github.com/godbus/dbus/v5"
)

// sessionBus opens a private connection to the session bus. The caller
// closes it.
func sessionBus() (*godbus.Conn, error) {
	conn, err := godbus.SessionBusPrivate()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	if err := conn.Auth(nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("session bus authentication failed: %w", err)
	}
	if err := conn.Hello(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("session bus hello failed: %w", err)
	}
	return conn, nil
}
