package dbus

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
)

const (
	// DBusInterface is the notification interface name.
	DBusInterface = "org.freedesktop.Notifications"
	// DBusPath is the notification object path.
	DBusPath = "/org/freedesktop/Notifications"
	// DBusBusName is the bus name to claim.
	DBusBusName = "org.freedesktop.Notifications"
)

// Handler receives the method calls that change notification state.
// Implementations serialize the calls themselves; the server invokes them
// from godbus goroutines.
type Handler interface {
	// Notify shows or replaces a notification and returns its ID.
	Notify(n *DBusNotification) uint32
	// CloseNotification closes an active notification.
	CloseNotification(id uint32)
}

// ErrNotConnected is returned when a signal is emitted before Start.
var ErrNotConnected = errors.New("not connected to D-Bus")

// NotificationServer implements the org.freedesktop.Notifications D-Bus interface.
type NotificationServer struct {
	conn    *dbus.Conn
	logger  *slog.Logger
	handler Handler

	mu         sync.RWMutex
	serverInfo ServerInfo
	extraCaps  []string
	running    bool
}

// ErrNoHandler is returned to callers when no handler has been set.
var ErrNoHandler = errors.New("notification server has no handler")

// NewNotificationServer creates a new NotificationServer.
func NewNotificationServer(logger *slog.Logger) *NotificationServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationServer{
		logger:     logger,
		serverInfo: DefaultServerInfo(),
	}
}

// SetHandler sets the handler that Notify and CloseNotification delegate to.
func (s *NotificationServer) SetHandler(handler Handler) {
	s.mu.Lock()
	s.handler = handler
	s.mu.Unlock()
}

func (s *NotificationServer) currentHandler() Handler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.handler
}

// SetServerInfo sets the server information returned by GetServerInformation.
func (s *NotificationServer) SetServerInfo(info ServerInfo) {
	s.mu.Lock()
	s.serverInfo = info
	s.mu.Unlock()
}

// AddCapability advertises an optional capability in addition to
// ServerCapabilities.
func (s *NotificationServer) AddCapability(name string) {
	s.mu.Lock()
	s.extraCaps = append(s.extraCaps, name)
	s.mu.Unlock()
}

// Start connects to the session bus and exports the notification service.
func (s *NotificationServer) Start() error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	if err := s.StartOn(conn); err != nil {
		conn.Close()
		return err
	}
	return nil
}

// StartOn exports the notification service on an existing connection and
// claims the well-known name.
func (s *NotificationServer) StartOn(conn *dbus.Conn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("server already running")
	}

	if err := conn.Export(s, DBusPath, DBusInterface); err != nil {
		return fmt.Errorf("failed to export object: %w", err)
	}

	if err := conn.Export(introspect.Introspectable(introspectXML), DBusPath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	reply, err := conn.RequestName(DBusBusName, dbus.NameFlagDoNotQueue|dbus.NameFlagReplaceExisting)
	if err != nil {
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("bus name %s already taken", DBusBusName)
	}

	s.conn = conn
	s.running = true

	s.logger.Info("D-Bus notification server started", "interface", DBusInterface, "path", DBusPath)
	return nil
}

// Stop releases the bus name and closes the connection.
func (s *NotificationServer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	if _, err := s.conn.ReleaseName(DBusBusName); err != nil {
		s.logger.Warn("failed to release bus name", "error", err)
	}
	err := s.conn.Close()
	s.conn = nil

	s.logger.Info("D-Bus notification server stopped")
	return err
}

// GetCapabilities returns the list of capabilities supported by this server.
// D-Bus method: GetCapabilities() -> as
func (s *NotificationServer) GetCapabilities() ([]string, *dbus.Error) {
	s.logger.Debug("GetCapabilities called")
	s.mu.RLock()
	defer s.mu.RUnlock()
	caps := make([]string, 0, len(ServerCapabilities)+len(s.extraCaps))
	caps = append(caps, ServerCapabilities...)
	caps = append(caps, s.extraCaps...)
	return caps, nil
}

// GetServerInformation returns information about the notification server.
// D-Bus method: GetServerInformation() -> (ssss)
func (s *NotificationServer) GetServerInformation() (string, string, string, string, *dbus.Error) {
	s.logger.Debug("GetServerInformation called")
	s.mu.RLock()
	info := s.serverInfo
	s.mu.RUnlock()
	return info.Name, info.Vendor, info.Version, info.SpecVersion, nil
}

// Notify handles incoming notification requests.
// D-Bus method: Notify(susssasa{sv}i) -> u
func (s *NotificationServer) Notify(
	appName string,
	replacesID uint32,
	appIcon string,
	summary string,
	body string,
	actions []string,
	hints map[string]dbus.Variant,
	expireTimeout int32,
) (uint32, *dbus.Error) {
	s.logger.Debug("Notify called",
		"app_name", appName,
		"replaces_id", replacesID,
		"summary", summary,
		"expire_timeout", expireTimeout,
	)

	h := s.currentHandler()
	if h == nil {
		return 0, dbus.MakeFailedError(ErrNoHandler)
	}

	id := h.Notify(&DBusNotification{
		AppName:       appName,
		ReplacesID:    replacesID,
		AppIcon:       appIcon,
		Summary:       summary,
		Body:          body,
		Actions:       actions,
		Hints:         hints,
		ExpireTimeout: expireTimeout,
	})

	return id, nil
}

// CloseNotification closes a notification by ID.
// D-Bus method: CloseNotification(u) -> nothing
func (s *NotificationServer) CloseNotification(id uint32) *dbus.Error {
	s.logger.Debug("CloseNotification called", "id", id)

	h := s.currentHandler()
	if h == nil {
		return dbus.MakeFailedError(ErrNoHandler)
	}
	h.CloseNotification(id)
	return nil
}

// introspectXML describes the exported object. ActionInvoked is declared
// for clients that expect it; ktmd never emits it because the actions
// capability is not advertised.
const introspectXML = `<node name="` + DBusPath + `">
  <interface name="` + DBusInterface + `">
    <method name="GetCapabilities">
      <arg name="capabilities" type="as" direction="out"/>
    </method>
    <method name="GetServerInformation">
      <arg name="name" type="s" direction="out"/>
      <arg name="vendor" type="s" direction="out"/>
      <arg name="version" type="s" direction="out"/>
      <arg name="spec_version" type="s" direction="out"/>
    </method>
    <method name="Notify">
      <arg name="app_name" type="s" direction="in"/>
      <arg name="replaces_id" type="u" direction="in"/>
      <arg name="app_icon" type="s" direction="in"/>
      <arg name="summary" type="s" direction="in"/>
      <arg name="body" type="s" direction="in"/>
      <arg name="actions" type="as" direction="in"/>
      <arg name="hints" type="a{sv}" direction="in"/>
      <arg name="expire_timeout" type="i" direction="in"/>
      <arg name="id" type="u" direction="out"/>
    </method>
    <method name="CloseNotification">
      <arg name="id" type="u" direction="in"/>
    </method>
    <signal name="NotificationClosed">
      <arg name="id" type="u"/>
      <arg name="reason" type="u"/>
    </signal>
    <signal name="ActionInvoked">
      <arg name="id" type="u"/>
      <arg name="action_key" type="s"/>
    </signal>
  </interface>` + introspect.IntrospectDataString + `</node>`
