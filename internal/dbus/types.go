package dbus

import (
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/skalanux/ktm/internal/icon"
	"github.com/skalanux/ktm/internal/model"
)

// CloseReason represents the reason for closing a notification.
// These values are defined by the freedesktop.org notification specification.
type CloseReason uint32

const (
	// CloseReasonExpired indicates the notification expired (timeout reached).
	CloseReasonExpired CloseReason = 1
	// CloseReasonDismissed indicates the user dismissed the notification.
	CloseReasonDismissed CloseReason = 2
	// CloseReasonClosed indicates the notification was closed via CloseNotification.
	CloseReasonClosed CloseReason = 3
	// CloseReasonUndefined is reserved/undefined per the freedesktop spec.
	CloseReasonUndefined CloseReason = 4
)

// String returns the string representation of the close reason.
func (r CloseReason) String() string {
	switch r {
	case CloseReasonExpired:
		return "expired"
	case CloseReasonDismissed:
		return "dismissed"
	case CloseReasonClosed:
		return "closed"
	case CloseReasonUndefined:
		return "undefined"
	default:
		return "unknown"
	}
}

// DBusNotification represents an incoming D-Bus Notify call.
// It contains the raw parameters from the org.freedesktop.Notifications.Notify method.
type DBusNotification struct {
	AppName       string
	ReplacesID    uint32
	AppIcon       string
	Summary       string
	Body          string
	Actions       []string // Accepted but never rendered
	Hints         map[string]dbus.Variant
	ExpireTimeout int32 // -1 = server default, 0 = never expire
}

func (n *DBusNotification) hint(names ...string) (dbus.Variant, bool) {
	for _, name := range names {
		if v, ok := n.Hints[name]; ok {
			return v, true
		}
	}
	return dbus.Variant{}, false
}

func (n *DBusNotification) stringHint(names ...string) string {
	if v, ok := n.hint(names...); ok {
		if s, ok := v.Value().(string); ok {
			return s
		}
	}
	return ""
}

// Urgency extracts the urgency hint from the notification.
// Returns model.UrgencyNormal if not specified.
func (n *DBusNotification) Urgency() int {
	if v, ok := n.hint("urgency"); ok {
		if b, ok := v.Value().(byte); ok {
			return int(b)
		}
	}
	return model.UrgencyNormal
}

// Category extracts the category hint from the notification.
func (n *DBusNotification) Category() string {
	return n.stringHint("category")
}

// DesktopEntry extracts the desktop-entry hint.
func (n *DBusNotification) DesktopEntry() string {
	return n.stringHint("desktop-entry")
}

// Transient returns true if the transient hint is set.
// Transient notifications are not written to the history journal.
func (n *DBusNotification) Transient() bool {
	if v, ok := n.hint("transient"); ok {
		if b, ok := v.Value().(bool); ok {
			return b
		}
	}
	return false
}

// SoundFile extracts the sound-file hint.
func (n *DBusNotification) SoundFile() string {
	return n.stringHint("sound-file")
}

// SoundName extracts the sound-name hint, a name from the freedesktop
// sound naming specification.
func (n *DBusNotification) SoundName() string {
	return n.stringHint("sound-name")
}

// SuppressSound returns true if the suppress-sound hint is set.
func (n *DBusNotification) SuppressSound() bool {
	if v, ok := n.hint("suppress-sound"); ok {
		if b, ok := v.Value().(bool); ok {
			return b
		}
	}
	return false
}

// ImagePath extracts the image-path hint (image_path in spec 1.1).
func (n *DBusNotification) ImagePath() string {
	return n.stringHint("image-path", "image_path")
}

// HasImageData reports whether the image-data hint (image_data in spec 1.1) is present.
func (n *DBusNotification) HasImageData() bool {
	_, ok := n.hint("image-data", "image_data")
	return ok
}

// ImageData decodes the image-data hint.
func (n *DBusNotification) ImageData() (*icon.Pixmap, error) {
	v, ok := n.hint("image-data", "image_data")
	if !ok {
		return nil, nil
	}
	return icon.ParsePixmap(v.Value())
}

// IconData decodes the deprecated icon_data hint.
func (n *DBusNotification) IconData() (*icon.Pixmap, error) {
	v, ok := n.hint("icon_data")
	if !ok {
		return nil, nil
	}
	return icon.ParsePixmap(v.Value())
}

// IconSource picks the icon to display. The first source present wins:
// image-data, then image-path, then app_icon, then icon_data. A present
// but undecodable source yields no icon and an error.
func (n *DBusNotification) IconSource() (icon.Source, error) {
	switch {
	case n.HasImageData():
		p, err := n.ImageData()
		if err != nil {
			return icon.None(), err
		}
		return icon.FromPixmap(p), nil
	case n.ImagePath() != "":
		return icon.FromString(n.ImagePath()), nil
	case n.AppIcon != "":
		return icon.FromString(n.AppIcon), nil
	default:
		if _, ok := n.hint("icon_data"); !ok {
			return icon.None(), nil
		}
		p, err := n.IconData()
		if err != nil {
			return icon.None(), fmt.Errorf("icon_data: %w", err)
		}
		return icon.FromPixmap(p), nil
	}
}

// ServerCapabilities lists the capabilities advertised by ktmd.
var ServerCapabilities = []string{
	"body",        // Support body text
	"body-markup", // Support Pango markup in body
	"persistence", // Popups stay until closed when expire_timeout is 0
	"icon-static", // Support static icons
}

// ServerInfo contains information about the notification server.
type ServerInfo struct {
	Name        string
	Vendor      string
	Version     string
	SpecVersion string
}

// DefaultServerInfo returns the default server information.
func DefaultServerInfo() ServerInfo {
	return ServerInfo{
		Name:        "Notifications",
		Vendor:      "freedesktop.org",
		Version:     "0.1", // Replaced by the build version in cmd/ktmd
		SpecVersion: "0.7.1",
	}
}
