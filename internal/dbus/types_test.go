package dbus

import (
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skalanux/ktm/internal/icon"
	"github.com/skalanux/ktm/internal/model"
)

func pixmapValue(w, h int) []any {
	data := make([]byte, w*h*3)
	return []any{int32(w), int32(h), int32(w * 3), false, int32(8), int32(3), data}
}

func TestCloseReasonString(t *testing.T) {
	tests := []struct {
		reason   CloseReason
		expected string
	}{
		{CloseReasonExpired, "expired"},
		{CloseReasonDismissed, "dismissed"},
		{CloseReasonClosed, "closed"},
		{CloseReasonUndefined, "undefined"},
		{CloseReason(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.reason.String())
		})
	}
}

func TestCloseReasonValues(t *testing.T) {
	assert.Equal(t, uint32(1), uint32(CloseReasonExpired))
	assert.Equal(t, uint32(2), uint32(CloseReasonDismissed))
	assert.Equal(t, uint32(3), uint32(CloseReasonClosed))
}

func TestUrgency(t *testing.T) {
	tests := []struct {
		name     string
		hints    map[string]dbus.Variant
		expected int
	}{
		{"no hint", nil, model.UrgencyNormal},
		{"low", map[string]dbus.Variant{"urgency": dbus.MakeVariant(byte(0))}, model.UrgencyLow},
		{"critical", map[string]dbus.Variant{"urgency": dbus.MakeVariant(byte(2))}, model.UrgencyCritical},
		{"wrong type", map[string]dbus.Variant{"urgency": dbus.MakeVariant("high")}, model.UrgencyNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &DBusNotification{Hints: tt.hints}
			assert.Equal(t, tt.expected, n.Urgency())
		})
	}
}

func TestStringHints(t *testing.T) {
	n := &DBusNotification{Hints: map[string]dbus.Variant{
		"category":       dbus.MakeVariant("email.arrived"),
		"desktop-entry":  dbus.MakeVariant("thunderbird"),
		"image_path":     dbus.MakeVariant("/tmp/a.png"),
		"transient":      dbus.MakeVariant(true),
		"sound-file":     dbus.MakeVariant("/tmp/ping.wav"),
		"sound-name":     dbus.MakeVariant("message-new-email"),
		"suppress-sound": dbus.MakeVariant(true),
	}}

	assert.Equal(t, "email.arrived", n.Category())
	assert.Equal(t, "thunderbird", n.DesktopEntry())
	assert.Equal(t, "/tmp/a.png", n.ImagePath())
	assert.True(t, n.Transient())
	assert.Equal(t, "/tmp/ping.wav", n.SoundFile())
	assert.Equal(t, "message-new-email", n.SoundName())
	assert.True(t, n.SuppressSound())

	empty := &DBusNotification{}
	assert.Empty(t, empty.Category())
	assert.Empty(t, empty.ImagePath())
	assert.False(t, empty.Transient())
	assert.False(t, empty.SuppressSound())
}

func TestIconSourcePriority(t *testing.T) {
	tests := []struct {
		name    string
		appIcon string
		hints   map[string]dbus.Variant
		kind    icon.Kind
		iconRef string
	}{
		{
			name:    "image-data wins over everything",
			appIcon: "firefox",
			hints: map[string]dbus.Variant{
				"image-data": dbus.MakeVariant(pixmapValue(2, 2)),
				"image-path": dbus.MakeVariant("/tmp/path.png"),
				"icon_data":  dbus.MakeVariant(pixmapValue(1, 1)),
			},
			kind: icon.KindPixmap,
		},
		{
			name:    "image-path beats app_icon",
			appIcon: "firefox",
			hints: map[string]dbus.Variant{
				"image-path": dbus.MakeVariant("file:///tmp/path.png"),
				"icon_data":  dbus.MakeVariant(pixmapValue(1, 1)),
			},
			kind:    icon.KindPath,
			iconRef: "/tmp/path.png",
		},
		{
			name:    "app_icon beats icon_data",
			appIcon: "firefox",
			hints: map[string]dbus.Variant{
				"icon_data": dbus.MakeVariant(pixmapValue(1, 1)),
			},
			kind:    icon.KindName,
			iconRef: "firefox",
		},
		{
			name:  "icon_data last",
			hints: map[string]dbus.Variant{"icon_data": dbus.MakeVariant(pixmapValue(1, 1))},
			kind:  icon.KindPixmap,
		},
		{
			name: "nothing",
			kind: icon.KindNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &DBusNotification{AppIcon: tt.appIcon, Hints: tt.hints}
			src, err := n.IconSource()
			require.NoError(t, err)
			assert.Equal(t, tt.kind, src.Kind)
			if tt.iconRef != "" {
				assert.Equal(t, tt.iconRef, src.Name)
			}
		})
	}
}

func TestIconSourceInvalidPixmap(t *testing.T) {
	n := &DBusNotification{
		AppIcon: "firefox",
		Hints:   map[string]dbus.Variant{"image-data": dbus.MakeVariant("garbage")},
	}
	src, err := n.IconSource()
	assert.Error(t, err)
	assert.True(t, src.IsZero())

	n = &DBusNotification{Hints: map[string]dbus.Variant{"icon_data": dbus.MakeVariant(int32(4))}}
	src, err = n.IconSource()
	assert.Error(t, err)
	assert.True(t, src.IsZero())
}

func TestImageDataAbsent(t *testing.T) {
	n := &DBusNotification{}
	p, err := n.ImageData()
	assert.NoError(t, err)
	assert.Nil(t, p)
	assert.False(t, n.HasImageData())
}

func TestDefaultServerInfo(t *testing.T) {
	info := DefaultServerInfo()
	assert.Equal(t, "Notifications", info.Name)
	assert.Equal(t, "freedesktop.org", info.Vendor)
	assert.Equal(t, "0.1", info.Version)
	assert.Equal(t, "0.7.1", info.SpecVersion)
}
