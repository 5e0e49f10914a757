package daemon

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skalanux/ktm/internal/dbus"
)

type captureNotify struct {
	mu   sync.Mutex
	sent []*dbus.DBusNotification
}

func (c *captureNotify) notify(n *dbus.DBusNotification) uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, n)
	return uint32(len(c.sent))
}

func TestInternalNotifier_Notify(t *testing.T) {
	c := &captureNotify{}
	n := NewInternalNotifier(c.notify, testLogger())

	id := n.Notify("k", "Hello", "world", NotificationLevelError)

	assert.Equal(t, uint32(1), id)
	require.Len(t, c.sent, 1)
	sent := c.sent[0]
	assert.Equal(t, "ktmd", sent.AppName)
	assert.Equal(t, "dialog-error", sent.AppIcon)
	assert.Equal(t, 2, sent.Urgency())
	assert.True(t, sent.Transient())
	assert.Equal(t, int32(-1), sent.ExpireTimeout)
}

func TestInternalNotifier_RateLimitPerKey(t *testing.T) {
	c := &captureNotify{}
	n := NewInternalNotifier(c.notify, testLogger())
	n.SetMinInterval(time.Hour)

	assert.NotZero(t, n.Notify("a", "first", "", NotificationLevelInfo))
	assert.Zero(t, n.Notify("a", "second", "", NotificationLevelInfo))
	assert.NotZero(t, n.Notify("b", "other key", "", NotificationLevelInfo))

	assert.Len(t, c.sent, 2)
}

func TestInternalNotifier_Disabled(t *testing.T) {
	c := &captureNotify{}
	n := NewInternalNotifier(c.notify, testLogger())
	n.SetEnabled(false)

	assert.Zero(t, n.Notify("a", "x", "", NotificationLevelInfo))
	assert.Empty(t, c.sent)
}

func TestInternalNotifier_NilDelivery(t *testing.T) {
	n := NewInternalNotifier(nil, testLogger())
	assert.Zero(t, n.Notify("a", "x", "", NotificationLevelInfo))
}

func TestInternalNotifier_ConfigHelpers(t *testing.T) {
	c := &captureNotify{}
	n := NewInternalNotifier(c.notify, testLogger())

	n.NotifyConfigReloaded()
	n.NotifyConfigError(errors.New("bad anchor"))

	require.Len(t, c.sent, 2)
	assert.Equal(t, "Configuration reloaded", c.sent[0].Summary)
	assert.Equal(t, 0, c.sent[0].Urgency())
	assert.Contains(t, c.sent[1].Body, "bad anchor")
	assert.Equal(t, "dialog-warning", c.sent[1].AppIcon)
}
