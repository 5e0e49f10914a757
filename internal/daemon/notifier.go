package daemon

import (
	"log/slog"
	"sync"
	"time"

	godbus "github.com/godbus/dbus/v5"
	"golang.org/x/time/rate"

	"github.com/skalanux/ktm/internal/dbus"
)

// NotificationLevel indicates the urgency/severity of an internal notification.
type NotificationLevel int

const (
	// NotificationLevelInfo is for informational messages (low urgency).
	NotificationLevelInfo NotificationLevel = iota
	// NotificationLevelWarning is for warning messages (normal urgency).
	NotificationLevelWarning
	// NotificationLevelError is for error messages (critical urgency).
	NotificationLevelError
)

// DefaultNotifyInterval is the minimum time between two internal
// notifications with the same key.
const DefaultNotifyInterval = 5 * time.Second

// InternalNotifier shows notifications about ktmd itself, such as a
// rejected configuration file. Each key is rate limited separately.
type InternalNotifier struct {
	mu     sync.Mutex
	logger *slog.Logger

	notify   func(n *dbus.DBusNotification) uint32
	limiters map[string]*rate.Limiter
	interval time.Duration
	enabled  bool
}

// NewInternalNotifier creates a notifier that delivers through notify,
// normally Service.Notify.
func NewInternalNotifier(notify func(n *dbus.DBusNotification) uint32, logger *slog.Logger) *InternalNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &InternalNotifier{
		logger:   logger,
		notify:   notify,
		limiters: make(map[string]*rate.Limiter),
		interval: DefaultNotifyInterval,
		enabled:  true,
	}
}

// SetEnabled enables or disables internal notifications.
func (n *InternalNotifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// SetMinInterval sets the minimum interval between notifications with the
// same key. Existing limiters are reset.
func (n *InternalNotifier) SetMinInterval(interval time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.interval = interval
	n.limiters = make(map[string]*rate.Limiter)
}

func (n *InternalNotifier) allow(key string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.enabled || n.notify == nil {
		return false
	}
	l, ok := n.limiters[key]
	if !ok {
		l = rate.NewLimiter(rate.Every(n.interval), 1)
		n.limiters[key] = l
	}
	return l.Allow()
}

// Notify shows an internal notification unless one with the same key was
// shown within the minimum interval. It returns the ID reported by the
// delivery function, or 0 when suppressed.
func (n *InternalNotifier) Notify(key, summary, body string, level NotificationLevel) uint32 {
	if !n.allow(key) {
		n.logger.Debug("internal notification suppressed", "key", key, "summary", summary)
		return 0
	}

	urgency := byte(1)
	appIcon := "dialog-information"
	switch level {
	case NotificationLevelInfo:
		urgency = 0
	case NotificationLevelWarning:
		urgency = 1
		appIcon = "dialog-warning"
	case NotificationLevelError:
		urgency = 2
		appIcon = "dialog-error"
	}

	n.logger.Debug("sending internal notification", "key", key, "summary", summary, "level", level)

	return n.notify(&dbus.DBusNotification{
		AppName: "ktmd",
		AppIcon: appIcon,
		Summary: summary,
		Body:    body,
		Hints: map[string]godbus.Variant{
			"urgency":       godbus.MakeVariant(urgency),
			"transient":     godbus.MakeVariant(true),
			"desktop-entry": godbus.MakeVariant("ktmd"),
		},
		ExpireTimeout: -1,
	})
}

// NotifyConfigReloaded reports a successful configuration reload.
func (n *InternalNotifier) NotifyConfigReloaded() {
	n.Notify(
		"config-reload",
		"Configuration reloaded",
		"ktmd picked up the new configuration.",
		NotificationLevelInfo,
	)
}

// NotifyConfigError reports a rejected configuration file.
func (n *InternalNotifier) NotifyConfigError(err error) {
	n.Notify(
		"config-error",
		"Configuration error",
		"Keeping the previous configuration: "+err.Error(),
		NotificationLevelWarning,
	)
}
