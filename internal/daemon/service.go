package daemon

import (
	"log/slog"

	"github.com/skalanux/ktm/internal/config"
	"github.com/skalanux/ktm/internal/dbus"
)

// Service moves bus calls onto the loop. It implements dbus.Handler.
type Service struct {
	loop   Loop
	ctrl   *Controller
	logger *slog.Logger
}

// NewService creates a Service running ctrl on loop.
func NewService(loop Loop, ctrl *Controller, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{loop: loop, ctrl: ctrl, logger: logger}
}

// Notify implements dbus.Handler.
func (s *Service) Notify(n *dbus.DBusNotification) uint32 {
	var id uint32
	if !Call(s.loop, func() { id = s.ctrl.Notify(n) }) {
		s.logger.Warn("dropping notification, daemon is shutting down", "app_name", n.AppName)
	}
	return id
}

// NotifyAsync queues n on the loop without waiting for it and returns 0.
// Goroutines the loop may wait on, such as the config watcher during
// shutdown, post through it.
func (s *Service) NotifyAsync(n *dbus.DBusNotification) uint32 {
	if !s.loop.Post(func() { s.ctrl.Notify(n) }) {
		s.logger.Warn("dropping notification, daemon is shutting down", "app_name", n.AppName)
	}
	return 0
}

// CloseNotification implements dbus.Handler.
func (s *Service) CloseNotification(id uint32) {
	if !Call(s.loop, func() { s.ctrl.CloseNotification(id) }) {
		s.logger.Warn("dropping close request, daemon is shutting down", "id", id)
	}
}

// ApplyConfig hands reloadable settings to the controller. The new layout
// takes effect at the next structural change.
func (s *Service) ApplyConfig(cfg *config.DaemonConfig) {
	lc := cfg.LayoutSettings()
	maxTimeout := cfg.Timeouts.MaxExpire.Duration()
	s.loop.Post(func() {
		s.ctrl.UpdateLayout(lc)
		s.ctrl.SetMaxTimeout(maxTimeout)
		s.logger.Debug("configuration applied",
			"anchor", lc.Anchor.String(), "direction", lc.Direction.String(),
			"margins", lc.Margins.String(), "max_expire", maxTimeout)
	})
}

// CloseAll closes every popup on the loop and waits for it.
func (s *Service) CloseAll(reason dbus.CloseReason) {
	Call(s.loop, func() { s.ctrl.CloseAll(reason) })
}
