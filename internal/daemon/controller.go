package daemon

import (
	"log/slog"
	"strings"
	"time"

	"github.com/skalanux/ktm/internal/dbus"
	"github.com/skalanux/ktm/internal/icon"
	"github.com/skalanux/ktm/internal/layout"
	"github.com/skalanux/ktm/internal/model"
)

// Content is what a popup shows.
type Content struct {
	AppName string
	Summary string
	Body    string
	Icon    icon.Source
	Urgency int
}

// Renderer builds popup windows.
type Renderer interface {
	// NewWindow creates a hidden popup. onClick runs on the loop when the
	// user clicks the popup.
	NewWindow(c Content, onClick func()) (Window, error)
	// ScreenSize returns the size of the screen popups are placed on.
	ScreenSize() layout.Size
}

// Emitter reports closed notifications to clients.
type Emitter interface {
	EmitNotificationClosed(id uint32, reason dbus.CloseReason) error
}

// Counter counts notifications that look like unread messages.
type Counter interface {
	Increment() error
}

// Recorder appends lifecycle records to the history.
type Recorder interface {
	Append(r model.Record) error
}

// Sound plays notification sounds. Play must not block the loop.
type Sound interface {
	Play(file, name string, urgency int)
}

// ControllerOptions configures a Controller. Counter, Journal and Sound
// are optional.
type ControllerOptions struct {
	Renderer  Renderer
	Scheduler Scheduler
	Emitter   Emitter
	Counter   Counter
	Journal   Recorder
	Sound     Sound
	Logger    *slog.Logger

	Layout      layout.Config
	MaxTimeout  time.Duration
	UnreadMatch string
}

// Controller owns the notification lifecycle. All methods must be called
// from the loop.
type Controller struct {
	renderer  Renderer
	scheduler Scheduler
	emitter   Emitter
	counter   Counter
	journal   Recorder
	sound     Sound
	logger    *slog.Logger

	registry  *Registry
	lastID    uint32
	untracked map[uint32]bool // transient notifications kept out of the journal

	layout      layout.Config
	maxTimeout  time.Duration
	unreadMatch string
}

// NewController creates a Controller.
func NewController(opts ControllerOptions) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		renderer:    opts.Renderer,
		scheduler:   opts.Scheduler,
		emitter:     opts.Emitter,
		counter:     opts.Counter,
		journal:     opts.Journal,
		sound:       opts.Sound,
		logger:      logger,
		registry:    NewRegistry(),
		untracked:   make(map[uint32]bool),
		layout:      opts.Layout,
		maxTimeout:  opts.MaxTimeout,
		unreadMatch: opts.UnreadMatch,
	}
}

// Notify shows a notification, or replaces the content of an active one,
// and returns its ID. Window construction failures are logged; the ID is
// returned regardless.
func (c *Controller) Notify(n *dbus.DBusNotification) uint32 {
	replacing := n.ReplacesID != 0 && c.registry.Has(n.ReplacesID)

	var id uint32
	if replacing {
		id = n.ReplacesID
		c.registry.RemoveTimer(id)
		if old, ok := c.registry.Window(id); ok {
			old.Hide()
			old.Destroy()
		}
	} else {
		if n.ReplacesID != 0 {
			c.logger.Debug("replaces_id is not active, assigning a new id", "replaces_id", n.ReplacesID)
		}
		id = c.nextID()
	}

	c.countUnread(id, n.Summary)

	src, err := n.IconSource()
	if err != nil {
		c.logger.Warn("ignoring notification icon", "id", id, "error", err)
	}

	var win Window
	win, err = c.renderer.NewWindow(Content{
		AppName: n.AppName,
		Summary: n.Summary,
		Body:    n.Body,
		Icon:    src,
		Urgency: n.Urgency(),
	}, func() { c.dismissWindow(id, win) })
	if err != nil {
		c.logger.Error("failed to create notification window",
			"id", id, "app_name", n.AppName, "summary", n.Summary, "error", err)
		if replacing {
			c.registry.Remove(id)
			delete(c.untracked, id)
			c.relayout()
		}
		return id
	}

	if replacing {
		c.registry.Replace(id, win)
	} else {
		c.registry.Insert(id, win)
	}
	c.relayout()
	win.Show()

	c.recordReceived(id, n)
	if c.sound != nil && !n.SuppressSound() {
		c.sound.Play(n.SoundFile(), n.SoundName(), n.Urgency())
	}

	if d := c.effectiveTimeout(n.ExpireTimeout); d > 0 {
		var t Timer
		t = c.scheduler.Schedule(d, func() { c.expireTimer(id, t) })
		if err := c.registry.SetTimer(id, t); err != nil {
			t.Stop()
			c.logger.Warn("failed to register expiration timer", "id", id, "error", err)
		}
	}

	c.logger.Info("notification shown", "id", id, "app_name", n.AppName, "replaced", replacing)
	return id
}

// CloseNotification closes an active notification on a client's request.
func (c *Controller) CloseNotification(id uint32) {
	if !c.close(id, dbus.CloseReasonClosed) {
		c.logger.Warn("close requested for unknown notification", "id", id)
	}
}

// Expire closes a notification whose timeout elapsed.
func (c *Controller) Expire(id uint32) {
	c.close(id, dbus.CloseReasonExpired)
}

// Dismiss closes a notification the user clicked.
func (c *Controller) Dismiss(id uint32) {
	c.close(id, dbus.CloseReasonDismissed)
}

// UpdateLayout replaces the layout configuration. Popups move at the next
// structural change.
func (c *Controller) UpdateLayout(cfg layout.Config) {
	c.layout = cfg
}

// Layout returns the current layout configuration.
func (c *Controller) Layout() layout.Config {
	return c.layout
}

// SetMaxTimeout replaces the maximum expiration timeout.
func (c *Controller) SetMaxTimeout(d time.Duration) {
	c.maxTimeout = d
}

// Active returns the IDs on screen in stacking order.
func (c *Controller) Active() []uint32 {
	return c.registry.IDs()
}

// Relayout repositions every popup.
func (c *Controller) Relayout() {
	c.relayout()
}

// CloseAll closes every popup with the given reason, oldest first.
func (c *Controller) CloseAll(reason dbus.CloseReason) {
	for _, id := range c.registry.IDs() {
		c.close(id, reason)
	}
}

func (c *Controller) nextID() uint32 {
	c.lastID++
	if c.lastID == 0 {
		c.lastID++
	}
	// After wrapping around, skip IDs still on screen.
	for c.registry.Has(c.lastID) {
		c.lastID++
		if c.lastID == 0 {
			c.lastID++
		}
	}
	return c.lastID
}

// effectiveTimeout maps the requested expire_timeout to a delay. Zero
// means the popup stays until closed.
func (c *Controller) effectiveTimeout(requested int32) time.Duration {
	switch {
	case requested == 0:
		return 0
	case requested < 0:
		return c.maxTimeout
	default:
		return min(time.Duration(requested)*time.Millisecond, c.maxTimeout)
	}
}

// expireTimer ignores timers that were replaced after they fired.
func (c *Controller) expireTimer(id uint32, t Timer) {
	if cur, ok := c.registry.Timer(id); !ok || cur != t {
		c.logger.Debug("ignoring stale expiration", "id", id)
		return
	}
	c.Expire(id)
}

// dismissWindow ignores clicks on a window that was replaced after the
// click was queued.
func (c *Controller) dismissWindow(id uint32, w Window) {
	if cur, ok := c.registry.Window(id); !ok || cur != w {
		c.logger.Debug("ignoring click on replaced window", "id", id)
		return
	}
	c.Dismiss(id)
}

func (c *Controller) close(id uint32, reason dbus.CloseReason) bool {
	win, ok := c.registry.Remove(id)
	if !ok {
		return false
	}
	win.Hide()
	win.Destroy()
	c.relayout()

	if c.emitter != nil {
		if err := c.emitter.EmitNotificationClosed(id, reason); err != nil {
			c.logger.Warn("failed to emit NotificationClosed", "id", id, "reason", reason.String(), "error", err)
		}
	}
	c.recordClosed(id, reason)

	c.logger.Info("notification closed", "id", id, "reason", reason.String())
	return true
}

func (c *Controller) relayout() {
	ws := c.registry.Windows()
	lws := make([]layout.Window, len(ws))
	for i, w := range ws {
		lws[i] = w
	}
	layout.Apply(c.layout, c.renderer.ScreenSize(), lws)
}

func (c *Controller) countUnread(id uint32, summary string) {
	if c.counter == nil || c.unreadMatch == "" || !strings.Contains(summary, c.unreadMatch) {
		return
	}
	if err := c.counter.Increment(); err != nil {
		c.logger.Warn("failed to update unread counter", "id", id, "error", err)
	}
}

func (c *Controller) recordReceived(id uint32, n *dbus.DBusNotification) {
	if n.Transient() {
		c.untracked[id] = true
		return
	}
	delete(c.untracked, id)
	if c.journal == nil {
		return
	}

	r, err := model.NewReceived(id)
	if err != nil {
		c.logger.Warn("failed to create history record", "id", id, "error", err)
		return
	}
	r.AppName = n.AppName
	r.Summary = n.Summary
	r.Body = n.Body
	r.Icon = n.AppIcon
	r.ReplacesID = n.ReplacesID
	r.ExpireTimeout = n.ExpireTimeout
	r.SetUrgency(n.Urgency())

	if err := c.journal.Append(*r); err != nil {
		c.logger.Warn("failed to write history", "id", id, "error", err)
	}
}

func (c *Controller) recordClosed(id uint32, reason dbus.CloseReason) {
	if c.untracked[id] {
		delete(c.untracked, id)
		return
	}
	if c.journal == nil {
		return
	}

	r, err := model.NewClosed(id, reason.String())
	if err != nil {
		c.logger.Warn("failed to create history record", "id", id, "error", err)
		return
	}
	if err := c.journal.Append(*r); err != nil {
		c.logger.Warn("failed to write history", "id", id, "error", err)
	}
}
