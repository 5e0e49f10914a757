package daemon

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skalanux/ktm/internal/config"
	"github.com/skalanux/ktm/internal/dbus"
	"github.com/skalanux/ktm/internal/layout"
)

func TestService_RoutesThroughLoop(t *testing.T) {
	loop, _, _ := startLoop(t)
	h := newHarness(t)
	svc := NewService(loop, h.ctrl, testLogger())

	id := svc.Notify(note("hello", 0))
	require.Equal(t, uint32(1), id)

	svc.CloseNotification(id)

	var active []uint32
	Call(loop, func() { active = h.ctrl.Active() })
	assert.Empty(t, active)
	assert.Equal(t, []closedSignal{{id, dbus.CloseReasonClosed}}, h.emitter.signals)
}

func TestService_ImplementsHandler(t *testing.T) {
	var _ dbus.Handler = (*Service)(nil)
}

func TestService_ShutdownReturnsZero(t *testing.T) {
	loop := NewChanLoop(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	loop.Run(ctx)

	svc := NewService(loop, newHarness(t).ctrl, testLogger())

	assert.Equal(t, uint32(0), svc.Notify(note("late", 0)))
	assert.NotPanics(t, func() { svc.CloseNotification(1) })
}

func TestService_NotifyAsyncDoesNotWait(t *testing.T) {
	loop := NewChanLoop(4)
	h := newHarness(t)
	svc := NewService(loop, h.ctrl, testLogger())

	// Nothing drains the loop yet, so a blocking call would hang here.
	assert.Equal(t, uint32(0), svc.NotifyAsync(note("queued", 0)))

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(stopped)
	}()
	defer func() {
		cancel()
		<-stopped
	}()

	var active []uint32
	Call(loop, func() { active = h.ctrl.Active() })
	assert.Equal(t, []uint32{1}, active)
}

func TestService_ApplyConfig(t *testing.T) {
	loop, _, _ := startLoop(t)
	h := newHarness(t)
	svc := NewService(loop, h.ctrl, testLogger())

	cfg := config.DefaultDaemonConfig()
	cfg.Layout.Anchor = "south-west"
	cfg.Layout.Direction = "horizontal"
	cfg.Timeouts.MaxExpire = config.Duration(2 * time.Second)
	svc.ApplyConfig(cfg)

	var lc layout.Config
	Call(loop, func() { lc = h.ctrl.Layout() })
	assert.Equal(t, layout.SouthWest, lc.Anchor)
	assert.Equal(t, layout.Horizontal, lc.Direction)

	svc.Notify(note("a", -1))
	assert.Equal(t, 2*time.Second, h.scheduler.last().delay)
}

func TestService_CloseAll(t *testing.T) {
	loop, _, _ := startLoop(t)
	h := newHarness(t)
	svc := NewService(loop, h.ctrl, testLogger())

	svc.Notify(note("a", 0))
	svc.Notify(note("b", 0))
	svc.CloseAll(dbus.CloseReasonUndefined)

	assert.Len(t, h.emitter.signals, 2)
}
