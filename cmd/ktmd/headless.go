package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/skalanux/ktm/internal/daemon"
	"github.com/skalanux/ktm/internal/dbus"
	"github.com/skalanux/ktm/internal/layout"
)

// headlessScreen is the virtual screen popups are laid out on without a display.
var headlessScreen = layout.Size{Width: 1920, Height: 1080}

// runHeadless serves notifications with a channel loop and logged popups.
func runHeadless(s settings, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loop := daemon.NewChanLoop(64)
	loopCtx, stopLoop := context.WithCancel(context.Background())
	loopDone := make(chan struct{})
	go func() {
		loop.Run(loopCtx)
		close(loopDone)
	}()
	defer func() {
		stopLoop()
		<-loopDone
	}()

	renderer := daemon.NewLogRenderer(headlessScreen, s.cfg.Popup.Width, logger)
	c := assemble(ctx, s, loop, daemon.NewAfterFuncScheduler(loop), renderer, logger)

	if err := c.server.Start(); err != nil {
		c.stop()
		return fmt.Errorf("failed to start D-Bus server: %w", err)
	}
	logger.Info("ktmd ready", "dbus_interface", dbus.DBusInterface, "mode", "headless")

	<-ctx.Done()
	logger.Info("received signal, shutting down")

	c.service.CloseAll(dbus.CloseReasonUndefined)
	c.stop()
	logger.Info("ktmd stopped")
	return nil
}
