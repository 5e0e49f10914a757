package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/skalanux/ktm/internal/config"
	"github.com/skalanux/ktm/internal/dbus"
	"github.com/skalanux/ktm/internal/display"
	"github.com/skalanux/ktm/internal/theme"
)

// runGTK serves notifications with layer-shell popups on the GTK main loop.
func runGTK(s settings, logger *slog.Logger) error {
	app := adw.NewApplication(appID, 0)

	var (
		comps       *components
		mainLoop    *display.MainLoop
		themeLoader *theme.Loader
		startErr    error
		running     atomic.Bool
		stopOnce    sync.Once
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// shutdown runs on the main thread. Popups are closed first so their
	// signals go out while the bus connection is still open.
	shutdown := func() {
		stopOnce.Do(func() {
			if comps != nil {
				comps.watcher.Stop()
				comps.controller.CloseAll(dbus.CloseReasonUndefined)
			}
			if mainLoop != nil {
				mainLoop.Close()
			}
			if themeLoader != nil {
				themeLoader.StopHotReload()
			}
			if comps != nil {
				comps.stop()
			}
			running.Store(false)
		})
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received signal, shutting down", "signal", sig)
		case <-ctx.Done():
			return
		}
		cancel()
		glib.IdleAdd(func() {
			shutdown()
			app.Quit()
		})
	}()

	app.ConnectActivate(func() {
		if running.Load() {
			logger.Warn("application already running")
			return
		}
		running.Store(true)

		renderer := display.NewRenderer(&app.Application, display.Options{
			PopupWidth: s.cfg.Popup.Width,
			IconSize:   s.cfg.Popup.IconSize,
		}, logger)
		if err := renderer.Start(); err != nil {
			startErr = err
			app.Quit()
			return
		}

		themeLoader = theme.NewLoader(logger)
		themeLoader.Load(config.ExpandPath(s.cfg.Popup.CSS))
		themeLoader.Apply(nil)
		themeLoader.StartHotReload(ctx)

		mainLoop = display.NewMainLoop()
		comps = assemble(ctx, s, mainLoop, display.NewScheduler(), renderer, logger)

		if err := comps.server.Start(); err != nil {
			startErr = fmt.Errorf("failed to start D-Bus server: %w", err)
			shutdown()
			app.Quit()
			return
		}

		logger.Info("ktmd ready", "dbus_interface", dbus.DBusInterface, "mode", "gtk")

		// GTK applications quit when their last window closes.
		keepAlive := gtk.NewWindow()
		keepAlive.SetApplication(&app.Application)
		keepAlive.SetDefaultSize(1, 1)
		keepAlive.SetDecorated(false)
		keepAlive.SetVisible(false)
	})

	app.ConnectShutdown(func() {
		logger.Info("application shutting down")
		shutdown()
	})

	// Our flags are handled by cobra; GApplication only gets the program name.
	status := app.Run(os.Args[:1])
	cancel()

	if startErr != nil {
		return startErr
	}
	if status != 0 {
		return fmt.Errorf("application exited with status %d", status)
	}
	logger.Info("ktmd stopped")
	return nil
}
