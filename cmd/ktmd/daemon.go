package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/skalanux/ktm/internal/audio"
	"github.com/skalanux/ktm/internal/config"
	"github.com/skalanux/ktm/internal/daemon"
	"github.com/skalanux/ktm/internal/dbus"
	"github.com/skalanux/ktm/internal/store"
)

// components are the parts of a running daemon shared by the GTK and
// headless front ends.
type components struct {
	logger     *slog.Logger
	server     *dbus.NotificationServer
	controller *daemon.Controller
	service    *daemon.Service
	watcher    *daemon.ConfigWatcher
	notifier   *daemon.InternalNotifier
	journal    *store.JSONLJournal
	sound      *audio.Manager
}

// settings is the startup configuration plus what is needed to reload it.
type settings struct {
	cfg        *config.DaemonConfig
	configPath string
	overlay    func(cfg *config.DaemonConfig)
	level      *slog.LevelVar
}

func run(cmd *cobra.Command) error {
	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)
	logger := setupLogger(level)

	configPath := opts.configPath
	if configPath == "" {
		p, err := config.DaemonConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
		configPath = p
	}

	overlay := flagOverlay(cmd, opts, logger)

	cfg, err := config.LoadDaemonConfig(configPath)
	if err != nil {
		// A broken file must not keep the daemon from starting.
		logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		cfg = config.DefaultDaemonConfig()
	}
	overlay(cfg)
	for _, d := range cfg.Normalize() {
		logger.Warn("invalid configuration value", "field", d.Field, "value", d.Value, "reason", d.Message)
	}
	level.Set(cfg.LogLevelValue())

	s := settings{cfg: cfg, configPath: configPath, overlay: overlay, level: level}

	logger.Info("starting ktmd", "version", version, "config", configPath, "headless", opts.headless)

	if opts.headless {
		return runHeadless(s, logger)
	}
	return runGTK(s, logger)
}

// setupLogger writes text logs to stderr at a level that follows the
// configuration.
func setupLogger(level *slog.LevelVar) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}

// assemble builds the notification pipeline on loop. The server is not
// started; the caller does that once its front end is ready.
func assemble(ctx context.Context, s settings, loop daemon.Loop, sched daemon.Scheduler, renderer daemon.Renderer, logger *slog.Logger) *components {
	cfg := s.cfg
	c := &components{logger: logger}

	var counter daemon.Counter
	if cfg.Unread.Enabled {
		uc := store.NewUnreadCounter(config.ExpandPath(cfg.Unread.Path))
		if err := uc.Reset(); err != nil {
			logger.Warn("failed to reset unread counter", "path", uc.Path(), "error", err)
		}
		counter = uc
	}

	var recorder daemon.Recorder
	if cfg.History.Enabled {
		if j := openJournal(cfg.History.Path, logger); j != nil {
			c.journal = j
			recorder = j
		}
	}

	c.sound = audio.NewManager(cfg.Sound, logger)

	c.server = dbus.NewNotificationServer(logger)
	info := dbus.DefaultServerInfo()
	info.Version = version
	c.server.SetServerInfo(info)
	if cfg.Sound.Enabled {
		c.server.AddCapability("sound")
	}

	c.controller = daemon.NewController(daemon.ControllerOptions{
		Renderer:    renderer,
		Scheduler:   sched,
		Emitter:     c.server,
		Counter:     counter,
		Journal:     recorder,
		Sound:       c.sound,
		Logger:      logger,
		Layout:      cfg.LayoutSettings(),
		MaxTimeout:  cfg.Timeouts.MaxExpire.Duration(),
		UnreadMatch: cfg.Unread.Match,
	})
	c.service = daemon.NewService(loop, c.controller, logger)
	c.server.SetHandler(c.service)

	// The watcher callbacks must not wait on the loop: GTK shutdown stops
	// the watcher from the loop thread.
	c.notifier = daemon.NewInternalNotifier(c.service.NotifyAsync, logger)

	c.watcher = daemon.NewConfigWatcher(s.configPath, logger)
	c.watcher.SetOverlay(s.overlay)
	c.watcher.SetReloadCallback(func(newConfig *config.DaemonConfig) {
		c.service.ApplyConfig(newConfig)
		c.sound.UpdateConfig(newConfig.Sound)
		s.level.Set(newConfig.LogLevelValue())
		c.notifier.NotifyConfigReloaded()
	})
	c.watcher.SetErrorCallback(c.notifier.NotifyConfigError)
	if err := c.watcher.Start(ctx, cfg); err != nil {
		logger.Warn("failed to start config watcher", "error", err)
	}

	return c
}

func openJournal(path string, logger *slog.Logger) *store.JSONLJournal {
	if path == "" {
		p, err := config.HistoryPath()
		if err != nil {
			logger.Warn("failed to get history path, history disabled", "error", err)
			return nil
		}
		path = p
	}
	j, err := store.OpenJSONLJournal(config.ExpandPath(path))
	if err != nil {
		logger.Warn("failed to open history journal, history disabled", "path", path, "error", err)
		return nil
	}
	logger.Info("history journal opened", "path", j.Path())
	return j
}

// stop releases everything but the loop. Popups must already be closed.
func (c *components) stop() {
	c.watcher.Stop()
	if err := c.server.Stop(); err != nil {
		c.logger.Warn("error stopping D-Bus server", "error", err)
	}
	c.sound.Stop()
	if c.journal != nil {
		if err := c.journal.Close(); err != nil {
			c.logger.Warn("error closing history journal", "error", err)
		}
	}
}
