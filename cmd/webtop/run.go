package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/log/v2"
	"github.com/Gaurav-Gosain/webtop/internal/apps"
	"github.com/Gaurav-Gosain/webtop/internal/config"
	"github.com/Gaurav-Gosain/webtop/internal/desktop"
	"github.com/Gaurav-Gosain/webtop/internal/logging"
	"github.com/Gaurav-Gosain/webtop/internal/mcptools"
	"github.com/Gaurav-Gosain/webtop/internal/server"
	"github.com/Gaurav-Gosain/webtop/internal/store"
	"github.com/Gaurav-Gosain/webtop/internal/theme"
	"github.com/Gaurav-Gosain/webtop/internal/wm"
)

// logTarget selects where a command's logs go.
type logTarget int

const (
	// logToFile keeps the terminal free for the desktop or a protocol.
	logToFile logTarget = iota
	logToStderr
	// logQuiet prints only warnings and errors to stderr.
	logQuiet
)

// runtime is the state shared by every view a command serves.
type runtime struct {
	cfg     *config.UserConfig
	log     *log.Logger
	store   store.Store
	ctrl    *wm.Controller
	catalog *apps.Catalog
	players map[string]*apps.Player
	closers []func() error
}

// bootstrap loads the config, opens storage and builds the window controller.
func bootstrap(ctx context.Context, target logTarget) (*runtime, error) {
	cfg, err := config.LoadUserConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config, using defaults: %v\n", err)
		cfg = config.DefaultConfig()
	}
	if storageFlag != "" {
		cfg.Storage.Backend = storageFlag
	}
	if themeName != "" {
		cfg.Appearance.Theme = themeName
	}
	if noAnimations {
		cfg.Appearance.Animations = false
	}

	rt := &runtime{cfg: cfg}
	logger, err := rt.openLogger(target)
	if err != nil {
		return nil, err
	}
	rt.log = logger

	config.AnimationsEnabled = cfg.Appearance.Animations
	if err := theme.Initialize(cfg.Appearance.Theme); err != nil {
		logger.Warn("theme", "err", err)
	}
	logger.Debug("theme", "name", cfg.Appearance.Theme, "themed", theme.IsEnabled(),
		"bg", theme.ColorToString(theme.DesktopBg()), "focus", theme.ColorToString(theme.BorderFocused()))

	st, err := store.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		rt.close()
		return nil, fmt.Errorf("open %s storage: %w", cfg.Storage.Backend, err)
	}
	rt.store = st
	rt.closers = append(rt.closers, st.Close)

	reg := wm.NewRegistry(ctx, wm.RegistryOptions{
		Store:    st,
		Logger:   logger.WithPrefix("registry"),
		Baseline: cfg.Desktop.ZBaseline,
	})
	jitter := cfg.Desktop.SpawnJitter
	if jitter == 0 {
		jitter = -1
	}
	rt.ctrl = wm.NewController(reg, wm.ControllerOptions{
		SpawnOrigin: &wm.Point{X: cfg.Desktop.SpawnX, Y: cfg.Desktop.SpawnY},
		SpawnJitter: jitter,
		Logger:      logger.WithPrefix("wm"),
	})
	rt.catalog = apps.NewCatalog(cfg.Apps)

	rt.players = make(map[string]*apps.Player)
	for _, id := range []string{apps.MusicPlayer, apps.Ambient} {
		p := apps.NewPlayer(rt.ctrl, id, logger.WithPrefix(id))
		rt.players[id] = p
		rt.closers = append(rt.closers, func() error { p.Close(); return nil })
	}

	logger.Debug("bootstrapped", "backend", cfg.Storage.Backend, "windows", reg.Len())
	return rt, nil
}

func (rt *runtime) openLogger(target logTarget) (*log.Logger, error) {
	opts := logging.Options{
		Level:  rt.cfg.Logging.Level,
		Format: rt.cfg.Logging.Format,
		Debug:  debugMode,
	}
	switch target {
	case logToFile:
		opts.File = rt.cfg.Logging.File
		if opts.File == "" {
			path, err := logging.DefaultFile()
			if err != nil {
				return nil, err
			}
			opts.File = path
		}
	case logQuiet:
		if !debugMode {
			opts.Level = "warn"
		}
	}
	logger, closeFn, err := logging.New(opts)
	if err != nil {
		return nil, err
	}
	rt.closers = append(rt.closers, closeFn)
	return logger, nil
}

// env is what each desktop view gets.
func (rt *runtime) env() desktop.Env {
	return desktop.Env{
		Controller: rt.ctrl,
		Catalog:    rt.catalog,
		Players:    rt.players,
		Keybinds:   config.NewKeybindRegistry(rt.cfg),
		Config:     rt.cfg,
		Logger:     rt.log,
	}
}

// close releases everything in reverse order of acquisition.
func (rt *runtime) close() {
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		errs = append(errs, rt.closers[i]())
	}
	if err := errors.Join(errs...); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: shutdown: %v\n", err)
	}
}

// watchConfig reports edits to the config file while a server runs.
// Running views keep the settings they started with.
func (rt *runtime) watchConfig(ctx context.Context) {
	path, err := config.GetConfigPath()
	if err != nil {
		rt.log.Warn("not watching config", "err", err)
		return
	}
	err = config.Watch(ctx, path, func(cfg *config.UserConfig, err error) {
		if err != nil {
			rt.log.Error("config file is invalid", "path", path, "err", err)
			return
		}
		rt.log.Info("config file changed, restart to apply", "path", path, "theme", cfg.Appearance.Theme)
	})
	if err != nil {
		rt.log.Warn("not watching config", "err", err)
	}
}

func runLocal(ctx context.Context) error {
	rt, err := bootstrap(ctx, logToFile)
	if err != nil {
		return err
	}
	defer rt.close()

	m := desktop.New(ctx, rt.env(), 0, 0)
	defer m.Close()

	p := tea.NewProgram(
		m,
		tea.WithContext(ctx),
		tea.WithFPS(config.NormalFPS),
		tea.WithFilter(desktop.FilterMouseMotion),
	)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}

func runSSHServer(ctx context.Context, host, port, keyPath string) error {
	rt, err := bootstrap(ctx, logToStderr)
	if err != nil {
		return err
	}
	defer rt.close()
	rt.watchConfig(ctx)

	if err := server.StartSSHServer(ctx, server.SSHConfig{
		Host:    host,
		Port:    port,
		KeyPath: keyPath,
		Env:     rt.env(),
	}); err != nil {
		return fmt.Errorf("SSH server error: %w", err)
	}
	return nil
}

func runWebServer(ctx context.Context, host, port string, readOnly bool, maxConnections int) error {
	rt, err := bootstrap(ctx, logToStderr)
	if err != nil {
		return err
	}
	defer rt.close()
	rt.watchConfig(ctx)

	if err := server.StartWebServer(ctx, server.WebConfig{
		Host:           host,
		Port:           port,
		ReadOnly:       readOnly,
		MaxConnections: maxConnections,
		Debug:          debugMode,
		Env:            rt.env(),
	}); err != nil {
		return fmt.Errorf("web server error: %w", err)
	}
	return nil
}

func runMCPServer(ctx context.Context, transport, addr string) error {
	// stdout carries the protocol on stdio, so logs go to the file.
	target := logToStderr
	if transport == mcptools.TransportStdio {
		target = logToFile
	}
	rt, err := bootstrap(ctx, target)
	if err != nil {
		return err
	}
	defer rt.close()

	s := mcptools.New(rt.ctrl, rt.catalog, rt.log.WithPrefix("mcp"), version)
	return s.Serve(ctx, mcptools.Config{Transport: transport, Addr: addr})
}
