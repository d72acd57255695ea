package server

import (
	"context"
	"errors"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/Gaurav-Gosain/sip"
	"github.com/Gaurav-Gosain/webtop/internal/config"
	"github.com/Gaurav-Gosain/webtop/internal/desktop"
	"github.com/charmbracelet/colorprofile"
)

// WebConfig holds configuration for the browser server.
type WebConfig struct {
	Host           string
	Port           string
	ReadOnly       bool
	MaxConnections int
	Debug          bool
	Env            desktop.Env
}

// StartWebServer serves a desktop to every browser tab until ctx is done.
func StartWebServer(ctx context.Context, cfg WebConfig) error {
	if cfg.Env.Controller == nil {
		return errors.New("web server: no window controller")
	}
	cfg.Env.Logger = loggerFor(cfg.Env, "web")

	// Stdout is not a terminal here, so the detected profile would strip
	// every color. Force it before any style renders.
	lipgloss.Writer.Profile = colorprofile.TrueColor
	_ = os.Setenv("TERM", "xterm-256color")
	_ = os.Setenv("COLORTERM", "truecolor")

	sipConfig := sip.DefaultConfig()
	sipConfig.Host = cfg.Host
	sipConfig.Port = cfg.Port
	sipConfig.ReadOnly = cfg.ReadOnly
	sipConfig.MaxConnections = cfg.MaxConnections
	sipConfig.Debug = cfg.Debug

	cfg.Env.Logger.Info("starting web server", "host", cfg.Host, "port", cfg.Port, "read_only", cfg.ReadOnly)
	return sip.NewServer(sipConfig).Serve(ctx, webHandler(cfg.Env))
}

// webHandler gives each browser tab its own view, released when the tab's
// session ends.
func webHandler(env desktop.Env) sip.Handler {
	return func(sess sip.Session) (tea.Model, []tea.ProgramOption) {
		pty := sess.Pty()
		env.Logger.Info("desktop session opened", "size", []int{pty.Width, pty.Height})

		m := desktop.New(sess.Context(), env, pty.Width, pty.Height)
		go func() {
			<-m.Done()
			env.Logger.Info("desktop session closed")
		}()
		return m, []tea.ProgramOption{
			tea.WithFPS(config.NormalFPS),
		}
	}
}
