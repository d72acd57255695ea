// Package server serves desktop views of one shared window registry over SSH
// and the browser.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/log/v2"
	"charm.land/wish/v2"
	"charm.land/wish/v2/bubbletea"
	"charm.land/wish/v2/logging"
	"github.com/Gaurav-Gosain/webtop/internal/config"
	"github.com/Gaurav-Gosain/webtop/internal/desktop"
	weblog "github.com/Gaurav-Gosain/webtop/internal/logging"
	"github.com/adrg/xdg"
	"github.com/charmbracelet/ssh"
)

const shutdownTimeout = 5 * time.Second

// SSHConfig holds configuration for the SSH server.
type SSHConfig struct {
	Host    string
	Port    string
	KeyPath string // empty uses DefaultHostKeyPath
	Env     desktop.Env
}

// DefaultHostKeyPath returns where the SSH host key lives when none is given.
// wish generates the key on first start.
func DefaultHostKeyPath() (string, error) {
	path, err := xdg.DataFile("webtop/ssh_host_ed25519")
	if err != nil {
		return "", fmt.Errorf("resolve host key path: %w", err)
	}
	return path, nil
}

// StartSSHServer serves a desktop to every SSH session until ctx is done.
func StartSSHServer(ctx context.Context, cfg SSHConfig) error {
	if cfg.Env.Controller == nil {
		return errors.New("ssh server: no window controller")
	}
	logger := loggerFor(cfg.Env, "ssh")
	cfg.Env.Logger = logger

	keyPath := cfg.KeyPath
	if keyPath == "" {
		var err error
		if keyPath, err = DefaultHostKeyPath(); err != nil {
			return err
		}
	}

	server, err := wish.NewServer(
		wish.WithAddress(net.JoinHostPort(cfg.Host, cfg.Port)),
		wish.WithHostKeyPath(keyPath),
		wish.WithMiddleware(
			bubbletea.Middleware(sessionHandler(cfg.Env)),
			logging.Middleware(),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create SSH server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting SSH server", "addr", server.Addr, "key", keyPath)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("ssh server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down SSH server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sessionHandler opens a desktop view per session. The view unsubscribes
// from the registry when the session context ends.
func sessionHandler(env desktop.Env) bubbletea.Handler {
	return func(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
		pty, _, active := sess.Pty()
		if !active {
			env.Logger.Warn("session without a pty", "user", sess.User(), "remote", sess.RemoteAddr())
			return nil, nil
		}
		env.Logger.Info("desktop session opened", "user", sess.User(), "remote", sess.RemoteAddr(),
			"size", fmt.Sprintf("%dx%d", pty.Window.Width, pty.Window.Height))

		m := desktop.New(sess.Context(), env, pty.Window.Width, pty.Window.Height)
		return m, []tea.ProgramOption{
			tea.WithFPS(config.NormalFPS),
		}
	}
}

func loggerFor(env desktop.Env, prefix string) *log.Logger {
	if env.Logger == nil {
		return weblog.Discard()
	}
	return env.Logger.WithPrefix(prefix)
}
