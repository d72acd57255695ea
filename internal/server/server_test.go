package server

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Gaurav-Gosain/sip"
	"github.com/Gaurav-Gosain/webtop/internal/desktop"
	"github.com/Gaurav-Gosain/webtop/internal/store"
	"github.com/Gaurav-Gosain/webtop/internal/wm"
	"github.com/adrg/xdg"
	"github.com/stretchr/testify/require"
)

func TestDefaultHostKeyPath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	path, err := DefaultHostKeyPath()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(path, xdg.DataHome))
	require.Equal(t, "ssh_host_ed25519", filepath.Base(path))
}

func TestServersNeedController(t *testing.T) {
	ctx := context.Background()
	require.ErrorContains(t, StartSSHServer(ctx, SSHConfig{Port: "0"}), "no window controller")
	require.ErrorContains(t, StartWebServer(ctx, WebConfig{Port: "0"}), "no window controller")
}

func TestLoggerFor(t *testing.T) {
	// A missing logger falls back to a silent one.
	require.NotNil(t, loggerFor(desktop.Env{}, "ssh"))

	reg := wm.NewRegistry(context.Background(), wm.RegistryOptions{Store: store.NewMemoryStore()})
	env := desktop.Env{Controller: wm.NewController(reg, wm.ControllerOptions{})}
	require.NotNil(t, loggerFor(env, "web"))
}

type browserSession struct {
	sip.Session
	ctx context.Context
}

func (s browserSession) Pty() sip.Pty             { return sip.Pty{Width: 100, Height: 30} }
func (s browserSession) Context() context.Context { return s.ctx }

func TestWebViewReleasedWithSession(t *testing.T) {
	reg := wm.NewRegistry(context.Background(), wm.RegistryOptions{Store: store.NewMemoryStore()})
	env := desktop.Env{Controller: wm.NewController(reg, wm.ControllerOptions{})}
	env.Logger = loggerFor(env, "web")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	model, opts := webHandler(env)(browserSession{ctx: ctx})
	require.NotEmpty(t, opts)
	m, ok := model.(*desktop.Model)
	require.True(t, ok)

	select {
	case <-m.Done():
		t.Fatal("view released while the session is open")
	default:
	}

	cancel()
	select {
	case <-m.Done():
	case <-time.After(time.Second):
		t.Fatal("view still attached after the session ended")
	}
}
