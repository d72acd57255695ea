package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Gaurav-Gosain/webtop/internal/apps"
	"github.com/Gaurav-Gosain/webtop/internal/config"
	"github.com/Gaurav-Gosain/webtop/internal/mcptools"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// useTempConfig points the config at a fresh file whose storage lives in
// the test's temp dir.
func useTempConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	t.Setenv("WEBTOP_CONFIG", path)

	cfg := config.DefaultConfig()
	cfg.Storage.Path = filepath.Join(dir, "state")
	require.NoError(t, config.Save(cfg, path))
	return path
}

func runWindows(t *testing.T, args ...string) string {
	t.Helper()
	cmd := newWindowsCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.ExecuteContext(context.Background()), out.String())
	return out.String()
}

func listed(t *testing.T, args ...string) []mcptools.Window {
	t.Helper()
	var ws []mcptools.Window
	out := runWindows(t, append([]string{"list", "--format", "json"}, args...)...)
	require.NoError(t, json.Unmarshal([]byte(out), &ws))
	return ws
}

func TestWindowsCommandsPersist(t *testing.T) {
	useTempConfig(t)

	notes := strings.TrimSpace(runWindows(t, "open", apps.Notes))
	require.NotEmpty(t, notes)
	require.Equal(t, apps.Calendar, strings.TrimSpace(runWindows(t, "open", apps.Calendar)))

	ws := listed(t)
	require.Len(t, ws, 2)
	require.Equal(t, notes, ws[0].ID)
	require.True(t, ws[1].Active)

	runWindows(t, "toggle", apps.Calendar)
	ws = listed(t, "--visible")
	require.Len(t, ws, 1)
	require.Equal(t, notes, ws[0].ID)
	require.True(t, ws[0].Active)

	runWindows(t, "focus", apps.Calendar)
	runWindows(t, "move", apps.Calendar, "-3", "2", "--width", "50")
	ws = listed(t)
	cal := ws[len(ws)-1]
	require.Equal(t, apps.Calendar, cal.ID)
	require.Equal(t, []int{-3, 2, 50}, []int{cal.X, cal.Y, cal.Width})
	require.False(t, cal.Minimized)

	runWindows(t, "close", notes)
	require.Len(t, listed(t), 1)
}

func TestWindowsCommandErrors(t *testing.T) {
	useTempConfig(t)

	for _, args := range [][]string{
		{"open", "spreadsheet"},
		{"focus", "missing"},
		{"move", "missing", "1", "2"},
		{"move", "calendar", "x", "2"},
		{"list", "--format", "xml"},
	} {
		cmd := newWindowsCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(args)
		require.Error(t, cmd.ExecuteContext(context.Background()), "%v", args)
	}
}

func TestWriteWindowsTable(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, writeWindows(&out, formatTable, nil))
	require.Contains(t, out.String(), "No windows open")

	out.Reset()
	require.NoError(t, writeWindows(&out, formatTable, []mcptools.Window{
		{ID: "clock-1", App: apps.Clock, Title: "Clock", X: 4, Y: 3, Width: 26, Height: 8, Z: 1000, Active: true},
		{ID: "notes-1", App: apps.Notes, Title: "Notes", Width: 40, Height: 14, Z: 1001, Minimized: true},
	}))
	s := out.String()
	for _, want := range []string{"clock-1", "4,3", "26x8", "active", "minimized"} {
		require.Contains(t, s, want)
	}
}

func TestListApps(t *testing.T) {
	catalog := apps.NewCatalog(map[string]config.AppConfig{apps.Notes: {Title: "Scratch", Width: 60}})

	var out bytes.Buffer
	require.NoError(t, listApps(&out, formatYAML, catalog))
	var infos []appInfo
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &infos))
	require.Len(t, infos, len(catalog.List()))
	require.Equal(t, apps.Calculator, infos[0].ID)

	var notes appInfo
	for _, info := range infos {
		if info.ID == apps.Notes {
			notes = info
		}
	}
	require.Equal(t, "Scratch", notes.Name)
	require.Equal(t, 60, notes.Width)

	out.Reset()
	require.NoError(t, listApps(&out, formatTable, catalog))
	require.Contains(t, out.String(), "Scratch")
}

func TestListKeybindings(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, listKeybindings(&out, config.DefaultConfig(), false))
	require.Contains(t, out.String(), "Window Management")
	require.Contains(t, out.String(), "ctrl+w")

	out.Reset()
	require.NoError(t, listKeybindings(&out, config.DefaultConfig(), true))
	require.Contains(t, out.String(), "No custom keybindings")

	cfg := config.DefaultConfig()
	cfg.Keybindings.WindowManagement["close_window"] = []string{"ctrl+q"}
	out.Reset()
	require.NoError(t, listKeybindings(&out, cfg, true))
	s := out.String()
	require.Contains(t, s, "ctrl+q")
	require.Contains(t, s, "Close window")
	require.NotContains(t, s, "Minimize window")
}

func TestResetConfig(t *testing.T) {
	path := useTempConfig(t)
	require.NoError(t, os.WriteFile(path, []byte("[appearance]\nborder_style = \"double\"\n"), 0o644))

	var out bytes.Buffer
	require.NoError(t, resetConfigToDefaults(strings.NewReader("no\n"), &out, false))
	require.Contains(t, out.String(), "Reset cancelled")
	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "double", cfg.Appearance.BorderStyle)

	out.Reset()
	require.NoError(t, resetConfigToDefaults(strings.NewReader("y\n"), &out, false))
	cfg, err = config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "rounded", cfg.Appearance.BorderStyle)

	require.NoError(t, os.WriteFile(path, []byte("[appearance]\nborder_style = \"thick\"\n"), 0o644))
	require.NoError(t, resetConfigToDefaults(strings.NewReader(""), &out, true))
	cfg, err = config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "rounded", cfg.Appearance.BorderStyle)
}

func TestPrintConfigPath(t *testing.T) {
	path := useTempConfig(t)
	var out bytes.Buffer
	require.NoError(t, printConfigPath(&out))
	require.Equal(t, path+"\n", out.String())
}
