package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Gaurav-Gosain/webtop/internal/config"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Default Configuration Tests
// =============================================================================

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig returned nil")
	}

	if cfg.Desktop.ZBaseline != 1000 {
		t.Errorf("Expected z baseline 1000, got %d", cfg.Desktop.ZBaseline)
	}

	if cfg.Appearance.BorderStyle == "" {
		t.Error("Expected default border style to be set")
	}

	if cfg.Storage.Backend == "" {
		t.Error("Expected default storage backend to be set")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config does not validate: %v", err)
	}
}

func TestDefaultKeybindings(t *testing.T) {
	cfg := config.DefaultConfig()

	windowMgmt := cfg.Keybindings.WindowManagement
	if windowMgmt == nil {
		t.Fatal("Window management keybindings are nil")
	}

	requiredActions := []string{
		"close_window",
		"minimize_window",
		"maximize_window",
		"next_window",
		"prev_window",
	}

	for _, action := range requiredActions {
		keys, ok := windowMgmt[action]
		if !ok {
			t.Errorf("Expected %s keybinding to exist", action)
			continue
		}
		if len(keys) == 0 {
			t.Errorf("Expected %s to have at least one key bound", action)
		}
	}
}

// =============================================================================
// Load / Save Tests
// =============================================================================

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := config.Parse([]byte(`
[desktop]
z_baseline = 10

[storage]
backend = "sqlite"

[apps.clock]
width = 30
height = 9

[keybindings.window_management]
close_window = ["ctrl+q"]
`))
	require.NoError(t, err)

	require.Equal(t, 10, cfg.Desktop.ZBaseline)
	require.Equal(t, config.DefaultConfig().Desktop.MobileBreakpoint, cfg.Desktop.MobileBreakpoint)
	require.Equal(t, "sqlite", cfg.Storage.Backend)
	require.Equal(t, 30, cfg.Apps["clock"].Width)
	require.Equal(t, []string{"ctrl+q"}, cfg.Keybindings.WindowManagement["close_window"])
	require.Equal(t, []string{"m"}, cfg.Keybindings.WindowManagement["minimize_window"])
	require.Equal(t, "rounded", cfg.Appearance.BorderStyle)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"unknown backend", "[storage]\nbackend = \"postgres\"\n", config.ErrUnknownBackend},
		{"bad border", "[appearance]\nborder_style = \"wavy\"\n", config.ErrInvalid},
		{"bad level", "[logging]\nlevel = \"loud\"\n", config.ErrInvalid},
		{"negative app size", "[apps.notes]\nwidth = -1\n", config.ErrInvalid},
		{"bad modifier", "[keybindings.system]\nquit = [\"hyper+q\"]\n", config.ErrInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tt.input))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	_, err := config.Parse([]byte("not = [valid"))
	require.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := config.DefaultConfig()
	cfg.Appearance.Theme = "dracula"
	cfg.Apps = map[string]config.AppConfig{"notes": {Width: 50, Height: 20}}

	require.NoError(t, config.Save(cfg, path))
	loaded, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}

func TestLoadUserConfigCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv("WEBTOP_CONFIG", path)

	got, err := config.GetConfigPath()
	require.NoError(t, err)
	require.Equal(t, path, got)

	cfg, err := config.LoadUserConfig()
	require.NoError(t, err)
	require.Equal(t, config.DefaultConfig(), cfg)
	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, config.Save(config.DefaultConfig(), path))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *config.UserConfig, 4)
	require.NoError(t, config.Watch(ctx, path, func(cfg *config.UserConfig, err error) {
		if err == nil {
			reloaded <- cfg
		}
	}))

	cfg := config.DefaultConfig()
	cfg.Desktop.ZBaseline = 7
	require.NoError(t, config.Save(cfg, path))

	select {
	case got := <-reloaded:
		require.Equal(t, 7, got.Desktop.ZBaseline)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after write")
	}
}

// =============================================================================
// KeybindRegistry Tests
// =============================================================================

func TestKeybindRegistry_GetKeys(t *testing.T) {
	cfg := config.DefaultConfig()
	registry := config.NewKeybindRegistry(cfg)

	keys := registry.GetKeys("close_window")
	if len(keys) == 0 {
		t.Error("Expected close_window to have keys")
	}
}

func TestKeybindRegistry_GetAction(t *testing.T) {
	cfg := config.DefaultConfig()
	registry := config.NewKeybindRegistry(cfg)

	tests := []struct {
		key  string
		want string
	}{
		{"x", "close_window"},
		{"ctrl+w", "close_window"},
		{"Ctrl+W", "close_window"},
		{"M", "restore_all"},
		{"m", "minimize_window"},
		{"escape", "cancel_gesture"},
		{"3", "launch_app_3"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := registry.GetAction(tt.key); got != tt.want {
				t.Errorf("GetAction(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestKeybindRegistry_GetKeysForDisplay(t *testing.T) {
	cfg := config.DefaultConfig()
	registry := config.NewKeybindRegistry(cfg)

	if got := registry.GetKeysForDisplay("close_window"); got != "x, Ctrl+W" {
		t.Errorf("GetKeysForDisplay(close_window) = %q", got)
	}
	if got := registry.GetKeysForDisplay("restore_all"); got != "Shift+M" {
		t.Errorf("GetKeysForDisplay(restore_all) = %q", got)
	}
}

func TestKeybindRegistry_UnknownAction(t *testing.T) {
	cfg := config.DefaultConfig()
	registry := config.NewKeybindRegistry(cfg)

	keys := registry.GetKeys("nonexistent_action")
	if len(keys) != 0 {
		t.Errorf("Expected empty keys for nonexistent action, got %v", keys)
	}
}

func TestKeybindRegistry_UnknownKey(t *testing.T) {
	cfg := config.DefaultConfig()
	registry := config.NewKeybindRegistry(cfg)

	action := registry.GetAction("ctrl+shift+alt+super+x")
	if action != "" {
		t.Errorf("Expected empty action for unbound key, got %q", action)
	}
}

func TestGetKeybindings(t *testing.T) {
	sections := config.GetKeybindings(nil)
	if len(sections) != len(config.HelpSections)+1 {
		t.Fatalf("got %d sections, want %d", len(sections), len(config.HelpSections)+1)
	}
	for _, s := range sections {
		if len(s.Bindings) == 0 {
			t.Errorf("section %q has no bindings", s.Title)
		}
	}
}

// =============================================================================
// Key Normalizer Tests
// =============================================================================

func TestKeyNormalizer(t *testing.T) {
	normalizer := config.NewKeyNormalizer()

	tests := []struct {
		input    string
		expected string
	}{
		{"ctrl+a", "ctrl+a"},
		{"Ctrl+A", "ctrl+a"},
		{"CTRL+A", "ctrl+a"},
		{"return", "enter"},
		{"escape", "esc"},
		{"enter", "enter"},
		{"esc", "esc"},
		{"shift+Return", "shift+enter"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got := normalizer.NormalizeKey(tc.input)
			if len(got) == 0 {
				t.Errorf("NormalizeKey(%q) returned empty slice", tc.input)
				return
			}
			found := false
			for _, k := range got {
				if k == tc.expected {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("NormalizeKey(%q) = %v, want to contain %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestKeyNormalizer_ValidateKey(t *testing.T) {
	normalizer := config.NewKeyNormalizer()

	tests := []struct {
		input   string
		isValid bool
	}{
		{"ctrl+a", true},
		{"n", true},
		{"enter", true},
		{"esc", true},
		{"tab", true},
		{"", false},
		{"ctrl+", false},
		{"hyper+x", false},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			valid, _ := normalizer.ValidateKey(tc.input)
			if valid != tc.isValid {
				t.Errorf("ValidateKey(%q) = %v, want %v", tc.input, valid, tc.isValid)
			}
		})
	}
}

// =============================================================================
// Animation Configuration Tests
// =============================================================================

func TestAnimationConfig(t *testing.T) {
	config.AnimationsEnabled = true

	duration := config.GetAnimationDuration()
	if duration == 0 {
		t.Error("Expected non-zero animation duration when enabled")
	}

	fastDuration := config.GetFastAnimationDuration()
	if fastDuration == 0 {
		t.Error("Expected non-zero fast animation duration when enabled")
	}

	if fastDuration >= duration {
		t.Error("Fast animation should be shorter than normal")
	}

	config.AnimationsEnabled = false

	if d := config.GetAnimationDuration(); d != 0 {
		t.Errorf("Expected zero duration when disabled, got %v", d)
	}

	if d := config.GetFastAnimationDuration(); d != 0 {
		t.Errorf("Expected zero fast duration when disabled, got %v", d)
	}

	config.AnimationsEnabled = true
}

// =============================================================================
// Action Descriptions Tests
// =============================================================================

func TestActionDescriptions(t *testing.T) {
	registry := config.NewKeybindRegistry(config.DefaultConfig())
	for _, action := range registry.Actions() {
		desc, ok := config.ActionDescriptions[action]
		if !ok {
			t.Errorf("Expected description for action %q", action)
			continue
		}
		if desc == "" {
			t.Errorf("Description for %q should not be empty", action)
		}
	}
}

// =============================================================================
// Benchmarks
// =============================================================================

func BenchmarkKeybindRegistry_GetAction(b *testing.B) {
	cfg := config.DefaultConfig()
	registry := config.NewKeybindRegistry(cfg)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = registry.GetAction("x")
	}
}

func BenchmarkNormalizeKey(b *testing.B) {
	normalizer := config.NewKeyNormalizer()
	keys := []string{"ctrl+a", "Ctrl+Shift+B", "alt+1", "return"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = normalizer.NormalizeKey(keys[i%len(keys)])
	}
}
