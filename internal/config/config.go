// Package config loads and saves the webtop user configuration and resolves
// keybindings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Gaurav-Gosain/webtop/internal/store"
	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

// Rendering rates and animation timings.
const (
	// NormalFPS is the normal refresh rate in FPS.
	NormalFPS = 60
	// DefaultAnimationDuration is the length of window transitions in milliseconds.
	DefaultAnimationDuration = 180
	// FastAnimationDuration is used for transitions started by the keyboard.
	FastAnimationDuration = 90
)

// AnimationsEnabled toggles window transitions globally.
var AnimationsEnabled = true

// GetAnimationDuration returns the transition length, or zero when disabled.
func GetAnimationDuration() time.Duration {
	if !AnimationsEnabled {
		return 0
	}
	return DefaultAnimationDuration * time.Millisecond
}

// GetFastAnimationDuration returns the short transition length, or zero when disabled.
func GetFastAnimationDuration() time.Duration {
	if !AnimationsEnabled {
		return 0
	}
	return FastAnimationDuration * time.Millisecond
}

var (
	// ErrUnknownBackend is returned by Validate for an unsupported storage
	// backend. It is the same value store.Open reports.
	ErrUnknownBackend = store.ErrUnknownBackend
	// ErrInvalid wraps every other validation failure.
	ErrInvalid = errors.New("invalid configuration")
)

// UserConfig is the on-disk configuration.
type UserConfig struct {
	Desktop     DesktopConfig        `toml:"desktop"`
	Storage     StorageConfig        `toml:"storage"`
	Appearance  AppearanceConfig     `toml:"appearance"`
	Logging     LoggingConfig        `toml:"logging"`
	Apps        map[string]AppConfig `toml:"apps,omitempty"`
	Keybindings KeybindingsConfig    `toml:"keybindings"`
}

// DesktopConfig controls window placement and stacking.
type DesktopConfig struct {
	// ZBaseline is the z-index of the first window opened on an empty desktop.
	ZBaseline int `toml:"z_baseline"`
	// SpawnX and SpawnY are where windows without a position are placed.
	SpawnX int `toml:"spawn_x"`
	SpawnY int `toml:"spawn_y"`
	// SpawnJitter bounds the random offset added to the spawn point. Negative disables it.
	SpawnJitter int `toml:"spawn_jitter"`
	// MobileBreakpoint is the width below which drag and resize are disabled.
	MobileBreakpoint int `toml:"mobile_breakpoint"`
}

// StorageConfig selects where the window registry is persisted.
type StorageConfig struct {
	Backend string `toml:"backend"`
	// Path overrides the backend's default location.
	Path string `toml:"path,omitempty"`
}

// AppearanceConfig controls how the desktop is drawn.
type AppearanceConfig struct {
	Theme       string `toml:"theme,omitempty"`
	BorderStyle string `toml:"border_style"`
	HideClock   bool   `toml:"hide_clock"`
	HideSysinfo bool   `toml:"hide_sysinfo"`
	Animations  bool   `toml:"animations"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `toml:"level"`
	// File receives logs when set. Empty uses the XDG state directory.
	File string `toml:"file,omitempty"`
	// Format is "text" or "json".
	Format string `toml:"format"`
}

// AppConfig overrides catalog values for one app.
type AppConfig struct {
	Title     string `toml:"title,omitempty"`
	Width     int    `toml:"width,omitempty"`
	Height    int    `toml:"height,omitempty"`
	MinWidth  int    `toml:"min_width,omitempty"`
	MinHeight int    `toml:"min_height,omitempty"`
}

// KeybindingsConfig maps actions to keys, grouped by section.
type KeybindingsConfig struct {
	WindowManagement map[string][]string `toml:"window_management"`
	Launcher         map[string][]string `toml:"launcher"`
	Media            map[string][]string `toml:"media"`
	System           map[string][]string `toml:"system"`
}

var borderStyles = map[string]bool{
	"rounded": true,
	"normal":  true,
	"thick":   true,
	"double":  true,
	"ascii":   true,
}

var logLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *UserConfig {
	return &UserConfig{
		Desktop: DesktopConfig{
			ZBaseline:        1000,
			SpawnX:           4,
			SpawnY:           3,
			SpawnJitter:      12,
			MobileBreakpoint: 60,
		},
		Storage: StorageConfig{
			Backend: store.BackendFile,
		},
		Appearance: AppearanceConfig{
			BorderStyle: "rounded",
			Animations:  true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Keybindings: defaultKeybindings(),
	}
}

func defaultKeybindings() KeybindingsConfig {
	launcher := map[string][]string{
		"launcher_next": {"right", "l"},
		"launcher_prev": {"left", "h"},
		"launch_app":    {"enter"},
	}
	for i := 1; i <= 9; i++ {
		launcher[fmt.Sprintf("launch_app_%d", i)] = []string{fmt.Sprintf("%d", i)}
	}
	return KeybindingsConfig{
		WindowManagement: map[string][]string{
			"next_window":     {"tab"},
			"prev_window":     {"shift+tab"},
			"minimize_window": {"m"},
			"maximize_window": {"f"},
			"close_window":    {"x", "ctrl+w"},
			"restore_all":     {"M"},
			"cancel_gesture":  {"esc"},
		},
		Launcher: launcher,
		Media: map[string][]string{
			"toggle_playback": {"p"},
			"volume_up":       {"+", "="},
			"volume_down":     {"-"},
		},
		System: map[string][]string{
			"toggle_help": {"?"},
			"quit":        {"q", "ctrl+c"},
		},
	}
}

// GetConfigPath returns the config file location, creating its directory.
func GetConfigPath() (string, error) {
	if p := os.Getenv("WEBTOP_CONFIG"); p != "" {
		return p, nil
	}
	path, err := xdg.ConfigFile(filepath.Join("webtop", "config.toml"))
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return path, nil
}

// LoadUserConfig loads the config file, writing the defaults first if it
// does not exist yet.
func LoadUserConfig() (*UserConfig, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		cfg := DefaultConfig()
		if err := Save(cfg, path); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return Load(path)
}

// Load reads path over the defaults. Keys absent from the file keep their
// default values, and keybinding sections are merged action by action.
func Load(path string) (*UserConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes TOML over the defaults and validates the result.
func Parse(data []byte) (*UserConfig, error) {
	cfg := DefaultConfig()
	var file UserConfig
	file.Desktop = cfg.Desktop
	file.Storage = cfg.Storage
	file.Appearance = cfg.Appearance
	file.Logging = cfg.Logging
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.Desktop = file.Desktop
	cfg.Storage = file.Storage
	cfg.Appearance = file.Appearance
	cfg.Logging = file.Logging
	cfg.Apps = file.Apps
	mergeBindings(cfg.Keybindings.WindowManagement, file.Keybindings.WindowManagement)
	mergeBindings(cfg.Keybindings.Launcher, file.Keybindings.Launcher)
	mergeBindings(cfg.Keybindings.Media, file.Keybindings.Media)
	mergeBindings(cfg.Keybindings.System, file.Keybindings.System)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func mergeBindings(dst, src map[string][]string) {
	for action, keys := range src {
		dst[action] = keys
	}
}

// Save writes cfg to path as TOML with a short header.
func Save(cfg *UserConfig, path string) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("# webtop configuration\n")
	sb.WriteString("# Keybindings map an action to one or more keys.\n")
	sb.WriteString("# Per-app size overrides go under [apps.<id>].\n\n")
	sb.Write(data)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate checks the configuration for values the desktop cannot use.
func (c *UserConfig) Validate() error {
	var errs []error
	switch c.Storage.Backend {
	case store.BackendFile, store.BackendSQLite, store.BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownBackend, c.Storage.Backend))
	}
	if c.Desktop.ZBaseline < 0 {
		errs = append(errs, fmt.Errorf("%w: desktop.z_baseline must not be negative", ErrInvalid))
	}
	if c.Desktop.MobileBreakpoint < 0 {
		errs = append(errs, fmt.Errorf("%w: desktop.mobile_breakpoint must not be negative", ErrInvalid))
	}
	if !borderStyles[c.Appearance.BorderStyle] {
		errs = append(errs, fmt.Errorf("%w: unknown border style %q", ErrInvalid, c.Appearance.BorderStyle))
	}
	if !logLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("%w: unknown log level %q", ErrInvalid, c.Logging.Level))
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		errs = append(errs, fmt.Errorf("%w: log format must be text or json", ErrInvalid))
	}
	for id, app := range c.Apps {
		if app.Width < 0 || app.Height < 0 || app.MinWidth < 0 || app.MinHeight < 0 {
			errs = append(errs, fmt.Errorf("%w: apps.%s sizes must not be negative", ErrInvalid, id))
		}
	}

	normalizer := NewKeyNormalizer()
	for _, section := range c.Keybindings.sections() {
		for action, keys := range section {
			for _, key := range keys {
				if ok, msg := normalizer.ValidateKey(key); !ok {
					errs = append(errs, fmt.Errorf("%w: keybinding %s: %s", ErrInvalid, action, msg))
				}
			}
		}
	}
	return errors.Join(errs...)
}

func (k KeybindingsConfig) sections() []map[string][]string {
	return []map[string][]string{k.WindowManagement, k.Launcher, k.Media, k.System}
}
