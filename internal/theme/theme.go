// Package theme provides the colors used to draw the webtop desktop.
package theme

import (
	"fmt"
	"image/color"

	"charm.land/lipgloss/v2"
	tint "github.com/lrstanley/bubbletint/v2"
)

var enabled bool

// Initialize sets up the theme registry with the specified theme name.
// Call this once at application startup.
// If themeName is empty, theming is disabled and the built-in palette is used.
func Initialize(themeName string) error {
	if themeName == "" {
		enabled = false
		return nil
	}

	enabled = true
	tint.NewDefaultRegistry()

	if ok := tint.SetTintID(themeName); !ok {
		tint.SetTintID("default")
		return fmt.Errorf("unknown theme %q, using default", themeName)
	}
	return nil
}

// IsEnabled returns true if theming is enabled
func IsEnabled() bool {
	return enabled
}

// Current returns the currently active theme.
// Returns nil if theming is disabled.
func Current() *tint.Tint {
	if !enabled {
		return nil
	}
	return tint.Current()
}

// Desktop background behind all windows.
func DesktopBg() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#1e1e2e")
	}
	return t.Bg
}

func DesktopFg() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#cdd6f4")
	}
	return t.Fg
}

// Window border colors
func BorderUnfocused() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#6c7086")
	}
	return t.BrightBlack
}

func BorderFocused() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#AFFFFF")
	}
	return t.BrightCyan
}

// BorderGesture is used while a window is being dragged or resized.
func BorderGesture() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#f9e2af")
	}
	return t.BrightYellow
}

func WindowBg() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#181825")
	}
	return t.Black
}

func WindowFg() color.Color {
	return DesktopFg()
}

// Title bar button colors
func ButtonMinimize() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#f9e2af")
	}
	return t.Yellow
}

func ButtonMaximize() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#a6e3a1")
	}
	return t.Green
}

func ButtonClose() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#f38ba8")
	}
	return t.Red
}

// Launcher icon colors
func LauncherIcon() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#89b4fa")
	}
	return t.BrightBlue
}

func LauncherSelected() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#cba6f7")
	}
	return t.BrightPurple
}

func LauncherLabel() color.Color {
	return lipgloss.Color("#a0a0b0")
}

// Taskbar styling colors
func TaskbarBg() color.Color {
	return lipgloss.Color("#2a2a3e")
}

func TaskbarFg() color.Color {
	return lipgloss.Color("#a0a0a8")
}

func TaskbarActive() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#00ff00")
	}
	return t.BrightGreen
}

func TaskbarMinimized() color.Color {
	return lipgloss.Color("#808090")
}

func TaskbarSeparator() color.Color {
	return lipgloss.Color("#303040")
}

func TaskbarClock() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#f5c2e7")
	}
	return t.Purple
}

// Help overlay colors
func HelpKeyBadge() color.Color {
	return lipgloss.Color("5")
}

func HelpGray() color.Color {
	return lipgloss.Color("8")
}

func HelpBorder() color.Color {
	return lipgloss.Color("14")
}

func HelpTitle() color.Color {
	return lipgloss.Color("11")
}

// CLI table colors
func CLITableHeader() color.Color {
	return lipgloss.Color("12")
}

func CLITableBorder() color.Color {
	return lipgloss.Color("8")
}

func CLITableKey() color.Color {
	return lipgloss.Color("11")
}

func CLITableDim() color.Color {
	return lipgloss.Color("8")
}

func CLITitle() color.Color {
	return lipgloss.Color("14")
}

// ColorToString converts a color.Color to a hex string
func ColorToString(c color.Color) string {
	if c == nil {
		return "#000000"
	}
	r, g, b, _ := c.RGBA()
	r8, g8, b8 := uint8(r>>8), uint8(g>>8), uint8(b>>8)
	return fmt.Sprintf("#%02x%02x%02x", r8, g8, b8)
}
