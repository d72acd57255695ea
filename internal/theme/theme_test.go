package theme

import (
	"testing"

	"charm.land/lipgloss/v2"
)

func TestColorToString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"hex", "#AFFFFF", "#afffff"},
		{"black", "#000000", "#000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ColorToString(lipgloss.Color(tt.in)); got != tt.want {
				t.Errorf("ColorToString(%s) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}

	if got := ColorToString(nil); got != "#000000" {
		t.Errorf("ColorToString(nil) = %s", got)
	}
}

func TestDisabledFallbacks(t *testing.T) {
	if err := Initialize(""); err != nil {
		t.Fatal(err)
	}
	if IsEnabled() || Current() != nil {
		t.Fatal("theming enabled with empty name")
	}
	if got := ColorToString(BorderFocused()); got != "#afffff" {
		t.Errorf("BorderFocused() = %s", got)
	}
}

func TestUnknownTheme(t *testing.T) {
	t.Cleanup(func() { _ = Initialize("") })
	if err := Initialize("no-such-theme"); err == nil {
		t.Fatal("Initialize accepted an unknown theme")
	}
	if !IsEnabled() || Current() == nil {
		t.Fatal("unknown theme should fall back to the default tint")
	}
}
