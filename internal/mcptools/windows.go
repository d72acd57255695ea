// Package mcptools exposes the window registry to MCP clients and holds the
// window operations shared by the MCP tools and the CLI.
package mcptools

import (
	"errors"
	"fmt"

	"github.com/Gaurav-Gosain/webtop/internal/wm"
)

// ErrNoWindow is returned for operations on an id the registry does not hold.
var ErrNoWindow = errors.New("no such window")

// Window is the external view of one registry entry.
type Window struct {
	ID        string `json:"id" yaml:"id"`
	App       string `json:"app" yaml:"app"`
	Title     string `json:"title" yaml:"title"`
	X         int    `json:"x" yaml:"x"`
	Y         int    `json:"y" yaml:"y"`
	Width     int    `json:"width" yaml:"width"`
	Height    int    `json:"height" yaml:"height"`
	Z         int    `json:"z" yaml:"z"`
	Minimized bool   `json:"minimized" yaml:"minimized"`
	Active    bool   `json:"active" yaml:"active"`
}

// ListWindows returns the windows of reg in taskbar order, or only the
// visible ones bottom to top.
func ListWindows(reg *wm.Registry, visibleOnly bool) []Window {
	if visibleOnly {
		active, _ := reg.ActiveID()
		ws := reg.ListVisible()
		out := make([]Window, 0, len(ws))
		for _, w := range ws {
			out = append(out, toWindow(w, w.ID == active))
		}
		return out
	}

	entries := reg.ListTaskbar()
	out := make([]Window, 0, len(entries))
	for _, e := range entries {
		out = append(out, toWindow(e.WindowState, e.IsActive))
	}
	return out
}

func toWindow(w wm.WindowState, active bool) Window {
	return Window{
		ID:        w.ID,
		App:       w.AppID,
		Title:     w.Title,
		X:         w.Position.X,
		Y:         w.Position.Y,
		Width:     w.Size.Width,
		Height:    w.Size.Height,
		Z:         w.ZIndex,
		Minimized: w.IsMinimized,
		Active:    active,
	}
}

// Action is a registry operation addressed by window id.
type Action string

// Actions understood by Apply.
const (
	ActionFocus    Action = "focus"
	ActionMinimize Action = "minimize"
	ActionToggle   Action = "toggle"
	ActionClose    Action = "close"
)

// Apply runs action on id.
func Apply(ctrl *wm.Controller, action Action, id string) error {
	if _, ok := ctrl.Registry().Get(id); !ok {
		return fmt.Errorf("%w: %q", ErrNoWindow, id)
	}
	switch action {
	case ActionFocus:
		ctrl.Focus(id)
	case ActionMinimize:
		ctrl.Minimize(id)
	case ActionToggle:
		ctrl.ToggleFromTaskbar(id)
	case ActionClose:
		ctrl.Close(id)
	default:
		return fmt.Errorf("unknown action %q", action)
	}
	return nil
}

// Move commits a new geometry for id. Zero width or height keeps the current
// value; sizes below the window's minimum are raised to it.
func Move(ctrl *wm.Controller, id string, pos wm.Point, size wm.Size) (wm.Geometry, error) {
	w, ok := ctrl.Registry().Get(id)
	if !ok {
		return wm.Geometry{}, fmt.Errorf("%w: %q", ErrNoWindow, id)
	}
	if size.Width <= 0 {
		size.Width = w.Size.Width
	}
	if size.Height <= 0 {
		size.Height = w.Size.Height
	}
	minSize := wm.DefaultMinSize
	if w.MinSize != nil {
		minSize = *w.MinSize
	}
	size.Width = max(size.Width, minSize.Width)
	size.Height = max(size.Height, minSize.Height)

	ctrl.UpdatePositionSize(id, pos, size)
	return wm.Geometry{Position: pos, Size: size}, nil
}
