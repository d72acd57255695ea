// Package apps is the catalog of widget applications the desktop can open,
// along with the app-specific hooks that need to react to window changes.
package apps

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Gaurav-Gosain/webtop/internal/config"
	"github.com/Gaurav-Gosain/webtop/internal/wm"
	"github.com/google/uuid"
)

// ErrUnknownApp is returned when launching an id missing from the catalog.
var ErrUnknownApp = errors.New("unknown app")

// App ids.
const (
	Bookmarks     = "bookmarks"
	Calculator    = "calculator"
	Calendar      = "calendar"
	Checkers      = "checkers"
	Clock         = "clock"
	MusicPlayer   = "music-player"
	Ambient       = "ambient"
	Notes         = "notes"
	UnitConverter = "unit-converter"
)

// App is one entry of the catalog.
type App struct {
	ID          string
	Name        string
	Icon        string
	Blurb       string
	DefaultSize wm.Size
	MinSize     wm.Size
	// Singleton apps reuse their app id as the instance id so launching
	// them again focuses the existing window.
	Singleton bool
}

var builtin = []App{
	{ID: Calculator, Name: "Calculator", Icon: "±", Blurb: "Arithmetic with history and memory", DefaultSize: wm.Size{Width: 28, Height: 14}, MinSize: wm.Size{Width: 22, Height: 10}},
	{ID: Calendar, Name: "Calendar", Icon: "▦", Blurb: "Month view with events", DefaultSize: wm.Size{Width: 36, Height: 14}, MinSize: wm.Size{Width: 28, Height: 10}, Singleton: true},
	{ID: Clock, Name: "Clock", Icon: "◷", Blurb: "Local time and timers", DefaultSize: wm.Size{Width: 26, Height: 8}, MinSize: wm.Size{Width: 16, Height: 5}},
	{ID: MusicPlayer, Name: "Music", Icon: "♫", Blurb: "Queue, volume and current track", DefaultSize: wm.Size{Width: 40, Height: 12}, MinSize: wm.Size{Width: 30, Height: 8}, Singleton: true},
	{ID: Ambient, Name: "Ambient", Icon: "≈", Blurb: "Background sounds", DefaultSize: wm.Size{Width: 32, Height: 10}, MinSize: wm.Size{Width: 24, Height: 7}, Singleton: true},
	{ID: Bookmarks, Name: "Bookmarks", Icon: "★", Blurb: "Saved links", DefaultSize: wm.Size{Width: 40, Height: 16}, MinSize: wm.Size{Width: 24, Height: 8}},
	{ID: UnitConverter, Name: "Converter", Icon: "⇄", Blurb: "Length, mass and temperature", DefaultSize: wm.Size{Width: 34, Height: 12}, MinSize: wm.Size{Width: 26, Height: 8}},
	{ID: Checkers, Name: "Checkers", Icon: "◉", Blurb: "Two-player draughts", DefaultSize: wm.Size{Width: 36, Height: 20}, MinSize: wm.Size{Width: 36, Height: 20}},
	{ID: Notes, Name: "Notes", Icon: "✎", Blurb: "Scratch pad", DefaultSize: wm.Size{Width: 40, Height: 14}, MinSize: wm.Size{Width: 20, Height: 6}},
}

// Catalog maps app ids to their metadata.
type Catalog struct {
	apps  map[string]App
	order []string
}

// NewCatalog returns the built-in catalog with overrides applied. Zero
// override fields keep the built-in value.
func NewCatalog(overrides map[string]config.AppConfig) *Catalog {
	c := &Catalog{apps: make(map[string]App, len(builtin))}
	for _, app := range builtin {
		if o, ok := overrides[app.ID]; ok {
			app = applyOverride(app, o)
		}
		c.apps[app.ID] = app
		c.order = append(c.order, app.ID)
	}
	return c
}

func applyOverride(app App, o config.AppConfig) App {
	if o.Title != "" {
		app.Name = o.Title
	}
	if o.Width > 0 {
		app.DefaultSize.Width = o.Width
	}
	if o.Height > 0 {
		app.DefaultSize.Height = o.Height
	}
	if o.MinWidth > 0 {
		app.MinSize.Width = o.MinWidth
	}
	if o.MinHeight > 0 {
		app.MinSize.Height = o.MinHeight
	}
	app.DefaultSize.Width = max(app.DefaultSize.Width, app.MinSize.Width)
	app.DefaultSize.Height = max(app.DefaultSize.Height, app.MinSize.Height)
	return app
}

// Get returns the app with id.
func (c *Catalog) Get(id string) (App, bool) {
	app, ok := c.apps[id]
	return app, ok
}

// List returns the apps in launcher order.
func (c *Catalog) List() []App {
	out := make([]App, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.apps[id])
	}
	return out
}

// IDs returns the app ids sorted alphabetically.
func (c *Catalog) IDs() []string {
	ids := append([]string(nil), c.order...)
	sort.Strings(ids)
	return ids
}

// Request builds the open request for a new window of app.
func (c *Catalog) Request(appID, instanceID string) (wm.OpenRequest, error) {
	app, ok := c.apps[appID]
	if !ok {
		return wm.OpenRequest{}, fmt.Errorf("%w: %q", ErrUnknownApp, appID)
	}
	minSize := app.MinSize
	return wm.OpenRequest{
		InstanceID:  instanceID,
		AppID:       app.ID,
		Title:       app.Name,
		MinSize:     &minSize,
		InitialSize: app.DefaultSize,
	}, nil
}

// Launch opens a window for appID and returns its instance id. Singleton
// apps are focused if already open; others always get a fresh window.
func (c *Catalog) Launch(ctrl *wm.Controller, appID string) (string, error) {
	app, ok := c.apps[appID]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownApp, appID)
	}
	if app.Singleton {
		return c.LaunchSingleton(ctrl, appID)
	}
	return c.open(ctrl, appID, uuid.NewString())
}

// LaunchSingleton opens appID under its own id, so repeated calls focus
// the same window.
func (c *Catalog) LaunchSingleton(ctrl *wm.Controller, appID string) (string, error) {
	return c.open(ctrl, appID, appID)
}

func (c *Catalog) open(ctrl *wm.Controller, appID, instanceID string) (string, error) {
	req, err := c.Request(appID, instanceID)
	if err != nil {
		return "", err
	}
	ctrl.Open(req)
	return instanceID, nil
}
