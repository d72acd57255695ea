// Package desktop is the bubbletea front end of webtop. It draws the shared
// window registry as a desktop with a launcher row, framed windows and a
// taskbar, and turns mouse and keyboard input into registry operations.
package desktop

import (
	"charm.land/log/v2"
	"github.com/Gaurav-Gosain/webtop/internal/apps"
	"github.com/Gaurav-Gosain/webtop/internal/config"
	"github.com/Gaurav-Gosain/webtop/internal/logging"
	"github.com/Gaurav-Gosain/webtop/internal/wm"
)

// Env is everything a desktop view shares with the other views of the same
// process. Only Controller is required.
type Env struct {
	Controller *wm.Controller
	Catalog    *apps.Catalog
	// Players holds the playback state of audio apps, keyed by app id.
	Players  map[string]*apps.Player
	Keybinds *config.KeybindRegistry
	Config   *config.UserConfig
	Logger   *log.Logger
}

func (e Env) withDefaults() Env {
	if e.Config == nil {
		e.Config = config.DefaultConfig()
	}
	if e.Catalog == nil {
		e.Catalog = apps.NewCatalog(e.Config.Apps)
	}
	if e.Keybinds == nil {
		e.Keybinds = config.NewKeybindRegistry(e.Config)
	}
	if e.Logger == nil {
		e.Logger = logging.Discard()
	}
	return e
}
