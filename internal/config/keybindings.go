package config

// Keybinding represents a single keybinding entry
type Keybinding struct {
	Key         string
	Description string
}

// KeybindingSection represents a section of related keybindings
type KeybindingSection struct {
	Title    string
	Actions  []string
	Bindings []Keybinding
}

// HelpSections lists the configurable actions grouped the way help and
// `webtop keybinds list` present them.
var HelpSections = []KeybindingSection{
	{
		Title: "Window Management",
		Actions: []string{
			"next_window", "prev_window",
			"minimize_window", "maximize_window", "close_window",
			"restore_all", "cancel_gesture",
		},
	},
	{
		Title: "Launcher",
		Actions: []string{
			"launcher_next", "launcher_prev", "launch_app",
			"launch_app_1", "launch_app_2", "launch_app_3",
			"launch_app_4", "launch_app_5", "launch_app_6",
			"launch_app_7", "launch_app_8", "launch_app_9",
		},
	},
	{
		Title:   "Media",
		Actions: []string{"toggle_playback", "volume_up", "volume_down"},
	},
	{
		Title:   "System",
		Actions: []string{"toggle_help", "quit"},
	},
}

// GetKeybindings returns all keybinding sections for the help overlay.
// If registry is nil, it falls back to the default bindings.
func GetKeybindings(registry *KeybindRegistry) []KeybindingSection {
	if registry == nil {
		registry = NewKeybindRegistry(DefaultConfig())
	}

	sections := make([]KeybindingSection, 0, len(HelpSections)+1)
	for _, tmpl := range HelpSections {
		section := KeybindingSection{Title: tmpl.Title, Actions: tmpl.Actions}
		for _, action := range tmpl.Actions {
			addBinding(&section, registry, action, ActionDescriptions[action])
		}
		if len(section.Bindings) > 0 {
			sections = append(sections, section)
		}
	}
	return append(sections, mouseHelpSection())
}

// addBinding adds a keybinding to a section if the action has keys configured
func addBinding(section *KeybindingSection, registry *KeybindRegistry, action, description string) {
	keys := registry.GetKeysForDisplay(action)
	if keys == "" {
		return
	}
	if description == "" {
		description = action
	}
	section.Bindings = append(section.Bindings, Keybinding{
		Key:         keys,
		Description: description,
	})
}

// mouseHelpSection describes the pointer gestures, which are not configurable.
func mouseHelpSection() KeybindingSection {
	return KeybindingSection{
		Title: "Mouse",
		Bindings: []Keybinding{
			{"Double-click icon", "Open app"},
			{"Drag title bar", "Move window"},
			{"Drag edge or corner", "Resize window"},
			{"Double-click title", "Maximize or restore"},
			{"Click taskbar entry", "Focus or minimize"},
		},
	}
}
