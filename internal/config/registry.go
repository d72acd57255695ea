package config

import (
	"sort"
	"strings"
)

// ActionDescriptions maps each action to the text shown in help and in
// `webtop keybinds list`.
var ActionDescriptions = map[string]string{
	"next_window":     "Focus next window",
	"prev_window":     "Focus previous window",
	"minimize_window": "Minimize window",
	"maximize_window": "Maximize or restore window",
	"close_window":    "Close window",
	"restore_all":     "Restore all windows",
	"cancel_gesture":  "Cancel drag or resize",
	"launcher_next":   "Select next app",
	"launcher_prev":   "Select previous app",
	"launch_app":      "Open selected app",
	"launch_app_1":    "Open app 1",
	"launch_app_2":    "Open app 2",
	"launch_app_3":    "Open app 3",
	"launch_app_4":    "Open app 4",
	"launch_app_5":    "Open app 5",
	"launch_app_6":    "Open app 6",
	"launch_app_7":    "Open app 7",
	"launch_app_8":    "Open app 8",
	"launch_app_9":    "Open app 9",
	"toggle_playback": "Pause or resume audio",
	"volume_up":       "Raise volume",
	"volume_down":     "Lower volume",
	"toggle_help":     "Toggle help",
	"quit":            "Quit",
}

// KeybindRegistry resolves keys to actions and back.
type KeybindRegistry struct {
	actionToKeys map[string][]string
	keyToAction  map[string]string
	normalizer   *KeyNormalizer
}

// NewKeybindRegistry builds the lookup tables from cfg. When two actions
// claim the same key the one in the earlier section wins.
func NewKeybindRegistry(cfg *UserConfig) *KeybindRegistry {
	r := &KeybindRegistry{
		actionToKeys: make(map[string][]string),
		keyToAction:  make(map[string]string),
		normalizer:   NewKeyNormalizer(),
	}
	for _, section := range cfg.Keybindings.sections() {
		actions := make([]string, 0, len(section))
		for action := range section {
			actions = append(actions, action)
		}
		sort.Strings(actions)
		for _, action := range actions {
			keys := section[action]
			r.actionToKeys[action] = append([]string(nil), keys...)
			for _, key := range keys {
				for _, variant := range r.normalizer.NormalizeKey(key) {
					if _, taken := r.keyToAction[variant]; !taken {
						r.keyToAction[variant] = action
					}
				}
			}
		}
	}
	return r
}

// GetKeys returns the keys bound to action.
func (r *KeybindRegistry) GetKeys(action string) []string {
	return r.actionToKeys[action]
}

// GetAction returns the action bound to key, or "".
func (r *KeybindRegistry) GetAction(key string) string {
	if action, ok := r.keyToAction[key]; ok {
		return action
	}
	for _, variant := range r.normalizer.NormalizeKey(key) {
		if action, ok := r.keyToAction[variant]; ok {
			return action
		}
	}
	return ""
}

// GetKeysForDisplay formats the keys for action for help text.
func (r *KeybindRegistry) GetKeysForDisplay(action string) string {
	keys := r.GetKeys(action)
	if len(keys) == 0 {
		return ""
	}
	display := make([]string, len(keys))
	for i, k := range keys {
		display[i] = r.normalizer.DisplayKey(k)
	}
	return strings.Join(display, ", ")
}

// Actions returns every bound action in sorted order.
func (r *KeybindRegistry) Actions() []string {
	out := make([]string, 0, len(r.actionToKeys))
	for action := range r.actionToKeys {
		out = append(out, action)
	}
	sort.Strings(out)
	return out
}

// KeyNormalizer maps user-written keys onto the strings the terminal
// reports for them.
type KeyNormalizer struct {
	aliases map[string]string
}

// NewKeyNormalizer returns a normalizer with the common aliases.
func NewKeyNormalizer() *KeyNormalizer {
	return &KeyNormalizer{aliases: map[string]string{
		"return":     "enter",
		"escape":     "esc",
		"del":        "delete",
		"spacebar":   "space",
		" ":          "space",
		"arrowup":    "up",
		"arrowdown":  "down",
		"arrowleft":  "left",
		"arrowright": "right",
	}}
}

// NormalizeKey returns the spellings a key may arrive as. The input in
// lower case is always first, followed by its alias if one exists.
// Single upper-case letters are kept as-is since they mean shift+letter.
func (n *KeyNormalizer) NormalizeKey(key string) []string {
	if key == "" {
		return nil
	}
	if len(key) == 1 {
		return []string{key}
	}
	lower := strings.ToLower(key)
	out := []string{lower}
	last := lower
	if i := strings.LastIndex(lower, "+"); i >= 0 && i < len(lower)-1 {
		last = lower[i+1:]
	}
	if alias, ok := n.aliases[last]; ok {
		out = append(out, strings.TrimSuffix(lower, last)+alias)
	}
	return out
}

var validModifiers = map[string]bool{
	"ctrl":  true,
	"alt":   true,
	"shift": true,
	"super": true,
	"meta":  true,
}

// ValidateKey reports whether key is usable and, if not, why.
func (n *KeyNormalizer) ValidateKey(key string) (bool, string) {
	if strings.TrimSpace(key) == "" && key != " " {
		return false, "empty key"
	}
	if len(key) == 1 {
		return true, ""
	}
	parts := strings.Split(strings.ToLower(key), "+")
	for _, mod := range parts[:len(parts)-1] {
		if !validModifiers[mod] {
			return false, "unknown modifier " + mod
		}
	}
	if parts[len(parts)-1] == "" {
		return false, "missing key after modifier"
	}
	return true, ""
}

// DisplayKey formats key for help text, e.g. "ctrl+w" becomes "Ctrl+W".
func (n *KeyNormalizer) DisplayKey(key string) string {
	if len(key) == 1 {
		if key >= "A" && key <= "Z" {
			return "Shift+" + key
		}
		return key
	}
	parts := strings.Split(key, "+")
	for i, p := range parts {
		switch {
		case p == "":
		case len(p) == 1:
			parts[i] = strings.ToUpper(p)
		default:
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, "+")
}
