package desktop

import (
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
)

// handleKey resolves the key through the keybinding registry and runs the
// bound action.
func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	action := m.env.Keybinds.GetAction(key)

	if m.showHelp && action != "quit" {
		m.showHelp = false
		return nil
	}

	switch action {
	case "":
		return nil

	case "next_window":
		// Raising the bottom window cycles through the whole stack.
		if ws := m.reg.ListVisible(); len(ws) > 1 {
			m.ctrl.Focus(ws[0].ID)
		}

	case "prev_window":
		if ws := m.reg.ListVisible(); len(ws) > 1 {
			m.ctrl.Focus(ws[len(ws)-2].ID)
		}

	case "minimize_window":
		if id, ok := m.reg.ActiveID(); ok {
			return m.minimize(id, true)
		}

	case "maximize_window":
		if id, ok := m.reg.ActiveID(); ok {
			return m.toggleMaximize(id, true)
		}

	case "close_window":
		if id, ok := m.reg.ActiveID(); ok {
			m.close(id)
		}

	case "restore_all":
		m.restoreAll()

	case "cancel_gesture":
		if id := m.gesture.WindowID(); m.gesture.Cancel() {
			m.log.Debug("gesture cancelled", "id", id)
		}

	case "launcher_next", "launcher_prev":
		n := len(m.launcherSlots())
		if n == 0 {
			return nil
		}
		step := 1
		if action == "launcher_prev" {
			step = n - 1
		}
		m.launcherSel = (m.launcherSel + step) % n

	case "launch_app":
		if slots := m.launcherSlots(); m.launcherSel < len(slots) {
			return m.launch(slots[m.launcherSel].ID)
		}

	case "toggle_playback", "volume_up", "volume_down":
		m.controlPlayback(action)

	case "toggle_help":
		m.showHelp = true

	case "quit":
		return tea.Quit

	default:
		if n, ok := strings.CutPrefix(action, "launch_app_"); ok {
			i, err := strconv.Atoi(n)
			list := m.env.Catalog.List()
			if err == nil && i >= 1 && i <= len(list) {
				m.launcherSel = i - 1
				return m.launch(list[i-1].ID)
			}
		}
	}
	return nil
}
