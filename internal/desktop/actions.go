package desktop

import (
	tea "charm.land/bubbletea/v2"
	"github.com/Gaurav-Gosain/webtop/internal/apps"
)

// launch opens appID and starts its playback if it is an audio app.
func (m *Model) launch(appID string) tea.Cmd {
	id, err := m.env.Catalog.Launch(m.ctrl, appID)
	if err != nil {
		m.log.Error("launch failed", "app", appID, "err", err)
		return nil
	}
	if p, ok := m.env.Players[appID]; ok {
		track, playing, _ := p.Status()
		if !playing {
			if track == "" {
				track = apps.DefaultTrack(appID)
			}
			p.Play(track)
		}
	}
	m.log.Info("app opened", "app", appID, "window", id)
	return nil
}

// controlPlayback drives the player of the active window's app, if any.
func (m *Model) controlPlayback(action string) {
	id, ok := m.reg.ActiveID()
	if !ok {
		return
	}
	w, _ := m.reg.Get(id)
	p, ok := m.env.Players[w.AppID]
	if !ok {
		return
	}
	_, _, volume := p.Status()
	switch action {
	case "toggle_playback":
		p.Toggle()
	case "volume_up":
		p.SetVolume(volume + apps.VolumeStep)
	case "volume_down":
		p.SetVolume(volume - apps.VolumeStep)
	}
	m.log.Debug("playback", "app", w.AppID, "status", p.String())
}

func (m *Model) minimize(id string, fast bool) tea.Cmd {
	w, ok := m.reg.Get(id)
	if !ok || w.IsMinimized {
		return nil
	}
	if m.gesture.WindowID() == id {
		m.gesture.Cancel()
	}
	from := m.displayGeometry(w)
	m.ctrl.Minimize(id)
	to, ok := m.taskbarSlotFor(id)
	if !ok {
		return nil
	}
	return m.animate(id, from, to, true, fast)
}

// toggleFromTaskbar hides the active window or brings another one forward,
// animating between the window and its taskbar slot.
func (m *Model) toggleFromTaskbar(id string) tea.Cmd {
	before, ok := m.reg.Get(id)
	if !ok {
		return nil
	}
	from := m.displayGeometry(before)
	slotGeom, hasSlot := m.taskbarSlotFor(id)

	m.ctrl.ToggleFromTaskbar(id)

	after, ok := m.reg.Get(id)
	if !ok || !hasSlot {
		return nil
	}
	switch {
	case !before.IsMinimized && after.IsMinimized:
		return m.animate(id, from, slotGeom, true, false)
	case before.IsMinimized && !after.IsMinimized:
		return m.animate(id, slotGeom, after.Geometry(), false, false)
	}
	return nil
}

// toggleMaximize raises id and maximizes or restores it.
func (m *Model) toggleMaximize(id string, fast bool) tea.Cmd {
	w, ok := m.reg.Get(id)
	if !ok {
		return nil
	}
	if m.gesture.WindowID() == id {
		m.gesture.Cancel()
	}
	from := m.displayGeometry(w)
	m.ctrl.Focus(id)
	m.maxim.Toggle(id, m.viewport())
	after, ok := m.reg.Get(id)
	if !ok {
		return nil
	}
	m.log.Debug("maximize toggled", "id", id, "maximized", m.maxim.IsMaximized(id))
	return m.animate(id, from, after.Geometry(), false, fast)
}

func (m *Model) close(id string) {
	if m.gesture.WindowID() == id {
		m.gesture.Cancel()
	}
	m.anims.remove(id)
	m.ctrl.Close(id)
}

// restoreAll brings every minimized window back in taskbar order.
func (m *Model) restoreAll() {
	restored := 0
	for _, e := range m.reg.ListTaskbar() {
		if e.IsMinimized {
			m.ctrl.Focus(e.ID)
			restored++
		}
	}
	if restored > 0 {
		m.log.Debug("restored windows", "count", restored)
	}
}
