package desktop

import (
	tea "charm.land/bubbletea/v2"
	"github.com/Gaurav-Gosain/webtop/internal/wm"
)

// hitTest finds what lies under p. The taskbar is above every window and
// windows are above the launcher row.
func (m *Model) hitTest(p wm.Point) hit {
	if p.Y == m.height-1 {
		for _, s := range m.taskbarSlots() {
			if s.contains(p.X) {
				return hit{region: regionTaskbar, id: s.ID}
			}
		}
		return hit{}
	}

	ws := m.reg.ListVisible()
	for i := len(ws) - 1; i >= 0; i-- {
		g := m.displayGeometry(ws[i])
		if !g.Contains(p) {
			continue
		}
		r, dir, b := windowHit(g, p)
		return hit{region: r, id: ws[i].ID, dir: dir, button: b}
	}

	if p.Y == launcherRow {
		for i, s := range m.launcherSlots() {
			if s.contains(p.X) {
				return hit{region: regionLauncher, id: s.ID, index: i}
			}
		}
	}
	return hit{}
}

// handleMouseClick focuses on pointer down and starts drags and resizes.
func (m *Model) handleMouseClick(msg tea.MouseClickMsg) tea.Cmd {
	mouse := msg.Mouse()
	if mouse.Button != tea.MouseLeft {
		return nil
	}
	if m.showHelp {
		m.showHelp = false
		return nil
	}

	p := wm.Point{X: mouse.X, Y: mouse.Y}
	h := m.hitTest(p)
	switch h.region {
	case regionTaskbar:
		return m.toggleFromTaskbar(h.id)

	case regionLauncher:
		m.launcherSel = h.index
		if m.isDoubleClick("launcher:" + h.id) {
			return m.launch(h.id)
		}

	case regionButton:
		switch h.button {
		case buttonMinimize:
			return m.minimize(h.id, false)
		case buttonMaximize:
			return m.toggleMaximize(h.id, false)
		case buttonClose:
			m.close(h.id)
		}

	case regionHandle:
		if !m.gesture.BeginResize(h.id, h.dir, p, m.gestureContext(h.id)) {
			m.ctrl.Focus(h.id)
			return nil
		}
		m.log.Debug("resize started", "id", h.id, "dir", h.dir)

	case regionTitle:
		if m.isDoubleClick("title:" + h.id) {
			return m.toggleMaximize(h.id, false)
		}
		if !m.gesture.BeginDrag(h.id, p, m.gestureContext(h.id)) {
			m.ctrl.Focus(h.id)
			return nil
		}
		m.log.Debug("drag started", "id", h.id)

	case regionBody:
		m.ctrl.Focus(h.id)
	}
	return nil
}

func (m *Model) handleMouseMotion(msg tea.MouseMotionMsg) {
	if m.gesture.Kind() == wm.Idle {
		return
	}
	mouse := msg.Mouse()
	m.gesture.Move(wm.Point{X: mouse.X, Y: mouse.Y})
}

// handleMouseRelease commits the live geometry of the active gesture.
func (m *Model) handleMouseRelease(msg tea.MouseReleaseMsg) {
	if m.gesture.Kind() == wm.Idle {
		return
	}
	mouse := msg.Mouse()
	m.gesture.Move(wm.Point{X: mouse.X, Y: mouse.Y})
	kind, id := m.gesture.Kind(), m.gesture.WindowID()
	if g, ok := m.gesture.End(); ok {
		m.log.Debug("gesture committed", "kind", kind, "id", id,
			"x", g.Position.X, "y", g.Position.Y, "size", g.Size)
	}
}
