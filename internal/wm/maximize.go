package wm

import "sync"

// Maximizer tracks which windows a view has maximized and the geometry to
// restore them to. Its state is transient and never reaches the store.
type Maximizer struct {
	ctrl  *Controller
	mu    sync.Mutex
	saved map[string]Geometry
	unsub func()
}

// NewMaximizer returns a Maximizer that forgets a window's saved geometry
// when the window is closed.
func NewMaximizer(ctrl *Controller) *Maximizer {
	m := &Maximizer{ctrl: ctrl, saved: make(map[string]Geometry)}
	m.unsub = ctrl.Registry().Subscribe(func(ev ChangeEvent) {
		if ev.Kind == ChangeClosed {
			m.Forget(ev.ID)
		}
	})
	return m
}

// Maximize remembers the current geometry of id and fills viewport.
// Maximizing an already maximized window refits it without touching the
// remembered geometry.
func (m *Maximizer) Maximize(id string, viewport Size) {
	w, ok := m.ctrl.Registry().Get(id)
	if !ok {
		return
	}
	m.mu.Lock()
	if _, already := m.saved[id]; !already {
		m.saved[id] = w.Geometry()
	}
	m.mu.Unlock()
	m.ctrl.UpdatePositionSize(id, Point{}, viewport)
}

// Restore puts id back to its pre-maximize geometry. Without a remembered
// geometry it does nothing.
func (m *Maximizer) Restore(id string) {
	m.mu.Lock()
	g, ok := m.saved[id]
	delete(m.saved, id)
	m.mu.Unlock()
	if !ok {
		return
	}
	m.ctrl.UpdatePositionSize(id, g.Position, g.Size)
}

// Toggle maximizes id or restores it if it is already maximized.
func (m *Maximizer) Toggle(id string, viewport Size) {
	if m.IsMaximized(id) {
		m.Restore(id)
		return
	}
	m.Maximize(id, viewport)
}

// IsMaximized reports whether id is currently maximized.
func (m *Maximizer) IsMaximized(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.saved[id]
	return ok
}

// Refit resizes every maximized window to a new viewport.
func (m *Maximizer) Refit(viewport Size) {
	m.mu.Lock()
	ids := make([]string, 0, len(m.saved))
	for id := range m.saved {
		ids = append(ids, id)
	}
	m.mu.Unlock()
	for _, id := range ids {
		m.ctrl.UpdatePositionSize(id, Point{}, viewport)
	}
}

// Forget drops any remembered geometry for id.
func (m *Maximizer) Forget(id string) {
	m.mu.Lock()
	delete(m.saved, id)
	m.mu.Unlock()
}

// Close stops listening to the registry.
func (m *Maximizer) Close() {
	if m.unsub != nil {
		m.unsub()
	}
}
