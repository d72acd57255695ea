package desktop

import (
	"context"
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/log/v2"
	"github.com/Gaurav-Gosain/webtop/internal/wm"
)

const doubleClickWindow = 400 * time.Millisecond

// registryChangedMsg carries every change since the view last looked.
type registryChangedMsg []wm.ChangeEvent

type click struct {
	at     time.Time
	target string
}

// Model is one desktop view. Many views may share a Controller; each keeps
// its own pointer gesture, maximize state and launcher selection.
type Model struct {
	env     Env
	ctrl    *wm.Controller
	reg     *wm.Registry
	gesture *wm.Interaction
	maxim   *wm.Maximizer
	anims   *animator
	log     *log.Logger

	width       int
	height      int
	launcherSel int
	showHelp    bool
	lastClick   click
	cpuHistory  []float64
	memPercent  float64

	// now is swapped out in tests.
	now func() time.Time

	pendingMu sync.Mutex
	pending   []wm.ChangeEvent
	changed   chan struct{}
	done      chan struct{}
	unsub     func()
	closeOnce sync.Once
}

// New returns a desktop view of width x height cells. The view stops
// listening to the registry when ctx is done or Close is called.
func New(ctx context.Context, env Env, width, height int) *Model {
	env = env.withDefaults()
	m := &Model{
		env:     env,
		ctrl:    env.Controller,
		reg:     env.Controller.Registry(),
		gesture: wm.NewInteraction(env.Controller),
		maxim:   wm.NewMaximizer(env.Controller),
		anims:   newAnimator(),
		log:     env.Logger,
		width:   width,
		height:  height,
		now:     time.Now,
		changed: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	m.unsub = m.reg.Subscribe(m.queueChange)
	go func() {
		select {
		case <-ctx.Done():
			m.Close()
		case <-m.done:
		}
	}()
	return m
}

// Close detaches the view from the registry.
func (m *Model) Close() {
	m.closeOnce.Do(func() {
		m.unsub()
		m.maxim.Close()
		close(m.done)
	})
}

// Done is closed once the view has detached from the registry.
func (m *Model) Done() <-chan struct{} { return m.done }

// queueChange records ev for the next waitForChange. It never blocks the
// registry and never drops an event.
func (m *Model) queueChange(ev wm.ChangeEvent) {
	m.pendingMu.Lock()
	m.pending = append(m.pending, ev)
	m.pendingMu.Unlock()
	select {
	case m.changed <- struct{}{}:
	default:
	}
}

// FilterMouseMotion drops pointer motion while no gesture is in progress,
// since nothing on the desktop reacts to hover. Pass it to tea.WithFilter.
func FilterMouseMotion(model tea.Model, msg tea.Msg) tea.Msg {
	if _, ok := msg.(tea.MouseMotionMsg); !ok {
		return msg
	}
	m, ok := model.(*Model)
	if !ok || m.gesture.Kind() != wm.Idle {
		return msg
	}
	return nil
}

// Init starts the change listener and the clock.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.waitForChange(), clockTick()}
	if !m.env.Config.Appearance.HideSysinfo {
		cmds = append(cmds, sampleSysinfo)
	}
	return tea.Batch(cmds...)
}

// waitForChange delivers the registry changes queued since the last call,
// including changes made by other views.
func (m *Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.changed:
			m.pendingMu.Lock()
			evs := m.pending
			m.pending = nil
			m.pendingMu.Unlock()
			return registryChangedMsg(evs)
		case <-m.done:
			return nil
		}
	}
}

// Update handles input and background messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyPressMsg:
		return m, m.handleKey(msg)

	case tea.MouseClickMsg:
		return m, m.handleMouseClick(msg)

	case tea.MouseMotionMsg:
		m.handleMouseMotion(msg)
		return m, nil

	case tea.MouseReleaseMsg:
		m.handleMouseRelease(msg)
		return m, nil

	case registryChangedMsg:
		for _, ev := range msg {
			m.onRegistryChange(ev)
		}
		return m, m.waitForChange()

	case clockTickMsg:
		if m.env.Config.Appearance.HideSysinfo {
			return m, clockTick()
		}
		return m, tea.Batch(clockTick(), sampleSysinfo)

	case sysinfoMsg:
		m.recordSysinfo(msg)
		return m, nil

	case animationFrameMsg:
		if m.anims.step(m.now()) {
			return m, animationFrame()
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) resize(width, height int) {
	wasMobile := m.mobile()
	m.width, m.height = width, height
	if m.mobile() && !wasMobile && m.gesture.Cancel() {
		m.log.Debug("gesture cancelled by layout change")
	}
	m.maxim.Refit(m.viewport())
}

func (m *Model) onRegistryChange(ev wm.ChangeEvent) {
	switch ev.Kind {
	case wm.ChangeClosed:
		if m.gesture.WindowID() == ev.ID {
			m.gesture.Cancel()
		}
		m.anims.remove(ev.ID)
	case wm.ChangeReloaded:
		m.gesture.Cancel()
	}
}

// mobile reports whether the view is narrower than the configured
// breakpoint.
func (m *Model) mobile() bool {
	return m.width < m.env.Config.Desktop.MobileBreakpoint
}

// viewport is the area maximized windows fill: everything above the
// taskbar.
func (m *Model) viewport() wm.Size {
	return wm.Size{Width: max(m.width, 1), Height: max(m.height-1, 1)}
}

func (m *Model) gestureContext(id string) wm.GestureContext {
	return wm.GestureContext{Mobile: m.mobile(), Maximized: m.maxim.IsMaximized(id)}
}

// displayGeometry is where w is drawn: the live gesture geometry, then any
// running animation, then the committed geometry.
func (m *Model) displayGeometry(w wm.WindowState) wm.Geometry {
	if g, ok := m.gesture.Live(w.ID); ok {
		return g
	}
	if g, ok := m.anims.geometry(w.ID); ok {
		return g
	}
	return w.Geometry()
}

// drawList returns the windows to draw by ascending z-index, including
// minimized windows still animating towards the taskbar.
func (m *Model) drawList() []wm.WindowState {
	all := m.reg.All()
	out := all[:0]
	for _, w := range all {
		if w.Visible() || (w.IsMinimized && m.anims.hiding(w.ID)) {
			out = append(out, w)
		}
	}
	return out
}

// isDoubleClick records a click on target and reports whether it completes
// a double click.
func (m *Model) isDoubleClick(target string) bool {
	now := m.now()
	dbl := m.lastClick.target == target && now.Sub(m.lastClick.at) <= doubleClickWindow
	if dbl {
		m.lastClick = click{}
	} else {
		m.lastClick = click{at: now, target: target}
	}
	return dbl
}
