package desktop

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/Gaurav-Gosain/webtop/internal/apps"
	"github.com/Gaurav-Gosain/webtop/internal/config"
	"github.com/Gaurav-Gosain/webtop/internal/wm"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 15, 4, 5, 0, time.UTC)

func newTestController() *wm.Controller {
	reg := wm.NewRegistry(context.Background(), wm.RegistryOptions{})
	return wm.NewController(reg, wm.ControllerOptions{SpawnJitter: -1})
}

func newTestModel(t *testing.T, ctrl *wm.Controller, env Env, width, height int) *Model {
	t.Helper()
	prev := config.AnimationsEnabled
	config.AnimationsEnabled = false
	t.Cleanup(func() { config.AnimationsEnabled = prev })

	env.Controller = ctrl
	m := New(context.Background(), env, width, height)
	m.now = func() time.Time { return testNow }
	t.Cleanup(m.Close)
	return m
}

func openAt(ctrl *wm.Controller, id string, x, y, w, h int) {
	ctrl.Open(wm.OpenRequest{
		InstanceID:      id,
		AppID:           apps.Notes,
		Title:           id,
		InitialSize:     wm.Size{Width: w, Height: h},
		MinSize:         &wm.Size{Width: 10, Height: 5},
		InitialPosition: &wm.Point{X: x, Y: y},
	})
}

func press(m *Model, x, y int) tea.Cmd {
	_, cmd := m.Update(tea.MouseClickMsg{X: x, Y: y, Button: tea.MouseLeft})
	return cmd
}

func move(m *Model, x, y int) {
	m.Update(tea.MouseMotionMsg{X: x, Y: y, Button: tea.MouseLeft})
}

func release(m *Model, x, y int) {
	m.Update(tea.MouseReleaseMsg{X: x, Y: y, Button: tea.MouseLeft})
}

func key(m *Model, k string) tea.Cmd {
	var msg tea.KeyPressMsg
	switch k {
	case "tab":
		msg = tea.KeyPressMsg{Code: tea.KeyTab}
	case "esc":
		msg = tea.KeyPressMsg{Code: tea.KeyEscape}
	default:
		msg = tea.KeyPressMsg{Code: []rune(k)[0], Text: k}
	}
	_, cmd := m.Update(msg)
	return cmd
}

func get(t *testing.T, ctrl *wm.Controller, id string) wm.WindowState {
	t.Helper()
	w, ok := ctrl.Registry().Get(id)
	require.True(t, ok, "window %s missing", id)
	return w
}

func TestDragCommitsOnRelease(t *testing.T) {
	ctrl := newTestController()
	m := newTestModel(t, ctrl, Env{}, 100, 30)
	openAt(ctrl, "a", 10, 5, 30, 10)

	press(m, 15, 6)
	require.Equal(t, wm.Dragging, m.gesture.Kind())

	move(m, 25, 10)
	require.Equal(t, wm.Point{X: 10, Y: 5}, get(t, ctrl, "a").Position, "registry untouched while dragging")
	require.Equal(t, wm.Point{X: 20, Y: 9}, m.displayGeometry(get(t, ctrl, "a")).Position)

	release(m, 25, 10)
	require.Equal(t, wm.Idle, m.gesture.Kind())
	require.Equal(t, wm.Point{X: 20, Y: 9}, get(t, ctrl, "a").Position)
}

func TestResizeFromCorner(t *testing.T) {
	ctrl := newTestController()
	m := newTestModel(t, ctrl, Env{}, 100, 30)
	openAt(ctrl, "a", 10, 5, 30, 10)

	press(m, 39, 14)
	require.Equal(t, wm.Resizing, m.gesture.Kind())
	require.Equal(t, wm.BottomRight, m.gesture.Direction())

	move(m, 29, 20)
	release(m, 29, 20)
	w := get(t, ctrl, "a")
	require.Equal(t, wm.Size{Width: 20, Height: 16}, w.Size)
	require.Equal(t, wm.Point{X: 10, Y: 5}, w.Position)

	// Dragging the left edge far right stops at the minimum width with the
	// right edge pinned.
	press(m, 10, 10)
	require.Equal(t, wm.Left, m.gesture.Direction())
	release(m, 60, 10)
	w = get(t, ctrl, "a")
	require.Equal(t, 10, w.Size.Width)
	require.Equal(t, 20, w.Position.X)
}

func TestMobileSuppressesGestures(t *testing.T) {
	ctrl := newTestController()
	m := newTestModel(t, ctrl, Env{}, 40, 20)
	openAt(ctrl, "a", 2, 2, 20, 8)
	openAt(ctrl, "b", 10, 4, 20, 8)

	press(m, 5, 3)
	require.Equal(t, wm.Idle, m.gesture.Kind())
	active, _ := ctrl.Registry().ActiveID()
	require.Equal(t, "a", active, "pointer down still focuses")

	move(m, 15, 9)
	release(m, 15, 9)
	require.Equal(t, wm.Point{X: 2, Y: 2}, get(t, ctrl, "a").Position)
}

func TestClickFocusesTopmost(t *testing.T) {
	ctrl := newTestController()
	m := newTestModel(t, ctrl, Env{}, 100, 30)
	openAt(ctrl, "a", 10, 5, 30, 10)
	openAt(ctrl, "b", 20, 8, 30, 10)

	// Overlap belongs to b.
	press(m, 25, 12)
	active, _ := ctrl.Registry().ActiveID()
	require.Equal(t, "b", active)

	press(m, 12, 9)
	active, _ = ctrl.Registry().ActiveID()
	require.Equal(t, "a", active)
}

func TestTitleBarButtons(t *testing.T) {
	ctrl := newTestController()
	m := newTestModel(t, ctrl, Env{}, 100, 30)
	openAt(ctrl, "a", 10, 5, 30, 10)
	// Buttons of a 30 wide window start at columns 10+29-9, +3 and +6.
	minX, maxX, closeX := 30, 33, 36

	press(m, maxX, 6)
	require.True(t, m.maxim.IsMaximized("a"))
	w := get(t, ctrl, "a")
	require.Equal(t, wm.Point{}, w.Position)
	require.Equal(t, wm.Size{Width: 100, Height: 29}, w.Size)

	// The restored geometry comes back through the maximize button of the
	// now full width window.
	press(m, 100-1-2*buttonWidth, 1)
	require.False(t, m.maxim.IsMaximized("a"))
	require.Equal(t, wm.Geometry{Position: wm.Point{X: 10, Y: 5}, Size: wm.Size{Width: 30, Height: 10}}, get(t, ctrl, "a").Geometry())

	press(m, minX, 6)
	require.True(t, get(t, ctrl, "a").IsMinimized)

	ctrl.Focus("a")
	press(m, closeX, 6)
	_, ok := ctrl.Registry().Get("a")
	require.False(t, ok)
}

func TestDoubleClickTitleTogglesMaximize(t *testing.T) {
	ctrl := newTestController()
	m := newTestModel(t, ctrl, Env{}, 100, 30)
	openAt(ctrl, "a", 10, 5, 30, 10)

	press(m, 15, 6)
	release(m, 15, 6)
	press(m, 15, 6)
	require.True(t, m.maxim.IsMaximized("a"))
	require.Equal(t, wm.Idle, m.gesture.Kind())

	// A maximized window cannot be dragged.
	press(m, 15, 1)
	require.Equal(t, wm.Idle, m.gesture.Kind())

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	require.Equal(t, wm.Size{Width: 120, Height: 39}, get(t, ctrl, "a").Size)
}

func TestTaskbarToggle(t *testing.T) {
	ctrl := newTestController()
	m := newTestModel(t, ctrl, Env{}, 100, 30)
	openAt(ctrl, "a", 10, 5, 30, 10)
	openAt(ctrl, "b", 50, 5, 30, 10)

	slots := m.taskbarSlots()
	require.Len(t, slots, 2)
	require.Equal(t, "a", slots[0].ID)
	require.True(t, slots[1].Active)

	// b is active: clicking it minimizes.
	press(m, slots[1].X, 29)
	require.True(t, get(t, ctrl, "b").IsMinimized)

	// a is now the active window; b comes back on top.
	press(m, slots[1].X, 29)
	require.False(t, get(t, ctrl, "b").IsMinimized)
	active, _ := ctrl.Registry().ActiveID()
	require.Equal(t, "b", active)

	// Clicking a, which is visible but not active, focuses it.
	press(m, slots[0].X, 29)
	active, _ = ctrl.Registry().ActiveID()
	require.Equal(t, "a", active)
	require.False(t, get(t, ctrl, "b").IsMinimized)
}

func taskbarSlot(m *Model, id string) (slot, bool) {
	for _, s := range m.taskbarSlots() {
		if s.ID == id && !s.Overflow {
			return s, true
		}
	}
	return slot{}, false
}

func TestTaskbarOverflowKeepsNewestWindows(t *testing.T) {
	ctrl := newTestController()
	m := newTestModel(t, ctrl, Env{}, 100, 30)
	for i := range 30 {
		openAt(ctrl, fmt.Sprintf("w%02d", i), i, 2, 20, 6)
	}

	slots := m.taskbarSlots()
	require.True(t, slots[0].Overflow)
	require.Less(t, len(slots), 31)
	last := slots[len(slots)-1]
	require.Equal(t, "w29", last.ID)
	require.True(t, last.Active)

	m.minimize("w29", false)
	require.True(t, get(t, ctrl, "w29").IsMinimized)
	s, ok := taskbarSlot(m, "w29")
	require.True(t, ok, "minimized window lost its taskbar slot")
	require.True(t, s.Hidden)
	_, ok = taskbarSlot(m, "w28")
	require.True(t, ok, "active window lost its taskbar slot")

	press(m, s.X, 29)
	require.False(t, get(t, ctrl, "w29").IsMinimized)

	// The marker raises the highest window that has no slot of its own.
	marker := m.taskbarSlots()[0]
	require.True(t, marker.Overflow)
	_, ok = taskbarSlot(m, marker.ID)
	require.False(t, ok)
	press(m, marker.X, 29)
	active, _ := ctrl.Registry().ActiveID()
	require.Equal(t, marker.ID, active)
	_, ok = taskbarSlot(m, marker.ID)
	require.True(t, ok)
}

func TestLauncherDoubleClickOpens(t *testing.T) {
	ctrl := newTestController()
	m := newTestModel(t, ctrl, Env{}, 100, 30)
	slots := m.launcherSlots()
	require.Equal(t, apps.Calculator, slots[0].ID)

	press(m, slots[1].X, launcherRow)
	require.Equal(t, 1, m.launcherSel)
	require.Zero(t, ctrl.Registry().Len(), "single click only selects")

	press(m, slots[1].X, launcherRow)
	ws := ctrl.Registry().All()
	require.Len(t, ws, 1)
	require.Equal(t, slots[1].ID, ws[0].AppID)
}

func TestKeyActions(t *testing.T) {
	ctrl := newTestController()
	m := newTestModel(t, ctrl, Env{}, 100, 30)
	openAt(ctrl, "a", 10, 5, 30, 10)
	openAt(ctrl, "b", 50, 5, 30, 10)
	reg := ctrl.Registry()

	key(m, "tab")
	active, _ := reg.ActiveID()
	require.Equal(t, "a", active)

	key(m, "m")
	require.True(t, get(t, ctrl, "a").IsMinimized)
	active, _ = reg.ActiveID()
	require.Equal(t, "b", active)

	key(m, "m")
	require.Empty(t, reg.ListVisible())

	key(m, "M")
	require.Len(t, reg.ListVisible(), 2)

	key(m, "f")
	active, _ = reg.ActiveID()
	require.True(t, m.maxim.IsMaximized(active))
	key(m, "f")
	require.False(t, m.maxim.IsMaximized(active))

	key(m, "x")
	require.Equal(t, 1, reg.Len())

	key(m, "1")
	require.Equal(t, 2, reg.Len())
	active, _ = reg.ActiveID()
	require.Equal(t, apps.Calculator, get(t, ctrl, active).AppID)

	cmd := key(m, "q")
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	require.True(t, ok)
}

func TestHelpToggle(t *testing.T) {
	ctrl := newTestController()
	m := newTestModel(t, ctrl, Env{}, 100, 30)
	openAt(ctrl, "a", 10, 5, 30, 10)

	key(m, "?")
	require.True(t, m.showHelp)
	require.Contains(t, ansi.Strip(m.View().Content), "Window Management")

	// Any key closes help without running its action.
	key(m, "x")
	require.False(t, m.showHelp)
	require.Equal(t, 1, ctrl.Registry().Len())
}

func TestEscapeCancelsGesture(t *testing.T) {
	ctrl := newTestController()
	m := newTestModel(t, ctrl, Env{}, 100, 30)
	openAt(ctrl, "a", 10, 5, 30, 10)

	press(m, 15, 6)
	move(m, 40, 20)
	key(m, "esc")
	require.Equal(t, wm.Idle, m.gesture.Kind())
	release(m, 40, 20)
	require.Equal(t, wm.Point{X: 10, Y: 5}, get(t, ctrl, "a").Position)
}

func TestChangesFromOtherViews(t *testing.T) {
	ctrl := newTestController()
	m1 := newTestModel(t, ctrl, Env{}, 100, 30)
	m2 := newTestModel(t, ctrl, Env{}, 100, 30)
	openAt(ctrl, "a", 10, 5, 30, 10)

	msg := m2.waitForChange()()
	evs, ok := msg.(registryChangedMsg)
	require.True(t, ok)
	require.Equal(t, wm.ChangeOpened, evs[0].Kind)

	press(m2, 15, 6)
	require.Equal(t, wm.Dragging, m2.gesture.Kind())

	m1.close("a")
	for {
		evs := m2.waitForChange()().(registryChangedMsg)
		m2.Update(evs)
		if slices.ContainsFunc(evs, func(ev wm.ChangeEvent) bool { return ev.Kind == wm.ChangeClosed }) {
			break
		}
	}
	require.Equal(t, wm.Idle, m2.gesture.Kind())
}

func TestChangeBurstKeepsEveryEvent(t *testing.T) {
	ctrl := newTestController()
	m := newTestModel(t, ctrl, Env{}, 100, 30)
	openAt(ctrl, "a", 10, 5, 30, 10)
	press(m, 15, 6)
	require.Equal(t, wm.Dragging, m.gesture.Kind())
	m.waitForChange()()

	// Another view opens and focuses many windows before this one looks.
	for i := range 50 {
		openAt(ctrl, fmt.Sprintf("w%02d", i), i, 2, 20, 6)
	}
	ctrl.Close("a")

	evs := m.waitForChange()().(registryChangedMsg)
	require.Len(t, evs, 51)
	require.Equal(t, wm.ChangeClosed, evs[len(evs)-1].Kind)
	m.Update(evs)
	require.Equal(t, wm.Idle, m.gesture.Kind())
}

func TestCloseStopsWaiting(t *testing.T) {
	ctrl := newTestController()
	m := newTestModel(t, ctrl, Env{}, 100, 30)
	m.Close()
	require.Nil(t, m.waitForChange()())
	m.Close()
}

func TestAudioAppPlaysUntilClosed(t *testing.T) {
	ctrl := newTestController()
	player := apps.NewPlayer(ctrl, apps.Ambient, nil)
	defer player.Close()
	m := newTestModel(t, ctrl, Env{Players: map[string]*apps.Player{apps.Ambient: player}}, 100, 30)

	// Ambient is the fifth launcher entry.
	key(m, "5")
	track, playing, _ := player.Status()
	require.True(t, playing)
	require.Equal(t, apps.AmbientSounds[0], track)

	key(m, "m")
	_, playing, _ = player.Status()
	require.True(t, playing)

	key(m, "M")
	key(m, "x")
	_, playing, _ = player.Status()
	require.False(t, playing)
}

func TestPlaybackKeys(t *testing.T) {
	ctrl := newTestController()
	player := apps.NewPlayer(ctrl, apps.Ambient, nil)
	defer player.Close()
	m := newTestModel(t, ctrl, Env{Players: map[string]*apps.Player{apps.Ambient: player}}, 100, 30)

	key(m, "5")
	key(m, "p")
	_, playing, volume := player.Status()
	require.False(t, playing)
	require.Equal(t, 70, volume)

	key(m, "p")
	key(m, "+")
	_, playing, volume = player.Status()
	require.True(t, playing)
	require.Equal(t, 80, volume)

	key(m, "-")
	key(m, "-")
	_, _, volume = player.Status()
	require.Equal(t, 60, volume)

	// With a window of another app active the keys do nothing.
	openAt(ctrl, "n", 10, 5, 30, 10)
	key(m, "p")
	key(m, "-")
	_, playing, volume = player.Status()
	require.True(t, playing)
	require.Equal(t, 60, volume)
}

func TestRender(t *testing.T) {
	ctrl := newTestController()
	m := newTestModel(t, ctrl, Env{}, 100, 30)
	openAt(ctrl, "scratch", 3, 5, 30, 10)

	view := m.View()
	require.True(t, view.AltScreen)
	require.Equal(t, tea.MouseModeAllMotion, view.MouseMode)

	plain := ansi.Strip(view.Content)
	lines := strings.Split(plain, "\n")
	require.GreaterOrEqual(t, len(lines), 30)
	require.Contains(t, lines[launcherRow], "Calculator")
	require.Contains(t, lines[6], "scratch")
	require.Contains(t, lines[29], "15:04")
	require.Contains(t, lines[29], "CPU")
}

func TestAnimatorStep(t *testing.T) {
	a := newAnimator()
	from := wm.Geometry{Size: wm.Size{Width: 10, Height: 10}}
	to := wm.Geometry{Position: wm.Point{X: 20}, Size: wm.Size{Width: 30, Height: 10}}
	a.add("a", animation{from: from, to: to, start: testNow, duration: 100 * time.Millisecond, hide: true})

	g, ok := a.geometry("a")
	require.True(t, ok)
	require.Equal(t, from, g)
	require.True(t, a.hiding("a"))

	require.True(t, a.step(testNow.Add(50*time.Millisecond)))
	g, _ = a.geometry("a")
	require.Equal(t, wm.Geometry{Position: wm.Point{X: 10}, Size: wm.Size{Width: 20, Height: 10}}, g)

	require.False(t, a.step(testNow.Add(100*time.Millisecond)))
	_, ok = a.geometry("a")
	require.False(t, ok)
}

func TestAnimationsSkipTrackedWindow(t *testing.T) {
	ctrl := newTestController()
	m := newTestModel(t, ctrl, Env{}, 100, 30)
	config.AnimationsEnabled = true
	openAt(ctrl, "a", 10, 5, 30, 10)

	cmd := key(m, "f")
	require.NotNil(t, cmd, "maximize starts the frame loop")
	require.False(t, m.anims.empty())

	openAt(ctrl, "b", 50, 12, 30, 10)
	press(m, 55, 13)
	require.Equal(t, wm.Dragging, m.gesture.Kind())
	require.Nil(t, m.animate("b", wm.Geometry{}, get(t, ctrl, "b").Geometry(), false, false))
}

func TestFilterMouseMotion(t *testing.T) {
	ctrl := newTestController()
	m := newTestModel(t, ctrl, Env{}, 100, 30)
	openAt(ctrl, "a", 10, 5, 30, 10)

	motion := tea.MouseMotionMsg{X: 20, Y: 8}
	require.Nil(t, FilterMouseMotion(m, motion), "hover is dropped")
	require.NotNil(t, FilterMouseMotion(m, tea.MouseClickMsg{X: 20, Y: 8}))

	press(m, 15, 6)
	require.Equal(t, motion, FilterMouseMotion(m, motion), "motion passes during a drag")
}
