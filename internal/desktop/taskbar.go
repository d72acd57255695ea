package desktop

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/Gaurav-Gosain/webtop/internal/apps"
	"github.com/Gaurav-Gosain/webtop/internal/theme"
	"github.com/Gaurav-Gosain/webtop/internal/wm"
	"github.com/charmbracelet/x/ansi"
)

const maxTaskbarTitle = 14

// layoutTaskbar places one slot per taskbar entry, in taskbar order, within
// width columns. Compact layouts show icons only, and a full layout that does
// not fit falls back to icons. When even icons overflow, the active entry and
// the most recently raised ones keep their slots and a leading marker stands
// for the rest.
func layoutTaskbar(entries []wm.TaskbarEntry, catalog *apps.Catalog, width int, compact bool) []slot {
	if !compact {
		if slots := taskbarLabels(entries, catalog, false); slotsWidth(slots) <= width {
			return packSlots(slots, width)
		}
	}
	slots := taskbarLabels(entries, catalog, true)
	if slotsWidth(slots) <= width {
		return packSlots(slots, width)
	}
	return packSlots(overflowTaskbar(slots, width), width)
}

func taskbarLabels(entries []wm.TaskbarEntry, catalog *apps.Catalog, compact bool) []slot {
	slots := make([]slot, 0, len(entries))
	for _, e := range entries {
		label := " " + appIcon(catalog, e.AppID) + " "
		if !compact {
			label += ansi.Truncate(e.Title, maxTaskbarTitle, "…") + " "
		}
		slots = append(slots, slot{
			ID:     e.ID,
			Width:  ansi.StringWidth(label),
			Label:  label,
			Active: e.IsActive,
			Hidden: e.IsMinimized,
		})
	}
	return slots
}

// slotsWidth is the number of columns packSlots needs for slots.
func slotsWidth(slots []slot) int {
	n := 0
	for _, s := range slots {
		n += s.Width + 1
	}
	return n
}

func overflowLabel(n int) string { return fmt.Sprintf(" +%d ", n) }

// overflowTaskbar keeps the active slot, then slots from the top of the
// stack down, while they fit next to the marker. The marker targets the
// highest dropped entry, so clicking it raises that window into the bar.
func overflowTaskbar(slots []slot, width int) []slot {
	order := make([]int, 0, len(slots))
	for i, s := range slots {
		if s.Active {
			order = append(order, i)
		}
	}
	for i := len(slots) - 1; i >= 0; i-- {
		if !slots[i].Active {
			order = append(order, i)
		}
	}

	keep := make([]bool, len(slots))
	used := ansi.StringWidth(overflowLabel(len(slots))) + 1
	for _, i := range order {
		if used+slots[i].Width+1 > width {
			break
		}
		keep[i] = true
		used += slots[i].Width + 1
	}

	dropped, target := 0, ""
	for i, s := range slots {
		if !keep[i] {
			dropped++
			target = s.ID
		}
	}
	out := []slot{{ID: target, Label: overflowLabel(dropped), Overflow: true}}
	for i, s := range slots {
		if keep[i] {
			out = append(out, s)
		}
	}
	return out
}

func appIcon(catalog *apps.Catalog, appID string) string {
	if app, ok := catalog.Get(appID); ok {
		return app.Icon
	}
	return "◇"
}

// taskbarSlots is the layout shared by rendering and hit testing.
func (m *Model) taskbarSlots() []slot {
	avail := m.width - ansi.StringWidth(m.statusText()) - 2
	return layoutTaskbar(m.reg.ListTaskbar(), m.env.Catalog, avail, m.mobile())
}

func (m *Model) taskbarSlotFor(id string) (wm.Geometry, bool) {
	for _, s := range m.taskbarSlots() {
		if s.ID == id && !s.Overflow {
			return wm.Geometry{
				Position: wm.Point{X: s.X, Y: m.height - 1},
				Size:     wm.Size{Width: s.Width, Height: 1},
			}, true
		}
	}
	return wm.Geometry{}, false
}

// statusText is the right side of the taskbar. Its width does not change
// from one tick to the next.
func (m *Model) statusText() string {
	var parts []string
	if !m.env.Config.Appearance.HideSysinfo && !m.mobile() {
		parts = append(parts, cpuGraph(m.cpuHistory), fmt.Sprintf("RAM %3.0f%%", m.memPercent))
	}
	if !m.env.Config.Appearance.HideClock {
		parts = append(parts, m.now().Format("15:04"))
	}
	return strings.Join(parts, "  ")
}

func (m *Model) renderTaskbar() string {
	base := lipgloss.NewStyle().Background(theme.TaskbarBg()).Foreground(theme.TaskbarFg())
	active := base.Foreground(theme.TaskbarActive()).Bold(true)
	hidden := base.Foreground(theme.TaskbarMinimized()).Italic(true)
	sep := base.Foreground(theme.TaskbarSeparator())

	var b strings.Builder
	x := 0
	for i, s := range m.taskbarSlots() {
		gap := s.X - x
		if i > 0 && gap > 0 {
			b.WriteString(sep.Render("│"))
			gap--
		}
		b.WriteString(base.Render(strings.Repeat(" ", max(gap, 0))))
		switch {
		case s.Overflow:
			b.WriteString(sep.Render(s.Label))
		case s.Active:
			b.WriteString(active.Render(s.Label))
		case s.Hidden:
			b.WriteString(hidden.Render(s.Label))
		default:
			b.WriteString(base.Render(s.Label))
		}
		x = s.X + s.Width
	}

	status := m.statusText()
	statusX := m.width - ansi.StringWidth(status) - 1
	if status != "" && statusX > x {
		b.WriteString(base.Render(strings.Repeat(" ", statusX-x)))
		b.WriteString(base.Foreground(theme.TaskbarClock()).Render(status))
		x = statusX + ansi.StringWidth(status)
	}
	if x < m.width {
		b.WriteString(base.Render(strings.Repeat(" ", m.width-x)))
	}
	return b.String()
}
