package desktop

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/Gaurav-Gosain/webtop/internal/apps"
	"github.com/Gaurav-Gosain/webtop/internal/theme"
)

// layoutLauncher places the catalog's apps along the launcher row.
func layoutLauncher(list []apps.App, width int, compact bool) []slot {
	slots := make([]slot, 0, len(list))
	for _, app := range list {
		label := " " + app.Icon + " "
		if !compact {
			label += app.Name + " "
		}
		slots = append(slots, slot{ID: app.ID, Label: label})
	}
	return packSlots(slots, width)
}

func (m *Model) launcherSlots() []slot {
	return layoutLauncher(m.env.Catalog.List(), m.width, m.mobile())
}

func (m *Model) renderLauncher() string {
	icon := lipgloss.NewStyle().Foreground(theme.LauncherIcon())
	label := lipgloss.NewStyle().Foreground(theme.LauncherLabel())
	selected := lipgloss.NewStyle().Foreground(theme.WindowBg()).Background(theme.LauncherSelected()).Bold(true)

	var b strings.Builder
	x := 0
	for i, s := range m.launcherSlots() {
		b.WriteString(strings.Repeat(" ", s.X-x))
		if i == m.launcherSel {
			b.WriteString(selected.Render(s.Label))
		} else if parts := strings.SplitN(s.Label, " ", 3); len(parts) == 3 {
			b.WriteString(" " + icon.Render(parts[1]) + " " + label.Render(parts[2]))
		} else {
			b.WriteString(icon.Render(s.Label))
		}
		x = s.X + s.Width
	}
	return b.String()
}
