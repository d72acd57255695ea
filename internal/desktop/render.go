package desktop

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/Gaurav-Gosain/webtop/internal/config"
	"github.com/Gaurav-Gosain/webtop/internal/theme"
	"github.com/Gaurav-Gosain/webtop/internal/wm"
	"github.com/charmbracelet/x/ansi"
)

// Layer z-order. Windows take the range between launcher and taskbar.
const (
	zBackground = iota
	zLauncher
	zWindows
)

func borderFor(name string) lipgloss.Border {
	switch name {
	case "normal":
		return lipgloss.NormalBorder()
	case "thick":
		return lipgloss.ThickBorder()
	case "double":
		return lipgloss.DoubleBorder()
	case "ascii":
		return lipgloss.ASCIIBorder()
	default:
		return lipgloss.RoundedBorder()
	}
}

// View renders the desktop.
func (m *Model) View() tea.View {
	var view tea.View
	view.SetContent(m.render())
	view.AltScreen = true
	view.MouseMode = tea.MouseModeAllMotion
	view.WindowTitle = "webtop"
	return view
}

func (m *Model) render() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	canvas := lipgloss.NewCanvas(m.width, m.height)
	layers := []*lipgloss.Layer{
		lipgloss.NewLayer(m.renderBackground()).Z(zBackground).ID("desktop"),
		lipgloss.NewLayer(m.renderLauncher()).Y(launcherRow).Z(zLauncher).ID("launcher"),
	}

	activeID, _ := m.reg.ActiveID()
	z := zWindows
	for _, w := range m.drawList() {
		g := m.displayGeometry(w)
		content, x, y := clipToViewport(m.renderWindow(w, g, w.ID == activeID), g.Position.X, g.Position.Y, m.width, m.height-1)
		if content == "" {
			continue
		}
		layers = append(layers, lipgloss.NewLayer(content).X(x).Y(y).Z(z).ID(w.ID))
		z++
	}

	layers = append(layers, lipgloss.NewLayer(m.renderTaskbar()).Y(m.height-1).Z(z).ID("taskbar"))
	if m.showHelp {
		help := m.renderHelp()
		x := max((m.width-lipgloss.Width(help))/2, 0)
		y := max((m.height-lipgloss.Height(help))/2, 0)
		if content, cx, cy := clipToViewport(help, x, y, m.width, m.height); content != "" {
			layers = append(layers, lipgloss.NewLayer(content).X(cx).Y(cy).Z(z+1).ID("help"))
		}
	}

	canvas.Compose(lipgloss.NewCompositor(layers...))
	return canvas.Render()
}

func (m *Model) renderBackground() string {
	row := lipgloss.NewStyle().Background(theme.DesktopBg()).Render(strings.Repeat(" ", m.width))
	rows := make([]string, m.height)
	for i := range rows {
		rows[i] = row
	}
	return strings.Join(rows, "\n")
}

// renderWindow draws the frame of w at geometry g: top border, title bar,
// body and bottom border.
func (m *Model) renderWindow(w wm.WindowState, g wm.Geometry, focused bool) string {
	width, height := g.Size.Width, g.Size.Height
	if width <= 0 || height <= 0 {
		return ""
	}

	edgeColor := theme.BorderUnfocused()
	switch {
	case m.gesture.WindowID() == w.ID:
		edgeColor = theme.BorderGesture()
	case focused:
		edgeColor = theme.BorderFocused()
	}
	if width < 4 || height < 3 {
		return renderBlock(width, height, edgeColor)
	}

	b := borderFor(m.env.Config.Appearance.BorderStyle)
	edge := lipgloss.NewStyle().Foreground(edgeColor).Background(theme.WindowBg())
	fill := lipgloss.NewStyle().Foreground(theme.WindowFg()).Background(theme.WindowBg())
	inner := width - 2

	lines := make([]string, 0, height)
	lines = append(lines, edge.Render(b.TopLeft+strings.Repeat(b.Top, inner)+b.TopRight))
	lines = append(lines, edge.Render(b.Left)+m.renderTitleBar(w, width, edgeColor, focused)+edge.Render(b.Right))
	for _, l := range m.windowBody(w, g, inner, height-3) {
		lines = append(lines, edge.Render(b.Left)+fill.Render(pad(l, inner))+edge.Render(b.Right))
	}
	lines = append(lines, edge.Render(b.BottomLeft+strings.Repeat(b.Bottom, inner)+b.BottomRight))
	return strings.Join(lines, "\n")
}

// renderBlock stands in for windows too small to frame, such as one
// shrinking into the taskbar.
func renderBlock(width, height int, c color.Color) string {
	row := lipgloss.NewStyle().Background(c).Render(strings.Repeat(" ", width))
	rows := make([]string, height)
	for i := range rows {
		rows[i] = row
	}
	return strings.Join(rows, "\n")
}

func (m *Model) renderTitleBar(w wm.WindowState, width int, edgeColor color.Color, focused bool) string {
	buttons := titleButtons(width)
	titleWidth := width - 2 - len(buttons)*buttonWidth

	titleStyle := lipgloss.NewStyle().Foreground(theme.WindowFg()).Background(theme.WindowBg())
	if focused {
		titleStyle = titleStyle.Foreground(edgeColor).Bold(true)
	}
	title := " " + appIcon(m.env.Catalog, w.AppID) + " " + w.Title

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(pad(ansi.Truncate(title, titleWidth, "…"), titleWidth)))
	for _, b := range buttons {
		glyph, c := "─", theme.ButtonMinimize()
		switch b.button {
		case buttonMaximize:
			glyph, c = "□", theme.ButtonMaximize()
			if m.maxim.IsMaximized(w.ID) {
				glyph = "❐"
			}
		case buttonClose:
			glyph, c = "×", theme.ButtonClose()
		}
		sb.WriteString(lipgloss.NewStyle().Foreground(c).Background(theme.WindowBg()).Render(" " + glyph + " "))
	}
	return sb.String()
}

// windowBody returns rows lines of body text for w.
func (m *Model) windowBody(w wm.WindowState, g wm.Geometry, inner, rows int) []string {
	var text []string
	if app, ok := m.env.Catalog.Get(w.AppID); ok {
		text = append(text, app.Blurb)
	}
	if p, ok := m.env.Players[w.AppID]; ok {
		text = append(text, "", p.String())
	}
	if m.gesture.WindowID() == w.ID {
		text = append(text, "", fmt.Sprintf("%s %s", m.gesture.Kind(), g.Size))
	}

	lines := make([]string, max(rows, 0))
	for i := range lines {
		if i < len(text) && text[i] != "" {
			lines[i] = " " + ansi.Truncate(text[i], max(inner-1, 0), "…")
		}
	}
	return lines
}

func (m *Model) renderHelp() string {
	keyStyle := lipgloss.NewStyle().Foreground(theme.HelpKeyBadge()).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.HelpGray())
	sectionStyle := lipgloss.NewStyle().Foreground(theme.HelpTitle()).Bold(true)

	var blocks []string
	for _, section := range config.GetKeybindings(m.env.Keybinds) {
		keyWidth := 0
		for _, kb := range section.Bindings {
			keyWidth = max(keyWidth, ansi.StringWidth(kb.Key))
		}
		lines := []string{sectionStyle.Render(section.Title)}
		for _, kb := range section.Bindings {
			lines = append(lines, keyStyle.Render(pad(kb.Key, keyWidth))+"  "+descStyle.Render(kb.Description))
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, spaced(blocks)...)
	if lipgloss.Width(body)+4 > m.width {
		body = lipgloss.JoinVertical(lipgloss.Left, blocks...)
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.HelpBorder()).
		Padding(0, 1).
		Render(body)
}

func spaced(blocks []string) []string {
	out := make([]string, 0, 2*len(blocks))
	for i, b := range blocks {
		if i > 0 {
			out = append(out, "   ")
		}
		out = append(out, b)
	}
	return out
}

// pad truncates or right-pads s to exactly width cells.
func pad(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = ansi.Truncate(s, width, "")
	return s + strings.Repeat(" ", width-ansi.StringWidth(s))
}

// clipToViewport cuts content placed at (x, y) down to the part inside a
// vw x vh viewport and returns it with its new origin. Fully hidden content
// comes back empty.
func clipToViewport(content string, x, y, vw, vh int) (string, int, int) {
	lines := strings.Split(content, "\n")
	width := 0
	if len(lines) > 0 {
		width = ansi.StringWidth(lines[0])
	}
	if content == "" || x+width <= 0 || x >= vw || y+len(lines) <= 0 || y >= vh {
		return "", max(x, 0), max(y, 0)
	}

	if y < 0 {
		lines = lines[-y:]
		y = 0
	}
	if y+len(lines) > vh {
		lines = lines[:vh-y]
	}

	left, right := max(-x, 0), min(width, vw-x)
	if left > 0 || right < width {
		for i, l := range lines {
			lines[i] = ansi.Cut(l, left, right)
		}
	}
	return strings.Join(lines, "\n"), max(x, 0), y
}
