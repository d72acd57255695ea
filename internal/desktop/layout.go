package desktop

import (
	"github.com/Gaurav-Gosain/webtop/internal/wm"
	"github.com/charmbracelet/x/ansi"
)

const (
	// launcherRow is the screen row holding the app icons.
	launcherRow = 0
	// titleRow is the window-relative row of the title bar. Row 0 is the
	// top border, which doubles as the top resize handle.
	titleRow = 1
	// cornerReach is how far along each edge a corner handle extends.
	cornerReach = 2
	buttonWidth = 3
)

type region int

const (
	regionNone region = iota
	regionLauncher
	regionTaskbar
	regionTitle
	regionButton
	regionHandle
	regionBody
)

type button int

const (
	buttonNone button = iota
	buttonMinimize
	buttonMaximize
	buttonClose
)

// hit is the result of hit testing one screen cell.
type hit struct {
	region region
	id     string
	dir    wm.Direction
	button button
	// index of the launcher slot.
	index int
}

type buttonSpan struct {
	button button
	// x is the window-relative column the button starts at.
	x int
}

// titleButtons lays out the title bar buttons of a window of width w. Too
// narrow a window gets none.
func titleButtons(w int) []buttonSpan {
	if w < 3*buttonWidth+4 {
		return nil
	}
	right := w - 1
	return []buttonSpan{
		{buttonMinimize, right - 3*buttonWidth},
		{buttonMaximize, right - 2*buttonWidth},
		{buttonClose, right - buttonWidth},
	}
}

// windowHit classifies p, which must lie inside g. Corners win over the
// edges they touch, edges win over the title bar.
func windowHit(g wm.Geometry, p wm.Point) (region, wm.Direction, button) {
	lx, ly := p.X-g.Position.X, p.Y-g.Position.Y
	w, h := g.Size.Width, g.Size.Height

	onLeft, onRight := lx == 0, lx == w-1
	onTop, onBottom := ly == 0, ly == h-1
	nearLeft, nearRight := lx < cornerReach, lx >= w-cornerReach
	nearTop, nearBottom := ly < cornerReach, ly >= h-cornerReach

	switch {
	case (onTop || onLeft) && nearTop && nearLeft:
		return regionHandle, wm.TopLeft, buttonNone
	case (onTop || onRight) && nearTop && nearRight:
		return regionHandle, wm.TopRight, buttonNone
	case (onBottom || onLeft) && nearBottom && nearLeft:
		return regionHandle, wm.BottomLeft, buttonNone
	case (onBottom || onRight) && nearBottom && nearRight:
		return regionHandle, wm.BottomRight, buttonNone
	case onTop:
		return regionHandle, wm.Top, buttonNone
	case onBottom:
		return regionHandle, wm.Bottom, buttonNone
	case onLeft:
		return regionHandle, wm.Left, buttonNone
	case onRight:
		return regionHandle, wm.Right, buttonNone
	}

	if ly == titleRow {
		for _, b := range titleButtons(w) {
			if lx >= b.x && lx < b.x+buttonWidth {
				return regionButton, 0, b.button
			}
		}
		return regionTitle, 0, buttonNone
	}
	return regionBody, 0, buttonNone
}

// slot is a labelled span of a one-row bar.
type slot struct {
	ID       string
	X        int
	Width    int
	Label    string
	Active   bool
	Hidden   bool
	Overflow bool // stands in for taskbar entries that did not fit
}

func (s slot) contains(x int) bool { return x >= s.X && x < s.X+s.Width }

// packSlots places labels left to right from column 1 with a one-cell gap,
// dropping whatever does not fit in width.
func packSlots(slots []slot, width int) []slot {
	x := 1
	out := slots[:0]
	for _, s := range slots {
		s.Width = ansi.StringWidth(s.Label)
		if x+s.Width > width {
			break
		}
		s.X = x
		out = append(out, s)
		x += s.Width + 1
	}
	return out
}
