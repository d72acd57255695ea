package wm

import "fmt"

// DefaultZBaseline is the z-index given to the first window of an empty registry.
const DefaultZBaseline = 1000

// Point is a position in root-viewport coordinates.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point { return Point{X: p.X + d.X, Y: p.Y + d.Y} }

// Sub returns the offset from q to p.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Size is a width/height pair.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s Size) String() string { return fmt.Sprintf("%dx%d", s.Width, s.Height) }

// Geometry is a window's position and size.
type Geometry struct {
	Position Point
	Size     Size
}

// Contains reports whether p lies within the geometry.
func (g Geometry) Contains(p Point) bool {
	return p.X >= g.Position.X && p.X < g.Position.X+g.Size.Width &&
		p.Y >= g.Position.Y && p.Y < g.Position.Y+g.Size.Height
}

// WindowState is one open or minimized window instance.
type WindowState struct {
	ID          string `json:"id"`
	AppID       string `json:"appId"`
	Title       string `json:"title"`
	Position    Point  `json:"position"`
	Size        Size   `json:"size"`
	MinSize     *Size  `json:"minSize,omitempty"`
	IsOpen      bool   `json:"isOpen"`
	IsMinimized bool   `json:"isMinimized"`
	ZIndex      int    `json:"zIndex"`
}

// Visible reports whether the window is part of the drawn stack.
func (w WindowState) Visible() bool { return w.IsOpen && !w.IsMinimized }

// Geometry returns the window's committed position and size.
func (w WindowState) Geometry() Geometry {
	return Geometry{Position: w.Position, Size: w.Size}
}

func (w WindowState) clone() WindowState {
	if w.MinSize != nil {
		ms := *w.MinSize
		w.MinSize = &ms
	}
	return w
}

// ChangeKind identifies which operation produced a ChangeEvent.
type ChangeKind int

const (
	// ChangeOpened is emitted when a window is created or re-opened.
	ChangeOpened ChangeKind = iota
	// ChangeFocused is emitted when a window is raised.
	ChangeFocused
	// ChangeMinimized is emitted when a window is hidden to the taskbar.
	ChangeMinimized
	// ChangeClosed is emitted after a window is removed.
	ChangeClosed
	// ChangeGeometry is emitted when position or size is committed.
	ChangeGeometry
	// ChangeReloaded is emitted after the registry is rehydrated from storage.
	ChangeReloaded
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeOpened:
		return "opened"
	case ChangeFocused:
		return "focused"
	case ChangeMinimized:
		return "minimized"
	case ChangeClosed:
		return "closed"
	case ChangeGeometry:
		return "geometry"
	case ChangeReloaded:
		return "reloaded"
	default:
		return "unknown"
	}
}

// ChangeEvent describes one committed registry mutation.
type ChangeEvent struct {
	Kind  ChangeKind
	ID    string
	AppID string
}
