package wm

// GestureKind is the state of an Interaction.
type GestureKind int

const (
	// Idle means no gesture is in progress.
	Idle GestureKind = iota
	// Dragging moves a window with the pointer.
	Dragging
	// Resizing changes a window's size from one of its handles.
	Resizing
)

func (k GestureKind) String() string {
	switch k {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Resizing:
		return "resizing"
	default:
		return "unknown"
	}
}

// Direction identifies the resize handle being dragged.
type Direction int

const (
	Top Direction = iota
	Bottom
	Left
	Right
	TopLeft
	TopRight
	BottomLeft
	BottomRight
)

func (d Direction) String() string {
	switch d {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	case Right:
		return "right"
	case TopLeft:
		return "top-left"
	case TopRight:
		return "top-right"
	case BottomLeft:
		return "bottom-left"
	case BottomRight:
		return "bottom-right"
	default:
		return "unknown"
	}
}

func (d Direction) movesLeft() bool   { return d == Left || d == TopLeft || d == BottomLeft }
func (d Direction) movesRight() bool  { return d == Right || d == TopRight || d == BottomRight }
func (d Direction) movesTop() bool    { return d == Top || d == TopLeft || d == TopRight }
func (d Direction) movesBottom() bool { return d == Bottom || d == BottomLeft || d == BottomRight }

// DefaultMinSize applies to windows that declare no minimum size.
var DefaultMinSize = Size{Width: 1, Height: 1}

// GestureContext carries the layout conditions that suppress gestures.
type GestureContext struct {
	// Mobile is true for touch or narrow layouts.
	Mobile bool
	// Maximized is true when the target window is maximized.
	Maximized bool
}

func (g GestureContext) suppressed() bool { return g.Mobile || g.Maximized }

// Interaction tracks one drag or resize gesture for a single view. The live
// geometry stays private until End commits it. An Interaction is not safe
// for concurrent use; each view owns its own.
type Interaction struct {
	ctrl *Controller

	kind         GestureKind
	dir          Direction
	id           string
	startPointer Point
	start        Geometry
	live         Geometry
	minSize      Size
}

// NewInteraction returns an idle Interaction committing through ctrl.
func NewInteraction(ctrl *Controller) *Interaction {
	return &Interaction{ctrl: ctrl}
}

// BeginDrag starts moving id from the pointer position. It focuses the
// window. It reports false, leaving the session idle, when the gesture is
// suppressed or id is unknown.
func (s *Interaction) BeginDrag(id string, pointer Point, gc GestureContext) bool {
	return s.begin(Dragging, Top, id, pointer, gc)
}

// BeginResize starts resizing id from the handle dir.
func (s *Interaction) BeginResize(id string, dir Direction, pointer Point, gc GestureContext) bool {
	return s.begin(Resizing, dir, id, pointer, gc)
}

func (s *Interaction) begin(kind GestureKind, dir Direction, id string, pointer Point, gc GestureContext) bool {
	if gc.suppressed() {
		return false
	}
	if _, ok := s.ctrl.Registry().Get(id); !ok {
		return false
	}
	if s.kind != Idle {
		s.End()
	}

	s.ctrl.Focus(id)
	w, ok := s.ctrl.Registry().Get(id)
	if !ok {
		return false
	}

	s.kind = kind
	s.dir = dir
	s.id = id
	s.startPointer = pointer
	s.start = w.Geometry()
	s.live = s.start
	s.minSize = DefaultMinSize
	if w.MinSize != nil {
		s.minSize = *w.MinSize
	}
	return true
}

// Move recomputes the live geometry for the pointer position.
func (s *Interaction) Move(pointer Point) {
	switch s.kind {
	case Dragging:
		s.live.Position = s.start.Position.Add(pointer.Sub(s.startPointer))
	case Resizing:
		s.live = resize(s.start, s.dir, pointer.Sub(s.startPointer), s.minSize)
	}
}

// resize applies a pointer delta to start for the given handle. Edges that
// move are clamped at min and the opposite edge stays fixed.
func resize(start Geometry, dir Direction, delta Point, minSize Size) Geometry {
	g := start
	switch {
	case dir.movesLeft():
		g.Size.Width = max(start.Size.Width-delta.X, minSize.Width)
		g.Position.X = start.Position.X + start.Size.Width - g.Size.Width
	case dir.movesRight():
		g.Size.Width = max(start.Size.Width+delta.X, minSize.Width)
	}
	switch {
	case dir.movesTop():
		g.Size.Height = max(start.Size.Height-delta.Y, minSize.Height)
		g.Position.Y = start.Position.Y + start.Size.Height - g.Size.Height
	case dir.movesBottom():
		g.Size.Height = max(start.Size.Height+delta.Y, minSize.Height)
	}
	return g
}

// End commits the live geometry and returns the session to Idle. It
// reports the committed geometry, or false if no gesture was active.
func (s *Interaction) End() (Geometry, bool) {
	if s.kind == Idle {
		return Geometry{}, false
	}
	id, g := s.id, s.live
	s.reset()
	s.ctrl.UpdatePositionSize(id, g.Position, g.Size)
	return g, true
}

// Cancel abandons the gesture without committing. The window keeps the
// geometry it had when the gesture began.
func (s *Interaction) Cancel() bool {
	if s.kind == Idle {
		return false
	}
	s.reset()
	return true
}

func (s *Interaction) reset() {
	*s = Interaction{ctrl: s.ctrl}
}

// Kind returns the current gesture state.
func (s *Interaction) Kind() GestureKind { return s.kind }

// Direction returns the handle of an active resize.
func (s *Interaction) Direction() Direction { return s.dir }

// WindowID returns the id of the tracked window, or "" when idle.
func (s *Interaction) WindowID() string { return s.id }

// Live returns the uncommitted geometry when id is the tracked window.
func (s *Interaction) Live(id string) (Geometry, bool) {
	if s.kind == Idle || s.id != id {
		return Geometry{}, false
	}
	return s.live, true
}

// Animate reports whether transitions should apply when drawing id. They
// are suppressed for the window being manipulated.
func (s *Interaction) Animate(id string) bool {
	_, tracked := s.Live(id)
	return !tracked
}
