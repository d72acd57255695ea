package wm

import (
	"io"
	"math/rand/v2"
	"sort"
	"sync"

	"charm.land/log/v2"
)

// Default spawn placement for windows opened without a position.
var (
	DefaultSpawnOrigin = Point{X: 100, Y: 100}
	DefaultSpawnJitter = 100
)

// CloseHook runs before a window of its app is removed.
type CloseHook func(WindowState)

// OpenRequest describes a window to open.
type OpenRequest struct {
	InstanceID      string
	AppID           string
	Title           string
	MinSize         *Size
	InitialSize     Size
	InitialPosition *Point
}

// ControllerOptions configures a Controller.
type ControllerOptions struct {
	// SpawnOrigin is where windows without a position are placed.
	SpawnOrigin *Point
	// SpawnJitter bounds the random offset added to SpawnOrigin on each axis.
	// Negative disables jitter.
	SpawnJitter int
	// Rand returns a value in [0, n). Nil uses math/rand/v2.
	Rand   func(n int) int
	Logger *log.Logger
}

// Controller owns every write to a Registry.
type Controller struct {
	reg    *Registry
	origin Point
	jitter int
	rand   func(n int) int
	log    *log.Logger

	hooksMu  sync.RWMutex
	hooks    map[string]map[int]CloseHook
	nextHook int

	closingMu sync.Mutex
	closing   map[string]struct{}
}

// NewController returns a controller over reg.
func NewController(reg *Registry, opts ControllerOptions) *Controller {
	c := &Controller{
		reg:     reg,
		origin:  DefaultSpawnOrigin,
		jitter:  DefaultSpawnJitter,
		rand:    opts.Rand,
		log:     opts.Logger,
		hooks:   make(map[string]map[int]CloseHook),
		closing: make(map[string]struct{}),
	}
	if opts.SpawnOrigin != nil {
		c.origin = *opts.SpawnOrigin
	}
	if opts.SpawnJitter != 0 {
		c.jitter = max(opts.SpawnJitter, 0)
	}
	if c.rand == nil {
		c.rand = rand.IntN
	}
	if c.log == nil {
		c.log = log.New(io.Discard)
	}
	return c
}

// Registry returns the registry this controller writes to.
func (c *Controller) Registry() *Registry { return c.reg }

// Open ensures the instance exists, is open, and is on top. Re-opening an
// existing instance only focuses it.
func (c *Controller) Open(req OpenRequest) {
	spawn := c.spawnPosition(req.InitialPosition)
	c.reg.mutate(func(windows map[string]WindowState) (ChangeEvent, bool) {
		z := c.reg.nextZLocked()
		if w, ok := windows[req.InstanceID]; ok {
			w.IsOpen = true
			w.IsMinimized = false
			w.ZIndex = z
			windows[w.ID] = w
			return ChangeEvent{Kind: ChangeOpened, ID: w.ID, AppID: w.AppID}, true
		}

		w := WindowState{
			ID:          req.InstanceID,
			AppID:       req.AppID,
			Title:       req.Title,
			Position:    spawn,
			Size:        req.InitialSize,
			IsOpen:      true,
			IsMinimized: false,
			ZIndex:      z,
		}
		if req.MinSize != nil {
			ms := *req.MinSize
			w.MinSize = &ms
		}
		windows[w.ID] = w
		return ChangeEvent{Kind: ChangeOpened, ID: w.ID, AppID: w.AppID}, true
	})
}

func (c *Controller) spawnPosition(initial *Point) Point {
	if initial != nil {
		return *initial
	}
	p := c.origin
	if c.jitter > 0 {
		p.X += c.rand(c.jitter)
		p.Y += c.rand(c.jitter)
	}
	return p
}

// Focus raises id and restores it if minimized. Focusing the window that is
// already visible with the highest z-index does nothing.
func (c *Controller) Focus(id string) {
	c.reg.mutate(func(windows map[string]WindowState) (ChangeEvent, bool) {
		return c.focusLocked(windows, id)
	})
}

// Minimize hides id to the taskbar, keeping its z-index and geometry.
func (c *Controller) Minimize(id string) {
	c.reg.mutate(func(windows map[string]WindowState) (ChangeEvent, bool) {
		return minimizeLocked(windows, id)
	})
}

// ToggleFromTaskbar minimizes id when it is the active window and focuses it
// otherwise. The active window is decided under the same lock as the change.
func (c *Controller) ToggleFromTaskbar(id string) {
	c.reg.mutate(func(windows map[string]WindowState) (ChangeEvent, bool) {
		if active, ok := c.reg.activeLocked(); ok && active == id {
			return minimizeLocked(windows, id)
		}
		return c.focusLocked(windows, id)
	})
}

func (c *Controller) focusLocked(windows map[string]WindowState, id string) (ChangeEvent, bool) {
	w, ok := windows[id]
	if !ok {
		return ChangeEvent{}, false
	}
	if maxZ, _ := c.reg.maxZLocked(); w.Visible() && w.ZIndex == maxZ {
		return ChangeEvent{}, false
	}
	w.IsOpen = true
	w.IsMinimized = false
	w.ZIndex = c.reg.nextZLocked()
	windows[id] = w
	return ChangeEvent{Kind: ChangeFocused, ID: id, AppID: w.AppID}, true
}

func minimizeLocked(windows map[string]WindowState, id string) (ChangeEvent, bool) {
	w, ok := windows[id]
	if !ok || w.IsMinimized {
		return ChangeEvent{}, false
	}
	w.IsMinimized = true
	windows[id] = w
	return ChangeEvent{Kind: ChangeMinimized, ID: id, AppID: w.AppID}, true
}

// UpdatePositionSize overwrites the committed geometry of id. Stacking and
// visibility are left untouched.
func (c *Controller) UpdatePositionSize(id string, pos Point, size Size) {
	c.reg.mutate(func(windows map[string]WindowState) (ChangeEvent, bool) {
		w, ok := windows[id]
		if !ok {
			return ChangeEvent{}, false
		}
		w.Position = pos
		w.Size = size
		windows[id] = w
		return ChangeEvent{Kind: ChangeGeometry, ID: id, AppID: w.AppID}, true
	})
}

// Close runs the close hooks registered for the window's app, then removes
// the window from the registry.
func (c *Controller) Close(id string) {
	w, ok := c.reg.Get(id)
	if !ok {
		return
	}

	c.closingMu.Lock()
	if _, busy := c.closing[id]; busy {
		c.closingMu.Unlock()
		return
	}
	c.closing[id] = struct{}{}
	c.closingMu.Unlock()
	defer func() {
		c.closingMu.Lock()
		delete(c.closing, id)
		c.closingMu.Unlock()
	}()

	hooks := c.hooksFor(w.AppID)
	if len(hooks) > 0 {
		c.log.Debug("running close hooks", "id", id, "app", w.AppID, "hooks", len(hooks))
	}
	for _, hook := range hooks {
		hook(w)
	}

	c.reg.mutate(func(windows map[string]WindowState) (ChangeEvent, bool) {
		if _, ok := windows[id]; !ok {
			return ChangeEvent{}, false
		}
		delete(windows, id)
		return ChangeEvent{Kind: ChangeClosed, ID: id, AppID: w.AppID}, true
	})
}

// OnClose registers hook for windows of appID. The returned function
// unregisters it.
func (c *Controller) OnClose(appID string, hook CloseHook) (unregister func()) {
	c.hooksMu.Lock()
	id := c.nextHook
	c.nextHook++
	if c.hooks[appID] == nil {
		c.hooks[appID] = make(map[int]CloseHook)
	}
	c.hooks[appID][id] = hook
	c.hooksMu.Unlock()

	return func() {
		c.hooksMu.Lock()
		delete(c.hooks[appID], id)
		c.hooksMu.Unlock()
	}
}

func (c *Controller) hooksFor(appID string) []CloseHook {
	c.hooksMu.RLock()
	defer c.hooksMu.RUnlock()
	registered := c.hooks[appID]
	ids := make([]int, 0, len(registered))
	for id := range registered {
		ids = append(ids, id)
	}
	// Registration order.
	sort.Ints(ids)
	out := make([]CloseHook, 0, len(ids))
	for _, id := range ids {
		out = append(out, registered[id])
	}
	return out
}
