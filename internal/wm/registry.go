package wm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"charm.land/log/v2"
	"github.com/Gaurav-Gosain/webtop/internal/store"
)

// SnapshotKey is the store key holding the serialized registry.
const SnapshotKey = "windows"

const persistTimeout = 2 * time.Second

// Listener receives registry change events. Listeners run synchronously
// after the mutation is committed and must not block.
type Listener func(ChangeEvent)

// RegistryOptions configures a Registry.
type RegistryOptions struct {
	// Store persists snapshots. Nil keeps the registry in memory only.
	Store store.Store
	// Logger receives transition and persistence logs. Nil discards.
	Logger *log.Logger
	// Baseline is the z-index for the first window. Zero means DefaultZBaseline.
	Baseline int
}

// Registry maps window ids to their state.
type Registry struct {
	mu       sync.RWMutex
	windows  map[string]WindowState
	baseline int
	store    store.Store
	log      *log.Logger

	listenersMu sync.RWMutex
	listeners   map[int]Listener
	nextID      int
}

// NewRegistry creates a registry and rehydrates it from opts.Store. Load
// failures are logged and leave the registry empty.
func NewRegistry(ctx context.Context, opts RegistryOptions) *Registry {
	r := &Registry{
		windows:   make(map[string]WindowState),
		baseline:  opts.Baseline,
		store:     opts.Store,
		log:       opts.Logger,
		listeners: make(map[int]Listener),
	}
	if r.baseline == 0 {
		r.baseline = DefaultZBaseline
	}
	if r.log == nil {
		r.log = log.New(io.Discard)
	}
	if err := r.Reload(ctx); err != nil {
		r.log.Error("failed to load window snapshot, starting empty", "err", err)
	}
	return r
}

// Reload replaces the in-memory state with the stored snapshot. A missing
// snapshot yields an empty registry.
func (r *Registry) Reload(ctx context.Context) error {
	if r.store == nil {
		return nil
	}
	data, err := r.store.Get(ctx, SnapshotKey)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	windows, err := DecodeSnapshot(data)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.windows = windows
	r.mu.Unlock()

	r.log.Debug("registry rehydrated", "windows", len(windows))
	r.notify(ChangeEvent{Kind: ChangeReloaded})
	return nil
}

// Get returns the state for id.
func (r *Registry) Get(id string) (WindowState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.windows[id]
	if !ok {
		return WindowState{}, false
	}
	return w.clone(), true
}

// Len returns the number of tracked windows.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.windows)
}

// All returns every tracked window ordered by ascending z-index.
func (r *Registry) All() []WindowState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedLocked(func(WindowState) bool { return true })
}

// ListVisible returns open, non-minimized windows by ascending z-index.
func (r *Registry) ListVisible() []WindowState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedLocked(WindowState.Visible)
}

// ListTaskbar returns the taskbar projection of the registry.
func (r *Registry) ListTaskbar() []TaskbarEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Project(r.sortedLocked(func(WindowState) bool { return true }))
}

// ActiveID returns the id of the topmost visible window.
func (r *Registry) ActiveID() (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.activeLocked()
}

// NextZIndex returns one more than the current maximum z-index, or the
// baseline when the registry is empty.
func (r *Registry) NextZIndex() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.nextZLocked()
}

// Subscribe registers fn for change events and returns a function that
// removes it.
func (r *Registry) Subscribe(fn Listener) (unsubscribe func()) {
	r.listenersMu.Lock()
	id := r.nextID
	r.nextID++
	r.listeners[id] = fn
	r.listenersMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.listenersMu.Lock()
			delete(r.listeners, id)
			r.listenersMu.Unlock()
		})
	}
}

func (r *Registry) notify(ev ChangeEvent) {
	r.listenersMu.RLock()
	ids := make([]int, 0, len(r.listeners))
	for id := range r.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]Listener, 0, len(ids))
	for _, id := range ids {
		fns = append(fns, r.listeners[id])
	}
	r.listenersMu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// mutate runs fn against the window map under the write lock. When fn
// reports a change the snapshot is persisted and listeners are notified.
func (r *Registry) mutate(fn func(windows map[string]WindowState) (ChangeEvent, bool)) bool {
	r.mu.Lock()
	ev, changed := fn(r.windows)
	if changed {
		r.persistLocked()
	}
	r.mu.Unlock()

	if changed {
		r.log.Debug("window "+ev.Kind.String(), "id", ev.ID, "app", ev.AppID)
		r.notify(ev)
	}
	return changed
}

func (r *Registry) persistLocked() {
	if r.store == nil {
		return
	}
	data, err := EncodeSnapshot(r.windows)
	if err != nil {
		r.log.Error("failed to encode window snapshot", "err", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := r.store.Put(ctx, SnapshotKey, data); err != nil {
		r.log.Error("failed to persist window snapshot", "err", err)
	}
}

func (r *Registry) nextZLocked() int {
	maxZ, ok := r.maxZLocked()
	if !ok {
		return r.baseline
	}
	return maxZ + 1
}

func (r *Registry) maxZLocked() (int, bool) {
	maxZ, found := 0, false
	for _, w := range r.windows {
		if !found || w.ZIndex > maxZ {
			maxZ, found = w.ZIndex, true
		}
	}
	return maxZ, found
}

func (r *Registry) activeLocked() (string, bool) {
	var top WindowState
	found := false
	for _, w := range r.windows {
		if !w.Visible() {
			continue
		}
		if !found || w.ZIndex > top.ZIndex || (w.ZIndex == top.ZIndex && w.ID > top.ID) {
			top, found = w, true
		}
	}
	return top.ID, found
}

func (r *Registry) sortedLocked(keep func(WindowState) bool) []WindowState {
	out := make([]WindowState, 0, len(r.windows))
	for _, w := range r.windows {
		if keep(w) {
			out = append(out, w.clone())
		}
	}
	sortByZ(out)
	return out
}

func sortByZ(ws []WindowState) {
	sort.Slice(ws, func(i, j int) bool {
		if ws[i].ZIndex != ws[j].ZIndex {
			return ws[i].ZIndex < ws[j].ZIndex
		}
		return ws[i].ID < ws[j].ID
	})
}

// persistedWindow mirrors WindowState with optional fields so older
// snapshots decode with defaults.
type persistedWindow struct {
	ID          string `json:"id"`
	AppID       string `json:"appId"`
	Title       string `json:"title"`
	Position    Point  `json:"position"`
	Size        Size   `json:"size"`
	MinSize     *Size  `json:"minSize,omitempty"`
	IsOpen      *bool  `json:"isOpen"`
	IsMinimized *bool  `json:"isMinimized"`
	ZIndex      int    `json:"zIndex"`
}

// EncodeSnapshot serializes the window map.
func EncodeSnapshot(windows map[string]WindowState) ([]byte, error) {
	data, err := json.Marshal(windows)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a serialized window map. Entries without
// isMinimized default to false and entries without isOpen default to true.
// Entries that are neither open nor minimized are dropped.
func DecodeSnapshot(data []byte) (map[string]WindowState, error) {
	var raw map[string]persistedWindow
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	windows := make(map[string]WindowState, len(raw))
	for key, p := range raw {
		w := WindowState{
			ID:          p.ID,
			AppID:       p.AppID,
			Title:       p.Title,
			Position:    p.Position,
			Size:        p.Size,
			MinSize:     p.MinSize,
			IsOpen:      p.IsOpen == nil || *p.IsOpen,
			IsMinimized: p.IsMinimized != nil && *p.IsMinimized,
			ZIndex:      p.ZIndex,
		}
		if w.ID == "" {
			w.ID = key
		}
		if !w.IsOpen && !w.IsMinimized {
			continue
		}
		windows[w.ID] = w
	}
	return windows, nil
}
