package wm

// TaskbarEntry is a window projected into the taskbar.
type TaskbarEntry struct {
	WindowState
	// IsActive is true for the topmost visible window only.
	IsActive bool
}

// Project derives the taskbar from a set of windows: every open or
// minimized window in ascending z order, with at most one entry active.
func Project(windows []WindowState) []TaskbarEntry {
	ws := make([]WindowState, 0, len(windows))
	for _, w := range windows {
		if w.IsOpen || w.IsMinimized {
			ws = append(ws, w)
		}
	}
	sortByZ(ws)

	active := -1
	for i, w := range ws {
		if w.Visible() {
			active = i // ascending order, so the last visible one wins
		}
	}

	entries := make([]TaskbarEntry, len(ws))
	for i, w := range ws {
		entries[i] = TaskbarEntry{WindowState: w, IsActive: i == active}
	}
	return entries
}
