package desktop

import (
	"math"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/Gaurav-Gosain/webtop/internal/config"
	"github.com/Gaurav-Gosain/webtop/internal/wm"
)

type animationFrameMsg time.Time

func animationFrame() tea.Cmd {
	return tea.Tick(time.Second/config.NormalFPS, func(t time.Time) tea.Msg {
		return animationFrameMsg(t)
	})
}

// animation tweens the drawn geometry of a window. The registry already
// holds the final geometry; only the picture lags behind.
type animation struct {
	from, to wm.Geometry
	start    time.Time
	duration time.Duration
	// hide keeps a minimized window on screen until the animation ends.
	hide     bool
	progress float64
}

type animator struct {
	anims map[string]*animation
}

func newAnimator() *animator {
	return &animator{anims: make(map[string]*animation)}
}

// add starts an animation for id, replacing any running one.
func (a *animator) add(id string, an animation) {
	a.anims[id] = &an
}

func (a *animator) remove(id string) {
	delete(a.anims, id)
}

func (a *animator) empty() bool {
	return len(a.anims) == 0
}

// hiding reports whether id is a minimized window still animating away.
func (a *animator) hiding(id string) bool {
	an, ok := a.anims[id]
	return ok && an.hide
}

// geometry returns the drawn geometry of id while it animates.
func (a *animator) geometry(id string) (wm.Geometry, bool) {
	an, ok := a.anims[id]
	if !ok {
		return wm.Geometry{}, false
	}
	p := an.progress
	return wm.Geometry{
		Position: wm.Point{
			X: interpolate(an.from.Position.X, an.to.Position.X, p),
			Y: interpolate(an.from.Position.Y, an.to.Position.Y, p),
		},
		Size: wm.Size{
			Width:  interpolate(an.from.Size.Width, an.to.Size.Width, p),
			Height: interpolate(an.from.Size.Height, an.to.Size.Height, p),
		},
	}, true
}

// step advances every animation to now, drops finished ones and reports
// whether any are still running.
func (a *animator) step(now time.Time) bool {
	for id, an := range a.anims {
		progress := 1.0
		if an.duration > 0 {
			progress = float64(now.Sub(an.start)) / float64(an.duration)
		}
		if progress >= 1 {
			delete(a.anims, id)
			continue
		}
		an.progress = easeInOutCubic(max(progress, 0))
	}
	return !a.empty()
}

// Easing function for smooth animation
func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	p := 2*t - 2
	return 1 + p*p*p/2
}

// Linear interpolation
func interpolate(start, end int, progress float64) int {
	return start + int(math.Round(float64(end-start)*progress))
}

// animate starts a transition of id from one geometry to another unless
// animations are off or the window is under the pointer. It returns the
// frame command when it starts the frame loop.
func (m *Model) animate(id string, from, to wm.Geometry, hide, fast bool) tea.Cmd {
	if from == to || !m.gesture.Animate(id) {
		return nil
	}
	d := config.GetAnimationDuration()
	if fast {
		d = config.GetFastAnimationDuration()
	}
	if d <= 0 {
		return nil
	}
	idle := m.anims.empty()
	m.anims.add(id, animation{from: from, to: to, start: m.now(), duration: d, hide: hide})
	if idle {
		return animationFrame()
	}
	return nil
}
