package apps

import (
	"fmt"
	"sync"

	"charm.land/log/v2"
	"github.com/Gaurav-Gosain/webtop/internal/logging"
	"github.com/Gaurav-Gosain/webtop/internal/wm"
)

// AmbientSounds lists the tracks the ambient player can loop.
var AmbientSounds = []string{"rain", "forest", "waves", "cafe", "fire"}

// DefaultTrack is what an audio app plays when opened with nothing queued.
func DefaultTrack(appID string) string {
	if appID == Ambient {
		return AmbientSounds[0]
	}
	return "lo-fi radio"
}

// Player is the playback state of an audio widget. Playback is independent
// of window visibility: minimizing keeps it playing, closing stops it.
type Player struct {
	appID string
	log   *log.Logger

	mu      sync.Mutex
	track   string
	playing bool
	volume  int

	unregister func()
}

// NewPlayer returns a stopped player for appID whose playback stops when
// any window of that app is closed.
func NewPlayer(ctrl *wm.Controller, appID string, logger *log.Logger) *Player {
	if logger == nil {
		logger = logging.Discard()
	}
	p := &Player{appID: appID, log: logger, volume: 70}
	p.unregister = ctrl.OnClose(appID, func(w wm.WindowState) {
		if p.Stop() {
			p.log.Info("playback stopped on close", "app", appID, "window", w.ID)
		}
	})
	return p
}

// Play starts looping track.
func (p *Player) Play(track string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.track = track
	p.playing = true
}

// Stop halts playback and reports whether anything was playing.
func (p *Player) Stop() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	was := p.playing
	p.playing = false
	return was
}

// Toggle pauses or resumes the current track.
func (p *Player) Toggle() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.track != "" {
		p.playing = !p.playing
	}
}

// VolumeStep is how much one volume key press changes the volume.
const VolumeStep = 10

// SetVolume sets the volume, clamped to [0, 100].
func (p *Player) SetVolume(v int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = min(max(v, 0), 100)
}

// Status returns the current track and whether it is playing.
func (p *Player) Status() (track string, playing bool, volume int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.track, p.playing, p.volume
}

// String renders the status line shown inside the widget window.
func (p *Player) String() string {
	track, playing, volume := p.Status()
	switch {
	case track == "":
		return "stopped"
	case playing:
		return fmt.Sprintf("▶ %s  vol %d%%", track, volume)
	default:
		return fmt.Sprintf("⏸ %s  vol %d%%", track, volume)
	}
}

// Close detaches the player from the controller.
func (p *Player) Close() {
	if p.unregister != nil {
		p.unregister()
	}
}
