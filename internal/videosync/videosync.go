// Package videosync keeps an external video surface loosely locked to the
// audio clock. The bridge is one-directional: it only ever pushes seek and
// play commands at the video, and it throttles itself so routine audio
// position updates do not turn into a stream of tiny corrective seeks.
package videosync

import (
	"math"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// DriftThreshold is the predicted-vs-target gap below which a
	// non-forced sync is considered already close enough.
	DriftThreshold = 0.35
	// CommandSpacing is the minimum gap between non-forced sync commands.
	CommandSpacing = 600 * time.Millisecond
)

// Surface is the remote video side of the bridge.
type Surface interface {
	Seek(seconds float64)
	SetPlaying(playing bool)
}

// Bridge slaves one video surface to the audio clock. Not safe for
// concurrent use; it lives on the event loop like the rest of the engine.
type Bridge struct {
	surface Surface
	now     func() time.Time

	ready        bool
	videoPlaying bool
	lastTime     float64
	lastReport   time.Time
	lastCommand  time.Time

	pendingSeek    float64
	hasPendingSeek bool
	pendingPlay    bool
	hasPendingPlay bool
}

// New wraps a surface that is not necessarily ready yet; commands issued
// before Ready are buffered, most recent wins.
func New(surface Surface) *Bridge {
	return &Bridge{surface: surface, now: time.Now}
}

// Ready flushes the buffered seek target and play intent exactly once.
func (b *Bridge) Ready() {
	if b.ready {
		return
	}
	b.ready = true
	if b.hasPendingSeek {
		b.surface.Seek(b.pendingSeek)
		b.lastCommand = b.now()
		b.hasPendingSeek = false
	}
	if b.hasPendingPlay {
		b.surface.SetPlaying(b.pendingPlay)
		b.hasPendingPlay = false
	}
	log.Debug().Msg("video surface ready")
}

// ReportTime records a time update coming back from the video surface.
func (b *Bridge) ReportTime(seconds float64) {
	b.lastTime = seconds
	b.lastReport = b.now()
}

// ReportState records the video's own play state, which feeds the clock
// prediction: a playing video keeps advancing between reports.
func (b *Bridge) ReportState(playing bool) {
	b.videoPlaying = playing
}

// Sync nudges the video clock toward target. Non-forced syncs are skipped
// while the predicted video time is within DriftThreshold of the target and
// the previous command was issued less than CommandSpacing ago. Forced syncs
// always go through. Reports whether a seek was issued.
func (b *Bridge) Sync(target float64, force bool) bool {
	if !b.ready {
		b.pendingSeek = target
		b.hasPendingSeek = true
		return false
	}
	if !force {
		predicted := b.lastTime
		if b.videoPlaying {
			predicted += b.now().Sub(b.lastReport).Seconds()
		}
		if math.Abs(target-predicted) < DriftThreshold && b.now().Sub(b.lastCommand) < CommandSpacing {
			return false
		}
	}
	b.surface.Seek(target)
	b.lastCommand = b.now()
	return true
}

// SetPlaying forwards the audio play state, buffering it until ready.
func (b *Bridge) SetPlaying(playing bool) {
	if !b.ready {
		b.pendingPlay = playing
		b.hasPendingPlay = true
		return
	}
	b.surface.SetPlaying(playing)
}
