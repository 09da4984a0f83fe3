package session

import (
	"time"

	"cardsplice/internal/segment"
)

// Event is one input to Session.Dispatch. The types below are the only
// implementations: user actions, timer firings, and player/video
// notifications all arrive through the same funnel.
type Event interface{ isEvent() }

// TogglePlay flips between playing and paused. While a resume is pending in
// auto-pause mode, it resumes at the pending entry instead.
type TogglePlay struct{}

// ToggleAutoPause switches the continuous stop-at-each-entry playback mode.
type ToggleAutoPause struct{}

// Navigate moves the current entry by Delta (-1 previous, +1 next).
type Navigate struct{ Delta int }

// Nudge moves one edge of the adjusted selection by Delta seconds.
type Nudge struct {
	Side  segment.Side
	Delta float64
}

// PreviewToggle starts an immediate preview of the adjusted selection, or
// pauses the preview already running.
type PreviewToggle struct{}

// ToggleExtend advances the extend cycle one step.
type ToggleExtend struct{}

// BeginScrub enters scrub mode with the cursor at the playback position.
type BeginScrub struct{}

// MoveScrub moves the scrub cursor by Delta seconds.
type MoveScrub struct{ Delta float64 }

// CommitScrub seeks to the scrub cursor and leaves scrub mode.
type CommitScrub struct{}

// CancelScrub leaves scrub mode without seeking.
type CancelScrub struct{}

// SetSearch replaces the search query and rebuilds the match list.
type SetSearch struct{ Query string }

// NextMatch advances the match cursor, wrapping, and jumps to the match.
type NextMatch struct{}

// EditTranslation commits an edited translation for one entry. Text identical
// to the parsed translation, or blank, clears the override instead.
type EditTranslation struct {
	Index int
	Text  string
}

// CardCreated records a successful export and advances past the exported
// range.
type CardCreated struct{}

// PollTick is the fixed-rate position-to-index poll.
type PollTick struct{}

// TimerFired delivers a previously requested Effect. A generation that no
// longer matches the session's counter is stale and dropped.
type TimerFired struct {
	Kind       EffectKind
	Generation int
}

// PositionChanged reports the audio clock position.
type PositionChanged struct{ Seconds float64 }

// StateChanged reports the audio player's observed play/pause state.
type StateChanged struct{ Playing bool }

// PlaybackEnded reports that the audio track ran out.
type PlaybackEnded struct{}

// VideoReady reports the video surface finished loading.
type VideoReady struct{}

// VideoTime reports the video surface's playback time.
type VideoTime struct{ Seconds float64 }

// VideoDuration reports the video surface's track duration.
type VideoDuration struct{ Seconds float64 }

// VideoState reports the video surface's play/pause state.
type VideoState struct{ Playing bool }

func (TogglePlay) isEvent()      {}
func (ToggleAutoPause) isEvent() {}
func (Navigate) isEvent()        {}
func (Nudge) isEvent()           {}
func (PreviewToggle) isEvent()   {}
func (ToggleExtend) isEvent()    {}
func (BeginScrub) isEvent()      {}
func (MoveScrub) isEvent()       {}
func (CommitScrub) isEvent()     {}
func (CancelScrub) isEvent()     {}
func (SetSearch) isEvent()       {}
func (NextMatch) isEvent()       {}
func (EditTranslation) isEvent() {}
func (CardCreated) isEvent()     {}
func (PollTick) isEvent()        {}
func (TimerFired) isEvent()      {}
func (PositionChanged) isEvent() {}
func (StateChanged) isEvent()    {}
func (PlaybackEnded) isEvent()   {}
func (VideoReady) isEvent()      {}
func (VideoTime) isEvent()       {}
func (VideoDuration) isEvent()   {}
func (VideoState) isEvent()      {}

// EffectKind distinguishes the timers Dispatch can request.
type EffectKind int

const (
	EffectPreviewTimer EffectKind = iota
	EffectAutoPauseTimer
)

// Effect asks the caller to deliver a TimerFired event after Delay, echoing
// Kind and Generation back unchanged.
type Effect struct {
	Kind       EffectKind
	Generation int
	Delay      time.Duration
}
