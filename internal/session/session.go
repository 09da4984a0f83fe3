// Package session owns the playback engine state: the current segment and
// its adjustable boundary, the extend overlay, translation overrides, search,
// and the preview/auto-pause scheduling. All transitions happen in Dispatch,
// which consumes typed events and returns timer requests. The package does no
// I/O of its own beyond commands on the injected player and video facades, so
// tests drive it with synthetic events against a fake player.
package session

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"cardsplice/internal/search"
	"cardsplice/internal/segment"
	"cardsplice/internal/subs"
	"cardsplice/internal/videosync"
)

// PreviewDebounce coalesces bursts of boundary nudges into one preview.
const PreviewDebounce = 500 * time.Millisecond

// Mode is the single playback-mode state. Previewing, Scrubbing, and
// ExtendedFrozen each suppress the position-to-index poll.
type Mode int

const (
	ModeIdle Mode = iota
	ModeNormal
	ModePreviewing
	ModeScrubbing
	ModeExtendedFrozen
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModePreviewing:
		return "preview"
	case ModeScrubbing:
		return "scrub"
	case ModeExtendedFrozen:
		return "extended"
	default:
		return "idle"
	}
}

// Player is the audio clock facade the session drives. Position and duration
// reads return the last observed values and never block.
type Player interface {
	Load(path string)
	Play()
	Pause()
	SetPositionMS(ms int)
	PositionMS() int
	DurationMS() int
	Playing() bool
}

// Session holds the engine state and mutates it only inside Dispatch. A nil
// player means no local audio track is loaded; transport then falls back to
// the attached video surface.
type Session struct {
	player Player
	video  *videosync.Bridge

	original    subs.Track
	translation subs.Track

	mode    Mode
	current int

	margin   float64
	boundary segment.Boundary
	extend   segment.Extend

	overrides map[int]string

	autoPause     bool
	pendingResume int
	waitingResume bool
	cardCreated   bool

	previewGen        int
	autoPauseGen      int
	autoPauseDeadline float64

	scrubPos float64

	searchQuery   string
	searchMatches []search.Match
	searchCursor  int

	videoTime     float64
	videoDuration float64
	videoPlaying  bool
}

// New builds a session around an audio player. Pass nil for video-only use.
func New(p Player) *Session {
	return &Session{
		player:        p,
		margin:        segment.DefaultMargin,
		overrides:     make(map[int]string),
		pendingResume: -1,
		searchCursor:  -1,
	}
}

// AttachVideo wires a video surface behind the sync bridge; commands are
// buffered until the surface reports ready.
func (s *Session) AttachVideo(surface videosync.Surface) {
	s.video = videosync.New(surface)
}

// SetMargin overrides the raw-window margin in seconds.
func (s *Session) SetMargin(seconds float64) {
	if seconds > 0 {
		s.margin = seconds
	}
}

// SetAutoPause sets the startup auto-pause mode.
func (s *Session) SetAutoPause(on bool) {
	s.autoPause = on
}

// LoadTracks installs an aligned subtitle pair and shows the first entry.
// Pending timers and per-track state are invalidated.
func (s *Session) LoadTracks(original, translation subs.Track) {
	s.original = original
	s.translation = translation
	s.overrides = make(map[int]string)
	s.extend.Reset()
	s.previewGen++
	s.autoPauseGen++
	s.pendingResume = -1
	s.waitingResume = false
	s.searchQuery = ""
	s.searchMatches = nil
	s.searchCursor = -1
	if len(original) > 0 {
		s.setSegment(0)
	}
	s.mode = s.baseMode()
	log.Debug().Int("entries", len(original)).Msg("tracks loaded")
}

func (s *Session) Mode() Mode                 { return s.mode }
func (s *Session) CurrentIndex() int          { return s.current }
func (s *Session) Entries() subs.Track        { return s.original }
func (s *Session) Boundary() segment.Boundary { return s.boundary }
func (s *Session) Extend() segment.Extend     { return s.extend }
func (s *Session) AutoPause() bool            { return s.autoPause }
func (s *Session) WaitingResume() bool        { return s.waitingResume }
func (s *Session) CardCreated() bool          { return s.cardCreated }
func (s *Session) ScrubPosition() float64     { return s.scrubPos }
func (s *Session) SearchQuery() string        { return s.searchQuery }

// PositionSeconds is the transport position: the audio clock when audio is
// loaded, the last reported video time otherwise.
func (s *Session) PositionSeconds() float64 {
	if s.player != nil {
		return float64(s.player.PositionMS()) / 1000
	}
	return s.videoTime
}

// DurationSeconds is the transport length, 0 while unknown.
func (s *Session) DurationSeconds() float64 {
	if s.player != nil {
		return float64(s.player.DurationMS()) / 1000
	}
	return s.videoDuration
}

// Playing reports the transport play state.
func (s *Session) Playing() bool {
	if s.player != nil {
		return s.player.Playing()
	}
	return s.videoPlaying
}

// HasAudio reports whether a local audio clock is driving the transport.
func (s *Session) HasAudio() bool {
	return s.player != nil
}

// EffectiveTranslation returns the translation shown for entry i: the user
// override when present, the aligned translation otherwise.
func (s *Session) EffectiveTranslation(i int) string {
	if t, ok := s.overrides[i]; ok {
		return t
	}
	if i >= 0 && i < len(s.translation) {
		return s.translation[i].Text
	}
	return ""
}

// HasOverride reports whether entry i carries a user-edited translation.
func (s *Session) HasOverride(i int) bool {
	_, ok := s.overrides[i]
	return ok
}

// CurrentOriginal is the original text of the current unit, space-combined
// across the extend range while extended.
func (s *Session) CurrentOriginal() string {
	if len(s.original) == 0 {
		return ""
	}
	if s.extend.Active {
		texts := make([]string, 0, s.extend.EndIndex-s.extend.BaseIndex+1)
		for i := s.extend.BaseIndex; i <= s.extend.EndIndex && i < len(s.original); i++ {
			texts = append(texts, s.original[i].Text)
		}
		return segment.CombineOriginal(texts)
	}
	return s.original[s.current].Text
}

// CurrentTranslation is the translation of the current unit, one line per
// entry while extended, with overrides applied.
func (s *Session) CurrentTranslation() string {
	if len(s.original) == 0 {
		return ""
	}
	if s.extend.Active {
		texts := make([]string, 0, s.extend.EndIndex-s.extend.BaseIndex+1)
		for i := s.extend.BaseIndex; i <= s.extend.EndIndex && i < len(s.original); i++ {
			texts = append(texts, s.EffectiveTranslation(i))
		}
		return segment.CombineTranslation(texts)
	}
	return s.EffectiveTranslation(s.current)
}

// Card bundles what the export collaborators need for the current unit.
type Card struct {
	Start       float64
	End         float64
	Original    string
	Translation string
}

// Card snapshots the adjusted boundary and effective text for export.
func (s *Session) Card() (Card, bool) {
	if len(s.original) == 0 {
		return Card{}, false
	}
	return Card{
		Start:       s.boundary.AdjStart,
		End:         s.boundary.AdjEnd,
		Original:    s.CurrentOriginal(),
		Translation: s.CurrentTranslation(),
	}, true
}

// CurrentMatch reports the search match under the cursor, if any.
func (s *Session) CurrentMatch() (search.Match, bool) {
	if s.searchCursor < 0 || s.searchCursor >= len(s.searchMatches) {
		return search.Match{}, false
	}
	return s.searchMatches[s.searchCursor], true
}

// SearchStatus renders the match counter; ok is false with no active search.
func (s *Session) SearchStatus() (string, bool) {
	if s.searchQuery == "" {
		return "", false
	}
	if len(s.searchMatches) == 0 {
		return "no matches", true
	}
	if s.searchCursor < 0 {
		return fmt.Sprintf("%d matches", len(s.searchMatches)), true
	}
	m := s.searchMatches[s.searchCursor]
	src := "original"
	switch {
	case m.InOriginal && m.InTranslation:
		src = "both"
	case m.InTranslation:
		src = "translation"
	}
	return fmt.Sprintf("%d of %d (%s)", s.searchCursor+1, len(s.searchMatches), src), true
}

// baseMode is the mode to fall back to when a transient state ends.
func (s *Session) baseMode() Mode {
	if len(s.original) == 0 {
		return ModeIdle
	}
	if s.extend.Active {
		return ModeExtendedFrozen
	}
	return ModeNormal
}

// setSegment makes entry i the current unit and rebuilds its boundary.
func (s *Session) setSegment(i int) {
	if len(s.original) == 0 {
		return
	}
	i = s.original.ClampIndex(i)
	s.current = i
	e := s.original[i]
	rawStart, rawEnd := segment.Window(e.Start, e.End, s.margin, s.DurationSeconds())
	s.boundary = segment.Boundary{MinLength: segment.DefaultMinLength}
	s.boundary.Set(rawStart, rawEnd, e.Start, e.End)
	s.cardCreated = false
}

// seekSeconds positions the transport. With no audio the video surface is the
// transport, so its sync is always forced.
func (s *Session) seekSeconds(seconds float64, force bool) {
	if s.player != nil {
		s.player.SetPositionMS(int(math.Round(seconds * 1000)))
	} else {
		s.videoTime = seconds
	}
	if s.video != nil {
		s.video.Sync(seconds, force || s.player == nil)
	}
}

func (s *Session) playAll() {
	if s.player != nil {
		s.player.Play()
	} else {
		s.videoPlaying = true
	}
	if s.video != nil {
		s.video.SetPlaying(true)
	}
}

func (s *Session) pauseAll() {
	if s.player != nil {
		s.player.Pause()
	} else {
		s.videoPlaying = false
	}
	if s.video != nil {
		s.video.SetPlaying(false)
	}
}

// armAutoPause schedules a stop at deadline, computing the remaining time
// from the live clock so arming after a seek or mid-playback stays exact.
func (s *Session) armAutoPause(deadline float64) []Effect {
	if s.player == nil {
		return nil
	}
	s.autoPauseGen++
	s.autoPauseDeadline = deadline
	remaining := int(math.Round(deadline*1000)) - s.player.PositionMS()
	if remaining < 0 {
		remaining = 0
	}
	log.Debug().Float64("deadline", deadline).Int("remaining_ms", remaining).Msg("auto-pause armed")
	return []Effect{{
		Kind:       EffectAutoPauseTimer,
		Generation: s.autoPauseGen,
		Delay:      time.Duration(remaining) * time.Millisecond,
	}}
}

// armForCurrent arms the auto-pause stop at the current unit's end.
func (s *Session) armForCurrent() []Effect {
	if len(s.original) == 0 {
		return nil
	}
	deadline := s.original[s.current].End
	if s.extend.Active {
		deadline = s.original[s.extend.EndIndex].End
	}
	return s.armAutoPause(deadline)
}

// startPreview plays the adjusted selection and arms its auto-stop.
func (s *Session) startPreview() []Effect {
	if s.player == nil {
		return nil
	}
	s.seekSeconds(s.boundary.AdjStart, true)
	s.playAll()
	s.mode = ModePreviewing
	return s.armAutoPause(s.boundary.AdjEnd)
}

func (s *Session) stopPreview() {
	s.previewGen++
	s.autoPauseGen++
	s.pauseAll()
	s.mode = s.baseMode()
}

// jumpTo moves the current unit to entry i: timers are invalidated, extend is
// dropped, the transport seeks to the entry start with a forced video sync,
// and auto-pause re-arms if playback continues.
func (s *Session) jumpTo(i int) []Effect {
	if len(s.original) == 0 {
		return nil
	}
	s.previewGen++
	s.autoPauseGen++
	s.extend.Reset()
	s.pendingResume = -1
	s.waitingResume = false
	s.setSegment(i)
	s.seekSeconds(s.original[s.current].Start, true)
	s.mode = s.baseMode()
	if s.autoPause && s.Playing() {
		return s.armForCurrent()
	}
	return nil
}
