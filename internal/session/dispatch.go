package session

import (
	"strings"

	"github.com/rs/zerolog/log"

	"cardsplice/internal/search"
	"cardsplice/internal/segment"
)

// Dispatch applies one event and returns the timers the caller must
// schedule. It is the only mutation entry point.
func (s *Session) Dispatch(ev Event) []Effect {
	switch ev := ev.(type) {
	case TogglePlay:
		return s.togglePlay()
	case ToggleAutoPause:
		return s.toggleAutoPause()
	case Navigate:
		return s.navigate(ev.Delta)
	case Nudge:
		return s.nudge(ev.Side, ev.Delta)
	case PreviewToggle:
		return s.previewToggle()
	case ToggleExtend:
		return s.toggleExtend()
	case BeginScrub:
		s.beginScrub()
	case MoveScrub:
		s.moveScrub(ev.Delta)
	case CommitScrub:
		return s.commitScrub()
	case CancelScrub:
		if s.mode == ModeScrubbing {
			s.mode = s.baseMode()
		}
	case SetSearch:
		s.setSearch(ev.Query)
	case NextMatch:
		return s.nextMatch()
	case EditTranslation:
		s.editTranslation(ev.Index, ev.Text)
	case CardCreated:
		return s.cardDone()
	case PollTick:
		return s.pollTick()
	case TimerFired:
		return s.timerFired(ev)
	case PositionChanged:
		if s.video != nil && s.player != nil {
			s.video.Sync(ev.Seconds, false)
		}
	case StateChanged:
		s.stateChanged(ev.Playing)
	case PlaybackEnded:
		s.playbackEnded()
	case VideoReady:
		if s.video != nil {
			s.video.Ready()
		}
	case VideoTime:
		s.videoTimeChanged(ev.Seconds)
	case VideoDuration:
		if s.player == nil {
			s.videoDuration = ev.Seconds
		}
	case VideoState:
		if s.video != nil {
			s.video.ReportState(ev.Playing)
		}
		if s.player == nil {
			s.videoPlaying = ev.Playing
		}
	}
	return nil
}

func (s *Session) togglePlay() []Effect {
	if s.player == nil {
		if s.video == nil {
			return nil
		}
		s.videoPlaying = !s.videoPlaying
		s.video.SetPlaying(s.videoPlaying)
		return nil
	}
	if s.player.Playing() {
		s.previewGen++
		s.autoPauseGen++
		s.pauseAll()
		if s.video != nil {
			s.video.Sync(s.PositionSeconds(), true)
		}
		if s.mode == ModePreviewing {
			s.mode = s.baseMode()
		}
		return nil
	}
	s.previewGen++
	if s.waitingResume && s.pendingResume >= 0 {
		i := s.original.ClampIndex(s.pendingResume)
		s.pendingResume = -1
		s.waitingResume = false
		s.extend.Reset()
		s.setSegment(i)
		s.seekSeconds(s.original[i].Start, true)
		s.mode = s.baseMode()
		log.Debug().Int("index", i).Msg("resuming at pending entry")
	}
	s.playAll()
	if s.autoPause && (s.mode == ModeNormal || s.mode == ModeExtendedFrozen) {
		return s.armForCurrent()
	}
	return nil
}

func (s *Session) toggleAutoPause() []Effect {
	s.autoPause = !s.autoPause
	s.autoPauseGen++
	s.pendingResume = -1
	s.waitingResume = false
	log.Debug().Bool("on", s.autoPause).Msg("auto-pause mode toggled")
	if s.mode == ModePreviewing {
		// Keep the running preview's stop deadline alive.
		return s.armAutoPause(s.boundary.AdjEnd)
	}
	if s.autoPause && s.Playing() && (s.mode == ModeNormal || s.mode == ModeExtendedFrozen) {
		return s.armForCurrent()
	}
	return nil
}

func (s *Session) navigate(delta int) []Effect {
	if len(s.original) == 0 || s.mode == ModeScrubbing {
		return nil
	}
	base := s.current
	if s.extend.Active {
		base = s.extend.BaseIndex
	}
	return s.jumpTo(base + delta)
}

func (s *Session) nudge(side segment.Side, delta float64) []Effect {
	if len(s.original) == 0 || s.mode == ModeScrubbing {
		return nil
	}
	s.boundary.Nudge(side, delta)
	s.cardCreated = false
	if s.player == nil {
		return nil
	}
	s.previewGen++
	return []Effect{{
		Kind:       EffectPreviewTimer,
		Generation: s.previewGen,
		Delay:      PreviewDebounce,
	}}
}

func (s *Session) previewToggle() []Effect {
	if s.player == nil || len(s.original) == 0 {
		return nil
	}
	if s.mode == ModePreviewing {
		s.stopPreview()
		return nil
	}
	s.previewGen++
	return s.startPreview()
}

func (s *Session) toggleExtend() []Effect {
	if len(s.original) == 0 || s.mode == ModeScrubbing {
		return nil
	}
	if !s.extend.Active {
		// Anchor to the entry owning the adjusted start so manual nudges made
		// before extending keep their effect.
		base := s.original.IndexAt(s.boundary.AdjStart + 1e-6)
		if !s.extend.Toggle(base, len(s.original)-1) {
			return nil
		}
	} else {
		s.extend.Toggle(s.extend.BaseIndex, len(s.original)-1)
	}
	s.previewGen++
	s.autoPauseGen++
	s.pendingResume = -1
	s.waitingResume = false

	if !s.extend.Active {
		base := s.extend.BaseIndex
		s.extend.Reset()
		s.setSegment(base)
		s.seekSeconds(s.original[s.current].Start, true)
		s.pauseAll()
		s.mode = s.baseMode()
		return nil
	}

	first := s.original[s.extend.BaseIndex]
	last := s.original[s.extend.EndIndex]
	s.extend.Lock(first.Start, last.End)
	s.current = s.extend.BaseIndex
	rawStart, rawEnd := segment.Window(first.Start, last.End, s.margin, s.DurationSeconds())
	s.boundary = segment.Boundary{MinLength: segment.DefaultMinLength}
	s.boundary.Set(rawStart, rawEnd, first.Start, last.End)
	s.cardCreated = false
	s.mode = ModeExtendedFrozen
	log.Debug().Int("base", s.extend.BaseIndex).Int("end", s.extend.EndIndex).Msg("extend range changed")
	return s.startPreview()
}

func (s *Session) beginScrub() {
	if s.mode == ModeScrubbing || s.DurationSeconds() <= 0 {
		return
	}
	s.previewGen++
	s.autoPauseGen++
	s.scrubPos = s.PositionSeconds()
	s.mode = ModeScrubbing
}

func (s *Session) moveScrub(delta float64) {
	if s.mode != ModeScrubbing {
		return
	}
	pos := s.scrubPos + delta
	if pos < 0 {
		pos = 0
	}
	if d := s.DurationSeconds(); d > 0 && pos > d {
		pos = d
	}
	s.scrubPos = pos
}

func (s *Session) commitScrub() []Effect {
	if s.mode != ModeScrubbing {
		return nil
	}
	target := s.scrubPos
	s.pendingResume = -1
	s.waitingResume = false
	if len(s.original) > 0 {
		i := s.original.IndexAt(target)
		if s.extend.Active && i != s.extend.BaseIndex {
			s.extend.Reset()
		}
		if !s.extend.Active && i != s.current {
			s.setSegment(i)
		}
	}
	s.mode = s.baseMode()
	s.seekSeconds(target, true)
	if s.autoPause && s.Playing() && (s.mode == ModeNormal || s.mode == ModeExtendedFrozen) {
		return s.armForCurrent()
	}
	return nil
}

func (s *Session) setSearch(query string) {
	s.searchQuery = query
	s.searchMatches = nil
	s.searchCursor = -1
	if strings.TrimSpace(query) == "" {
		s.searchQuery = ""
		return
	}
	orig := make([]string, len(s.original))
	trans := make([]string, len(s.original))
	for i, e := range s.original {
		orig[i] = e.Text
		trans[i] = s.EffectiveTranslation(i)
	}
	s.searchMatches = search.Build(orig, trans, query)
	log.Debug().Str("query", query).Int("matches", len(s.searchMatches)).Msg("search rebuilt")
}

func (s *Session) nextMatch() []Effect {
	if len(s.searchMatches) == 0 {
		return nil
	}
	s.searchCursor = (s.searchCursor + 1) % len(s.searchMatches)
	return s.jumpTo(s.searchMatches[s.searchCursor].Index)
}

func (s *Session) editTranslation(i int, text string) {
	if i < 0 || i >= len(s.original) {
		return
	}
	parsed := ""
	if i < len(s.translation) {
		parsed = s.translation[i].Text
	}
	if strings.TrimSpace(text) == "" || text == parsed {
		delete(s.overrides, i)
		return
	}
	s.overrides[i] = text
}

func (s *Session) cardDone() []Effect {
	if len(s.original) == 0 {
		return nil
	}
	s.cardCreated = true
	next := s.current + 1
	wasExtended := s.extend.Active
	if wasExtended {
		next = s.extend.EndIndex + 1
	}
	clamped := s.original.ClampIndex(next)
	if !wasExtended && clamped == s.current {
		// Already at the last entry; stay and keep the created flag.
		return nil
	}
	return s.jumpTo(clamped)
}

func (s *Session) pollTick() []Effect {
	if s.mode != ModeNormal || s.player == nil || len(s.original) == 0 {
		return nil
	}
	i := s.original.IndexAt(s.PositionSeconds())
	if i == s.current {
		return nil
	}
	log.Debug().Int("from", s.current).Int("to", i).Msg("segment switch")
	s.setSegment(i)
	if s.autoPause && s.player.Playing() {
		return s.armForCurrent()
	}
	return nil
}

func (s *Session) timerFired(ev TimerFired) []Effect {
	switch ev.Kind {
	case EffectPreviewTimer:
		if ev.Generation != s.previewGen {
			return nil
		}
		return s.startPreview()
	case EffectAutoPauseTimer:
		if ev.Generation != s.autoPauseGen {
			return nil
		}
		return s.autoPauseFired()
	}
	return nil
}

func (s *Session) autoPauseFired() []Effect {
	s.pauseAll()
	if s.video != nil {
		s.video.Sync(s.autoPauseDeadline, true)
	}
	if s.mode == ModePreviewing {
		s.mode = s.baseMode()
		log.Debug().Msg("preview finished")
		return nil
	}
	if !s.autoPause {
		return nil
	}
	next := s.current + 1
	if s.extend.Active {
		next = s.extend.EndIndex + 1
	}
	if next < len(s.original) {
		s.pendingResume = next
		s.waitingResume = true
	}
	log.Debug().Int("pending", s.pendingResume).Msg("auto-pause stop")
	return nil
}

func (s *Session) stateChanged(playing bool) {
	if s.video != nil && s.player != nil {
		s.video.SetPlaying(playing)
		s.video.Sync(s.PositionSeconds(), true)
	}
	// A pause that did not come from this session still has to invalidate
	// pending deadlines. The cached player state distinguishes it from the
	// echo of a command issued here.
	if !playing && s.player != nil && !s.player.Playing() {
		s.previewGen++
		s.autoPauseGen++
		if s.mode == ModePreviewing {
			s.mode = s.baseMode()
		}
	}
}

func (s *Session) playbackEnded() {
	s.previewGen++
	s.autoPauseGen++
	s.pendingResume = -1
	s.waitingResume = false
	if s.mode == ModePreviewing {
		s.mode = s.baseMode()
	}
}

func (s *Session) videoTimeChanged(seconds float64) {
	if s.video != nil {
		s.video.ReportTime(seconds)
	}
	if s.player != nil {
		return
	}
	s.videoTime = seconds
	if s.mode != ModeNormal || len(s.original) == 0 {
		return
	}
	if i := s.original.IndexAt(seconds); i != s.current {
		s.setSegment(i)
	}
}
