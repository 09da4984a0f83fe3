package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"cardsplice/internal/player"
)

// tickMsg drives the 100ms position poll.
type tickMsg time.Time

// previewTimerMsg fires a debounced preview request; stale generations are
// dropped by the session.
type previewTimerMsg struct {
	gen int
}

// autoPauseTimerMsg fires a scheduled auto-stop deadline.
type autoPauseTimerMsg struct {
	gen int
}

// playerEventMsg carries an event from the audio clock instance.
type playerEventMsg player.Event

// videoEventMsg carries an event from the video window instance.
type videoEventMsg player.Event

type cardCreatedMsg struct {
	noteID int64
}

type translationDoneMsg struct {
	index int
	text  string
}

type errorMsg struct {
	err error
}

// PumpAudio forwards audio clock events into the program until the channel
// closes. Run it in its own goroutine.
func PumpAudio(p *tea.Program, events <-chan player.Event) {
	for ev := range events {
		p.Send(playerEventMsg(ev))
	}
}

// PumpVideo forwards video window events into the program until the channel
// closes.
func PumpVideo(p *tea.Program, events <-chan player.Event) {
	for ev := range events {
		p.Send(videoEventMsg(ev))
	}
}
