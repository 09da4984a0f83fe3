package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"cardsplice/internal/player"
	"cardsplice/internal/segment"
	"cardsplice/internal/session"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.transArea.SetWidth(msg.Width - 6)
		return m, nil

	case tea.KeyMsg:
		if m.focus != focusNone {
			return m.updateFocused(msg)
		}
		return m.handleKey(msg)

	case tickMsg:
		var cmd tea.Cmd
		// The override editor pins one entry; segment switches would pull
		// the view away from it mid-edit.
		if m.focus != focusTranslation {
			cmd = effectCmds(m.session.Dispatch(session.PollTick{}))
		}
		return m, tea.Batch(tick(), cmd)

	case previewTimerMsg:
		return m, effectCmds(m.session.Dispatch(session.TimerFired{
			Kind:       session.EffectPreviewTimer,
			Generation: msg.gen,
		}))

	case autoPauseTimerMsg:
		return m, effectCmds(m.session.Dispatch(session.TimerFired{
			Kind:       session.EffectAutoPauseTimer,
			Generation: msg.gen,
		}))

	case playerEventMsg:
		return m, effectCmds(m.dispatchPlayerEvent(player.Event(msg)))

	case videoEventMsg:
		return m, effectCmds(m.dispatchVideoEvent(player.Event(msg)))

	case cardCreatedMsg:
		m.loading = false
		m.loadingMsg = ""
		m.errorText = ""
		m.status = "card added to " + m.cfg.Deck
		log.Debug().Int64("note", msg.noteID).Msg("card created")
		return m, effectCmds(m.session.Dispatch(session.CardCreated{}))

	case translationDoneMsg:
		m.loading = false
		m.loadingMsg = ""
		m.status = "translation filled"
		m.session.Dispatch(session.EditTranslation{Index: msg.index, Text: msg.text})
		return m, nil

	case errorMsg:
		m.loading = false
		m.loadingMsg = ""
		m.errorText = msg.err.Error()
		log.Error().Err(msg.err).Msg("action failed")
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	return m, nil
}

func (m Model) dispatchPlayerEvent(ev player.Event) []session.Effect {
	switch ev.Kind {
	case player.EventPosition:
		return m.session.Dispatch(session.PositionChanged{Seconds: ev.Seconds})
	case player.EventState:
		return m.session.Dispatch(session.StateChanged{Playing: ev.Playing})
	case player.EventEnd:
		return m.session.Dispatch(session.PlaybackEnded{})
	}
	return nil
}

func (m Model) dispatchVideoEvent(ev player.Event) []session.Effect {
	switch ev.Kind {
	case player.EventPosition:
		return m.session.Dispatch(session.VideoTime{Seconds: ev.Seconds})
	case player.EventDuration:
		// Duration shows up once mpv has the file loaded, which is the
		// moment buffered sync commands can be flushed.
		m.session.Dispatch(session.VideoDuration{Seconds: ev.Seconds})
		return m.session.Dispatch(session.VideoReady{})
	case player.EventState:
		return m.session.Dispatch(session.VideoState{Playing: ev.Playing})
	}
	return nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	scrubbing := m.session.Mode() == session.ModeScrubbing

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.PlayPause):
		return m, effectCmds(m.session.Dispatch(session.TogglePlay{}))

	case key.Matches(msg, m.keys.AutoPause):
		return m, effectCmds(m.session.Dispatch(session.ToggleAutoPause{}))

	case key.Matches(msg, m.keys.Next):
		return m, effectCmds(m.session.Dispatch(session.Navigate{Delta: 1}))

	case key.Matches(msg, m.keys.Prev):
		return m, effectCmds(m.session.Dispatch(session.Navigate{Delta: -1}))

	case key.Matches(msg, m.keys.StartLeft):
		if scrubbing {
			return m, effectCmds(m.session.Dispatch(session.MoveScrub{Delta: -scrubStep}))
		}
		return m, effectCmds(m.session.Dispatch(session.Nudge{Side: segment.SideStart, Delta: -m.cfg.NudgeStep}))

	case key.Matches(msg, m.keys.StartRight):
		if scrubbing {
			return m, effectCmds(m.session.Dispatch(session.MoveScrub{Delta: scrubStep}))
		}
		return m, effectCmds(m.session.Dispatch(session.Nudge{Side: segment.SideStart, Delta: m.cfg.NudgeStep}))

	case key.Matches(msg, m.keys.EndLeft):
		if scrubbing {
			return m, effectCmds(m.session.Dispatch(session.MoveScrub{Delta: -scrubJump}))
		}
		return m, effectCmds(m.session.Dispatch(session.Nudge{Side: segment.SideEnd, Delta: -m.cfg.NudgeStep}))

	case key.Matches(msg, m.keys.EndRight):
		if scrubbing {
			return m, effectCmds(m.session.Dispatch(session.MoveScrub{Delta: scrubJump}))
		}
		return m, effectCmds(m.session.Dispatch(session.Nudge{Side: segment.SideEnd, Delta: m.cfg.NudgeStep}))

	case key.Matches(msg, m.keys.Preview):
		return m, effectCmds(m.session.Dispatch(session.PreviewToggle{}))

	case key.Matches(msg, m.keys.Extend):
		return m, effectCmds(m.session.Dispatch(session.ToggleExtend{}))

	case key.Matches(msg, m.keys.Scrub):
		m.session.Dispatch(session.BeginScrub{})
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		if scrubbing {
			return m, effectCmds(m.session.Dispatch(session.CommitScrub{}))
		}
		return m, nil

	case key.Matches(msg, m.keys.Cancel):
		if scrubbing {
			m.session.Dispatch(session.CancelScrub{})
			return m, nil
		}
		if m.session.SearchQuery() != "" {
			m.session.Dispatch(session.SetSearch{})
			m.searchInput.Reset()
		}
		m.errorText = ""
		m.status = ""
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.focus = focusSearch
		m.searchInput.SetValue(m.session.SearchQuery())
		m.searchInput.CursorEnd()
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.NextMatch):
		return m, effectCmds(m.session.Dispatch(session.NextMatch{}))

	case key.Matches(msg, m.keys.EditTrans):
		if len(m.session.Entries()) == 0 {
			return m, nil
		}
		m.focus = focusTranslation
		m.editIndex = m.session.CurrentIndex()
		m.transArea.SetValue(m.session.EffectiveTranslation(m.editIndex))
		m.transArea.Focus()
		return m, textarea.Blink

	case key.Matches(msg, m.keys.Translate):
		if m.loading || m.translator == nil {
			return m, nil
		}
		entries := m.session.Entries()
		if len(entries) == 0 {
			return m, nil
		}
		idx := m.session.CurrentIndex()
		m.loading = true
		m.loadingMsg = "Translating..."
		m.errorText = ""
		return m, tea.Batch(m.spinner.Tick, m.translateCmd(idx, entries[idx].Text))

	case key.Matches(msg, m.keys.CreateCard):
		if m.loading {
			return m, nil
		}
		card, ok := m.session.Card()
		if !ok {
			return m, nil
		}
		if m.anki == nil || m.audioPath == "" {
			m.errorText = "card export needs a local audio file and Anki running"
			return m, nil
		}
		m.loading = true
		m.loadingMsg = "Exporting card..."
		m.errorText = ""
		return m, tea.Batch(m.spinner.Tick, m.createCardCmd(card))

	case key.Matches(msg, m.keys.EditDeck):
		m.focus = focusDeck
		m.deckInput.SetValue(m.cfg.Deck)
		m.deckInput.CursorEnd()
		m.deckInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.EditTags):
		m.focus = focusTags
		m.tagsInput.SetValue(strings.Join(m.cfg.Tags, ", "))
		m.tagsInput.CursorEnd()
		m.tagsInput.Focus()
		return m, textinput.Blink
	}

	return m, nil
}

func (m Model) updateFocused(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.focus {
	case focusSearch:
		switch msg.String() {
		case "enter":
			m.focus = focusNone
			m.searchInput.Blur()
			return m, effectCmds(m.session.Dispatch(session.NextMatch{}))
		case "esc":
			m.focus = focusNone
			m.searchInput.Blur()
			m.searchInput.Reset()
			m.session.Dispatch(session.SetSearch{})
			return m, nil
		}
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		m.session.Dispatch(session.SetSearch{Query: m.searchInput.Value()})
		return m, cmd

	case focusDeck:
		switch msg.String() {
		case "enter":
			m.focus = focusNone
			m.deckInput.Blur()
			if deck := strings.TrimSpace(m.deckInput.Value()); deck != "" {
				m.cfg.Deck = deck
				m.saveConfig()
			}
			return m, nil
		case "esc":
			m.focus = focusNone
			m.deckInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.deckInput, cmd = m.deckInput.Update(msg)
		return m, cmd

	case focusTags:
		switch msg.String() {
		case "enter":
			m.focus = focusNone
			m.tagsInput.Blur()
			m.cfg.Tags = splitTags(m.tagsInput.Value())
			m.saveConfig()
			return m, nil
		case "esc":
			m.focus = focusNone
			m.tagsInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.tagsInput, cmd = m.tagsInput.Update(msg)
		return m, cmd

	case focusTranslation:
		if msg.String() == "esc" {
			m.focus = focusNone
			m.transArea.Blur()
			m.session.Dispatch(session.EditTranslation{Index: m.editIndex, Text: m.transArea.Value()})
			m.editIndex = -1
			return m, nil
		}
		var cmd tea.Cmd
		m.transArea, cmd = m.transArea.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) saveConfig() {
	if err := m.cfg.Save(); err != nil {
		m.errorText = err.Error()
		log.Error().Err(err).Msg("failed to save config")
	}
}

func splitTags(raw string) []string {
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
