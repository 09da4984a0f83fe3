package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"cardsplice/internal/anki"
	"cardsplice/internal/clip"
	"cardsplice/internal/session"
)

// createCardCmd cuts the audio clip and pushes the note to Anki off the
// update loop.
func (m Model) createCardCmd(card session.Card) tea.Cmd {
	deck := m.cfg.Deck
	tags := m.cfg.Tags
	client := m.anki
	src := m.audioPath
	dir := m.clipDir
	return func() tea.Msg {
		path, err := clip.Slice(src, card.Start, card.End, dir)
		if err != nil {
			return errorMsg{err}
		}
		if err := client.EnsureDeck(deck); err != nil {
			return errorMsg{err}
		}
		audioFile, err := client.StoreMediaFile(path)
		if err != nil {
			return errorMsg{err}
		}
		id, err := client.AddNote(anki.Note{
			Deck:        deck,
			Original:    card.Original,
			Translation: card.Translation,
			AudioFile:   audioFile,
			Tags:        tags,
		})
		if err != nil {
			return errorMsg{err}
		}
		return cardCreatedMsg{noteID: id}
	}
}

func (m Model) translateCmd(index int, text string) tea.Cmd {
	tr := m.translator
	source := m.sourceLang
	target := m.targetLang
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		out, err := tr.Translate(ctx, text, source, target)
		if err != nil {
			return errorMsg{err}
		}
		return translationDoneMsg{index: index, text: out}
	}
}
