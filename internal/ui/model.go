// Package ui is the terminal front end: a bubbletea model that translates
// key presses and timer messages into session events and session effects
// back into scheduled commands.
package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"cardsplice/internal/anki"
	"cardsplice/internal/config"
	"cardsplice/internal/session"
	"cardsplice/internal/translate"
)

const (
	pollInterval = 100 * time.Millisecond
	scrubStep    = 1.0
	scrubJump    = 10.0
)

type focusArea int

const (
	focusNone focusArea = iota
	focusSearch
	focusDeck
	focusTags
	focusTranslation
)

// Options carries everything the front end needs beyond key handling.
type Options struct {
	Session    *session.Session
	Config     config.Config
	Anki       *anki.Client
	Translator *translate.Client
	AudioPath  string
	ClipDir    string
	Title      string
	SourceLang string
	TargetLang string
}

type Model struct {
	session    *session.Session
	cfg        config.Config
	anki       *anki.Client
	translator *translate.Client
	audioPath  string
	clipDir    string
	title      string
	sourceLang string
	targetLang string

	keys    keyMap
	help    help.Model
	spinner spinner.Model

	searchInput textinput.Model
	deckInput   textinput.Model
	tagsInput   textinput.Model
	transArea   textarea.Model
	focus       focusArea
	editIndex   int

	width      int
	loading    bool
	loadingMsg string
	status     string
	errorText  string
	quitting   bool
}

func New(opts Options) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	search := textinput.New()
	search.Prompt = "/"
	search.CharLimit = 64

	deck := textinput.New()
	deck.Prompt = "deck: "
	deck.CharLimit = 64

	tags := textinput.New()
	tags.Prompt = "tags: "
	tags.CharLimit = 128

	area := textarea.New()
	area.ShowLineNumbers = false
	area.SetHeight(3)

	target := opts.TargetLang
	if target == "" {
		target = "English"
	}

	return Model{
		session:     opts.Session,
		cfg:         opts.Config,
		anki:        opts.Anki,
		translator:  opts.Translator,
		audioPath:   opts.AudioPath,
		clipDir:     opts.ClipDir,
		title:       opts.Title,
		sourceLang:  opts.SourceLang,
		targetLang:  target,
		keys:        defaultKeyMap(),
		help:        help.New(),
		spinner:     s,
		searchInput: search,
		deckInput:   deck,
		tagsInput:   tags,
		transArea:   area,
		editIndex:   -1,
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// effectCmds turns session timer requests into scheduled messages that carry
// the generation back, so stale timers die in the session.
func effectCmds(effects []session.Effect) tea.Cmd {
	if len(effects) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(effects))
	for _, effect := range effects {
		gen := effect.Generation
		switch effect.Kind {
		case session.EffectPreviewTimer:
			cmds = append(cmds, tea.Tick(effect.Delay, func(time.Time) tea.Msg {
				return previewTimerMsg{gen: gen}
			}))
		case session.EffectAutoPauseTimer:
			cmds = append(cmds, tea.Tick(effect.Delay, func(time.Time) tea.Msg {
				return autoPauseTimerMsg{gen: gen}
			}))
		}
	}
	return tea.Batch(cmds...)
}
