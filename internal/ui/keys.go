package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	PlayPause  key.Binding
	AutoPause  key.Binding
	Next       key.Binding
	Prev       key.Binding
	StartLeft  key.Binding
	StartRight key.Binding
	EndLeft    key.Binding
	EndRight   key.Binding
	Preview    key.Binding
	Extend     key.Binding
	Scrub      key.Binding
	Search     key.Binding
	NextMatch  key.Binding
	EditTrans  key.Binding
	Translate  key.Binding
	CreateCard key.Binding
	EditDeck   key.Binding
	EditTags   key.Binding
	Confirm    key.Binding
	Cancel     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		PlayPause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "play/pause"),
		),
		AutoPause: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "auto-pause"),
		),
		Next: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j", "next"),
		),
		Prev: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k", "prev"),
		),
		StartLeft: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h/l", "start -/+"),
		),
		StartRight: key.NewBinding(
			key.WithKeys("l"),
		),
		EndLeft: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H/L", "end -/+"),
		),
		EndRight: key.NewBinding(
			key.WithKeys("L"),
		),
		Preview: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "preview"),
		),
		Extend: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "extend"),
		),
		Scrub: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "scrub"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		NextMatch: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next match"),
		),
		EditTrans: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "edit translation"),
		),
		Translate: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "translate"),
		),
		CreateCard: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "create card"),
		),
		EditDeck: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "deck"),
		),
		EditTags: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "tags"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.PlayPause, k.Next, k.Prev, k.StartLeft, k.EndLeft,
		k.Preview, k.Extend, k.CreateCard, k.Help, k.Quit,
	}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PlayPause, k.AutoPause, k.Next, k.Prev, k.Scrub},
		{k.StartLeft, k.EndLeft, k.Preview, k.Extend},
		{k.Search, k.NextMatch, k.EditTrans, k.Translate},
		{k.CreateCard, k.EditDeck, k.EditTags, k.Help, k.Quit},
	}
}
