package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"kasalog/internal/model"
)

type KeyMap struct {
	Open     key.Binding
	Reset    key.Binding
	Levels   [5]key.Binding
	Search   key.Binding
	Expr     key.Binding
	NextRec  key.Binding
	PrevRec  key.Binding
	Top      key.Binding
	Bottom   key.Binding
	ViewRaw  key.Binding
	CopyLine key.Binding
	AppLogs  key.Binding
	Help     key.Binding
	Quit     key.Binding
	Close    key.Binding
	Submit   key.Binding
}

func DefaultKeyMap() KeyMap {
	km := KeyMap{
		Open:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open file")),
		Reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset filter")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Expr:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "expression filter")),
		NextRec:  key.NewBinding(key.WithKeys("]", "n"), key.WithHelp("]", "next record")),
		PrevRec:  key.NewBinding(key.WithKeys("[", "p"), key.WithHelp("[", "previous record")),
		Top:      key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom:   key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		ViewRaw:  key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "raw record")),
		CopyLine: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy message")),
		AppLogs:  key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "app logs")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Close:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
	}
	for i, tag := range model.KnownTags {
		k := string(rune('1' + i))
		km.Levels[i] = key.NewBinding(key.WithKeys(k), key.WithHelp(k, "only "+string(tag)))
	}
	return km
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Reset, k.Search, k.Expr, k.ViewRaw, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Open, k.Reset, k.Levels[0], k.Levels[1], k.Levels[2], k.Levels[3], k.Levels[4]},
		{k.Search, k.Expr, k.NextRec, k.PrevRec, k.Top, k.Bottom},
		{k.ViewRaw, k.CopyLine, k.AppLogs, k.Help, k.Quit},
	}
}
