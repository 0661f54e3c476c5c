package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Flip     key.Binding
	Next     key.Binding
	NextDeck key.Binding
	PrevDeck key.Binding
	Toggle   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Flip: key.NewBinding(
			key.WithKeys(" ", "f"),
			key.WithHelp("space/f", "flip"),
		),
		Next: key.NewBinding(
			key.WithKeys("n", "enter", "right", "l"),
			key.WithHelp("n/→", "next card"),
		),
		NextDeck: key.NewBinding(
			key.WithKeys("]", "tab"),
			key.WithHelp("]", "next collection"),
		),
		PrevDeck: key.NewBinding(
			key.WithKeys("[", "shift+tab"),
			key.WithHelp("[", "prev collection"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "toggle field"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Flip, k.Next, k.NextDeck, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Flip, k.Next},
		{k.NextDeck, k.PrevDeck, k.Toggle},
		{k.Help, k.Quit},
	}
}
