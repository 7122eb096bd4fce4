package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	PrevWeek key.Binding
	NextWeek key.Binding
	PrevDay  key.Binding
	NextDay  key.Binding
	Today    key.Binding
	Add      key.Binding
	Wake     key.Binding
	Sleep    key.Binding
	Undo     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		PrevWeek: key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "prev week")),
		NextWeek: key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "next week")),
		PrevDay:  key.NewBinding(key.WithKeys("k", "up", "left"), key.WithHelp("k/←", "prev day")),
		NextDay:  key.NewBinding(key.WithKeys("j", "down", "right"), key.WithHelp("j/→", "next day")),
		Today:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add entry")),
		Wake:     key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "wake")),
		Sleep:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sleep")),
		Undo:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete last entry")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevWeek, k.NextWeek, k.PrevDay, k.NextDay, k.Today, k.Add, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevWeek, k.NextWeek, k.PrevDay, k.NextDay, k.Today},
		{k.Add, k.Wake, k.Sleep, k.Undo, k.Quit},
	}
}
