package ui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit      key.Binding
	Help      key.Binding
	Dashboard key.Binding
	Events    key.Binding
	Enter     key.Binding
	Close     key.Binding
	Refresh   key.Binding
	Filter    key.Binding
	ShowFull  key.Binding
	ViewErrs  key.Binding
	ViewAll   key.Binding
	PrevPage  key.Binding
	NextPage  key.Binding
	Up        key.Binding
	Down      key.Binding
}

var Keys = KeyMap{
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Dashboard: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "dashboard")),
	Events:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "events")),
	Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
	Close:     key.NewBinding(key.WithKeys("esc", "q", "x"), key.WithHelp("esc", "close")),
	Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Filter:    key.NewBinding(key.WithKeys("S", "/"), key.WithHelp("S", "filter")),
	ShowFull:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "show full")),
	ViewErrs:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "view errors")),
	ViewAll:   key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "view all")),
	PrevPage:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("<-", "prev page")),
	NextPage:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("->", "next page")),
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k/up", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j/down", "down")),
}
