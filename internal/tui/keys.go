package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit         key.Binding
	SignOut      key.Binding
	Focus        key.Binding
	Submit       key.Binding
	Cancel       key.Binding
	SwitchMode   key.Binding
	Up           key.Binding
	Down         key.Binding
	PrevNotebook key.Binding
	NextNotebook key.Binding
	NewNotebook  key.Binding
	DelNotebook  key.Binding
	Toggle       key.Binding
	Delete       key.Binding
	Yes          key.Binding
	No           key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:         key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		SignOut:      key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "sign out")),
		Focus:        key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "focus")),
		Submit:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		Cancel:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		SwitchMode:   key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "sign in/sign up")),
		Up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PrevNotebook: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev notebook")),
		NextNotebook: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next notebook")),
		NewNotebook:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new notebook")),
		DelNotebook:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete notebook")),
		Toggle:       key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		Delete:       key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete task")),
		Yes:          key.NewBinding(key.WithKeys("y", "enter")),
		No:           key.NewBinding(key.WithKeys("n", "esc")),
	}
}
