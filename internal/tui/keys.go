package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	sync key.Binding
	quit key.Binding
}

var keys = keyMap{
	sync: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sync now")),
	quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}
