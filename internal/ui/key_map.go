package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up         key.Binding
	down       key.Binding
	enter      key.Binding
	generate   key.Binding
	length     key.Binding
	style      key.Binding
	copy       key.Binding
	save       key.Binding
	regenerate key.Binding
	reset      key.Binding
	help       key.Binding
	quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		generate:   key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "generate")),
		length:     key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "length")),
		style:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "style")),
		copy:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy")),
		save:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		regenerate: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "regenerate")),
		reset:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new story")),
		help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.enter, k.generate, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.generate, k.length, k.style},
		{k.copy, k.save, k.regenerate, k.reset},
		{k.help, k.quit},
	}
}
