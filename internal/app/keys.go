package app

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the list-mode key bindings.
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Open      key.Binding
	Add       key.Binding
	Star      key.Binding
	Customize key.Binding
	CopyPath  key.Binding
	Delete    key.Binding
	Refresh   key.Binding
	Readme    key.Binding
	Filter    key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add project")),
	Star:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "star")),
	Customize: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "customize")),
	CopyPath:  key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy path")),
	Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Readme:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "readme")),
	Filter:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}
