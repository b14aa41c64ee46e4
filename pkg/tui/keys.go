package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap collects the browser keybindings so the status bar can render
// help text from one place.
type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Commit key.Binding
	Back   key.Binding
	Delete key.Binding
	Sync   key.Binding
	Filter key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "preview prev")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "preview next")),
	Commit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "commit")),
	Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel preview")),
	Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Sync:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sync catalog")),
	Filter: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// helpBindings is the order help entries appear in the status bar.
func helpBindings() []key.Binding {
	return []key.Binding{
		keys.Up, keys.Down, keys.Commit, keys.Back,
		keys.Delete, keys.Sync, keys.Filter, keys.Quit,
	}
}
