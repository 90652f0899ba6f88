package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Open    key.Binding
	Back    key.Binding
	Focus   key.Binding
	Filter  key.Binding
	All     key.Binding
	Cat1    key.Binding
	Cat2    key.Binding
	Cat3    key.Binding
	New     key.Binding
	Edit    key.Binding
	Delete  key.Binding
	Colour  key.Binding
	Link    key.Binding
	Dismiss key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
	Down:    key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
	Open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	Back:    key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
	Focus:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
	Filter:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
	All:     key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "all")),
	Cat1:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "Politika")),
	Cat2:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "Sport")),
	Cat3:    key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "Tech")),
	New:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
	Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Colour:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "colour")),
	Link:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open link")),
	Dismiss: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// hints renders "key desc" pairs for the status bar.
func hints(bs ...key.Binding) string {
	out := ""
	for i, b := range bs {
		if i > 0 {
			out += "  "
		}
		h := b.Help()
		out += h.Key + " " + h.Desc
	}
	return out
}
