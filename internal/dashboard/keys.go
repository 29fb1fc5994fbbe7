package dashboard

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the dashboard bindings. It satisfies help.KeyMap so the
// footer and the help overlay stay in sync with what Update handles.
type keyMap struct {
	Quit     key.Binding
	Refresh  key.Binding
	Help     key.Binding
	ScrollUp key.Binding
	ScrollDn key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	ScrollUp: key.NewBinding(
		key.WithKeys("up", "k", "pgup"),
		key.WithHelp("↑/k", "scroll up"),
	),
	ScrollDn: key.NewBinding(
		key.WithKeys("down", "j", "pgdown"),
		key.WithHelp("↓/j", "scroll down"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Refresh, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Quit, k.Refresh},
		{k.ScrollUp, k.ScrollDn, k.Help},
	}
}
