package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the key bindings for the history browser.
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding

	// Actions
	Enter       key.Binding
	Back        key.Binding
	Copy        key.Binding
	CopySummary key.Binding
	CopyAllJSON key.Binding
	CopyAllYAML key.Binding
	Close       key.Binding
	Search      key.Binding
	Refresh     key.Binding
	ToggleOpen  key.Binding

	// Global
	Quit key.Binding
	Help key.Binding
}

// ShortHelp returns a short help message.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns a full help message.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Enter, k.Back, k.Copy, k.CopySummary},
		{k.Search, k.Refresh, k.Close, k.ToggleOpen},
		{k.Help, k.Quit},
	}
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       bind("↑/k", "up", "up", "k"),
		Down:     bind("↓/j", "down", "down", "j"),
		PageUp:   bind("pgup", "page up", "pgup", "ctrl+u"),
		PageDown: bind("pgdn", "page down", "pgdown", "ctrl+d"),
		Home:     bind("home/g", "go to top", "home", "g"),
		End:      bind("end/G", "go to bottom", "end", "G"),

		Enter:       bind("enter", "view details", "enter"),
		Back:        bind("esc", "back", "esc", "backspace"),
		Copy:        bind("c", "copy body", "c"),
		CopySummary: bind("s", "copy summary", "s"),
		CopyAllJSON: bind("C", "copy all as JSON", "C"),
		CopyAllYAML: bind("alt+c", "copy all as YAML", "alt+c"),
		Close:       bind("x", "close popup", "x"),
		Search:      bind("/", "search", "/"),
		Refresh:     bind("r", "reload", "r"),
		ToggleOpen:  bind("o", "open only", "o"),

		Quit: bind("q", "quit", "q", "ctrl+c"),
		Help: bind("?", "help", "?"),
	}
}

func bind(helpKey, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(helpKey, desc))
}
