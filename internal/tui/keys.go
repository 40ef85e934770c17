package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runger/dropdown/internal/surface"
)

type keyMap struct {
	Toggle key.Binding // enter / space
	Up     key.Binding
	Down   key.Binding
	Close  key.Binding
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Cancel key.Binding
	Quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Toggle: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter/space", "open/select")),
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Close:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Next:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev")),
		Submit: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "done")),
		Cancel: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "cancel")),
		Quit:   key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "cancel")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Up, k.Down, k.Next, k.Submit, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Up, k.Down, k.Close},
		{k.Next, k.Prev, k.Submit, k.Cancel, k.Quit},
	}
}

// surfaceKey maps a key press to the abstract key the dropdown understands.
func (k keyMap) surfaceKey(msg tea.KeyMsg) (surface.Key, bool) {
	switch {
	case msg.Type == tea.KeySpace:
		return surface.KeySpace, true
	case key.Matches(msg, k.Toggle):
		return surface.KeyEnter, true
	case key.Matches(msg, k.Up):
		return surface.KeyArrowUp, true
	case key.Matches(msg, k.Down):
		return surface.KeyArrowDown, true
	case key.Matches(msg, k.Close):
		return surface.KeyEscape, true
	default:
		return surface.KeyOther, false
	}
}
