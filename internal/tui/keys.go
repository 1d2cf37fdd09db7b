package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/athena-uee/uee/internal/console"
)

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Enter     key.Binding
	Back      key.Binding
	Rescan    key.Binding
	Quit      key.Binding
	Interrupt key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc/backspace", "back"),
		),
		Rescan: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Interrupt: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "abort"),
		),
	}
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Back, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter},
		{k.Back, k.Rescan, k.Quit, k.Interrupt},
	}
}

// bindingsFor is the footer help for menu screens; other screens use the
// view's own footer text.
func (k keyMap) bindingsFor(screen console.Screen) []key.Binding {
	switch screen {
	case console.ScreenMainMenu:
		return []key.Binding{k.Up, k.Down, k.Enter, k.Quit}
	case console.ScreenSelectDrive:
		return []key.Binding{k.Up, k.Down, k.Enter, k.Back, k.Rescan, k.Quit}
	case console.ScreenBasicMenu, console.ScreenAdvancedMenu, console.ScreenSelectFilesystem:
		return k.ShortHelp()
	}
	return nil
}

// translate maps a key press to the controller's vocabulary.
func (k keyMap) translate(msg tea.KeyMsg) console.Key {
	switch {
	case key.Matches(msg, k.Interrupt):
		return console.KeyInterrupt
	case key.Matches(msg, k.Up):
		return console.KeyUp
	case key.Matches(msg, k.Down):
		return console.KeyDown
	case key.Matches(msg, k.Enter):
		return console.KeyEnter
	case key.Matches(msg, k.Back):
		return console.KeyBack
	case key.Matches(msg, k.Quit):
		return console.KeyQuit
	case key.Matches(msg, k.Rescan):
		return console.KeyRescan
	}
	return console.KeyOther
}
