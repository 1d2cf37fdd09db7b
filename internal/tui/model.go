// Package tui is the full-screen Bubble Tea front end for the console state
// machine.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/athena-uee/uee/internal/console"
)

// TickInterval is how often a running script is polled.
const TickInterval = 50 * time.Millisecond

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(TickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model adapts a console.Controller to tea.Model.
type Model struct {
	ctrl *console.Controller
	keys keyMap

	Help     help.Model
	Input    textinput.Model
	Spinner  spinner.Model
	Progress progress.Model

	Width  int
	Height int
}

// NewModel wraps ctrl. The controller should already be started.
func NewModel(ctrl *console.Controller) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 64
	ti.Width = 32

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	return Model{
		ctrl:     ctrl,
		keys:     newKeyMap(),
		Help:     help.New(),
		Input:    ti,
		Spinner:  s,
		Progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		Width:    80,
		Height:   24,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tick(), m.Spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Help.Width = msg.Width
		m.Progress.Width = progressWidth(msg.Width)
		return m, nil

	case tickMsg:
		m.ctrl.Tick()
		return m, tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.confirming() {
		var cmd tea.Cmd
		m.Input, cmd = m.Input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) confirming() bool {
	switch m.ctrl.View().Screen {
	case console.ScreenConfirmFormat, console.ScreenConfirmAndroidWipe:
		return true
	}
	return false
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys.translate(msg)

	if m.confirming() {
		switch msg.Type {
		case tea.KeyCtrlC:
			m.ctrl.HandleKey(console.KeyInterrupt)
		case tea.KeyEsc:
			m.ctrl.HandleKey(console.KeyBack)
		case tea.KeyEnter:
			m.ctrl.SubmitConfirmation(m.Input.Value())
		default:
			// everything else, backspace included, edits the text
			var cmd tea.Cmd
			m.Input, cmd = m.Input.Update(msg)
			return m, cmd
		}
		return m.afterKey()
	}

	m.ctrl.HandleKey(k)
	return m.afterKey()
}

// afterKey quits or prepares the text entry for a confirmation screen.
func (m Model) afterKey() (tea.Model, tea.Cmd) {
	if m.ctrl.Done() {
		return m, tea.Quit
	}
	if m.confirming() {
		if !m.Input.Focused() {
			m.Input.Reset()
			return m, m.Input.Focus()
		}
		return m, nil
	}
	if m.Input.Focused() {
		m.Input.Blur()
		m.Input.Reset()
	}
	return m, nil
}

func (m Model) View() string {
	v := m.ctrl.View()

	frame := Frame{
		Width:   m.Width,
		Height:  m.Height,
		Spinner: m.Spinner.View(),
		Input:   m.Input.View(),
	}
	if v.ShowPasses {
		frame.Progress = m.Progress.ViewAs(v.Progress.Fraction())
	}
	if bindings := m.keys.bindingsFor(v.Screen); bindings != nil {
		frame.Help = m.Help.ShortHelpView(bindings)
	}
	return Render(v, frame)
}

func progressWidth(termWidth int) int {
	w := termWidth - 24
	if w > 60 {
		w = 60
	}
	if w < 10 {
		w = 10
	}
	return w
}

// Run takes over the terminal until the operator exits. Any script still
// running is killed on the way out.
func Run(ctrl *console.Controller) error {
	defer ctrl.Shutdown()
	p := tea.NewProgram(NewModel(ctrl), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
