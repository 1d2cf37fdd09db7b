package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/athena-uee/uee/internal/config"
	"github.com/athena-uee/uee/internal/console"
	"github.com/athena-uee/uee/internal/drives"
	"github.com/athena-uee/uee/internal/scripts"
	"github.com/athena-uee/uee/internal/supervisor"
)

type stubInventory struct{}

func (stubInventory) Refresh(ctx context.Context) ([]drives.Record, error) {
	return []drives.Record{{Name: "/dev/sdb", Size: "14.9G", Model: "Flash"}}, nil
}

func (stubInventory) Drives() []drives.Record { return nil }

type stubStore struct{}

func (stubStore) Load() (config.WipeConfig, error) { return config.Default(), nil }
func (stubStore) Save(config.WipeConfig) error     { return nil }
func (stubStore) Path() string                     { return "uee_config.yaml" }

type stubMaterializer struct{}

func (stubMaterializer) Materialize(s scripts.Script) (string, error) {
	return "/work/" + s.FileName, nil
}

type stubProcess struct{}

func (stubProcess) Poll() supervisor.PollResult {
	return supervisor.PollResult{Lines: []string{"done"}, Finished: true}
}
func (stubProcess) Terminate() error { return nil }
func (stubProcess) Output() []string { return []string{"done"} }

type stubLauncher struct {
	launched []string
}

func (l *stubLauncher) Launch(script string, args ...string) console.Process {
	l.launched = append(l.launched, script)
	return stubProcess{}
}

func newTestModel(t *testing.T) (Model, *console.Controller, *stubLauncher) {
	t.Helper()
	launcher := &stubLauncher{}
	ctrl := console.NewController(console.Deps{
		Inventory:    stubInventory{},
		Store:        stubStore{},
		Materializer: stubMaterializer{},
		Launcher:     launcher,
	}, nil)
	ctrl.Start(context.Background())
	return NewModel(ctrl), ctrl, launcher
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTranslateKeys(t *testing.T) {
	keys := newKeyMap()
	tests := []struct {
		msg  tea.KeyMsg
		want console.Key
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, console.KeyUp},
		{runes("k"), console.KeyUp},
		{tea.KeyMsg{Type: tea.KeyDown}, console.KeyDown},
		{runes("j"), console.KeyDown},
		{tea.KeyMsg{Type: tea.KeyEnter}, console.KeyEnter},
		{tea.KeyMsg{Type: tea.KeyEsc}, console.KeyBack},
		{tea.KeyMsg{Type: tea.KeyBackspace}, console.KeyBack},
		{runes("q"), console.KeyQuit},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, console.KeyInterrupt},
		{runes("r"), console.KeyRescan},
		{runes("x"), console.KeyOther},
	}
	for _, tt := range tests {
		if got := keys.translate(tt.msg); got != tt.want {
			t.Errorf("%q: expected %v, got %v", tt.msg.String(), tt.want, got)
		}
	}
}

func TestModelConfirmFlow(t *testing.T) {
	m, ctrl, launcher := newTestModel(t)
	m = send(m, tea.WindowSizeMsg{Width: 100, Height: 30})

	// Basic Mode, Quick Format (ext4)
	m = send(m, tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyEnter})
	if ctrl.View().Screen != console.ScreenConfirmFormat {
		t.Fatalf("expected confirm screen, got %v", ctrl.View().Screen)
	}
	if !m.Input.Focused() {
		t.Fatal("expected text entry focused on the confirm screen")
	}

	// q is text here, not quit; backspace edits
	m = send(m, runes("q"), tea.KeyMsg{Type: tea.KeyBackspace}, runes("s"), runes("d"), runes("b"))
	if m.Input.Value() != "sdb" {
		t.Fatalf("expected typed value sdb, got %q", m.Input.Value())
	}

	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	if len(launcher.launched) != 1 {
		t.Fatalf("expected one launch, got %d", len(launcher.launched))
	}
	if m.Input.Focused() {
		t.Error("text entry should be released after confirming")
	}

	m = send(m, tickMsg{})
	if v := ctrl.View(); !v.Finished {
		t.Errorf("expected tick to observe the finished script, got %+v", v)
	}

	m = send(m, runes("x"))
	if ctrl.View().Screen != console.ScreenMainMenu {
		t.Errorf("expected MainMenu after acknowledge, got %v", ctrl.View().Screen)
	}
}

func TestModelEscCancelsConfirm(t *testing.T) {
	m, ctrl, launcher := newTestModel(t)
	// Android Mode is the third row
	m = send(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})
	if ctrl.View().Screen != console.ScreenConfirmAndroidWipe {
		t.Fatalf("expected android confirm, got %v", ctrl.View().Screen)
	}
	m = send(m, runes("CONF"), tea.KeyMsg{Type: tea.KeyEsc})
	if ctrl.View().Screen != console.ScreenMainMenu || len(launcher.launched) != 0 {
		t.Error("expected Esc to cancel without launching")
	}
	_ = m
}

func TestModelQuit(t *testing.T) {
	m, _, _ := newTestModel(t)
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestModelViewRenders(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = send(m, tea.WindowSizeMsg{Width: 90, Height: 30})
	if out := m.View(); out == "" {
		t.Error("expected non-empty view")
	}
}
