package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/athena-uee/uee/internal/console"
)

func sampleViews() map[string]console.View {
	many := make([]string, 200)
	for i := range many {
		many[i] = strings.Repeat("x", i%150)
	}
	drivesList := make([]string, 40)
	for i := range drivesList {
		drivesList[i] = "/dev/sd" + string(rune('a'+i%26)) + " (931.5G, A very long model name that keeps going)"
	}

	return map[string]console.View{
		"main": {
			Screen:  console.ScreenMainMenu,
			ShowArt: true,
			Options: []string{"Basic Mode", "Advanced Mode", "Android Mode", "Select Drive (current: /dev/sdb)", "View Log", "Exit"},
			Footer:  console.FooterNavigate,
		},
		"advanced": {
			Screen:      console.ScreenAdvancedMenu,
			Title:       "ADVANCED MODE",
			Description: "Configure the secure wipe settings, then start.",
			Fields:      []console.Field{{Label: "passes", Value: "3"}, {Label: "pattern", Value: "random"}},
			Options:     []string{"Increase passes", "Decrease passes", "Cycle pattern", "Toggle verify", "Save config", "START ERASE", "Back"},
			Selected:    6,
			Warning:     "START ERASE will use these settings, then format.",
			Footer:      console.FooterNavigate,
		},
		"drives": {
			Screen:   console.ScreenSelectDrive,
			Title:    "SELECT DRIVE",
			Options:  drivesList,
			Selected: 33,
			Warning:  "WARNING: This will permanently destroy data.",
		},
		"confirm": {
			Screen: console.ScreenConfirmFormat,
			Title:  "CONFIRM OPERATION",
			Fields: []console.Field{{Label: "Drive", Value: "/dev/sdb   14.9G   Flash"}},
			Prompt: "Type 'sdb' to begin, or Esc to cancel.",
			Footer: console.FooterConfirmInput,
		},
		"running": {
			Screen:     console.ScreenRunningScript,
			Title:      "Wiping/Formatting /dev/sdb...",
			Lines:      many,
			Running:    true,
			ShowPasses: true,
			Progress:   console.PassProgress{Current: 1, Total: 3},
			Footer:     console.FooterRunning,
		},
		"log": {
			Screen:     console.ScreenViewLog,
			Title:      "MESSAGE LOG",
			EmptyLines: "(no log messages)",
			Footer:     console.FooterAnyKey,
		},
	}
}

func TestRenderFitsTerminal(t *testing.T) {
	sizes := []struct{ w, h int }{
		{120, 40}, {80, 24}, {40, 12}, {20, 6}, {10, 3}, {1, 1},
	}
	for name, v := range sampleViews() {
		for _, sz := range sizes {
			out := Render(v, Frame{Width: sz.w, Height: sz.h, Spinner: "⣾", Input: "> sd", Progress: strings.Repeat("█", 40)})
			lines := strings.Split(out, "\n")
			if len(lines) > sz.h {
				t.Errorf("%s at %dx%d: %d lines exceed height", name, sz.w, sz.h, len(lines))
			}
			for i, l := range lines {
				if w := ansi.StringWidth(l); w > sz.w {
					t.Errorf("%s at %dx%d: line %d is %d wide", name, sz.w, sz.h, i, w)
				}
			}
		}
	}
}

func TestRenderZeroSize(t *testing.T) {
	if out := Render(sampleViews()["main"], Frame{}); out != "" {
		t.Errorf("expected empty output, got %q", out)
	}
}

func TestRenderKeepsSelectionVisible(t *testing.T) {
	v := sampleViews()["drives"]
	out := ansi.Strip(Render(v, Frame{Width: 100, Height: 16}))
	if !strings.Contains(out, "→ "+v.Options[v.Selected][:8]) {
		t.Errorf("selected row not visible:\n%s", out)
	}
}

func TestRenderShowsOutputTail(t *testing.T) {
	v := console.View{
		Screen:   console.ScreenRunningScript,
		Title:    "Running Android Wipe Script...",
		Lines:    []string{"first", "second", "third", "last line"},
		Finished: true,
		ExitCode: 2,
		Footer:   console.FooterFinished,
	}
	out := ansi.Strip(Render(v, Frame{Width: 60, Height: 20}))
	for _, want := range []string{"last line", "first", "Failed (exit code 2)", console.FooterFinished} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}

	small := ansi.Strip(Render(v, Frame{Width: 60, Height: 9}))
	if !strings.Contains(small, "last line") {
		t.Errorf("expected newest line kept on a short screen:\n%s", small)
	}
}

func TestRenderArtFallback(t *testing.T) {
	v := sampleViews()["main"]
	wide := ansi.Strip(Render(v, Frame{Width: 100, Height: 40}))
	if !strings.Contains(wide, "UUUUUUUU") {
		t.Error("expected full banner on a large terminal")
	}
	narrow := ansi.Strip(Render(v, Frame{Width: 50, Height: 20}))
	if strings.Contains(narrow, "UUUUUUUU") {
		t.Error("full banner must not be drawn when it does not fit")
	}
	if !strings.Contains(narrow, "Basic Mode") {
		t.Error("menu must survive a narrow terminal")
	}
}

func TestRenderEmptyLog(t *testing.T) {
	out := ansi.Strip(Render(sampleViews()["log"], Frame{Width: 60, Height: 12}))
	if !strings.Contains(out, "(no log messages)") {
		t.Errorf("expected empty log marker:\n%s", out)
	}
}
