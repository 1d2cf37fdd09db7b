package ui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/athena-uee/uee/internal/drives"
	"github.com/athena-uee/uee/internal/supervisor"
)

func TestConfirmTypedPhrase(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"exact", "sdb\n", true},
		{"surrounding whitespace", "  sdb \n", true},
		{"no newline", "sdb", true},
		{"wrong", "sdc\n", false},
		{"case sensitive", "SDB\n", false},
		{"full path", "/dev/sdb\n", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got := ConfirmTypedPhrase(strings.NewReader(tt.input), &out, "Format /dev/sdb", []string{"All data will be lost"}, "sdb")
			if got != tt.want {
				t.Errorf("ConfirmTypedPhrase(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if !strings.Contains(out.String(), "All data will be lost") {
				t.Error("warning not printed")
			}
			if !tt.want && tt.input != "" && !strings.Contains(out.String(), "Operation cancelled.") {
				t.Error("missing cancellation notice")
			}
		})
	}
}

func TestHeaderKeepsFieldOrder(t *testing.T) {
	h := NewHeader("Format", "uee format /dev/sdb ext4",
		Field{Key: "Device", Value: "/dev/sdb"},
		Field{Key: "Filesystem", Value: "ext4"},
		Field{Key: "Passes", Value: "2"},
	).SetWidth(80)
	out := h.String()

	dev := strings.Index(out, "Device")
	fs := strings.Index(out, "Filesystem")
	passes := strings.Index(out, "Passes")
	if dev == -1 || fs == -1 || passes == -1 {
		t.Fatalf("header missing fields:\n%s", out)
	}
	if !(dev < fs && fs < passes) {
		t.Errorf("fields out of order:\n%s", out)
	}
	if !strings.Contains(out, "FORMAT") {
		t.Error("title not upper-cased")
	}
}

func TestResultRender(t *testing.T) {
	ok := NewSuccessResult("Format", Field{Key: "Device", Value: "/dev/sdb"}).SetWidth(80).Render()
	if !strings.Contains(ok, "SUCCESS") || !strings.Contains(ok, "/dev/sdb") {
		t.Errorf("success box:\n%s", ok)
	}

	fail := NewFailureResult("Format", errors.New("exit code 3"), "check dmesg").SetWidth(80)
	fail.OutputTail = []string{"mkfs failed"}
	out := fail.Render()
	for _, want := range []string{"FAILED", "exit code 3", "check dmesg", "mkfs failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("failure box missing %q:\n%s", want, out)
		}
	}
}

func TestRenderDriveTable(t *testing.T) {
	out := RenderDriveTable([]drives.Record{
		{Name: "/dev/sda", Size: "500G", Model: "Samsung SSD"},
		{Name: "/dev/sdb", Size: "32G", Model: "USB Stick"},
	})
	for _, want := range []string{"DEVICE", "SIZE", "MODEL", "/dev/sda", "Samsung SSD", "32G"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

type scriptedProcess struct {
	polls      []supervisor.PollResult
	i          int
	output     []string
	terminated bool
}

func (p *scriptedProcess) Poll() supervisor.PollResult {
	if p.i >= len(p.polls) {
		return p.polls[len(p.polls)-1]
	}
	res := p.polls[p.i]
	p.i++
	p.output = append(p.output, res.Lines...)
	return res
}

func (p *scriptedProcess) Terminate() error {
	p.terminated = true
	return nil
}

func (p *scriptedProcess) Output() []string {
	return p.output
}

func newTestRunner(out *bytes.Buffer) *ScriptRunner {
	r := NewScriptRunner("Format /dev/sdb", "uee_format.sh", out, zap.NewNop())
	r.PollInterval = time.Millisecond
	return r
}

func TestScriptRunnerSuccess(t *testing.T) {
	proc := &scriptedProcess{polls: []supervisor.PollResult{
		{Lines: []string{"Pass 1 of 1..."}},
		{},
		{Lines: []string{"Pass 1 complete.", "Done"}, Finished: true},
	}}
	var out bytes.Buffer
	if err := newTestRunner(&out).Run(context.Background(), proc); err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, want := range []string{"Pass 1 of 1...", "Pass 1 complete.", "Done", "SUCCESS"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestScriptRunnerFailure(t *testing.T) {
	proc := &scriptedProcess{polls: []supervisor.PollResult{
		{Lines: []string{"Error: not a block device"}, Finished: true, ExitCode: 1},
	}}
	var out bytes.Buffer
	err := newTestRunner(&out).Run(context.Background(), proc)

	var exitErr *supervisor.ScriptExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("Run error = %v, want ScriptExitError", err)
	}
	if exitErr.ExitCode != 1 || exitErr.Script != "uee_format.sh" {
		t.Errorf("unexpected error fields: %+v", exitErr)
	}
	if len(exitErr.Tail) != 1 || exitErr.Tail[0] != "Error: not a block device" {
		t.Errorf("Tail = %v", exitErr.Tail)
	}
	if !strings.Contains(out.String(), "FAILED") {
		t.Errorf("missing failure box:\n%s", out.String())
	}
}

func TestScriptRunnerCancelTerminates(t *testing.T) {
	proc := &scriptedProcess{polls: []supervisor.PollResult{
		{Lines: []string{"working"}},
		{},
		{Finished: true, ExitCode: -1},
	}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := newTestRunner(&out).Run(ctx, proc)
	if !proc.terminated {
		t.Error("Terminate was not called")
	}
	var exitErr *supervisor.ScriptExitError
	if !errors.As(err, &exitErr) || exitErr.ExitCode != -1 {
		t.Fatalf("Run error = %v", err)
	}
	if !strings.Contains(out.String(), "terminated") {
		t.Errorf("missing terminated notice:\n%s", out.String())
	}
}
