package ui

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/athena-uee/uee/internal/scripts"
	"github.com/athena-uee/uee/internal/supervisor"
)

// DefaultTailLines is how much output a failure box repeats.
const DefaultTailLines = 8

// StreamingProcess is the part of a supervised script the runner needs.
type StreamingProcess interface {
	Poll() supervisor.PollResult
	Terminate() error
	Output() []string
}

// ScriptRunner streams a running script to a writer and prints the result.
type ScriptRunner struct {
	Title        string
	Script       string
	Out          io.Writer
	PollInterval time.Duration
	TailLines    int
	// Troubleshooting tips shown when the script fails.
	Troubleshooting []string

	logger *zap.Logger
}

func NewScriptRunner(title, script string, out io.Writer, logger *zap.Logger) *ScriptRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScriptRunner{
		Title:        title,
		Script:       script,
		Out:          out,
		PollInterval: 50 * time.Millisecond,
		TailLines:    DefaultTailLines,
		logger:       logger,
	}
}

// Run polls proc until it finishes. Cancelling ctx kills the script and
// keeps polling until its output is drained. A non-zero exit is returned
// as *supervisor.ScriptExitError.
func (r *ScriptRunner) Run(ctx context.Context, proc StreamingProcess) error {
	ticker := time.NewTicker(r.PollInterval)
	defer ticker.Stop()

	pass := color.New(color.FgGreen, color.Bold)
	cancelled := false

	for {
		res := proc.Poll()
		for _, line := range res.Lines {
			if _, _, ok := scripts.ParsePassStart(line); ok {
				pass.Fprintln(r.Out, "  "+line)
				continue
			}
			if _, ok := scripts.ParsePassComplete(line); ok {
				pass.Fprintln(r.Out, "  "+SuccessMarker+" "+line)
				continue
			}
			fmt.Fprintln(r.Out, OutputLineStyle.Render(line))
		}

		if res.Finished {
			return r.finish(res.ExitCode, proc.Output())
		}

		if !cancelled && ctx.Err() != nil {
			cancelled = true
			r.logger.Warn("Interrupted, terminating script", zap.String("script", r.Script))
			if err := proc.Terminate(); err != nil {
				r.logger.Error("Terminate failed", zap.Error(err))
			}
		}
		<-ticker.C
	}
}

func (r *ScriptRunner) finish(code int, output []string) error {
	fmt.Fprintln(r.Out)
	if code == 0 {
		r.logger.Info("Script finished", zap.String("script", r.Script))
		res := NewSuccessResult(r.Title, Field{Key: "Exit code", Value: "0"})
		fmt.Fprintln(r.Out, res.Render())
		return nil
	}

	err := &supervisor.ScriptExitError{
		Script:   r.Script,
		ExitCode: code,
		Tail:     supervisor.Tail(output, r.TailLines),
	}
	r.logger.Error("Script failed", zap.String("script", r.Script), zap.Int("exit_code", code))

	res := NewFailureResult(r.Title, fmt.Errorf("exit code %d", code), r.Troubleshooting...)
	if code < 0 {
		res.Error = fmt.Errorf("terminated before completion")
	}
	res.OutputTail = err.Tail
	fmt.Fprintln(r.Out, res.Render())
	return err
}
