package supervisor

import (
	"fmt"
	"strings"
)

// ExitCodeLaunchFailed is reported for a process that never started.
const ExitCodeLaunchFailed = 127

// LaunchError describes a child process that could not be started.
type LaunchError struct {
	Interpreter string
	Script      string
	Err         error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to launch %s %s: %v", e.Interpreter, e.Script, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// ScriptExitError is a script that ran and exited non-zero, or was killed.
type ScriptExitError struct {
	Script   string
	ExitCode int
	// Tail holds the last lines of output for context
	Tail []string
}

func (e *ScriptExitError) Error() string {
	msg := fmt.Sprintf("script %s failed with exit code %d", e.Script, e.ExitCode)
	if e.ExitCode < 0 {
		msg = fmt.Sprintf("script %s was terminated", e.Script)
	}
	if len(e.Tail) > 0 {
		msg += "\n" + strings.Join(e.Tail, "\n")
	}
	return msg
}
