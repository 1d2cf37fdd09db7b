package supervisor

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// DrainGrace is how long output is still read after the script exits.
const DrainGrace = 200 * time.Millisecond

// Config holds how scripts are started.
type Config struct {
	// Interpreter runs the script file.
	// Default: "/bin/bash"
	Interpreter string

	// MaxLineBytes bounds one output line; longer lines are split.
	// Default: 64 KiB
	MaxLineBytes int
}

// DefaultConfig returns a Config with the defaults.
func DefaultConfig() Config {
	return Config{
		Interpreter:  "/bin/bash",
		MaxLineBytes: 64 * 1024,
	}
}

// Supervisor launches scripts.
type Supervisor struct {
	config Config
	logger *zap.Logger
}

// New returns a Supervisor. Zero fields in config take their defaults.
func New(config Config, logger *zap.Logger) *Supervisor {
	def := DefaultConfig()
	if config.Interpreter == "" {
		config.Interpreter = def.Interpreter
	}
	if config.MaxLineBytes <= 0 {
		config.MaxLineBytes = def.MaxLineBytes
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Supervisor{config: config, logger: logger}
}

// PollResult is what one Poll call observed.
type PollResult struct {
	// Lines are the complete lines that arrived since the previous Poll.
	Lines []string
	// Finished is set once the child has exited and every line is drained.
	Finished bool
	// ExitCode is valid when Finished is set. It is negative when the child
	// was killed by a signal.
	ExitCode int
}

// Process is one launched script.
type Process struct {
	RunID  string
	Script string
	Args   []string

	logger  *zap.Logger
	cmd     *exec.Cmd
	started time.Time
	done    chan struct{}

	mu         sync.Mutex
	pending    []string
	output     []string
	exitCode   int
	exited     bool
	terminated bool
}

// Launch starts interpreter script args... and returns immediately.
func (s *Supervisor) Launch(script string, args ...string) *Process {
	p := &Process{
		RunID:   uuid.New().String(),
		Script:  script,
		Args:    append([]string(nil), args...),
		started: time.Now(),
		done:    make(chan struct{}),
	}
	p.logger = s.logger.With(
		zap.String("run_id", p.RunID),
		zap.String("script", filepath.Base(script)),
	)

	cmdArgs := append([]string{script}, args...)
	cmd := exec.Command(s.config.Interpreter, cmdArgs...)
	// own process group so Terminate reaches dd and other grandchildren
	// Pdeathsig kills the script if uee dies without Terminate
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true, Pdeathsig: syscall.SIGKILL}

	r, w, err := os.Pipe()
	if err != nil {
		p.fail(&LaunchError{Interpreter: s.config.Interpreter, Script: script, Err: err})
		return p
	}
	cmd.Stdout = w
	cmd.Stderr = w

	if err := cmd.Start(); err != nil {
		r.Close()
		w.Close()
		p.fail(&LaunchError{Interpreter: s.config.Interpreter, Script: script, Err: err})
		return p
	}
	// the child holds its own copy
	w.Close()
	p.cmd = cmd

	p.logger.Info("Launched script",
		zap.String("interpreter", s.config.Interpreter),
		zap.Strings("args", args),
		zap.Int("pid", cmd.Process.Pid),
	)

	readDone := make(chan struct{})
	go p.read(r, s.config.MaxLineBytes, readDone)
	go p.wait(r, readDone)
	return p
}

func (p *Process) fail(err *LaunchError) {
	p.logger.Error("Script launch failed", zap.Error(err))
	p.pending = []string{err.Error()}
	p.exitCode = ExitCodeLaunchFailed
	p.exited = true
	close(p.done)
}

// read queues lines until the pipe reaches EOF or its read deadline.
func (p *Process) read(r *os.File, maxLine int, finished chan<- struct{}) {
	defer close(finished)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLine)
	scanner.Split(splitTerminalLines(maxLine))
	for scanner.Scan() {
		line := ansi.Strip(scanner.Text())
		p.mu.Lock()
		p.pending = append(p.pending, line)
		p.mu.Unlock()
	}
	switch err := scanner.Err(); {
	case err == nil:
	case errors.Is(err, os.ErrDeadlineExceeded):
		p.logger.Debug("Output still open after exit, descendants hold the pipe")
	default:
		p.logger.Warn("Output reader stopped", zap.Error(err))
		p.mu.Lock()
		p.pending = append(p.pending, fmt.Sprintf("[output truncated: %v]", err))
		p.mu.Unlock()
	}
}

// wait reaps the child. Descendants may keep the pipe open after the
// script itself exits, so the reader only gets DrainGrace to finish.
func (p *Process) wait(r *os.File, readDone <-chan struct{}) {
	defer r.Close()

	err := p.cmd.Wait()
	code := 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		} else {
			code = -1
		}
	}

	// reaped: Terminate must not signal the group from here on
	p.mu.Lock()
	p.exitCode = code
	p.exited = true
	terminated := p.terminated
	p.mu.Unlock()

	if err := r.SetReadDeadline(time.Now().Add(DrainGrace)); err != nil {
		p.logger.Warn("Cannot bound output drain", zap.Error(err))
	}
	<-readDone

	p.logger.Info("Script exited",
		zap.Int("exit_code", code),
		zap.Bool("terminated", terminated),
		zap.Duration("duration", time.Since(p.started)),
	)
	close(p.done)
}

// Poll drains queued lines without blocking.
func (p *Process) Poll() PollResult {
	// check exit before draining so no line can arrive after Finished
	finished := false
	select {
	case <-p.done:
		finished = true
	default:
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	lines := p.pending
	p.pending = nil
	p.output = append(p.output, lines...)

	res := PollResult{Lines: lines, Finished: finished}
	if finished {
		res.ExitCode = p.exitCode
	}
	return res
}

// Output returns every line drained so far.
func (p *Process) Output() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.output))
	copy(out, p.output)
	return out
}

// ExitCode returns the exit status once the child has exited.
func (p *Process) ExitCode() (int, bool) {
	select {
	case <-p.done:
	default:
		return 0, false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exitCode, true
}

// Terminate kills the child's whole process group. The process then
// finishes with a negative exit code. It is a no-op once the child exited.
func (p *Process) Terminate() error {
	p.mu.Lock()
	if p.exited || p.cmd == nil || p.cmd.Process == nil {
		p.mu.Unlock()
		return nil
	}
	p.terminated = true
	pid := p.cmd.Process.Pid
	p.mu.Unlock()

	p.logger.Warn("Terminating script", zap.Int("pgid", pid))
	if err := unix.Kill(-pid, unix.SIGKILL); err != nil && !errors.Is(err, unix.ESRCH) {
		return fmt.Errorf("failed to kill process group %d: %w", pid, err)
	}
	return nil
}

// Tail returns the last n drained lines.
func Tail(lines []string, n int) []string {
	if n <= 0 || len(lines) == 0 {
		return nil
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	out := make([]string, len(lines))
	copy(out, lines)
	return out
}
