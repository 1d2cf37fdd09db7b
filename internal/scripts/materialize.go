package scripts

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// MaterializeError reports a script that could not be written or made
// executable.
type MaterializeError struct {
	Path string
	Err  error
}

func (e *MaterializeError) Error() string {
	return fmt.Sprintf("failed to write script %s: %v", e.Path, e.Err)
}

func (e *MaterializeError) Unwrap() error {
	return e.Err
}

// DefaultDir is where scripts are written when no directory is given.
func DefaultDir() string {
	return filepath.Join(os.TempDir(), "uee")
}

// Materializer writes script text to executable files.
type Materializer struct {
	dir    string
	logger *zap.Logger
}

// NewMaterializer writes into dir, or DefaultDir when dir is empty.
func NewMaterializer(dir string, logger *zap.Logger) *Materializer {
	if dir == "" {
		dir = DefaultDir()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Materializer{dir: dir, logger: logger}
}

// Materialize writes s into the working directory and returns its path.
func (m *Materializer) Materialize(s Script) (string, error) {
	if err := os.MkdirAll(m.dir, 0700); err != nil {
		return "", &MaterializeError{Path: m.dir, Err: err}
	}
	dest := filepath.Join(m.dir, s.FileName)
	if err := m.Write(s.Template, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// Write stores template at dest with mode 0755. Writing the same content
// twice leaves the same file.
func (m *Materializer) Write(template, dest string) error {
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".uee-script-*")
	if err != nil {
		return &MaterializeError{Path: dest, Err: err}
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	if _, err := tmp.WriteString(template); err != nil {
		cleanup()
		return &MaterializeError{Path: dest, Err: err}
	}
	// CreateTemp uses 0600; chmod explicitly so umask does not matter
	if err := tmp.Chmod(0755); err != nil {
		cleanup()
		return &MaterializeError{Path: dest, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &MaterializeError{Path: dest, Err: err}
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return &MaterializeError{Path: dest, Err: err}
	}

	m.logger.Debug("Wrote script",
		zap.String("path", dest),
		zap.Int("bytes", len(template)),
	)
	return nil
}
