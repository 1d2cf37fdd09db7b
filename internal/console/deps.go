package console

import (
	"context"

	"github.com/athena-uee/uee/internal/config"
	"github.com/athena-uee/uee/internal/drives"
	"github.com/athena-uee/uee/internal/scripts"
	"github.com/athena-uee/uee/internal/supervisor"
)

// Inventory enumerates drives.
type Inventory interface {
	Refresh(ctx context.Context) ([]drives.Record, error)
	// Drives returns the last scan without rescanning.
	Drives() []drives.Record
}

// ConfigStore persists the wipe configuration.
type ConfigStore interface {
	Load() (config.WipeConfig, error)
	Save(cfg config.WipeConfig) error
	Path() string
}

// Materializer writes an embedded script to an executable file.
type Materializer interface {
	Materialize(s scripts.Script) (string, error)
}

// Process is a launched script as seen by the controller.
type Process interface {
	Poll() supervisor.PollResult
	Terminate() error
	Output() []string
}

// Launcher starts scripts.
type Launcher interface {
	Launch(script string, args ...string) Process
}

// SupervisorLauncher adapts a *supervisor.Supervisor to Launcher.
type SupervisorLauncher struct {
	Supervisor *supervisor.Supervisor
}

func (l SupervisorLauncher) Launch(script string, args ...string) Process {
	return l.Supervisor.Launch(script, args...)
}

// Deps are the collaborators a Controller drives.
type Deps struct {
	Inventory    Inventory
	Store        ConfigStore
	Materializer Materializer
	Launcher     Launcher
}
