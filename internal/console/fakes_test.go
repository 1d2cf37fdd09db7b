package console

import (
	"context"
	"errors"
	"sync"

	"github.com/athena-uee/uee/internal/config"
	"github.com/athena-uee/uee/internal/drives"
	"github.com/athena-uee/uee/internal/scripts"
	"github.com/athena-uee/uee/internal/supervisor"
)

type fakeInventory struct {
	results [][]drives.Record
	errs    []error
	calls   int
}

func (f *fakeInventory) Refresh(ctx context.Context) ([]drives.Record, error) {
	i := f.calls
	if i >= len(f.results) {
		i = len(f.results) - 1
	}
	f.calls++
	return drives.Copy(f.results[i]), f.errs[i]
}

func (f *fakeInventory) Drives() []drives.Record {
	if f.calls == 0 {
		return []drives.Record{sentinelNoDrives}
	}
	i := f.calls - 1
	if i >= len(f.results) {
		i = len(f.results) - 1
	}
	return drives.Copy(f.results[i])
}

func inventoryOf(records ...drives.Record) *fakeInventory {
	return &fakeInventory{results: [][]drives.Record{records}, errs: []error{nil}}
}

var sentinelNoDrives = drives.Record{Name: drives.SentinelName, Model: drives.ModelNoDrives}

func emptyInventory() *fakeInventory {
	return &fakeInventory{
		results: [][]drives.Record{{sentinelNoDrives}},
		errs:    []error{&drives.InventoryError{Err: drives.ErrNoDrives}},
	}
}

type fakeStore struct {
	cfg     config.WipeConfig
	loadErr error
	saveErr error
	saved   []config.WipeConfig
}

func (f *fakeStore) Load() (config.WipeConfig, error) {
	if f.loadErr != nil {
		return config.Default(), f.loadErr
	}
	return f.cfg, nil
}

func (f *fakeStore) Save(cfg config.WipeConfig) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, cfg)
	return nil
}

func (f *fakeStore) Path() string { return "uee_config.yaml" }

type fakeMaterializer struct {
	err     error
	written []string
}

func (f *fakeMaterializer) Materialize(s scripts.Script) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.written = append(f.written, s.Name)
	return "/work/" + s.FileName, nil
}

type launchCall struct {
	script string
	args   []string
}

type fakeLauncher struct {
	calls []launchCall
	procs []*fakeProcess
}

func (f *fakeLauncher) Launch(script string, args ...string) Process {
	f.calls = append(f.calls, launchCall{script: script, args: args})
	p := &fakeProcess{}
	f.procs = append(f.procs, p)
	return p
}

// fakeProcess is fed by the test through emit and exit.
type fakeProcess struct {
	mu         sync.Mutex
	pending    []string
	output     []string
	finished   bool
	code       int
	terminated bool
}

func (p *fakeProcess) emit(lines ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending = append(p.pending, lines...)
}

func (p *fakeProcess) exit(code int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.finished = true
	p.code = code
}

func (p *fakeProcess) Poll() supervisor.PollResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	lines := p.pending
	p.pending = nil
	p.output = append(p.output, lines...)
	return supervisor.PollResult{Lines: lines, Finished: p.finished, ExitCode: p.code}
}

func (p *fakeProcess) Terminate() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.finished {
		return nil
	}
	p.terminated = true
	p.finished = true
	p.code = -9
	return nil
}

func (p *fakeProcess) Output() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.output...)
}

type harness struct {
	ctrl     *Controller
	inv      *fakeInventory
	store    *fakeStore
	mat      *fakeMaterializer
	launcher *fakeLauncher
}

func newHarness(inv *fakeInventory) *harness {
	h := &harness{
		inv:      inv,
		store:    &fakeStore{cfg: config.Default()},
		mat:      &fakeMaterializer{},
		launcher: &fakeLauncher{},
	}
	h.ctrl = NewController(Deps{
		Inventory:    h.inv,
		Store:        h.store,
		Materializer: h.mat,
		Launcher:     h.launcher,
	}, nil)
	return h
}

func (h *harness) start() *harness {
	h.ctrl.Start(context.Background())
	return h
}

// choose moves to row i from the top and presses Enter.
func (h *harness) choose(i int) {
	for h.ctrl.App().Selected != 0 {
		h.ctrl.HandleKey(KeyUp)
	}
	for j := 0; j < i; j++ {
		h.ctrl.HandleKey(KeyDown)
	}
	h.ctrl.HandleKey(KeyEnter)
}

var errDisk = errors.New("disk full")

// countEntries returns how many log entries equal msg.
func countEntries(log *LogBuffer, msg string) int {
	n := 0
	for _, e := range log.Entries() {
		if e == msg {
			n++
		}
	}
	return n
}
