package console

import (
	"context"
	"errors"
	"strings"

	"github.com/athena-uee/uee/internal/config"
	"github.com/athena-uee/uee/internal/drives"
	"github.com/athena-uee/uee/internal/scripts"
	"go.uber.org/zap"
)

// AndroidConfirmWord must be typed to start an Android wipe.
const AndroidConfirmWord = "CONFIRM"

// App is the whole interaction state. Transition functions take an App and
// return the next one.
type App struct {
	State    State
	Selected int

	Drives     []drives.Record
	DriveIndex int

	Config config.WipeConfig
	Log    *LogBuffer

	// Quit is set when the operator chose to exit.
	Quit bool
}

// Controller applies keys and confirmations to an App.
type Controller struct {
	app    App
	deps   Deps
	ctx    context.Context
	logger *zap.Logger
}

// NewController returns a controller in MainMenu with default settings.
// Call Start before the first frame.
func NewController(deps Deps, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	cached := deps.Inventory.Drives()
	if len(cached) == 0 {
		cached = []drives.Record{{Name: drives.SentinelName, Model: drives.ModelNoDrives}}
	}
	return &Controller{
		app: App{
			State:  MainMenu{},
			Drives: cached,
			Config: config.Default(),
			Log:    NewLogBuffer(logger.Named("oplog")),
		},
		deps:   deps,
		ctx:    context.Background(),
		logger: logger,
	}
}

// Start loads the saved configuration and scans drives once.
func (c *Controller) Start(ctx context.Context) {
	c.ctx = ctx
	cfg, err := c.deps.Store.Load()
	if err != nil {
		c.app.Log.Addf("Config error, using defaults: %v", err)
	}
	c.app.Config = cfg
	c.app = c.scanDrives(c.app)
}

// App returns a copy of the current state.
func (c *Controller) App() App {
	return c.app
}

// Done reports whether the operator asked to exit.
func (c *Controller) Done() bool {
	return c.app.Quit
}

// HandleKey applies one key press.
func (c *Controller) HandleKey(k Key) {
	before := c.app.State.Screen()
	c.app = c.handleKey(c.app, k)
	if after := c.app.State.Screen(); after != before {
		c.logger.Debug("State change",
			zap.Stringer("from", before),
			zap.Stringer("to", after),
		)
	}
}

// SubmitConfirmation hands the text typed on a confirmation screen to the
// machine. Outside the confirmation states it does nothing.
func (c *Controller) SubmitConfirmation(text string) {
	c.app = c.submit(c.app, text)
}

// Tick polls a running script. It reports whether anything changed.
func (c *Controller) Tick() bool {
	next, changed := c.tick(c.app)
	c.app = next
	return changed
}

// Shutdown kills a running script, if any.
func (c *Controller) Shutdown() {
	if rs, ok := c.app.State.(RunningScript); ok && !rs.Finished {
		if err := rs.Proc.Terminate(); err != nil {
			c.logger.Error("Failed to terminate script on shutdown", zap.Error(err))
		}
	}
}

func (c *Controller) handleKey(app App, k Key) App {
	if k == KeyNone {
		return app
	}
	if k == KeyInterrupt {
		c.Shutdown()
		app.Quit = true
		return app
	}

	switch s := app.State.(type) {
	case RunningScript:
		return c.onRunningKey(app, s, k)
	case ViewLog:
		return enter(app, MainMenu{})
	case ConfirmFormat, ConfirmAndroidWipe:
		// text entry belongs to the front end; only Back applies here
		if k == KeyBack {
			app.Log.Add("Operation cancelled.")
			return enter(app, MainMenu{})
		}
		return app
	}

	n := len(options(app))
	switch k {
	case KeyUp:
		if n > 0 {
			app.Selected = (app.Selected - 1 + n) % n
		}
	case KeyDown:
		if n > 0 {
			app.Selected = (app.Selected + 1) % n
		}
	case KeyBack:
		if _, ok := app.State.(MainMenu); !ok {
			return enter(app, MainMenu{})
		}
	case KeyQuit:
		app.Quit = true
	case KeyRescan:
		if _, ok := app.State.(SelectDrive); ok {
			app = c.scanDrives(app)
			app.Selected = clamp(app.Selected, len(options(app)))
		}
	case KeyEnter:
		return c.commit(app)
	}
	return app
}

func (c *Controller) commit(app App) App {
	sel := app.Selected
	switch s := app.State.(type) {
	case MainMenu:
		return c.onMainMenu(app, sel)
	case BasicMenu:
		return c.onBasicMenu(app, sel)
	case AdvancedMenu:
		return c.onAdvancedMenu(app, sel)
	case SelectFilesystem:
		return c.onSelectFilesystem(app, s, sel)
	case SelectDrive:
		return c.onSelectDrive(app, sel)
	}
	return app
}

func (c *Controller) onMainMenu(app App, sel int) App {
	switch sel {
	case 0:
		return enter(app, BasicMenu{})
	case 1:
		return enter(app, AdvancedMenu{})
	case 2:
		return enter(app, ConfirmAndroidWipe{Op: PendingOperation{Kind: OpAndroidWipe, Method: MethodAndroid}})
	case 3:
		if !drives.Usable(app.Drives) {
			app = c.scanDrives(app)
		}
		if !drives.Usable(app.Drives) {
			app.Log.Add("No drives to select.")
			return app
		}
		return enter(app, SelectDrive{})
	case 4:
		return enter(app, ViewLog{})
	case 5:
		app.Quit = true
	}
	return app
}

func (c *Controller) onBasicMenu(app App, sel int) App {
	fs := []scripts.Filesystem{scripts.FilesystemExt4, scripts.FilesystemFAT32}
	if sel >= len(fs) {
		return enter(app, MainMenu{})
	}
	app.Config.ApplyQuickPreset()
	return c.enterConfirmFormat(app, PendingOperation{
		Kind:       OpFormat,
		Filesystem: fs[sel],
		Method:     MethodBasic,
	})
}

func (c *Controller) onAdvancedMenu(app App, sel int) App {
	switch sel {
	case 0:
		app.Config.IncreasePasses()
	case 1:
		app.Config.DecreasePasses()
	case 2:
		app.Config.CyclePattern()
	case 3:
		app.Config.ToggleVerify()
	case 4:
		if err := c.deps.Store.Save(app.Config); err != nil {
			app.Log.Addf("Failed to save config: %v", err)
		} else {
			app.Log.Addf("Config saved to %s", c.deps.Store.Path())
		}
	case 5:
		return enter(app, SelectFilesystem{Op: PendingOperation{Kind: OpFormat, Method: MethodAdvanced}})
	default:
		return enter(app, MainMenu{})
	}
	return app
}

func (c *Controller) onSelectFilesystem(app App, s SelectFilesystem, sel int) App {
	all := scripts.Filesystems()
	if sel >= len(all) {
		if s.Op.Method == MethodAdvanced {
			return enter(app, AdvancedMenu{})
		}
		return enter(app, MainMenu{})
	}
	op := s.Op
	op.Filesystem = all[sel]
	return c.enterConfirmFormat(app, op)
}

func (c *Controller) onSelectDrive(app App, sel int) App {
	if sel >= len(app.Drives) {
		return enter(app, MainMenu{})
	}
	d := app.Drives[sel]
	if d.IsSentinel() {
		app.Log.Add("No drives to select.")
		return enter(app, MainMenu{})
	}
	app.DriveIndex = sel
	app.Log.Addf("Selected drive %s", d.Name)
	return enter(app, MainMenu{})
}

// enterConfirmFormat refuses to ask for confirmation without a real target.
func (c *Controller) enterConfirmFormat(app App, op PendingOperation) App {
	target, ok := activeDrive(app)
	if !ok {
		app.Log.Add("No usable drive selected. Use Select Drive first.")
		return enter(app, MainMenu{})
	}
	op.Target = &target
	return enter(app, ConfirmFormat{Op: op})
}

func (c *Controller) submit(app App, text string) App {
	typed := strings.TrimSpace(text)

	switch s := app.State.(type) {
	case ConfirmFormat:
		if s.Op.Target == nil || s.Op.Target.IsSentinel() || typed != s.Op.Target.Basename() {
			app.Log.Add("Operation cancelled.")
			return enter(app, MainMenu{})
		}
		app.Log.Addf("Starting operation on %s...", s.Op.Target.Name)
		args := scripts.FormatArgs(s.Op.Target.Name, s.Op.Filesystem, app.Config.Pattern, app.Config.Passes)
		return c.launch(app, s.Op, scripts.Format, args)

	case ConfirmAndroidWipe:
		if typed != AndroidConfirmWord {
			app.Log.Add("Android wipe cancelled.")
			return enter(app, MainMenu{})
		}
		app.Log.Add("Starting Android wipe...")
		return c.launch(app, s.Op, scripts.AndroidWipe, nil)
	}
	return app
}

func (c *Controller) launch(app App, op PendingOperation, script scripts.Script, args []string) App {
	path, err := c.deps.Materializer.Materialize(script)
	if err != nil {
		app.Log.Addf("Failed to create %s script: %v", scriptLabel(op.Kind), err)
		return enter(app, MainMenu{})
	}

	proc := c.deps.Launcher.Launch(path, args...)
	rs := RunningScript{Op: op, Proc: proc}
	if op.Kind == OpFormat && app.Config.Pattern != config.PatternNone {
		rs.Progress.Total = app.Config.Passes
	}
	return enter(app, rs)
}

func (c *Controller) onRunningKey(app App, s RunningScript, k Key) App {
	if s.Finished {
		// acknowledged: the process and pending operation are dropped
		return enter(app, MainMenu{})
	}
	if k == KeyQuit && !s.Terminated {
		if err := s.Proc.Terminate(); err != nil {
			app.Log.Addf("Failed to stop script: %v", err)
			return app
		}
		s.Terminated = true
		app.Log.Add("Script terminated by operator.")
		app.State = s
	}
	return app
}

func (c *Controller) tick(app App) (App, bool) {
	s, ok := app.State.(RunningScript)
	if !ok || s.Finished {
		return app, false
	}

	res := s.Proc.Poll()
	for _, line := range res.Lines {
		s.Progress.observe(line)
	}
	changed := len(res.Lines) > 0
	if res.Finished {
		s.Finished = true
		s.ExitCode = res.ExitCode
		changed = true
		label := "Format"
		if s.Op.Kind == OpAndroidWipe {
			label = "Android"
		}
		if res.ExitCode == 0 {
			app.Log.Addf("%s script finished with code %d.", label, res.ExitCode)
		} else {
			app.Log.Addf("%s script failed with code %d.", label, res.ExitCode)
		}
	}
	app.State = s
	return app, changed
}

func (c *Controller) scanDrives(app App) App {
	app.Log.Add("Scanning for drives...")
	previous := activeDriveName(app)
	records, err := c.deps.Inventory.Refresh(c.ctx)
	app.Drives = records
	app.DriveIndex = 0
	for i, r := range records {
		if r.Name == previous && !r.IsSentinel() {
			app.DriveIndex = i
			break
		}
	}

	var invErr *drives.InventoryError
	switch {
	case err == nil:
		app.Log.Addf("Found %d drive(s).", len(records))
	case errors.As(err, &invErr) && invErr.ToolMissing:
		app.Log.Add("Error: 'lsblk' command not found.")
	case errors.Is(err, drives.ErrNoDrives):
		app.Log.Add("No suitable drives found.")
	default:
		app.Log.Addf("Drive scan failed: %v", unwrapInventory(err))
	}
	return app
}

func unwrapInventory(err error) error {
	var invErr *drives.InventoryError
	if errors.As(err, &invErr) && invErr.Err != nil {
		return invErr.Err
	}
	return err
}

// enter switches state and resets the highlighted row.
func enter(app App, s State) App {
	app.State = s
	app.Selected = 0
	return app
}

func activeDrive(app App) (drives.Record, bool) {
	if app.DriveIndex < 0 || app.DriveIndex >= len(app.Drives) {
		return drives.Record{}, false
	}
	d := app.Drives[app.DriveIndex]
	if d.IsSentinel() {
		return drives.Record{}, false
	}
	return d, true
}

func scriptLabel(k OpKind) string {
	if k == OpAndroidWipe {
		return "android"
	}
	return "format"
}

func clamp(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// activeDriveName is shown in the main menu.
func activeDriveName(app App) string {
	if app.DriveIndex >= 0 && app.DriveIndex < len(app.Drives) {
		return app.Drives[app.DriveIndex].Name
	}
	return drives.SentinelName
}
