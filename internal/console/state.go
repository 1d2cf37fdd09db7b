package console

import (
	"github.com/athena-uee/uee/internal/drives"
	"github.com/athena-uee/uee/internal/scripts"
)

// Screen identifies a State variant.
type Screen int

const (
	ScreenMainMenu Screen = iota
	ScreenBasicMenu
	ScreenAdvancedMenu
	ScreenSelectDrive
	ScreenSelectFilesystem
	ScreenConfirmFormat
	ScreenConfirmAndroidWipe
	ScreenRunningScript
	ScreenViewLog
)

var screenNames = map[Screen]string{
	ScreenMainMenu:           "main_menu",
	ScreenBasicMenu:          "basic_menu",
	ScreenAdvancedMenu:       "advanced_menu",
	ScreenSelectDrive:        "select_drive",
	ScreenSelectFilesystem:   "select_filesystem",
	ScreenConfirmFormat:      "confirm_format",
	ScreenConfirmAndroidWipe: "confirm_android_wipe",
	ScreenRunningScript:      "running_script",
	ScreenViewLog:            "view_log",
}

func (s Screen) String() string {
	if name, ok := screenNames[s]; ok {
		return name
	}
	return "unknown"
}

// State is one of the variants below. The set is closed.
type State interface {
	Screen() Screen
	state()
}

type MainMenu struct{}
type BasicMenu struct{}
type AdvancedMenu struct{}
type SelectDrive struct{}
type ViewLog struct{}

// SelectFilesystem picks the filesystem for Op.
type SelectFilesystem struct {
	Op PendingOperation
}

// ConfirmFormat waits for the target's basename.
type ConfirmFormat struct {
	Op PendingOperation
}

// ConfirmAndroidWipe waits for the word CONFIRM.
type ConfirmAndroidWipe struct {
	Op PendingOperation
}

// RunningScript shows a launched script until the operator acknowledges it.
type RunningScript struct {
	Op       PendingOperation
	Proc     Process
	Finished bool
	ExitCode int
	Progress PassProgress
	// Terminated is set once the operator force-quit the script.
	Terminated bool
}

func (MainMenu) Screen() Screen           { return ScreenMainMenu }
func (BasicMenu) Screen() Screen          { return ScreenBasicMenu }
func (AdvancedMenu) Screen() Screen       { return ScreenAdvancedMenu }
func (SelectDrive) Screen() Screen        { return ScreenSelectDrive }
func (ViewLog) Screen() Screen            { return ScreenViewLog }
func (SelectFilesystem) Screen() Screen   { return ScreenSelectFilesystem }
func (ConfirmFormat) Screen() Screen      { return ScreenConfirmFormat }
func (ConfirmAndroidWipe) Screen() Screen { return ScreenConfirmAndroidWipe }
func (RunningScript) Screen() Screen      { return ScreenRunningScript }

func (MainMenu) state()           {}
func (BasicMenu) state()          {}
func (AdvancedMenu) state()       {}
func (SelectDrive) state()        {}
func (ViewLog) state()            {}
func (SelectFilesystem) state()   {}
func (ConfirmFormat) state()      {}
func (ConfirmAndroidWipe) state() {}
func (RunningScript) state()      {}

// OpKind is the kind of destructive operation.
type OpKind int

const (
	OpFormat OpKind = iota
	OpAndroidWipe
)

func (k OpKind) String() string {
	if k == OpAndroidWipe {
		return "android_wipe"
	}
	return "format"
}

// Method labels shown on the confirmation screen.
const (
	MethodBasic    = "Basic Format"
	MethodAdvanced = "Advanced Erase"
	MethodAndroid  = "Android Wipe"
)

// PendingOperation is chosen but not yet confirmed.
type PendingOperation struct {
	Kind       OpKind
	Target     *drives.Record
	Filesystem scripts.Filesystem
	Method     string
}

// PassProgress follows the "Pass i of N" markers of a running wipe.
type PassProgress struct {
	Current   int
	Completed int
	Total     int
}

// Fraction is the share of passes completed, 0 when unknown.
func (p PassProgress) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	if p.Completed >= p.Total {
		return 1
	}
	return float64(p.Completed) / float64(p.Total)
}

func (p *PassProgress) observe(line string) {
	if pass, total, ok := scripts.ParsePassStart(line); ok {
		p.Current = pass
		p.Total = total
		return
	}
	if pass, ok := scripts.ParsePassComplete(line); ok {
		p.Completed = pass
	}
}

// Key is a front-end independent input event.
type Key int

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyEnter
	KeyBack
	// KeyQuit is a plain 'q'.
	KeyQuit
	// KeyInterrupt is ctrl+c: stop everything and exit.
	KeyInterrupt
	// KeyRescan re-runs drive enumeration on the drive selector.
	KeyRescan
	// KeyOther is any other key; it only matters where "any key" continues.
	KeyOther
)
