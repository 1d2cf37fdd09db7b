package console

import (
	"fmt"

	"github.com/athena-uee/uee/internal/config"
	"github.com/athena-uee/uee/internal/scripts"
)

// Footers shown under each screen.
const (
	FooterNavigate     = "Use ↑ ↓, Enter. Back w/ Backspace/ESC. q to quit."
	FooterRunning      = "Script running... Press 'q' to force quit."
	FooterTerminating  = "Stopping script..."
	FooterFinished     = "Script finished. Press any key to return."
	FooterAnyKey       = "Press any key to go back"
	FooterConfirmInput = "Enter to submit. Esc to cancel."
)

// Field is a labelled value row.
type Field struct {
	Label string
	Value string
}

// View is everything a renderer needs for one frame. It is derived from the
// App on each call and never stored.
type View struct {
	Screen Screen
	Title  string
	// ShowArt asks for the title banner above the menu.
	ShowArt     bool
	Description string
	Fields      []Field
	Options     []string
	Selected    int

	// Prompt is set on confirmation screens, where text is typed.
	Prompt string

	// Lines is the script output or the message log, oldest first.
	Lines      []string
	EmptyLines string

	Running    bool
	Finished   bool
	ExitCode   int
	Progress   PassProgress
	ShowPasses bool

	Warning string
	Footer  string
}

// View returns the current frame description.
func (c *Controller) View() View {
	return buildView(c.app)
}

// options is the single source for the row count of a menu state.
func options(app App) []string {
	switch app.State.(type) {
	case MainMenu:
		return []string{
			"Basic Mode",
			"Advanced Mode",
			"Android Mode",
			fmt.Sprintf("Select Drive (current: %s)", activeDriveName(app)),
			"View Log",
			"Exit",
		}
	case BasicMenu:
		return []string{"Quick Format (ext4)", "Quick Format (fat32)", "Back"}
	case AdvancedMenu:
		return []string{
			"Increase passes",
			"Decrease passes",
			"Cycle pattern",
			"Toggle verify",
			"Save config",
			"START ERASE",
			"Back",
		}
	case SelectFilesystem:
		opts := make([]string, 0, 5)
		for _, fs := range scripts.Filesystems() {
			opts = append(opts, string(fs))
		}
		return append(opts, "Back")
	case SelectDrive:
		opts := make([]string, 0, len(app.Drives)+1)
		for _, d := range app.Drives {
			opts = append(opts, d.Label())
		}
		return append(opts, "Back")
	}
	return nil
}

func buildView(app App) View {
	v := View{
		Screen:   app.State.Screen(),
		Options:  options(app),
		Selected: app.Selected,
		Footer:   FooterNavigate,
	}

	switch s := app.State.(type) {
	case MainMenu:
		v.ShowArt = true
	case BasicMenu:
		v.Title = "BASIC MODE"
		v.Description = "This skips the secure wipe and just formats the drive."
		v.Warning = "This will perform a format-only operation."
	case AdvancedMenu:
		v.Title = "ADVANCED MODE"
		v.Description = "Configure the secure wipe settings, then start."
		v.Fields = settingsFields(app.Config)
		v.Warning = "START ERASE will use these settings, then format."
	case SelectDrive:
		v.Title = "SELECT DRIVE"
		v.Description = "Press r to rescan."
		v.Warning = "WARNING: This will permanently destroy data."
	case SelectFilesystem:
		v.Title = "SELECT FILESYSTEM"
		v.Description = "Select a filesystem to apply after the wipe."
		v.Warning = "This will format the entire disk with one partition."
	case ConfirmFormat:
		v.Title = "CONFIRM OPERATION"
		v.Fields = confirmFields(s.Op, app.Config)
		if s.Op.Target != nil {
			v.Prompt = fmt.Sprintf("Type '%s' to begin, or Esc to cancel.", s.Op.Target.Basename())
		}
		v.Warning = "ALL DATA ON THIS DRIVE WILL BE DESTROYED."
		v.Footer = FooterConfirmInput
	case ConfirmAndroidWipe:
		v.Title = "CONFIRM ANDROID WIPE"
		v.Description = "This will attempt to wipe all data on ALL connected devices in ADB mode."
		v.Prompt = fmt.Sprintf("Type '%s' to begin, or Esc to cancel.", AndroidConfirmWord)
		v.Footer = FooterConfirmInput
	case RunningScript:
		v.Title = "Running Android Wipe Script..."
		if s.Op.Kind == OpFormat && s.Op.Target != nil {
			v.Title = fmt.Sprintf("Wiping/Formatting %s...", s.Op.Target.Name)
			v.ShowPasses = s.Progress.Total > 0
		}
		v.Lines = s.Proc.Output()
		v.Running = !s.Finished
		v.Finished = s.Finished
		v.ExitCode = s.ExitCode
		v.Progress = s.Progress
		switch {
		case s.Finished:
			v.Footer = FooterFinished
		case s.Terminated:
			v.Footer = FooterTerminating
		default:
			v.Footer = FooterRunning
		}
	case ViewLog:
		v.Title = "MESSAGE LOG"
		v.Lines = app.Log.Entries()
		v.EmptyLines = "(no log messages)"
		v.Footer = FooterAnyKey
	}
	return v
}

func settingsFields(cfg config.WipeConfig) []Field {
	return []Field{
		{Label: "passes", Value: fmt.Sprint(cfg.Passes)},
		{Label: "pattern", Value: string(cfg.Pattern)},
		{Label: "verify", Value: fmt.Sprint(cfg.Verify)},
	}
}

func confirmFields(op PendingOperation, cfg config.WipeConfig) []Field {
	drive := "N/A"
	if op.Target != nil {
		drive = fmt.Sprintf("%s   %s   %s", op.Target.Name, op.Target.Size, op.Target.Model)
	}
	return []Field{
		{Label: "Drive", Value: drive},
		{Label: "Method", Value: op.Method},
		{Label: "Pattern", Value: string(cfg.Pattern)},
		{Label: "Passes", Value: fmt.Sprint(cfg.Passes)},
		{Label: "Filesystem", Value: string(op.Filesystem)},
	}
}
