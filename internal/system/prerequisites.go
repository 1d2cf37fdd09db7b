package system

import (
	"fmt"
	"os/exec"
	"strings"
)

// Tool is an external program a script calls.
type Tool struct {
	Name string
	// Optional tools are reported but never block an operation.
	Optional bool
}

// ToolCheck is the result of looking up one tool.
type ToolCheck struct {
	Tool
	Available bool
	Path      string
	Hint      string
}

// ToolReport collects every lookup.
type ToolReport struct {
	Checks []ToolCheck
	// AllAvailable is false when a required tool is missing.
	AllAvailable bool
}

// MissingToolError lists required tools that are not on PATH.
type MissingToolError struct {
	Tools []string
}

func (e *MissingToolError) Error() string {
	return fmt.Sprintf("required tools not installed: %s", strings.Join(e.Tools, ", "))
}

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// installHints names the package that usually provides a tool.
var installHints = map[string]string{
	"lsblk":      "util-linux",
	"partprobe":  "parted",
	"parted":     "parted",
	"dd":         "coreutils",
	"tr":         "coreutils",
	"mkfs.ext4":  "e2fsprogs",
	"mkfs.vfat":  "dosfstools",
	"mkfs.exfat": "exfatprogs",
	"mkfs.ntfs":  "ntfs-3g",
	"adb":        "android-tools (installed by the wipe script when missing)",
	"fastboot":   "android-tools (installed by the wipe script when missing)",
}

// CheckTools looks every tool up on PATH.
func CheckTools(tools []Tool) *ToolReport {
	report := &ToolReport{AllAvailable: true}
	for _, t := range tools {
		check := ToolCheck{Tool: t}
		if path, err := lookPath(t.Name); err == nil {
			check.Available = true
			check.Path = path
		} else {
			check.Hint = installHints[t.Name]
			if !t.Optional {
				report.AllAvailable = false
			}
		}
		report.Checks = append(report.Checks, check)
	}
	return report
}

// Err returns a *MissingToolError naming the missing required tools.
func (r *ToolReport) Err() error {
	if r.AllAvailable {
		return nil
	}
	var missing []string
	for _, c := range r.Checks {
		if !c.Available && !c.Optional {
			missing = append(missing, c.Name)
		}
	}
	return &MissingToolError{Tools: missing}
}

// Format renders the report one tool per line.
func (r *ToolReport) Format() string {
	var sb strings.Builder
	for _, c := range r.Checks {
		switch {
		case c.Available:
			fmt.Fprintf(&sb, "✓ %-11s %s\n", c.Name, c.Path)
		case c.Optional:
			fmt.Fprintf(&sb, "⚠ %-11s not found", c.Name)
		default:
			fmt.Fprintf(&sb, "✗ %-11s not found", c.Name)
		}
		if !c.Available {
			if c.Hint != "" {
				fmt.Fprintf(&sb, " (install %s)", c.Hint)
			}
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\n")
	if r.AllAvailable {
		sb.WriteString("All required tools are available.\n")
	} else {
		sb.WriteString("Some required tools are missing. Install them before proceeding.\n")
	}
	return sb.String()
}
