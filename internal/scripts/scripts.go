// Package scripts embeds the shell scripts that do the destructive work and
// writes them to disk so they can be executed.
package scripts

import (
	_ "embed"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/athena-uee/uee/internal/config"
	"github.com/athena-uee/uee/internal/system"
)

//go:embed templates/format.sh
var formatTemplate string

//go:embed templates/android_wipe.sh
var androidWipeTemplate string

// Script is an embedded script and the file name it is written under.
type Script struct {
	Name     string
	FileName string
	Template string
}

var (
	// Format takes <device> <filesystem> <pattern> <passes>.
	Format = Script{Name: "format", FileName: "uee_format.sh", Template: formatTemplate}
	// AndroidWipe takes no arguments.
	AndroidWipe = Script{Name: "android_wipe", FileName: "android_wipe.sh", Template: androidWipeTemplate}
)

// Filesystem is a filesystem the format script can create.
type Filesystem string

const (
	FilesystemExt4  Filesystem = "ext4"
	FilesystemFAT32 Filesystem = "fat32"
	FilesystemExFAT Filesystem = "exfat"
	FilesystemNTFS  Filesystem = "ntfs"
)

// Filesystems lists the supported filesystems in menu order.
func Filesystems() []Filesystem {
	return []Filesystem{FilesystemExt4, FilesystemFAT32, FilesystemExFAT, FilesystemNTFS}
}

// ParseFilesystem accepts a filesystem name in any case.
func ParseFilesystem(s string) (Filesystem, error) {
	fs := Filesystem(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Filesystems() {
		if fs == known {
			return fs, nil
		}
	}
	return "", fmt.Errorf("unsupported filesystem %q (want ext4, fat32, exfat or ntfs)", s)
}

// baseFormatTools are called by the format script for every filesystem.
var baseFormatTools = []string{"lsblk", "parted", "partprobe", "dd", "tr"}

var mkfsTools = map[Filesystem]string{
	FilesystemExt4:  "mkfs.ext4",
	FilesystemFAT32: "mkfs.vfat",
	FilesystemExFAT: "mkfs.exfat",
	FilesystemNTFS:  "mkfs.ntfs",
}

// FormatTools lists the programs the format script needs for fs.
func FormatTools(fs Filesystem) []system.Tool {
	tools := make([]system.Tool, 0, len(baseFormatTools)+1)
	for _, name := range baseFormatTools {
		tools = append(tools, system.Tool{Name: name})
	}
	if mkfs, ok := mkfsTools[fs]; ok {
		tools = append(tools, system.Tool{Name: mkfs})
	}
	return tools
}

// AndroidTools lists the programs the Android script uses. The script
// installs them itself when missing.
func AndroidTools() []system.Tool {
	return []system.Tool{{Name: "adb", Optional: true}, {Name: "fastboot", Optional: true}}
}

// FormatArgs builds the argument list for the Format script.
func FormatArgs(device string, fs Filesystem, pattern config.Pattern, passes int) []string {
	return []string{device, string(fs), string(pattern), strconv.Itoa(passes)}
}

var (
	passStartRe = regexp.MustCompile(`^Pass (\d+) of (\d+)\.\.\.$`)
	passDoneRe  = regexp.MustCompile(`^Pass (\d+) complete\.$`)
)

// ParsePassStart recognizes the "Pass i of N..." line the format script
// prints before each overwrite pass.
func ParsePassStart(line string) (pass, total int, ok bool) {
	m := passStartRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return 0, 0, false
	}
	pass, _ = strconv.Atoi(m[1])
	total, _ = strconv.Atoi(m[2])
	return pass, total, true
}

// ParsePassComplete recognizes "Pass i complete.".
func ParsePassComplete(line string) (pass int, ok bool) {
	m := passDoneRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return 0, false
	}
	pass, _ = strconv.Atoi(m[1])
	return pass, true
}
