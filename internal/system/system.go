// Package system holds the host checks uee runs before touching a disk.
package system

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// PrivilegeError means the process lacks the root privileges raw device
// access needs. It is fatal at startup.
type PrivilegeError struct {
	EUID int
}

func (e *PrivilegeError) Error() string {
	return fmt.Sprintf("this tool must be run as root (effective uid %d); try: sudo %s", e.EUID, executable())
}

// geteuid is swapped in tests.
var geteuid = unix.Geteuid

// CheckPrivilege returns a *PrivilegeError unless running as root.
func CheckPrivilege() error {
	if euid := geteuid(); euid != 0 {
		return &PrivilegeError{EUID: euid}
	}
	return nil
}

// NotBlockDeviceError is returned by IsBlockDevice for paths that exist but
// are not block special files.
type NotBlockDeviceError struct {
	Path string
	Err  error
}

func (e *NotBlockDeviceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s is not a valid block device: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("%s is not a valid block device", e.Path)
}

func (e *NotBlockDeviceError) Unwrap() error {
	return e.Err
}

// IsBlockDevice returns nil when path is a block special file.
func IsBlockDevice(path string) error {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return &NotBlockDeviceError{Path: path, Err: err}
	}
	if st.Mode&unix.S_IFMT != unix.S_IFBLK {
		return &NotBlockDeviceError{Path: path}
	}
	return nil
}

func executable() string {
	if len(os.Args) > 0 {
		return os.Args[0]
	}
	return "uee"
}
