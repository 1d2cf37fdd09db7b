// Package drives enumerates the whole-disk block devices an operator can
// target.
//
// The inventory always hands back at least one record. When nothing usable
// is found it returns a single sentinel record whose Name is SentinelName
// and whose Model says why; menus show it but never act on it.
package drives

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/buger/jsonparser"
	"go.uber.org/zap"
)

const (
	// SentinelName marks the placeholder record.
	SentinelName = "N/A"

	ModelNoDrives   = "No drives found"
	ModelNoLsblk    = "lsblk not found"
	ModelScanFailed = "Scan error"

	// DefaultTimeout bounds one lsblk run.
	DefaultTimeout = 10 * time.Second
)

// Record is one drive as reported by lsblk.
type Record struct {
	Name  string // device path, e.g. /dev/sdb
	Size  string
	Model string
}

// IsSentinel reports whether r is the placeholder for an empty inventory.
func (r Record) IsSentinel() bool {
	return r.Name == SentinelName
}

// Basename is the final path element of Name ("sdb" for /dev/sdb). Typed
// confirmations compare against it.
func (r Record) Basename() string {
	return filepath.Base(r.Name)
}

// Label is the one-line form used in menus.
func (r Record) Label() string {
	if r.IsSentinel() {
		return fmt.Sprintf("%s (%s)", r.Name, r.Model)
	}
	return fmt.Sprintf("%s (%s, %s)", r.Name, r.Size, r.Model)
}

func sentinel(model string) Record {
	return Record{Name: SentinelName, Size: "", Model: model}
}

// InventoryError describes a failed scan. It is for logging; the records
// returned alongside it are still usable.
type InventoryError struct {
	// ToolMissing is set when lsblk is not installed
	ToolMissing bool
	Err         error
}

func (e *InventoryError) Error() string {
	if e.ToolMissing {
		return "'lsblk' command not found"
	}
	return fmt.Sprintf("drive scan failed: %v", e.Err)
}

func (e *InventoryError) Unwrap() error {
	return e.Err
}

// ErrNoDrives is wrapped by InventoryError when the scan succeeded but found
// nothing to list.
var ErrNoDrives = errors.New("no suitable drives found")

// Runner runs a command and returns its stdout.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs commands with os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// LsblkArgs are the arguments for a whole-disk JSON listing.
var LsblkArgs = []string{"-J", "-d", "-o", "NAME,SIZE,MODEL,TYPE"}

// Inventory caches the most recent scan.
type Inventory struct {
	run     Runner
	timeout time.Duration
	logger  *zap.Logger

	mu      sync.Mutex
	records []Record
}

// NewInventory returns an inventory that has not scanned yet. A nil runner
// uses ExecRunner.
func NewInventory(run Runner, logger *zap.Logger) *Inventory {
	if run == nil {
		run = ExecRunner
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Inventory{
		run:     run,
		timeout: DefaultTimeout,
		logger:  logger,
		records: []Record{sentinel(ModelNoDrives)},
	}
}

// Refresh rescans and replaces the cached set wholesale. The returned slice
// is never empty; err is an *InventoryError when a sentinel was substituted.
func (inv *Inventory) Refresh(ctx context.Context) ([]Record, error) {
	ctx, cancel := context.WithTimeout(ctx, inv.timeout)
	defer cancel()

	records, err := inv.scan(ctx)

	inv.mu.Lock()
	inv.records = records
	inv.mu.Unlock()

	if err != nil {
		inv.logger.Warn("Drive scan returned no usable drives", zap.Error(err))
	} else {
		inv.logger.Info("Drive scan complete", zap.Int("count", len(records)))
	}
	return Copy(records), err
}

func (inv *Inventory) scan(ctx context.Context) ([]Record, error) {
	out, err := inv.run(ctx, "lsblk", LsblkArgs...)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return []Record{sentinel(ModelNoLsblk)}, &InventoryError{ToolMissing: true, Err: err}
		}
		return []Record{sentinel(ModelScanFailed)}, &InventoryError{Err: err}
	}

	records, err := ParseLsblk(out)
	if err != nil {
		return []Record{sentinel(ModelScanFailed)}, &InventoryError{Err: err}
	}
	if len(records) == 0 {
		return []Record{sentinel(ModelNoDrives)}, &InventoryError{Err: ErrNoDrives}
	}
	return records, nil
}

// Drives returns the cached records.
func (inv *Inventory) Drives() []Record {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return Copy(inv.records)
}

// Usable reports whether records hold at least one real drive.
func Usable(records []Record) bool {
	for _, r := range records {
		if !r.IsSentinel() {
			return true
		}
	}
	return false
}

// Find returns the record whose Name or basename matches device.
func Find(records []Record, device string) (Record, bool) {
	base := filepath.Base(device)
	for _, r := range records {
		if r.IsSentinel() {
			continue
		}
		if r.Name == device || r.Basename() == base {
			return r, true
		}
	}
	return Record{}, false
}

// Copy returns a copy of records.
func Copy(records []Record) []Record {
	out := make([]Record, len(records))
	copy(out, records)
	return out
}

// skipTypes are device types that are never wipe targets.
var skipTypes = map[string]bool{"rom": true, "loop": true}

// ParseLsblk reads `lsblk -J -d -o NAME,SIZE,MODEL,TYPE` output. Missing or
// null fields become "N/A".
func ParseLsblk(data []byte) ([]Record, error) {
	var records []Record
	var parseErr error

	_, err := jsonparser.ArrayEach(data, func(value []byte, dataType jsonparser.ValueType, offset int, err error) {
		if parseErr != nil {
			return
		}
		if err != nil {
			parseErr = err
			return
		}
		if dataType != jsonparser.Object {
			return
		}

		if skipTypes[field(value, "type")] {
			return
		}
		name := field(value, "name")
		if name == "" {
			return
		}
		if !strings.HasPrefix(name, "/") {
			name = "/dev/" + name
		}
		records = append(records, Record{
			Name:  name,
			Size:  orNA(field(value, "size")),
			Model: orNA(field(value, "model")),
		})
	}, "blockdevices")
	if err != nil {
		return nil, fmt.Errorf("failed to parse lsblk output: %w", err)
	}
	if parseErr != nil {
		return nil, fmt.Errorf("failed to parse lsblk output: %w", parseErr)
	}
	return records, nil
}

// field returns a string or numeric value, trimmed; "" when absent or null.
func field(data []byte, key string) string {
	value, dataType, _, err := jsonparser.Get(data, key)
	if err != nil {
		return ""
	}
	switch dataType {
	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return ""
		}
		return strings.TrimSpace(s)
	case jsonparser.Number:
		return string(value)
	}
	return ""
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
