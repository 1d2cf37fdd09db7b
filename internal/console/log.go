package console

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// LogBuffer is the append-only operator message log. Entries are mirrored
// to the structured logger.
type LogBuffer struct {
	mu      sync.Mutex
	entries []string
	logger  *zap.Logger
}

func NewLogBuffer(logger *zap.Logger) *LogBuffer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogBuffer{logger: logger}
}

// Add appends msg.
func (b *LogBuffer) Add(msg string) {
	b.mu.Lock()
	b.entries = append(b.entries, msg)
	b.mu.Unlock()
	b.logger.Info(msg, zap.String("source", "operator_log"))
}

func (b *LogBuffer) Addf(format string, args ...any) {
	b.Add(fmt.Sprintf(format, args...))
}

// Entries returns a copy of every message in order.
func (b *LogBuffer) Entries() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.entries))
	copy(out, b.entries)
	return out
}
