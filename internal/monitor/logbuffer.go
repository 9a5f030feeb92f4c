package monitor

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// maxLogEntries bounds the in-memory event log; inserting past the cap
// evicts the oldest entry.
const maxLogEntries = 100

// Severity is the level of a log entry. It is distinct from the
// classification status: informational entries have no status counterpart.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// LogEntry is a single dashboard event. Entries are immutable once created.
type LogEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
}

// LogBuffer is a bounded, newest-first event log shared between the
// scheduler goroutine and the HTTP handlers.
type LogBuffer struct {
	mu      sync.RWMutex
	entries []LogEntry
}

// NewLogBuffer returns an empty buffer.
func NewLogBuffer() *LogBuffer {
	return &LogBuffer{}
}

// Append inserts a new entry at the front, evicting the oldest entry when
// the buffer is full, and returns the created entry.
func (b *LogBuffer) Append(severity Severity, message string) LogEntry {
	entry := LogEntry{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Message:   message,
		Severity:  severity,
	}
	b.mu.Lock()
	b.entries = append([]LogEntry{entry}, b.entries...)
	if len(b.entries) > maxLogEntries {
		b.entries = b.entries[:maxLogEntries]
	}
	b.mu.Unlock()
	return entry
}

// Entries returns a copy of the log, newest first.
func (b *LogBuffer) Entries() []LogEntry {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]LogEntry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Len returns the current number of entries.
func (b *LogBuffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

// Clear removes all entries.
func (b *LogBuffer) Clear() {
	b.mu.Lock()
	b.entries = nil
	b.mu.Unlock()
}
