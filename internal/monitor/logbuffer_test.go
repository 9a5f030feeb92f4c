package monitor

import (
	"fmt"
	"testing"
)

func TestLogBufferNewestFirst(t *testing.T) {
	b := NewLogBuffer()
	b.Append(SeverityInfo, "first")
	b.Append(SeverityWarning, "second")
	b.Append(SeverityDanger, "third")

	entries := b.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Message != "third" || entries[2].Message != "first" {
		t.Fatalf("expected newest-first ordering, got %q .. %q", entries[0].Message, entries[2].Message)
	}
	if entries[0].ID == "" || entries[0].ID == entries[1].ID {
		t.Fatalf("expected unique non-empty entry IDs")
	}
}

func TestLogBufferEvictsOldest(t *testing.T) {
	b := NewLogBuffer()
	for i := 0; i < maxLogEntries; i++ {
		b.Append(SeverityInfo, fmt.Sprintf("entry %d", i))
	}
	if b.Len() != maxLogEntries {
		t.Fatalf("expected %d entries, got %d", maxLogEntries, b.Len())
	}

	b.Append(SeverityInfo, "overflow")
	if b.Len() != maxLogEntries {
		t.Fatalf("expected cap of %d after overflow, got %d", maxLogEntries, b.Len())
	}
	entries := b.Entries()
	if entries[0].Message != "overflow" {
		t.Fatalf("expected newest entry at front, got %q", entries[0].Message)
	}
	oldest := entries[len(entries)-1].Message
	if oldest != "entry 1" {
		t.Fatalf("expected 'entry 0' evicted, oldest is %q", oldest)
	}
}

func TestLogBufferClear(t *testing.T) {
	b := NewLogBuffer()
	b.Append(SeverityInfo, "something")
	b.Clear()
	if b.Len() != 0 {
		t.Fatalf("expected empty buffer after clear, got %d", b.Len())
	}
}
