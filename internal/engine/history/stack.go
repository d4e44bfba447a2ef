package history

import (
	"slices"
	"time"

	"github.com/dshills/pagestorm/internal/engine/content"
)

// DefaultMaxEntries is the depth used when a non-positive bound is given.
const DefaultMaxEntries = 1000

// Entry is one undo or redo step.
type Entry struct {
	// Content is the document content to restore.
	Content *content.State

	// ChangeType names the change that undoing or redoing this entry
	// reverts or reapplies.
	ChangeType string

	// Timestamp is when the entry was recorded.
	Timestamp time.Time
}

// NewEntry creates an entry stamped with the current time.
func NewEntry(c *content.State, changeType string) Entry {
	return Entry{
		Content:    c,
		ChangeType: changeType,
		Timestamp:  time.Now(),
	}
}

// OperationInfo describes an entry for display.
type OperationInfo struct {
	Description string
	Timestamp   time.Time
}

// Info returns display info for e.
func (e Entry) Info() OperationInfo {
	return OperationInfo{Description: e.ChangeType, Timestamp: e.Timestamp}
}

// Stack is an immutable bounded stack of entries.
// The zero Stack is empty and uses DefaultMaxEntries.
type Stack struct {
	entries    []Entry
	maxEntries int
}

// New creates an empty stack bounded to maxEntries.
func New(maxEntries int) Stack {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return Stack{maxEntries: maxEntries}
}

// MaxEntries returns the stack bound.
func (s Stack) MaxEntries() int {
	if s.maxEntries <= 0 {
		return DefaultMaxEntries
	}
	return s.maxEntries
}

// Len returns the number of entries.
func (s Stack) Len() int {
	return len(s.entries)
}

// IsEmpty returns true if the stack holds no entries.
func (s Stack) IsEmpty() bool {
	return len(s.entries) == 0
}

// Push returns a stack with e on top. When the bound is exceeded the
// oldest entries are discarded.
func (s Stack) Push(e Entry) Stack {
	entries := append(slices.Clip(s.entries), e)
	if excess := len(entries) - s.MaxEntries(); excess > 0 {
		entries = entries[excess:]
	}
	s.entries = entries
	return s
}

// Pop returns the top entry and the stack without it.
// ok is false when the stack is empty.
func (s Stack) Pop() (Entry, Stack, bool) {
	if len(s.entries) == 0 {
		return Entry{}, s, false
	}
	top := s.entries[len(s.entries)-1]
	s.entries = s.entries[: len(s.entries)-1 : len(s.entries)-1]
	return top, s, true
}

// Peek returns the top entry without removing it.
func (s Stack) Peek() (Entry, bool) {
	if len(s.entries) == 0 {
		return Entry{}, false
	}
	return s.entries[len(s.entries)-1], true
}

// Clear returns an empty stack with the same bound.
func (s Stack) Clear() Stack {
	s.entries = nil
	return s
}

// WithMaxEntries returns a stack with a new bound, dropping the oldest
// entries if the stack is larger.
func (s Stack) WithMaxEntries(max int) Stack {
	if max <= 0 {
		max = DefaultMaxEntries
	}
	s.maxEntries = max
	if excess := len(s.entries) - max; excess > 0 {
		s.entries = s.entries[excess:]
	}
	return s
}
