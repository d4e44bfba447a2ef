package selection

import "fmt"

// State describes the caret or a selected range.
type State struct {
	AnchorKey    string
	AnchorOffset int
	FocusKey     string
	FocusOffset  int
	IsBackward   bool
	HasFocus     bool
}

// Collapsed returns a caret at (key, offset).
func Collapsed(key string, offset int) State {
	return State{
		AnchorKey:    key,
		AnchorOffset: offset,
		FocusKey:     key,
		FocusOffset:  offset,
	}
}

// Range returns a forward selection from (startKey, startOffset) to
// (endKey, endOffset).
func Range(startKey string, startOffset int, endKey string, endOffset int) State {
	return State{
		AnchorKey:    startKey,
		AnchorOffset: startOffset,
		FocusKey:     endKey,
		FocusOffset:  endOffset,
	}
}

// IsZero returns true if the selection references no block.
func (s State) IsZero() bool {
	return s.AnchorKey == "" && s.FocusKey == ""
}

// IsCollapsed returns true if anchor and focus coincide.
func (s State) IsCollapsed() bool {
	return s.AnchorKey == s.FocusKey && s.AnchorOffset == s.FocusOffset
}

// StartKey returns the key of the edge that comes first in document order.
func (s State) StartKey() string {
	if s.IsBackward {
		return s.FocusKey
	}
	return s.AnchorKey
}

// StartOffset returns the offset of the edge that comes first.
func (s State) StartOffset() int {
	if s.IsBackward {
		return s.FocusOffset
	}
	return s.AnchorOffset
}

// EndKey returns the key of the edge that comes last in document order.
func (s State) EndKey() string {
	if s.IsBackward {
		return s.AnchorKey
	}
	return s.FocusKey
}

// EndOffset returns the offset of the edge that comes last.
func (s State) EndOffset() int {
	if s.IsBackward {
		return s.AnchorOffset
	}
	return s.FocusOffset
}

// CollapseToStart returns a caret at the start edge.
func (s State) CollapseToStart() State {
	c := Collapsed(s.StartKey(), s.StartOffset())
	c.HasFocus = s.HasFocus
	return c
}

// CollapseToEnd returns a caret at the end edge.
func (s State) CollapseToEnd() State {
	c := Collapsed(s.EndKey(), s.EndOffset())
	c.HasFocus = s.HasFocus
	return c
}

// Extend returns a selection with the same anchor and a new focus.
// IsBackward is left for the content layer to recompute.
func (s State) Extend(key string, offset int) State {
	s.FocusKey = key
	s.FocusOffset = offset
	return s
}

// WithFocus returns a copy with HasFocus set.
func (s State) WithFocus(hasFocus bool) State {
	s.HasFocus = hasFocus
	return s
}

// HasEdgeWithin returns true if either edge lies in block key within
// [start, end].
func (s State) HasEdgeWithin(key string, start, end int) bool {
	if s.AnchorKey == key && s.AnchorOffset >= start && s.AnchorOffset <= end {
		return true
	}
	return s.FocusKey == key && s.FocusOffset >= start && s.FocusOffset <= end
}

// SingleBlock returns true if both edges lie in the same block.
func (s State) SingleBlock() bool {
	return s.AnchorKey == s.FocusKey
}

// Equals returns true if two selections have the same coordinates,
// direction and focus flag.
func (s State) Equals(other State) bool {
	return s == other
}

// String returns a string representation of the selection.
func (s State) String() string {
	if s.IsCollapsed() {
		return fmt.Sprintf("Caret(%s:%d)", s.FocusKey, s.FocusOffset)
	}
	dir := "→"
	if s.IsBackward {
		dir = "←"
	}
	return fmt.Sprintf("Selection(%s:%d%s%s:%d)", s.AnchorKey, s.AnchorOffset, dir, s.FocusKey, s.FocusOffset)
}
