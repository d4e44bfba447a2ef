package content

import "fmt"

// StyleRange applies an inline style to the runes in [Start, End).
type StyleRange struct {
	Style string
	Start int
	End   int
}

// String returns a human-readable representation of the range.
func (r StyleRange) String() string {
	return fmt.Sprintf("%s[%d:%d)", r.Style, r.Start, r.End)
}

// Len returns the number of runes covered.
func (r StyleRange) Len() int {
	return r.End - r.Start
}

// EntityRange links the runes in [Start, End) to an entity key.
type EntityRange struct {
	Key   string
	Start int
	End   int
}

// String returns a human-readable representation of the range.
func (r EntityRange) String() string {
	return fmt.Sprintf("%s[%d:%d)", r.Key, r.Start, r.End)
}

// Len returns the number of runes covered.
func (r EntityRange) Len() int {
	return r.End - r.Start
}

// Contains returns true if the given offset is within the range.
func (r EntityRange) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End
}

// Overlaps returns true if the range shares at least one rune with [start, end).
func (r EntityRange) Overlaps(start, end int) bool {
	return r.Start < end && start < r.End
}

// clampSpan clamps [start, end) to [0, max] with start <= end.
func clampSpan(start, end, max int) (int, int) {
	start = clampOffset(start, max)
	end = clampOffset(end, max)
	if end < start {
		start, end = end, start
	}
	return start, end
}

// clampOffset clamps offset to [0, max].
func clampOffset(offset, max int) int {
	if offset < 0 {
		return 0
	}
	if offset > max {
		return max
	}
	return offset
}

// intersect returns the part of [rs, re) inside [start, end), rebased so
// that start maps to zero. ok is false when nothing remains.
func intersect(rs, re, start, end int) (int, int, bool) {
	if rs < start {
		rs = start
	}
	if re > end {
		re = end
	}
	if rs >= re {
		return 0, 0, false
	}
	return rs - start, re - start, true
}
