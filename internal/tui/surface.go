package tui

import (
	"errors"

	"github.com/dshills/pagestorm/internal/engine/content"
	"github.com/dshills/pagestorm/internal/engine/selection"
	"github.com/dshills/pagestorm/internal/selsync"
)

// ErrNotRendered is returned when a selection names a block that is not
// on the surface.
var ErrNotRendered = errors.New("tui: block not rendered")

// Direction is a caret movement.
type Direction uint8

// Caret movements.
const (
	MoveLeft Direction = iota
	MoveRight
	MoveUp
	MoveDown
	MoveHome
	MoveEnd
)

type caret struct {
	key string
	off int
}

// Surface is the native side of the terminal: a laid-out document and a
// caret positioned by screen geometry. It implements selsync.Surface.
type Surface struct {
	layout  *layout
	anchor  caret
	focus   caret
	active  bool
	wantCol int
}

var _ selsync.Surface = (*Surface)(nil)

// NewSurface lays out c at width.
func NewSurface(c *content.State, width int) *Surface {
	return &Surface{layout: buildLayout(c, width), wantCol: -1}
}

// Relayout renders c again, keeping the caret when its block survives.
func (s *Surface) Relayout(c *content.State, width int) {
	s.layout = buildLayout(c, width)
	if _, ok := s.layout.lineFor(s.focus.key, s.focus.off); !ok {
		s.active = false
	}
	if _, ok := s.layout.lineFor(s.anchor.key, s.anchor.off); !ok {
		s.anchor = s.focus
	}
}

// Lines returns the number of screen rows of the document.
func (s *Surface) Lines() int { return len(s.layout.lines) }

// NativeSelection implements selsync.Surface.
func (s *Surface) NativeSelection() selsync.NativeRange {
	if !s.active {
		return selsync.NativeRange{}
	}
	return selsync.NativeRange{Anchor: s.point(s.anchor), Focus: s.point(s.focus)}
}

func (s *Surface) point(c caret) selsync.Point {
	i, ok := s.layout.lineFor(c.key, c.off)
	if !ok {
		return selsync.Point{}
	}
	l := s.layout.lines[i]
	return selsync.Point{Node: l.node, Offset: c.off - l.start}
}

// SetNativeSelection implements selsync.Surface.
func (s *Surface) SetNativeSelection(sel selection.State) error {
	if sel.IsZero() {
		s.active = false
		return nil
	}
	if _, ok := s.layout.lineFor(sel.FocusKey, sel.FocusOffset); !ok {
		return ErrNotRendered
	}
	s.focus = caret{sel.FocusKey, sel.FocusOffset}
	s.anchor = caret{sel.AnchorKey, sel.AnchorOffset}
	if _, ok := s.layout.lineFor(sel.AnchorKey, sel.AnchorOffset); !ok {
		s.anchor = s.focus
	}
	s.active = true
	s.wantCol = -1
	return nil
}

// Caret returns the screen row (counted from the top of the document) and
// column of the caret.
func (s *Surface) Caret() (row, col int, ok bool) {
	if !s.active {
		return 0, 0, false
	}
	i, ok := s.layout.lineFor(s.focus.key, s.focus.off)
	if !ok {
		return 0, 0, false
	}
	return i, s.layout.lines[i].column(s.focus.off), true
}

// Move moves the caret. With extend the anchor stays put.
func (s *Surface) Move(d Direction, extend bool) {
	if !s.active {
		return
	}
	i, ok := s.layout.lineFor(s.focus.key, s.focus.off)
	if !ok {
		return
	}
	l := s.layout.lines[i]

	switch d {
	case MoveLeft:
		s.focus = s.stepLeft(i)
		s.wantCol = -1
	case MoveRight:
		s.focus = s.stepRight(i)
		s.wantCol = -1
	case MoveUp, MoveDown:
		if s.wantCol < 0 {
			s.wantCol = l.column(s.focus.off)
		}
		j := i - 1
		if d == MoveDown {
			j = i + 1
		}
		if j < 0 || j >= len(s.layout.lines) {
			break
		}
		t := s.layout.lines[j]
		s.focus = caret{t.block.Key(), t.offsetAt(s.wantCol)}
	case MoveHome:
		s.focus = caret{l.block.Key(), l.start}
		s.wantCol = -1
	case MoveEnd:
		end := l.end
		if !s.layout.isLastOfBlock(i) && len(l.clusters) > 0 {
			end = l.clusters[len(l.clusters)-1].offset
		}
		s.focus = caret{l.block.Key(), end}
		s.wantCol = -1
	}
	if !extend {
		s.anchor = s.focus
	}
}

// stepLeft returns the caret one grapheme before the focus on line i,
// crossing into the previous block at offset 0.
func (s *Surface) stepLeft(i int) caret {
	l := s.layout.lines[i]
	off := s.focus.off
	if off > 0 {
		for j := i; j >= 0 && s.layout.lines[j].block.Key() == l.block.Key(); j-- {
			cl := s.layout.lines[j].clusters
			for k := len(cl) - 1; k >= 0; k-- {
				if cl[k].offset < off {
					return caret{l.block.Key(), cl[k].offset}
				}
			}
		}
	}
	for j := i - 1; j >= 0; j-- {
		if p := s.layout.lines[j]; p.block.Key() != l.block.Key() {
			return caret{p.block.Key(), p.end}
		}
	}
	return s.focus
}

// stepRight returns the caret one grapheme after the focus on line i,
// crossing into the next block at offset 0.
func (s *Surface) stepRight(i int) caret {
	l := s.layout.lines[i]
	off := s.focus.off
	for j := i; j < len(s.layout.lines) && s.layout.lines[j].block.Key() == l.block.Key(); j++ {
		for _, cl := range s.layout.lines[j].clusters {
			if cl.offset >= off {
				return caret{l.block.Key(), cl.offset + cl.runes}
			}
		}
	}
	for j := i + 1; j < len(s.layout.lines); j++ {
		if n := s.layout.lines[j]; n.block.Key() != l.block.Key() {
			return caret{n.block.Key(), 0}
		}
	}
	return s.focus
}

// ClickAt places the caret at document row and screen column col. It
// returns false when row is below the last line.
func (s *Surface) ClickAt(row, col int) bool {
	if row < 0 || row >= len(s.layout.lines) {
		return false
	}
	l := s.layout.lines[row]
	off := 0
	if l.editable {
		off = l.offsetAt(col)
	}
	s.focus = caret{l.block.Key(), off}
	s.anchor = s.focus
	s.active = true
	s.wantCol = -1
	return true
}
