package tui

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/dshills/pagestorm/internal/blocktype"
	"github.com/dshills/pagestorm/internal/engine/content"
	"github.com/dshills/pagestorm/internal/engine/modifier"
	"github.com/dshills/pagestorm/internal/selsync"
)

// indentWidth is the number of columns per depth level.
const indentWidth = 2

// node is an element of the rendered tree.
type node struct {
	parent *node
	marker selsync.Marker
	marked bool
}

// Parent implements selsync.Node. The root returns a nil interface.
func (n *node) Parent() selsync.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

// Marker implements selsync.Node.
func (n *node) Marker() (selsync.Marker, bool) {
	return n.marker, n.marked
}

// cluster is one grapheme cluster on a line.
type cluster struct {
	text   string
	offset int // rune offset in the block
	runes  int
	width  int
}

// line is one screen row of a block.
type line struct {
	node     *node
	block    content.Block
	editable bool
	start    int // rune offset of the first cluster in the block
	end      int // rune offset after the last cluster
	indent   int // columns before the text, marker included
	prefix   string
	label    string // text shown for non-editable blocks
	clusters []cluster
}

// column returns the screen column of block offset off on l.
func (l *line) column(off int) int {
	x := l.indent
	for _, c := range l.clusters {
		if c.offset >= off {
			break
		}
		x += c.width
	}
	return x
}

// offsetAt returns the block offset nearest to screen column x on l.
func (l *line) offsetAt(x int) int {
	col := l.indent
	for _, c := range l.clusters {
		if x < col+(c.width+1)/2 {
			return c.offset
		}
		col += c.width
	}
	return l.end
}

// layout is the rendered document.
type layout struct {
	root  *node
	lines []*line
	width int
}

// buildLayout wraps every block of c to width columns.
func buildLayout(c *content.State, width int) *layout {
	width = max(width, 8)
	lo := &layout{root: &node{}, width: width}
	blocks := c.BlocksAsArray()
	for _, b := range blocks {
		st := blocktype.For(b)
		bn := &node{parent: lo.root, marker: selsync.Marker{BlockKey: b.Key()}, marked: true}
		indent := b.Depth() * indentWidth
		prefix := st.Marker(b, modifier.Ordinal(b, blocks))

		if !st.IsEditable() {
			lo.lines = append(lo.lines, &line{
				node:   &node{parent: bn, marker: selsync.Marker{BlockKey: b.Key()}, marked: true},
				block:  b,
				indent: indent,
				label:  blockLabel(c, b),
			})
			continue
		}
		lo.lines = append(lo.lines, wrapBlock(bn, b, indent, prefix, width)...)
	}
	return lo
}

// wrapBlock splits the text of b into lines no wider than width.
func wrapBlock(bn *node, b content.Block, indent int, prefix string, width int) []*line {
	first := indent + uniseg.StringWidth(prefix)
	newLine := func(start int) *line {
		return &line{
			node:     &node{parent: bn, marker: selsync.Marker{BlockKey: b.Key(), Offset: start}, marked: true},
			block:    b,
			editable: true,
			start:    start,
			end:      start,
			indent:   first,
		}
	}

	cur := newLine(0)
	cur.prefix = prefix
	lines := []*line{cur}
	col := first
	off := 0
	g := uniseg.NewGraphemes(b.Text())
	for g.Next() {
		cl := cluster{text: g.Str(), offset: off, runes: len(g.Runes()), width: g.Width()}
		if cl.text == "\n" {
			cl.width = 0
		}
		if col+cl.width > width && len(cur.clusters) > 0 {
			cur = newLine(off)
			lines = append(lines, cur)
			col = first
		}
		cur.clusters = append(cur.clusters, cl)
		col += cl.width
		off += cl.runes
		cur.end = off
	}
	return lines
}

// blockLabel is the one-line placeholder for a non-text block.
func blockLabel(c *content.State, b content.Block) string {
	name := string(b.Type())
	if ek, ok := b.EntityAt(0); ok {
		if e, err := c.Entity(ek); err == nil {
			for _, k := range []string{"name", "title", "src", "url"} {
				if v, ok := e.DataValue(k); ok {
					return fmt.Sprintf("[%s: %v]", name, v)
				}
			}
		}
	}
	return "[" + strings.ReplaceAll(name, "-", " ") + "]"
}

// lineFor returns the index of the line showing block offset off of key.
// An offset on a wrap boundary belongs to the later line.
func (lo *layout) lineFor(key string, off int) (int, bool) {
	found := -1
	for i, l := range lo.lines {
		if l.block.Key() != key {
			if found >= 0 {
				break
			}
			continue
		}
		if found < 0 || off >= l.start {
			found = i
		}
	}
	return found, found >= 0
}

// isLastOfBlock reports whether line i is the final line of its block.
func (lo *layout) isLastOfBlock(i int) bool {
	return i == len(lo.lines)-1 || lo.lines[i+1].block.Key() != lo.lines[i].block.Key()
}
