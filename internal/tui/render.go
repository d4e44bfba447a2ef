package tui

import (
	"fmt"
	"slices"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/pagestorm/internal/engine/content"
	"github.com/dshills/pagestorm/internal/engine/selection"
)

// placeholder is shown in an empty block holding the caret.
const placeholder = "Type '/' for commands"

type theme struct {
	text      tcell.Style
	marker    tcell.Style
	heading   tcell.Style
	quote     tcell.Style
	code      tcell.Style
	mention   tcell.Style
	link      tcell.Style
	atomic    tcell.Style
	hint      tcell.Style
	status    tcell.Style
	menu      tcell.Style
	menuFocus tcell.Style
}

func defaultTheme() theme {
	base := tcell.StyleDefault
	return theme{
		text:      base,
		marker:    base.Foreground(tcell.ColorGray),
		heading:   base.Bold(true),
		quote:     base.Italic(true),
		code:      base.Foreground(tcell.ColorGreen),
		mention:   base.Foreground(tcell.ColorBlue).Bold(true),
		link:      base.Foreground(tcell.ColorBlue).Underline(true),
		atomic:    base.Foreground(tcell.ColorTeal).Dim(true),
		hint:      base.Foreground(tcell.ColorGray).Dim(true),
		status:    base.Reverse(true),
		menu:      base.Background(tcell.ColorDarkSlateGray).Foreground(tcell.ColorWhite),
		menuFocus: base.Background(tcell.ColorWhite).Foreground(tcell.ColorBlack),
	}
}

// blockStyle is the base style of every character of b.
func (t theme) blockStyle(b content.Block) tcell.Style {
	switch b.Type() {
	case content.TypeHeaderOne, content.TypeHeaderTwo, content.TypeHeaderThree, content.TypeTitle:
		return t.heading
	case content.TypeBlockquote:
		return t.quote
	case content.TypeCode:
		return t.code
	default:
		return t.text
	}
}

// charStyle applies the inline styles and entity at offset.
func (t theme) charStyle(c *content.State, b content.Block, off int) tcell.Style {
	st := t.blockStyle(b)
	for _, s := range b.StylesAt(off) {
		switch s {
		case content.StyleBold:
			st = st.Bold(true)
		case content.StyleItalic:
			st = st.Italic(true)
		case content.StyleUnderline:
			st = st.Underline(true)
		case content.StyleStrikethrough:
			st = st.StrikeThrough(true)
		case content.StyleCode:
			st = st.Foreground(tcell.ColorGreen)
		}
	}
	if ek, ok := b.EntityAt(off); ok {
		if e, err := c.Entity(ek); err == nil {
			switch {
			case e.Type().IsMention():
				st = t.mention
			case e.Type() == content.EntityLink:
				st = t.link
			case e.Type() == content.EntityComment:
				st = st.Background(tcell.ColorOlive)
			}
		}
	}
	return st
}

// draw renders the document, the menu, the status line and the cursor.
func (a *App) draw() {
	s := a.screen
	s.Clear()
	w, h := s.Size()
	rows := max(h-statusRows, 0)

	state := a.view.State()
	c := state.Content()
	sel, _ := c.ClampSelection(state.Selection())
	lines := a.surface.layout.lines
	for y := 0; y < rows && a.top+y < len(lines); y++ {
		a.drawLine(c, lines[a.top+y], y, w, sel)
	}
	if len(lines) == 1 && lines[0].editable && lines[0].end == 0 {
		putString(s, lines[0].indent, 0, w, placeholder, a.theme.hint)
	}

	a.drawStatus(w, h)

	row, col, ok := a.surface.Caret()
	if ok && row >= a.top && row < a.top+rows {
		if a.menu != nil {
			a.drawMenu(row-a.top+1, col, w, rows)
		}
		s.ShowCursor(col, row-a.top)
	} else {
		s.HideCursor()
	}
	s.Show()
}

func (a *App) drawLine(c *content.State, l *line, y, w int, sel selection.State) {
	s := a.screen
	if l.prefix != "" {
		putString(s, l.indent-uniseg.StringWidth(l.prefix), y, w, l.prefix, a.theme.marker)
	}
	if !l.editable {
		putString(s, l.indent, y, w, l.label, a.theme.atomic)
		return
	}
	x := l.indent
	for _, cl := range l.clusters {
		if x >= w {
			return
		}
		st := a.theme.charStyle(c, l.block, cl.offset)
		if selected(c, sel, l.block.Key(), cl.offset) {
			st = st.Reverse(true)
		}
		if cl.width == 0 {
			continue
		}
		runes := []rune(cl.text)
		s.SetContent(x, y, runes[0], runes[1:], st)
		x += cl.width
	}
}

// selected reports whether the rune at (key, off) is inside sel.
func selected(c *content.State, sel selection.State, key string, off int) bool {
	if sel.IsCollapsed() || sel.IsZero() {
		return false
	}
	keys := c.Keys()
	bi := slices.Index(keys, key)
	si := slices.Index(keys, sel.StartKey())
	ei := slices.Index(keys, sel.EndKey())
	if bi < si || bi > ei {
		return false
	}
	if bi == si && off < sel.StartOffset() {
		return false
	}
	if bi == ei && off >= sel.EndOffset() {
		return false
	}
	return true
}

func (a *App) drawStatus(w, h int) {
	if h < 1 {
		return
	}
	y := h - 1
	for x := 0; x < w; x++ {
		a.screen.SetContent(x, y, ' ', nil, a.theme.status)
	}
	name := a.view.ID()
	if a.view.Modified() {
		name += " [+]"
	}
	state := a.view.State()
	info := fmt.Sprintf(" %s  %d blocks  undo %d/%d", name, state.Content().BlockCount(),
		state.UndoStack().Len(), state.RedoStack().Len())
	if a.status != "" {
		info += "  " + a.status
	}
	putString(a.screen, 0, y, w, info, a.theme.status)
}

func (a *App) drawMenu(y, x, w, rows int) {
	items := a.menu.items
	if a.menu.loading {
		putString(a.screen, x, y, w, " searching… ", a.theme.menu)
		return
	}
	if len(items) == 0 {
		putString(a.screen, x, y, w, " no results ", a.theme.menu)
		return
	}
	width := 0
	for _, it := range items {
		width = max(width, uniseg.StringWidth(it.label)+2)
	}
	if x+width > w {
		x = max(w-width, 0)
	}
	for i, it := range items {
		if y+i >= rows {
			break
		}
		st := a.theme.menu
		if i == a.menu.selected {
			st = a.theme.menuFocus
		}
		label := " " + it.label
		for pad := uniseg.StringWidth(label); pad < width; pad++ {
			label += " "
		}
		putString(a.screen, x, y+i, w, label, st)
	}
}

// putString draws text at (x, y), clipped at w, and returns the column
// after it.
func putString(s tcell.Screen, x, y, w int, text string, st tcell.Style) int {
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		cw := g.Width()
		if x+cw > w {
			break
		}
		runes := g.Runes()
		if x >= 0 && cw > 0 {
			s.SetContent(x, y, runes[0], runes[1:], st)
		}
		x += cw
	}
	return x
}
