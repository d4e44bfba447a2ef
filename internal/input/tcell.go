package input

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// FromTcell converts a tcell key event. Control characters tcell reports
// as KeyCtrlA..KeyCtrlZ become rune events with ModCtrl so bindings such
// as "Ctrl+Z" match. Keys without a mapping return KeyNone.
func FromTcell(ev *tcell.EventKey) Event {
	mods := fromTcellMod(ev.Modifiers())
	k := ev.Key()
	if k == tcell.KeyBackspace2 {
		k = tcell.KeyBackspace
	}

	switch {
	case k == tcell.KeyRune:
		r := ev.Rune()
		if mods.Has(ModCtrl) {
			r = unicode.ToLower(r)
		}
		return NewRuneEvent(r, mods)
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ && !isNamedControl(k):
		return NewRuneEvent(rune('a'+(k-tcell.KeyCtrlA)), mods.With(ModCtrl)&^ModShift)
	}

	if k == tcell.KeyBacktab {
		mods = mods.With(ModShift)
	}
	key, ok := tcellKeys[k]
	if !ok {
		return Event{Key: KeyNone, Modifiers: mods}
	}
	return NewSpecialEvent(key, mods)
}

// isNamedControl reports control codes that tcell also delivers for named
// keys (Tab is Ctrl+I, Enter is Ctrl+M, Backspace is Ctrl+H).
func isNamedControl(k tcell.Key) bool {
	return k == tcell.KeyTab || k == tcell.KeyEnter || k == tcell.KeyBackspace
}

var tcellKeys = map[tcell.Key]Key{
	tcell.KeyEscape:    KeyEscape,
	tcell.KeyEnter:     KeyEnter,
	tcell.KeyTab:       KeyTab,
	tcell.KeyBacktab:   KeyTab,
	tcell.KeyBackspace: KeyBackspace,
	tcell.KeyDelete:    KeyDelete,
	tcell.KeyHome:      KeyHome,
	tcell.KeyEnd:       KeyEnd,
	tcell.KeyPgUp:      KeyPageUp,
	tcell.KeyPgDn:      KeyPageDown,
	tcell.KeyUp:        KeyUp,
	tcell.KeyDown:      KeyDown,
	tcell.KeyLeft:      KeyLeft,
	tcell.KeyRight:     KeyRight,
}

func fromTcellMod(m tcell.ModMask) Modifier {
	var result Modifier
	if m&tcell.ModShift != 0 {
		result |= ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		result |= ModAlt
	}
	if m&tcell.ModMeta != 0 {
		result |= ModMeta
	}
	return result
}
