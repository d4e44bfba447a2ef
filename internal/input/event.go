package input

import (
	"strings"
	"time"
	"unicode"
)

// Event is a single key press.
type Event struct {
	Key       Key
	Rune      rune // set for KeyRune
	Modifiers Modifier
	Timestamp time.Time
}

// NewRuneEvent returns a press of character r.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods, Timestamp: time.Now()}
}

// NewSpecialEvent returns a press of a named key.
func NewSpecialEvent(key Key, mods Modifier) Event {
	return Event{Key: key, Modifiers: mods, Timestamp: time.Now()}
}

// IsRune reports a character press.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// IsChar returns true if the event types a printable character.
func (e Event) IsChar() bool {
	return e.IsRune() && !e.IsModified() && unicode.IsPrint(e.Rune)
}

// IsModified returns true if any modifier is pressed. For character events
// Shift alone does not count since it changes the character itself.
func (e Event) IsModified() bool {
	if e.IsRune() {
		return e.Modifiers&(ModCtrl|ModAlt|ModMeta) != 0
	}
	return e.Modifiers != ModNone
}

// MovesSelection returns true for the navigation class of events after
// which a host surface may have moved its own caret: arrows, Home, End,
// page keys, Backspace, Delete and Enter.
func (e Event) MovesSelection() bool {
	switch e.Key {
	case KeyBackspace, KeyDelete, KeyEnter:
		return true
	default:
		return e.Key.IsNavigationKey()
	}
}

// Equals compares key, rune and modifiers, ignoring the timestamp.
func (e Event) Equals(other Event) bool {
	return e.Key == other.Key && e.Rune == other.Rune && e.Modifiers == other.Modifiers
}

// Matches reports whether e is the press spec describes.
func (e Event) Matches(spec string) bool {
	parsed, err := Parse(spec)
	if err != nil {
		return false
	}
	return e.Equals(parsed)
}

// String returns a canonical representation such as "Ctrl+Z", "Enter" or
// "a". It parses back to an equal event.
func (e Event) String() string {
	mods := e.Modifiers
	if e.IsRune() {
		mods &^= ModShift
	}
	var name string
	switch e.Key {
	case KeyRune:
		if e.Rune == ' ' {
			name = "Space"
		} else {
			name = string(e.Rune)
		}
	default:
		name = e.Key.String()
	}
	if mods == ModNone {
		return name
	}
	return strings.Join([]string{mods.String(), name}, "+")
}
