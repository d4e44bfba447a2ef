package input

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Parse errors.
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Parse parses a key specification into an Event.
//
// Supported forms:
//   - single character: "a", "A", "@"
//   - key names: "Enter", "Backspace", "Space", "Up"
//   - with modifiers: "Ctrl+Z", "Alt+Up", "Shift+Tab"
//
// Shift is dropped for character keys since it is part of the character.
func Parse(spec string) (Event, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Event{}, ErrEmptySpec
	}
	modPart, keyPart := "", spec
	switch {
	case strings.HasSuffix(spec, "++"):
		// "Ctrl++"
		modPart, keyPart = strings.TrimSuffix(spec, "++"), "+"
	case spec != "+":
		if i := strings.LastIndex(spec, "+"); i >= 0 {
			modPart, keyPart = spec[:i], spec[i+1:]
		}
	}

	var mods Modifier
	if modPart != "" {
		for _, p := range strings.Split(modPart, "+") {
			mod := ModifierFromName(p)
			if mod == ModNone {
				return Event{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
			}
			mods = mods.With(mod)
		}
	}
	return parseKey(strings.TrimSpace(keyPart), mods)
}

func parseKey(keyPart string, mods Modifier) (Event, error) {
	if keyPart == "" {
		return Event{}, ErrInvalidSpec
	}
	if strings.EqualFold(keyPart, "space") {
		return NewRuneEvent(' ', mods), nil
	}
	if k := KeyFromName(keyPart); k != KeyNone {
		return NewSpecialEvent(k, mods), nil
	}

	runes := []rune(keyPart)
	if len(runes) != 1 {
		return Event{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, keyPart)
	}
	r := runes[0]
	if mods.Has(ModCtrl) {
		r = unicode.ToLower(r)
	}
	return NewRuneEvent(r, mods&^ModShift), nil
}

// MustParse parses a key specification and panics on error. Use only for
// known-valid specs in initialization code.
func MustParse(spec string) Event {
	ev, err := Parse(spec)
	if err != nil {
		panic("invalid key specification: " + spec + ": " + err.Error())
	}
	return ev
}
