package tui

import (
	"fmt"
	"maps"
	"slices"
	"unicode"

	"github.com/dshills/pagestorm/internal/input"
)

// Action is an editor command bound to a key.
type Action uint8

// Actions.
const (
	ActionNone Action = iota
	ActionQuit
	ActionSave
	ActionUndo
	ActionRedo
	ActionBold
	ActionItalic
	ActionUnderline
	ActionCode
	ActionStrikethrough
	ActionIndent
	ActionOutdent
	ActionToggle
	ActionText
	ActionHeadingOne
	ActionHeadingTwo
	ActionHeadingThree
	ActionBulleted
	ActionNumbered
	ActionChecklist
	ActionToggleBlock
	ActionQuote
	ActionCodeBlock
)

var actionNames = map[Action]string{
	ActionQuit:          "quit",
	ActionSave:          "save",
	ActionUndo:          "undo",
	ActionRedo:          "redo",
	ActionBold:          "bold",
	ActionItalic:        "italic",
	ActionUnderline:     "underline",
	ActionCode:          "code",
	ActionStrikethrough: "strikethrough",
	ActionIndent:        "indent",
	ActionOutdent:       "outdent",
	ActionToggle:        "toggle",
	ActionText:          "text",
	ActionHeadingOne:    "heading-one",
	ActionHeadingTwo:    "heading-two",
	ActionHeadingThree:  "heading-three",
	ActionBulleted:      "bulleted",
	ActionNumbered:      "numbered",
	ActionChecklist:     "checklist",
	ActionToggleBlock:   "toggle-block",
	ActionQuote:         "quote",
	ActionCodeBlock:     "code-block",
}

// String returns the action name used in configuration.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "none"
}

// ActionFromName returns the action called name.
func ActionFromName(name string) (Action, bool) {
	for a, n := range actionNames {
		if n == name {
			return a, true
		}
	}
	return ActionNone, false
}

var defaultBindings = map[Action]string{
	ActionQuit:          "Ctrl+Q",
	ActionSave:          "Ctrl+S",
	ActionUndo:          "Ctrl+Z",
	ActionRedo:          "Ctrl+Y",
	ActionBold:          "Ctrl+B",
	ActionItalic:        "Alt+i",
	ActionUnderline:     "Ctrl+U",
	ActionCode:          "Ctrl+E",
	ActionStrikethrough: "Alt+s",
	ActionIndent:        "Tab",
	ActionOutdent:       "Shift+Tab",
	ActionToggle:        "Ctrl+T",
	ActionText:          "Alt+0",
	ActionHeadingOne:    "Alt+1",
	ActionHeadingTwo:    "Alt+2",
	ActionHeadingThree:  "Alt+3",
	ActionBulleted:      "Alt+8",
	ActionNumbered:      "Alt+7",
	ActionChecklist:     "Alt+x",
	ActionToggleBlock:   "Alt+t",
	ActionQuote:         "Alt+q",
	ActionCodeBlock:     "Alt+c",
}

// chord identifies a key press independent of timestamp and of the case a
// modified letter was reported in.
type chord struct {
	key  input.Key
	r    rune
	mods input.Modifier
}

func chordOf(ev input.Event) chord {
	c := chord{key: ev.Key, mods: ev.Modifiers}
	if ev.Key == input.KeyRune {
		c.r = ev.Rune
		c.mods &^= input.ModShift
		if c.mods != input.ModNone {
			c.r = unicode.ToLower(c.r)
		}
	}
	return c
}

// Keymap maps key presses to actions.
type Keymap struct {
	bindings map[chord]Action
}

// DefaultKeymap returns the built-in bindings.
func DefaultKeymap() *Keymap {
	k := &Keymap{bindings: make(map[chord]Action, len(defaultBindings))}
	for _, a := range slices.Sorted(maps.Keys(defaultBindings)) {
		k.bindings[chordOf(input.MustParse(defaultBindings[a]))] = a
	}
	return k
}

// Bind binds spec to a, replacing what spec was bound to and any other
// key bound to a.
func (k *Keymap) Bind(spec string, a Action) error {
	ev, err := input.Parse(spec)
	if err != nil {
		return err
	}
	maps.DeleteFunc(k.bindings, func(_ chord, bound Action) bool { return bound == a })
	k.bindings[chordOf(ev)] = a
	return nil
}

// Override applies configured bindings, action name to key spec.
func (k *Keymap) Override(keys map[string]string) error {
	for _, name := range slices.Sorted(maps.Keys(keys)) {
		a, ok := ActionFromName(name)
		if !ok {
			return fmt.Errorf("unknown action %q", name)
		}
		if err := k.Bind(keys[name], a); err != nil {
			return fmt.Errorf("action %s: %w", name, err)
		}
	}
	return nil
}

// Lookup returns the action bound to ev.
func (k *Keymap) Lookup(ev input.Event) Action {
	return k.bindings[chordOf(ev)]
}
