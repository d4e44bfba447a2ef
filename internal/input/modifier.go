package input

import "strings"

// Modifier is a set of modifier keys.
type Modifier uint8

// Modifier keys.
const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << (iota - 1)
	ModCtrl
	ModAlt  // Option on macOS
	ModMeta // Cmd on macOS
)

// Has reports whether mod is in m.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// With adds mod to m.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// String joins the names in Ctrl, Alt, Shift, Meta order.
func (m Modifier) String() string {
	var parts []string
	if m.Has(ModCtrl) {
		parts = append(parts, "Ctrl")
	}
	if m.Has(ModAlt) {
		parts = append(parts, "Alt")
	}
	if m.Has(ModShift) {
		parts = append(parts, "Shift")
	}
	if m.Has(ModMeta) {
		parts = append(parts, "Meta")
	}
	return strings.Join(parts, "+")
}

var modifierNameMap = map[string]Modifier{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"alt":     ModAlt,
	"option":  ModAlt,
	"opt":     ModAlt,
	"shift":   ModShift,
	"meta":    ModMeta,
	"cmd":     ModMeta,
	"command": ModMeta,
	"super":   ModMeta,
}

// ModifierFromName returns the modifier for name (case-insensitive), or
// ModNone.
func ModifierFromName(name string) Modifier {
	return modifierNameMap[strings.ToLower(strings.TrimSpace(name))]
}
