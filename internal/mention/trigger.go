package mention

import (
	"slices"
	"unicode"

	"github.com/dshills/pagestorm/internal/blocktype"
	"github.com/dshills/pagestorm/internal/engine"
	"github.com/dshills/pagestorm/internal/engine/selection"
)

// DefaultPrefixes are the trigger characters recognised when none are
// configured.
var DefaultPrefixes = []string{"@", "/"}

// Trigger is a prefix and search token typed before the caret.
type Trigger struct {
	// Selection spans from the prefix character to the caret.
	Selection selection.State

	// Prefix is the trigger character.
	Prefix string

	// Token is the text typed after the prefix.
	Token string
}

// FindTrigger looks backwards from a collapsed caret for a trigger prefix
// that starts the block or follows whitespace, with no whitespace between
// it and the caret. Prefixes are single characters; longer strings are
// ignored. Prefix characters that belong to an entity do not count.
func FindTrigger(state *engine.EditorState, prefixes []string) (Trigger, bool) {
	if state == nil {
		return Trigger{}, false
	}
	if len(prefixes) == 0 {
		prefixes = DefaultPrefixes
	}
	sel := state.Selection()
	if !sel.IsCollapsed() {
		return Trigger{}, false
	}
	b, ok := state.FocusBlock()
	if !ok || !blocktype.For(b).IsEditable() {
		return Trigger{}, false
	}

	text := []rune(b.Text())
	caret := min(sel.FocusOffset, len(text))
	for i := caret - 1; i >= 0; i-- {
		r := text[i]
		if unicode.IsSpace(r) {
			return Trigger{}, false
		}
		if !slices.Contains(prefixes, string(r)) {
			continue
		}
		if i > 0 && !unicode.IsSpace(text[i-1]) {
			continue
		}
		if _, inEntity := b.EntityAt(i); inEntity {
			continue
		}
		return Trigger{
			Selection: selection.Range(b.Key(), i, b.Key(), caret),
			Prefix:    string(r),
			Token:     string(text[i+1 : caret]),
		}, true
	}
	return Trigger{}, false
}
