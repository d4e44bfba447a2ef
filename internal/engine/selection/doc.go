// Package selection provides the model's selection representation.
//
// A State is a pair of (block key, rune offset) coordinates: the anchor,
// where the selection started, and the focus, where the caret is. When the
// two coincide the selection is collapsed (a caret). IsBackward records
// whether the focus precedes the anchor in document order; it is computed by
// the content layer, which knows that order.
//
// State is an immutable value type. Clamping offsets to block lengths and
// validating keys is done by content.State.ClampSelection.
package selection
