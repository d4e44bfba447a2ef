// Package engine provides the editor state and its transition protocol.
//
// An EditorState composes a content.State, a selection.State, the type of
// the last change and bounded undo/redo stacks. States are immutable: the
// document view holds the current reference and replaces it wholesale on
// every edit.
//
// # Sub-packages
//
//   - content: blocks, entity registry and the document content
//   - selection: anchor/focus coordinates
//   - history: bounded persistent undo/redo stacks
//   - modifier: block operations deriving new states from intents
//
// # Transitions
//
// Two primitives change a state:
//
//	// Commit a content change; records history unless selection-only.
//	next := engine.Push(prev, newContent, engine.ChangeInsertCharacters)
//
//	// Move the caret without touching history.
//	next = engine.ForceSelection(next, selection.Collapsed(key, 0))
//
// Undo and Redo pop the stacks and are no-ops on an empty stack:
//
//	next = engine.Undo(next)
//	next = engine.Redo(next)
//
// # Failure Semantics
//
// Transitions never panic for well-formed input. A selection that
// references a missing block is a precondition violation and the previous
// state is returned unchanged; CheckSelection reports the reason.
//
// # Configuration
//
//	s := engine.New(c,
//	    engine.WithMaxUndoEntries(200),
//	    engine.WithSelection(selection.Collapsed(key, 3)),
//	)
package engine
