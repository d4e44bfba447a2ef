// Package modifier implements block and text operations over editor state.
//
// Two layers are provided. Content-level functions (InsertTextAt,
// RemoveRange, SplitBlockContent, MergeBlocksContent and friends) take a
// content.State and return a new one with SelectionAfter set to where the
// caret should land. Editor-level functions (InsertText, Backspace,
// SplitBlock, RemoveAtomicBlock, ...) wrap those and commit the result with
// engine.Push under the matching change type.
//
// Every operation is a pure function. An operation given a key that is not
// in the document returns its input unchanged.
package modifier
