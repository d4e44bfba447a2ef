// Package history provides the bounded undo/redo stacks of the editor.
//
// An Entry records a committed content.State together with the change type
// that produced the state after it. Stacks are persistent: Push and Pop
// return new stacks and never modify the receiver, so an editor state can
// hold its stacks by value and share them with the states derived from it.
//
//	undo := history.New(1000)
//	undo = undo.Push(history.NewEntry(prevContent, "insert-characters"))
//
//	entry, undo, ok := undo.Pop()
//
// # Bounded Depth
//
// A stack holds at most MaxEntries entries. Pushing onto a full stack drops
// the oldest entry silently.
package history
