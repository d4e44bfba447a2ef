// Package content provides the immutable document model for the block editor.
//
// A document is a State: an ordered sequence of Blocks plus an entity
// registry. Blocks are paragraph-like units (text, headings, list items,
// atomic embeds) carrying inline style ranges and entity ranges. Entities
// hold out-of-band metadata (mentions, links, embeds) and are referenced by
// key from ranges, never embedded.
//
// # Storage
//
// Blocks live in an append-only arena shared by every State derived from the
// same document. A State is a list of (key, arena id) slots defining document
// order plus a lazily built key index. Replacing a block appends the new
// version to the arena and copies the slot list; the key index is shared
// whenever the document order did not change.
//
//	s, _ := content.NewState([]content.Block{
//	    content.NewBlock(content.BlockConfig{Key: "a", Text: "Hello"}),
//	}, nil)
//
//	b, _ := s.BlockForKey("a")
//	s2 := s.WithBlock(b.WithText("Hello, world"))
//	// s still holds "Hello"
//
// # Offsets
//
// All offsets are rune offsets into the block text. Ranges are half-open
// [Start, End) and are clamped to [0, Len()] when a block is built, so an
// out-of-range offset can never be stored.
//
// # Errors
//
//   - ErrEntityNotFound: Entity lookup on a missing key
//   - ErrDuplicateKey: NewState received two blocks or entities with one key
package content
