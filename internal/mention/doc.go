// Package mention inserts mentions and embeds triggered from typed text.
//
// Typing a trigger prefix (such as "@" or "/") followed by a search token
// opens a picker. FindTrigger locates the prefix and token before the
// caret, a Source supplies candidates ranked by Rank, and Insert or
// InsertEmbed replace the trigger text with the chosen item. Each
// insertion is composed into a single content change and committed with
// one engine.Push, so one undo removes it completely.
package mention
