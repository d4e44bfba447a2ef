// Package docview owns the live editor state of one open document.
//
// A View holds the latest EditorState and is the only place that replaces
// it. Everything else reads a snapshot and writes through Set or Update,
// which run under the view's lock so a read-then-write is never
// interleaved with another write.
//
// Async work (candidate lookups, uploads, saves) takes a Ticket before it
// starts and checks it before writing back. A ticket dies when the view
// closes or when another edit lands first, so a late callback cannot
// overwrite newer state.
//
// Renderers get RenderProps per block. Their Store exposes the
// "getEditorState" and "setEditorState" items; block and content values
// are read-only snapshots.
package docview
