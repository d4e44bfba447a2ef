// Package tui is a terminal host for the block editor built on tcell.
//
// The terminal plays the part of the host surface. The screen is laid
// out as a tree of nodes (document, block, wrapped line) and the native
// caret is a position in that tree. Navigation keys move the native caret
// by screen geometry first, and the selection synchronizer then reads the
// caret back into the model. Edits go through the model and the forced
// selection is written back to the surface.
package tui
