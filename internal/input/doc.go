// Package input provides host-neutral key events for the editor.
//
// Hosts translate their native events (see FromTcell) into Event values.
// Key specifications such as "Ctrl+Z" or "Shift+Tab" are parsed with Parse
// so bindings can come from configuration.
package input
