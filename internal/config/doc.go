// Package config loads pagestorm settings.
//
// Settings come from three layers, later ones winning:
//
//  1. Built-in defaults (Default)
//  2. A TOML or YAML file, chosen by extension
//  3. PAGESTORM_* environment variables
//
// Example pagestorm.toml:
//
//	[editor]
//	max_undo_entries = 500
//	trigger_prefixes = ["@", "/"]
//
//	[editor.keys]
//	redo = "Ctrl+Y"
//
//	[log]
//	level = "debug"
//	file = "/tmp/pagestorm.log"
package config
