package config

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/dshills/pagestorm/internal/engine"
	"github.com/dshills/pagestorm/internal/input"
	"github.com/dshills/pagestorm/internal/mention"
)

// Config is the complete configuration.
type Config struct {
	Editor  EditorConfig  `toml:"editor" yaml:"editor"`
	Log     LogConfig     `toml:"log" yaml:"log"`
	Storage StorageConfig `toml:"storage" yaml:"storage"`
}

// EditorConfig holds editing behaviour.
type EditorConfig struct {
	// MaxUndoEntries bounds the undo and redo stacks.
	MaxUndoEntries int `toml:"max_undo_entries" yaml:"max_undo_entries"`

	// MaxDepth is the deepest nesting level reachable with indent.
	MaxDepth int `toml:"max_depth" yaml:"max_depth"`

	// TriggerPrefixes are the single characters that open the mention
	// and insert menus.
	TriggerPrefixes []string `toml:"trigger_prefixes" yaml:"trigger_prefixes"`

	// MentionTrailer is the text placed after an inserted mention.
	MentionTrailer string `toml:"mention_trailer" yaml:"mention_trailer"`

	// Keys overrides key bindings, action name to key spec ("Ctrl+Z").
	Keys map[string]string `toml:"keys" yaml:"keys"`
}

// LogConfig controls logging.
type LogConfig struct {
	// Level is a zerolog level name.
	Level string `toml:"level" yaml:"level"`

	// Format is "console" or "json".
	Format string `toml:"format" yaml:"format"`

	// File receives log output. Empty disables logging, since the
	// terminal belongs to the editor.
	File string `toml:"file" yaml:"file"`
}

// StorageConfig locates document snapshots.
type StorageConfig struct {
	// Dir holds one JSON snapshot per document.
	Dir string `toml:"dir" yaml:"dir"`
}

// Log formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			MaxUndoEntries:  engine.DefaultMaxUndoEntries,
			MaxDepth:        4,
			TriggerPrefixes: slices.Clone(mention.DefaultPrefixes),
			MentionTrailer:  mention.DefaultTrailer,
		},
		Log: LogConfig{
			Level:  "info",
			Format: FormatConsole,
		},
		Storage: StorageConfig{
			Dir: ".",
		},
	}
}

// Validate checks every field and reports the first problem.
func (c *Config) Validate() error {
	if c.Editor.MaxUndoEntries <= 0 {
		return invalid("editor.max_undo_entries", "must be positive, got %d", c.Editor.MaxUndoEntries)
	}
	if c.Editor.MaxDepth < 0 {
		return invalid("editor.max_depth", "must not be negative, got %d", c.Editor.MaxDepth)
	}
	if len(c.Editor.TriggerPrefixes) == 0 {
		return invalid("editor.trigger_prefixes", "must not be empty")
	}
	for _, p := range c.Editor.TriggerPrefixes {
		if utf8.RuneCountInString(p) != 1 || strings.TrimSpace(p) == "" {
			return invalid("editor.trigger_prefixes", "%q is not a single visible character", p)
		}
	}
	for action, spec := range c.Editor.Keys {
		if _, err := input.Parse(spec); err != nil {
			return invalid("editor.keys."+action, "%v", err)
		}
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
		return invalid("log.level", "unknown level %q", c.Log.Level)
	}
	if c.Log.Format != FormatConsole && c.Log.Format != FormatJSON {
		return invalid("log.format", "must be %q or %q, got %q", FormatConsole, FormatJSON, c.Log.Format)
	}
	return nil
}

// EngineOptions returns the engine options implied by c.
func (c *Config) EngineOptions() []engine.Option {
	return []engine.Option{engine.WithMaxUndoEntries(c.Editor.MaxUndoEntries)}
}

// MentionOptions returns the insertion options implied by c.
func (c *Config) MentionOptions() mention.Options {
	return mention.Options{Trailer: c.Editor.MentionTrailer}
}

func invalid(field, format string, args ...any) error {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}
