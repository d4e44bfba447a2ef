// Package logging builds the zerolog logger shared by pagestorm
// components.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/pagestorm/internal/config"
)

const permission = 0o664

// Builder assembles a Logger.
type Builder struct {
	writer io.Writer
	path   string
	level  zerolog.Level
	format string
}

// Logger is a zerolog logger plus the file it writes to, if any.
type Logger struct {
	zerolog.Logger
	file *os.File
}

// New returns a builder for an info level console logger with no output.
func New() *Builder {
	return &Builder{level: zerolog.InfoLevel, format: config.FormatConsole}
}

// FromPath appends log lines to the file at path.
func (b *Builder) FromPath(path string) *Builder {
	b.path = path
	return b
}

// FromWriter writes log lines to w. A path takes precedence.
func (b *Builder) FromWriter(w io.Writer) *Builder {
	b.writer = w
	return b
}

// Level sets the minimum level.
func (b *Builder) Level(l zerolog.Level) *Builder {
	b.level = l
	return b
}

// Format selects config.FormatConsole or config.FormatJSON.
func (b *Builder) Format(f string) *Builder {
	b.format = f
	return b
}

// Make opens the output and builds the logger. Without a path or writer
// the logger discards everything.
func (b *Builder) Make() (*Logger, error) {
	l := &Logger{}
	w := b.writer
	if b.path != "" {
		f, err := os.OpenFile(b.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, err
		}
		l.file = f
		w = zerolog.SyncWriter(f)
	}
	if w == nil {
		l.Logger = zerolog.Nop()
		return l, nil
	}
	if b.format != config.FormatJSON {
		w = zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: time.RFC3339}
	}
	l.Logger = zerolog.New(w).Level(b.level).With().Timestamp().Logger()
	return l, nil
}

// FromConfig builds the logger described by cfg.
func FromConfig(cfg config.LogConfig) (*Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return nil, err
	}
	return New().FromPath(cfg.File).Level(level).Format(cfg.Format).Make()
}

// Close closes the log file.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
