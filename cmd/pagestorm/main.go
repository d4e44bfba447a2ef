// Package main is the entry point for the Pagestorm block editor.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/pagestorm/internal/config"
	"github.com/dshills/pagestorm/internal/docview"
	"github.com/dshills/pagestorm/internal/engine"
	"github.com/dshills/pagestorm/internal/engine/content"
	"github.com/dshills/pagestorm/internal/logging"
	"github.com/dshills/pagestorm/internal/mention"
	"github.com/dshills/pagestorm/internal/tui"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	configPath string
	dataDir    string
	logLevel   string
	docID      string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if opts.dataDir != "" {
		cfg.Storage.Dir = opts.dataDir
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	log, err := logging.FromConfig(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open log: %v\n", err)
		return 1
	}
	defer log.Close()

	keymap := tui.DefaultKeymap()
	if err := keymap.Override(cfg.Editor.Keys); err != nil {
		fmt.Fprintf(os.Stderr, "Error: key bindings: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(cfg.Storage.Dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	persister := docview.FilePersister{Dir: cfg.Storage.Dir}
	view, err := openView(ctx, opts.docID, persister, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer view.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}

	app := tui.New(screen, view, tui.Options{
		Keymap:   keymap,
		Source:   mention.NewCachedSource(docview.PageSource{Dir: cfg.Storage.Dir, Exclude: opts.docID}, 0),
		Prefixes: cfg.Editor.TriggerPrefixes,
		Mention:  cfg.MentionOptions(),
		MaxDepth: cfg.Editor.MaxDepth,
		Logger:   log.Logger,
	})
	log.Info().Str("doc", opts.docID).Str("dir", cfg.Storage.Dir).Msg("editor starting")
	if err := app.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if view.Modified() {
		fmt.Fprintf(os.Stderr, "%s has unsaved changes\n", opts.docID)
	}
	return 0
}

// openView loads document id, or starts an empty one when it has never
// been saved.
func openView(ctx context.Context, id string, p docview.FilePersister, cfg *config.Config, log *logging.Logger) (*docview.View, error) {
	view, err := docview.Open(ctx, id, p, cfg.EngineOptions(), docview.WithLogger(log.Logger))
	if err == nil {
		return view, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	log.Info().Str("doc", id).Msg("new document")
	state := engine.New(content.NewEmpty(), cfg.EngineOptions()...)
	return docview.New(id, state, docview.WithPersister(p), docview.WithLogger(log.Logger)), nil
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file (.toml, .yaml)")
	flag.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.dataDir, "dir", "", "Directory holding documents")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Pagestorm - block document editor\n\n")
		fmt.Fprintf(os.Stderr, "Usage: pagestorm [options] [document]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment:\n")
		for _, name := range config.EnvVars() {
			fmt.Fprintf(os.Stderr, "  %s\n", name)
		}
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("Pagestorm %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	opts.docID = "untitled"
	if flag.NArg() > 0 {
		opts.docID = flag.Arg(0)
	}
	return opts
}
