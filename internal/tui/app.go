package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/dshills/pagestorm/internal/blocktype"
	"github.com/dshills/pagestorm/internal/docview"
	"github.com/dshills/pagestorm/internal/engine"
	"github.com/dshills/pagestorm/internal/engine/content"
	"github.com/dshills/pagestorm/internal/engine/history"
	"github.com/dshills/pagestorm/internal/engine/modifier"
	"github.com/dshills/pagestorm/internal/input"
	"github.com/dshills/pagestorm/internal/mention"
	"github.com/dshills/pagestorm/internal/selsync"
)

// statusRows is the number of rows reserved below the document.
const statusRows = 1

// Options configures an App.
type Options struct {
	// Keymap defaults to DefaultKeymap.
	Keymap *Keymap

	// Source supplies "@" mention candidates. Nil disables mentions.
	Source mention.Source

	// Prefixes are the trigger characters. "/" opens the block menu and
	// every other prefix opens the mention menu.
	Prefixes []string

	// Mention tunes mention insertion.
	Mention mention.Options

	// MaxDepth bounds indentation.
	MaxDepth int

	Logger zerolog.Logger
}

// App runs the editor on a tcell screen.
type App struct {
	screen  tcell.Screen
	view    *docview.View
	surface *Surface
	adapter *selsync.TreeAdapter
	sync    *selsync.Synchronizer
	opts    Options
	log     zerolog.Logger

	ctx    context.Context
	top    int
	menu   *menu
	status string
	quit   bool
	theme  theme
}

// New creates an app for view on screen. The screen is initialised by Run.
func New(screen tcell.Screen, view *docview.View, opts Options) *App {
	if opts.Keymap == nil {
		opts.Keymap = DefaultKeymap()
	}
	if len(opts.Prefixes) == 0 {
		opts.Prefixes = mention.DefaultPrefixes
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = 4
	}
	a := &App{
		screen: screen,
		view:   view,
		opts:   opts,
		log:    opts.Logger,
		ctx:    context.Background(),
		theme:  defaultTheme(),
	}
	a.surface = NewSurface(view.Content(), 80)
	a.adapter = selsync.NewTreeAdapter(a.surface)
	a.sync = selsync.New(a.adapter, selsync.WithLogger(a.log))
	return a
}

// Init prepares the screen and places the native caret on the model
// selection.
func (a *App) Init() error {
	if err := a.screen.Init(); err != nil {
		return err
	}
	a.screen.EnableMouse()
	a.screen.EnablePaste()
	a.layout()
	if err := a.surface.SetNativeSelection(a.view.State().Selection()); err != nil {
		a.log.Debug().Err(err).Msg("initial selection not rendered")
	}
	a.draw()
	return nil
}

// Run processes events until the user quits or ctx is done.
func (a *App) Run(ctx context.Context) error {
	a.ctx = ctx
	if err := a.Init(); err != nil {
		return err
	}
	defer a.screen.Fini()

	done := make(chan struct{})
	defer close(done)
	go a.interruptOnDone(ctx, done)

	for !a.quit {
		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if _, ok := ev.(*tcell.EventInterrupt); ok && ctx.Err() != nil {
			return nil
		}
		a.HandleEvent(ev)
	}
	return nil
}

// interruptOnDone wakes the event loop when ctx ends. It returns without
// posting once done is closed.
func (a *App) interruptOnDone(ctx context.Context, done <-chan struct{}) {
	select {
	case <-ctx.Done():
		_ = a.screen.PostEvent(tcell.NewEventInterrupt(ctx.Err()))
	case <-done:
	}
}

// Quit reports whether the user asked to quit.
func (a *App) Quit() bool { return a.quit }

// HandleEvent processes one screen event and redraws.
func (a *App) HandleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		a.handleKey(input.FromTcell(ev))
	case *tcell.EventMouse:
		a.handleMouse(ev)
	case *tcell.EventResize:
		a.screen.Sync()
	case *candidatesEvent:
		a.handleCandidates(ev)
	}
	if !a.quit {
		a.layout()
		a.draw()
	}
}

// update applies fn to the view and writes a forced selection back to the
// surface.
func (a *App) update(fn docview.Updater) {
	before := a.view.State()
	if err := a.view.Update(fn); err != nil {
		a.setStatus("%v", err)
		return
	}
	after := a.view.State()
	if after == before {
		return
	}
	a.layout()
	if err := a.sync.Apply(after); err != nil && !errors.Is(err, ErrNotRendered) {
		a.setStatus("%v", err)
	}
}

// stepHistory runs an undo or redo step and names the change in the status line.
func (a *App) stepHistory(
	check func(*engine.EditorState) error,
	next func(*engine.EditorState) (history.OperationInfo, bool),
	step docview.Updater,
	verb string,
) {
	state := a.view.State()
	if err := check(state); err != nil {
		a.setStatus("%v", err)
		return
	}
	info, _ := next(state)
	a.update(step)
	a.setStatus("%s %s", verb, info.Description)
}

func (a *App) handleKey(ev input.Event) {
	if a.menu != nil && a.handleMenuKey(ev) {
		return
	}
	if act := a.opts.Keymap.Lookup(ev); act != ActionNone {
		a.perform(act)
		return
	}

	switch ev.Key {
	case input.KeyUp, input.KeyDown, input.KeyLeft, input.KeyRight, input.KeyHome, input.KeyEnd:
		a.surface.Move(directionOf(ev.Key), ev.Modifiers.Has(input.ModShift))
		a.syncKey(ev)
	case input.KeyPageUp, input.KeyPageDown:
		_, h := a.screen.Size()
		dir := MoveUp
		if ev.Key == input.KeyPageDown {
			dir = MoveDown
		}
		for range max(h-statusRows-1, 1) {
			a.surface.Move(dir, ev.Modifiers.Has(input.ModShift))
		}
		a.syncKey(ev)
	case input.KeyBackspace:
		a.update(modifier.Backspace)
		a.syncKey(ev)
	case input.KeyDelete:
		a.update(modifier.Delete)
		a.syncKey(ev)
	case input.KeyEnter:
		a.update(modifier.SplitAtSelection)
		a.syncKey(ev)
	case input.KeyEscape:
		a.menu = nil
	case input.KeyRune:
		if ev.IsChar() {
			a.update(func(s *engine.EditorState) *engine.EditorState {
				return modifier.InsertText(s, string(ev.Rune))
			})
		}
	}
	a.refreshMenu()
}

// syncKey lets the synchronizer read the native caret back after a
// navigation-class key.
func (a *App) syncKey(ev input.Event) {
	a.update(func(s *engine.EditorState) *engine.EditorState {
		return a.sync.HandleKey(s, ev)
	})
}

func directionOf(k input.Key) Direction {
	switch k {
	case input.KeyLeft:
		return MoveLeft
	case input.KeyRight:
		return MoveRight
	case input.KeyUp:
		return MoveUp
	case input.KeyDown:
		return MoveDown
	case input.KeyHome:
		return MoveHome
	default:
		return MoveEnd
	}
}

func (a *App) perform(act Action) {
	switch act {
	case ActionQuit:
		a.quit = true
	case ActionSave:
		if err := a.view.Save(a.ctx); err != nil {
			a.setStatus("save failed: %v", err)
		} else {
			a.setStatus("saved")
		}
	case ActionUndo:
		a.stepHistory(engine.CheckUndo, engine.NextUndo, engine.Undo, "undo")
	case ActionRedo:
		a.stepHistory(engine.CheckRedo, engine.NextRedo, engine.Redo, "redo")
	case ActionBold:
		a.toggleStyle(content.StyleBold)
	case ActionItalic:
		a.toggleStyle(content.StyleItalic)
	case ActionUnderline:
		a.toggleStyle(content.StyleUnderline)
	case ActionCode:
		a.toggleStyle(content.StyleCode)
	case ActionStrikethrough:
		a.toggleStyle(content.StyleStrikethrough)
	case ActionIndent, ActionOutdent:
		delta := 1
		if act == ActionOutdent {
			delta = -1
		}
		a.update(func(s *engine.EditorState) *engine.EditorState {
			return modifier.AdjustDepth(s, delta, a.opts.MaxDepth)
		})
	case ActionToggle:
		a.update(func(s *engine.EditorState) *engine.EditorState {
			return modifier.ToggleChecklist(s, s.Selection().FocusKey)
		})
	default:
		if t, ok := actionTypes[act]; ok {
			a.update(func(s *engine.EditorState) *engine.EditorState {
				return modifier.SetBlockType(s, s.Selection().FocusKey, t)
			})
		}
	}
}

var actionTypes = map[Action]content.BlockType{
	ActionText:         content.TypeUnstyled,
	ActionHeadingOne:   content.TypeHeaderOne,
	ActionHeadingTwo:   content.TypeHeaderTwo,
	ActionHeadingThree: content.TypeHeaderThree,
	ActionBulleted:     content.TypeBulleted,
	ActionNumbered:     content.TypeNumbered,
	ActionChecklist:    content.TypeChecklist,
	ActionToggleBlock:  content.TypeToggle,
	ActionQuote:        content.TypeBlockquote,
	ActionCodeBlock:    content.TypeCode,
}

func (a *App) toggleStyle(style string) {
	a.update(func(s *engine.EditorState) *engine.EditorState {
		return modifier.ToggleInlineStyle(s, style)
	})
}

func (a *App) handleMouse(ev *tcell.EventMouse) {
	if ev.Buttons()&tcell.Button1 == 0 {
		return
	}
	x, y := ev.Position()
	_, h := a.screen.Size()
	if y >= h-statusRows {
		return
	}
	if a.menu != nil {
		a.menu = nil
	}
	row := y + a.top
	if !a.surface.ClickAt(row, x) {
		a.update(func(s *engine.EditorState) *engine.EditorState {
			return selsync.HandleClickInEditor(s, false)
		})
		return
	}

	l := a.surface.layout.lines[row]
	if l.editable && l.start == 0 && x < l.indent && blocktype.For(l.block).ToggleKey != "" {
		a.update(func(s *engine.EditorState) *engine.EditorState {
			return modifier.ToggleChecklist(s, l.block.Key())
		})
		return
	}
	a.update(func(s *engine.EditorState) *engine.EditorState {
		sel, ok := a.adapter.ResolveNativeToModel(s.Content())
		if !ok {
			return s
		}
		return engine.AcceptSelection(s, sel.WithFocus(true))
	})
}

// refreshMenu opens, updates or closes the insert menu for the trigger
// before the caret.
func (a *App) refreshMenu() {
	state := a.view.State()
	trig, ok := mention.FindTrigger(state, a.opts.Prefixes)
	if !ok {
		a.menu = nil
		return
	}
	if a.menu != nil && a.menu.trigger == trig {
		return
	}
	if trig.Prefix == "/" {
		a.menu = &menu{trigger: trig, items: slashItems(trig.Token)}
		return
	}
	if a.opts.Source == nil {
		a.menu = nil
		return
	}
	a.menu = &menu{trigger: trig, loading: true}
	ticket := a.view.Ticket()
	ctx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	go func() {
		defer cancel()
		fetchMentions(ctx, a.opts.Source, trig, a.opts.Mention, ticket, func(ev *candidatesEvent) {
			if err := a.screen.PostEvent(ev); err != nil {
				a.log.Warn().Err(err).Msg("drop mention candidates")
			}
		})
	}()
}

func (a *App) handleCandidates(ev *candidatesEvent) {
	if !ev.ticket.Alive() || a.menu == nil || a.menu.trigger != ev.trigger {
		a.log.Debug().Str("token", ev.trigger.Token).Msg("stale mention candidates")
		return
	}
	if ev.err != nil {
		a.setStatus("mentions: %v", ev.err)
		a.menu = nil
		return
	}
	a.menu.items = ev.items
	a.menu.loading = false
	a.menu.selected = 0
}

// handleMenuKey handles keys that drive an open menu. It returns false
// for keys that should reach the editor.
func (a *App) handleMenuKey(ev input.Event) bool {
	switch ev.Key {
	case input.KeyUp:
		a.menu.move(-1)
	case input.KeyDown:
		a.menu.move(1)
	case input.KeyEscape:
		a.menu = nil
	case input.KeyEnter, input.KeyTab:
		if len(a.menu.items) == 0 {
			return ev.Key == input.KeyTab
		}
		item := a.menu.items[a.menu.selected]
		trig := a.menu.trigger
		a.menu = nil
		var applyErr error
		a.update(func(s *engine.EditorState) *engine.EditorState {
			next, err := item.apply(s, trig)
			applyErr = err
			return next
		})
		if applyErr != nil {
			a.setStatus("insert: %v", applyErr)
		}
	default:
		return false
	}
	return true
}

func (a *App) setStatus(format string, args ...any) {
	a.status = fmt.Sprintf(format, args...)
}

// layout re-wraps the document to the screen width and scrolls the caret
// into view.
func (a *App) layout() {
	w, h := a.screen.Size()
	a.surface.Relayout(a.view.Content(), w)
	row, _, ok := a.surface.Caret()
	if !ok {
		return
	}
	rows := max(h-statusRows, 1)
	if row < a.top {
		a.top = row
	}
	if row >= a.top+rows {
		a.top = row - rows + 1
	}
}
