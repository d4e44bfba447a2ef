package selsync

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/dshills/pagestorm/internal/blocktype"
	"github.com/dshills/pagestorm/internal/engine"
	"github.com/dshills/pagestorm/internal/input"
)

// Phase is the synchronizer state.
type Phase uint8

const (
	// Synced means the model selection is believed to match the host.
	Synced Phase = iota

	// Resolving means the native selection is being read back.
	Resolving
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case Synced:
		return "synced"
	case Resolving:
		return "resolving"
	default:
		return "unknown"
	}
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithLogger sets the logger used for phase transitions.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Synchronizer) {
		s.log = l
	}
}

// Synchronizer reconciles the model selection with the host after
// navigation-class key events.
type Synchronizer struct {
	mu      sync.Mutex
	adapter SelectionAdapter
	phase   Phase
	log     zerolog.Logger
}

// New creates a Synchronizer reading the host through adapter.
func New(adapter SelectionAdapter, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		adapter: adapter,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Phase returns the current phase.
func (s *Synchronizer) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// HandleKey reconciles the selection after ev has been handled by the host.
//
// Only navigation-class events (see input.Event.MovesSelection) received
// while the caret is in a synchronizable block trigger a read-back. The
// resolved position is forced onto the model only when it also lands in a
// synchronizable block. In every other case state is returned unchanged.
func (s *Synchronizer) HandleKey(state *engine.EditorState, ev input.Event) *engine.EditorState {
	if state == nil || s.adapter == nil || !ev.MovesSelection() {
		return state
	}
	focus, ok := state.FocusBlock()
	if !ok || !blocktype.For(focus).Synchronizable {
		return state
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.phase = Resolving
	s.log.Debug().Str("key", ev.String()).Str("block", focus.Key()).Msg("selection resolving")
	defer func() {
		s.phase = Synced
	}()

	sel, ok := s.adapter.ResolveNativeToModel(state.Content())
	if !ok {
		s.log.Debug().Msg("no native selection to resolve")
		return state
	}
	target, ok := state.Content().BlockForKey(sel.FocusKey)
	if !ok || !blocktype.For(target).Synchronizable {
		s.log.Debug().Str("block", sel.FocusKey).Msg("resolved block is not synchronizable")
		return state
	}
	sel.HasFocus = state.Selection().HasFocus
	if sel.Equals(state.Selection()) {
		return state
	}

	s.log.Debug().Stringer("selection", sel).Msg("selection synced")
	return engine.ForceSelection(state, sel)
}

// Apply pushes the model selection to the host when state asks for it.
func (s *Synchronizer) Apply(state *engine.EditorState) error {
	if state == nil || s.adapter == nil || !state.MustForceSelection() {
		return nil
	}
	if err := s.adapter.ApplyModelToNative(state.Selection()); err != nil {
		s.log.Warn().Err(err).Msg("apply selection to host")
		return err
	}
	return nil
}
