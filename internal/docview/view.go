package docview

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/pagestorm/internal/engine"
	"github.com/dshills/pagestorm/internal/engine/content"
	"github.com/dshills/pagestorm/internal/snapshot"
)

// Updater computes the next state from the latest one.
type Updater func(*engine.EditorState) *engine.EditorState

// Update is either a replacement state or an Updater applied to the latest
// state. An Update with neither set does nothing.
type Update struct {
	State *engine.EditorState
	Fn    Updater
}

// Set returns an Update that replaces the state.
func Set(s *engine.EditorState) Update { return Update{State: s} }

// With returns an Update that applies fn to the latest state.
func With(fn Updater) Update { return Update{Fn: fn} }

// View owns the editor state of one document.
type View struct {
	mu        sync.Mutex
	id        string
	state     *engine.EditorState
	revision  uint64
	closed    bool
	modified  bool
	listeners map[int]func(*engine.EditorState)
	nextID    int

	instances *Registry
	persister Persister
	log       zerolog.Logger
	now       func() time.Time
}

// Option configures a View.
type Option func(*View)

// WithLogger sets the logger used for persistence failures.
func WithLogger(l zerolog.Logger) Option {
	return func(v *View) { v.log = l }
}

// WithPersister sets where Save writes snapshots.
func WithPersister(p Persister) Option {
	return func(v *View) { v.persister = p }
}

// WithClock overrides the save timestamp source.
func WithClock(now func() time.Time) Option {
	return func(v *View) { v.now = now }
}

// New creates a view over state for document id.
func New(id string, state *engine.EditorState, opts ...Option) *View {
	if state == nil {
		state = engine.New(nil)
	}
	v := &View{
		id:        id,
		state:     state,
		listeners: make(map[int]func(*engine.EditorState)),
		instances: NewRegistry(),
		log:       zerolog.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Open loads document id from p and creates a view over it.
func Open(ctx context.Context, id string, p Persister, engineOpts []engine.Option, opts ...Option) (*View, error) {
	data, err := p.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("docview: load %s: %w", id, err)
	}
	c, err := snapshot.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("docview: load %s: %w", id, err)
	}
	opts = append([]Option{WithPersister(p)}, opts...)
	return New(id, engine.New(c, engineOpts...), opts...), nil
}

// ID returns the document id.
func (v *View) ID() string { return v.id }

// State returns the latest editor state.
func (v *View) State() *engine.EditorState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Content returns the latest content.
func (v *View) Content() *content.State {
	return v.State().Content()
}

// Modified reports whether there are edits since the last successful save.
func (v *View) Modified() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.modified
}

// Apply performs u against the latest state.
func (v *View) Apply(u Update) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrClosed
	}
	next := u.State
	if u.Fn != nil {
		next = u.Fn(v.state)
	}
	return v.commitLocked(next)
}

// Set replaces the state.
func (v *View) Set(s *engine.EditorState) error { return v.Apply(Set(s)) }

// Update applies fn to the latest state.
func (v *View) Update(fn Updater) error { return v.Apply(With(fn)) }

// UpdateIf applies fn only when t is still alive.
func (v *View) UpdateIf(t Ticket, fn Updater) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrClosed
	}
	if t.view != v || t.revision != v.revision {
		v.mu.Unlock()
		return ErrStale
	}
	return v.commitLocked(fn(v.state))
}

// commitLocked stores next and notifies listeners. It releases v.mu.
func (v *View) commitLocked(next *engine.EditorState) error {
	if next == nil || next == v.state {
		v.mu.Unlock()
		return nil
	}
	if next.Content() != v.state.Content() {
		v.modified = true
	}
	v.state = next
	v.revision++
	listeners := make([]func(*engine.EditorState), 0, len(v.listeners))
	for _, fn := range v.listeners {
		listeners = append(listeners, fn)
	}
	v.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
	return nil
}

// Subscribe calls fn after every state change until the returned function
// is called.
func (v *View) Subscribe(fn func(*engine.EditorState)) (unsubscribe func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	id := v.nextID
	v.nextID++
	v.listeners[id] = fn
	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		delete(v.listeners, id)
	}
}

// Ticket captures the current revision for async work.
func (v *View) Ticket() Ticket {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Ticket{view: v, revision: v.revision}
}

// Instances returns the registry of sub-editor instances scoped to this
// view.
func (v *View) Instances() *Registry { return v.instances }

// Save encodes the latest content and hands it to the persister. A failure
// is logged and returned; the in-memory state is left as it is.
func (v *View) Save(ctx context.Context) error {
	v.mu.Lock()
	if v.persister == nil {
		v.mu.Unlock()
		return ErrNoPersister
	}
	c := v.state.Content()
	rev := v.revision
	p := v.persister
	v.mu.Unlock()

	data, err := snapshot.Encode(c)
	if err == nil {
		data, err = snapshot.Stamp(data, snapshot.Meta{DocumentID: v.id, SavedAt: v.now()})
	}
	if err == nil {
		err = p.Save(ctx, v.id, data)
	}
	if err != nil {
		v.log.Error().Err(err).Str("document", v.id).Msg("save failed")
		return fmt.Errorf("docview: save %s: %w", v.id, err)
	}

	v.mu.Lock()
	if v.revision == rev || v.state.Content() == c {
		v.modified = false
	}
	v.mu.Unlock()
	v.log.Debug().Str("document", v.id).Int("bytes", len(data)).Msg("saved")
	return nil
}

// Close kills outstanding tickets, drops listeners and closes registered
// instances that implement io.Closer. Close is idempotent.
func (v *View) Close() error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return nil
	}
	v.closed = true
	v.listeners = make(map[int]func(*engine.EditorState))
	v.mu.Unlock()

	var firstErr error
	for _, inst := range v.instances.drain() {
		if c, ok := inst.(io.Closer); ok {
			if err := c.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Closed reports whether Close has been called.
func (v *View) Closed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}

// Ticket is a liveness token for async work started against a view.
type Ticket struct {
	view     *View
	revision uint64
}

// Alive reports whether the view is open and unchanged since the ticket
// was taken.
func (t Ticket) Alive() bool {
	if t.view == nil {
		return false
	}
	t.view.mu.Lock()
	defer t.view.mu.Unlock()
	return !t.view.closed && t.view.revision == t.revision
}

// Mounted reports whether the view is still open, whatever edits happened.
func (t Ticket) Mounted() bool {
	return t.view != nil && !t.view.Closed()
}
