package docview

import "errors"

// Errors returned by views.
var (
	// ErrClosed indicates the view has been closed.
	ErrClosed = errors.New("docview: view closed")

	// ErrStale indicates a ticket was overtaken by another edit or by Close.
	ErrStale = errors.New("docview: stale ticket")

	// ErrNoPersister indicates the view was created without a Persister.
	ErrNoPersister = errors.New("docview: no persister")
)
