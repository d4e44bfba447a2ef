package content

import "errors"

// Errors returned by content operations.
var (
	// ErrEntityNotFound indicates an entity key is not present in the registry.
	ErrEntityNotFound = errors.New("entity not found")

	// ErrDuplicateKey indicates two blocks or two entities share a key.
	ErrDuplicateKey = errors.New("duplicate key")
)
