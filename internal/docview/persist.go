package docview

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Persister stores serialized snapshots for the document service.
type Persister interface {
	Load(ctx context.Context, id string) ([]byte, error)
	Save(ctx context.Context, id string, data []byte) error
}

// ErrInvalidID indicates a document id that cannot name a file.
var ErrInvalidID = errors.New("docview: invalid document id")

// FilePersister keeps one JSON file per document in Dir.
type FilePersister struct {
	Dir string
}

// Path returns the file backing document id.
func (p FilePersister) Path(id string) (string, error) {
	if id == "" || id != filepath.Base(id) || strings.HasPrefix(id, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	if filepath.Ext(id) == "" {
		id += ".json"
	}
	return filepath.Join(p.Dir, id), nil
}

// Load reads document id.
func (p FilePersister) Load(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := p.Path(id)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// Save writes document id through a temporary file so a failed write
// leaves the previous snapshot intact.
func (p FilePersister) Save(ctx context.Context, id string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := p.Path(id)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".pagestorm-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
