package object

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"portfolio-backend/internal/shared/util"
)

// ErrNotFound is returned by Open when no object exists at the key.
var ErrNotFound = errors.New("object not found")

// Store persists binary artifacts under caller-chosen keys.
type Store interface {
	Put(ctx context.Context, key string, contentType string, r io.Reader) (sizeBytes int64, err error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// ExportKey builds the storage key for an export artifact. Owners are
// namespaced by a hash so keys never carry raw user ids.
func ExportKey(ownerID, exportID, ext string) string {
	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	name := exportID
	if ext != "" {
		name += "." + ext
	}
	return path.Join(util.HashKey(ownerID), "exports", name)
}
