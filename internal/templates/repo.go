package templates

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("template not found")

type Repo interface {
	// ListActive returns active templates ordered by name.
	ListActive(ctx context.Context) ([]Template, error)
	GetByID(ctx context.Context, id string) (Template, error)
}
