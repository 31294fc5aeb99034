package portfolios

import (
	"context"
	"time"
)

type Repo interface {
	Create(ctx context.Context, p Portfolio) error
	// GetByID returns ErrForbidden when the record belongs to another owner.
	GetByID(ctx context.Context, userID, id string) (Portfolio, error)
	// ListByUser returns the owner's records, most recently updated first.
	ListByUser(ctx context.Context, userID string) ([]Portfolio, error)
	Delete(ctx context.Context, userID, id string) error
	// Finalize moves a generating record to a terminal status. It is a
	// compare-and-set on status and fails with ErrInvalidTransition otherwise.
	// Records of another owner yield ErrForbidden.
	Finalize(ctx context.Context, userID, id string, status Status, generated *GeneratedContent, at time.Time) error
}
