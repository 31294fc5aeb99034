package users

import (
	"context"
	"time"
)

type Repo interface {
	// Create inserts a new user and fails with ErrEmailTaken on a duplicate email.
	Create(ctx context.Context, user User) error
	// Upsert inserts or refreshes an OAuth identity by id.
	Upsert(ctx context.Context, user User) error
	GetByID(ctx context.Context, userID string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByVerificationHash(ctx context.Context, tokenHash string) (User, error)
	MarkVerified(ctx context.Context, userID string, at time.Time) error
	TouchLogin(ctx context.Context, userID string, at time.Time) error
}
