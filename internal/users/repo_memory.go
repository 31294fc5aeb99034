package users

import (
	"context"
	"strings"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu    sync.RWMutex
	users map[string]User
	now   func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		users: make(map[string]User),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryRepo) Create(ctx context.Context, user User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; ok {
		return ErrEmailTaken
	}
	if r.emailOwnerLocked(user.Email) != "" {
		return ErrEmailTaken
	}
	now := r.now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = user
	return nil
}

func (r *MemoryRepo) Upsert(ctx context.Context, user User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if owner := r.emailOwnerLocked(user.Email); owner != "" && owner != user.ID {
		return ErrEmailTaken
	}
	now := r.now()
	existing, ok := r.users[user.ID]
	if ok {
		user.CreatedAt = existing.CreatedAt
		user.PasswordHash = existing.PasswordHash
		if user.EmailVerifiedAt == nil {
			user.EmailVerifiedAt = existing.EmailVerifiedAt
		}
		user.LastLoginAt = existing.LastLoginAt
	} else {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	r.users[user.ID] = user
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[userID]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (r *MemoryRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	id := r.emailOwnerLocked(email)
	if id == "" {
		return User{}, ErrNotFound
	}
	return r.users[id], nil
}

func (r *MemoryRepo) GetByVerificationHash(ctx context.Context, tokenHash string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	if tokenHash == "" {
		return User{}, ErrNotFound
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.VerificationTokenHash == tokenHash {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *MemoryRepo) MarkVerified(ctx context.Context, userID string, at time.Time) error {
	return r.update(ctx, userID, func(u *User) {
		verifiedAt := at
		u.EmailVerifiedAt = &verifiedAt
		u.VerificationTokenHash = ""
		u.VerificationExpiresAt = nil
	})
}

func (r *MemoryRepo) TouchLogin(ctx context.Context, userID string, at time.Time) error {
	return r.update(ctx, userID, func(u *User) {
		loginAt := at
		u.LastLoginAt = &loginAt
	})
}

func (r *MemoryRepo) update(ctx context.Context, userID string, fn func(*User)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return ErrNotFound
	}
	fn(&user)
	user.UpdatedAt = r.now()
	r.users[userID] = user
	return nil
}

func (r *MemoryRepo) emailOwnerLocked(email string) string {
	key := strings.ToLower(strings.TrimSpace(email))
	for id, u := range r.users {
		if strings.ToLower(u.Email) == key {
			return id
		}
	}
	return ""
}

var _ Repo = (*MemoryRepo)(nil)
