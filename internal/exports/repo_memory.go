package exports

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Export
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Export)}
}

func (r *MemoryRepo) Create(ctx context.Context, e Export) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[e.ID]; ok {
		return ErrInvalidInput
	}
	r.data[e.ID] = e
	return nil
}

func (r *MemoryRepo) ListByPortfolio(ctx context.Context, userID, portfolioID string) ([]Export, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Export, 0)
	for _, e := range r.data {
		if e.UserID == userID && e.PortfolioID == portfolioID {
			out = append(out, e)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].GeneratedAt.After(out[j].GeneratedAt) })
	return out, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID, id string) (Export, error) {
	if err := ctx.Err(); err != nil {
		return Export{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.data[id]
	if !ok || e.UserID != userID {
		return Export{}, ErrNotFound
	}
	return e, nil
}

var _ Repo = (*MemoryRepo)(nil)
