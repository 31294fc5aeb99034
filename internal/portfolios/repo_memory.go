package portfolios

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"
)

type memoryEntry struct {
	portfolio Portfolio
	seq       uint64
}

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]memoryEntry
	seq  uint64
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]memoryEntry)}
}

func (r *MemoryRepo) Create(ctx context.Context, p Portfolio) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[p.ID]; ok {
		return ErrInvalidInput
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	if p.RevisionNumber == 0 {
		p.RevisionNumber = DefaultRevision
	}
	r.seq++
	r.data[p.ID] = memoryEntry{portfolio: clonePortfolio(p), seq: r.seq}
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID, id string) (Portfolio, error) {
	if err := ctx.Err(); err != nil {
		return Portfolio{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.data[id]
	if !ok {
		return Portfolio{}, ErrNotFound
	}
	if entry.portfolio.UserID != userID {
		return Portfolio{}, ErrForbidden
	}
	return clonePortfolio(entry.portfolio), nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Portfolio, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	entries := make([]memoryEntry, 0)
	for _, entry := range r.data {
		if entry.portfolio.UserID == userID {
			entries = append(entries, entry)
		}
	}
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.portfolio.UpdatedAt.Equal(b.portfolio.UpdatedAt) {
			return a.portfolio.UpdatedAt.After(b.portfolio.UpdatedAt)
		}
		return a.seq > b.seq
	})
	out := make([]Portfolio, 0, len(entries))
	for _, entry := range entries {
		out = append(out, clonePortfolio(entry.portfolio))
	}
	return out, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, userID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.data[id]
	if !ok {
		return ErrNotFound
	}
	if entry.portfolio.UserID != userID {
		return ErrForbidden
	}
	delete(r.data, id)
	return nil
}

func (r *MemoryRepo) Finalize(ctx context.Context, userID, id string, status Status, generated *GeneratedContent, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.data[id]
	if !ok {
		return ErrNotFound
	}
	if entry.portfolio.UserID != userID {
		return ErrForbidden
	}
	if err := Transition(entry.portfolio.Status, status); err != nil {
		return err
	}
	entry.portfolio.Status = status
	if generated != nil {
		entry.portfolio.GeneratedContent = cloneGenerated(generated)
	}
	entry.portfolio.UpdatedAt = at
	r.seq++
	entry.seq = r.seq
	r.data[id] = entry
	return nil
}

func clonePortfolio(p Portfolio) Portfolio {
	p.Content.Skills = slices.Clone(p.Content.Skills)
	p.GeneratedContent = cloneGenerated(p.GeneratedContent)
	return p
}

func cloneGenerated(g *GeneratedContent) *GeneratedContent {
	if g == nil {
		return nil
	}
	out := *g
	out.Skills = slices.Clone(g.Skills)
	out.SkillsWithDescriptions = slices.Clone(g.SkillsWithDescriptions)
	out.SuggestedProjects = slices.Clone(g.SuggestedProjects)
	return &out
}

var _ Repo = (*MemoryRepo)(nil)
