package templates

import (
	"context"
	_ "embed"
	"sort"
	"sync"
	"time"
)

//go:embed default_layout.html
var defaultLayout string

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Template
}

// NewMemoryRepo constructs a MemoryRepo holding the given templates.
func NewMemoryRepo(items ...Template) *MemoryRepo {
	r := &MemoryRepo{data: make(map[string]Template, len(items))}
	for _, t := range items {
		r.data[t.ID] = t
	}
	return r
}

// NewSeededMemoryRepo returns a MemoryRepo with the built-in templates the
// database migration also seeds.
func NewSeededMemoryRepo() *MemoryRepo {
	return NewMemoryRepo(DefaultTemplates()...)
}

// DefaultTemplates lists the built-in templates.
func DefaultTemplates() []Template {
	seededAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	seed := []struct {
		id, name, description string
		typ                   Type
		css                   string
	}{
		{"00000000-0000-0000-0000-000000000001", "Modern", "Clean layout with bold headings", TypeModern,
			"body{font-family:Inter,sans-serif;max-width:860px;margin:0 auto;padding:2rem;color:#111}header h1{font-size:2.6rem;margin:0}.profession{color:#2563eb}"},
		{"00000000-0000-0000-0000-000000000002", "Classic", "Serif typography and traditional structure", TypeClassic,
			"body{font-family:Georgia,serif;max-width:800px;margin:0 auto;padding:2rem}header{border-bottom:2px solid #333}h2{font-variant:small-caps}"},
		{"00000000-0000-0000-0000-000000000003", "Creative", "Colorful layout for designers and artists", TypeCreative,
			"body{font-family:Poppins,sans-serif;background:#fdf4ff;padding:2rem}header h1{color:#a21caf}article{border-left:4px solid #a21caf;padding-left:1rem}"},
		{"00000000-0000-0000-0000-000000000004", "Minimal", "Whitespace first, nothing extra", TypeMinimal,
			"body{font-family:system-ui,sans-serif;max-width:700px;margin:4rem auto;line-height:1.6}h2{font-size:1rem;text-transform:uppercase;letter-spacing:.1em}"},
		{"00000000-0000-0000-0000-000000000005", "Professional", "Structured layout for corporate roles", TypeProfessional,
			"body{font-family:Helvetica,Arial,sans-serif;max-width:900px;margin:0 auto;padding:2rem}header{background:#0f172a;color:#fff;padding:1.5rem}dt{font-weight:600}"},
	}
	out := make([]Template, 0, len(seed))
	for _, s := range seed {
		out = append(out, Template{
			ID:          s.id,
			Name:        s.name,
			Description: s.description,
			Type:        s.typ,
			HTMLContent: defaultLayout,
			CSSStyles:   s.css,
			IsActive:    true,
			CreatedAt:   seededAt,
			UpdatedAt:   seededAt,
		})
	}
	return out
}

func (r *MemoryRepo) ListActive(ctx context.Context) ([]Template, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Template, 0, len(r.data))
	for _, t := range r.data {
		if t.IsActive {
			out = append(out, t)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Template, error) {
	if err := ctx.Err(); err != nil {
		return Template{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.data[id]
	if !ok {
		return Template{}, ErrNotFound
	}
	return t, nil
}

var _ Repo = (*MemoryRepo)(nil)
