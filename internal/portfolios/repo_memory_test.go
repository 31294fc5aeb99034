package portfolios

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecord(id, owner string, updated time.Time) Portfolio {
	return Portfolio{
		ID:         id,
		UserID:     owner,
		Title:      "Portfolio " + id,
		TemplateID: "t1",
		Content:    Content{FullName: "Jane Doe", Profession: "Engineer", Bio: "bio", Skills: []string{"Go"}},
		Status:     StatusGenerating,
		CreatedAt:  updated,
		UpdatedAt:  updated,
	}
}

func TestMemoryRepoListsNewestFirst(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, newRecord("a", "u1", base)))
	require.NoError(t, repo.Create(ctx, newRecord("b", "u1", base.Add(time.Minute))))
	require.NoError(t, repo.Create(ctx, newRecord("other", "u2", base.Add(time.Hour))))

	items, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "b", items[0].ID)

	require.NoError(t, repo.Create(ctx, newRecord("c", "u1", base.Add(2*time.Minute))))
	items, err = repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, ids(items))

	require.NoError(t, repo.Finalize(ctx, "u1", "a", StatusCompleted, nil, base.Add(3*time.Minute)))
	items, err = repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "b"}, ids(items))
}

func TestMemoryRepoDeleteIsOwnerScoped(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newRecord("a", "u1", time.Now())))

	assert.ErrorIs(t, repo.Delete(ctx, "u2", "a"), ErrForbidden)
	_, err := repo.GetByID(ctx, "u2", "a")
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, repo.Delete(ctx, "u1", "a"))
	items, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.ErrorIs(t, repo.Delete(ctx, "u1", "a"), ErrNotFound)
}

func TestMemoryRepoFinalizeIsCompareAndSet(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	now := time.Now().UTC()
	require.NoError(t, repo.Create(ctx, newRecord("a", "u1", now)))

	generated := &GeneratedContent{Content: Content{FullName: "Jane Doe"}, GeneratedAt: now}
	require.NoError(t, repo.Finalize(ctx, "u1", "a", StatusCompleted, generated, now))

	err := repo.Finalize(ctx, "u1", "a", StatusError, nil, now)
	assert.True(t, errors.Is(err, ErrInvalidTransition), "got %v", err)

	got, err := repo.GetByID(ctx, "u1", "a")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
	require.NotNil(t, got.GeneratedContent)
	assert.Equal(t, "Jane Doe", got.GeneratedContent.FullName)

	assert.ErrorIs(t, repo.Finalize(ctx, "u2", "a", StatusError, nil, now), ErrForbidden)
	assert.ErrorIs(t, repo.Finalize(ctx, "u1", "missing", StatusError, nil, now), ErrNotFound)
}

func TestMemoryRepoReturnsCopies(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newRecord("a", "u1", time.Now())))

	got, err := repo.GetByID(ctx, "u1", "a")
	require.NoError(t, err)
	got.Content.Skills[0] = "mutated"

	again, err := repo.GetByID(ctx, "u1", "a")
	require.NoError(t, err)
	assert.Equal(t, "Go", again.Content.Skills[0])
}

func ids(items []Portfolio) []string {
	out := make([]string, 0, len(items))
	for _, p := range items {
		out = append(out, p.ID)
	}
	return out
}
