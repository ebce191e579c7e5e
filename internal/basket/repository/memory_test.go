package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monsterstore/checkout/internal/basket/domain"
)

func TestMemoryRepository_SaveAndGet(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	b := domain.New("b1", "buyer1")
	require.NoError(t, repo.Save(ctx, b))
	assert.Equal(t, int64(1), b.Version)

	loaded, err := repo.Get(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, "buyer1", loaded.BuyerID)
	assert.Equal(t, int64(1), loaded.Version)

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepository_VersionConflict(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	b := domain.New("b1", "buyer1")
	require.NoError(t, repo.Save(ctx, b))

	// Two readers load the same version; only the first write wins.
	first, err := repo.Get(ctx, "b1")
	require.NoError(t, err)
	second, err := repo.Get(ctx, "b1")
	require.NoError(t, err)

	require.NoError(t, first.AddItem(domain.LineItem{ProductID: "p1", UnitPrice: 100, Quantity: 1}))
	require.NoError(t, repo.Save(ctx, first))

	require.NoError(t, second.AddItem(domain.LineItem{ProductID: "p2", UnitPrice: 200, Quantity: 1}))
	assert.ErrorIs(t, repo.Save(ctx, second), ErrVersionConflict)
}

func TestMemoryRepository_RejectsStaleCreate(t *testing.T) {
	repo := NewMemoryRepository()

	b := domain.New("b1", "buyer1")
	b.Version = 3
	assert.ErrorIs(t, repo.Save(context.Background(), b), ErrNotFound)
}

func TestMemoryRepository_FindActiveByBuyer(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	b := domain.New("b1", "buyer1")
	require.NoError(t, repo.Save(ctx, b))

	found, err := repo.FindActiveByBuyer(ctx, "buyer1")
	require.NoError(t, err)
	assert.Equal(t, "b1", found.ID)

	b.Deactivate()
	require.NoError(t, repo.Save(ctx, b))

	_, err = repo.FindActiveByBuyer(ctx, "buyer1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepository_GetReturnsCopy(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	b := domain.New("b1", "buyer1")
	require.NoError(t, b.AddItem(domain.LineItem{ProductID: "p1", UnitPrice: 100, Quantity: 1}))
	require.NoError(t, repo.Save(ctx, b))

	loaded, err := repo.Get(ctx, "b1")
	require.NoError(t, err)
	loaded.Items[0].Quantity = 42

	again, err := repo.Get(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, 1, again.Items[0].Quantity)
}
