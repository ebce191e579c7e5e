package basket

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monsterstore/checkout/internal/basket/domain"
	"github.com/monsterstore/checkout/internal/basket/repository"
	"github.com/monsterstore/checkout/internal/catalog"
)

func newService() *Service {
	cat := catalog.NewStatic([]catalog.Product{
		{ID: "p1", Name: "Keyboard", ImageURL: "img1", Price: 4000},
		{ID: "p2", Name: "Mouse", ImageURL: "img2", Price: 1500},
	})
	return NewService(repository.NewMemoryRepository(), cat)
}

func TestGetOrCreate(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	b, err := svc.GetOrCreate(ctx, "buyer1")
	require.NoError(t, err)
	assert.True(t, b.Active)
	assert.True(t, b.IsEmpty())

	// Second call returns the same basket, not a new one.
	again, err := svc.GetOrCreate(ctx, "buyer1")
	require.NoError(t, err)
	assert.Equal(t, b.ID, again.ID)
}

func TestAddItem_SnapshotsCatalogData(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	b, err := svc.GetOrCreate(ctx, "buyer1")
	require.NoError(t, err)

	b, err = svc.AddItem(ctx, b.ID, "p1", 2)
	require.NoError(t, err)

	require.Len(t, b.Items, 1)
	assert.Equal(t, "Keyboard", b.Items[0].ProductName)
	assert.Equal(t, "img1", b.Items[0].ImageURL)
	assert.Equal(t, int64(4000), b.Items[0].UnitPrice)
	assert.Equal(t, 2, b.Items[0].Quantity)
}

func TestAddItem_UnknownProduct(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	b, err := svc.GetOrCreate(ctx, "buyer1")
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, b.ID, "missing", 1)
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
}

func TestRemoveItemAndUpdateQuantity(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	b, err := svc.GetOrCreate(ctx, "buyer1")
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, b.ID, "p1", 3)
	require.NoError(t, err)

	b, err = svc.UpdateQuantity(ctx, b.ID, "p1", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, b.Items[0].Quantity)

	b, err = svc.RemoveItem(ctx, b.ID, "p1", 5)
	require.NoError(t, err)
	assert.True(t, b.IsEmpty())
}

func TestMutations_RejectConsumedBasket(t *testing.T) {
	repo := repository.NewMemoryRepository()
	cat := catalog.NewStatic([]catalog.Product{{ID: "p1", Name: "Keyboard", Price: 4000}})
	svc := NewService(repo, cat)
	ctx := context.Background()

	b, err := svc.GetOrCreate(ctx, "buyer1")
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, b.ID, "p1", 1)
	require.NoError(t, err)

	// Checkout consumed the basket.
	b, err = repo.Get(ctx, b.ID)
	require.NoError(t, err)
	b.Deactivate()
	require.NoError(t, repo.Save(ctx, b))

	_, err = svc.AddItem(ctx, b.ID, "p1", 1)
	assert.ErrorIs(t, err, domain.ErrBasketInactive)
	_, err = svc.RemoveItem(ctx, b.ID, "p1", 1)
	assert.ErrorIs(t, err, domain.ErrBasketInactive)
	_, err = svc.UpdateQuantity(ctx, b.ID, "p1", 2)
	assert.ErrorIs(t, err, domain.ErrBasketInactive)
}
