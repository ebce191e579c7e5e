package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItem_MergesQuantityAndKeepsSnapshot(t *testing.T) {
	b := New("b1", "buyer1")

	require.NoError(t, b.AddItem(LineItem{ProductID: "p1", UnitPrice: 4000, Quantity: 1}))
	// A later add of the same product carries a changed catalog price; the
	// original snapshot must win.
	require.NoError(t, b.AddItem(LineItem{ProductID: "p1", UnitPrice: 9999, Quantity: 2}))

	require.Len(t, b.Items, 1)
	assert.Equal(t, 3, b.Items[0].Quantity)
	assert.Equal(t, int64(4000), b.Items[0].UnitPrice)
}

func TestAddItem_RejectsNonPositiveQuantity(t *testing.T) {
	b := New("b1", "buyer1")
	assert.ErrorIs(t, b.AddItem(LineItem{ProductID: "p1", Quantity: 0}), ErrInvalidQuantity)
	assert.ErrorIs(t, b.AddItem(LineItem{ProductID: "p1", Quantity: -1}), ErrInvalidQuantity)
}

func TestRemoveItem(t *testing.T) {
	b := New("b1", "buyer1")
	require.NoError(t, b.AddItem(LineItem{ProductID: "p1", UnitPrice: 100, Quantity: 3}))

	require.NoError(t, b.RemoveItem("p1", 2))
	assert.Equal(t, 1, b.Items[0].Quantity)

	// Removing more than remains drops the line entirely.
	require.NoError(t, b.RemoveItem("p1", 5))
	assert.True(t, b.IsEmpty())

	assert.ErrorIs(t, b.RemoveItem("p1", 1), ErrItemNotFound)
}

func TestSetQuantity(t *testing.T) {
	b := New("b1", "buyer1")
	require.NoError(t, b.AddItem(LineItem{ProductID: "p1", UnitPrice: 100, Quantity: 3}))

	require.NoError(t, b.SetQuantity("p1", 7))
	assert.Equal(t, 7, b.Items[0].Quantity)

	assert.ErrorIs(t, b.SetQuantity("p1", 0), ErrInvalidQuantity)
	assert.ErrorIs(t, b.SetQuantity("missing", 1), ErrItemNotFound)
}

func TestSetPaymentIntent(t *testing.T) {
	b := New("b1", "buyer1")

	require.NoError(t, b.SetPaymentIntent("pi_1", "secret_1"))
	assert.Equal(t, "pi_1", b.PaymentIntentID)
	assert.Equal(t, "secret_1", b.ClientSecret)

	// Replacing is allowed, clearing is not.
	require.NoError(t, b.SetPaymentIntent("pi_2", ""))
	assert.Equal(t, "pi_2", b.PaymentIntentID)
	assert.Equal(t, "secret_1", b.ClientSecret, "empty secret keeps the stored one")

	assert.ErrorIs(t, b.SetPaymentIntent("", ""), ErrIntentUnset)
	assert.Equal(t, "pi_2", b.PaymentIntentID)
}

func TestClone_IsDeep(t *testing.T) {
	b := New("b1", "buyer1")
	require.NoError(t, b.AddItem(LineItem{ProductID: "p1", UnitPrice: 100, Quantity: 1}))

	cp := b.Clone()
	cp.Items[0].Quantity = 99

	assert.Equal(t, 1, b.Items[0].Quantity)
}
