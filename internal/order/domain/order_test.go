package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAddress() ShippingAddress {
	return ShippingAddress{
		FullName:   "A Buyer",
		Line1:      "1 Main St",
		City:       "Mumbai",
		State:      "MH",
		PostalCode: "400001",
		Country:    "IN",
	}
}

func TestNew_TotalsInvariant(t *testing.T) {
	items := []Item{
		{ProductID: "p1", Name: "Keyboard", UnitPrice: 4000, Quantity: 2},
		{ProductID: "p2", Name: "Mouse", UnitPrice: 1500, Quantity: 1},
	}

	o, err := New("o1", "buyer1", testAddress(), "pi_1", items, 9500, 500)
	require.NoError(t, err)

	assert.Equal(t, int64(10000), o.GetTotal())
	assert.Equal(t, StatusPending, o.Status)
	assert.False(t, o.PlacedAt.IsZero())
}

func TestNew_RejectsSubtotalMismatch(t *testing.T) {
	items := []Item{{ProductID: "p1", UnitPrice: 4000, Quantity: 2}}
	_, err := New("o1", "buyer1", testAddress(), "pi_1", items, 9999, 500)
	assert.ErrorIs(t, err, ErrSubtotalMismatch)
}

func TestNew_RejectsEmptyItems(t *testing.T) {
	_, err := New("o1", "buyer1", testAddress(), "pi_1", nil, 0, 0)
	assert.ErrorIs(t, err, ErrNoItems)
}

func TestNew_RejectsIncompleteAddress(t *testing.T) {
	addr := testAddress()
	addr.PostalCode = ""
	items := []Item{{ProductID: "p1", UnitPrice: 100, Quantity: 1}}
	_, err := New("o1", "buyer1", addr, "pi_1", items, 100, 500)
	assert.ErrorIs(t, err, ErrAddressIncomplete)
}

func TestShippingAddress_Line2Optional(t *testing.T) {
	addr := testAddress()
	addr.Line2 = ""
	assert.NoError(t, addr.Validate())
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
		ok   bool
	}{
		{StatusPending, StatusPaymentReceived, true},
		{StatusPending, StatusPaymentFailed, true},
		{StatusPaymentReceived, StatusPending, false},
		{StatusPaymentReceived, StatusPaymentFailed, false},
		{StatusPaymentFailed, StatusPaymentReceived, false},
		{StatusPaymentFailed, StatusPending, false},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.ok, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}

	assert.False(t, StatusPending.IsTerminal())
	assert.True(t, StatusPaymentReceived.IsTerminal())
	assert.True(t, StatusPaymentFailed.IsTerminal())
}

func TestApplyOutcome(t *testing.T) {
	items := []Item{{ProductID: "p1", UnitPrice: 100, Quantity: 1}}

	o, err := New("o1", "buyer1", testAddress(), "pi_1", items, 100, 500)
	require.NoError(t, err)

	require.NoError(t, o.ApplyOutcome(true))
	assert.Equal(t, StatusPaymentReceived, o.Status)

	// Terminal: any further outcome is rejected and does not change state.
	err = o.ApplyOutcome(false)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, StatusPaymentReceived, o.Status)
}

func TestApplyOutcome_Failure(t *testing.T) {
	items := []Item{{ProductID: "p1", UnitPrice: 100, Quantity: 1}}

	o, err := New("o1", "buyer1", testAddress(), "pi_1", items, 100, 500)
	require.NoError(t, err)

	require.NoError(t, o.ApplyOutcome(false))
	assert.Equal(t, StatusPaymentFailed, o.Status)
	assert.ErrorIs(t, o.ApplyOutcome(true), ErrInvalidState)
}
