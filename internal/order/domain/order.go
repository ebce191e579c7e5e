// Package domain holds the Order aggregate: the immutable record a paid
// basket materializes into. Orders never change after creation except for
// status transitions driven by payment confirmation events.
package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNoItems is returned when an order is constructed without line items.
	ErrNoItems = errors.New("order must have at least one item")

	// ErrAddressIncomplete is returned when a required shipping address
	// field is missing.
	ErrAddressIncomplete = errors.New("shipping address is incomplete")

	// ErrSubtotalMismatch is returned when the declared subtotal does not
	// equal the sum of item prices. The stored total must always add up.
	ErrSubtotalMismatch = errors.New("subtotal does not match order items")
)

// ShippingAddress is a structural value, immutable once attached to an
// order. Line2 is optional; every other field is required.
type ShippingAddress struct {
	FullName   string
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
}

// Validate checks the required fields.
func (a ShippingAddress) Validate() error {
	required := []string{a.FullName, a.Line1, a.City, a.State, a.PostalCode, a.Country}
	for _, field := range required {
		if field == "" {
			return ErrAddressIncomplete
		}
	}
	return nil
}

// Item is the frozen copy of a basket line item plus denormalized product
// display data. Holding a copy rather than a catalog reference keeps
// historical orders stable under later catalog edits.
type Item struct {
	ProductID string
	Name      string
	ImageURL  string
	UnitPrice int64
	Quantity  int
}

// Order is the durable aggregate consumed by fulfillment and reporting.
type Order struct {
	ID              string
	BuyerID         string
	Address         ShippingAddress
	PaymentIntentID string
	Items           []Item
	Subtotal        int64
	DeliveryFees    int64
	Status          Status
	PlacedAt        time.Time
}

// New constructs a Pending order and enforces the monetary invariant:
// subtotal must equal the sum of unitPrice*quantity over the items.
func New(id, buyerID string, addr ShippingAddress, paymentIntentID string, items []Item, subtotal, deliveryFees int64) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	if err := addr.Validate(); err != nil {
		return nil, err
	}

	var sum int64
	for _, it := range items {
		sum += it.UnitPrice * int64(it.Quantity)
	}
	if sum != subtotal {
		return nil, fmt.Errorf("%w: declared %d, items sum to %d", ErrSubtotalMismatch, subtotal, sum)
	}

	return &Order{
		ID:              id,
		BuyerID:         buyerID,
		Address:         addr,
		PaymentIntentID: paymentIntentID,
		Items:           items,
		Subtotal:        subtotal,
		DeliveryFees:    deliveryFees,
		Status:          StatusPending,
		PlacedAt:        time.Now().UTC(),
	}, nil
}

// GetTotal is always delivery fees plus subtotal.
func (o *Order) GetTotal() int64 {
	return o.DeliveryFees + o.Subtotal
}

// ApplyOutcome moves the order out of Pending based on the gateway's
// payment result. Transitions out of a terminal state fail with
// ErrInvalidState.
func (o *Order) ApplyOutcome(succeeded bool) error {
	next := StatusPaymentFailed
	if succeeded {
		next = StatusPaymentReceived
	}
	if !o.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidState, o.Status, next)
	}
	o.Status = next
	return nil
}
