// Package domain holds the Basket aggregate: a mutable pre-checkout cart of
// priced line items tied to one buyer session.
//
// Prices are snapshotted into the basket at add time, in integer minor
// currency units. Later catalog changes never alter a basket that already
// holds the item.
package domain

import (
	"errors"
	"time"
)

var (
	// ErrItemNotFound is returned when a mutation targets a product id the
	// basket does not contain.
	ErrItemNotFound = errors.New("line item not found in basket")

	// ErrInvalidQuantity is returned when a mutation carries a quantity <= 0.
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrIntentUnset is returned by SetPaymentIntent when the caller tries to
	// clear an existing payment intent id. The id is set once and only ever
	// replaced, never unset.
	ErrIntentUnset = errors.New("payment intent id cannot be cleared")

	// ErrBasketInactive is returned when an operation targets a basket
	// already consumed by checkout. A deactivated basket is frozen.
	ErrBasketInactive = errors.New("basket is no longer active")
)

// LineItem is a single product position inside a basket.
// ProductID and UnitPrice are immutable once added; Quantity is mutable.
type LineItem struct {
	ProductID   string
	ProductName string
	ImageURL    string
	UnitPrice   int64 // minor currency units, snapshot at add time
	Quantity    int
}

// Basket is the mutable cart. Version backs optimistic concurrency in the
// repository layer: every successful store write increments it, and writes
// carrying a stale version are rejected.
type Basket struct {
	ID              string
	BuyerID         string
	Items           []LineItem
	PaymentIntentID string
	ClientSecret    string
	Version         int64
	Active          bool
	CreatedAt       time.Time
}

// New returns an empty, active basket for the given buyer.
func New(id, buyerID string) *Basket {
	return &Basket{
		ID:        id,
		BuyerID:   buyerID,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
}

// IsEmpty reports whether the basket holds no line items.
func (b *Basket) IsEmpty() bool {
	return len(b.Items) == 0
}

// AddItem appends a line item, merging the quantity into an existing line
// when the product is already in the basket. The existing line keeps its
// original price snapshot.
func (b *Basket) AddItem(item LineItem) error {
	if item.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	for i := range b.Items {
		if b.Items[i].ProductID == item.ProductID {
			b.Items[i].Quantity += item.Quantity
			return nil
		}
	}
	b.Items = append(b.Items, item)
	return nil
}

// RemoveItem reduces the quantity of a line item, dropping the line entirely
// when the remaining quantity reaches zero.
func (b *Basket) RemoveItem(productID string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	for i := range b.Items {
		if b.Items[i].ProductID != productID {
			continue
		}
		if b.Items[i].Quantity <= quantity {
			b.Items = append(b.Items[:i], b.Items[i+1:]...)
		} else {
			b.Items[i].Quantity -= quantity
		}
		return nil
	}
	return ErrItemNotFound
}

// SetQuantity replaces the quantity of an existing line item.
func (b *Basket) SetQuantity(productID string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	for i := range b.Items {
		if b.Items[i].ProductID == productID {
			b.Items[i].Quantity = quantity
			return nil
		}
	}
	return ErrItemNotFound
}

// SetPaymentIntent records the remote payment intent reference on the basket.
// The id may be set for the first time or replaced, but never cleared.
func (b *Basket) SetPaymentIntent(id, clientSecret string) error {
	if id == "" {
		return ErrIntentUnset
	}
	b.PaymentIntentID = id
	if clientSecret != "" {
		b.ClientSecret = clientSecret
	}
	return nil
}

// Deactivate marks the basket consumed. A deactivated basket can no longer
// be reconciled or materialized.
func (b *Basket) Deactivate() {
	b.Active = false
}

// Clone returns a deep copy so in-memory stores never hand out aliased
// item slices.
func (b *Basket) Clone() *Basket {
	cp := *b
	cp.Items = make([]LineItem, len(b.Items))
	copy(cp.Items, b.Items)
	return &cp
}
