// Package pricing computes monetary totals for a basket.
//
// All arithmetic is done in integer minor currency units. The payment
// gateway rejects fractional-unit amounts, so floating point never enters
// the computation.
package pricing

import (
	"errors"

	"github.com/monsterstore/checkout/internal/basket/domain"
)

// ErrEmptyBasket is returned when totals are requested for a basket with no
// line items. An empty basket must never acquire a payment intent.
var ErrEmptyBasket = errors.New("basket has no line items")

// Config carries the delivery fee rule. Both values are minor currency
// units and come from deployment configuration, not code.
type Config struct {
	// FreeShippingThreshold is the subtotal above which delivery is free.
	FreeShippingThreshold int64
	// FlatDeliveryFee is charged when the subtotal does not exceed the
	// threshold.
	FlatDeliveryFee int64
}

// Totals is the result of a pricing pass over a basket.
type Totals struct {
	Subtotal     int64
	DeliveryFees int64
	Total        int64
}

// Calculator turns a basket's line items into subtotal, delivery fee and
// grand total. It is pure: no side effects, same input same output.
type Calculator struct {
	cfg Config
}

func NewCalculator(cfg Config) *Calculator {
	return &Calculator{cfg: cfg}
}

// ComputeTotals sums unitPrice*quantity over the basket's line items and
// applies the delivery fee rule. Fails with ErrEmptyBasket on a basket
// with zero line items.
func (c *Calculator) ComputeTotals(b *domain.Basket) (Totals, error) {
	if b.IsEmpty() {
		return Totals{}, ErrEmptyBasket
	}

	var subtotal int64
	for _, item := range b.Items {
		subtotal += item.UnitPrice * int64(item.Quantity)
	}

	var fees int64
	if subtotal <= c.cfg.FreeShippingThreshold {
		fees = c.cfg.FlatDeliveryFee
	}

	return Totals{
		Subtotal:     subtotal,
		DeliveryFees: fees,
		Total:        subtotal + fees,
	}, nil
}
