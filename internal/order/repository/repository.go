// Package repository defines the port for order persistence.
//
// Orders are created once and never deleted by this core; the only update
// is the status transition driven by payment confirmation. UpdateStatus is
// a compare-and-swap on the current status so a duplicated webhook cannot
// apply an outcome twice.
package repository

import (
	"context"
	"errors"

	"github.com/monsterstore/checkout/internal/order/domain"
)

var (
	// ErrNotFound is returned when no order exists under the given id.
	ErrNotFound = errors.New("order not found")

	// ErrDuplicateIntent is returned when an order already exists for the
	// payment intent id being committed. One intent yields one order.
	ErrDuplicateIntent = errors.New("order already exists for payment intent")

	// ErrStatusConflict is returned by UpdateStatus when the stored status
	// no longer matches the expected one.
	ErrStatusConflict = errors.New("order status changed concurrently")
)

// Repository is the port for order persistence.
type Repository interface {
	// Create persists a new order. Fails with ErrDuplicateIntent when an
	// order for the same payment intent id already exists.
	Create(ctx context.Context, o *domain.Order) error

	// Get loads an order by id.
	Get(ctx context.Context, id string) (*domain.Order, error)

	// GetByPaymentIntent loads the order created for a payment intent id.
	GetByPaymentIntent(ctx context.Context, intentID string) (*domain.Order, error)

	// UpdateStatus transitions the order from the expected status to the
	// next one, atomically. Fails with ErrStatusConflict when the stored
	// status is not the expected one.
	UpdateStatus(ctx context.Context, id string, from, to domain.Status) error
}
