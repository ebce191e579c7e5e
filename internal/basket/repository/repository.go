// Package repository defines the port for basket persistence.
//
// The basket store is key-value persistence keyed by basket id. Writes are
// optimistic: Save carries the version the caller read, and the store
// rejects the write with ErrVersionConflict when another writer got there
// first. Together with the per-basket lock in the checkout service this
// preserves the "at most one payment intent per basket" invariant.
package repository

import (
	"context"
	"errors"

	"github.com/monsterstore/checkout/internal/basket/domain"
)

var (
	// ErrNotFound is returned when no basket exists under the given id.
	ErrNotFound = errors.New("basket not found")

	// ErrVersionConflict is returned when a Save carries a stale version,
	// meaning the basket was modified since the caller read it.
	ErrVersionConflict = errors.New("basket version conflict")
)

// Repository is the port for basket persistence. Implementations must make
// Save an atomic compare-and-swap on the basket's version.
type Repository interface {
	// Get loads a basket by id. Returns ErrNotFound when absent.
	Get(ctx context.Context, id string) (*domain.Basket, error)

	// FindActiveByBuyer returns the buyer's current active basket, or
	// ErrNotFound when the buyer has none.
	FindActiveByBuyer(ctx context.Context, buyerID string) (*domain.Basket, error)

	// Save persists the basket. The stored version must equal b.Version for
	// the write to succeed; on success the stored (and b's) version is
	// incremented. A basket that does not exist yet is created when
	// b.Version is zero.
	Save(ctx context.Context, b *domain.Basket) error
}
