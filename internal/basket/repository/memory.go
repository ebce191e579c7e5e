package repository

import (
	"context"
	"sync"

	"github.com/monsterstore/checkout/internal/basket/domain"
)

// Ensure the in-memory store implements the port at compile time.
var _ Repository = (*MemoryRepository)(nil)

// MemoryRepository is an in-memory Repository for single-instance
// deployments and tests. It enforces the same version CAS semantics as the
// Redis implementation.
type MemoryRepository struct {
	mu      sync.RWMutex
	baskets map[string]*domain.Basket
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{baskets: make(map[string]*domain.Basket)}
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*domain.Basket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.baskets[id]
	if !ok {
		return nil, ErrNotFound
	}
	return b.Clone(), nil
}

func (r *MemoryRepository) FindActiveByBuyer(ctx context.Context, buyerID string) (*domain.Basket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.baskets {
		if b.BuyerID == buyerID && b.Active {
			return b.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) Save(ctx context.Context, b *domain.Basket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.baskets[b.ID]
	switch {
	case !exists && b.Version != 0:
		return ErrNotFound
	case exists && stored.Version != b.Version:
		return ErrVersionConflict
	}

	b.Version++
	r.baskets[b.ID] = b.Clone()
	return nil
}
