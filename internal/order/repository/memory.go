package repository

import (
	"context"
	"sync"

	"github.com/monsterstore/checkout/internal/order/domain"
)

var _ Repository = (*MemoryRepository)(nil)

// MemoryRepository is an in-memory Repository for tests and local runs.
type MemoryRepository struct {
	mu       sync.RWMutex
	orders   map[string]*domain.Order
	byIntent map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		orders:   make(map[string]*domain.Order),
		byIntent: make(map[string]string),
	}
}

func clone(o *domain.Order) *domain.Order {
	cp := *o
	cp.Items = make([]domain.Item, len(o.Items))
	copy(cp.Items, o.Items)
	return &cp
}

func (r *MemoryRepository) Create(ctx context.Context, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byIntent[o.PaymentIntentID]; exists {
		return ErrDuplicateIntent
	}
	r.orders[o.ID] = clone(o)
	r.byIntent[o.PaymentIntentID] = o.ID
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(o), nil
}

func (r *MemoryRepository) GetByPaymentIntent(ctx context.Context, intentID string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byIntent[intentID]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(r.orders[id]), nil
}

func (r *MemoryRepository) UpdateStatus(ctx context.Context, id string, from, to domain.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return ErrNotFound
	}
	if o.Status != from {
		return ErrStatusConflict
	}
	o.Status = to
	return nil
}
