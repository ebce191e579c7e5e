// Package basket exposes the buyer-facing basket operations: get-or-create,
// add item, remove item, update quantity. Prices and display metadata are
// snapshotted from the catalog at add time.
package basket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/monsterstore/checkout/internal/basket/domain"
	"github.com/monsterstore/checkout/internal/basket/repository"
	"github.com/monsterstore/checkout/internal/catalog"
)

// Service mutates baskets through the repository's optimistic writes.
type Service struct {
	baskets repository.Repository
	catalog catalog.Service
}

func NewService(baskets repository.Repository, cat catalog.Service) *Service {
	return &Service{baskets: baskets, catalog: cat}
}

// GetOrCreate returns the buyer's active basket, creating an empty one on
// first interaction.
func (s *Service) GetOrCreate(ctx context.Context, buyerID string) (*domain.Basket, error) {
	b, err := s.baskets.FindActiveByBuyer(ctx, buyerID)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("load basket for buyer %q: %w", buyerID, err)
	}

	b = domain.New(uuid.NewString(), buyerID)
	if err := s.baskets.Save(ctx, b); err != nil {
		return nil, fmt.Errorf("create basket for buyer %q: %w", buyerID, err)
	}
	slog.InfoContext(ctx, "basket created", "basket_id", b.ID, "buyer_id", buyerID)
	return b, nil
}

// AddItem snapshots the product's current price and display metadata into
// the basket. Adding the same product again merges quantities and keeps the
// original price snapshot.
func (s *Service) AddItem(ctx context.Context, basketID, productID string, quantity int) (*domain.Basket, error) {
	p, err := s.catalog.Product(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("resolve product %q: %w", productID, err)
	}

	b, err := s.baskets.Get(ctx, basketID)
	if err != nil {
		return nil, err
	}
	if !b.Active {
		return nil, domain.ErrBasketInactive
	}
	if err := b.AddItem(domain.LineItem{
		ProductID:   p.ID,
		ProductName: p.Name,
		ImageURL:    p.ImageURL,
		UnitPrice:   p.Price,
		Quantity:    quantity,
	}); err != nil {
		return nil, err
	}

	if err := s.baskets.Save(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// RemoveItem reduces a line item's quantity, dropping the line at zero.
func (s *Service) RemoveItem(ctx context.Context, basketID, productID string, quantity int) (*domain.Basket, error) {
	b, err := s.baskets.Get(ctx, basketID)
	if err != nil {
		return nil, err
	}
	if !b.Active {
		return nil, domain.ErrBasketInactive
	}
	if err := b.RemoveItem(productID, quantity); err != nil {
		return nil, err
	}
	if err := s.baskets.Save(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// UpdateQuantity replaces a line item's quantity.
func (s *Service) UpdateQuantity(ctx context.Context, basketID, productID string, quantity int) (*domain.Basket, error) {
	b, err := s.baskets.Get(ctx, basketID)
	if err != nil {
		return nil, err
	}
	if !b.Active {
		return nil, domain.ErrBasketInactive
	}
	if err := b.SetQuantity(productID, quantity); err != nil {
		return nil, err
	}
	if err := s.baskets.Save(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Get loads a basket by id.
func (s *Service) Get(ctx context.Context, basketID string) (*domain.Basket, error) {
	return s.baskets.Get(ctx, basketID)
}
