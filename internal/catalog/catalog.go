// Package catalog defines the port to the catalog/pricing service.
//
// The checkout core only needs the current unit price and display metadata
// of a product at the moment it is added to a basket; everything else about
// the catalog lives in another service.
package catalog

import (
	"context"
	"errors"
)

// ErrProductNotFound is returned when the catalog has no such product.
var ErrProductNotFound = errors.New("product not found")

// Product is the slice of catalog data the checkout core snapshots into
// line items.
type Product struct {
	ID       string
	Name     string
	ImageURL string
	Price    int64 // minor currency units
}

// Service is the port to the catalog.
type Service interface {
	Product(ctx context.Context, id string) (*Product, error)
}

var _ Service = (*Static)(nil)

// Static is a fixed in-memory catalog for local development and tests.
type Static struct {
	products map[string]Product
}

func NewStatic(products []Product) *Static {
	m := make(map[string]Product, len(products))
	for _, p := range products {
		m[p.ID] = p
	}
	return &Static{products: m}
}

func (s *Static) Product(ctx context.Context, id string) (*Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return &p, nil
}
