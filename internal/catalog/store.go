// Package catalog adapts the product and shipper repositories into the
// narrow store the order engine consumes.
package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tajirhq/tajir/internal/catalog/products"
	"github.com/tajirhq/tajir/internal/catalog/shippers"
	"github.com/tajirhq/tajir/internal/orders"
)

// Store implements orders.CatalogStore. Reads always hit the backing store so
// stock checks see the freshest committed value rather than a stale copy.
type Store struct {
	products products.Repository
	shippers shippers.Repository
}

var _ orders.CatalogStore = (*Store)(nil)

func NewStore(productRepo products.Repository, shipperRepo shippers.Repository) *Store {
	return &Store{products: productRepo, shippers: shipperRepo}
}

func (s *Store) Product(ctx context.Context, id uuid.UUID) (orders.CatalogProduct, error) {
	p, err := s.products.Get(ctx, id)
	if err != nil {
		return orders.CatalogProduct{}, err
	}
	return orders.CatalogProduct{
		ID:        p.ID,
		Name:      p.Name,
		SellPrice: p.SellPrice,
		Stock:     p.Stock,
	}, nil
}

func (s *Store) SetStock(ctx context.Context, id uuid.UUID, stock int) error {
	if err := s.products.SetStock(ctx, id, stock); err != nil {
		return fmt.Errorf("catalog: set stock for product %s: %w", id, err)
	}
	return nil
}

// Rate resolves the shipper's rate row for the governorate. The match is
// exact; a shipper without a row for the governorate yields zero shipping.
func (s *Store) Rate(ctx context.Context, shipperID uuid.UUID, governorate string) (float64, float64, error) {
	shipper, err := s.shippers.Get(ctx, shipperID)
	if err != nil {
		return 0, 0, err
	}
	rate, ok := shipper.RateFor(governorate)
	if !ok {
		return 0, 0, nil
	}
	return rate.Price, rate.Discount, nil
}
