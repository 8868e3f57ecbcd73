// Package ports declares the persistence contract the product use cases
// consume.
package ports

import (
	"context"

	"github.com/quickcart/ecommerce-orders/internal/product-service/core/domain"
)

// ProductRepository persists the Product aggregate.
type ProductRepository interface {
	FindAll(ctx context.Context) ([]*domain.Product, error)

	// FindByID returns (nil, nil) when no product has the given id.
	FindByID(ctx context.Context, id string) (*domain.Product, error)

	FindByCategory(ctx context.Context, category string) ([]*domain.Product, error)

	Save(ctx context.Context, product *domain.Product) error

	// Update fails when the id is absent from the store.
	Update(ctx context.Context, product *domain.Product) error

	// AdjustStock atomically moves the stock level by delta. It returns
	// (nil, nil) when the product does not exist and ErrStockBelowZero when
	// the adjustment would cross zero; concurrent adjustments serialize on
	// the store, not in this process.
	AdjustStock(ctx context.Context, id string, delta int) (*domain.Product, error)

	// Delete reports whether a row was removed.
	Delete(ctx context.Context, id string) (bool, error)
}
