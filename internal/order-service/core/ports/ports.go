// Package ports declares the collaborator contracts the order workflows
// consume. Implementations live under infra; the workflows only ever see
// these interfaces.
package ports

import (
	"context"

	"github.com/quickcart/ecommerce-orders/internal/order-service/core/domain"
)

// ProductAvailability is the snapshot the product service returns for a
// single product.
type ProductAvailability struct {
	ID      string
	Name    string
	InStock int
	Price   float64
}

// ProductGateway is the remote product-service capability. Both calls are
// blocking network round trips.
type ProductGateway interface {
	// CheckAvailability returns (nil, nil) when the product does not exist.
	CheckAvailability(ctx context.Context, productID string) (*ProductAvailability, error)

	// AdjustStock changes the stock level by delta (negative reserves,
	// positive restores). It returns false, not an error, when the product
	// is gone or the adjustment would push stock below zero.
	AdjustStock(ctx context.Context, productID string, delta int) (bool, error)
}

// OrderRepository persists the Order aggregate.
type OrderRepository interface {
	FindAll(ctx context.Context) ([]*domain.Order, error)

	// FindByID returns (nil, nil) when no order has the given id.
	FindByID(ctx context.Context, id string) (*domain.Order, error)

	FindByCustomer(ctx context.Context, customerID string) ([]*domain.Order, error)

	Save(ctx context.Context, order *domain.Order) error

	// Update fails when the id is absent from the store.
	Update(ctx context.Context, order *domain.Order) error

	// Delete reports whether a row was removed.
	Delete(ctx context.Context, id string) (bool, error)
}
