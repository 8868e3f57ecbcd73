// Package app implements the product catalog use cases. They are thin: the
// aggregate owns the validation, the repository owns the storage, and the
// stock adjustment is delegated to the store so it stays atomic under
// concurrent reservations.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quickcart/ecommerce-orders/internal/product-service/core/domain"
	"github.com/quickcart/ecommerce-orders/internal/product-service/core/ports"
)

type ProductService struct {
	products ports.ProductRepository
}

func NewProductService(products ports.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

func (s *ProductService) CreateProduct(ctx context.Context, in domain.NewProductParams) (*domain.Product, error) {
	product, err := domain.NewProduct(in)
	if err != nil {
		return nil, err
	}
	if err := s.products.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("save product %s: %w", product.ID(), err)
	}

	slog.InfoContext(ctx, "product created", "product_id", product.ID(), "name", product.Name())
	return product, nil
}

// GetProduct returns (nil, nil) when the id is unknown.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *ProductService) GetAllProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.products.FindAll(ctx)
}

func (s *ProductService) GetProductsByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	return s.products.FindByCategory(ctx, category)
}

// UpdateProduct applies a partial update and persists the result. It
// returns (nil, nil) when the id is unknown.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, patch domain.Patch) (*domain.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find product %s: %w", id, err)
	}
	if product == nil {
		return nil, nil
	}

	if err := product.Apply(patch); err != nil {
		return nil, err
	}
	if err := s.products.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product %s: %w", id, err)
	}
	return product, nil
}

// AdjustStock moves the stock level by delta through the store's atomic
// update. (nil, nil) means the product does not exist;
// domain.ErrStockBelowZero means the adjustment was refused.
func (s *ProductService) AdjustStock(ctx context.Context, id string, delta int) (*domain.Product, error) {
	product, err := s.products.AdjustStock(ctx, id, delta)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}

	slog.InfoContext(ctx, "stock adjusted", "product_id", id, "delta", delta, "in_stock", product.InStock())
	return product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id string) (bool, error) {
	return s.products.Delete(ctx, id)
}
