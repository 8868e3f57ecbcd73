package httpx

import (
	"time"

	"github.com/quickcart/ecommerce-orders/internal/product-service/core/domain"
)

type CreateProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	InStock     int     `json:"in_stock"`
}

// UpdateProductRequest carries a partial update: absent fields stay nil and
// are left untouched.
type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	InStock     *int     `json:"in_stock"`
}

type AdjustStockRequest struct {
	Delta int `json:"delta"`
}

type ProductResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	InStock     int     `json:"in_stock"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func mapProductToResponse(product *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          product.ID(),
		Name:        product.Name(),
		Description: product.Description(),
		Price:       product.Price(),
		Category:    product.Category(),
		InStock:     product.InStock(),
		CreatedAt:   product.CreatedAt().UTC().Format(time.RFC3339Nano),
		UpdatedAt:   product.UpdatedAt().UTC().Format(time.RFC3339Nano),
	}
}

func mapProductsToResponse(products []*domain.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i, product := range products {
		out[i] = mapProductToResponse(product)
	}
	return out
}
