package httpx

import (
	"time"

	"github.com/quickcart/ecommerce-orders/internal/order-service/core/domain"
)

type CreateOrderRequest struct {
	CustomerID string               `json:"customer_id"`
	Items      []CreateOrderItemDTO `json:"items"`
}

type CreateOrderItemDTO struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type OrderResponse struct {
	ID          string              `json:"id"`
	CustomerID  string              `json:"customer_id"`
	Status      string              `json:"status"`
	TotalAmount float64             `json:"total_amount"`
	Items       []OrderItemResponse `json:"items"`
	CreatedAt   string              `json:"created_at"`
	UpdatedAt   string              `json:"updated_at"`
}

type OrderItemResponse struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Subtotal    float64 `json:"subtotal"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func mapOrderToResponse(order *domain.Order) OrderResponse {
	items := order.Items()
	out := make([]OrderItemResponse, len(items))
	for i, item := range items {
		out[i] = OrderItemResponse{
			ProductID:   item.ProductID(),
			ProductName: item.ProductName(),
			Quantity:    item.Quantity(),
			UnitPrice:   item.UnitPrice(),
			Subtotal:    item.Subtotal(),
		}
	}
	return OrderResponse{
		ID:          order.ID(),
		CustomerID:  order.CustomerID(),
		Status:      string(order.Status()),
		TotalAmount: order.TotalAmount(),
		Items:       out,
		CreatedAt:   order.CreatedAt().UTC().Format(time.RFC3339Nano),
		UpdatedAt:   order.UpdatedAt().UTC().Format(time.RFC3339Nano),
	}
}

func mapOrdersToResponse(orders []*domain.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i, order := range orders {
		out[i] = mapOrderToResponse(order)
	}
	return out
}
