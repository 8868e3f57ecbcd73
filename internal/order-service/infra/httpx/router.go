package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/quickcart/ecommerce-orders/internal/pkg/reqmeta"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(reqmeta.Middleware)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/api/orders", handler.CreateOrder)
	r.Get("/api/orders", handler.GetAllOrders)
	r.Get("/api/orders/{id}", handler.GetOrder)
	r.Get("/api/orders/customer/{customerId}", handler.GetOrdersByCustomer)
	r.Patch("/api/orders/{id}/status", handler.UpdateOrderStatus)
	r.Patch("/api/orders/{id}/cancel", handler.CancelOrder)
	return r
}
