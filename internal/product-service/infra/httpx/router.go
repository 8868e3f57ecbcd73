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

	r.Post("/api/products", handler.CreateProduct)
	r.Get("/api/products", handler.GetAllProducts)
	r.Get("/api/products/{id}", handler.GetProduct)
	r.Get("/api/products/category/{category}", handler.GetProductsByCategory)
	r.Patch("/api/products/{id}", handler.UpdateProduct)
	r.Patch("/api/products/{id}/stock", handler.AdjustStock)
	r.Delete("/api/products/{id}", handler.DeleteProduct)
	return r
}
