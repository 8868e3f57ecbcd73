package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quickcart/ecommerce-orders/internal/product-service/core/domain"
)

// ProductService is what the handler needs from the application layer.
type ProductService interface {
	CreateProduct(ctx context.Context, in domain.NewProductParams) (*domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	GetAllProducts(ctx context.Context) ([]*domain.Product, error)
	GetProductsByCategory(ctx context.Context, category string) ([]*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, patch domain.Patch) (*domain.Product, error)
	AdjustStock(ctx context.Context, id string, delta int) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) (bool, error)
}

type Handler struct {
	products ProductService
}

func NewHandler(products ProductService) *Handler {
	return &Handler{products: products}
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	product, err := h.products.CreateProduct(r.Context(), domain.NewProductParams{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		InStock:     req.InStock,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapProductToResponse(product))
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if product == nil {
		writeError(w, http.StatusNotFound, "product_not_found", "")
		return
	}
	writeJSON(w, http.StatusOK, mapProductToResponse(product))
}

func (h *Handler) GetAllProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.GetAllProducts(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapProductsToResponse(products))
}

func (h *Handler) GetProductsByCategory(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.GetProductsByCategory(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapProductsToResponse(products))
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	product, err := h.products.UpdateProduct(r.Context(), chi.URLParam(r, "id"), domain.Patch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		InStock:     req.InStock,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if product == nil {
		writeError(w, http.StatusNotFound, "product_not_found", "")
		return
	}
	writeJSON(w, http.StatusOK, mapProductToResponse(product))
}

// AdjustStock is the endpoint the order service reserves and restores
// through. A refusal to cross zero is a 409, not a 400: the request was
// well-formed, the stock just is not there.
func (h *Handler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	var req AdjustStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	product, err := h.products.AdjustStock(r.Context(), chi.URLParam(r, "id"), req.Delta)
	if errors.Is(err, domain.ErrStockBelowZero) {
		writeError(w, http.StatusConflict, "insufficient_stock", err.Error())
		return
	}
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if product == nil {
		writeError(w, http.StatusNotFound, "product_not_found", "")
		return
	}
	writeJSON(w, http.StatusOK, mapProductToResponse(product))
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.products.DeleteProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "product_not_found", "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	if domain.IsProductError(err) {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	slog.ErrorContext(r.Context(), "product request failed", "error", err)
	writeError(w, http.StatusInternalServerError, "internal_error", "")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
