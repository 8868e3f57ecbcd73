package httpx

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quickcart/ecommerce-orders/internal/order-service/app"
	"github.com/quickcart/ecommerce-orders/internal/order-service/core/domain"
	"github.com/quickcart/ecommerce-orders/internal/pkg/reqmeta"
)

// OrderService is what the handler needs from the application layer.
type OrderService interface {
	CreateOrder(ctx context.Context, in app.CreateOrderInput) (*domain.Order, error)
	CancelOrder(ctx context.Context, id string) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, target domain.Status) (*domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	GetOrdersByCustomer(ctx context.Context, customerID string) ([]*domain.Order, error)
	GetAllOrders(ctx context.Context) ([]*domain.Order, error)
}

// Handler maps HTTP requests onto the order workflows. Typed workflow
// failures become 400s with the failure message verbatim; an absent order
// becomes a 404; anything else is a 500.
type Handler struct {
	orders OrderService
}

func NewHandler(orders OrderService) *Handler {
	return &Handler{orders: orders}
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	items := make([]domain.ItemParams, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, domain.ItemParams{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}

	slog.InfoContext(r.Context(), "creating order",
		"customer_id", req.CustomerID, "request_id", reqmeta.RequestID(r.Context()))

	order, err := h.orders.CreateOrder(r.Context(), app.CreateOrderInput{
		CustomerID: req.CustomerID,
		Items:      items,
	})
	if err != nil {
		writeWorkflowError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, mapOrderToResponse(order))
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeWorkflowError(w, r, err)
		return
	}
	if order == nil {
		writeError(w, http.StatusNotFound, "order_not_found", "")
		return
	}
	writeJSON(w, http.StatusOK, mapOrderToResponse(order))
}

func (h *Handler) GetOrdersByCustomer(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.GetOrdersByCustomer(r.Context(), chi.URLParam(r, "customerId"))
	if err != nil {
		writeWorkflowError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrdersToResponse(orders))
}

func (h *Handler) GetAllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.GetAllOrders(r.Context())
	if err != nil {
		writeWorkflowError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrdersToResponse(orders))
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	target, err := domain.ParseStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	order, err := h.orders.UpdateOrderStatus(r.Context(), chi.URLParam(r, "id"), target)
	if err != nil {
		writeWorkflowError(w, r, err)
		return
	}
	if order == nil {
		writeError(w, http.StatusNotFound, "order_not_found", "")
		return
	}
	writeJSON(w, http.StatusOK, mapOrderToResponse(order))
}

func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.CancelOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeWorkflowError(w, r, err)
		return
	}
	if order == nil {
		writeError(w, http.StatusNotFound, "order_not_found", "")
		return
	}
	writeJSON(w, http.StatusOK, mapOrderToResponse(order))
}

func writeWorkflowError(w http.ResponseWriter, r *http.Request, err error) {
	if domain.IsOrderError(err) {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	slog.ErrorContext(r.Context(), "order workflow failed", "error", err)
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
