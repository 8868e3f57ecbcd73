// Package app implements the order workflows: create, cancel, status update
// and the read paths. Each workflow is a request-scoped unit of work over
// two collaborators, the order repository and the product gateway.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/quickcart/ecommerce-orders/internal/order-service/core/domain"
	"github.com/quickcart/ecommerce-orders/internal/order-service/core/ports"
	"github.com/quickcart/ecommerce-orders/internal/order-service/stocklog"
	"github.com/quickcart/ecommerce-orders/internal/pkg/cache"
	"github.com/quickcart/ecommerce-orders/internal/pkg/reqmeta"
)

// idempotencyTTL is how long a replayed idempotency key still returns the
// original order instead of creating a new one.
const idempotencyTTL = 24 * time.Hour

// OrderService owns the order workflows.
//
// adjustments and idem may both be nil: without a stock log the adjustment
// audit trail is skipped, without a cache every create is treated as new.
type OrderService struct {
	orders      ports.OrderRepository
	products    ports.ProductGateway
	adjustments stocklog.Repository
	idem        cache.Cache
}

func NewOrderService(
	orders ports.OrderRepository,
	products ports.ProductGateway,
	adjustments stocklog.Repository,
	idem cache.Cache,
) *OrderService {
	return &OrderService{
		orders:      orders,
		products:    products,
		adjustments: adjustments,
		idem:        idem,
	}
}

// CreateOrderInput is the raw request: no id, status or total, those are
// derived by the aggregate.
type CreateOrderInput struct {
	CustomerID string
	Items      []domain.ItemParams
}

// CreateOrder validates availability for every line item, reserves stock,
// and persists the order.
//
// The reservation loop is sequential and is not rolled back when a call in
// the middle fails: there is no transaction spanning the two services, so
// the workflow is best effort. Every attempt is written to the stock log so
// a reconciliation layer can pick up the pieces later.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	if replay := s.replayedOrder(ctx); replay != nil {
		return replay, nil
	}

	// First pass is read-only: any missing product or short stock aborts
	// before anything is mutated.
	for _, item := range in.Items {
		product, err := s.products.CheckAvailability(ctx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("check availability of product %s: %w", item.ProductID, err)
		}
		if product == nil {
			return nil, &domain.ProductNotFoundError{ProductID: item.ProductID}
		}
		if product.InStock < item.Quantity {
			return nil, &domain.InsufficientStockError{ProductName: product.Name}
		}
	}

	order, err := domain.NewOrder(in.CustomerID, in.Items)
	if err != nil {
		return nil, err
	}

	s.applyAdjustments(ctx, order, stocklog.ActionReserve)

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("save order %s: %w", order.ID(), err)
	}

	s.rememberIdempotencyKey(ctx, order.ID())

	slog.InfoContext(ctx, "order created",
		"order_id", order.ID(),
		"customer_id", order.CustomerID(),
		"total_amount", order.TotalAmount(),
		"request_id", reqmeta.RequestID(ctx),
	)
	return order, nil
}

// CancelOrder restores the reserved stock and moves the order to CANCELLED.
// It returns (nil, nil) when no order has the given id, and the order
// unchanged, with no side effects, when it is already cancelled.
func (s *OrderService) CancelOrder(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find order %s: %w", id, err)
	}
	if order == nil {
		return nil, nil
	}

	if order.Status() == domain.StatusDelivered {
		return nil, domain.ErrCancelDelivered
	}
	if order.Status() == domain.StatusCancelled {
		return order, nil
	}

	s.applyAdjustments(ctx, order, stocklog.ActionRelease)

	if err := order.UpdateStatus(domain.StatusCancelled); err != nil {
		return nil, err
	}
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("update order %s: %w", id, err)
	}

	slog.InfoContext(ctx, "order cancelled", "order_id", id, "request_id", reqmeta.RequestID(ctx))
	return order, nil
}

// UpdateOrderStatus applies a guarded status transition. A target of
// CANCELLED is refused outright, before even looking the order up, because
// cancellation must go through CancelOrder to restore stock.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id string, target domain.Status) (*domain.Order, error) {
	if target == domain.StatusCancelled {
		return nil, domain.ErrDirectCancellation
	}

	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find order %s: %w", id, err)
	}
	if order == nil {
		return nil, nil
	}

	if err := order.UpdateStatus(target); err != nil {
		return nil, err
	}
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("update order %s: %w", id, err)
	}
	return order, nil
}

// GetOrder returns (nil, nil) when the id is unknown.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.orders.FindByID(ctx, id)
}

func (s *OrderService) GetOrdersByCustomer(ctx context.Context, customerID string) ([]*domain.Order, error) {
	return s.orders.FindByCustomer(ctx, customerID)
}

func (s *OrderService) GetAllOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.orders.FindAll(ctx)
}

// applyAdjustments walks the order's items in sequence and asks the product
// service to move stock by each item's quantity: negative for a reserve,
// positive for a release. Failures do not stop the loop and are not
// compensated; each attempt lands in the stock log.
func (s *OrderService) applyAdjustments(ctx context.Context, order *domain.Order, action stocklog.Action) {
	sign := -1
	if action == stocklog.ActionRelease {
		sign = 1
	}

	for _, item := range order.Items() {
		entry := stocklog.NewEntry(ctx, order.ID(), action, item.ProductID(), item.Quantity())

		applied, err := s.products.AdjustStock(ctx, item.ProductID(), sign*item.Quantity())
		entry.Applied = applied
		switch {
		case err != nil:
			entry.Detail = err.Error()
			slog.ErrorContext(ctx, "stock adjustment call failed",
				"order_id", order.ID(), "product_id", item.ProductID(), "action", string(action), "error", err)
		case !applied:
			slog.WarnContext(ctx, "stock adjustment rejected",
				"order_id", order.ID(), "product_id", item.ProductID(), "action", string(action))
		}

		if s.adjustments != nil {
			if err := s.adjustments.Save(ctx, entry); err != nil {
				slog.ErrorContext(ctx, "failed to record stock adjustment", "order_id", order.ID(), "error", err)
			}
		}
	}
}

// replayedOrder returns the previously created order when the request
// carries an idempotency key this service has already honoured.
func (s *OrderService) replayedOrder(ctx context.Context) *domain.Order {
	key := reqmeta.IdempotencyKey(ctx)
	if key == "" || s.idem == nil {
		return nil
	}

	orderID, err := s.idem.Get(ctx, s.idem.GenerateKey("create-order", key))
	if err != nil {
		slog.WarnContext(ctx, "idempotency lookup failed", "error", err)
		return nil
	}
	if orderID == "" {
		return nil
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil || order == nil {
		return nil
	}

	slog.InfoContext(ctx, "replaying idempotent order creation", "order_id", orderID, "idempotency_key", key)
	return order
}

func (s *OrderService) rememberIdempotencyKey(ctx context.Context, orderID string) {
	key := reqmeta.IdempotencyKey(ctx)
	if key == "" || s.idem == nil {
		return
	}
	if err := s.idem.Set(ctx, s.idem.GenerateKey("create-order", key), orderID, idempotencyTTL); err != nil {
		slog.WarnContext(ctx, "failed to store idempotency key", "error", err)
	}
}
