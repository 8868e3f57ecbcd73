package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors raised by the aggregate's own invariants. Their messages
// are part of the contract: the HTTP layer returns them verbatim.
var (
	ErrEmptyOrder       = errors.New("order must contain at least one item")
	ErrMissingProductID = errors.New("product id must not be empty")
	ErrInvalidQuantity  = errors.New("quantity must be greater than zero")
	ErrInvalidUnitPrice = errors.New("unit price must be greater than zero")

	ErrOrderCancelled     = errors.New("cannot update a cancelled order")
	ErrOrderDelivered     = errors.New("cannot update a delivered order")
	ErrCancelDelivered    = errors.New("cannot cancel a delivered order")
	ErrDirectCancellation = errors.New("cannot set status to CANCELLED via this path")
	ErrInvalidOrderStatus = errors.New("invalid order status")
)

// ProductNotFoundError is raised by CreateOrder when the product service
// reports no product for a requested line item.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// InsufficientStockError is raised by CreateOrder when the available stock
// cannot cover the requested quantity.
type InsufficientStockError struct {
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s", e.ProductName)
}

// IsOrderError reports whether err is one of the typed failures the order
// workflows raise on bad input or forbidden transitions, as opposed to an
// infrastructure fault. Handlers use it to pick between 400 and 500.
func IsOrderError(err error) bool {
	var notFound *ProductNotFoundError
	var noStock *InsufficientStockError
	if errors.As(err, &notFound) || errors.As(err, &noStock) {
		return true
	}
	for _, sentinel := range []error{
		ErrEmptyOrder,
		ErrMissingProductID,
		ErrInvalidQuantity,
		ErrInvalidUnitPrice,
		ErrOrderCancelled,
		ErrOrderDelivered,
		ErrCancelDelivered,
		ErrDirectCancellation,
		ErrInvalidOrderStatus,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
