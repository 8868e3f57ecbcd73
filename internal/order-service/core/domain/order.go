// Package domain holds the Order aggregate. All fields are unexported and
// every mutation goes through the aggregate root, so the invariants checked
// at construction hold for the aggregate's whole lifetime.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status is the order lifecycle state.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// ParseStatus maps a raw string onto a known Status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusPaid, StatusShipped, StatusDelivered, StatusCancelled:
		return Status(s), nil
	}
	return "", ErrInvalidOrderStatus
}

// OrderItem is an immutable line item. It is only ever created through
// NewOrderItem, so quantity and unit price are strictly positive.
type OrderItem struct {
	productID   string
	productName string
	quantity    int
	unitPrice   float64
}

func NewOrderItem(productID, productName string, quantity int, unitPrice float64) (OrderItem, error) {
	if productID == "" {
		return OrderItem{}, ErrMissingProductID
	}
	if quantity <= 0 {
		return OrderItem{}, ErrInvalidQuantity
	}
	if unitPrice <= 0 {
		return OrderItem{}, ErrInvalidUnitPrice
	}
	return OrderItem{
		productID:   productID,
		productName: productName,
		quantity:    quantity,
		unitPrice:   unitPrice,
	}, nil
}

func (i OrderItem) ProductID() string   { return i.productID }
func (i OrderItem) ProductName() string { return i.productName }
func (i OrderItem) Quantity() int       { return i.quantity }
func (i OrderItem) UnitPrice() float64  { return i.unitPrice }

func (i OrderItem) Subtotal() float64 {
	return float64(i.quantity) * i.unitPrice
}

// ItemParams is the raw input for a single line item.
type ItemParams struct {
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   float64
}

// Order is the aggregate root. The item list and total are fixed at
// construction; only the status (and updatedAt alongside it) changes
// afterwards.
type Order struct {
	id          string
	customerID  string
	items       []OrderItem
	status      Status
	totalAmount float64
	createdAt   time.Time
	updatedAt   time.Time
}

// NewOrder builds a PENDING order from raw line items, generating an id and
// computing the total. Item validation failures propagate unchanged.
func NewOrder(customerID string, items []ItemParams) (*Order, error) {
	now := time.Now().UTC()
	return assemble(uuid.NewString(), customerID, items, StatusPending, now, now)
}

// RehydrateParams carries persisted state back into the aggregate.
type RehydrateParams struct {
	ID         string
	CustomerID string
	Items      []ItemParams
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Rehydrate rebuilds an aggregate from the store, re-running the same
// invariants as NewOrder. The total is recomputed rather than trusted.
func Rehydrate(p RehydrateParams) (*Order, error) {
	return assemble(p.ID, p.CustomerID, p.Items, p.Status, p.CreatedAt, p.UpdatedAt)
}

func assemble(id, customerID string, items []ItemParams, status Status, createdAt, updatedAt time.Time) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}
	built := make([]OrderItem, 0, len(items))
	var total float64
	for _, p := range items {
		item, err := NewOrderItem(p.ProductID, p.ProductName, p.Quantity, p.UnitPrice)
		if err != nil {
			return nil, err
		}
		built = append(built, item)
		total += item.Subtotal()
	}
	return &Order{
		id:          id,
		customerID:  customerID,
		items:       built,
		status:      status,
		totalAmount: total,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

func (o *Order) ID() string           { return o.id }
func (o *Order) CustomerID() string   { return o.customerID }
func (o *Order) Status() Status       { return o.status }
func (o *Order) TotalAmount() float64 { return o.totalAmount }
func (o *Order) CreatedAt() time.Time { return o.createdAt }
func (o *Order) UpdatedAt() time.Time { return o.updatedAt }

// Items returns a copy so callers cannot reach into the aggregate's state.
func (o *Order) Items() []OrderItem {
	out := make([]OrderItem, len(o.items))
	copy(out, o.items)
	return out
}

// UpdateStatus applies the lifecycle rules:
//
//   - a CANCELLED order never changes again
//   - a DELIVERED order only moves to CANCELLED
//
// Any other transition is allowed, including backward ones; the aggregate
// guards its terminal states and nothing more.
func (o *Order) UpdateStatus(target Status) error {
	if o.status == StatusCancelled {
		return ErrOrderCancelled
	}
	if o.status == StatusDelivered && target != StatusCancelled {
		return ErrOrderDelivered
	}
	o.status = target
	o.updatedAt = time.Now().UTC()
	return nil
}
