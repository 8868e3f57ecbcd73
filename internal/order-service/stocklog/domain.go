// Package stocklog defines the audit trail for remote stock adjustments.
//
// CreateOrder and CancelOrder mutate inventory on the product service with
// no shared transaction: a crash or a failed call mid-loop leaves stock and
// orders out of step. The log records every adjustment the order service
// attempted, so the gap is at least visible:
//
//  1. Observability: each row carries the OTel trace_id, so an operator can
//     jump from a suspect order straight to the distributed trace.
//
//  2. Repair: a future reconciliation job can replay or compensate the
//     adjustments that never applied. Nothing in the workflows does that
//     today; the log is the seam where such a layer would attach.
package stocklog

import "time"

// Action distinguishes the two directions stock moves in.
type Action string

const (
	// ActionReserve is a decrement made while creating an order.
	ActionReserve Action = "RESERVE"

	// ActionRelease is an increment made while cancelling an order.
	ActionRelease Action = "RELEASE"
)

// Entry is a single row in the stock_adjustments table: one attempted
// adjustment of one product for one order.
type Entry struct {
	// OrderID ties the adjustment back to the order that caused it.
	OrderID string

	// Action is the direction of the adjustment.
	Action Action

	// ProductID and Quantity identify what was moved. Quantity is always
	// positive; Action carries the sign.
	ProductID string
	Quantity  int

	// Applied records whether the product service accepted the adjustment.
	// False means the product was gone or stock would have gone negative.
	Applied bool

	// Detail holds the transport error text when the call itself failed.
	Detail string

	// TraceID and SpanID are the W3C identifiers of the OTel span that was
	// active when the adjustment ran. Empty when no span is in the context.
	TraceID string
	SpanID  string

	// CreatedAt is the wall-clock time of the attempt.
	CreatedAt time.Time
}
