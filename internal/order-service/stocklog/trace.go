package stocklog

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// NewEntry builds an Entry stamped with the trace and span ids of the OTel
// span active in ctx. Both ids come back empty when there is no valid span,
// for example in unit tests.
func NewEntry(ctx context.Context, orderID string, action Action, productID string, quantity int) *Entry {
	entry := &Entry{
		OrderID:   orderID,
		Action:    action,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: time.Now().UTC(),
	}
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		entry.TraceID = sc.TraceID().String()
		entry.SpanID = sc.SpanID().String()
	}
	return entry
}
