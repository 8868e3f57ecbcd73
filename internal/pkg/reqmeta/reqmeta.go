// Package reqmeta propagates per-request metadata (the request id and the
// client-supplied idempotency key) from incoming HTTP headers, through the
// context, and back out on calls to downstream services.
package reqmeta

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

const (
	HeaderRequestID      = "X-Request-Id"
	HeaderIdempotencyKey = "X-Idempotency-Key"
)

// ctxKey is unexported so no other package can collide with these keys.
type ctxKey string

const (
	ctxKeyRequestID      ctxKey = "request_id"
	ctxKeyIdempotencyKey ctxKey = "idempotency_key"
)

// Middleware stashes the request id and idempotency key into the request
// context. The request id falls back to the one chi's middleware.RequestID
// generated when the client did not send its own.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = middleware.GetReqID(r.Context())
		}

		ctx := context.WithValue(r.Context(), ctxKeyRequestID, requestID)
		ctx = context.WithValue(ctx, ctxKeyIdempotencyKey, r.Header.Get(HeaderIdempotencyKey))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithRequestID returns a context carrying the given request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, id)
}

// WithIdempotencyKey returns a context carrying the given idempotency key.
func WithIdempotencyKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, ctxKeyIdempotencyKey, key)
}

// RequestID returns the request id carried by ctx, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID).(string)
	return id
}

// IdempotencyKey returns the idempotency key carried by ctx, or "".
func IdempotencyKey(ctx context.Context) string {
	key, _ := ctx.Value(ctxKeyIdempotencyKey).(string)
	return key
}

// Inject copies the metadata from ctx onto an outgoing request so the
// downstream service sees the same identifiers.
func Inject(ctx context.Context, req *http.Request) {
	if id := RequestID(ctx); id != "" {
		req.Header.Set(HeaderRequestID, id)
	}
	if key := IdempotencyKey(ctx); key != "" {
		req.Header.Set(HeaderIdempotencyKey, key)
	}
}
