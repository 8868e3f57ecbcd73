package stocklog

import "context"

// Repository is the port for persisting stock adjustment entries. The
// workflows depend on this abstraction, not on SQLite directly, so tests
// can swap in an in-memory recorder.
type Repository interface {
	// Save appends one entry. The table is an append-only audit log, never
	// an upsert.
	Save(ctx context.Context, entry *Entry) error
}
