// Package sqlite provides the SQLite-backed stocklog.Repository.
//
// WAL mode is enabled on Open so writes from the order workflows never
// block a concurrent reader inspecting the log.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/quickcart/ecommerce-orders/internal/order-service/stocklog"

	// Pure-Go SQLite driver; no CGO, which keeps Docker builds trivial.
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS stock_adjustments (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,

    -- Order that caused the adjustment. Not UNIQUE: one row per item.
    order_id    TEXT    NOT NULL,

    -- RESERVE or RELEASE.
    action      TEXT    NOT NULL,

    product_id  TEXT    NOT NULL,
    quantity    INTEGER NOT NULL,

    -- Whether the product service accepted the adjustment.
    applied     INTEGER NOT NULL,

    -- Transport error text when the call itself failed.
    detail      TEXT    NOT NULL DEFAULT '',

    -- W3C trace/span ids of the active OTel span, for trace correlation.
    trace_id    TEXT    NOT NULL DEFAULT '',
    span_id     TEXT    NOT NULL DEFAULT '',

    -- RFC3339 stored as TEXT, the usual SQLite idiom.
    created_at  TEXT    NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_stock_adjustments_order_id ON stock_adjustments(order_id, created_at);
CREATE INDEX IF NOT EXISTS idx_stock_adjustments_trace_id ON stock_adjustments(trace_id);
`

// Repository is the SQLite implementation of stocklog.Repository.
type Repository struct {
	db *sql.DB
}

var _ stocklog.Repository = (*Repository)(nil)

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("stocklog sqlite: open %q: %w", path, err)
	}

	// Single writer connection; SQLite serialises writes anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("stocklog sqlite: apply schema: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// Save appends one entry. Safe for concurrent use.
func (r *Repository) Save(ctx context.Context, entry *stocklog.Entry) error {
	const q = `
		INSERT INTO stock_adjustments
			(order_id, action, product_id, quantity, applied, detail, trace_id, span_id, created_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.OrderID,
		string(entry.Action),
		entry.ProductID,
		entry.Quantity,
		boolToInt(entry.Applied),
		entry.Detail,
		entry.TraceID,
		entry.SpanID,
		entry.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("stocklog sqlite: save entry for order %q: %w", entry.OrderID, err)
	}
	return nil
}

// FindByOrder returns every adjustment recorded for an order, oldest first.
func (r *Repository) FindByOrder(ctx context.Context, orderID string) ([]*stocklog.Entry, error) {
	const q = `
		SELECT order_id, action, product_id, quantity, applied, detail, trace_id, span_id, created_at
		FROM   stock_adjustments
		WHERE  order_id = ?
		ORDER  BY created_at, id`

	rows, err := r.db.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, fmt.Errorf("stocklog sqlite: find by order %q: %w", orderID, err)
	}
	defer rows.Close()

	var entries []*stocklog.Entry
	for rows.Next() {
		var entry stocklog.Entry
		var applied int
		var createdAt string
		if err := rows.Scan(
			&entry.OrderID,
			&entry.Action,
			&entry.ProductID,
			&entry.Quantity,
			&applied,
			&entry.Detail,
			&entry.TraceID,
			&entry.SpanID,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("stocklog sqlite: scan entry: %w", err)
		}
		entry.Applied = applied != 0
		entry.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("stocklog sqlite: parse time %q: %w", createdAt, err)
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
