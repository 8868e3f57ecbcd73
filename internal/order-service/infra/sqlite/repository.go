// Package sqlite implements ports.OrderRepository on SQLite.
//
// Line items are stored as a JSON document inside the row, mirroring how
// the order was modelled as one aggregate: the items never change after
// creation, so there is nothing to join or update per item.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/quickcart/ecommerce-orders/internal/order-service/core/domain"
	"github.com/quickcart/ecommerce-orders/internal/order-service/core/ports"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS orders (
    id           TEXT PRIMARY KEY,
    customer_id  TEXT NOT NULL,

    -- JSON array of line items; fixed at creation.
    items        TEXT NOT NULL,

    status       TEXT NOT NULL,
    total_amount REAL NOT NULL,

    -- RFC3339 stored as TEXT.
    created_at   TEXT NOT NULL,
    updated_at   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_orders_customer_id ON orders(customer_id);
`

// Repository is the SQLite implementation of ports.OrderRepository.
type Repository struct {
	db *sql.DB
}

var _ ports.OrderRepository = (*Repository)(nil)

// Open opens (or creates) the database at path and applies the schema.
// WAL mode keeps readers and the single writer out of each other's way.
func Open(path string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("order sqlite: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("order sqlite: apply schema: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// itemRecord is the persisted shape of one line item.
type itemRecord struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

func (r *Repository) Save(ctx context.Context, order *domain.Order) error {
	items, err := encodeItems(order)
	if err != nil {
		return err
	}

	const q = `
		INSERT INTO orders (id, customer_id, items, status, total_amount, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, q,
		order.ID(),
		order.CustomerID(),
		items,
		string(order.Status()),
		order.TotalAmount(),
		order.CreatedAt().UTC().Format(time.RFC3339Nano),
		order.UpdatedAt().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("order sqlite: save order %q: %w", order.ID(), err)
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, order *domain.Order) error {
	const q = `
		UPDATE orders
		SET    status = ?, updated_at = ?
		WHERE  id = ?`

	res, err := r.db.ExecContext(ctx, q,
		string(order.Status()),
		order.UpdatedAt().UTC().Format(time.RFC3339Nano),
		order.ID(),
	)
	if err != nil {
		return fmt.Errorf("order sqlite: update order %q: %w", order.ID(), err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("order sqlite: update order %q: %w", order.ID(), err)
	}
	if affected == 0 {
		return fmt.Errorf("order sqlite: order %q not found", order.ID())
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	const q = `
		SELECT id, customer_id, items, status, created_at, updated_at
		FROM   orders
		WHERE  id = ?`

	order, err := scanOrder(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("order sqlite: find order %q: %w", id, err)
	}
	return order, nil
}

func (r *Repository) FindByCustomer(ctx context.Context, customerID string) ([]*domain.Order, error) {
	const q = `
		SELECT id, customer_id, items, status, created_at, updated_at
		FROM   orders
		WHERE  customer_id = ?
		ORDER  BY created_at`

	return r.queryOrders(ctx, q, customerID)
}

func (r *Repository) FindAll(ctx context.Context) ([]*domain.Order, error) {
	const q = `
		SELECT id, customer_id, items, status, created_at, updated_at
		FROM   orders
		ORDER  BY created_at`

	return r.queryOrders(ctx, q)
}

func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("order sqlite: delete order %q: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("order sqlite: delete order %q: %w", id, err)
	}
	return affected > 0, nil
}

func (r *Repository) queryOrders(ctx context.Context, q string, args ...any) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("order sqlite: query orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("order sqlite: scan order: %w", err)
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanOrder rehydrates one row through the aggregate's own factory, so a
// corrupted row fails loudly instead of producing an invalid order.
func scanOrder(s scanner) (*domain.Order, error) {
	var (
		id, customerID, items, status string
		createdAt, updatedAt          string
	)
	if err := s.Scan(&id, &customerID, &items, &status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var records []itemRecord
	if err := json.Unmarshal([]byte(items), &records); err != nil {
		return nil, fmt.Errorf("decode items of order %q: %w", id, err)
	}
	params := make([]domain.ItemParams, 0, len(records))
	for _, rec := range records {
		params = append(params, domain.ItemParams{
			ProductID:   rec.ProductID,
			ProductName: rec.ProductName,
			Quantity:    rec.Quantity,
			UnitPrice:   rec.UnitPrice,
		})
	}

	created, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at of order %q: %w", id, err)
	}
	updated, err := time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at of order %q: %w", id, err)
	}

	return domain.Rehydrate(domain.RehydrateParams{
		ID:         id,
		CustomerID: customerID,
		Items:      params,
		Status:     domain.Status(status),
		CreatedAt:  created,
		UpdatedAt:  updated,
	})
}

func encodeItems(order *domain.Order) (string, error) {
	items := order.Items()
	records := make([]itemRecord, 0, len(items))
	for _, item := range items {
		records = append(records, itemRecord{
			ProductID:   item.ProductID(),
			ProductName: item.ProductName(),
			Quantity:    item.Quantity(),
			UnitPrice:   item.UnitPrice(),
		})
	}
	encoded, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("order sqlite: encode items of order %q: %w", order.ID(), err)
	}
	return string(encoded), nil
}
