// Package sqlite implements ports.ProductRepository on SQLite.
//
// AdjustStock is a single guarded UPDATE, so two order services racing for
// the last unit serialize on the database and one of them loses cleanly.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/quickcart/ecommerce-orders/internal/product-service/core/domain"
	"github.com/quickcart/ecommerce-orders/internal/product-service/core/ports"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS products (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    price       REAL NOT NULL,
    category    TEXT NOT NULL DEFAULT '',

    -- Never negative; AdjustStock enforces the floor in its WHERE clause.
    in_stock    INTEGER NOT NULL DEFAULT 0,

    -- RFC3339 stored as TEXT.
    created_at  TEXT NOT NULL,
    updated_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
`

// Repository is the SQLite implementation of ports.ProductRepository.
type Repository struct {
	db *sql.DB
}

var _ ports.ProductRepository = (*Repository)(nil)

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("product sqlite: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("product sqlite: apply schema: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) Save(ctx context.Context, product *domain.Product) error {
	const q = `
		INSERT INTO products (id, name, description, price, category, in_stock, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		product.ID(),
		product.Name(),
		product.Description(),
		product.Price(),
		product.Category(),
		product.InStock(),
		product.CreatedAt().UTC().Format(time.RFC3339Nano),
		product.UpdatedAt().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("product sqlite: save product %q: %w", product.ID(), err)
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, product *domain.Product) error {
	const q = `
		UPDATE products
		SET    name = ?, description = ?, price = ?, category = ?, in_stock = ?, updated_at = ?
		WHERE  id = ?`

	res, err := r.db.ExecContext(ctx, q,
		product.Name(),
		product.Description(),
		product.Price(),
		product.Category(),
		product.InStock(),
		product.UpdatedAt().UTC().Format(time.RFC3339Nano),
		product.ID(),
	)
	if err != nil {
		return fmt.Errorf("product sqlite: update product %q: %w", product.ID(), err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("product sqlite: update product %q: %w", product.ID(), err)
	}
	if affected == 0 {
		return fmt.Errorf("product sqlite: product %q not found", product.ID())
	}
	return nil
}

// AdjustStock performs the guarded in-place update. The WHERE clause only
// matches when the resulting stock stays at or above zero, which is the
// atomicity boundary the reservation workflow relies on.
func (r *Repository) AdjustStock(ctx context.Context, id string, delta int) (*domain.Product, error) {
	const q = `
		UPDATE products
		SET    in_stock = in_stock + ?, updated_at = ?
		WHERE  id = ? AND in_stock + ? >= 0`

	res, err := r.db.ExecContext(ctx, q, delta, time.Now().UTC().Format(time.RFC3339Nano), id, delta)
	if err != nil {
		return nil, fmt.Errorf("product sqlite: adjust stock of %q: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("product sqlite: adjust stock of %q: %w", id, err)
	}
	if affected == 0 {
		// Either the product is gone or the floor was hit; look once to
		// tell the two apart.
		product, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, nil
		}
		return nil, domain.ErrStockBelowZero
	}

	return r.FindByID(ctx, id)
}

func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	const q = `
		SELECT id, name, description, price, category, in_stock, created_at, updated_at
		FROM   products
		WHERE  id = ?`

	product, err := scanProduct(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("product sqlite: find product %q: %w", id, err)
	}
	return product, nil
}

func (r *Repository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	const q = `
		SELECT id, name, description, price, category, in_stock, created_at, updated_at
		FROM   products
		ORDER  BY created_at`

	return r.queryProducts(ctx, q)
}

func (r *Repository) FindByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	const q = `
		SELECT id, name, description, price, category, in_stock, created_at, updated_at
		FROM   products
		WHERE  category = ?
		ORDER  BY created_at`

	return r.queryProducts(ctx, q, category)
}

func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("product sqlite: delete product %q: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("product sqlite: delete product %q: %w", id, err)
	}
	return affected > 0, nil
}

func (r *Repository) queryProducts(ctx context.Context, q string, args ...any) ([]*domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("product sqlite: query products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("product sqlite: scan product: %w", err)
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (*domain.Product, error) {
	var (
		id, name, description, category string
		price                           float64
		inStock                         int
		createdAt, updatedAt            string
	)
	if err := s.Scan(&id, &name, &description, &price, &category, &inStock, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	created, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at of product %q: %w", id, err)
	}
	updated, err := time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at of product %q: %w", id, err)
	}

	return domain.Rehydrate(domain.RehydrateParams{
		ID:          id,
		Name:        name,
		Description: description,
		Price:       price,
		Category:    category,
		InStock:     inStock,
		CreatedAt:   created,
		UpdatedAt:   updated,
	})
}
