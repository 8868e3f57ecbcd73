// Package domain holds the Product aggregate: the catalog entry plus its
// stock level. Stock never goes negative; that is the one invariant the
// reservation protocol leans on.
package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyName      = errors.New("product name cannot be empty")
	ErrInvalidPrice   = errors.New("product price must be greater than zero")
	ErrNegativeStock  = errors.New("stock quantity cannot be negative")
	ErrStockBelowZero = errors.New("cannot reduce stock below zero")
)

// IsProductError reports whether err is one of the validation failures the
// product aggregate raises, as opposed to an infrastructure fault.
func IsProductError(err error) bool {
	for _, sentinel := range []error{ErrEmptyName, ErrInvalidPrice, ErrNegativeStock, ErrStockBelowZero} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

type Product struct {
	id          string
	name        string
	description string
	price       float64
	category    string
	inStock     int
	createdAt   time.Time
	updatedAt   time.Time
}

// NewProductParams is the raw input for a new catalog entry.
type NewProductParams struct {
	Name        string
	Description string
	Price       float64
	Category    string
	InStock     int
}

func NewProduct(p NewProductParams) (*Product, error) {
	now := time.Now().UTC()
	return assemble(uuid.NewString(), p, now, now)
}

// RehydrateParams carries persisted state back into the aggregate.
type RehydrateParams struct {
	ID          string
	Name        string
	Description string
	Price       float64
	Category    string
	InStock     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func Rehydrate(p RehydrateParams) (*Product, error) {
	return assemble(p.ID, NewProductParams{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		InStock:     p.InStock,
	}, p.CreatedAt, p.UpdatedAt)
}

func assemble(id string, p NewProductParams, createdAt, updatedAt time.Time) (*Product, error) {
	product := &Product{
		id:          id,
		name:        p.Name,
		description: p.Description,
		price:       p.Price,
		category:    p.Category,
		inStock:     p.InStock,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
	if err := product.validate(); err != nil {
		return nil, err
	}
	return product, nil
}

func (p *Product) validate() error {
	if strings.TrimSpace(p.name) == "" {
		return ErrEmptyName
	}
	if p.price <= 0 {
		return ErrInvalidPrice
	}
	if p.inStock < 0 {
		return ErrNegativeStock
	}
	return nil
}

func (p *Product) ID() string           { return p.id }
func (p *Product) Name() string         { return p.name }
func (p *Product) Description() string  { return p.description }
func (p *Product) Price() float64       { return p.price }
func (p *Product) Category() string     { return p.category }
func (p *Product) InStock() int         { return p.inStock }
func (p *Product) CreatedAt() time.Time { return p.createdAt }
func (p *Product) UpdatedAt() time.Time { return p.updatedAt }

// AdjustStock moves the stock level by delta: negative reserves, positive
// restores. The level never crosses zero.
func (p *Product) AdjustStock(delta int) error {
	next := p.inStock + delta
	if next < 0 {
		return ErrStockBelowZero
	}
	p.inStock = next
	p.touch()
	return nil
}

// Patch is a partial update: nil fields are left untouched.
type Patch struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	InStock     *int
}

// Apply sets every present field and then re-runs the same validation used
// at construction, so a patch cannot leave the aggregate in a state the
// constructor would have refused. Stock moves through AdjustStock so the
// below-zero rule holds on that path too.
func (p *Product) Apply(patch Patch) error {
	snapshot := *p

	if patch.Name != nil {
		p.name = *patch.Name
	}
	if patch.Description != nil {
		p.description = *patch.Description
	}
	if patch.Price != nil {
		p.price = *patch.Price
	}
	if patch.Category != nil {
		p.category = *patch.Category
	}
	if patch.InStock != nil {
		if err := p.AdjustStock(*patch.InStock - p.inStock); err != nil {
			*p = snapshot
			return err
		}
	}

	if err := p.validate(); err != nil {
		*p = snapshot
		return err
	}
	p.touch()
	return nil
}

func (p *Product) touch() {
	p.updatedAt = time.Now().UTC()
}

// String implements fmt.Stringer for log output.
func (p *Product) String() string {
	return fmt.Sprintf("product %s (%s, stock %d)", p.id, p.name, p.inStock)
}
