package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quickcart/ecommerce-orders/internal/product-service/core/domain"
)

func openRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "products.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func newProduct(t *testing.T, name, category string, inStock int) *domain.Product {
	t.Helper()
	product, err := domain.NewProduct(domain.NewProductParams{
		Name:        name,
		Description: "test item",
		Price:       49.99,
		Category:    category,
		InStock:     inStock,
	})
	require.NoError(t, err)
	return product
}

func TestSaveAndFindByID(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	product := newProduct(t, "keyboard", "peripherals", 10)
	require.NoError(t, repo.Save(ctx, product))

	found, err := repo.FindByID(ctx, product.ID())
	require.NoError(t, err)
	require.NotNil(t, found)

	require.Equal(t, product.ID(), found.ID())
	require.Equal(t, "keyboard", found.Name())
	require.Equal(t, "test item", found.Description())
	require.Equal(t, 49.99, found.Price())
	require.Equal(t, 10, found.InStock())
	require.True(t, found.CreatedAt().Equal(product.CreatedAt()))
}

func TestFindByID_UnknownIsNilNil(t *testing.T) {
	repo := openRepo(t)

	found, err := repo.FindByID(context.Background(), "missing")
	require.NoError(t, err)
	require.Nil(t, found)
}

func TestUpdate(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	product := newProduct(t, "keyboard", "peripherals", 10)
	require.NoError(t, repo.Save(ctx, product))

	price := 39.99
	require.NoError(t, product.Apply(domain.Patch{Price: &price}))
	require.NoError(t, repo.Update(ctx, product))

	found, err := repo.FindByID(ctx, product.ID())
	require.NoError(t, err)
	require.Equal(t, 39.99, found.Price())
	require.Equal(t, "keyboard", found.Name())
}

func TestUpdate_UnknownProductErrors(t *testing.T) {
	repo := openRepo(t)

	product := newProduct(t, "keyboard", "peripherals", 10)
	err := repo.Update(context.Background(), product)
	require.Error(t, err)
	require.Contains(t, err.Error(), "not found")
}

func TestAdjustStock(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	product := newProduct(t, "keyboard", "peripherals", 10)
	require.NoError(t, repo.Save(ctx, product))

	adjusted, err := repo.AdjustStock(ctx, product.ID(), -4)
	require.NoError(t, err)
	require.Equal(t, 6, adjusted.InStock())

	adjusted, err = repo.AdjustStock(ctx, product.ID(), 2)
	require.NoError(t, err)
	require.Equal(t, 8, adjusted.InStock())

	// Down to exactly zero is allowed.
	adjusted, err = repo.AdjustStock(ctx, product.ID(), -8)
	require.NoError(t, err)
	require.Equal(t, 0, adjusted.InStock())
}

func TestAdjustStock_RefusesCrossingZero(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	product := newProduct(t, "keyboard", "peripherals", 3)
	require.NoError(t, repo.Save(ctx, product))

	_, err := repo.AdjustStock(ctx, product.ID(), -4)
	require.ErrorIs(t, err, domain.ErrStockBelowZero)

	// The refused adjustment must not have moved the level.
	found, err := repo.FindByID(ctx, product.ID())
	require.NoError(t, err)
	require.Equal(t, 3, found.InStock())
}

func TestAdjustStock_UnknownIsNilNil(t *testing.T) {
	repo := openRepo(t)

	adjusted, err := repo.AdjustStock(context.Background(), "missing", -1)
	require.NoError(t, err)
	require.Nil(t, adjusted)
}

func TestFindByCategory(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newProduct(t, "keyboard", "peripherals", 10)))
	require.NoError(t, repo.Save(ctx, newProduct(t, "mouse", "peripherals", 5)))
	require.NoError(t, repo.Save(ctx, newProduct(t, "desk", "furniture", 2)))

	peripherals, err := repo.FindByCategory(ctx, "peripherals")
	require.NoError(t, err)
	require.Len(t, peripherals, 2)

	none, err := repo.FindByCategory(ctx, "groceries")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestFindAll(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Empty(t, all)

	require.NoError(t, repo.Save(ctx, newProduct(t, "keyboard", "peripherals", 10)))

	all, err = repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestDelete(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	product := newProduct(t, "keyboard", "peripherals", 10)
	require.NoError(t, repo.Save(ctx, product))

	deleted, err := repo.Delete(ctx, product.ID())
	require.NoError(t, err)
	require.True(t, deleted)

	deleted, err = repo.Delete(ctx, product.ID())
	require.NoError(t, err)
	require.False(t, deleted)
}
