package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quickcart/ecommerce-orders/internal/order-service/core/domain"
)

func openRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "orders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func newOrder(t *testing.T, customerID string) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder(customerID, []domain.ItemParams{
		{ProductID: "p1", ProductName: "keyboard", Quantity: 2, UnitPrice: 10.0},
		{ProductID: "p2", ProductName: "mouse", Quantity: 1, UnitPrice: 25.5},
	})
	require.NoError(t, err)
	return order
}

func TestSaveAndFindByID(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	order := newOrder(t, "c1")
	require.NoError(t, repo.Save(ctx, order))

	found, err := repo.FindByID(ctx, order.ID())
	require.NoError(t, err)
	require.NotNil(t, found)

	require.Equal(t, order.ID(), found.ID())
	require.Equal(t, "c1", found.CustomerID())
	require.Equal(t, domain.StatusPending, found.Status())
	require.Equal(t, 45.5, found.TotalAmount())

	items := found.Items()
	require.Len(t, items, 2)
	require.Equal(t, "p1", items[0].ProductID())
	require.Equal(t, 2, items[0].Quantity())
	require.Equal(t, "mouse", items[1].ProductName())
	require.Equal(t, 25.5, items[1].UnitPrice())

	require.True(t, found.CreatedAt().Equal(order.CreatedAt()))
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

	order := newOrder(t, "c1")
	require.NoError(t, repo.Save(ctx, order))

	require.NoError(t, order.UpdateStatus(domain.StatusPaid))
	require.NoError(t, repo.Update(ctx, order))

	found, err := repo.FindByID(ctx, order.ID())
	require.NoError(t, err)
	require.Equal(t, domain.StatusPaid, found.Status())
	require.True(t, found.UpdatedAt().After(found.CreatedAt()))
}

func TestUpdate_UnknownOrderErrors(t *testing.T) {
	repo := openRepo(t)

	order := newOrder(t, "c1")
	err := repo.Update(context.Background(), order)
	require.Error(t, err)
	require.Contains(t, err.Error(), "not found")
}

func TestFindByCustomer(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	first := newOrder(t, "c1")
	second := newOrder(t, "c1")
	other := newOrder(t, "c2")
	for _, order := range []*domain.Order{first, second, other} {
		require.NoError(t, repo.Save(ctx, order))
	}

	orders, err := repo.FindByCustomer(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	for _, order := range orders {
		require.Equal(t, "c1", order.CustomerID())
	}

	none, err := repo.FindByCustomer(ctx, "nobody")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestFindAll(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Empty(t, all)

	require.NoError(t, repo.Save(ctx, newOrder(t, "c1")))
	require.NoError(t, repo.Save(ctx, newOrder(t, "c2")))

	all, err = repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestDelete(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	order := newOrder(t, "c1")
	require.NoError(t, repo.Save(ctx, order))

	deleted, err := repo.Delete(ctx, order.ID())
	require.NoError(t, err)
	require.True(t, deleted)

	found, err := repo.FindByID(ctx, order.ID())
	require.NoError(t, err)
	require.Nil(t, found)

	deleted, err = repo.Delete(ctx, order.ID())
	require.NoError(t, err)
	require.False(t, deleted)
}
