package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/quickcart/ecommerce-orders/internal/order-service/stocklog"
)

func openRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "stocklog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestSaveAndFindByOrder(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	entries := []*stocklog.Entry{
		{
			OrderID:   "o1",
			Action:    stocklog.ActionReserve,
			ProductID: "p1",
			Quantity:  2,
			Applied:   true,
			TraceID:   "4bf92f3577b34da6a3ce929d0e0e4736",
			SpanID:    "00f067aa0ba902b7",
			CreatedAt: base,
		},
		{
			OrderID:   "o1",
			Action:    stocklog.ActionRelease,
			ProductID: "p1",
			Quantity:  2,
			Applied:   false,
			Detail:    "connection refused",
			CreatedAt: base.Add(time.Minute),
		},
		{
			OrderID:   "other",
			Action:    stocklog.ActionReserve,
			ProductID: "p2",
			Quantity:  1,
			Applied:   true,
			CreatedAt: base,
		},
	}
	for _, entry := range entries {
		require.NoError(t, repo.Save(ctx, entry))
	}

	found, err := repo.FindByOrder(ctx, "o1")
	require.NoError(t, err)
	require.Len(t, found, 2)

	first := found[0]
	require.Equal(t, stocklog.ActionReserve, first.Action)
	require.Equal(t, "p1", first.ProductID)
	require.Equal(t, 2, first.Quantity)
	require.True(t, first.Applied)
	require.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", first.TraceID)
	require.Equal(t, "00f067aa0ba902b7", first.SpanID)
	require.True(t, first.CreatedAt.Equal(base))

	second := found[1]
	require.Equal(t, stocklog.ActionRelease, second.Action)
	require.False(t, second.Applied)
	require.Equal(t, "connection refused", second.Detail)
}

func TestFindByOrder_UnknownOrderIsEmpty(t *testing.T) {
	repo := openRepo(t)

	found, err := repo.FindByOrder(context.Background(), "nobody")
	require.NoError(t, err)
	require.Empty(t, found)
}

func TestFindByOrder_OldestFirst(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, action := range []stocklog.Action{stocklog.ActionReserve, stocklog.ActionReserve, stocklog.ActionRelease} {
		require.NoError(t, repo.Save(ctx, &stocklog.Entry{
			OrderID:   "o1",
			Action:    action,
			ProductID: "p1",
			Quantity:  i + 1,
			Applied:   true,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	found, err := repo.FindByOrder(ctx, "o1")
	require.NoError(t, err)
	require.Len(t, found, 3)
	require.Equal(t, 1, found[0].Quantity)
	require.Equal(t, 3, found[2].Quantity)
	require.Equal(t, stocklog.ActionRelease, found[2].Action)
}
