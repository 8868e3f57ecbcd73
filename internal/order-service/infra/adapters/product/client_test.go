package product

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quickcart/ecommerce-orders/internal/pkg/reqmeta"
)

func TestCheckAvailability(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/products/p1", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":       "p1",
			"name":     "keyboard",
			"price":    49.99,
			"in_stock": 7,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	availability, err := client.CheckAvailability(context.Background(), "p1")
	require.NoError(t, err)
	require.NotNil(t, availability)

	require.Equal(t, "p1", availability.ID)
	require.Equal(t, "keyboard", availability.Name)
	require.Equal(t, 7, availability.InStock)
	require.Equal(t, 49.99, availability.Price)
}

func TestCheckAvailability_NotFoundIsNilNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"product_not_found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	availability, err := NewClient(server.URL).CheckAvailability(context.Background(), "ghost")
	require.NoError(t, err)
	require.Nil(t, availability)
}

func TestCheckAvailability_ServerErrorIsFault(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).CheckAvailability(context.Background(), "p1")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unexpected status 500")
}

func TestAdjustStock_Applied(t *testing.T) {
	var gotDelta int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/api/products/p1/stock", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body struct {
			Delta int `json:"delta"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotDelta = body.Delta

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "p1", "in_stock": 5})
	}))
	defer server.Close()

	applied, err := NewClient(server.URL).AdjustStock(context.Background(), "p1", -2)
	require.NoError(t, err)
	require.True(t, applied)
	require.Equal(t, -2, gotDelta)
}

func TestAdjustStock_RefusalsAreNotFaults(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusConflict} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		applied, err := NewClient(server.URL).AdjustStock(context.Background(), "p1", -2)
		require.NoError(t, err)
		require.False(t, applied)

		server.Close()
	}
}

func TestAdjustStock_ServerErrorIsFault(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).AdjustStock(context.Background(), "p1", -2)
	require.Error(t, err)
}

func TestRequestMetadataPropagates(t *testing.T) {
	var gotRequestID, gotIdemKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = r.Header.Get(reqmeta.HeaderRequestID)
		gotIdemKey = r.Header.Get(reqmeta.HeaderIdempotencyKey)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "p1"})
	}))
	defer server.Close()

	ctx := reqmeta.WithRequestID(context.Background(), "req-42")
	ctx = reqmeta.WithIdempotencyKey(ctx, "idem-7")

	_, err := NewClient(server.URL).CheckAvailability(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "req-42", gotRequestID)
	require.Equal(t, "idem-7", gotIdemKey)
}
