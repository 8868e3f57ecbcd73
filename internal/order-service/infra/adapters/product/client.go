// Package product implements ports.ProductGateway against the product
// service's JSON API.
package product

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/quickcart/ecommerce-orders/internal/order-service/core/ports"
	"github.com/quickcart/ecommerce-orders/internal/pkg/reqmeta"
)

// Client talks to the product service over HTTP. The transport is wrapped
// with otelhttp so the cross-service spans join one trace.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ ports.ProductGateway = (*Client)(nil)

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type productPayload struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
	InStock int     `json:"in_stock"`
}

// CheckAvailability fetches a product by id. A 404 means the product does
// not exist and maps to (nil, nil).
func (c *Client) CheckAvailability(ctx context.Context, productID string) (*ports.ProductAvailability, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/products/"+productID, nil)
	if err != nil {
		return nil, fmt.Errorf("product client: build request: %w", err)
	}
	reqmeta.Inject(ctx, req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("product client: get product %s: %w", productID, err)
	}
	defer drainAndClose(resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, nil
	default:
		return nil, fmt.Errorf("product client: get product %s: unexpected status %d", productID, resp.StatusCode)
	}

	var payload productPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("product client: decode product %s: %w", productID, err)
	}
	return &ports.ProductAvailability{
		ID:      payload.ID,
		Name:    payload.Name,
		InStock: payload.InStock,
		Price:   payload.Price,
	}, nil
}

// AdjustStock asks the product service to move stock by delta. The service
// answers 404 when the product is gone and 409 when the adjustment would
// push stock below zero; both map to (false, nil): a refusal, not a fault.
func (c *Client) AdjustStock(ctx context.Context, productID string, delta int) (bool, error) {
	body, err := json.Marshal(map[string]int{"delta": delta})
	if err != nil {
		return false, fmt.Errorf("product client: encode stock adjustment: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch,
		c.baseURL+"/api/products/"+productID+"/stock", bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("product client: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	reqmeta.Inject(ctx, req)

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("product client: adjust stock of %s: %w", productID, err)
	}
	defer drainAndClose(resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound, http.StatusConflict:
		return false, nil
	default:
		return false, fmt.Errorf("product client: adjust stock of %s: unexpected status %d", productID, resp.StatusCode)
	}
}

// drainAndClose lets the transport reuse the connection.
func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}
