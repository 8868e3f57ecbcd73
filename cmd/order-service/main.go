package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/quickcart/ecommerce-orders/internal/order-service/app"
	"github.com/quickcart/ecommerce-orders/internal/order-service/infra/adapters/product"
	"github.com/quickcart/ecommerce-orders/internal/order-service/infra/httpx"
	ordersqlite "github.com/quickcart/ecommerce-orders/internal/order-service/infra/sqlite"
	stocklogsqlite "github.com/quickcart/ecommerce-orders/internal/order-service/stocklog/sqlite"
	"github.com/quickcart/ecommerce-orders/internal/pkg/cache"
	"github.com/quickcart/ecommerce-orders/internal/pkg/telemetry"
)

func main() {
	telemetry.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.SetupTracer(ctx, getEnv("OTEL_SERVICE_NAME", "order-service"))
	if err != nil {
		slog.Error("failed to initialise tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	dbPath := getEnv("ORDER_DB_PATH", "./data/orders.db")

	orders, err := ordersqlite.Open(dbPath)
	if err != nil {
		slog.Error("failed to open order store", "path", dbPath, "error", err)
		os.Exit(1)
	}
	defer orders.Close()

	adjustments, err := stocklogsqlite.Open(dbPath)
	if err != nil {
		slog.Error("failed to open stock log", "path", dbPath, "error", err)
		os.Exit(1)
	}
	defer adjustments.Close()

	// Idempotent creation is optional: without redis every request is new.
	var idem cache.Cache
	if redisAddr := getEnv("REDIS_ADDR", ""); redisAddr != "" {
		idem = cache.NewRedisCache(redisAddr, "order")
	}

	products := product.NewClient(getEnv("PRODUCT_SERVICE_URL", "http://localhost:8081"))

	service := app.NewOrderService(orders, products, adjustments, idem)
	router := httpx.NewRouter(httpx.NewHandler(service))

	addr := ":" + getEnv("PORT", "8080")
	server := &http.Server{
		Addr:    addr,
		Handler: otelhttp.NewHandler(router, "order-service"),
	}

	go func() {
		slog.Info("order service running", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
