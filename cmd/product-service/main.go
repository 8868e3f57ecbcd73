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

	"github.com/quickcart/ecommerce-orders/internal/pkg/telemetry"
	"github.com/quickcart/ecommerce-orders/internal/product-service/app"
	"github.com/quickcart/ecommerce-orders/internal/product-service/infra/httpx"
	productsqlite "github.com/quickcart/ecommerce-orders/internal/product-service/infra/sqlite"
)

func main() {
	telemetry.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.SetupTracer(ctx, getEnv("OTEL_SERVICE_NAME", "product-service"))
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

	dbPath := getEnv("PRODUCT_DB_PATH", "./data/products.db")

	products, err := productsqlite.Open(dbPath)
	if err != nil {
		slog.Error("failed to open product store", "path", dbPath, "error", err)
		os.Exit(1)
	}
	defer products.Close()

	service := app.NewProductService(products)
	router := httpx.NewRouter(httpx.NewHandler(service))

	addr := ":" + getEnv("PORT", "8081")
	server := &http.Server{
		Addr:    addr,
		Handler: otelhttp.NewHandler(router, "product-service"),
	}

	go func() {
		slog.Info("product service running", "addr", addr)
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
