package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-backend/internal/auth"
	"storefront-backend/internal/cache"
	"storefront-backend/internal/checkout"
	"storefront-backend/internal/config"
	"storefront-backend/internal/metrics"
	"storefront-backend/internal/receipt"
	"storefront-backend/internal/repository"
	"storefront-backend/internal/server"
	"storefront-backend/internal/service"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("storefront backend failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := repository.ApplySchema(ctx, pool); err != nil {
		return err
	}

	products := repository.NewProduct(pool)
	carts := repository.NewCart(pool)
	wishlists := repository.NewWishlist(pool)
	addresses := repository.NewAddress(pool)
	orders := repository.NewOrder(pool)

	var catalogCache cache.Cache
	if cfg.RedisAddr != "" {
		catalogCache = cache.NewRedisCache(cfg.RedisAddr, "storefront")
	}

	receipts, err := receipt.NewEngine()
	if err != nil {
		return err
	}

	catalogSvc := service.NewCatalog(products, catalogCache, cfg.CatalogCacheTTL, logger)
	cartSvc := service.NewCart(carts, products, logger)
	wishlistSvc := service.NewWishlist(wishlists, products, logger)
	addressSvc := service.NewAddress(addresses, logger)
	checkoutSvc := service.NewCheckout(carts, addresses, products, orders,
		checkout.NewRunner(logger), receipts, logger)
	orderSvc := service.NewOrders(orders, logger)

	go catalogSvc.RunRefresher(ctx, cfg.CatalogRefreshInterval)

	m := metrics.NewServerMetrics("api")
	verifier := auth.NewVerifier(cfg.JWTSecret)

	handler := server.NewHandler(catalogSvc, cartSvc, wishlistSvc, addressSvc, checkoutSvc, orderSvc, m)
	router := server.NewRouter(handler, verifier, m, cfg.CORSOrigins)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
