package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/storefront-checkout/api/middleware"
	"github.com/angelmondragon/storefront-checkout/api/routes"
	"github.com/angelmondragon/storefront-checkout/internal/address"
	"github.com/angelmondragon/storefront-checkout/internal/cart"
	"github.com/angelmondragon/storefront-checkout/internal/catalog"
	checkoutsvc "github.com/angelmondragon/storefront-checkout/internal/checkout"
	"github.com/angelmondragon/storefront-checkout/internal/orders"
	"github.com/angelmondragon/storefront-checkout/internal/shipping"
	"github.com/angelmondragon/storefront-checkout/pkg/config"
	"github.com/angelmondragon/storefront-checkout/pkg/db"
	"github.com/angelmondragon/storefront-checkout/pkg/firebase"
	"github.com/angelmondragon/storefront-checkout/pkg/logger"
	"github.com/angelmondragon/storefront-checkout/pkg/metrics"
	"github.com/angelmondragon/storefront-checkout/pkg/migrate"
	"github.com/angelmondragon/storefront-checkout/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		_ = dbClient.Close()
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		_ = dbClient.Close()
		os.Exit(1)
	}

	closeAll := func() {
		if err := multierr.Combine(redisClient.Close(), dbClient.Close()); err != nil {
			logg.Error(context.Background(), "error closing dependencies", err)
		}
	}

	var verifier middleware.TokenVerifier
	if v, err := firebase.New(ctx, cfg.Firebase, logg); err != nil {
		logg.Warn(logg.WithField(ctx, "error", err.Error()), "firebase verifier disabled, signed-in requests will be rejected")
	} else {
		verifier = v
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	catalogSvc := catalog.NewService(catalog.NewRepository(dbClient.DB()))
	cartStore := cart.NewStore(redisClient, cfg.Checkout.CartTTL)
	cartSvc := cart.NewService(cartStore, catalogSvc)
	addressSvc := address.NewService(address.NewRepository(dbClient.DB()))
	shippingProvider := shipping.NewCachedProvider(shipping.NewRepository(dbClient.DB()), cfg.Shipping.CacheTTL, checkoutMetrics)

	ordersClient, err := orders.NewClient(cfg.Orders.BaseURL, orders.WithTimeout(cfg.Orders.Timeout))
	if err != nil {
		logg.Error(ctx, "failed to create order api client", err)
		closeAll()
		os.Exit(1)
	}

	workflow, err := checkoutsvc.NewWorkflow(checkoutsvc.WorkflowDeps{
		Orders:   ordersClient,
		Carts:    cartStore,
		Locks:    redisClient,
		Observer: checkoutsvc.NewObserver(logg, checkoutMetrics),
		Logger:   logg,
	}, checkoutsvc.WorkflowConfig{
		ConfirmDelay:    cfg.Checkout.ConfirmDelay,
		InFlightTTL:     cfg.Checkout.InFlightTTL,
		SuccessPath:     cfg.Checkout.SuccessPath,
		FallbackCountry: cfg.Checkout.FallbackCountry,
	})
	if err != nil {
		logg.Error(ctx, "failed to create submission workflow", err)
		closeAll()
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(checkoutsvc.ServiceDeps{
		Carts:     cartStore,
		Catalog:   catalogSvc,
		Shipping:  shippingProvider,
		Addresses: addressSvc,
		Workflow:  workflow,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create checkout service", err)
		closeAll()
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	serverCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Deps{
			DB:          dbClient,
			Redis:       redisClient,
			Verifier:    verifier,
			HTTPMetrics: httpMetrics,
			Gatherer:    registry,
			Catalog:     catalogSvc,
			Cart:        cartSvc,
			Shipping:    shippingProvider,
			Addresses:   addressSvc,
			Checkout:    checkoutService,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(serverCtx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	exitCode := 0
	select {
	case err := <-serveErr:
		if err != nil {
			logg.Error(serverCtx, "api server stopped unexpectedly", err)
			exitCode = 1
		}
	case <-ctx.Done():
		logg.Info(serverCtx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(serverCtx, "graceful shutdown failed", err)
			exitCode = 1
		}
		cancel()
	}

	closeAll()
	os.Exit(exitCode)
}
