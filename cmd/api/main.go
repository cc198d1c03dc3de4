package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/praveen037/agriconnect/api/controllers"
	"github.com/praveen037/agriconnect/api/routes"
	"github.com/praveen037/agriconnect/internal/approvals"
	cartsvc "github.com/praveen037/agriconnect/internal/cart"
	checkoutsvc "github.com/praveen037/agriconnect/internal/checkout"
	"github.com/praveen037/agriconnect/internal/catalog"
	"github.com/praveen037/agriconnect/internal/experts"
	"github.com/praveen037/agriconnect/internal/orders"
	"github.com/praveen037/agriconnect/internal/session"
	"github.com/praveen037/agriconnect/internal/vendors"
	"github.com/praveen037/agriconnect/pkg/config"
	"github.com/praveen037/agriconnect/pkg/db"
	"github.com/praveen037/agriconnect/pkg/logger"
	"github.com/praveen037/agriconnect/pkg/metrics"
	"github.com/praveen037/agriconnect/pkg/migrate"
	"github.com/praveen037/agriconnect/pkg/redis"
	"github.com/praveen037/agriconnect/pkg/upstream"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "agriconnect-gateway"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "agriconnect-gateway",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	if err := migrate.Run(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	upstreamClient, err := upstream.New(cfg.Upstream, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build upstream client", err)
		os.Exit(1)
	}

	sessions, err := session.NewStore(redisClient, cfg.Session)
	if err != nil {
		logg.Error(context.Background(), "failed to build session store", err)
		os.Exit(1)
	}
	carts, err := cartsvc.NewStore(redisClient, cfg.Cart)
	if err != nil {
		logg.Error(context.Background(), "failed to build cart store", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	ordersRepo := orders.NewRepository(dbClient.DB())
	ordersService := orders.NewService(upstreamClient, ordersRepo, logg)
	catalogService := catalog.NewService(upstreamClient, redisClient, cfg.Catalog, logg)
	expertsService := experts.NewService(upstreamClient)
	vendorsService := vendors.NewService(upstreamClient, catalogService)
	adminService := approvals.NewService(upstreamClient)

	orchestrator := checkoutsvc.NewOrchestrator(
		sessions,
		carts,
		upstreamClient,
		ordersRepo,
		cfg.Checkout,
		cfg.Razorpay,
		checkoutMetrics,
		logg,
	)

	handler := routes.NewRouter(routes.Deps{
		Cfg:      cfg,
		Logg:     logg,
		Upstream: upstreamClient,
		Sessions: sessions,
		Carts:    carts,
		Checkout: orchestrator,
		Catalog:  catalogService,
		Orders:   ordersService,
		Experts:  expertsService,
		Vendors:  vendorsService,
		Admin:    adminService,
		Registry: registry,
		Probes: map[string]controllers.Pinger{
			"database": dbClient,
			"redis":    redisClient,
		},
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting gateway server")

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logg.Error(ctx, "gateway server stopped unexpectedly", err)
		os.Exit(1)
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	err = multierr.Append(err, redisClient.Close())
	err = multierr.Append(err, dbClient.Close())
	if err != nil {
		logg.Error(ctx, "shutdown finished with errors", err)
		os.Exit(1)
	}
	logg.Info(ctx, "shutdown complete")
}
