package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/andresfigueroa/salescap-backend/api/routes"
	"github.com/andresfigueroa/salescap-backend/internal/pricecuts"
	"github.com/andresfigueroa/salescap-backend/internal/purchases"
	"github.com/andresfigueroa/salescap-backend/pkg/config"
	"github.com/andresfigueroa/salescap-backend/pkg/db"
	"github.com/andresfigueroa/salescap-backend/pkg/logger"
	"github.com/andresfigueroa/salescap-backend/pkg/metrics"
	"github.com/andresfigueroa/salescap-backend/pkg/migrate"
	"github.com/andresfigueroa/salescap-backend/pkg/redis"
)

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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	purchaseMetrics := metrics.NewPurchaseMetrics(registry)

	priceCutService, err := pricecuts.NewService(pricecuts.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create price cut service", err)
		os.Exit(1)
	}

	purchaseService, err := purchases.NewService(
		dbClient,
		pricecuts.NewRepository(dbClient.DB()),
		purchases.NewRepository(dbClient.DB()),
		purchaseMetrics,
		cfg.Purchase.TxTimeout,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create purchase service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, registry, priceCutService, purchaseService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
