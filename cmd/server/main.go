package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/priceworth/storefront-api/internal/api"
	"github.com/priceworth/storefront-api/internal/core/service"
	"github.com/priceworth/storefront-api/internal/infrastructure/config"
	mongodb "github.com/priceworth/storefront-api/internal/infrastructure/db/mongo"
	redisdb "github.com/priceworth/storefront-api/internal/infrastructure/db/redis"
	"github.com/priceworth/storefront-api/internal/infrastructure/queue"
	"github.com/priceworth/storefront-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title Storefront API
// @version 1.0
// @description Role-priced storefront: catalog, cart, sessions, analytics.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongo disconnect failed")
		}
	}()

	redisClient, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer redisClient.Close()

	// --- Repositories ---
	catalogRepo := mongodb.NewCatalogRepository(db)
	authRepo := mongodb.NewAuthRepository(db)
	analyticsRepo := mongodb.NewAnalyticsRepository(db)
	cartStore := redisdb.NewCartStore(redisClient)
	checkoutGuard := redisdb.NewCheckoutGuard(redisClient)

	if err := catalogRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("catalog index creation failed")
	}
	if err := authRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user index creation failed")
	}

	// --- Services ---
	analyticsService := service.NewAnalyticsService(analyticsRepo, log)
	dispatcher := queue.NewDispatcher(cfg.AnalyticsWorkers, analyticsService, log)
	dispatcher.Start(ctx)

	catalogService := service.NewCatalogService(catalogRepo, log)
	cartService := service.NewCartService(cartStore, checkoutGuard, dispatcher, cfg.CheckoutDelay, log)
	authService := service.NewAuthService(authRepo, dispatcher, cfg.JWTSecret, 0)

	if err := service.SeedDemoData(ctx, catalogRepo, authRepo, log); err != nil {
		log.Warn().Err(err).Msg("demo data seeding failed")
	}

	// --- HTTP ---
	e := api.NewRouter(api.Dependencies{
		Catalog:   catalogService,
		Cart:      cartService,
		Auth:      authService,
		Analytics: analyticsService,
		Recorder:  dispatcher,
		Mongo:     db,
		Redis:     redisClient,
		JWTSecret: cfg.JWTSecret,
		Logger:    log,
	})

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
