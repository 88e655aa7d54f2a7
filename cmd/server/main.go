package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/airecipes/backend/config"
	httpDelivery "github.com/airecipes/backend/internal/delivery/http"
	"github.com/airecipes/backend/internal/domain"
	"github.com/airecipes/backend/internal/infrastructure/cache"
	"github.com/airecipes/backend/internal/infrastructure/database"
	"github.com/airecipes/backend/internal/infrastructure/openfoodfacts"
	"github.com/airecipes/backend/internal/infrastructure/redisstore"
	"github.com/airecipes/backend/internal/logger"
	"github.com/airecipes/backend/internal/usecase"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Logger().Error("server exited with error", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

// app holds the wired dependencies and everything that must be closed on shutdown
type app struct {
	handler *httpDelivery.Handler
	closers []func() error
}

func (a *app) Close() error {
	var err error
	for i := len(a.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, a.closers[i]())
	}
	return err
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logger.WithModule("server")
	log.Info("starting AIRecipes backend",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("database", cfg.Database.Driver),
		zap.String("cache", cfg.Cache.Type),
	)

	a, err := build(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Warn("error while closing resources", zap.Error(err))
		}
	}()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      httpDelivery.SetupRouter(cfg, a.handler),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", zap.Duration("timeout", cfg.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

// build wires storage, the origin client, services and the HTTP handler
func build(cfg *config.Config) (*app, error) {
	log := logger.WithModule("server")
	a := &app{}

	db, err := database.Open(database.Config{
		Driver:   cfg.Database.Driver,
		Path:     cfg.Database.Path,
		DSN:      cfg.Database.DSN,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Name:     cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	a.closers = append(a.closers, func() error { return database.Close(db) })

	if err := database.AutoMigrate(db); err != nil {
		return nil, multierr.Append(err, a.Close())
	}

	readiness := map[string]httpDelivery.ReadinessCheck{
		"database": func(ctx context.Context) error { return database.Ping(ctx, db) },
	}

	store, err := buildProductStore(cfg, db, a, readiness)
	if err != nil {
		return nil, multierr.Append(err, a.Close())
	}

	client := openfoodfacts.NewClient(openfoodfacts.Config{
		BaseURL:          cfg.OpenFoodFacts.BaseURL,
		SearchURL:        cfg.OpenFoodFacts.SearchURL,
		UserAgent:        cfg.OpenFoodFacts.UserAgent,
		Timeout:          cfg.OpenFoodFacts.Timeout,
		MaxRetries:       cfg.OpenFoodFacts.MaxRetries,
		ProductPerMinute: cfg.RateLimit.ProductPerMinute,
		SearchPerMinute:  cfg.RateLimit.SearchPerMinute,
	})
	if cfg.Server.Environment == "development" {
		client.SetDebug(true)
		log.Info("open food facts client debug mode enabled")
	}

	products := usecase.NewProductService(store, client, usecase.ProductServiceConfig{
		SingleFlight: cfg.Lookup.SingleFlight,
	})
	profileStore := database.NewProfileStore(db)

	a.handler = httpDelivery.NewHandler(
		products,
		usecase.NewProfileService(profileStore),
		usecase.NewAnalysisService(profileStore, products),
		readiness,
	)
	return a, nil
}

// buildProductStore selects the product cache backend named by cache.type
func buildProductStore(
	cfg *config.Config,
	db *gorm.DB,
	a *app,
	readiness map[string]httpDelivery.ReadinessCheck,
) (domain.ProductCacheStore, error) {
	switch cfg.Cache.Type {
	case "memory":
		return cache.NewMemoryStore(), nil
	case "redis":
		rdb, err := redisstore.NewClient(cfg.Cache.RedisURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rdb.Close)
		readiness["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		return redisstore.NewProductStore(rdb, cfg.Cache.RedisPrefix), nil
	default:
		return database.NewProductStore(db), nil
	}
}
