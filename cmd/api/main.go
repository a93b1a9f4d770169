package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storescout_backend/internal/events"
	"storescout_backend/internal/geocoding"
	apphttp "storescout_backend/internal/http"
	"storescout_backend/internal/http/router"
	"storescout_backend/internal/listings"
	"storescout_backend/internal/listings/domain"
	"storescout_backend/platform/config"
	"storescout_backend/platform/db"
	"storescout_backend/platform/logger"
	"storescout_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	if err := domain.LoadTaxonomy(cfg.GetTaxonomyFile()); err != nil {
		log.Error("failed to load category taxonomy", "error", err)
		panic("failed to load category taxonomy: " + err.Error())
	}

	eventBus := events.NewInMemoryBus(log)
	events.RegisterAuditLog(eventBus, log)
	val := validator.New()

	geocodeCache := newGeocodeCache(cfg, log)
	if geocodeCache != nil {
		defer func() { _ = geocodeCache.Close() }()
	}
	geocoder := geocoding.NewService(cfg, geocodeCache, log)

	listingsModule := listings.NewModule(pool, eventBus, geocoder, val, cfg, log)
	geocodingModule := geocoding.NewModule(geocoder)

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Health: db.NewPoolAdapter(pool),
		Modules: []apphttp.Module{
			listingsModule,
			geocodingModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// newGeocodeCache returns a Redis client when configured, nil otherwise.
// The geocoder works without a cache; every lookup then hits the upstream.
func newGeocodeCache(cfg *config.Config, log *logger.Logger) *redis.Client {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Warn("invalid redis url, geocode cache disabled", "error", err)
		return nil
	}
	return redis.NewClient(opt)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
