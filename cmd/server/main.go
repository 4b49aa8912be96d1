package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/devlinb/EscapeRoom/internal/api"
	"github.com/devlinb/EscapeRoom/internal/config"
	"github.com/devlinb/EscapeRoom/internal/escaperoom"
	"github.com/devlinb/EscapeRoom/internal/store"
)

func main() {
	// Initialize logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	}

	ctx := context.Background()

	ds, redisClient, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("store connection failed")
	}
	defer ds.Close()

	svc, err := escaperoom.NewService(store.Instrument(ds), cfg.Salt, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("service setup failed")
	}

	// Create router
	router := api.NewRouter(logger, cfg, svc, ds, redisClient)

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Str("base_path", cfg.BasePath).
			Str("backend", ds.Backend()).
			Msg("starting escape room server")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")

	// Graceful shutdown with 30 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server stopped")
}

// openStore connects the configured backend. The Redis client is returned
// for the rate limiter when the backend is Redis, nil otherwise.
func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (store.DocumentStore, *redis.Client, error) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		rs, err := store.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info().Msg("connected to Redis")
		return rs, rs.Client(), nil

	case config.BackendPostgres:
		pg, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info().Msg("running database migrations...")
		if err := pg.Migrate(ctx); err != nil {
			pg.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Info().Msg("connected to PostgreSQL")
		return pg, nil, nil

	case config.BackendSQLite:
		sq, err := store.NewSQLiteStore(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info().Str("path", cfg.SQLitePath).Msg("opened SQLite database")
		return sq, nil, nil

	case config.BackendMemory:
		logger.Warn().Msg("using in-memory store, data is lost on restart")
		return store.NewMemoryStore(), nil, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
