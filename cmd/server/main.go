package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Simplici0/costeo/internal/cache"
	"github.com/Simplici0/costeo/internal/config"
	"github.com/Simplici0/costeo/internal/db"
	"github.com/Simplici0/costeo/internal/logger"
	"github.com/Simplici0/costeo/internal/migrations"
	"github.com/Simplici0/costeo/internal/seed"
	"github.com/Simplici0/costeo/internal/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	lc := logger.DefaultConfig()
	lc.Level = cfg.LogLevel
	lc.Format = cfg.LogFormat
	if err := logger.Setup(lc); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize logger")
	}
	l := logger.WithComponent("server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.OpenContext(ctx, cfg.DBPath)
	if err != nil {
		l.Fatal().Err(err).Msg("failed to open database")
	}
	defer database.Close()

	if cfg.IsDev() {
		applied, err := migrations.Up(ctx, database)
		if err != nil {
			l.Fatal().Err(err).Msg("failed to run database migrations")
		}
		l.Info().Int("applied", applied).Msg("migrations up to date")
	}

	stats, err := seed.Run(ctx, database, seed.Config{Ingredients: cfg.SeedIngredients})
	if err != nil {
		l.Fatal().Err(err).Msg("failed to seed database")
	}
	l.Info().Int("inserts", stats.Inserts).Msg("seed complete")

	var rdb *redis.Client
	if cfg.CacheEnabled() {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
	}
	reportCache := cache.New(rdb, cfg.CacheTTL, logger.WithComponent("cache"))
	if err := reportCache.Ping(ctx); err != nil {
		l.Warn().Err(err).Msg("redis unavailable, reports will be rebuilt on every request")
	}

	srv := newServer(store.New(database), reportCache, l)

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.routes(cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		l.Info().Str("addr", cfg.Addr()).Str("env", cfg.AppEnv).Bool("cache", reportCache.Enabled()).Msg("listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	l.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		l.Error().Err(err).Msg("graceful shutdown failed")
	}
}
