package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/accesskit/identity-service/internal/api"
	"github.com/accesskit/identity-service/internal/core/service"
	"github.com/accesskit/identity-service/internal/infrastructure/config"
	"github.com/accesskit/identity-service/internal/infrastructure/db/postgres"
	redisinfra "github.com/accesskit/identity-service/internal/infrastructure/db/redis"
	"github.com/accesskit/identity-service/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fallback := logger.New(logger.Options{})
		fallback.Fatal().Err(err).Msg("load configuration")
	}

	log := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
	})

	tokens, err := service.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("configure token issuer")
	}

	pool, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN})
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	// Redis only backs login throttling and the readiness probe; the service
	// starts without it and the limiter fails open.
	rdb, err := redisinfra.Connect(ctx, redisinfra.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, login throttling disabled")
	} else {
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Warn().Err(err).Msg("close redis")
			}
		}()
	}

	e := api.NewRouter(cfg, pool, rdb, tokens, log)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown")
		os.Exit(1)
	}
	log.Info().Msg("server stopped cleanly")
}
