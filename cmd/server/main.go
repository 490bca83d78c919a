// @title                      Property back-office API
// @version                    1.0
// @description                Sales, property availability and credential management.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
package main

//go:generate swag init -d ../.. -g cmd/server/main.go -o ../../docs --parseInternal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	_ "github.com/propertyhub/backoffice/docs"
	"github.com/propertyhub/backoffice/internal/api"
	"github.com/propertyhub/backoffice/internal/api/handler"
	"github.com/propertyhub/backoffice/internal/core/service"
	mongostore "github.com/propertyhub/backoffice/internal/infrastructure/db/mongo"
	"github.com/propertyhub/backoffice/internal/infrastructure/db/postgres"
	redisstore "github.com/propertyhub/backoffice/internal/infrastructure/db/redis"
	"github.com/propertyhub/backoffice/internal/infrastructure/queue"
	"github.com/propertyhub/backoffice/internal/pkg/config"
	"github.com/propertyhub/backoffice/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "backoffice",
	})
	if envErr != nil {
		log.Debug().Msg("no .env file found; relying on existing environment")
	}

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Storage ---
	pool, err := postgres.Connect(ctx, postgres.Config{URL: cfg.Postgres.URL, MaxConns: cfg.Postgres.MaxConns})
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		return err
	}
	store := postgres.NewStore(pool, log)

	mongoClient, mongoDB, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		dctx, dcancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer dcancel()
		_ = mongoClient.Disconnect(dctx)
	}()
	if err := mongostore.EnsureIndexes(ctx, mongoDB); err != nil {
		return err
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	// --- Audit trail ---
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, mongostore.NewSaleEventRepository(mongoDB), log)
	dispatcher.Start(ctx)

	// --- Services ---
	creds := mongostore.NewCredentialRepository(mongoDB)
	tokens := service.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenTTL)
	authService := service.NewAuthService(creds, tokens, cfg.Auth.BcryptCost, log)
	if b := cfg.Auth.Bootstrap; b.Enabled() {
		if err := authService.EnsureAdmin(ctx, b.IdentityKey, b.Handle, b.Password); err != nil {
			return fmt.Errorf("bootstrap administrator: %w", err)
		}
	}
	saleService := service.NewSaleService(store, store, dispatcher,
		redisstore.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL), log)
	propertyService := service.NewPropertyService(store, store, store, log)

	e := api.NewRouter(api.Deps{
		Log:        log,
		Auth:       authService,
		Sales:      saleService,
		Properties: propertyService,
		Tokens:     tokens,
		Creds:      creds,
		Checks: map[string]handler.PingFunc{
			"postgres": store.Ping,
			"mongodb":  mongostore.Ping(mongoClient),
			"redis":    redisstore.Ping(rdb),
		},
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-errCh:
		return err
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
	}

	// Queued audit events are flushed before the stores close.
	dispatcher.Close()
	done := make(chan struct{})
	go func() {
		dispatcher.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-shutdownCtx.Done():
		log.Warn().Msg("audit queue not drained before shutdown deadline")
		cancel()
	}
	return nil
}
