package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/factoryhq/console/internal/api"
	"github.com/factoryhq/console/internal/core/ports"
	"github.com/factoryhq/console/internal/core/service"
	"github.com/factoryhq/console/internal/infrastructure/backend"
	"github.com/factoryhq/console/internal/infrastructure/config"
	filestore "github.com/factoryhq/console/internal/infrastructure/store/file"
	memorystore "github.com/factoryhq/console/internal/infrastructure/store/memory"
	mongostore "github.com/factoryhq/console/internal/infrastructure/store/mongo"
	redisstore "github.com/factoryhq/console/internal/infrastructure/store/redis"
	"github.com/factoryhq/console/internal/notify"
	"github.com/factoryhq/console/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.CookieSecret == "" {
		if cfg.Env != "development" {
			log.Fatal().Msg("COOKIE_SECRET is required outside development")
		}
		cfg.CookieSecret = "dev-only-cookie-secret"
		log.Warn().Msg("COOKIE_SECRET not set; using development default")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, cleanup := buildStore(ctx, cfg, log)
	defer cleanup()

	dispatcher := notify.NewDispatcher(log, notify.LogSink{Log: log})
	dispatcher.Start(ctx)

	upstream := backend.NewClient(cfg.APIBaseURL, log)
	manager := service.NewSessionManager(store, upstream, dispatcher, log)
	manager.Initialize(ctx)

	e := api.NewRouter(api.RouterConfig{
		CookieSecret: cfg.CookieSecret,
		SessionTTL:   cfg.SessionTTL,
	}, manager, upstream, store, log)

	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("store", cfg.SessionStore).
			Str("api_base_url", cfg.APIBaseURL).
			Msg("factory console listening")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// buildStore wires the session store selected by SESSION_STORE. Connection
// failures are fatal here: unlike a missing session, a console that was
// asked for redis and cannot reach it is misconfigured.
func buildStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.SessionStore, func()) {
	switch cfg.SessionStore {
	case "redis":
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		return redisstore.NewStore(client, cfg.SessionTTL), func() { _ = client.Close() }
	case "mongo":
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("mongo connection failed")
		}
		return mongostore.NewStore(db), func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(disconnectCtx)
		}
	case "file":
		return filestore.NewStore(cfg.StateDir), func() {}
	case "memory":
		return memorystore.NewStore(), func() {}
	default:
		log.Fatal().Str("store", cfg.SessionStore).Msg("unknown SESSION_STORE")
		return nil, nil
	}
}
