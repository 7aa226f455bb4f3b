// Command stubapi runs the in-memory factory platform stub, seeded with a
// superadmin account, for local console development.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/factoryhq/console/internal/stubapi"
	"github.com/factoryhq/console/pkg/logger"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	log := logger.Init(logger.Options{Level: envOr("LOG_LEVEL", "info"), Pretty: true})

	port := envOr("STUB_PORT", "3001")
	email := envOr("STUB_SUPERADMIN_EMAIL", "root@factoryhq.dev")
	password := envOr("STUB_SUPERADMIN_PASSWORD", "superadmin")

	srv := stubapi.New(envOr("STUB_TOKEN_SECRET", "stub-secret"))
	if _, err := srv.SeedSuperadmin(email, password, "Platform Operator"); err != nil {
		log.Fatal().Err(err).Msg("seeding superadmin failed")
	}

	httpSrv := &http.Server{Addr: ":" + port, Handler: srv.Handler()}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("port", port).Str("superadmin", email).Msg("stub platform listening")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(shutdownCtx)
}
