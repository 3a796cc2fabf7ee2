// In-memory presensi API for local development
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"presensi.client/internal/config"
	"presensi.client/internal/core/model"
	"presensi.client/internal/mockapi"
	"presensi.client/pkg/logger"
	"presensi.client/pkg/telemetry"
)

// Accounts available right after start-up.
var seedUsers = []struct {
	email, password, nama string
	role                  model.Role
}{
	{"admin@presensi.local", "admin123", "Administrator", model.RoleAdmin},
	{"budi@presensi.local", "budi123", "Budi Santoso", model.RoleEmployee},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Could not load configuration")
	}

	logger.Setup(cfg.IsLocalDev)

	shutdownTracer, err := telemetry.InitTracer("presensi-api-mock", cfg.TraceExporter, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to init tracer")
	}
	defer func() {
		_ = shutdownTracer(context.Background())
	}()

	server := mockapi.NewServer(cfg.MockJWTSecret)
	for _, u := range seedUsers {
		if _, err := server.SeedUser(u.email, u.password, u.nama, u.role); err != nil {
			log.Fatal().Err(err).Str("email", u.email).Msg("Failed to seed user")
		}
		log.Info().Str("email", u.email).Str("role", string(u.role)).Msg("Seeded user")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.MockPort,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.MockPort).Msg("Mock API starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
