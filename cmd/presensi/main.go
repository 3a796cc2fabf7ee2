// Entry point for the presensi command line client
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/rs/zerolog/log"
	"presensi.client/internal/api"
	"presensi.client/internal/cli"
	"presensi.client/internal/config"
	"presensi.client/internal/core"
	"presensi.client/internal/geolocation"
	"presensi.client/internal/platform"
	"presensi.client/internal/ports/messaging"
	"presensi.client/internal/ports/storage"
	"presensi.client/internal/session"
	"presensi.client/pkg/aws"
	"presensi.client/pkg/database"
	"presensi.client/pkg/logger"
	"presensi.client/pkg/telemetry"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Error().Err(err).Msg("Could not load configuration")
		return 1
	}

	// Configure structured logging
	logger.Setup(cfg.IsLocalDev)

	// Configure OpenTelemetry Tracing
	shutdownTracer, err := telemetry.InitTracer("presensi-client", cfg.TraceExporter, cfg.OTLPEndpoint)
	if err != nil {
		log.Error().Err(err).Msg("Failed to init tracer")
		return 1
	}
	defer func() {
		_ = shutdownTracer(context.Background())
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.EnrichContextWithLogger(ctx)

	runtime := platform.Static(!cfg.Headless)

	st, closeStorage, err := openStorage(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Str("backend", cfg.StateBackend).Msg("Could not open session storage")
		return 1
	}
	defer closeStorage()

	// Initialize dependencies
	sess := session.NewStore(ctx, st, runtime)
	client := api.NewClient(cfg.APIURL, sess, api.WithNavigator(cli.Navigator(os.Stderr)))
	geo := geolocation.NewStore(newLocationProvider(cfg), runtime)

	publisher, mailer, err := newNotifiers(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("unable to load SDK config")
		return 1
	}
	attendance := core.NewAttendanceService(api.NewPresensiAPI(client), geo, sess, publisher, mailer)

	app := cli.New(cli.Deps{
		Session:    sess,
		Client:     client,
		Geo:        geo,
		Attendance: attendance,
		Stderr:     os.Stderr,
	})

	if err := app.Run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if errors.Is(err, cli.ErrUsage) {
			return 2
		}
		return 1
	}
	return 0
}

// openStorage returns the configured session backend and a function that
// releases it.
func openStorage(ctx context.Context, cfg config.Config) (storage.Storage, func(), error) {
	switch cfg.StateBackend {
	case config.StateBackendMemory:
		return storage.NewMemoryStorage(), func() {}, nil
	case config.StateBackendFile:
		return storage.NewFileStorage(cfg.StateFile), func() {}, nil
	case config.StateBackendPostgres:
		db, err := database.NewInstrumentedConnection(ctx, cfg.StateDSN)
		if err != nil {
			return nil, nil, err
		}
		pg := storage.NewPostgresStorage(db, cfg.StateNamespace)
		if err := pg.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return pg, func() { db.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown state backend %q", cfg.StateBackend)
}

// newLocationProvider returns nil when no location source is configured.
func newLocationProvider(cfg config.Config) geolocation.Provider {
	switch cfg.GeoProvider {
	case config.GeoProviderStatic:
		return geolocation.NewStaticProvider(cfg.GeoLatitude, cfg.GeoLongitude, cfg.GeoAccuracy)
	case config.GeoProviderIP:
		return geolocation.NewIPProvider(cfg.GeoLookupURL)
	}
	return nil
}

// newNotifiers builds the SQS publisher and SES mailer. Either is nil when
// its destination is not configured.
func newNotifiers(ctx context.Context, cfg config.Config) (messaging.Publisher, core.EmailService, error) {
	if cfg.EventsSQSQueueURL == "" && cfg.SESSender == "" {
		return nil, nil, nil
	}

	awsCfg, err := aws.NewAWSConfig(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	var publisher messaging.Publisher
	if cfg.EventsSQSQueueURL != "" {
		publisher = messaging.NewSQSProducer(sqs.NewFromConfig(awsCfg), cfg.EventsSQSQueueURL)
	}
	var mailer core.EmailService
	if cfg.SESSender != "" {
		mailer = core.NewSESEmailService(ses.NewFromConfig(awsCfg), cfg.SESSender)
	}
	return publisher, mailer, nil
}
