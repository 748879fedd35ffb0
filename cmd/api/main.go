package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/madarsaconnect/madarsa-backend/api/routes"
	"github.com/madarsaconnect/madarsa-backend/internal/auth"
	"github.com/madarsaconnect/madarsa-backend/internal/changefeed"
	"github.com/madarsaconnect/madarsa-backend/internal/directory"
	"github.com/madarsaconnect/madarsa-backend/internal/geocode"
	"github.com/madarsaconnect/madarsa-backend/internal/institutions"
	"github.com/madarsaconnect/madarsa-backend/internal/media"
	"github.com/madarsaconnect/madarsa-backend/internal/ownership"
	"github.com/madarsaconnect/madarsa-backend/internal/staff"
	"github.com/madarsaconnect/madarsa-backend/internal/users"
	"github.com/madarsaconnect/madarsa-backend/pkg/auth/session"
	"github.com/madarsaconnect/madarsa-backend/pkg/config"
	"github.com/madarsaconnect/madarsa-backend/pkg/db"
	"github.com/madarsaconnect/madarsa-backend/pkg/instance"
	"github.com/madarsaconnect/madarsa-backend/pkg/logger"
	"github.com/madarsaconnect/madarsa-backend/pkg/metrics"
	"github.com/madarsaconnect/madarsa-backend/pkg/migrate"
	"github.com/madarsaconnect/madarsa-backend/pkg/pubsub"
	"github.com/madarsaconnect/madarsa-backend/pkg/redis"
	"github.com/madarsaconnect/madarsa-backend/pkg/storage/gcs"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gcsClient, err := gcs.NewClient(ctx, cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap cloud storage", err)
		os.Exit(1)
	}
	defer func() {
		if err := gcsClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing cloud storage", err)
		}
	}()

	pubsubClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap pubsub", err)
		os.Exit(1)
	}
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing pubsub", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(ctx, "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	feedMetrics := metrics.NewChangeFeedMetrics(registry)

	hub := changefeed.NewHub(feedMetrics)

	publisher, err := changefeed.NewPublisher(changefeed.PublisherParams{
		Publisher: changefeed.GCPPublisher{Publisher: pubsubClient.InstitutionPublisher()},
		Logger:    logg,
		Metrics:   feedMetrics,
	})
	if err != nil {
		logg.Error(ctx, "failed to create change publisher", err)
		os.Exit(1)
	}

	consumer, err := changefeed.NewConsumer(pubsubClient.InstitutionSubscription(), hub, logg)
	if err != nil {
		logg.Error(ctx, "failed to create change consumer", err)
		os.Exit(1)
	}
	go func() {
		if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
			logg.Error(ctx, "change consumer stopped unexpectedly", err)
		}
	}()

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(ctx, "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		TxRunner:       dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(ctx, "failed to create register service", err)
		os.Exit(1)
	}

	institutionRepo := institutions.NewRepository(dbClient.DB())

	institutionService, err := institutions.NewService(institutionRepo, publisher)
	if err != nil {
		logg.Error(ctx, "failed to create institution service", err)
		os.Exit(1)
	}

	ownershipService, err := ownership.NewService(ownership.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(ctx, "failed to create ownership service", err)
		os.Exit(1)
	}

	directoryService, err := directory.NewService(institutionRepo)
	if err != nil {
		logg.Error(ctx, "failed to create directory service", err)
		os.Exit(1)
	}

	staffRepo := staff.NewRepository(dbClient.DB())

	staffService, err := staff.NewService(staff.ServiceParams{
		TxRunner: dbClient,
		Roster:   staffRepo,
		Notifier: publisher,
	})
	if err != nil {
		logg.Error(ctx, "failed to create staff service", err)
		os.Exit(1)
	}

	mediaService, err := media.NewService(media.ServiceParams{
		Repo:     institutionRepo,
		Staff:    staffRepo,
		Store:    gcsClient,
		Notifier: publisher,
		Media:    cfg.Media,
	})
	if err != nil {
		logg.Error(ctx, "failed to create media service", err)
		os.Exit(1)
	}

	geocodeClient := geocode.NewClient(cfg.Geocode)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	startCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})
	logg.Info(startCtx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			gcsClient,
			pubsubClient,
			sessionManager,
			authService,
			registerService,
			institutionService,
			ownershipService,
			directoryService,
			staffService,
			mediaService,
			geocodeClient,
			hub,
			registry,
		),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(startCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(startCtx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(startCtx, "graceful shutdown failed", err)
		}
	}
}
