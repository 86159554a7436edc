package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	httptransport "github.com/civicflo/report-service/internal/api/http"
	"github.com/civicflo/report-service/internal/api/http/handlers"
	"github.com/civicflo/report-service/internal/classifier"
	"github.com/civicflo/report-service/internal/config"
	"github.com/civicflo/report-service/internal/events"
	"github.com/civicflo/report-service/internal/observability"
	"github.com/civicflo/report-service/internal/persistence"
	"github.com/civicflo/report-service/internal/repository"
	"github.com/civicflo/report-service/internal/service"
	"github.com/civicflo/report-service/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	// Durable storage is best effort at startup: a missing or unreachable
	// database drops the process into volatile in-memory mode rather than
	// killing it. Reports stay ingestible either way.
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Warn("postgres unavailable; starting in volatile in-memory mode, data will be lost on restart",
			zap.Error(err))
		pg = &persistence.Postgres{}
	}
	defer pg.Close()

	var store repository.TicketStore
	if pool := pg.PoolHandle(); pool != nil {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pool, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		store = repository.NewPostgresStore(pool)
	} else {
		store = repository.NewMemoryStore()
	}
	logger.Info("ticket store selected", zap.String("backend", store.Name()))

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	uploads, err := storage.NewUploadSaver(cfg.Uploads.Dir)
	if err != nil {
		logger.Fatal("failed to init upload storage", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	vision := classifier.NewClient(cfg.Classifier, logger, metrics)

	ingestService := service.NewIngestService(service.IngestDependencies{
		Store:      store,
		Classifier: vision,
		Dispatcher: dispatcher,
		Logger:     logger,
		Metrics:    metrics,
	}, cfg.Ingest.DedupRadiusMeters)
	workflowService := service.NewWorkflowService(store, dispatcher, logger, cfg.Workflow.FixedRewardPoints)
	queryService := service.NewQueryService(store, redis, cfg.Redis.CacheTTL(), logger)
	queryService.RegisterInvalidation(dispatcher)
	seedService := service.NewSeedService(store, logger)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notify)
	notificationService.RegisterHandlers()

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: 20 * 1024 * 1024,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, store.Name(), pg, redis)
	reportsHandler := handlers.NewReportsHandler(ingestService, vision, uploads)
	ticketsHandler := handlers.NewTicketsHandler(queryService, workflowService, seedService, uploads)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:     healthHandler,
		Reports:    reportsHandler,
		Tickets:    ticketsHandler,
		Registry:   registry,
		UploadsDir: uploads.Dir(),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
