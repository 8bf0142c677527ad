package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/participant-service/internal/api/http"
	"github.com/spec-kit/participant-service/internal/api/http/handlers"
	"github.com/spec-kit/participant-service/internal/config"
	"github.com/spec-kit/participant-service/internal/events"
	"github.com/spec-kit/participant-service/internal/observability"
	"github.com/spec-kit/participant-service/internal/persistence"
	"github.com/spec-kit/participant-service/internal/repository"
	"github.com/spec-kit/participant-service/internal/service"
	"github.com/spec-kit/participant-service/internal/worker"
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

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	dispatcher := events.NewInMemoryDispatcher()

	participantRepo := repository.NewParticipantRepository(redis.Client)
	participantService := service.NewParticipantService(service.ParticipantDependencies{
		ParticipantRepo: participantRepo,
		Dispatcher:      dispatcher,
		ListFanoutLimit: cfg.Service.ListFanoutLimit,
	})

	var historyRepo repository.ParticipantHistoryRepository
	if pool := pg.PoolHandle(); pool != nil {
		historyRepo = repository.NewParticipantHistoryRepository(pool)
	}
	auditService := service.NewAuditService(dispatcher, historyRepo, logger)
	worker.StartAuditWorker(auditService)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, redis, pg)
	participantsHandler := handlers.NewParticipantsHandler(participantService, auditService)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:       healthHandler,
		Participants: participantsHandler,
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
