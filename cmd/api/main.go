package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/api/dto"
	httptransport "github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/api/http"
	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/api/http/handlers"
	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/auth"
	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/config"
	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/events"
	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/observability"
	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/persistence"
	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/repository"
	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/service"
	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/worker"
)

const shutdownTimeout = 10 * time.Second

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

	loc, err := cfg.Schedule.Location()
	if err != nil {
		logger.Fatal("invalid schedule timezone", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()
	if pg.PoolHandle() == nil {
		logger.Fatal("POSTGRES_DSN or DATABASE_URL is required")
	}

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)

	pool := pg.PoolHandle()
	repos := repository.NewRepositories(pool)
	transactor := repository.NewTransactor(pool, logger)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		Repos:      repos,
		Transactor: transactor,
		Throttle:   repository.NewRedisResetThrottle(redis.Client, cfg.Auth.ResetThrottle()),
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	schedulingService := service.NewSchedulingService(service.SchedulingDependencies{
		Repos:      repos,
		Transactor: transactor,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	shiftService := service.NewShiftService(repos, logger)
	summaryService := service.NewSummaryService(repos, loc)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification, nil)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager())
	validate := dto.NewValidator()

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService, validate),
		Users:          handlers.NewUsersHandler(authService, summaryService),
		Shifts:         handlers.NewShiftsHandler(shiftService, validate),
		Requests:       handlers.NewRequestsHandler(schedulingService, validate),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics,
	})

	go func() {
		logger.Info("http server starting",
			zap.String("addr", cfg.App.Addr()),
			zap.String("env", cfg.App.Env),
			zap.String("schedule_timezone", loc.String()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	notificationService.Wait()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
