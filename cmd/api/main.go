package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	api "github.com/support-hub/helpdesk/internal/api/http"
	"github.com/support-hub/helpdesk/internal/api/http/handlers"
	"github.com/support-hub/helpdesk/internal/auth"
	"github.com/support-hub/helpdesk/internal/cache"
	"github.com/support-hub/helpdesk/internal/config"
	"github.com/support-hub/helpdesk/internal/events"
	"github.com/support-hub/helpdesk/internal/observability"
	"github.com/support-hub/helpdesk/internal/persistence"
	"github.com/support-hub/helpdesk/internal/repository"
	"github.com/support-hub/helpdesk/internal/service"
	"github.com/support-hub/helpdesk/internal/storage"
	"github.com/support-hub/helpdesk/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	postgres, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("postgres connection failed", zap.Error(err))
	}
	defer postgres.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, postgres.PoolHandle(), logger); err != nil {
			logger.Fatal("migrations failed", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	blobs, err := storage.NewFSBlobStore(cfg.Storage.BlobDir, cfg.Storage.PublicBaseURL)
	if err != nil {
		logger.Fatal("blob store init failed", zap.Error(err))
	}

	ticketCache := cache.NewTicketCache(redis, cfg.Cache.TicketTTL(), logger)

	pool := postgres.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	teamRepo := repository.NewTeamRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:   ticketRepo,
		CommentRepo:  commentRepo,
		TeamRepo:     teamRepo,
		CategoryRepo: categoryRepo,
		UserRepo:     userRepo,
		Blobs:        blobs,
		Cache:        ticketCache,
		Dispatcher:   dispatcher,
	})
	queryService := service.NewQueryService(ticketRepo, commentRepo, ticketCache)
	taxonomyService := service.NewTaxonomyService(teamRepo, categoryRepo)
	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo: userRepo,
		TeamRepo: teamRepo,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Env == "production",
	})

	api.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	api.RegisterRoutes(app, api.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, postgres, redis),
		Users:          handlers.NewUsersHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService, queryService),
		StaffTickets:   handlers.NewStaffTicketsHandler(ticketService, queryService),
		Taxonomy:       handlers.NewTaxonomyHandler(taxonomyService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), userRepo),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()
	logger.Info("server started", zap.String("addr", cfg.App.Addr()))

	waitForShutdown(app, logger)
}

func waitForShutdown(app *fiber.App, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
