package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/campusworks/repair-service/internal/api/http"
	"github.com/campusworks/repair-service/internal/api/http/handlers"
	"github.com/campusworks/repair-service/internal/auth"
	"github.com/campusworks/repair-service/internal/config"
	"github.com/campusworks/repair-service/internal/events"
	"github.com/campusworks/repair-service/internal/observability"
	"github.com/campusworks/repair-service/internal/permission"
	"github.com/campusworks/repair-service/internal/persistence"
	"github.com/campusworks/repair-service/internal/repository"
	"github.com/campusworks/repair-service/internal/service"
	"github.com/campusworks/repair-service/internal/storage"
	"github.com/campusworks/repair-service/internal/ticketview"
	"github.com/campusworks/repair-service/internal/worker"
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

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	store, err := storage.NewImageStore(cfg.Uploads.Dir)
	if err != nil {
		logger.Fatal("failed to init image store", zap.Error(err))
	}

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	attachmentRepo := repository.NewAttachmentRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	buildingRepo := repository.NewBuildingRepository(pool)
	historyRepo := repository.NewStatusHistoryRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	permissions := permission.NewEngine()
	composer := ticketview.NewComposer(permissions)

	authService := service.NewAuthService(*cfg, userRepo)
	directoryService := service.NewDirectoryService(buildingRepo, categoryRepo, redis.Client, logger)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:     ticketRepo,
		AttachmentRepo: attachmentRepo,
		CategoryRepo:   categoryRepo,
		HistoryRepo:    historyRepo,
		Permissions:    permissions,
		Dispatcher:     dispatcher,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		BodyLimit: 32 << 20,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService),
		Directory:      handlers.NewDirectoryHandler(directoryService),
		Tickets:        handlers.NewTicketsHandler(ticketService, directoryService, composer, store),
		StaffTickets:   handlers.NewStaffTicketsHandler(ticketService, store),
		AuthMiddleware: authMiddleware,
		UploadsDir:     store.Dir(),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	logger.Info("repair service started", zap.String("addr", cfg.App.Addr()), zap.String("env", cfg.App.Env))

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
