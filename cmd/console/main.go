package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/storefront/admin-console/internal/api/http"
	"github.com/storefront/admin-console/internal/api/http/handlers"
	"github.com/storefront/admin-console/internal/apiclient"
	"github.com/storefront/admin-console/internal/auth"
	"github.com/storefront/admin-console/internal/config"
	"github.com/storefront/admin-console/internal/events"
	"github.com/storefront/admin-console/internal/guard"
	"github.com/storefront/admin-console/internal/observability"
	"github.com/storefront/admin-console/internal/persistence"
	"github.com/storefront/admin-console/internal/repository"
	"github.com/storefront/admin-console/internal/service"
	"github.com/storefront/admin-console/internal/session"
	"github.com/storefront/admin-console/internal/view"
	"github.com/storefront/admin-console/internal/worker"
	"github.com/storefront/admin-console/migrations"
)

const (
	uploadBodyLimit  = 25 * 1024 * 1024
	auditQueueSize   = 256
	memoryAuditLimit = 1000
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), migrations.FS, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	var (
		redis *persistence.Redis
		store session.Store
	)
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		redis = persistence.NewRedis(ctx, cfg.Redis, logger)
		defer redis.Close()
		store = session.NewRedisStore(redis.Client, cfg.Session.KeyPrefix, cfg.Session.TTL())
	default:
		logger.Warn("sessions are kept in memory; they will not survive a restart")
		store = session.NewMemoryStore(cfg.Session.KeyPrefix)
	}

	decoder := auth.NewTokenDecoder(cfg.Auth.RoleClaim, cfg.Auth.EmailClaim)
	sessions := session.NewManager(store, decoder, cfg.Session, cfg.Auth.LoginPath, logger)
	defer sessions.Close() //nolint:errcheck

	client := apiclient.New(cfg.Backend.APIBaseURL(), cfg.Backend.Timeout())
	metrics := observability.NewMetrics()

	var auditRepo repository.AuditRepository
	if pg.Enabled() {
		auditRepo = repository.NewAuditRepository(pg.PoolHandle())
	} else {
		auditRepo = repository.NewMemoryAuditRepository(memoryAuditLimit)
	}
	auditService := service.NewAuditService(auditRepo, logger)
	dispatcher := events.NewInMemoryDispatcher()
	auditWorker := worker.StartAuditWorker(dispatcher, auditService, logger, metrics, auditQueueSize)
	defer auditWorker.Stop()

	publisher := handlers.NewPublisher(dispatcher, logger)
	tracker := view.NewTracker()

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: uploadBodyLimit,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:       handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, client, metrics),
		Auth:         handlers.NewAuthHandler(service.NewAuthService(client), sessions, publisher, logger),
		Dashboard:    handlers.NewDashboardHandler(cfg.Auth.ManagerRoles, cfg.Auth.AdminRoles),
		Orders:       handlers.NewOrdersHandler(service.NewOrderService(client), tracker, publisher),
		Products:     handlers.NewProductsHandler(service.NewProductService(client), tracker, publisher),
		SaleItems:    handlers.NewSaleItemsHandler(service.NewSaleItemService(client), tracker, publisher),
		Audit:        handlers.NewAuditHandler(auditService),
		Sessions:     sessions,
		Guard:        guard.New(cfg.Auth.LoginPath, cfg.Auth.UnauthorizedPath, logger),
		LoginPath:    cfg.Auth.LoginPath,
		ManagerRoles: cfg.Auth.ManagerRoles,
		AdminRoles:   cfg.Auth.AdminRoles,
	})

	go func() {
		logger.Info("console listening",
			zap.String("addr", cfg.App.Addr()),
			zap.String("backend", client.BaseURL()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
