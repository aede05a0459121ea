package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/orgchart-service/internal/api/http"
	"github.com/spec-kit/orgchart-service/internal/api/http/handlers"
	"github.com/spec-kit/orgchart-service/internal/config"
	"github.com/spec-kit/orgchart-service/internal/events"
	"github.com/spec-kit/orgchart-service/internal/observability"
	"github.com/spec-kit/orgchart-service/internal/persistence"
	"github.com/spec-kit/orgchart-service/internal/service"
	"github.com/spec-kit/orgchart-service/internal/storage"
	"github.com/spec-kit/orgchart-service/internal/worker"
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

	store, err := persistence.OpenEmployeeStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open employee store", zap.Error(err))
	}
	defer store.Close()
	employeeRepo := store.Repository

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	assets, err := storage.NewLocalAssetStore(cfg.Uploads.Dir, cfg.Uploads.MaxBytes)
	if err != nil {
		logger.Fatal("failed to prepare upload dir", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	dependencies := make(map[string]handlers.Pinger, len(store.Probes)+1)
	for name, probe := range store.Probes {
		dependencies[name] = probe
	}

	deps := service.EmployeeDependencies{
		EmployeeRepo: employeeRepo,
		Assets:       assets,
		Dispatcher:   dispatcher,
		Logger:       logger,
	}
	if cache := persistence.NewRedisTreeCache(redis, cfg.Redis.TreeCacheTTL()); cache != nil {
		deps.TreeCache = cache
		dependencies["redis"] = redis
	}
	employeeService := service.NewEmployeeService(deps)

	var feed service.EventSink
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := events.NewKafkaProducer(cfg.Kafka.Brokers)
		if err != nil {
			logger.Fatal("failed to connect kafka", zap.Error(err))
		}
		publisher := events.NewKafkaPublisher(producer, cfg.Kafka.Topic, logger)
		defer publisher.Close() //nolint:errcheck
		feed = publisher
		logger.Info("employee change feed enabled", zap.String("topic", cfg.Kafka.Topic))
	}
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger, feed))

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName: cfg.App.Name,
		// Headroom for the non-file form fields; the asset store enforces the image limit.
		BodyLimit: int(cfg.Uploads.MaxBytes) + 1<<20,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:       handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, dependencies, metrics),
		Employees:    handlers.NewEmployeesHandler(employeeService, assets),
		Organization: handlers.NewOrganizationHandler(employeeService),
		Settings:     handlers.NewSettingsHandler(cfg.Display),
		UploadDir:    assets.Dir(),
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
