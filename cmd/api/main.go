package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inventory-ledger/internal/config"
	"inventory-ledger/internal/handler"
	"inventory-ledger/internal/metrics"
	"inventory-ledger/internal/repository"
	"inventory-ledger/internal/service"
	"inventory-ledger/internal/ws"
	"inventory-ledger/pkg/database"
	"inventory-ledger/pkg/jwt"
	applog "inventory-ledger/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/zap"
)

func main() {
	// 1. Config and logging
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := applog.Must(cfg.LogLevel, cfg.LogFormat)
	defer log.Sync()

	shutdownTracer, err := initTracer(context.Background(), cfg.OTLPEndpoint)
	if err != nil {
		log.Fatal("init tracer", zap.Error(err))
	}

	// 2. Database, schema and unit catalog
	db, err := database.Connect(database.Options{
		Driver:      cfg.DBDriver,
		DatabaseURL: cfg.DatabaseURL,
		SQLitePath:  cfg.SQLitePath,
	})
	if err != nil {
		log.Fatal("connect database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("migrate database", zap.Error(err))
	}
	seeded, err := repository.SeedUnits(db)
	if err != nil {
		log.Fatal("seed units", zap.Error(err))
	}
	log.Info("unit catalog ready", zap.Int64("inserted", seeded))

	// 3. WebSocket hub and metrics
	wsHub := ws.NewHub(log)
	go wsHub.Run()
	collector := metrics.NewCollector()

	// 4. Dependency Injection
	unitRepo := repository.NewUnitRepo(db)
	itemRepo := repository.NewItemRepo(db)
	lotRepo := repository.NewLotRepo(db)
	ledgerRepo := repository.NewLedgerRepo(db)

	coordinator := service.NewLedgerCoordinator(db, unitRepo, itemRepo, lotRepo, ledgerRepo, cfg.Ledger, log, collector, wsHub)
	checker := service.NewAvailabilityChecker(db, unitRepo, itemRepo, lotRepo, cfg.Ledger, log, collector)
	unitService := service.NewUnitService(unitRepo, itemRepo, lotRepo, log, collector)
	itemService := service.NewItemService(itemRepo, unitRepo, log)
	lotService := service.NewLotService(lotRepo, coordinator, cfg.Ledger, log, collector, wsHub)
	dashService := service.NewDashboardService(ledgerRepo)

	// 5. Fiber
	app := fiber.New(fiber.Config{
		AppName: "Inventory Ledger v1.0",
	})
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	handler.RegisterRoutes(app.Group("/api/v1"), jwt.SecretKey(cfg.JWTSecret), handler.Handlers{
		Units:     handler.NewUnitHandler(unitService, log),
		Items:     handler.NewItemHandler(itemService, log),
		Lots:      handler.NewLotHandler(lotService, log),
		Ledger:    handler.NewLedgerHandler(coordinator, checker, log),
		Dashboard: handler.NewDashboardHandler(dashService),
	})

	app.Get("/metrics", adaptor.HTTPHandler(collector.Handler()))

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 6. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Panic("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracer(ctx); err != nil {
		log.Warn("flush traces", zap.Error(err))
	}

	log.Info("server exited")
}

// initTracer exports spans over OTLP/HTTP when endpoint is set. Without an
// endpoint the global no-op provider stays in place.
func initTracer(ctx context.Context, endpoint string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName("inventory-ledger"),
			semconv.ServiceVersion("1.0.0"),
		),
	)
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return tp.Shutdown, nil
}
