package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bizpilot-ledger/internal/config"
	"bizpilot-ledger/internal/handler"
	applog "bizpilot-ledger/internal/logger"
	"bizpilot-ledger/internal/middleware"
	"bizpilot-ledger/internal/model"
	"bizpilot-ledger/internal/repository"
	"bizpilot-ledger/internal/service"
	"bizpilot-ledger/internal/ws"
	"bizpilot-ledger/pkg/database"
	"bizpilot-ledger/pkg/gemini"
	"bizpilot-ledger/pkg/jwt"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zapLogger := applog.New(&applog.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer zapLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Optional durable journal, replayed into the in-memory store
	store := service.NewStore()
	var journal repository.JournalRepository
	if cfg.Database.Driver != "" {
		db, err := database.Connect(cfg.Database.Driver, cfg.Database.URL,
			applog.NewGormLogger(zapLogger, applog.GormLevel(cfg.Log.Level)))
		if err != nil {
			zapLogger.Fatal("connect database", zap.Error(err))
		}
		if err := repository.Migrate(db); err != nil {
			zapLogger.Fatal("migrate journal", zap.Error(err))
		}
		journal = repository.NewJournalRepo(db)
		if err := store.Restore(ctx, journal); err != nil {
			zapLogger.Fatal("restore ledger", zap.Error(err))
		}
		zapLogger.Info("journal restored", zap.String("driver", cfg.Database.Driver))
	} else {
		zapLogger.Info("running without a journal; state is lost on exit")
	}

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub(zapLogger)
	go wsHub.Run(ctx)

	// 4. Dependency Injection (Wiring Layers)
	policy, err := service.ParseStockPolicy(cfg.Ledger.StockPolicy)
	if err != nil {
		zapLogger.Fatal("stock policy", zap.Error(err))
	}
	costs := service.NewCostModel(cfg.Ledger.CostRatio, cfg.Ledger.CategoryCostRatios)

	var generator service.TextGenerator
	if cfg.Assistant.APIKey != "" {
		client, err := gemini.NewClient(ctx, cfg.Assistant.APIKey, cfg.Assistant.Model)
		if err != nil {
			zapLogger.Warn("assistant disabled", zap.Error(err))
		} else {
			generator = client
		}
	}

	signer := jwt.NewSigner(cfg.JWT.Secret, cfg.JWT.Expiration)
	recorder := service.NewTransactionRecorder(store, journal, wsHub, costs, policy, zapLogger)
	assistant := service.NewAssistantService(generator, cfg.Assistant.Timeout, zapLogger)
	invService := service.NewInventoryService(store, recorder, journal, assistant, wsHub, zapLogger)
	baseline, err := service.NewBaselineSource(cfg.Ledger.GrowthBaseline, model.Totals{
		Sales:  cfg.Ledger.BaselineSales,
		Profit: cfg.Ledger.BaselineProfit,
	})
	if err != nil {
		zapLogger.Fatal("growth baseline", zap.Error(err))
	}
	dashService := service.NewDashboardService(store, baseline)
	authService := service.NewAuthService(signer, zapLogger)

	if cfg.Ledger.SeedCatalog {
		if _, err := invService.SeedCatalog(ctx); err != nil {
			zapLogger.Error("seed catalog", zap.Error(err))
		}
	}

	var alerts *service.AlertScheduler
	if cfg.Scheduler.AlertsEnabled() {
		alerts, err = service.NewAlertScheduler(cfg.Scheduler.AlertCron, dashService, wsHub, zapLogger)
		if err != nil {
			zapLogger.Fatal("alert scheduler", zap.Error(err))
		}
		alerts.Start()
	}

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: cfg.App.Name,
	})

	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	handler.SetupRoutes(app, handler.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Inventory: handler.NewInventoryHandler(invService),
		Dashboard: handler.NewDashboardHandler(dashService),
		Assistant: handler.NewAssistantHandler(assistant, invService, wsHub),
	}, middleware.RequireAuth(authService))

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		if !wsHub.Join(c) {
			return
		}
		defer wsHub.Leave(c)

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 6. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.App.Port); err != nil {
			zapLogger.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zapLogger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if alerts != nil {
		alerts.Stop(shutdownCtx)
	}
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		zapLogger.Error("server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}

	zapLogger.Info("server exited")
}
