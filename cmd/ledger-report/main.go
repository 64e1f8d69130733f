package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"bizpilot-ledger/internal/config"
	applog "bizpilot-ledger/internal/logger"
	"bizpilot-ledger/internal/model"
	"bizpilot-ledger/internal/repository"
	"bizpilot-ledger/internal/service"
	"bizpilot-ledger/pkg/database"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type report struct {
	GeneratedAt time.Time               `json:"generated_at"`
	Summary     *model.DailySummary     `json:"summary"`
	Stats       *model.InventoryStats   `json:"stats"`
	LowStock    []model.Product         `json:"low_stock"`
	TopSellers  []model.TopSeller       `json:"top_sellers"`
	Trend       []model.SalesTrendPoint `json:"trend,omitempty"`
}

func main() {
	var (
		top    int
		metric string
		days   int
	)
	flag.IntVar(&top, "top", service.DefaultTopSellerLimit, "Number of top sellers to include")
	flag.StringVar(&metric, "metric", string(service.MetricUnits), "Top seller metric (units, revenue)")
	flag.IntVar(&days, "days", 0, "Include a daily sales trend for this many days")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.Database.Driver == "" {
		fmt.Fprintln(os.Stderr, "DB_DRIVER is not set; there is no journal to report on")
		os.Exit(1)
	}

	// logs go to stderr so stdout stays valid JSON
	zapLogger := applog.New(&applog.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: "stderr"})
	defer zapLogger.Sync()

	db, err := database.Connect(cfg.Database.Driver, cfg.Database.URL,
		applog.NewGormLogger(zapLogger, applog.GormLevel("warn")))
	if err != nil {
		zapLogger.Fatal("connect database", zap.Error(err))
	}

	baseline, err := service.NewBaselineSource(cfg.Ledger.GrowthBaseline, model.Totals{
		Sales:  cfg.Ledger.BaselineSales,
		Profit: cfg.Ledger.BaselineProfit,
	})
	if err != nil {
		zapLogger.Fatal("growth baseline", zap.Error(err))
	}

	ctx := context.Background()
	store, err := loadStore(ctx, db)
	if err != nil {
		zapLogger.Fatal("restore ledger", zap.Error(err))
	}

	out, err := build(ctx, service.NewDashboardService(store, baseline), top, service.SalesMetric(metric), days)
	if err != nil {
		zapLogger.Fatal("build report", zap.Error(err))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		zapLogger.Fatal("write report", zap.Error(err))
	}
}

// loadStore migrates first so a fresh database reports an empty ledger
func loadStore(ctx context.Context, db *gorm.DB) (*service.Store, error) {
	if err := repository.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	store := service.NewStore()
	if err := store.Restore(ctx, repository.NewJournalRepo(db)); err != nil {
		return nil, err
	}
	return store, nil
}

func build(ctx context.Context, dash service.DashboardService, top int, metric service.SalesMetric, days int) (*report, error) {
	summary, err := dash.DailySummary(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := dash.InventoryStats(ctx)
	if err != nil {
		return nil, err
	}
	low, err := dash.LowStockItems(ctx)
	if err != nil {
		return nil, err
	}
	sellers, err := dash.TopSellers(ctx, top, metric)
	if err != nil {
		return nil, err
	}

	r := &report{
		GeneratedAt: time.Now().UTC(),
		Summary:     summary,
		Stats:       stats,
		LowStock:    low,
		TopSellers:  sellers,
	}
	if days > 0 {
		if r.Trend, err = dash.SalesTrend(ctx, days); err != nil {
			return nil, err
		}
	}
	return r, nil
}
