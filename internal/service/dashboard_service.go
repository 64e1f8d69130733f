package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"bizpilot-ledger/internal/model"
)

const (
	DefaultTopSellerLimit = 5
	DefaultTrendDays      = 7
	MaxTrendDays          = 366
)

type DashboardService interface {
	DailySummary(ctx context.Context) (*model.DailySummary, error)
	SummaryBetween(ctx context.Context, from, to time.Time) (*model.DailySummary, error)
	LowStockItems(ctx context.Context) ([]model.Product, error)
	TopSellers(ctx context.Context, limit int, metric SalesMetric) ([]model.TopSeller, error)
	SalesTrend(ctx context.Context, days int) ([]model.SalesTrendPoint, error)
	InventoryStats(ctx context.Context) (*model.InventoryStats, error)
}

type dashboardService struct {
	store    *Store
	baseline BaselineSource
	location *time.Location
	now      func() time.Time
}

// NewDashboardService reads from store. A nil baseline compares against the
// prior period.
func NewDashboardService(store *Store, baseline BaselineSource) DashboardService {
	if baseline == nil {
		baseline = PriorPeriodBaseline{}
	}
	return &dashboardService{
		store:    store,
		baseline: baseline,
		location: time.UTC,
		now:      time.Now,
	}
}

func (s *dashboardService) DailySummary(ctx context.Context) (*model.DailySummary, error) {
	_, sales := s.store.Snapshot()
	summary := Summarize(sales, s.baseline.Baseline(ctx, model.Period{}, sales))
	return &summary, nil
}

func (s *dashboardService) SummaryBetween(ctx context.Context, from, to time.Time) (*model.DailySummary, error) {
	if !from.Before(to) {
		return nil, fmt.Errorf("%w: from must be before to", model.ErrValidation)
	}
	period := model.Period{From: from, To: to}

	_, sales := s.store.Snapshot()
	window := slices.DeleteFunc(slices.Clone(sales), func(sale model.Sale) bool {
		return !period.Contains(sale.Date)
	})
	summary := Summarize(window, s.baseline.Baseline(ctx, period, sales))
	return &summary, nil
}

func (s *dashboardService) LowStockItems(ctx context.Context) ([]model.Product, error) {
	products, _ := s.store.Snapshot()
	return LowStock(slices.Values(products)), nil
}

func (s *dashboardService) TopSellers(ctx context.Context, limit int, metric SalesMetric) ([]model.TopSeller, error) {
	switch metric {
	case "":
		metric = MetricUnits
	case MetricUnits, MetricRevenue:
	default:
		return nil, fmt.Errorf("%w: unknown metric %q", model.ErrValidation, metric)
	}
	if limit <= 0 {
		limit = DefaultTopSellerLimit
	}

	products, sales := s.store.Snapshot()
	return RankTopSellers(products, slices.Values(sales), limit, metric), nil
}

func (s *dashboardService) SalesTrend(ctx context.Context, days int) ([]model.SalesTrendPoint, error) {
	if days <= 0 {
		days = DefaultTrendDays
	}
	if days > MaxTrendDays {
		return nil, fmt.Errorf("%w: days must be at most %d", model.ErrValidation, MaxTrendDays)
	}
	_, sales := s.store.Snapshot()
	return SalesTrend(slices.Values(sales), s.now(), days, s.location), nil
}

func (s *dashboardService) InventoryStats(ctx context.Context) (*model.InventoryStats, error) {
	products, _ := s.store.Snapshot()
	stats := Stats(slices.Values(products))
	return &stats, nil
}
