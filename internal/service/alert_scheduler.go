package service

import (
	"context"
	"fmt"
	"time"

	"bizpilot-ledger/internal/model"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// AlertScheduler periodically pushes the low-stock list to connected clients
type AlertScheduler struct {
	sched     *cron.Cron
	dashboard DashboardService
	notifier  Notifier
	logger    *zap.Logger
}

func NewAlertScheduler(spec string, dashboard DashboardService, notifier Notifier, logger *zap.Logger) (*AlertScheduler, error) {
	a := &AlertScheduler{
		sched:     cron.New(cron.WithLocation(time.UTC), cron.WithParser(cronParser)),
		dashboard: dashboard,
		notifier:  notifier,
		logger:    logger.Named("alerts"),
	}
	if _, err := a.sched.AddFunc(spec, func() { a.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("schedule low stock alert %q: %w", spec, err)
	}
	return a, nil
}

func (a *AlertScheduler) Start() {
	a.sched.Start()
}

// Stop waits for a running job to finish or ctx to expire
func (a *AlertScheduler) Stop(ctx context.Context) {
	select {
	case <-a.sched.Stop().Done():
	case <-ctx.Done():
	}
}

// RunOnce publishes one alert when any product is low on stock. It reports
// how many products were included.
func (a *AlertScheduler) RunOnce(ctx context.Context) int {
	defer func() {
		if err := recover(); err != nil {
			a.logger.Error("low stock job panicked", zap.Any("panic", err))
		}
	}()

	items, err := a.dashboard.LowStockItems(ctx)
	if err != nil {
		a.logger.Error("read low stock items", zap.Error(err))
		return 0
	}
	if len(items) == 0 {
		return 0
	}

	products := make([]map[string]interface{}, 0, len(items))
	for _, p := range items {
		products = append(products, map[string]interface{}{
			"id":                  p.ID,
			"name":                p.Name,
			"stock":               p.Stock,
			"low_stock_threshold": p.LowStockThreshold,
			"out_of_stock":        p.IsOutOfStock(),
		})
	}
	a.logger.Info("low stock alert", zap.Strings("products", lowStockNames(items)))
	publish(a.notifier, a.logger, map[string]interface{}{
		"type":     "low_stock_alert",
		"products": products,
		"message":  fmt.Sprintf("%d product(s) need restocking", len(items)),
	})
	return len(items)
}

func lowStockNames(items []model.Product) []string {
	names := make([]string, len(items))
	for i, p := range items {
		names[i] = p.Name
	}
	return names
}
