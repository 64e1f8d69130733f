package handler

import (
	"time"

	"bizpilot-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetSummary returns totals and growth
// Query params: range (7d, 1m, 3m, 6m, 12m) narrows the summary to a window;
// without it the whole ledger is summarised
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	rangeParam := c.Query("range")
	if rangeParam == "" {
		summary, err := h.service.DailySummary(c.UserContext())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(summary)
	}

	now := time.Now().UTC()
	var startDate time.Time
	switch rangeParam {
	case "7d":
		startDate = now.AddDate(0, 0, -7)
	case "1m":
		startDate = now.AddDate(0, -1, 0)
	case "3m":
		startDate = now.AddDate(0, -3, 0)
	case "6m":
		startDate = now.AddDate(0, -6, 0)
	case "12m":
		startDate = now.AddDate(0, -12, 0)
	default:
		return badRequest(c, "range must be one of 7d, 1m, 3m, 6m, 12m")
	}

	summary, err := h.service.SummaryBetween(c.UserContext(), startDate, now.Add(time.Nanosecond))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"range": rangeParam, "data": summary})
}

func (h *DashboardHandler) GetLowStock(c *fiber.Ctx) error {
	items, err := h.service.LowStockItems(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTopSellers ranks products
// Query params: limit (default 5), metric (units or revenue)
func (h *DashboardHandler) GetTopSellers(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", service.DefaultTopSellerLimit)
	metric := service.SalesMetric(c.Query("metric", string(service.MetricUnits)))

	sellers, err := h.service.TopSellers(c.UserContext(), limit, metric)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"metric": metric, "data": sellers})
}

// GetSalesTrend returns daily sales for charts
// Query params: days (default 7)
func (h *DashboardHandler) GetSalesTrend(c *fiber.Ctx) error {
	days := c.QueryInt("days", service.DefaultTrendDays)

	data, err := h.service.SalesTrend(c.UserContext(), days)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"period": len(data),
		"data":   data,
	})
}

// GetStats returns catalog overview statistics
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.service.InventoryStats(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}
