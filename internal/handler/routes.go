package handler

import (
	"github.com/gofiber/fiber/v2"
)

// Handlers groups everything SetupRoutes mounts
type Handlers struct {
	Auth      *AuthHandler
	Inventory *InventoryHandler
	Dashboard *DashboardHandler
	Assistant *AssistantHandler
}

// SetupRoutes mounts the API under /api/v1. requireAuth guards every route
// except login and token validation.
func SetupRoutes(app *fiber.App, h Handlers, requireAuth fiber.Handler) {
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", h.Auth.Login)
	auth.Post("/validate-token", h.Auth.ValidateToken)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", requireAuth)

	protected.Get("/products", h.Inventory.GetProducts)
	protected.Get("/products/:id", h.Inventory.GetProduct)
	protected.Post("/products", h.Inventory.CreateProduct)
	protected.Get("/categories", h.Inventory.GetCategories)

	protected.Get("/sales", h.Inventory.GetSales)
	protected.Post("/sales", h.Inventory.RecordSale)

	protected.Get("/dashboard/summary", h.Dashboard.GetSummary)
	protected.Get("/dashboard/low-stock", h.Dashboard.GetLowStock)
	protected.Get("/dashboard/top-sellers", h.Dashboard.GetTopSellers)
	protected.Get("/dashboard/sales-trend", h.Dashboard.GetSalesTrend)
	protected.Get("/dashboard/stats", h.Dashboard.GetStats)

	protected.Post("/assistant/description", h.Assistant.GenerateDescription)
	protected.Get("/assistant/insights", h.Assistant.GetInsights)
	protected.Post("/assistant/insights", h.Assistant.RequestInsights)
}
