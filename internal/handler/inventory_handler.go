package handler

import (
	"bizpilot-ledger/internal/model"
	"bizpilot-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

// CreateProduct adds a product to the catalog
// POST /api/v1/products
func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	product, err := h.service.CreateProduct(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product created", "data": product})
}

// GetProducts lists the catalog newest first
// Query params: category (All, Low Stock or a category name), q (name search)
func (h *InventoryHandler) GetProducts(c *fiber.Ctx) error {
	var filter model.ProductFilter
	if err := c.QueryParser(&filter); err != nil {
		return badRequest(c, "Invalid query")
	}

	products, err := h.service.GetProducts(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": products})
}

func (h *InventoryHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.service.GetProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": product})
}

// GetCategories lists the filter chips, starting with the two virtual ones
func (h *InventoryHandler) GetCategories(c *fiber.Ctx) error {
	categories := append([]string{model.CategoryAll, model.CategoryLowStock}, model.DefaultCategories...)
	return c.JSON(fiber.Map{"data": categories})
}

// RecordSale sells units of a product
// POST /api/v1/sales
func (h *InventoryHandler) RecordSale(c *fiber.Ctx) error {
	var req service.RecordSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	sale, err := h.service.RecordSale(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Sale recorded", "data": sale})
}

// GetSales lists the most recent sales
// Query params: limit (default 50)
func (h *InventoryHandler) GetSales(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", service.DefaultSalesLimit)
	if limit < 0 {
		return badRequest(c, "limit must not be negative")
	}

	sales, err := h.service.GetSales(c.UserContext(), limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": sales})
}
