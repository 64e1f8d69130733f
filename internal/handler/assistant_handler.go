package handler

import (
	"context"
	"encoding/json"
	"time"

	"bizpilot-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AssistantHandler struct {
	assistant service.AssistantService
	inventory service.InventoryService
	notifier  service.Notifier
}

// NewAssistantHandler builds the assistant endpoints. notifier receives
// insights requested in the background and may be nil.
func NewAssistantHandler(assistant service.AssistantService, inventory service.InventoryService, notifier service.Notifier) *AssistantHandler {
	return &AssistantHandler{assistant: assistant, inventory: inventory, notifier: notifier}
}

type DescriptionRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// GenerateDescription drafts marketing copy for a product that may not exist yet
// POST /api/v1/assistant/description
func (h *AssistantHandler) GenerateDescription(c *fiber.Ctx) error {
	var req DescriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	if req.Name == "" {
		return badRequest(c, "name is required")
	}

	text := h.assistant.GenerateProductDescription(c.UserContext(), req.Name, req.Category)
	return c.JSON(fiber.Map{"description": text})
}

// GetInsights analyses the whole ledger
// GET /api/v1/assistant/insights
func (h *AssistantHandler) GetInsights(c *fiber.Ctx) error {
	sales, err := h.inventory.AllSales(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	text := h.assistant.AnalyzeSales(c.UserContext(), sales)
	return c.JSON(fiber.Map{"insight": text, "sales_analyzed": len(sales)})
}

// RequestInsights analyses the whole ledger in the background and pushes the
// result to websocket clients as a "sales_insight" event
// POST /api/v1/assistant/insights
func (h *AssistantHandler) RequestInsights(c *fiber.Ctx) error {
	if h.notifier == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "No event channel configured"})
	}
	sales, err := h.inventory.AllSales(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	count := len(sales)
	h.assistant.AnalyzeSalesAsync(context.WithoutCancel(c.UserContext()), sales, func(text string) {
		msg, err := json.Marshal(fiber.Map{
			"type":           "sales_insight",
			"insight":        text,
			"sales_analyzed": count,
			"generated_at":   time.Now().UTC(),
		})
		if err != nil {
			return
		}
		h.notifier.Publish(msg)
	})

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"message": "Insight requested", "sales_analyzed": count})
}
