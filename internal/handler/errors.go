package handler

import (
	"bizpilot-ledger/internal/model"

	"github.com/gofiber/fiber/v2"
)

var statusByCode = map[string]int{
	model.ErrValidation.Code:        fiber.StatusBadRequest,
	model.ErrProductNotFound.Code:   fiber.StatusNotFound,
	model.ErrInsufficientStock.Code: fiber.StatusConflict,
	model.ErrAlreadyExists.Code:     fiber.StatusConflict,
}

// respondError writes err as {"error", "code"} with the status its domain code maps to
func respondError(c *fiber.Ctx, err error) error {
	code := model.ErrorCode(err)
	status, ok := statusByCode[code]
	if !ok {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal Server Error",
			"code":  "INTERNAL_ERROR",
		})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error(), "code": code})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": message,
		"code":  model.ErrValidation.Code,
	})
}
