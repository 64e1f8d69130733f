package middleware

import (
	"strings"

	"bizpilot-ledger/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// TokenValidator checks a bearer token and returns its claims
type TokenValidator interface {
	ValidateToken(tokenString string) (*jwt.Claims, error)
}

// RequireAuth is middleware that validates JWT token and sets session info in context
func RequireAuth(tokens TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		c.Locals("phone", claims.Phone)
		c.Locals("session_id", claims.SessionID)

		return c.Next()
	}
}

// Phone returns the phone number of the authenticated session
func Phone(c *fiber.Ctx) string {
	phone, _ := c.Locals("phone").(string)
	return phone
}
