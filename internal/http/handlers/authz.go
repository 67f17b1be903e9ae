package handlers

import (
	"strings"

	applog "drwheels/internal/log"
	"drwheels/internal/services"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth resolves the bearer token to a user and stores it in
// Locals("user"). Every failure mode is a 401.
func RequireAuth(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "No token, authorization denied"})
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "No token, authorization denied"})
		}

		u, err := auth.Verify(token)
		if err != nil {
			applog.Security(c, "auth.token.reject", nil)
			return fail(c, err)
		}
		c.Locals("user", u)
		c.Locals("user_id", u.ID)
		return c.Next()
	}
}
