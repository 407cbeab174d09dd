package handlers

import (
	"strings"

	applog "bazaar/internal/log"
	"bazaar/internal/services"

	"github.com/gofiber/fiber/v2"
)

// RequireCaller resolves the bearer token into a principal address and
// stores it in locals. State-changing routes refuse anonymous callers.
func RequireCaller(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		h := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(h, "Bearer ")
		if !ok || token == "" {
			applog.Security(c, "access.denied.anonymous", nil)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing bearer token"})
		}
		addr, err := auth.Resolve(token)
		if err != nil {
			applog.Security(c, "access.denied.token", nil)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
		}
		c.Locals("caller", addr)
		return c.Next()
	}
}

// Caller returns the authenticated principal set by RequireCaller.
func Caller(c *fiber.Ctx) string {
	addr, _ := c.Locals("caller").(string)
	return addr
}
