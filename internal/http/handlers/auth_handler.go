package handlers

import (
	applog "bazaar/internal/log"
	"bazaar/internal/services"
	"bazaar/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type registerReq struct {
	Address string `json:"address"`
}

// Register issues a bearer token for a wallet address. The address itself
// is the identity; token possession stands in for a wallet signature in
// this service-world rendition.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed body"})
	}
	addr, ok := validate.Address(req.Address)
	if !ok {
		applog.Security(c, "auth.register.fail", map[string]any{"reason": "bad_address"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid address"})
	}

	token, err := h.Auth.Register(addr)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "auth.register", map[string]any{"address": addr})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"address": addr, "token": token})
}
