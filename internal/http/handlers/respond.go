package handlers

import (
	"errors"

	applog "bazaar/internal/log"
	"bazaar/internal/repos"
	"bazaar/internal/services"

	"github.com/gofiber/fiber/v2"
)

// fail maps ledger errors to HTTP statuses with a small JSON body. Unknown
// errors get a friendly 500 without leaking internals.
func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidArgument), errors.Is(err, services.ErrInvalidPayment):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound), errors.Is(err, repos.ErrNoAccount):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrAlreadyPurchased):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrSelfPurchase):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrTransferFailed):
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrBadToken):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	default:
		applog.Error(c, "server.error", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "something went wrong, please try again"})
	}
}
