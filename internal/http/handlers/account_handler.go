package handlers

import (
	"database/sql"
	"errors"

	applog "bazaar/internal/log"
	"bazaar/internal/repos"
	"bazaar/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AccountHandler struct {
	Accounts *repos.AccountRepo
}

type depositReq struct {
	Amount int64 `json:"amount"`
}

func (h *AccountHandler) Balance(c *fiber.Ctx) error {
	addr, ok := validate.Address(c.Params("address"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid address"})
	}
	a, err := h.Accounts.Get(addr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, repos.ErrNoAccount)
		}
		return fail(c, err)
	}
	return c.JSON(a)
}

// Deposit is the dev faucet: it credits an existing account so purchase
// flows can be exercised without an external chain.
func (h *AccountHandler) Deposit(c *fiber.Ctx) error {
	addr, ok := validate.Address(c.Params("address"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid address"})
	}
	var req depositReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed body"})
	}
	if !validate.Amount(req.Amount) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "amount must be positive"})
	}

	balance, err := h.Accounts.Deposit(addr, req.Amount)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "account.deposit", map[string]any{"address": addr, "amount": req.Amount})
	return c.JSON(fiber.Map{"address": addr, "balance": balance})
}
