package handlers

import (
	applog "bazaar/internal/log"
	"bazaar/internal/services"
	"bazaar/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type MarketHandler struct {
	Ledger *services.LedgerService
}

type createProductReq struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

type purchaseReq struct {
	Payment int64 `json:"payment"`
}

func (h *MarketHandler) Create(c *fiber.Ctx) error {
	var req createProductReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed body"})
	}
	name, ok := validate.ProductName(req.Name)
	if !ok || !validate.Price(req.Price) {
		applog.Security(c, "validation.fail", map[string]any{"field": "product"})
		return fail(c, services.ErrInvalidArgument)
	}

	p, err := h.Ledger.List(Caller(c), name, req.Price)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "product.list", map[string]any{"id": p.ID, "price": p.Price})
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *MarketHandler) Purchase(c *fiber.Ctx) error {
	id, ok := validate.ProductID(c.Params("id"))
	if !ok {
		return fail(c, services.ErrNotFound)
	}
	var req purchaseReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed body"})
	}

	p, err := h.Ledger.Purchase(Caller(c), id, req.Payment)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "product.purchase", map[string]any{"id": p.ID, "price": p.Price, "seller": p.Seller})
	return c.JSON(p)
}

func (h *MarketHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ProductID(c.Params("id"))
	if !ok {
		return fail(c, services.ErrNotFound)
	}
	p, err := h.Ledger.Get(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(p)
}

// Index pages through every listing in id order, the way the original
// storefront renders its product table.
func (h *MarketHandler) Index(c *fiber.Ctx) error {
	limit := validate.Limit(c.Query("limit"), 50, 200)
	offset := 0
	if n := validate.Seq(c.Query("offset")); n > 0 {
		offset = int(n)
	}
	products, err := h.Ledger.Browse(limit, offset)
	if err != nil {
		return fail(c, err)
	}
	count, err := h.Ledger.Count()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"product_count": count, "products": products})
}
