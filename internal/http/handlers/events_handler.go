package handlers

import (
	"bazaar/internal/services"
	"bazaar/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type EventsHandler struct {
	Feed *services.FeedService
}

// Poll returns committed events after the client's cursor. Clients follow
// the log by passing the highest seq they have seen.
func (h *EventsHandler) Poll(c *fiber.Ctx) error {
	after := validate.Seq(c.Query("after"))
	limit := validate.Limit(c.Query("limit"), 100, 500)

	kind := ""
	if q := c.Query("kind"); q != "" {
		k, ok := validate.EventKind(q)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid kind"})
		}
		kind = k
	}

	events, err := h.Feed.Since(after, limit, kind)
	if err != nil {
		return fail(c, err)
	}
	next := after
	if len(events) > 0 {
		next = events[len(events)-1].Seq
	}
	return c.JSON(fiber.Map{"events": events, "next": next})
}
