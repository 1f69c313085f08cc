package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HandleHealth reports liveness plus the state of optional collaborators.
// GET /api/v1/health
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	ledger := "disabled"
	if h.Ledger != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		ledger = "ok"
		if err := h.Ledger.Ping(ctx); err != nil {
			ledger = "unreachable"
		}
	}

	narrative := "formula"
	if h.NarrativeModel != "" {
		narrative = h.NarrativeModel
	}

	return success(c, fiber.StatusOK, fiber.Map{
		"service":   "deadstock",
		"ledger":    ledger,
		"narrative": narrative,
		"time":      time.Now().UTC().Format(time.RFC3339),
	})
}
