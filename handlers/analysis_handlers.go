package handlers

import (
	"github.com/gofiber/fiber/v2"

	"deadstock/models"
	"deadstock/validation"
)

// HandleAnalyzeProduct runs the full rescue analysis for one product.
// POST /api/v1/analyze-product
func (h *Handler) HandleAnalyzeProduct(c *fiber.Ctx) error {
	var req models.ProductInput
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	result, err := h.Engine.AnalyzeProduct(c.UserContext(), req)
	if err != nil {
		return fail(c, err)
	}
	return success(c, fiber.StatusOK, result)
}

// HandleAnalyzeBatch analyzes up to 100 products; each item carries its own result or error.
// POST /api/v1/analyze-batch
func (h *Handler) HandleAnalyzeBatch(c *fiber.Ctx) error {
	var req models.BatchAnalyzeRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	// Items are validated one by one so a bad product fails only its own entry.
	if err := validation.ValidateStruct(req); err != nil {
		return fail(c, err)
	}

	items := h.Engine.AnalyzeBatch(c.UserContext(), req.Products)
	failed := 0
	for _, item := range items {
		if item.Error != nil {
			failed++
		}
	}

	return success(c, fiber.StatusOK, fiber.Map{
		"items":     items,
		"total":     len(items),
		"succeeded": len(items) - failed,
		"failed":    failed,
	})
}
