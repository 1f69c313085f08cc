package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// HandleLocations lists the cities with a market profile.
// GET /api/v1/locations
func (h *Handler) HandleLocations(c *fiber.Ctx) error {
	cities := h.Locations.Cities()
	return success(c, fiber.StatusOK, fiber.Map{"locations": cities, "total": len(cities)})
}

// HandleLocation returns the market profile of a city. Unknown cities get the national default.
// GET /api/v1/locations/:name
func (h *Handler) HandleLocation(c *fiber.Ctx) error {
	return success(c, fiber.StatusOK, h.Locations.Info(c.Params("name")))
}

// HandleRegionalInsights returns market insights for a region.
// GET /api/v1/regions/:region/insights
func (h *Handler) HandleRegionalInsights(c *fiber.Ctx) error {
	return success(c, fiber.StatusOK, h.Locations.RegionalInsights(c.Params("region")))
}
