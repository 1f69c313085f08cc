package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"deadstock/services"
	"deadstock/validation"
)

// ProductOpportunitiesRequest is the body of the product festival opportunities endpoint.
type ProductOpportunitiesRequest struct {
	ProductName string `json:"product_name" validate:"required"`
	Location    string `json:"location"`
}

// HandleFestivals lists the festivals of a location within the next days.
// GET /api/v1/festivals?location=&days=
func (h *Handler) HandleFestivals(c *fiber.Ctx) error {
	days, err := queryInt(c, "days", h.UpcomingDays)
	if err != nil {
		return fail(c, err)
	}
	location := h.location(c)
	festivals := h.Calendar.Upcoming(location, days)

	return success(c, fiber.StatusOK, fiber.Map{
		"location":  location,
		"festivals": festivals,
		"total":     len(festivals),
	})
}

// HandleAllFestivals lists every festival observed in a location.
// GET /api/v1/all-festivals?location=&sort_by=days_until|name|category
func (h *Handler) HandleAllFestivals(c *fiber.Ctx) error {
	location := c.Query("location")
	festivals, err := h.Calendar.AllFestivals(location, c.Query("sort_by", services.SortByDaysUntil))
	if err != nil {
		return fail(c, err)
	}

	return success(c, fiber.StatusOK, fiber.Map{
		"location":        location,
		"festivals":       festivals,
		"total_festivals": len(festivals),
	})
}

// HandleFestivalCountdown returns the countdown to upcoming festivals.
// GET /api/v1/festival-countdown?location=&days=
func (h *Handler) HandleFestivalCountdown(c *fiber.Ctx) error {
	days, err := queryInt(c, "days", 30)
	if err != nil {
		return fail(c, err)
	}
	return success(c, fiber.StatusOK, h.Calendar.Countdown(h.location(c), days))
}

// HandleFestivalCategories groups a location's festivals by category.
// GET /api/v1/festival-categories?location=
func (h *Handler) HandleFestivalCategories(c *fiber.Ctx) error {
	location := c.Query("location")
	categories := h.Calendar.Categories(location)

	return success(c, fiber.StatusOK, fiber.Map{
		"location":   location,
		"categories": categories,
	})
}

// HandleFestivalInsights returns the marketing insights of one festival.
// GET /api/v1/festival/:key/insights?location=
func (h *Handler) HandleFestivalInsights(c *fiber.Ctx) error {
	insights, err := h.Calendar.Insights(c.Params("key"), c.Query("location"))
	if err != nil {
		return fail(c, err)
	}
	return success(c, fiber.StatusOK, insights)
}

// HandleProductFestivalOpportunities maps a product to the festivals it sells in.
// POST /api/v1/product-festival-opportunities
func (h *Handler) HandleProductFestivalOpportunities(c *fiber.Ctx) error {
	var req ProductOpportunitiesRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	req.ProductName = strings.TrimSpace(req.ProductName)
	if err := validation.ValidateStruct(req); err != nil {
		return fail(c, err)
	}
	if req.Location == "" {
		req.Location = h.DefaultLocation
	}

	return success(c, fiber.StatusOK, h.Calendar.ProductOpportunities(req.ProductName, req.Location))
}
