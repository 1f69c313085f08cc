package handlers

import (
	"github.com/gofiber/fiber/v2"

	"deadstock/apperrors"
	"deadstock/models"
	"deadstock/reference"
	"deadstock/validation"
)

// HandleShopkeepers lists the seller profiles of a location.
// GET /api/v1/shopkeepers?location=
func (h *Handler) HandleShopkeepers(c *fiber.Ctx) error {
	location := h.location(c)
	shopkeepers := h.Bundles.Shopkeepers(location)

	return success(c, fiber.StatusOK, fiber.Map{
		"location":    location,
		"shopkeepers": shopkeepers,
		"total":       len(shopkeepers),
	})
}

// HandleBundleRecommendations suggests festival and seasonal bundles for a product.
// POST /api/v1/bundle-recommendations
func (h *Handler) HandleBundleRecommendations(c *fiber.Ctx) error {
	var req models.BundleRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	if err := validation.ValidateStruct(req.Product); err != nil {
		return fail(c, err)
	}

	location := req.Location
	if location == "" {
		location = req.Product.Location
	}
	if location == "" {
		location = h.DefaultLocation
	}

	set := h.Bundles.Recommend(req.Product, location, reference.NormalizeKey(req.Festival), req.ShopkeeperID)
	return success(c, fiber.StatusOK, set)
}

// HandleCreateBundle prices a custom bundle of one primary and up to four combo products.
// POST /api/v1/create-bundle
func (h *Handler) HandleCreateBundle(c *fiber.Ctx) error {
	var req models.CustomBundleRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	if req.Location == "" {
		req.Location = h.DefaultLocation
	}

	bundle, err := h.Bundles.CreateCustomBundle(req)
	if err != nil {
		return fail(c, err)
	}
	return success(c, fiber.StatusCreated, bundle)
}

// HandleSellerRecommendations suggests partner sellers for cross promotion.
// POST /api/v1/seller-recommendations
func (h *Handler) HandleSellerRecommendations(c *fiber.Ctx) error {
	var req models.SellerRecommendationRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	if req.PrimaryProduct.Name == "" && req.PrimaryProduct.Category == "" {
		return fail(c, apperrors.InputValidation("primary_product", "primary_product is required"))
	}
	if req.Location == "" {
		req.Location = h.DefaultLocation
	}
	return success(c, fiber.StatusOK, h.Bundles.SellerRecommendations(req))
}
