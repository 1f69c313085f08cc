package handlers

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"deadstock/apperrors"
	"deadstock/database"
	"deadstock/middleware"
	"deadstock/models"
	"deadstock/validation"
)

// HandleAddProduct registers stock in the caller's ledger.
// POST /api/v1/ledger/products
func (h *Handler) HandleAddProduct(c *fiber.Ctx) error {
	ledger, err := h.ledger()
	if err != nil {
		return fail(c, err)
	}

	var req models.AddProductRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	if err := validation.ValidateStruct(req); err != nil {
		return fail(c, err)
	}

	product, err := ledger.AddProduct(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return fail(c, err)
	}
	return success(c, fiber.StatusCreated, product)
}

// HandleListProducts lists the caller's products.
// GET /api/v1/ledger/products?page=&page_size=
func (h *Handler) HandleListProducts(c *fiber.Ctx) error {
	ledger, err := h.ledger()
	if err != nil {
		return fail(c, err)
	}

	page, err := queryInt(c, "page", 1)
	if err != nil {
		return fail(c, err)
	}
	pageSize, err := queryInt(c, "page_size", 20)
	if err != nil {
		return fail(c, err)
	}

	products, pagination, err := ledger.ListProducts(c.UserContext(), middleware.UserID(c), page, pageSize)
	if err != nil {
		return fail(c, err)
	}
	return success(c, fiber.StatusOK, fiber.Map{"products": products, "pagination": pagination})
}

// HandleRecordEvent records a sale, restock or adjustment for one SKU.
// POST /api/v1/ledger/products/:sku/events
func (h *Handler) HandleRecordEvent(c *fiber.Ctx) error {
	ledger, err := h.ledger()
	if err != nil {
		return fail(c, err)
	}

	var req models.SaleEventRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	// Params point into the request buffer; the SKU outlives it in logs and outcomes.
	req.SKU = strings.Clone(c.Params("sku"))
	if err := validation.ValidateStruct(req); err != nil {
		return fail(c, err)
	}

	outcome, err := ledger.RecordEvent(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return fail(c, err)
	}
	return success(c, fiber.StatusCreated, fiber.Map{
		"event":   outcome,
		"message": fmt.Sprintf("%s recorded successfully", outcome.EventType),
	})
}

// HandleHistory returns the caller's stock movements, newest first.
// GET /api/v1/ledger/history?sku=&start=&end=
func (h *Handler) HandleHistory(c *fiber.Ctx) error {
	ledger, err := h.ledger()
	if err != nil {
		return fail(c, err)
	}
	filter, err := historyFilter(c)
	if err != nil {
		return fail(c, err)
	}

	history, err := ledger.History(c.UserContext(), middleware.UserID(c), filter)
	if err != nil {
		return fail(c, err)
	}
	return success(c, fiber.StatusOK, fiber.Map{"history": history, "total": len(history)})
}

// HandleExportHistory streams the filtered history as a CSV attachment.
// GET /api/v1/ledger/history/export?sku=&start=&end=
func (h *Handler) HandleExportHistory(c *fiber.Ctx) error {
	ledger, err := h.ledger()
	if err != nil {
		return fail(c, err)
	}
	filter, err := historyFilter(c)
	if err != nil {
		return fail(c, err)
	}

	userID := middleware.UserID(c)
	history, err := ledger.History(c.UserContext(), userID, filter)
	if err != nil {
		return fail(c, err)
	}
	if len(history) == 0 {
		return fail(c, apperrors.NotFound("No history to export"))
	}

	var buf bytes.Buffer
	if err := database.WriteHistoryCSV(&buf, history); err != nil {
		return fail(c, apperrors.Internal(err, "Could not export history"))
	}

	filename := fmt.Sprintf("product_history_%s_%s.csv", userID, time.Now().Format("20060102_150405"))
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Attachment(filename)
	return c.Send(buf.Bytes())
}

// HandleStats summarises the caller's ledger.
// GET /api/v1/ledger/stats
func (h *Handler) HandleStats(c *fiber.Ctx) error {
	ledger, err := h.ledger()
	if err != nil {
		return fail(c, err)
	}

	stats, err := ledger.Stats(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return success(c, fiber.StatusOK, stats)
}

// HandleAnalyzeLedgerProduct runs the rescue analysis on a persisted product.
// POST /api/v1/ledger/products/:sku/analyze
func (h *Handler) HandleAnalyzeLedgerProduct(c *fiber.Ctx) error {
	ledger, err := h.ledger()
	if err != nil {
		return fail(c, err)
	}

	input, err := ledger.Snapshot(c.UserContext(), middleware.UserID(c), c.Params("sku"))
	if err != nil {
		return fail(c, err)
	}

	result, err := h.Engine.AnalyzeProduct(c.UserContext(), *input)
	if err != nil {
		return fail(c, err)
	}
	return success(c, fiber.StatusOK, result)
}

// historyFilter reads sku, start and end. Dates are YYYY-MM-DD or RFC 3339; a bare end date covers the whole day.
func historyFilter(c *fiber.Ctx) (models.HistoryFilter, error) {
	f := models.HistoryFilter{SKU: strings.Clone(strings.TrimSpace(c.Query("sku")))}

	if raw := c.Query("start"); raw != "" {
		t, _, err := parseDate(raw)
		if err != nil {
			return f, apperrors.InputValidation("start", "start must be a date (YYYY-MM-DD)")
		}
		f.Start = &t
	}
	if raw := c.Query("end"); raw != "" {
		t, dateOnly, err := parseDate(raw)
		if err != nil {
			return f, apperrors.InputValidation("end", "end must be a date (YYYY-MM-DD)")
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		f.End = &t
	}
	if f.Start != nil && f.End != nil && f.End.Before(*f.Start) {
		return f, apperrors.InputValidation("end", "end must not be before start")
	}
	return f, nil
}

func parseDate(raw string) (time.Time, bool, error) {
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	return t, false, err
}
