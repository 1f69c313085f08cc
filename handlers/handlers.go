package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"deadstock/apperrors"
	"deadstock/logging"
	"deadstock/models"
	"deadstock/services"
	"deadstock/utils"
)

// LedgerStore is the persisted inventory ledger used by the /ledger routes.
type LedgerStore interface {
	Ping(ctx context.Context) error
	RegisterShopkeeper(ctx context.Context, req models.RegisterShopkeeperRequest) (*models.Shopkeeper, error)
	Authenticate(ctx context.Context, userID, password string) (*models.Shopkeeper, error)
	AddProduct(ctx context.Context, userID string, req models.AddProductRequest) (*models.TrackedProduct, error)
	RecordEvent(ctx context.Context, userID string, req models.SaleEventRequest) (*models.EventOutcome, error)
	ListProducts(ctx context.Context, userID string, page, pageSize int) ([]models.TrackedProduct, *utils.Pagination, error)
	History(ctx context.Context, userID string, f models.HistoryFilter) ([]models.HistoryEntry, error)
	Stats(ctx context.Context, userID string) (*models.LedgerStats, error)
	Snapshot(ctx context.Context, userID, sku string) (*models.ProductInput, error)
}

// Handler serves the engine and ledger routes.
type Handler struct {
	Engine    *services.Orchestrator
	Calendar  *services.FestivalCalendar
	Locations *services.LocationService
	Bundles   *services.BundleRecommender

	// Ledger is nil when no database is configured; ledger routes then answer 503.
	Ledger LedgerStore

	DefaultLocation string
	UpcomingDays    int
	// NarrativeModel names the generative model behind discount narratives, "" when formula only.
	NarrativeModel string
}

func success(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{"status": "success", "data": data})
}

// fail writes err in the error envelope. Errors that are not user visible are logged and masked.
func fail(c *fiber.Ctx, err error) error {
	if ledgerUnavailable(err) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":  "error",
			"message": errLedgerDisabled.Message,
			"error":   models.ErrorBody{Code: string(errLedgerDisabled.Code), Message: errLedgerDisabled.Message},
		})
	}

	body := services.ErrorBody(err)
	status := fiber.StatusInternalServerError
	if appErr, ok := apperrors.As(err); ok && apperrors.IsUserVisible(err) {
		status = appErr.StatusCode
	}
	if status >= fiber.StatusInternalServerError {
		logging.Error().Err(err).Str("path", c.Path()).Msg("[HTTP] request failed")
	}
	return c.Status(status).JSON(fiber.Map{
		"status":  "error",
		"message": body.Message,
		"error":   body,
	})
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.InputValidation("body", "Cannot parse JSON")
	}
	return nil
}

var errLedgerDisabled = apperrors.New(apperrors.CodeCollaboratorUnavailable, "ledger is not configured")

func (h *Handler) ledger() (LedgerStore, error) {
	if h.Ledger == nil {
		return nil, errLedgerDisabled
	}
	return h.Ledger, nil
}

func (h *Handler) location(c *fiber.Ctx) string {
	if loc := c.Query("location"); loc != "" {
		return loc
	}
	return h.DefaultLocation
}

// queryInt reads a positive integer query parameter, falling back to def when absent.
func queryInt(c *fiber.Ctx, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, apperrors.InputValidation(name, name+" must be a positive integer")
	}
	return n, nil
}

// ledgerUnavailable reports whether err is the disabled-ledger sentinel.
func ledgerUnavailable(err error) bool {
	return errors.Is(err, errLedgerDisabled)
}
