package routes

import (
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"deadstock/handlers"
	"deadstock/middleware"
)

// SetupRoutes defines all the routes for the application.
func SetupRoutes(app *fiber.App, h *handlers.Handler) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/version", handleVersion)

	api := app.Group("/api/v1")
	api.Get("/health", h.HandleHealth)

	// --- Analysis Routes ---
	api.Post("/analyze-product", h.HandleAnalyzeProduct)
	api.Post("/analyze-batch", h.HandleAnalyzeBatch)

	// --- Festival Routes ---
	api.Get("/festivals", h.HandleFestivals)
	api.Get("/all-festivals", h.HandleAllFestivals)
	api.Get("/festival-countdown", h.HandleFestivalCountdown)
	api.Get("/festival-categories", h.HandleFestivalCategories)
	api.Get("/festival/:key/insights", h.HandleFestivalInsights)
	api.Post("/product-festival-opportunities", h.HandleProductFestivalOpportunities)

	// --- Bundle Routes ---
	api.Get("/shopkeepers", h.HandleShopkeepers)
	api.Post("/bundle-recommendations", h.HandleBundleRecommendations)
	api.Post("/create-bundle", h.HandleCreateBundle)
	api.Post("/seller-recommendations", h.HandleSellerRecommendations)

	// --- Location Routes ---
	api.Get("/locations", h.HandleLocations)
	api.Get("/locations/:name", h.HandleLocation)
	api.Get("/regions/:region/insights", h.HandleRegionalInsights)

	// --- Authentication Routes ---
	auth := api.Group("/auth")
	auth.Post("/register", h.HandleRegister)
	auth.Post("/login", h.HandleLogin)

	// --- Ledger Routes ---
	ledger := api.Group("/ledger", middleware.JWTMiddleware, middleware.ShopkeeperRequired)
	ledger.Get("/products", h.HandleListProducts)
	ledger.Post("/products", h.HandleAddProduct)
	ledger.Post("/products/:sku/events", h.HandleRecordEvent)
	ledger.Post("/products/:sku/analyze", h.HandleAnalyzeLedgerProduct)
	ledger.Get("/history", h.HandleHistory)
	ledger.Get("/history/export", h.HandleExportHistory)
	ledger.Get("/stats", h.HandleStats)
}

func handleVersion(c *fiber.Ctx) error {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return c.Status(fiber.StatusInternalServerError).SendString("no build information available")
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(info.String())
}
