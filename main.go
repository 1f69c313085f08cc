package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"deadstock/config"
	"deadstock/database"
	"deadstock/handlers"
	"deadstock/logging"
	"deadstock/narrative"
	"deadstock/reference"
	"deadstock/routes"
	"deadstock/services"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("deadstock stopped")
	}
}

func run() error {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		logging.Info().Msg("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	config.AppConfig = *cfg

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ref, err := reference.LoadDir(cfg.Reference.Dir)
	if err != nil {
		return fmt.Errorf("failed to load reference tables: %w", err)
	}
	logging.Info().Int("festivals", len(ref.Festivals)).Int("cities", len(ref.Cities)).Msg("Reference tables loaded")

	var generator services.NarrativeGenerator
	narrativeModel := ""
	if cfg.Gemini.Enabled {
		gemini, err := narrative.NewGemini(ctx, cfg.Gemini)
		if err != nil {
			return err
		}
		defer gemini.Close()
		generator = gemini
		narrativeModel = cfg.Gemini.Model
	}

	now := time.Now
	calendar := services.NewFestivalCalendar(ref, now, cfg.Engine.UpcomingDays)
	locations := services.NewLocationService(ref)
	bundles := services.NewBundleRecommender(ref, now)
	engine := services.NewOrchestrator(services.Dependencies{
		Health:             services.NewHealthScorer(now),
		Locations:          locations,
		Calendar:           calendar,
		Discounts:          services.NewDiscountEngine(generator, cfg.Gemini.Timeout),
		Bundles:            bundles,
		DefaultLocation:    cfg.Engine.DefaultLocation,
		DefaultSeasonality: cfg.Engine.DefaultSeasonality,
		BatchConcurrency:   cfg.Server.BatchConcurrency,
	})

	h := &handlers.Handler{
		Engine:          engine,
		Calendar:        calendar,
		Locations:       locations,
		Bundles:         bundles,
		DefaultLocation: cfg.Engine.DefaultLocation,
		UpcomingDays:    cfg.Engine.UpcomingDays,
		NarrativeModel:  narrativeModel,
	}

	if cfg.Database.Enabled {
		pool, err := database.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		defer database.Close()

		if err := database.Migrate(ctx, pool); err != nil {
			return err
		}
		h.Ledger = database.NewLedger(pool)
	} else {
		logging.Warn().Msg("[LEDGER] DATABASE_URL not set, ledger routes disabled")
	}

	app := routes.NewApp(cfg.Server, h)

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		logging.Info().Str("addr", addr).Bool("narrative", generator != nil).Bool("ledger", h.Ledger != nil).Msg("Server starting")
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}
