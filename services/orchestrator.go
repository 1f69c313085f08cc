package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"deadstock/apperrors"
	"deadstock/logging"
	"deadstock/metrics"
	"deadstock/models"
	"deadstock/reference"
	"deadstock/validation"
)

// Dependencies wires the engine components into an Orchestrator.
type Dependencies struct {
	Health             *HealthScorer
	Locations          *LocationService
	Calendar           *FestivalCalendar
	Discounts          *DiscountEngine
	Bundles            *BundleRecommender
	DefaultLocation    string
	DefaultSeasonality string
	BatchConcurrency   int
}

// Orchestrator runs the rescue pipeline: health, location, festivals, discount, bundles, rescue score.
// Every stage is guarded so one failure degrades the result instead of aborting it.
type Orchestrator struct {
	deps Dependencies
}

func NewOrchestrator(deps Dependencies) *Orchestrator {
	if deps.DefaultLocation == "" {
		deps.DefaultLocation = "mumbai"
	}
	if deps.DefaultSeasonality == "" {
		deps.DefaultSeasonality = "all_year"
	}
	if deps.BatchConcurrency <= 0 {
		deps.BatchConcurrency = 8
	}
	return &Orchestrator{deps: deps}
}

// NewDefaultOrchestrator wires every component over the same reference tables and clock.
func NewDefaultOrchestrator(ref *reference.Tables, now func() time.Time, narrative NarrativeGenerator, narrativeTimeout time.Duration) *Orchestrator {
	return NewOrchestrator(Dependencies{
		Health:    NewHealthScorer(now),
		Locations: NewLocationService(ref),
		Calendar:  NewFestivalCalendar(ref, now, 90),
		Discounts: NewDiscountEngine(narrative, narrativeTimeout),
		Bundles:   NewBundleRecommender(ref, now),
	})
}

type healthOutput struct {
	score    float64
	insights models.HealthInsights
}

// AnalyzeProduct validates the product and produces its unified rescue recommendation.
// Only input validation errors and aggregate failures are returned.
func (o *Orchestrator) AnalyzeProduct(ctx context.Context, input models.ProductInput) (*models.AnalysisResult, error) {
	if err := validation.ValidateStruct(input); err != nil {
		metrics.AnalysesTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}
	p := input.WithDefaults(o.deps.DefaultLocation, o.deps.DefaultSeasonality)

	result, err := o.analyze(ctx, p)
	if err != nil {
		metrics.AnalysesTotal.WithLabelValues("failed").Inc()
		logging.Error().Err(err).Str("product", p.Name).Msg("[ANALYZE] analysis failed")
		return nil, err
	}

	outcome := "ok"
	if len(result.DegradedStages) > 0 {
		outcome = "degraded"
	}
	metrics.AnalysesTotal.WithLabelValues(outcome).Inc()

	logging.Info().
		Str("product", p.Name).
		Str("location", p.Location).
		Float64("health_score", result.HealthScore).
		Float64("discount", result.DiscountRecommendation.RecommendedDiscount).
		Float64("rescue_score", result.RescueScore).
		Strs("degraded_stages", result.DegradedStages).
		Msg("[ANALYZE] analysis complete")
	return result, nil
}

func (o *Orchestrator) analyze(ctx context.Context, p models.ProductInput) (*models.AnalysisResult, error) {
	degraded := make([]string, 0)
	note := func(stage string, d bool) {
		if d {
			degraded = append(degraded, stage)
		}
	}

	health, err := runStage(StageHealth,
		value(func() healthOutput {
			score := o.deps.Health.Score(p)
			return healthOutput{score: score, insights: o.deps.Health.Insights(p, score)}
		}),
		value(func() healthOutput {
			score := FallbackHealth(p.DaysInStock)
			return healthOutput{score: score, insights: o.deps.Health.Insights(p, score)}
		}),
	)
	if err != nil {
		return nil, err
	}
	note(StageHealth, health.Degraded)
	score := health.Value.score

	location, err := runStage(StageLocation,
		value(func() models.LocationInfo { return o.deps.Locations.Info(p.Location) }),
		value(func() models.LocationInfo { return DefaultInfo(p.Location) }),
	)
	if err != nil {
		return nil, err
	}
	note(StageLocation, location.Degraded)

	festivals, err := runStage(StageFestivals,
		value(func() models.FestivalRecommendations { return o.deps.Calendar.Recommendations(p, location.Value) }),
		value(EmptyRecommendations),
	)
	if err != nil {
		return nil, err
	}
	note(StageFestivals, festivals.Degraded)

	opportunities, err := runStage(StageProductOpportunities,
		value(func() models.ProductFestivalOpportunities {
			return o.deps.Calendar.ProductOpportunities(p.Name, p.Location)
		}),
		value(func() models.ProductFestivalOpportunities { return EmptyProductOpportunities(p.Name) }),
	)
	if err != nil {
		return nil, err
	}
	note(StageProductOpportunities, opportunities.Degraded)

	discount, err := runStage(StageDiscount,
		value(func() models.DiscountRecommendation {
			return o.deps.Discounts.Recommend(ctx, p, score, festivals.Value)
		}),
		value(func() models.DiscountRecommendation { return FallbackRecommendation(p, score) }),
	)
	if err != nil {
		return nil, err
	}
	note(StageDiscount, discount.Degraded)

	bundles, err := runStage(StageBundles,
		value(func() models.BundleSet {
			return o.deps.Bundles.Recommend(p, p.Location, o.bundleFestival(festivals.Value), "")
		}),
		value(func() models.BundleSet { return EmptyBundleSet(p.Location) }),
	)
	if err != nil {
		return nil, err
	}
	note(StageBundles, bundles.Degraded)

	rescue, err := runStage(StageRescue,
		value(func() float64 {
			return RescueScore(
				score,
				len(festivals.Value.UpcomingFestivals),
				discount.Value.RecommendedDiscount,
				p.DemandTrend,
				o.deps.Health.Seasonality(p.Category),
			)
		}),
		value(func() float64 { return FallbackRescueScore(score) }),
	)
	if err != nil {
		return nil, err
	}
	note(StageRescue, rescue.Degraded)

	return &models.AnalysisResult{
		Product:                      p,
		HealthScore:                  score,
		HealthStatus:                 HealthStatus(score),
		HealthInsights:               health.Value.insights,
		DiscountRecommendation:       discount.Value,
		FestivalRecommendations:      festivals.Value,
		ProductFestivalOpportunities: opportunities.Value,
		BundleRecommendations:        bundles.Value,
		RescueScore:                  rescue.Value,
		LocationData:                 location.Value,
		DegradedStages:               degraded,
	}, nil
}

// bundleFestival picks the best festival opportunity when a bundle rule exists for it.
func (o *Orchestrator) bundleFestival(recs models.FestivalRecommendations) string {
	if recs.BestOpportunity == nil {
		return ""
	}
	key := recs.BestOpportunity.Key
	if _, ok := o.deps.Bundles.ref.FestivalBundles[key]; ok {
		return key
	}
	return ""
}

// AnalyzeBatch analyzes each product independently with bounded concurrency.
// A failing item is reported in its own entry and never aborts the batch.
func (o *Orchestrator) AnalyzeBatch(ctx context.Context, products []models.ProductInput) []models.BatchItemResult {
	results := make([]models.BatchItemResult, len(products))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.deps.BatchConcurrency)
	for i := range products {
		g.Go(func() error {
			results[i].Index = i
			if err := gctx.Err(); err != nil {
				results[i].Error = ErrorBody(apperrors.Wrap(err, apperrors.CodeAggregateFailure, "batch cancelled"))
				return nil
			}
			res, err := o.AnalyzeProduct(gctx, products[i])
			if err != nil {
				results[i].Error = ErrorBody(err)
				return nil
			}
			results[i].Result = res
			return nil
		})
	}
	_ = g.Wait()

	logging.Info().Int("items", len(products)).Msg("[ANALYZE] batch complete")
	return results
}

// ErrorBody converts an error into its API shape, hiding causes of non user-visible errors.
func ErrorBody(err error) *models.ErrorBody {
	appErr, ok := apperrors.As(err)
	if !ok || !apperrors.IsUserVisible(err) {
		return &models.ErrorBody{
			Code:    string(apperrors.CodeInternal),
			Message: "internal error",
		}
	}
	return &models.ErrorBody{
		Code:    string(appErr.Code),
		Message: appErr.Message,
		Field:   appErr.Field,
	}
}
