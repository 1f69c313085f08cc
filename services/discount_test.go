package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deadstock/models"
	"deadstock/narrative"
)

func festivalsAt(days ...int) models.FestivalRecommendations {
	recs := EmptyRecommendations()
	for i, d := range days {
		recs.UpcomingFestivals = append(recs.UpcomingFestivals, models.RelevantFestival{
			FestivalOpportunity: models.FestivalOpportunity{
				Key:       "festival_" + string(rune('a'+i)),
				Name:      "Festival " + string(rune('A'+i)),
				DaysUntil: d,
			},
		})
	}
	recs.TotalOpportunities = len(recs.UpcomingFestivals)
	return recs
}

func TestRiskScore(t *testing.T) {
	p := scenarioOneProduct()
	assert.Equal(t, 1.0, RiskScore(p))

	slow := models.ProductInput{StockQuantity: 0, DaysInStock: 0, SalesVelocity: 0}
	assert.Equal(t, 0.0, RiskScore(slow), "negative raw risk clamps to zero")

	noSales := models.ProductInput{StockQuantity: 1, DaysInStock: 10, SalesVelocity: 0}
	got := RiskScore(noSales)
	assert.False(t, math.IsInf(got, 0))
	assert.InDelta(t, (4+4-0.02)/100, got, 1e-9)
}

func TestFormulaDiscountScenarioOne(t *testing.T) {
	p := scenarioOneProduct()
	health := NewHealthScorer(fiveDaysBeforeDiwali).Score(p)
	require.Equal(t, StatusAtRisk, HealthStatus(health))

	// Risk saturates at 1.0: 50 + 15 for the At Risk tier.
	assert.InDelta(t, 65.0, FormulaDiscount(p, health, -1), 1e-9)
	assert.InDelta(t, 68.25, FormulaDiscount(p, health, 20), 1e-9)
	assert.InDelta(t, 70.0, FormulaDiscount(p, health, 3), 1e-9, "clamped at the ceiling")

	// The health-only stage fallback is what lands in the 15-35 band for this product.
	assert.Equal(t, 20.0, FallbackDiscount(health))
	assert.Equal(t, 20.0, FallbackRecommendation(p, health).RecommendedDiscount)
}

func TestFormulaDiscountScenarioTwo(t *testing.T) {
	p := models.ProductInput{Name: "Silk Scarf", Category: "accessories", Price: 500, StockQuantity: 20, DaysInStock: 10, SalesVelocity: 5}

	without := FormulaDiscount(p, 0.2, -1)
	with := FormulaDiscount(p, 0.2, 5)

	assert.InDelta(t, 47.3, without, 1e-9)
	assert.InDelta(t, 52.03, with, 1e-9)
	assert.Greater(t, with, without)
}

func TestFormulaDiscountStockMultipliers(t *testing.T) {
	p := models.ProductInput{Price: 100, StockQuantity: 5, DaysInStock: 0, SalesVelocity: 100}
	assert.InDelta(t, MinDiscount, FormulaDiscount(p, 0.9, -1), 1e-9, "healthy and low stock clamps at the floor")

	p.StockQuantity = 101
	p.SalesVelocity = 1000
	assert.InDelta(t, 15*1.1, FormulaDiscount(p, 0.5, -1), 1e-9)
}

func TestFormulaDiscountAlwaysInBand(t *testing.T) {
	for _, days := range []int{0, 1, 90, 365, 10000} {
		for _, stock := range []int{0, 5, 50, 500, 100000} {
			for _, velocity := range []float64{0, 0.1, 3, 1000} {
				for _, health := range []float64{0, 0.39, 0.4, 0.7, 1} {
					for _, nearest := range []int{-1, 0, 7, 30, 90} {
						p := models.ProductInput{Price: 250, StockQuantity: stock, DaysInStock: days, SalesVelocity: velocity}
						d := FormulaDiscount(p, health, nearest)
						assert.GreaterOrEqual(t, d, MinDiscount)
						assert.LessOrEqual(t, d, MaxDiscount)
					}
				}
			}
		}
	}
}

func TestRecommendWithoutNarrative(t *testing.T) {
	engine := NewDiscountEngine(nil, time.Second)
	p := scenarioOneProduct()

	rec := engine.Recommend(context.Background(), p, 0.45, EmptyRecommendations())

	assert.Equal(t, models.DiscountSourceFormula, rec.Source)
	assert.InDelta(t, 65.0, rec.RecommendedDiscount, 1e-9)
	assert.Equal(t, p.Price*(1-rec.RecommendedDiscount/100), rec.NewPrice)
	assert.Equal(t, p.Price-rec.NewPrice, rec.PriceReduction)
	assert.Equal(t, rec.NewPrice*float64(p.StockQuantity), rec.ExpectedRevenue)
	assert.Equal(t, 100.0, rec.RiskScore)
	assert.Equal(t, StatusAtRisk, rec.HealthStatus)
	assert.Equal(t, "High", rec.DiscountCategory)
	assert.Len(t, rec.SalesStrategies, 4)
	require.NotEmpty(t, rec.Reasoning)
	assert.Contains(t, rec.Reasoning[0], "At Risk health status (score: 45.0%)")
	assert.Contains(t, rec.Reasoning[0], "general promotional periods")
}

func TestRecommendNarrativeTimeoutFallsBackToFormula(t *testing.T) {
	engine := NewDiscountEngine(blockingNarrative, 10*time.Millisecond)
	p := scenarioOneProduct()
	festivals := festivalsAt(5)

	rec := engine.Recommend(context.Background(), p, 0.45, festivals)

	assert.Equal(t, models.DiscountSourceFallback, rec.Source)
	assert.Equal(t, FormulaDiscount(p, 0.45, 5), rec.RecommendedDiscount)
	assert.Len(t, rec.SalesStrategies, 4)
	require.NotEmpty(t, rec.Reasoning)
	assert.NotEmpty(t, rec.Reasoning[0])
	assert.Contains(t, rec.Reasoning[0], "Festival A")
}

func TestRecommendNarrativeErrorFallsBack(t *testing.T) {
	failing := narrativeFunc(func(context.Context, models.NarrativeContext) (*models.Narrative, error) {
		return nil, errors.New("quota exceeded")
	})
	engine := NewDiscountEngine(failing, time.Second)

	rec := engine.Recommend(context.Background(), scenarioOneProduct(), 0.45, EmptyRecommendations())
	assert.Equal(t, models.DiscountSourceFallback, rec.Source)
	assert.InDelta(t, 65.0, rec.RecommendedDiscount, 1e-9)
	assert.Equal(t, "Clearance Sale", rec.SalesStrategies[0].Name)
}

func TestRecommendNarrativeIsClampedAndPadded(t *testing.T) {
	var seen models.NarrativeContext
	generous := narrativeFunc(func(_ context.Context, in models.NarrativeContext) (*models.Narrative, error) {
		seen = in
		return &models.Narrative{
			Discount:  90,
			Reasoning: "Festive demand is close; clear stock aggressively.",
			Strategies: []models.SalesStrategy{
				{Name: "Diwali Flash Sale", Description: "Two-day flash sale."},
				{Name: "Kurti + Dupatta", Description: "Bundle with dupattas."},
			},
		}, nil
	})
	engine := NewDiscountEngine(generous, time.Second)
	p := scenarioOneProduct()

	rec := engine.Recommend(context.Background(), p, 0.45, festivalsAt(5, 40))

	assert.Equal(t, models.DiscountSourceNarrative, rec.Source)
	assert.Equal(t, MaxNarrativeDiscount, rec.RecommendedDiscount)
	assert.Equal(t, []string{"Festive demand is close; clear stock aggressively."}, rec.Reasoning)
	require.Len(t, rec.SalesStrategies, 4)
	assert.Equal(t, "Diwali Flash Sale", rec.SalesStrategies[0].Name)
	assert.Equal(t, "Generic Strategy 3", rec.SalesStrategies[2].Name)
	assert.Equal(t, "Generic Strategy 4", rec.SalesStrategies[3].Name)

	assert.Equal(t, p.Name, seen.ProductName)
	assert.Equal(t, StatusAtRisk, seen.HealthStatus)
	assert.Equal(t, []string{"Festival A", "Festival B"}, seen.Festivals)
}

func TestRecommendNarrativeNegativeDiscountClampsToZero(t *testing.T) {
	stingy := narrativeFunc(func(context.Context, models.NarrativeContext) (*models.Narrative, error) {
		return &models.Narrative{Discount: -15}, nil
	})
	engine := NewDiscountEngine(stingy, time.Second)
	p := scenarioOneProduct()

	rec := engine.Recommend(context.Background(), p, 0.8, EmptyRecommendations())

	assert.Equal(t, 0.0, rec.RecommendedDiscount)
	assert.Equal(t, p.Price, rec.NewPrice)
	assert.Equal(t, "Low", rec.DiscountCategory)
	assert.NotEmpty(t, rec.Reasoning[0], "templated reasoning fills an empty narrative")
	assert.Len(t, rec.SalesStrategies, 4)
}

func TestRecommendNarrativeNilResultFallsBack(t *testing.T) {
	empty := narrativeFunc(func(context.Context, models.NarrativeContext) (*models.Narrative, error) {
		return nil, nil
	})
	rec := NewDiscountEngine(empty, time.Second).Recommend(context.Background(), scenarioOneProduct(), 0.45, EmptyRecommendations())
	assert.Equal(t, models.DiscountSourceFallback, rec.Source)
}

func TestRecommendNarrativeWithoutDiscountFallsBack(t *testing.T) {
	partial := narrativeFunc(func(context.Context, models.NarrativeContext) (*models.Narrative, error) {
		return narrative.ParseNarrative(`{"reasoning_text": "clear it"}`)
	})
	p := scenarioOneProduct()

	rec := NewDiscountEngine(partial, time.Second).Recommend(context.Background(), p, 0.45, festivalsAt(5))

	assert.Equal(t, models.DiscountSourceFallback, rec.Source)
	assert.Equal(t, FormulaDiscount(p, 0.45, 5), rec.RecommendedDiscount)
	assert.Equal(t, 70.0, rec.RecommendedDiscount)
	assert.Len(t, rec.SalesStrategies, 4)
}

func TestPadStrategies(t *testing.T) {
	assert.Len(t, PadStrategies(nil), 4)

	six := make([]models.SalesStrategy, 6)
	for i := range six {
		six[i] = models.SalesStrategy{Name: "S"}
	}
	assert.Len(t, PadStrategies(six), 4)
}

func TestDiscountCategoryAndFallback(t *testing.T) {
	assert.Equal(t, "High", DiscountCategory(30.5))
	assert.Equal(t, "Medium", DiscountCategory(30))
	assert.Equal(t, "Medium", DiscountCategory(15.5))
	assert.Equal(t, "Low", DiscountCategory(15))

	assert.Equal(t, 40.0, FallbackDiscount(0.1))
	assert.Equal(t, 20.0, FallbackDiscount(0.3))
	assert.Equal(t, 10.0, FallbackDiscount(0.6))

	rec := FallbackRecommendation(scenarioOneProduct(), 0.1)
	assert.Equal(t, 40.0, rec.RecommendedDiscount)
	assert.Equal(t, 600.0, rec.NewPrice)
	assert.Equal(t, models.DiscountSourceFallback, rec.Source)
	assert.Len(t, rec.SalesStrategies, 4)
}

func TestNearestFestivalDays(t *testing.T) {
	assert.Equal(t, -1, NearestFestivalDays(EmptyRecommendations()))
	assert.Equal(t, 3, NearestFestivalDays(festivalsAt(40, 3, 12)))
}
