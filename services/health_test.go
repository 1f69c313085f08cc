package services

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"deadstock/models"
)

func TestHealthScoreScenarioOne(t *testing.T) {
	h := NewHealthScorer(fiveDaysBeforeDiwali)

	score := h.Score(scenarioOneProduct())

	assert.InDelta(t, 0.4505, score, 0.0001)
	assert.Equal(t, StatusAtRisk, HealthStatus(score))
}

func TestHealthScoreBoundaries(t *testing.T) {
	h := NewHealthScorer(clockAt(2025, time.July, 1))

	cases := []struct {
		name string
		in   models.ProductInput
		want float64
	}{
		{"fresh stock", models.ProductInput{Category: "toys", Price: 100}, 0.675},
		{"ancient stock", models.ProductInput{Category: "toys", Price: 100, DaysInStock: 10000}, 0.1875},
		{"empty product", models.ProductInput{}, 0.675},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := h.Score(tc.in)
			assert.False(t, math.IsNaN(got))
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}

	extreme := h.Score(models.ProductInput{
		Category:      "clothing",
		StockQuantity: 1_000_000,
		DemandTrend:   1e6,
		OriginalPrice: 1,
		Price:         1e9,
	})
	assert.GreaterOrEqual(t, extreme, 0.0)
	assert.LessOrEqual(t, extreme, 1.0)
}

func TestHealthScoreFactorDirections(t *testing.T) {
	h := NewHealthScorer(fiveDaysBeforeDiwali)
	base := models.ProductInput{Category: "clothing", Price: 500, OriginalPrice: 1000, StockQuantity: 10, DaysInStock: 30}

	older := base
	older.DaysInStock = 120
	assert.Less(t, h.Score(older), h.Score(base), "older stock scores lower")

	cheaper := base
	cheaper.Price = 200
	assert.Less(t, h.Score(cheaper), h.Score(base), "deeper depreciation scores lower")

	rising := base
	rising.DemandTrend = 1.5
	assert.Greater(t, h.Score(rising), h.Score(base), "rising demand scores higher")

	assert.InDelta(t, 0.5518, h.Score(models.ProductInput{
		Category: "toys", Price: 500, OriginalPrice: 1000, StockQuantity: 10, DaysInStock: 30,
	}), 0.0001)
}

func TestHealthScorePenalties(t *testing.T) {
	h := NewHealthScorer(fiveDaysBeforeDiwali)
	p := models.ProductInput{Category: "clothing", Price: 100, StockQuantity: 10}

	p.DaysInStock = 180
	atSix := h.Score(p)
	p.DaysInStock = 181
	pastSix := h.Score(p)
	assert.Less(t, pastSix, atSix*0.81)

	p.DaysInStock = 10
	p.StockQuantity = 500
	atLimit := h.Score(p)
	p.StockQuantity = 501
	assert.Less(t, h.Score(p), atLimit)
}

func TestSeasonality(t *testing.T) {
	july := NewHealthScorer(clockAt(2025, time.July, 15))
	october := NewHealthScorer(clockAt(2025, time.October, 15))

	assert.Equal(t, 0.8, july.Seasonality("clothing"))
	assert.Equal(t, 0.5, july.Seasonality("electronics"))
	assert.Equal(t, 0.8, october.Seasonality("Electronics"))
	assert.Equal(t, 0.5, october.Seasonality("books"))
	assert.Equal(t, 0.8, NewHealthScorer(clockAt(2025, time.March, 1)).Seasonality("home_decor"))
}

func TestHealthStatusThresholds(t *testing.T) {
	assert.Equal(t, StatusHealthy, HealthStatus(1))
	assert.Equal(t, StatusHealthy, HealthStatus(0.7))
	assert.Equal(t, StatusAtRisk, HealthStatus(0.6999))
	assert.Equal(t, StatusAtRisk, HealthStatus(0.4))
	assert.Equal(t, StatusDead, HealthStatus(0.3999))
	assert.Equal(t, StatusDead, HealthStatus(0))
}

func TestHealthInsights(t *testing.T) {
	h := NewHealthScorer(fiveDaysBeforeDiwali)

	in := h.Insights(models.ProductInput{DaysInStock: 200, StockQuantity: 150, DemandTrend: -1}, 0.25)
	assert.Equal(t, "High", in.RiskLevel)
	assert.Equal(t, []string{
		"Product has been in stock for 200 days",
		"High inventory level: 150 units",
		"Declining demand trend",
	}, in.PrimaryFactors)
	assert.Len(t, in.Recommendations, 3)

	calm := h.Insights(models.ProductInput{DaysInStock: 10, StockQuantity: 5}, 0.9)
	assert.Equal(t, "Low", calm.RiskLevel)
	assert.Empty(t, calm.PrimaryFactors)
	assert.NotNil(t, calm.PrimaryFactors)

	assert.Equal(t, "Medium", h.Insights(models.ProductInput{}, 0.45).RiskLevel)
}

func TestFallbackHealth(t *testing.T) {
	assert.Equal(t, 0.8, FallbackHealth(0))
	assert.Equal(t, 0.6, FallbackHealth(30))
	assert.Equal(t, 0.4, FallbackHealth(90))
	assert.Equal(t, 0.2, FallbackHealth(180))
}
