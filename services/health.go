package services

import (
	"fmt"
	"math"
	"strings"
	"time"

	"deadstock/models"
)

// Health status labels and their thresholds.
const (
	StatusHealthy = "Healthy"
	StatusAtRisk  = "At Risk"
	StatusDead    = "Dead"

	HealthyThreshold = 0.7
	AtRiskThreshold  = 0.4
)

// seasonalWindows lists, per category, the months in which demand is seasonally high.
var seasonalWindows = map[string][][]time.Month{
	"clothing": {
		{time.March, time.April, time.May, time.June},
		{time.November, time.December, time.January, time.February},
		{time.July, time.August, time.September},
		{time.October, time.November},
	},
	"electronics": {
		{time.October, time.November, time.December},
		{time.May, time.June},
		{time.December, time.January},
	},
	"home_decor": {
		{time.October, time.November, time.December},
		{time.November, time.December, time.January, time.February},
		{time.February, time.March, time.April},
	},
}

// HealthScorer turns stock age, price depreciation, demand trend and quantity into a [0,1] score.
type HealthScorer struct {
	now func() time.Time
}

func NewHealthScorer(now func() time.Time) *HealthScorer {
	if now == nil {
		now = time.Now
	}
	return &HealthScorer{now: now}
}

// Score never fails; absent inputs count as zero.
func (h *HealthScorer) Score(p models.ProductInput) float64 {
	days := float64(p.DaysInStock)

	depreciation := 0.0
	if p.OriginalPrice > 0 {
		depreciation = (p.OriginalPrice - p.Price) / p.OriginalPrice
	}
	quantityLevel := math.Min(float64(p.StockQuantity)/1000, 1)

	score := 0.3*(1-math.Min(days/365, 1)) +
		0.2*(1-depreciation) +
		0.2*(0.5+0.5*math.Tanh(p.DemandTrend)) +
		0.15*quantityLevel +
		0.15*h.Seasonality(p.Category)

	switch {
	case p.DaysInStock > 365:
		score *= 0.5
	case p.DaysInStock > 180:
		score *= 0.8
	}
	if p.StockQuantity > 500 {
		score *= 0.9
	}
	return clamp(score, 0, 1)
}

// Seasonality is 0.8 when the current month falls in one of the category's seasonal windows, else 0.5.
func (h *HealthScorer) Seasonality(category string) float64 {
	windows, ok := seasonalWindows[strings.ToLower(strings.TrimSpace(category))]
	if !ok {
		return 0.5
	}
	month := h.now().Month()
	for _, w := range windows {
		for _, m := range w {
			if m == month {
				return 0.8
			}
		}
	}
	return 0.5
}

// HealthStatus maps a score to its label.
func HealthStatus(score float64) string {
	switch {
	case score >= HealthyThreshold:
		return StatusHealthy
	case score >= AtRiskThreshold:
		return StatusAtRisk
	default:
		return StatusDead
	}
}

// Insights lists the factors dragging the score down and what to do about them.
func (h *HealthScorer) Insights(p models.ProductInput, score float64) models.HealthInsights {
	in := models.HealthInsights{
		PrimaryFactors:  []string{},
		Recommendations: []string{},
		RiskLevel:       "Low",
	}

	if p.DaysInStock > 180 {
		in.PrimaryFactors = append(in.PrimaryFactors, fmt.Sprintf("Product has been in stock for %d days", p.DaysInStock))
		in.Recommendations = append(in.Recommendations, "Consider aggressive discounting or bundling")
	}
	if p.StockQuantity > 100 {
		in.PrimaryFactors = append(in.PrimaryFactors, fmt.Sprintf("High inventory level: %d units", p.StockQuantity))
		in.Recommendations = append(in.Recommendations, "Implement bulk purchase incentives")
	}
	if p.DemandTrend < -0.5 {
		in.PrimaryFactors = append(in.PrimaryFactors, "Declining demand trend")
		in.Recommendations = append(in.Recommendations, "Focus on seasonal promotions")
	}

	switch {
	case score < 0.3:
		in.RiskLevel = "High"
	case score < 0.6:
		in.RiskLevel = "Medium"
	}
	return in
}

// FallbackHealth estimates health from stock age alone.
func FallbackHealth(daysInStock int) float64 {
	switch {
	case daysInStock < 30:
		return 0.8
	case daysInStock < 90:
		return 0.6
	case daysInStock < 180:
		return 0.4
	default:
		return 0.2
	}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(v, hi))
}
