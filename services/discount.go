package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"deadstock/apperrors"
	"deadstock/logging"
	"deadstock/metrics"
	"deadstock/models"
)

// Discount bounds, in percent.
const (
	MinDiscount          = 5.0
	MaxDiscount          = 70.0
	MaxNarrativeDiscount = 70.0

	minDailySales    = 0.1
	strategiesNeeded = 4
)

// NarrativeGenerator supplies a discount with prose reasoning and sales strategies.
// Implementations may be slow or fail; the engine treats them as best effort.
type NarrativeGenerator interface {
	GenerateDiscountNarrative(ctx context.Context, in models.NarrativeContext) (*models.Narrative, error)
}

var localStrategies = []models.SalesStrategy{
	{Name: "Clearance Sale", Description: "Aggressively price to clear old stock quickly."},
	{Name: "Limited-Time Offer", Description: "Create urgency with a short-duration discount."},
	{Name: "Bundle with Popular Items", Description: "Pair with fast-moving products to increase perceived value."},
	{Name: "Targeted Promotion", Description: "Offer discount to specific customer segments (e.g., loyal customers)."},
}

// DiscountEngine recommends a markdown from stock risk, health tier and festival timing.
type DiscountEngine struct {
	narrative NarrativeGenerator
	timeout   time.Duration
}

// NewDiscountEngine builds an engine. narrative may be nil, in which case only the formula is used.
func NewDiscountEngine(narrative NarrativeGenerator, timeout time.Duration) *DiscountEngine {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &DiscountEngine{narrative: narrative, timeout: timeout}
}

// RiskScore is the normalized stock risk in [0,1]. Sales velocity floors at 0.1 units/day.
func RiskScore(p models.ProductInput) float64 {
	ads := math.Max(p.SalesVelocity, minDailySales)
	raw := 0.4*float64(p.DaysInStock) + 0.4*(float64(p.StockQuantity)/ads) - 0.2*ads
	return clamp(raw/100, 0, 1)
}

func baseDiscount(health float64) float64 {
	switch HealthStatus(health) {
	case StatusHealthy:
		return 5 * 0.5
	case StatusAtRisk:
		return 15 * 1.0
	default:
		return 30 * 1.5
	}
}

// FormulaDiscount computes the deterministic discount. nearestFestivalDays < 0 means no upcoming festival.
func FormulaDiscount(p models.ProductInput, health float64, nearestFestivalDays int) float64 {
	discount := math.Min(RiskScore(p)*50+baseDiscount(health), MaxDiscount)

	switch {
	case nearestFestivalDays >= 0 && nearestFestivalDays <= 7:
		discount *= 1.1
	case nearestFestivalDays >= 0 && nearestFestivalDays <= 30:
		discount *= 1.05
	}

	switch {
	case p.StockQuantity > 100:
		discount *= 1.1
	case p.StockQuantity < 10:
		discount *= 0.9
	}
	return clamp(discount, MinDiscount, MaxDiscount)
}

// FallbackDiscount is the static discount used when the engine itself cannot run.
func FallbackDiscount(health float64) float64 {
	switch {
	case health < 0.3:
		return 40
	case health < 0.6:
		return 20
	default:
		return 10
	}
}

// DiscountCategory labels a discount percentage.
func DiscountCategory(discount float64) string {
	switch {
	case discount > 30:
		return "High"
	case discount > 15:
		return "Medium"
	default:
		return "Low"
	}
}

// NearestFestivalDays returns the smallest days_until among the festivals, or -1 when there are none.
func NearestFestivalDays(recs models.FestivalRecommendations) int {
	nearest := -1
	for _, f := range recs.UpcomingFestivals {
		if nearest < 0 || f.DaysUntil < nearest {
			nearest = f.DaysUntil
		}
	}
	return nearest
}

func festivalNames(recs models.FestivalRecommendations) []string {
	names := make([]string, 0, len(recs.UpcomingFestivals))
	for _, f := range recs.UpcomingFestivals {
		names = append(names, f.Name)
	}
	return names
}

// Recommend never fails. A narrative is preferred when one is configured and answers in time;
// otherwise the formula decides and a templated explanation is produced.
func (e *DiscountEngine) Recommend(ctx context.Context, p models.ProductInput, health float64, festivals models.FestivalRecommendations) models.DiscountRecommendation {
	nearest := NearestFestivalDays(festivals)
	formula := FormulaDiscount(p, health, nearest)
	names := festivalNames(festivals)

	if e.narrative == nil {
		rec := buildRecommendation(p, formula, health, models.DiscountSourceFormula)
		rec.Reasoning = formulaReasoning(p, health, formula, nearest, names)
		rec.SalesStrategies = append([]models.SalesStrategy(nil), localStrategies...)
		return rec
	}

	n, err := e.callNarrative(ctx, p, health, names)
	if err != nil {
		logging.Warn().
			Err(apperrors.CollaboratorUnavailable("discount_narrative", err)).
			Str("product", p.Name).
			Float64("formula_discount", formula).
			Msg("[DISCOUNT] narrative unavailable, using formula")
		metrics.NarrativeOutcomes.WithLabelValues("fallback").Inc()

		rec := buildRecommendation(p, formula, health, models.DiscountSourceFallback)
		rec.Reasoning = formulaReasoning(p, health, formula, nearest, names)
		rec.SalesStrategies = append([]models.SalesStrategy(nil), localStrategies...)
		return rec
	}

	discount := clamp(n.Discount, 0, MaxNarrativeDiscount)
	rec := buildRecommendation(p, discount, health, models.DiscountSourceNarrative)
	if strings.TrimSpace(n.Reasoning) != "" {
		rec.Reasoning = []string{n.Reasoning}
	} else {
		rec.Reasoning = formulaReasoning(p, health, discount, nearest, names)
	}
	rec.SalesStrategies = PadStrategies(n.Strategies)
	return rec
}

func (e *DiscountEngine) callNarrative(ctx context.Context, p models.ProductInput, health float64, festivals []string) (*models.Narrative, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	n, err := e.narrative.GenerateDiscountNarrative(ctx, models.NarrativeContext{
		ProductName:   p.Name,
		Category:      p.Category,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		DaysInStock:   p.DaysInStock,
		SalesVelocity: p.SalesVelocity,
		HealthScore:   health,
		HealthStatus:  HealthStatus(health),
		Festivals:     festivals,
	})
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, errors.New("narrative generator returned no result")
	}
	if math.IsNaN(n.Discount) || math.IsInf(n.Discount, 0) {
		return nil, fmt.Errorf("narrative discount %v is not a number", n.Discount)
	}
	return n, nil
}

// FallbackRecommendation is the discount stage output when the engine panics or errors.
func FallbackRecommendation(p models.ProductInput, health float64) models.DiscountRecommendation {
	discount := FallbackDiscount(health)
	rec := buildRecommendation(p, discount, health, models.DiscountSourceFallback)
	rec.Reasoning = []string{fmt.Sprintf(
		"Based on the product's %s health status (score: %.1f%%), a %.0f%% discount is recommended to move existing stock.",
		HealthStatus(health), health*100, discount,
	)}
	rec.SalesStrategies = append([]models.SalesStrategy(nil), localStrategies...)
	return rec
}

func buildRecommendation(p models.ProductInput, discount, health float64, source string) models.DiscountRecommendation {
	newPrice := p.Price * (1 - discount/100)
	return models.DiscountRecommendation{
		RecommendedDiscount: discount,
		NewPrice:            newPrice,
		PriceReduction:      p.Price - newPrice,
		ExpectedRevenue:     newPrice * float64(p.StockQuantity),
		RiskScore:           RiskScore(p) * 100,
		HealthStatus:        HealthStatus(health),
		DiscountCategory:    DiscountCategory(discount),
		Source:              source,
	}
}

func formulaReasoning(p models.ProductInput, health, discount float64, nearest int, festivals []string) []string {
	promo := "general"
	if len(festivals) > 0 {
		promo = strings.Join(festivals, ", ")
	}
	lines := []string{fmt.Sprintf(
		"Based on the product's %s health status (score: %.1f%%) and a sales velocity of %.2f units/day, "+
			"a %.1f%% discount is recommended. This aims to quickly move existing stock, reduce holding costs, "+
			"and free up capital. Consider leveraging any %s promotional periods for maximum impact.",
		HealthStatus(health), health*100, p.SalesVelocity, discount, promo,
	)}

	lines = append(lines, fmt.Sprintf("Stock risk score is %.0f/100 after %d days in stock.", RiskScore(p)*100, p.DaysInStock))
	switch {
	case nearest >= 0 && nearest <= 7:
		lines = append(lines, fmt.Sprintf("A festival is %d days away, so the discount was raised for last-minute demand.", nearest))
	case nearest >= 0 && nearest <= 30:
		lines = append(lines, fmt.Sprintf("A festival is %d days away, so the discount was raised slightly.", nearest))
	}
	switch {
	case p.StockQuantity > 100:
		lines = append(lines, fmt.Sprintf("High inventory of %d units calls for a deeper markdown.", p.StockQuantity))
	case p.StockQuantity < 10:
		lines = append(lines, fmt.Sprintf("Only %d units remain, so the markdown was softened.", p.StockQuantity))
	}
	return lines
}

// PadStrategies returns exactly four strategies, filling gaps with generic entries.
func PadStrategies(in []models.SalesStrategy) []models.SalesStrategy {
	out := make([]models.SalesStrategy, 0, strategiesNeeded)
	for _, s := range in {
		if len(out) == strategiesNeeded {
			break
		}
		out = append(out, s)
	}
	for len(out) < strategiesNeeded {
		out = append(out, models.SalesStrategy{
			Name:        fmt.Sprintf("Generic Strategy %d", len(out)+1),
			Description: "Consider a general promotional tactic to boost sales.",
		})
	}
	return out
}
