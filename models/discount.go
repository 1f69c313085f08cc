package models

// SalesStrategy is a named promotional tactic.
type SalesStrategy struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// DiscountRecommendation is the output of the discount engine.
type DiscountRecommendation struct {
	RecommendedDiscount float64         `json:"recommended_discount"`
	NewPrice            float64         `json:"new_price"`
	PriceReduction      float64         `json:"price_reduction"`
	ExpectedRevenue     float64         `json:"expected_revenue"`
	RiskScore           float64         `json:"risk_score"`
	HealthStatus        string          `json:"health_status"`
	DiscountCategory    string          `json:"discount_category"`
	Reasoning           []string        `json:"reasoning"`
	SalesStrategies     []SalesStrategy `json:"sales_strategies"`
	Source              string          `json:"source"`
}

// Discount sources.
const (
	DiscountSourceFormula   = "formula"
	DiscountSourceNarrative = "narrative"
	DiscountSourceFallback  = "fallback"
)

// NarrativeContext is what the discount engine hands to a text-generation collaborator.
type NarrativeContext struct {
	ProductName   string   `json:"product_name"`
	Category      string   `json:"category"`
	Price         float64  `json:"price"`
	StockQuantity int      `json:"stock_quantity"`
	DaysInStock   int      `json:"days_in_stock"`
	SalesVelocity float64  `json:"sales_velocity"`
	HealthScore   float64  `json:"health_score"`
	HealthStatus  string   `json:"health_status"`
	Festivals     []string `json:"festivals"`
}

// Narrative is a collaborator-supplied discount with reasoning and strategies.
type Narrative struct {
	Discount   float64         `json:"recommended_discount"`
	Reasoning  string          `json:"reasoning_text"`
	Strategies []SalesStrategy `json:"sales_strategies"`
}
