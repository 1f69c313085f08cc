package models

// HealthInsights explains what drives a product's health score.
type HealthInsights struct {
	PrimaryFactors  []string `json:"primary_factors"`
	Recommendations []string `json:"recommendations"`
	RiskLevel       string   `json:"risk_level"`
}

// AnalysisResult is the unified rescue recommendation for one product.
type AnalysisResult struct {
	Product                      ProductInput                 `json:"product"`
	HealthScore                  float64                      `json:"health_score"`
	HealthStatus                 string                       `json:"health_status"`
	HealthInsights               HealthInsights               `json:"health_insights"`
	DiscountRecommendation       DiscountRecommendation       `json:"discount_recommendation"`
	FestivalRecommendations      FestivalRecommendations      `json:"festival_recommendations"`
	ProductFestivalOpportunities ProductFestivalOpportunities `json:"product_festival_opportunities"`
	BundleRecommendations        BundleSet                    `json:"bundle_recommendations"`
	RescueScore                  float64                      `json:"rescue_score"`
	LocationData                 LocationInfo                 `json:"location_data"`
	DegradedStages               []string                     `json:"degraded_stages"`
}
