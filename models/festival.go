package models

// Festival is a recurring calendar event as stored in the reference table.
type Festival struct {
	Key              string   `json:"key" yaml:"key"`
	Name             string   `json:"name" yaml:"name"`
	Month            int      `json:"month" yaml:"month"`
	Day              int      `json:"day" yaml:"day"`
	Regions          []string `json:"regions" yaml:"regions"`
	Duration         int      `json:"duration" yaml:"duration"`
	Category         string   `json:"category" yaml:"category"`
	ShoppingPeriod   int      `json:"shopping_period" yaml:"shopping_period"`
	Description      string   `json:"description" yaml:"description"`
	TrendingKeywords []string `json:"trending_keywords,omitempty" yaml:"trending_keywords"`
}

// PrimaryRegion is the first listed region of the festival.
func (f Festival) PrimaryRegion() string {
	if len(f.Regions) == 0 {
		return ""
	}
	return f.Regions[0]
}

// FestivalOpportunity is a festival resolved against a date and location.
type FestivalOpportunity struct {
	Key              string   `json:"key"`
	Name             string   `json:"name"`
	Date             string   `json:"date"`
	DaysUntil        int      `json:"days_until"`
	Duration         int      `json:"duration"`
	Category         string   `json:"category"`
	ShoppingPeriod   int      `json:"shopping_period"`
	Region           string   `json:"region"`
	Regions          []string `json:"regions"`
	Description      string   `json:"description"`
	TrendingKeywords []string `json:"trending_keywords"`
	UrgencyLevel     string   `json:"urgency_level"`
	IsRegional       bool     `json:"is_regional"`
}

// RelevantFestival is an upcoming festival scored against a product.
type RelevantFestival struct {
	FestivalOpportunity
	RelevanceScore float64  `json:"relevance_score"`
	DemandBoost    float64  `json:"demand_boost"`
	PromotionIdeas []string `json:"promotion_ideas"`
}

// FestivalRecommendations is the matcher output used by the orchestrator.
type FestivalRecommendations struct {
	UpcomingFestivals  []RelevantFestival `json:"upcoming_festivals"`
	TotalOpportunities int                `json:"total_opportunities"`
	BestOpportunity    *RelevantFestival  `json:"best_opportunity"`
}

// ProductFestivalOpportunity is one entry of the per-product festival lookup.
type ProductFestivalOpportunity struct {
	FestivalName     string   `json:"festival_name"`
	FestivalKey      string   `json:"festival_key"`
	Date             string   `json:"date"`
	DaysUntil        int      `json:"days_until"`
	Duration         int      `json:"duration"`
	Category         string   `json:"category"`
	PromotionReason  string   `json:"promotion_reason"`
	IsRegional       bool     `json:"is_regional"`
	UrgencyLevel     string   `json:"urgency_level"`
	ShoppingPeriod   int      `json:"shopping_period"`
	TrendingKeywords []string `json:"trending_keywords"`
}

// ProductFestivalOpportunities groups the per-product lookup results.
type ProductFestivalOpportunities struct {
	ProductName           string                       `json:"product_name"`
	TotalOpportunities    int                          `json:"total_opportunities"`
	Opportunities         []ProductFestivalOpportunity `json:"opportunities"`
	BestOpportunity       *ProductFestivalOpportunity  `json:"best_opportunity"`
	RegionalOpportunities []ProductFestivalOpportunity `json:"regional_opportunities"`
	NationalOpportunities []ProductFestivalOpportunity `json:"national_opportunities"`
}

// FestivalCountdown is the response of the countdown endpoint.
type FestivalCountdown struct {
	Location       string                `json:"location"`
	DaysAhead      int                   `json:"days_ahead"`
	Festivals      []FestivalOpportunity `json:"festivals"`
	TotalFestivals int                   `json:"total_festivals"`
}

// FestivalCategory groups festivals by category.
type FestivalCategory struct {
	Key       string                `json:"key"`
	Name      string                `json:"name"`
	Count     int                   `json:"count"`
	Festivals []FestivalCategoryRef `json:"festivals"`
}

type FestivalCategoryRef struct {
	Name         string `json:"name"`
	DaysUntil    int    `json:"days_until"`
	UrgencyLevel string `json:"urgency_level"`
}

// TrendingData is the keyword and product trend view of a festival.
type TrendingData struct {
	FestivalName         string   `json:"festival_name"`
	TrendingKeywords     []string `json:"trending_keywords"`
	SearchVolume         int      `json:"search_volume"`
	TrendingProducts     []string `json:"trending_products"`
	PromotionSuggestions []string `json:"promotion_suggestions"`
}

// FestivalInsights is the full insight view of one festival.
type FestivalInsights struct {
	Festival                 Festival     `json:"festival_info"`
	Date                     string       `json:"date"`
	DaysUntil                int          `json:"days_until"`
	IsRegional               bool         `json:"is_regional"`
	UrgencyLevel             string       `json:"urgency_level"`
	TrendingData             TrendingData `json:"trending_data"`
	MarketingOpportunities   []string     `json:"marketing_opportunities"`
	InventoryRecommendations []string     `json:"inventory_recommendations"`
}
