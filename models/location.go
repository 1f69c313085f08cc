package models

// CityProfile is the static economic profile of a city.
type CityProfile struct {
	State               string   `json:"state" yaml:"state"`
	Region              string   `json:"region" yaml:"region"`
	Population          int      `json:"population" yaml:"population"`
	AvgIncome           int      `json:"avg_income" yaml:"avg_income"`
	ShoppingPreferences []string `json:"shopping_preferences" yaml:"shopping_preferences"`
	FestivalImportance  []string `json:"festival_importance" yaml:"festival_importance"`
	Climate             string   `json:"climate" yaml:"climate"`
	EconomicZone        string   `json:"economic_zone" yaml:"economic_zone"`
}

// RegionProfile is the static market profile of a region.
type RegionProfile struct {
	GDPPerCapita     int      `json:"gdp_per_capita" yaml:"gdp_per_capita"`
	ConsumerSpending string   `json:"consumer_spending" yaml:"consumer_spending"`
	FestivalCulture  string   `json:"festival_culture" yaml:"festival_culture"`
	ShoppingSeasons  []string `json:"shopping_seasons" yaml:"shopping_seasons"`
}

// LocationInfo is the resolved location context of a request.
type LocationInfo struct {
	City                          string   `json:"city"`
	State                         string   `json:"state"`
	Region                        string   `json:"region"`
	Population                    int      `json:"population"`
	AvgIncome                     int      `json:"avg_income"`
	EconomicZone                  string   `json:"economic_zone"`
	Climate                       string   `json:"climate"`
	ShoppingPreferences           []string `json:"shopping_preferences"`
	FestivalImportance            []string `json:"festival_importance"`
	RegionalGDP                   int      `json:"regional_gdp"`
	ConsumerSpending              string   `json:"consumer_spending"`
	FestivalCulture               string   `json:"festival_culture"`
	ShoppingSeasons               []string `json:"shopping_seasons"`
	SpendingPower                 string   `json:"spending_power"`
	FestivalShoppingPotential     string   `json:"festival_shopping_potential"`
	SeasonalDiscountEffectiveness string   `json:"seasonal_discount_effectiveness"`
	MarketMaturity                string   `json:"market_maturity"`
	Known                         bool     `json:"known"`
}

// RegionalInsights is the market view of a region.
type RegionalInsights struct {
	Region           string            `json:"region"`
	MarketSize       string            `json:"market_size"`
	ConsumerBehavior map[string]string `json:"consumer_behavior"`
	CompetitionLevel string            `json:"competition_level"`
	KeyCompetitors   []string          `json:"key_competitors"`
	MarketGaps       []string          `json:"market_gaps"`
	OpportunityAreas []string          `json:"opportunity_areas"`
}
