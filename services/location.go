package services

import (
	"sort"
	"strings"

	"deadstock/models"
	"deadstock/reference"
)

// DefaultCity is what unknown locations resolve to.
var DefaultCity = models.CityProfile{
	State:               "Unknown",
	Region:              reference.AllIndia,
	Population:          1000000,
	AvgIncome:           300000,
	ShoppingPreferences: []string{"general_items"},
	FestivalImportance:  []string{"diwali", "christmas"},
	Climate:             "tropical",
	EconomicZone:        "tier2",
}

var (
	marketSizes = map[string]string{
		"maharashtra":    "large",
		"north_india":    "very_large",
		"karnataka":      "large",
		"tamil_nadu":     "medium",
		"west_bengal":    "medium",
		"andhra_pradesh": "medium",
		"gujarat":        "large",
	}

	consumerBehaviors = map[string]map[string]string{
		"maharashtra": {
			"price_sensitivity":   "moderate",
			"brand_consciousness": "high",
			"online_shopping":     "high",
			"festival_spending":   "high",
		},
		"north_india": {
			"price_sensitivity":   "low",
			"brand_consciousness": "very_high",
			"online_shopping":     "high",
			"festival_spending":   "very_high",
		},
		"karnataka": {
			"price_sensitivity":   "moderate",
			"brand_consciousness": "high",
			"online_shopping":     "very_high",
			"festival_spending":   "moderate",
		},
	}

	competitionLevels = map[string]string{
		"maharashtra":    "high",
		"north_india":    "very_high",
		"karnataka":      "high",
		"tamil_nadu":     "moderate",
		"west_bengal":    "moderate",
		"andhra_pradesh": "moderate",
		"gujarat":        "high",
	}

	marketGaps = map[string][]string{
		"maharashtra": {"Premium Ethnic Wear", "Tech Accessories", "Home Decor"},
		"north_india": {"Western Fashion", "Electronics", "Luxury Items"},
		"karnataka":   {"Traditional Items", "Festival Collections", "Gift Items"},
	}

	opportunityAreas = map[string][]string{
		"maharashtra": {"Festival Bundles", "Tech + Fashion Combos", "Premium Collections"},
		"north_india": {"Wedding Collections", "Festival Specials", "Luxury Bundles"},
		"karnataka":   {"Traditional + Modern Mix", "Tech Accessories", "Festival Items"},
	}
)

// LocationService resolves city names to economic and regional context.
type LocationService struct {
	ref *reference.Tables
}

func NewLocationService(ref *reference.Tables) *LocationService {
	return &LocationService{ref: ref}
}

// Info never fails: unknown cities get the default profile with Known=false.
func (s *LocationService) Info(name string) models.LocationInfo {
	key := reference.NormalizeKey(name)
	city, known := s.ref.Cities[key]
	if !known {
		city = DefaultCity
	}
	return s.build(key, city, known)
}

// DefaultInfo is the location context used when resolution itself fails.
func DefaultInfo(name string) models.LocationInfo {
	return (&LocationService{ref: &reference.Tables{}}).build(reference.NormalizeKey(name), DefaultCity, false)
}

func (s *LocationService) build(key string, city models.CityProfile, known bool) models.LocationInfo {
	info := models.LocationInfo{
		City:                displayName(key),
		State:               city.State,
		Region:              city.Region,
		Population:          city.Population,
		AvgIncome:           city.AvgIncome,
		EconomicZone:        city.EconomicZone,
		Climate:             city.Climate,
		ShoppingPreferences: city.ShoppingPreferences,
		FestivalImportance:  city.FestivalImportance,
		RegionalGDP:         150000,
		ConsumerSpending:    "moderate",
		FestivalCulture:     "moderate",
		ShoppingSeasons:     []string{"diwali", "christmas"},
		Known:               known,
	}
	if region, ok := s.ref.Regions[city.Region]; ok {
		info.RegionalGDP = region.GDPPerCapita
		info.ConsumerSpending = region.ConsumerSpending
		info.FestivalCulture = region.FestivalCulture
		info.ShoppingSeasons = region.ShoppingSeasons
	}

	switch {
	case info.AvgIncome >= 450000:
		info.SpendingPower = "high"
	case info.AvgIncome >= 350000:
		info.SpendingPower = "moderate"
	default:
		info.SpendingPower = "low"
	}

	switch info.FestivalCulture {
	case "very_strong":
		info.FestivalShoppingPotential = "very_high"
	case "strong":
		info.FestivalShoppingPotential = "high"
	default:
		info.FestivalShoppingPotential = "moderate"
	}

	switch info.Climate {
	case "tropical":
		info.SeasonalDiscountEffectiveness = "moderate"
	case "semi_arid":
		info.SeasonalDiscountEffectiveness = "high"
	default:
		info.SeasonalDiscountEffectiveness = "low"
	}

	switch info.EconomicZone {
	case "metro":
		info.MarketMaturity = "mature"
	case "tier1":
		info.MarketMaturity = "developing"
	default:
		info.MarketMaturity = "emerging"
	}
	return info
}

// Cities lists every known city key in alphabetical order.
func (s *LocationService) Cities() []string {
	out := make([]string, 0, len(s.ref.Cities))
	for k := range s.ref.Cities {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// RegionalInsights returns the market view of a region. Unlisted regions get moderate defaults.
func (s *LocationService) RegionalInsights(region string) models.RegionalInsights {
	region = reference.NormalizeKey(region)

	out := models.RegionalInsights{
		Region:           region,
		MarketSize:       "medium",
		CompetitionLevel: "moderate",
		KeyCompetitors:   []string{"Local Retailers", "E-commerce Platforms", "Regional Chains"},
		MarketGaps:       []string{"General Items"},
		OpportunityAreas: []string{"General Promotions"},
		ConsumerBehavior: map[string]string{
			"price_sensitivity":   "moderate",
			"brand_consciousness": "moderate",
			"online_shopping":     "moderate",
			"festival_spending":   "moderate",
		},
	}
	if v, ok := marketSizes[region]; ok {
		out.MarketSize = v
	}
	if v, ok := consumerBehaviors[region]; ok {
		out.ConsumerBehavior = v
	}
	if v, ok := competitionLevels[region]; ok {
		out.CompetitionLevel = v
	}
	if v, ok := marketGaps[region]; ok {
		out.MarketGaps = v
	}
	if v, ok := opportunityAreas[region]; ok {
		out.OpportunityAreas = v
	}
	return out
}

// displayName turns "navi_mumbai" into "Navi Mumbai".
func displayName(key string) string {
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
