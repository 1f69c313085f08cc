package services

import (
	"fmt"

	"deadstock/apperrors"
	"deadstock/models"
	"deadstock/reference"
)

const defaultSearchVolume = 50000

var searchVolumes = map[string]int{
	"diwali":           1000000,
	"holi":             800000,
	"christmas":        600000,
	"eid_al_fitr":      500000,
	"navratri":         400000,
	"ganesh_chaturthi": 300000,
	"durga_puja":       350000,
	"rakhi":            200000,
	"karwa_chauth":     150000,
	"onam":             80000,
	"janmashtami":      180000,
	"gurpurab":         90000,
	"mahashivratri":    160000,
	"ram_navami":       140000,
	"independence_day": 300000,
	"republic_day":     250000,
	"gandhi_jayanti":   100000,
	"mothers_day":      400000,
	"fathers_day":      350000,
	"daughters_day":    200000,
	"childrens_day":    300000,
	"teachers_day":     150000,
	"friendship_day":   250000,
	"valentines_day":   500000,
	"new_year":         450000,
}

var trendingProducts = map[string][]string{
	"diwali":           {"diwali lights", "sweets", "gifts", "decorations", "clothes"},
	"holi":             {"colors", "white clothes", "water guns", "sweets"},
	"christmas":        {"christmas tree", "gifts", "decorations", "cake"},
	"eid_al_fitr":      {"clothes", "gifts", "sweets", "decorations"},
	"navratri":         {"garba clothes", "dandiya sticks", "traditional wear"},
	"ganesh_chaturthi": {"ganesh idol", "modak", "decorations"},
	"durga_puja":       {"durga idol", "clothes", "decorations"},
	"rakhi":            {"rakhi", "gifts", "sweets"},
	"karwa_chauth":     {"mehendi", "sargi items", "gifts"},
	"onam":             {"onam sadya items", "traditional wear"},
	"janmashtami":      {"krishna idol", "dahi handi items"},
	"gurpurab":         {"sikh items", "traditional wear"},
	"mahashivratri":    {"shiva idol", "bilva leaves"},
	"ram_navami":       {"ram idol", "religious items"},
	"independence_day": {"tricolor clothing", "flag items", "patriotic gifts", "national pride items"},
	"republic_day":     {"tricolor clothing", "flag items", "patriotic gifts", "national pride items"},
	"gandhi_jayanti":   {"khadi clothing", "simple traditional wear", "peace items"},
	"mothers_day":      {"flowers", "jewelry", "gifts", "spa items", "cosmetics"},
	"fathers_day":      {"watches", "accessories", "gadgets", "gifts", "electronics"},
	"daughters_day":    {"toys", "dresses", "accessories", "gifts", "cosmetics"},
	"childrens_day":    {"toys", "books", "educational items", "games", "stationery"},
	"teachers_day":     {"books", "stationery", "gifts", "respect items"},
	"friendship_day":   {"friendship bands", "gifts", "cards", "accessories"},
	"valentines_day":   {"flowers", "chocolates", "jewelry", "romantic gifts", "couple items"},
	"new_year":         {"party wear", "gifts", "decorations", "accessories", "electronics"},
}

var regionKeywords = map[string][]string{
	"maharashtra": {"maharashtra festival", "local traditions"},
	"punjab":      {"punjabi festival", "traditional items"},
	"tamil_nadu":  {"tamil festival", "traditional wear"},
	"kerala":      {"kerala festival", "traditional items"},
	"west_bengal": {"bengali festival", "traditional items"},
}

var regionPromotions = map[string]string{
	"maharashtra": "Regional Festival Collection",
	"karnataka":   "Regional Festival Collection",
	"punjab":      "Punjabi Festival Special",
	"haryana":     "Punjabi Festival Special",
	"tamil_nadu":  "Tamil Festival Collection",
	"kerala":      "Kerala Festival Special",
	"west_bengal": "Bengali Festival Collection",
}

// inventoryFamilies groups festivals that call for the same stocking advice. Earlier families win.
var inventoryFamilies = []struct {
	keys   []string
	advice []string
}{
	{
		keys: []string{"diwali", "holi", "christmas", "eid_al_fitr"},
		advice: []string{
			"Increase stock of traditional clothing",
			"Prepare gift items and accessories",
			"Stock up on decorative items",
			"Plan for sweets and food items",
		},
	},
	{
		keys: []string{"navratri", "ganesh_chaturthi", "durga_puja"},
		advice: []string{
			"Focus on religious items",
			"Prepare traditional wear",
			"Stock decorative items",
			"Plan for prasad items",
		},
	},
	{
		keys: []string{"rakhi", "karwa_chauth", "bhai_dooj"},
		advice: []string{
			"Increase gift items",
			"Prepare traditional sweets",
			"Stock jewelry and accessories",
			"Plan for family packages",
		},
	},
	{
		keys: []string{"independence_day", "republic_day", "gandhi_jayanti"},
		advice: []string{
			"Stock tricolor clothing and accessories",
			"Prepare patriotic gift items",
			"Increase flag and national pride items",
			"Plan for khadi and traditional wear",
		},
	},
	{
		keys: []string{"mothers_day", "fathers_day", "daughters_day", "childrens_day"},
		advice: []string{
			"Increase gift items and accessories",
			"Prepare family-oriented products",
			"Stock jewelry and watches",
			"Plan for toys and educational items",
		},
	},
	{
		keys: []string{"friendship_day"},
		advice: []string{
			"Increase friendship items",
			"Prepare flowers and gifts",
			"Stock jewelry and accessories",
			"Plan for friendship and gift items",
		},
	},
	{
		keys: []string{"teachers_day"},
		advice: []string{
			"Increase educational items and books",
			"Prepare stationery and respect items",
			"Stock toys and games",
			"Plan for teacher and student gifts",
		},
	},
}

// Insights builds the full marketing and inventory view of one festival.
func (c *FestivalCalendar) Insights(key, location string) (*models.FestivalInsights, error) {
	f, ok := c.ref.Festival(reference.NormalizeKey(key))
	if !ok {
		return nil, apperrors.NotFound(fmt.Sprintf("festival %q not found", key))
	}

	date, days := nextOccurrence(f, c.today())
	region := ""
	if location != "" {
		region = c.ref.RegionOf(location)
	}

	return &models.FestivalInsights{
		Festival:                 f,
		Date:                     date.Format("2006-01-02"),
		DaysUntil:                days,
		IsRegional:               applies(f, region),
		UrgencyLevel:             UrgencyLevel(days),
		TrendingData:             trendingData(f, region),
		MarketingOpportunities:   marketingOpportunities(days),
		InventoryRecommendations: inventoryRecommendations(f.Key),
	}, nil
}

func trendingData(f models.Festival, region string) models.TrendingData {
	keywords := make([]string, 0, len(f.TrendingKeywords)+2)
	keywords = append(keywords, f.TrendingKeywords...)
	keywords = append(keywords, regionKeywords[region]...)

	volume, ok := searchVolumes[f.Key]
	if !ok {
		volume = defaultSearchVolume
	}

	products, ok := trendingProducts[f.Key]
	if !ok {
		products = []string{"traditional items", "gifts"}
	}

	suggestions := []string{
		fmt.Sprintf("Pre-%s Sale", f.Name),
		fmt.Sprintf("%s Special Offers", f.Name),
		"Festival Bundle Deals",
	}
	if s, ok := regionPromotions[region]; ok {
		suggestions = append(suggestions, s)
	}

	return models.TrendingData{
		FestivalName:         f.Name,
		TrendingKeywords:     keywords,
		SearchVolume:         volume,
		TrendingProducts:     products,
		PromotionSuggestions: suggestions,
	}
}

func marketingOpportunities(daysUntil int) []string {
	switch UrgencyLevel(daysUntil) {
	case UrgencyCritical:
		return []string{"Last-minute promotions", "Express delivery options", "Flash sales", "Urgent inventory clearance"}
	case UrgencyUrgent:
		return []string{"Pre-festival campaigns", "Early bird discounts", "Bundle offers", "Social media campaigns"}
	case UrgencyUpcoming:
		return []string{"Festival preparation campaigns", "Seasonal collections", "Advance booking offers", "Loyalty program promotions"}
	default:
		return []string{"Long-term planning", "Inventory preparation", "Supplier coordination", "Marketing strategy development"}
	}
}

func inventoryRecommendations(key string) []string {
	for _, fam := range inventoryFamilies {
		if containsString(fam.keys, key) {
			return fam.advice
		}
	}
	return []string{}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
