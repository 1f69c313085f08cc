package services

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"deadstock/apperrors"
	"deadstock/models"
	"deadstock/reference"
)

// Urgency levels.
const (
	UrgencyCritical = "critical"
	UrgencyUrgent   = "urgent"
	UrgencyUpcoming = "upcoming"
	UrgencyFuture   = "future"
)

// ProductOpportunityHorizon bounds the per-product festival lookup, in days.
const ProductOpportunityHorizon = 180

// Festival sort orders accepted by AllFestivals.
const (
	SortByDaysUntil = "days_until"
	SortByName      = "name"
	SortByCategory  = "category"
)

// UrgencyLevel buckets the days left before an event. Every component uses this one function.
func UrgencyLevel(daysUntil int) string {
	switch {
	case daysUntil <= 7:
		return UrgencyCritical
	case daysUntil <= 30:
		return UrgencyUrgent
	case daysUntil <= 90:
		return UrgencyUpcoming
	default:
		return UrgencyFuture
	}
}

// FestivalCalendar resolves the recurring festival table against today's date and a location.
type FestivalCalendar struct {
	ref     *reference.Tables
	now     func() time.Time
	horizon int
}

// NewFestivalCalendar builds a calendar. horizonDays is the look-ahead used for product recommendations.
func NewFestivalCalendar(ref *reference.Tables, now func() time.Time, horizonDays int) *FestivalCalendar {
	if now == nil {
		now = time.Now
	}
	if horizonDays <= 0 {
		horizonDays = 90
	}
	return &FestivalCalendar{ref: ref, now: now, horizon: horizonDays}
}

func (c *FestivalCalendar) today() time.Time {
	y, m, d := c.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// nextOccurrence returns the next date of f on or after today. A date already passed this year rolls
// to next year, so the day count is never negative.
func nextOccurrence(f models.Festival, today time.Time) (time.Time, int) {
	date := time.Date(today.Year(), time.Month(f.Month), f.Day, 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		date = time.Date(today.Year()+1, time.Month(f.Month), f.Day, 0, 0, 0, 0, time.UTC)
	}
	return date, int(date.Sub(today).Hours() / 24)
}

func applies(f models.Festival, region string) bool {
	return containsString(f.Regions, region) || containsString(f.Regions, reference.AllIndia)
}

func (c *FestivalCalendar) opportunity(f models.Festival, today time.Time, region string) models.FestivalOpportunity {
	date, days := nextOccurrence(f, today)
	keywords := f.TrendingKeywords
	if keywords == nil {
		keywords = []string{}
	}
	return models.FestivalOpportunity{
		Key:              f.Key,
		Name:             f.Name,
		Date:             date.Format("2006-01-02"),
		DaysUntil:        days,
		Duration:         f.Duration,
		Category:         f.Category,
		ShoppingPeriod:   f.ShoppingPeriod,
		Region:           region,
		Regions:          f.Regions,
		Description:      f.Description,
		TrendingKeywords: keywords,
		UrgencyLevel:     UrgencyLevel(days),
		IsRegional:       region != reference.AllIndia && containsString(f.Regions, region),
	}
}

// Upcoming lists festivals applicable to location within daysAhead, nearest first.
func (c *FestivalCalendar) Upcoming(location string, daysAhead int) []models.FestivalOpportunity {
	today := c.today()
	region := c.ref.RegionOf(location)

	out := make([]models.FestivalOpportunity, 0)
	for _, f := range c.ref.Festivals {
		if !applies(f, region) {
			continue
		}
		opp := c.opportunity(f, today, region)
		if opp.DaysUntil <= daysAhead {
			out = append(out, opp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DaysUntil < out[j].DaysUntil })
	return out
}

// AllFestivals lists every festival applicable to location. An empty location lists the whole calendar.
func (c *FestivalCalendar) AllFestivals(location, sortBy string) ([]models.FestivalOpportunity, error) {
	if sortBy == "" {
		sortBy = SortByDaysUntil
	}
	if sortBy != SortByDaysUntil && sortBy != SortByName && sortBy != SortByCategory {
		return nil, apperrors.InputValidation("sort_by", fmt.Sprintf("sort_by must be one of: %s %s %s", SortByDaysUntil, SortByName, SortByCategory))
	}

	today := c.today()
	region := reference.AllIndia
	if location != "" {
		region = c.ref.RegionOf(location)
	}

	out := make([]models.FestivalOpportunity, 0, len(c.ref.Festivals))
	for _, f := range c.ref.Festivals {
		if location != "" && !applies(f, region) {
			continue
		}
		out = append(out, c.opportunity(f, today, region))
	}

	switch sortBy {
	case SortByName:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	case SortByCategory:
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].Category != out[j].Category {
				return out[i].Category < out[j].Category
			}
			return out[i].DaysUntil < out[j].DaysUntil
		})
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].DaysUntil < out[j].DaysUntil })
	}
	return out, nil
}

// Countdown is Upcoming wrapped for the countdown endpoint.
func (c *FestivalCalendar) Countdown(location string, daysAhead int) models.FestivalCountdown {
	festivals := c.Upcoming(location, daysAhead)
	return models.FestivalCountdown{
		Location:       location,
		DaysAhead:      daysAhead,
		Festivals:      festivals,
		TotalFestivals: len(festivals),
	}
}

// Categories groups the location's festivals by category, categories alphabetical, festivals nearest first.
func (c *FestivalCalendar) Categories(location string) []models.FestivalCategory {
	all, _ := c.AllFestivals(location, SortByDaysUntil)

	index := map[string]int{}
	out := make([]models.FestivalCategory, 0)
	for _, f := range all {
		i, ok := index[f.Category]
		if !ok {
			i = len(out)
			index[f.Category] = i
			out = append(out, models.FestivalCategory{
				Key:       f.Category,
				Name:      displayName(f.Category),
				Festivals: []models.FestivalCategoryRef{},
			})
		}
		out[i].Festivals = append(out[i].Festivals, models.FestivalCategoryRef{
			Name:         f.Name,
			DaysUntil:    f.DaysUntil,
			UrgencyLevel: f.UrgencyLevel,
		})
		out[i].Count++
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Relevance scores how well a festival fits a product sold at a location, in [0,1].
func (c *FestivalCalendar) Relevance(p models.ProductInput, f models.FestivalOpportunity, loc models.LocationInfo) float64 {
	score := 0.5

	switch {
	case f.DaysUntil <= 30:
		score += 0.3
	case f.DaysUntil <= 60:
		score += 0.2
	case f.DaysUntil <= 90:
		score += 0.1
	}

	score += math.Min(float64(f.Duration)*0.02, 0.1)

	if len(f.Regions) > 0 && loc.Region == f.Regions[0] {
		score += 0.2
	}

	if m, ok := c.ref.ProductFestivalsFor(p.Category); ok {
		if _, ok := m[f.Key]; ok {
			score += 0.2
		}
	}
	return math.Min(score, 1.0)
}

// isRelevant reports whether the product's category or name has an explicit mapping to the festival.
func (c *FestivalCalendar) isRelevant(p models.ProductInput, festivalKey string) bool {
	for _, k := range []string{p.Category, p.Name} {
		if m, ok := c.ref.ProductFestivalsFor(k); ok {
			if _, ok := m[festivalKey]; ok {
				return true
			}
		}
	}
	return false
}

// Recommendations scores the upcoming festivals that fit the product, most relevant first.
func (c *FestivalCalendar) Recommendations(p models.ProductInput, loc models.LocationInfo) models.FestivalRecommendations {
	relevant := make([]models.RelevantFestival, 0)
	for _, f := range c.Upcoming(p.Location, c.horizon) {
		if !c.isRelevant(p, f.Key) {
			continue
		}
		rf := models.RelevantFestival{
			FestivalOpportunity: f,
			RelevanceScore:      c.Relevance(p, f, loc),
			PromotionIdeas:      PromotionIdeas(p.Category, f.Name),
		}
		rf.DemandBoost = DemandBoost(rf)
		relevant = append(relevant, rf)
	}

	sort.SliceStable(relevant, func(i, j int) bool {
		return relevant[i].RelevanceScore > relevant[j].RelevanceScore
	})

	recs := models.FestivalRecommendations{
		UpcomingFestivals:  relevant,
		TotalOpportunities: len(relevant),
	}
	if len(relevant) > 0 {
		best := relevant[0]
		recs.BestOpportunity = &best
	}
	return recs
}

// EmptyRecommendations is the festival matcher output when it cannot run.
func EmptyRecommendations() models.FestivalRecommendations {
	return models.FestivalRecommendations{UpcomingFestivals: []models.RelevantFestival{}}
}

// DemandBoost estimates the festival demand multiplier, capped at 3x.
func DemandBoost(f models.RelevantFestival) float64 {
	boost := 1.5 * (1 + f.RelevanceScore)
	switch {
	case f.DaysUntil <= 7:
		boost *= 1.5
	case f.DaysUntil <= 30:
		boost *= 1.3
	}
	if f.Duration >= 5 {
		boost *= 1.2
	}
	return math.Min(boost, 3.0)
}

// PromotionIdeas returns generic and category-specific promotion lines for a festival.
func PromotionIdeas(category, festivalName string) []string {
	ideas := []string{
		fmt.Sprintf("Festival Special: %s Collection", festivalName),
		fmt.Sprintf("Pre-%s Sale: Up to 40%% off", festivalName),
		fmt.Sprintf("%s Gift Bundles", festivalName),
	}
	switch strings.ToLower(category) {
	case "clothing":
		ideas = append(ideas,
			fmt.Sprintf("%s Ethnic Wear Collection", festivalName),
			fmt.Sprintf("Festival Ready: Complete %s Look", festivalName),
			fmt.Sprintf("%s Family Package Deals", festivalName),
		)
	case "electronics":
		ideas = append(ideas,
			fmt.Sprintf("%s Tech Deals", festivalName),
			"Festival Gift: Buy 1 Get 1 on Accessories",
			fmt.Sprintf("%s EMI Offers", festivalName),
		)
	case "home_decor":
		ideas = append(ideas,
			fmt.Sprintf("%s Home Decoration Package", festivalName),
			"Festival Lighting Collection",
			fmt.Sprintf("%s Religious Items Bundle", festivalName),
		)
	}
	return ideas
}

// ProductOpportunities looks the product name up in the product to festival table and returns the
// mapped festivals falling within the next 180 days. Unknown products yield an empty result.
func (c *FestivalCalendar) ProductOpportunities(productName, location string) models.ProductFestivalOpportunities {
	key := reference.NormalizeKey(productName)
	result := models.ProductFestivalOpportunities{
		ProductName:           displayName(key),
		Opportunities:         []models.ProductFestivalOpportunity{},
		RegionalOpportunities: []models.ProductFestivalOpportunity{},
		NationalOpportunities: []models.ProductFestivalOpportunity{},
	}

	mapping, ok := c.ref.ProductFestivalsFor(key)
	if !ok {
		return result
	}

	today := c.today()
	locKey := reference.NormalizeKey(location)
	region := c.ref.RegionOf(location)

	festivalKeys := make([]string, 0, len(mapping))
	for k := range mapping {
		festivalKeys = append(festivalKeys, k)
	}
	sort.Strings(festivalKeys)

	for _, fk := range festivalKeys {
		f, ok := c.ref.Festival(fk)
		if !ok {
			continue
		}
		date, days := nextOccurrence(f, today)
		if days > ProductOpportunityHorizon {
			continue
		}
		keywords := f.TrendingKeywords
		if keywords == nil {
			keywords = []string{}
		}
		isRegional := containsString(f.Regions, locKey) ||
			(region != reference.AllIndia && containsString(f.Regions, region))

		result.Opportunities = append(result.Opportunities, models.ProductFestivalOpportunity{
			FestivalName:     f.Name,
			FestivalKey:      f.Key,
			Date:             date.Format("2006-01-02"),
			DaysUntil:        days,
			Duration:         f.Duration,
			Category:         f.Category,
			PromotionReason:  mapping[fk],
			IsRegional:       isRegional,
			UrgencyLevel:     UrgencyLevel(days),
			ShoppingPeriod:   f.ShoppingPeriod,
			TrendingKeywords: keywords,
		})
	}

	sort.SliceStable(result.Opportunities, func(i, j int) bool {
		return result.Opportunities[i].DaysUntil < result.Opportunities[j].DaysUntil
	})
	for _, o := range result.Opportunities {
		if o.IsRegional {
			result.RegionalOpportunities = append(result.RegionalOpportunities, o)
		} else {
			result.NationalOpportunities = append(result.NationalOpportunities, o)
		}
	}
	result.TotalOpportunities = len(result.Opportunities)
	if len(result.Opportunities) > 0 {
		best := result.Opportunities[0]
		result.BestOpportunity = &best
	}
	return result
}

// EmptyProductOpportunities is the per-product lookup output when it cannot run.
func EmptyProductOpportunities(productName string) models.ProductFestivalOpportunities {
	return models.ProductFestivalOpportunities{
		ProductName:           displayName(reference.NormalizeKey(productName)),
		Opportunities:         []models.ProductFestivalOpportunity{},
		RegionalOpportunities: []models.ProductFestivalOpportunity{},
		NationalOpportunities: []models.ProductFestivalOpportunity{},
	}
}
