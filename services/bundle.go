package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"deadstock/models"
	"deadstock/reference"
	"deadstock/utils"
	"deadstock/validation"
)

// Bundle rule themes.
const (
	BundleThemeFestival = "festival"
	BundleThemeSeasonal = "seasonal"
)

// Seasons used by the seasonal bundle rules.
const (
	SeasonSummer  = "summer"
	SeasonMonsoon = "monsoon"
	SeasonWinter  = "winter"
)

const (
	defaultSellerCity = "mumbai"
	maxSuggestions    = 6
	topSellersPerCat  = 3
)

// SeasonOf maps a month to its bundle season.
func SeasonOf(m time.Month) string {
	switch {
	case m >= time.March && m <= time.May:
		return SeasonSummer
	case m >= time.June && m <= time.September:
		return SeasonMonsoon
	default:
		return SeasonWinter
	}
}

// CustomBundleTier is the discount fraction for a bundle with n combo products.
func CustomBundleTier(n int) float64 {
	switch {
	case n <= 1:
		return 0.15
	case n == 2:
		return 0.20
	default:
		return 0.25
	}
}

// BundleRecommender builds same-shop and cross-shop bundles from the rule tables.
type BundleRecommender struct {
	ref   *reference.Tables
	now   func() time.Time
	newID func() string
}

func NewBundleRecommender(ref *reference.Tables, now func() time.Time) *BundleRecommender {
	if now == nil {
		now = time.Now
	}
	return &BundleRecommender{ref: ref, now: now, newID: uuid.NewString}
}

// ruleApplies reports whether the product's category equals, or its name contains, a primary product.
func ruleApplies(rule models.BundleRule, category, name string) bool {
	for _, primary := range rule.PrimaryProducts {
		if category == primary || strings.Contains(name, primary) {
			return true
		}
	}
	return false
}

// Shopkeepers lists the seller profiles registered in a location.
func (b *BundleRecommender) Shopkeepers(location string) []models.ShopkeeperProfile {
	loc := reference.NormalizeKey(location)
	out := make([]models.ShopkeeperProfile, 0)
	for _, p := range b.ref.Profiles {
		if reference.NormalizeKey(p.Location) == loc {
			out = append(out, p)
		}
	}
	return out
}

// Recommend returns every bundle whose festival or seasonal rule matches the product.
// shopkeeperID, when set, is left out of the cross-shop partners.
func (b *BundleRecommender) Recommend(p models.ProductInput, location, festival, shopkeeperID string) models.BundleSet {
	category := reference.NormalizeKey(p.Category)
	name := reference.NormalizeKey(p.Name)
	shopkeepers := b.Shopkeepers(location)

	bundles := make([]models.Bundle, 0)
	if festival != "" {
		if rule, ok := b.ref.FestivalBundles[festival]; ok && ruleApplies(rule, category, name) {
			bundle := buildBundle(rule, shopkeepers, shopkeeperID)
			bundle.BundleType = BundleThemeFestival
			bundle.Festival = festival
			bundles = append(bundles, bundle)
		}
	}

	season := SeasonOf(b.now().Month())
	if rule, ok := b.ref.SeasonalBundles[season]; ok && ruleApplies(rule, category, name) {
		bundle := buildBundle(rule, shopkeepers, shopkeeperID)
		bundle.BundleType = BundleThemeSeasonal
		bundle.Season = season
		bundles = append(bundles, bundle)
	}

	total := 0
	for _, bundle := range bundles {
		total += bundle.TotalBundles
	}

	score := float64(total * 20)
	if score > 100 {
		score = 100
	}

	return models.BundleSet{
		BundleScore:          score,
		Bundles:              bundles,
		AvailableShopkeepers: shopkeepers,
		TotalBundles:         total,
		Location:             location,
		Festival:             festival,
	}
}

// EmptyBundleSet is the bundle stage output when it cannot run.
func EmptyBundleSet(location string) models.BundleSet {
	return models.BundleSet{
		Bundles:              []models.Bundle{},
		AvailableShopkeepers: []models.ShopkeeperProfile{},
		Location:             location,
	}
}

func buildBundle(rule models.BundleRule, shopkeepers []models.ShopkeeperProfile, excludeID string) models.Bundle {
	same := make([]models.BundleItem, 0, len(rule.ComboProducts))
	for _, combo := range rule.ComboProducts {
		same = append(same, models.BundleItem{
			Product:     combo,
			Discount:    rule.BundleDiscount,
			Type:        models.BundleSameShop,
			Description: fmt.Sprintf("Bundle with %s for %g%% off", combo, utils.Round2(rule.BundleDiscount*100)),
		})
	}

	cross := make([]models.BundleItem, 0)
	for _, sk := range shopkeepers {
		if sk.ID == excludeID || !containsString(rule.ShopkeeperCategories, sk.Category) {
			continue
		}
		for _, specialty := range sk.Specialties {
			if !containsString(rule.ComboProducts, specialty) {
				continue
			}
			cross = append(cross, models.BundleItem{
				Product:      specialty,
				Discount:     rule.CrossShopDiscount,
				Type:         models.BundleCrossShop,
				Shopkeeper:   sk.Name,
				ShopkeeperID: sk.ID,
				Description:  fmt.Sprintf("Bundle with %s from %s for %g%% off", specialty, sk.Name, utils.Round2(rule.CrossShopDiscount*100)),
			})
		}
	}

	return models.Bundle{
		SameShopBundles:  same,
		CrossShopBundles: cross,
		TotalBundles:     len(same) + len(cross),
	}
}

// CreateCustomBundle prices an ad hoc bundle by combo count: 1 item 15%, 2 items 20%, 3 or more 25%.
func (b *BundleRecommender) CreateCustomBundle(req models.CustomBundleRequest) (*models.CustomBundle, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, err
	}

	total := req.PrimaryProduct.Price
	combos := make([]models.BundleProduct, len(req.ComboProducts))
	for i, c := range req.ComboProducts {
		total += c.Price
		if c.Shopkeeper == "" {
			c.Shopkeeper = "Unknown"
			if i < len(req.Shopkeepers) {
				c.Shopkeeper = req.Shopkeepers[i]
			}
		}
		combos[i] = c
	}

	tier := CustomBundleTier(len(req.ComboProducts))
	discounted := utils.Round2(total * (1 - tier))
	total = utils.Round2(total)

	shopkeepers := req.Shopkeepers
	if shopkeepers == nil {
		shopkeepers = []string{}
	}

	return &models.CustomBundle{
		BundleID:       b.newID(),
		PrimaryProduct: req.PrimaryProduct,
		ComboProducts:  combos,
		Pricing: models.BundlePricing{
			OriginalTotal:      total,
			DiscountedTotal:    discounted,
			Savings:            utils.Round2(total - discounted),
			DiscountPercentage: tier * 100,
		},
		Shopkeepers: shopkeepers,
		Location:    req.Location,
		CreatedAt:   b.now(),
	}, nil
}

// complementaryCategories picks the seller categories that pair well with a primary category.
func complementaryCategories(primary string) []string {
	switch primary {
	case "clothing", "ethnic_wear", "traditional_wear", "western_wear":
		return []string{"jewellery", "accessories", "home_decor"}
	case "jewellery", "accessories":
		return []string{"clothing", "home_decor"}
	case "home_decor", "festival_items":
		return []string{"clothing", "jewellery", "accessories"}
	default:
		return []string{"clothing", "jewellery", "accessories", "home_decor"}
	}
}

// SellerRecommendations suggests highly rated local sellers to partner with for cross promotion.
func (b *BundleRecommender) SellerRecommendations(req models.SellerRecommendationRequest) models.SellerRecommendations {
	city := reference.NormalizeKey(req.Location)
	directory, ok := b.ref.Directory[city]
	if !ok {
		directory = b.ref.Directory[defaultSellerCity]
	}

	primary := reference.NormalizeKey(req.PrimaryProduct.Category)
	if primary == "" {
		primary = "clothing"
	}

	recs := make(map[string][]models.LocalSeller)
	suggestions := make([]models.CollaborationSuggestion, 0)
	for _, category := range complementaryCategories(primary) {
		sellers, ok := directory[category]
		if !ok {
			continue
		}
		sorted := append([]models.LocalSeller(nil), sellers...)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Rating > sorted[j].Rating })
		if len(sorted) > topSellersPerCat {
			sorted = sorted[:topSellersPerCat]
		}
		recs[category] = sorted

		for _, s := range sorted {
			suggestions = append(suggestions, models.CollaborationSuggestion{
				SellerName:        s.Name,
				Category:          category,
				Rating:            s.Rating,
				Specialties:       s.Specialties,
				Contact:           s.Contact,
				CollaborationType: "cross_promotion",
				SuggestionText:    fmt.Sprintf("Partner with %s for %s items to create attractive bundles", s.Name, category),
				Benefits: []string{
					fmt.Sprintf("Access to %g-star rated %s products", s.Rating, category),
					"Cross-promotion opportunities",
					"Shared customer base",
					"Enhanced bundle appeal",
				},
			})
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool { return suggestions[i].Rating > suggestions[j].Rating })
	total := len(suggestions)
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}

	combos := req.ComboProducts
	if combos == nil {
		combos = []models.BundleProduct{}
	}

	return models.SellerRecommendations{
		Location:                 req.Location,
		PrimaryProduct:           req.PrimaryProduct,
		ComboProducts:            combos,
		Recommendations:          recs,
		CollaborationSuggestions: suggestions,
		TotalSuggestions:         total,
		Message:                  fmt.Sprintf("Found %d potential collaboration partners in %s", total, displayName(city)),
	}
}
