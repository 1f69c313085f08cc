package models

import "time"

// BundleRule describes which products a themed bundle applies to and how it is priced.
type BundleRule struct {
	PrimaryProducts      []string `json:"primary_products" yaml:"primary_products"`
	ComboProducts        []string `json:"combo_products" yaml:"combo_products"`
	ShopkeeperCategories []string `json:"shopkeeper_categories" yaml:"shopkeeper_categories"`
	BundleDiscount       float64  `json:"bundle_discount" yaml:"bundle_discount"`
	CrossShopDiscount    float64  `json:"cross_shop_discount" yaml:"cross_shop_discount"`
}

// ShopkeeperProfile is a local seller that can take part in cross-shop bundles.
type ShopkeeperProfile struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Category    string   `json:"category" yaml:"category"`
	Location    string   `json:"location" yaml:"location"`
	Specialties []string `json:"specialties" yaml:"specialties"`
	Partners    []string `json:"partners" yaml:"partners"`
}

// LocalSeller is an entry of the rated seller directory.
type LocalSeller struct {
	Name        string   `json:"name" yaml:"name"`
	Rating      float64  `json:"rating" yaml:"rating"`
	Specialties []string `json:"specialties" yaml:"specialties"`
	Contact     string   `json:"contact" yaml:"contact"`
}

// BundleItem is one combo offer inside a themed bundle.
type BundleItem struct {
	Product      string  `json:"product"`
	Discount     float64 `json:"discount"`
	Type         string  `json:"type"`
	Shopkeeper   string  `json:"shopkeeper,omitempty"`
	ShopkeeperID string  `json:"shopkeeper_id,omitempty"`
	Description  string  `json:"description"`
}

// Bundle item types.
const (
	BundleSameShop  = "same_shop"
	BundleCrossShop = "cross_shop"
)

// Bundle is the set of offers produced by one applicable rule.
type Bundle struct {
	BundleType       string       `json:"bundle_type"`
	Festival         string       `json:"festival,omitempty"`
	Season           string       `json:"season,omitempty"`
	SameShopBundles  []BundleItem `json:"same_shop_bundles"`
	CrossShopBundles []BundleItem `json:"cross_shop_bundles"`
	TotalBundles     int          `json:"total_bundles"`
}

// BundleSet is the bundle recommender output.
type BundleSet struct {
	BundleScore          float64             `json:"bundle_score"`
	Bundles              []Bundle            `json:"bundles"`
	AvailableShopkeepers []ShopkeeperProfile `json:"available_shopkeepers"`
	TotalBundles         int                 `json:"total_bundles"`
	Location             string              `json:"location"`
	Festival             string              `json:"festival,omitempty"`
}

// BundleRequest is the body of the bundle recommendation endpoint.
type BundleRequest struct {
	Product      ProductInput `json:"product"`
	Location     string       `json:"location"`
	Festival     string       `json:"festival"`
	ShopkeeperID string       `json:"shopkeeper_id"`
}

// BundleProduct is a priced product inside a custom bundle.
type BundleProduct struct {
	Name       string  `json:"name" validate:"required"`
	Price      float64 `json:"price" validate:"gte=0"`
	Category   string  `json:"category"`
	Shopkeeper string  `json:"shopkeeper,omitempty"`
}

// CustomBundleRequest is the body of the custom bundle endpoint.
type CustomBundleRequest struct {
	PrimaryProduct BundleProduct   `json:"primary_product" validate:"required"`
	ComboProducts  []BundleProduct `json:"combo_products" validate:"required,min=1,max=4,dive"`
	Shopkeepers    []string        `json:"shopkeepers"`
	Location       string          `json:"location"`
}

// BundlePricing is the price breakdown of a custom bundle.
type BundlePricing struct {
	OriginalTotal      float64 `json:"original_total"`
	DiscountedTotal    float64 `json:"discounted_total"`
	Savings            float64 `json:"savings"`
	DiscountPercentage float64 `json:"discount_percentage"`
}

// CustomBundle is an ad hoc bundle priced by combo count.
type CustomBundle struct {
	BundleID       string          `json:"bundle_id"`
	PrimaryProduct BundleProduct   `json:"primary_product"`
	ComboProducts  []BundleProduct `json:"combo_products"`
	Pricing        BundlePricing   `json:"pricing"`
	Shopkeepers    []string        `json:"shopkeepers"`
	Location       string          `json:"location"`
	CreatedAt      time.Time       `json:"created_at"`
}

// SellerRecommendationRequest is the body of the seller recommendation endpoint.
type SellerRecommendationRequest struct {
	PrimaryProduct BundleProduct   `json:"primary_product"`
	ComboProducts  []BundleProduct `json:"combo_products"`
	Location       string          `json:"location"`
}

// CollaborationSuggestion proposes a partner seller for cross promotion.
type CollaborationSuggestion struct {
	SellerName        string   `json:"seller_name"`
	Category          string   `json:"category"`
	Rating            float64  `json:"rating"`
	Specialties       []string `json:"specialties"`
	Contact           string   `json:"contact"`
	CollaborationType string   `json:"collaboration_type"`
	SuggestionText    string   `json:"suggestion_text"`
	Benefits          []string `json:"benefits"`
}

// SellerRecommendations is the seller recommendation output.
type SellerRecommendations struct {
	Location                 string                    `json:"location"`
	PrimaryProduct           BundleProduct             `json:"primary_product"`
	ComboProducts            []BundleProduct           `json:"combo_products"`
	Recommendations          map[string][]LocalSeller  `json:"recommendations"`
	CollaborationSuggestions []CollaborationSuggestion `json:"collaboration_suggestions"`
	TotalSuggestions         int                       `json:"total_suggestions"`
	Message                  string                    `json:"message"`
}
