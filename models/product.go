package models

// ProductInput is the product snapshot a shopkeeper submits for analysis.
// It is immutable for the duration of a request and never persisted by the engine.
type ProductInput struct {
	Name          string  `json:"name" validate:"required"`
	Category      string  `json:"category" validate:"required"`
	SKU           string  `json:"sku,omitempty"`
	Price         float64 `json:"price" validate:"gte=0"`
	OriginalPrice float64 `json:"original_price,omitempty" validate:"gte=0"`
	StockQuantity int     `json:"stock_quantity" validate:"gte=0"`
	DaysInStock   int     `json:"days_in_stock" validate:"gte=0"`
	SalesVelocity float64 `json:"sales_velocity" validate:"gte=0"`
	DemandTrend   float64 `json:"demand_trend,omitempty"`
	Seasonality   string  `json:"seasonality"`
	Location      string  `json:"location"`
}

// WithDefaults fills the optional descriptive fields the engine relies on.
func (p ProductInput) WithDefaults(location, seasonality string) ProductInput {
	if p.Location == "" {
		p.Location = location
	}
	if p.Seasonality == "" {
		p.Seasonality = seasonality
	}
	return p
}

// BatchAnalyzeRequest wraps several products analyzed in one call.
type BatchAnalyzeRequest struct {
	Products []ProductInput `json:"products" validate:"required,min=1,max=100"`
}

// BatchItemResult is one entry of a batch analysis. Exactly one of Result or Error is set.
type BatchItemResult struct {
	Index  int             `json:"index"`
	Result *AnalysisResult `json:"result,omitempty"`
	Error  *ErrorBody      `json:"error,omitempty"`
}

// ErrorBody is the error shape returned inside API envelopes.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}
