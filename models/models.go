package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// --- JWT & Auth ---

type JwtClaims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type LoginRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterShopkeeperRequest struct {
	UserID   string `json:"user_id" validate:"required,min=3,max=64"`
	ShopName string `json:"shop_name" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,numeric,min=10,max=15"`
	Location string `json:"location" validate:"required"`
}

// --- Ledger ---

// Shopkeeper is a registered shop owner of the inventory ledger.
type Shopkeeper struct {
	UserID    string    `json:"user_id"`
	ShopName  string    `json:"shop_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Location  string    `json:"location"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// TrackedProduct is a product row of the ledger.
type TrackedProduct struct {
	ProductID       int64     `json:"product_id"`
	SKU             string    `json:"sku"`
	ProductName     string    `json:"product_name"`
	Category        string    `json:"category"`
	Price           float64   `json:"price"`
	InitialQuantity int       `json:"initial_quantity"`
	CurrentQuantity int       `json:"current_quantity"`
	DateAdded       time.Time `json:"date_added"`
}

// AddProductRequest registers stock in the ledger. An empty SKU is generated as SKU-YYYY-NNNN.
type AddProductRequest struct {
	SKU             string  `json:"sku" validate:"omitempty,max=64"`
	ProductName     string  `json:"product_name" validate:"required"`
	Category        string  `json:"category" validate:"required"`
	Price           float64 `json:"price" validate:"gte=0"`
	InitialQuantity int     `json:"initial_quantity" validate:"gte=0"`
}

// Sale event types.
const (
	EventInitialStock = "initial_stock"
	EventSale         = "sale"
	EventRestock      = "restock"
	EventAdjustment   = "adjustment"
)

// SaleEventRequest moves stock. Sales always reduce and restocks always add stock;
// adjustments apply QuantityChanged with its sign.
type SaleEventRequest struct {
	SKU             string   `json:"sku" validate:"required"`
	EventType       string   `json:"event_type" validate:"required,oneof=sale restock adjustment"`
	QuantityChanged int      `json:"quantity_changed" validate:"ne=0"`
	PricePerUnit    *float64 `json:"price_per_unit,omitempty" validate:"omitempty,gte=0"`
	Notes           string   `json:"notes"`
}

// HistoryEntry is one ledger event joined with its product.
type HistoryEntry struct {
	SKU               string    `json:"sku"`
	ProductName       string    `json:"product_name"`
	Category          string    `json:"category"`
	EventType         string    `json:"event_type"`
	QuantityChanged   int       `json:"quantity_changed"`
	PricePerUnit      *float64  `json:"price_per_unit"`
	TotalAmount       *float64  `json:"total_amount"`
	RemainingQuantity int       `json:"remaining_quantity"`
	EventDate         time.Time `json:"event_date"`
	Notes             *string   `json:"notes"`
}

// HistoryFilter narrows a history query. Zero values mean no filter.
type HistoryFilter struct {
	SKU   string
	Start *time.Time
	End   *time.Time
}

// EventOutcome is the result of recording a sale event.
type EventOutcome struct {
	SKU         string   `json:"sku"`
	EventType   string   `json:"event_type"`
	Delta       int      `json:"quantity_changed"`
	NewQuantity int      `json:"new_quantity"`
	TotalAmount *float64 `json:"total_amount"`
}

// LedgerStats summarises a shopkeeper's ledger.
type LedgerStats struct {
	TotalProducts         int     `json:"total_products"`
	TotalSalesValue       float64 `json:"total_sales_value"`
	TotalItemsSold        int     `json:"total_items_sold"`
	CurrentInventoryCount int     `json:"current_inventory_count"`
}
