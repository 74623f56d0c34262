package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is a stock item in the shop inventory: fertilizer bags, seeds,
// pesticides, tools. Prices are stored in paise.
type Product struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	CategoryID    *uuid.UUID     `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Name          string         `gorm:"size:255;not null" json:"name"`
	Slug          string         `gorm:"size:255;unique;not null" json:"slug"`
	Code          string         `gorm:"size:100;unique;not null" json:"code"`
	HSNCode       string         `gorm:"size:20" json:"hsn_code"`
	BatchNumber   string         `gorm:"size:100" json:"batch_number"`
	ExpiryDate    *time.Time     `gorm:"type:date" json:"expiry_date,omitempty"`
	Quantity      int            `gorm:"default:0" json:"quantity"`
	QuantityAlert int            `gorm:"default:0" json:"quantity_alert"`
	PurchasePrice int64          `gorm:"default:0" json:"-"` // paise
	SellingPrice  int64          `gorm:"default:0" json:"-"` // paise
	GSTRate       *float64       `json:"gst_rate,omitempty"` // nil = use category default
	Notes         *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User     User      `gorm:"foreignKey:UserID" json:"-"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// GetPurchasePriceDecimal returns the purchase price in rupees
func (p *Product) GetPurchasePriceDecimal() float64 {
	return float64(p.PurchasePrice) / 100
}

// GetSellingPriceDecimal returns the selling price in rupees
func (p *Product) GetSellingPriceDecimal() float64 {
	return float64(p.SellingPrice) / 100
}

// SetPurchasePriceFromDecimal sets the purchase price from a rupee value
func (p *Product) SetPurchasePriceFromDecimal(price float64) {
	p.PurchasePrice = int64(price * 100)
}

// SetSellingPriceFromDecimal sets the selling price from a rupee value
func (p *Product) SetSellingPriceFromDecimal(price float64) {
	p.SellingPrice = int64(price * 100)
}

// ResolveGSTRate returns the product's own rate, the category default, or
// nil when neither is set (the calculator then falls back to 5%).
func (p *Product) ResolveGSTRate() *float64 {
	if p.GSTRate != nil {
		return p.GSTRate
	}
	if p.Category != nil {
		return p.Category.DefaultGSTRate
	}
	return nil
}

// MarshalJSON converts prices to rupees for API responses
func (p Product) MarshalJSON() ([]byte, error) {
	type Alias Product
	return json.Marshal(&struct {
		Alias
		PurchasePrice float64 `json:"purchase_price"`
		SellingPrice  float64 `json:"selling_price"`
	}{
		Alias:         Alias(p),
		PurchasePrice: p.GetPurchasePriceDecimal(),
		SellingPrice:  p.GetSellingPriceDecimal(),
	})
}

// Category groups products and carries the default GST slab for its items
// (e.g. chemical fertilizer 5%, pesticides 18%).
type Category struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name           string         `gorm:"size:255;not null" json:"name"`
	Slug           string         `gorm:"size:255;unique;not null" json:"slug"`
	DefaultGSTRate *float64       `json:"default_gst_rate,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Products []Product `gorm:"foreignKey:CategoryID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new category
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Category model
func (Category) TableName() string {
	return "categories"
}
