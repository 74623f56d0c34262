package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShopSettings holds the single store profile printed on invoices and
// used as the fallback source for tax defaults. Exactly one row exists.
type ShopSettings struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ShopName          string    `gorm:"size:255;not null" json:"shop_name"`
	AddressLine1      string    `gorm:"size:255" json:"address_line1"`
	AddressLine2      string    `gorm:"size:255" json:"address_line2"`
	Phone             string    `gorm:"size:50" json:"phone"`
	Email             string    `gorm:"size:255" json:"email"`
	GSTIN             string    `gorm:"size:20" json:"gstin"`
	StateCode         string    `gorm:"size:4" json:"state_code"`
	InvoiceFooter     string    `gorm:"size:500" json:"invoice_footer"`
	DefaultGSTRate    float64   `gorm:"default:5" json:"default_gst_rate"`
	LowStockThreshold int       `gorm:"default:10" json:"low_stock_threshold"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating the settings row
func (s *ShopSettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ShopSettings model
func (ShopSettings) TableName() string {
	return "shop_settings"
}
