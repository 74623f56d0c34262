package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/krishisethu/pos-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Sale is the persisted sale record. The ID is generated on the client side
// of the pipeline (at checkout) so that an offline replay of the same sale
// is idempotent: replaying hits the primary-key/sale_no uniqueness instead
// of double-writing. Amounts are stored in paise. Sales are immutable once
// persisted except for cancellation.
type Sale struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
	CustomerID    *uuid.UUID         `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	CustomerName  string             `gorm:"size:255;not null" json:"customer_name"`
	SaleNo        string             `gorm:"size:100;unique;not null" json:"sale_no"`
	SaleDate      time.Time          `gorm:"not null;index" json:"sale_date"`
	Status        enum.SaleStatus    `gorm:"default:0" json:"status"`
	PaymentMethod enum.PaymentMethod `gorm:"default:0" json:"payment_method"`
	PaymentStatus enum.PaymentStatus `gorm:"default:0" json:"payment_status"`
	Subtotal      int64              `gorm:"default:0" json:"-"` // paise
	Discount      int64              `gorm:"default:0" json:"-"` // paise
	TaxAmount     int64              `gorm:"default:0" json:"-"` // paise
	Total         int64              `gorm:"default:0" json:"-"` // paise
	AmountPaid    int64              `gorm:"default:0" json:"-"` // paise
	Notes         string             `gorm:"type:text" json:"notes,omitempty"`
	Synced        bool               `gorm:"default:true" json:"synced"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	DeletedAt     gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relationships
	User     User       `gorm:"foreignKey:UserID" json:"-"`
	Customer *Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []SaleItem `gorm:"foreignKey:SaleID" json:"items,omitempty"`
}

// MarshalJSON converts paise to rupees for API responses
func (s Sale) MarshalJSON() ([]byte, error) {
	type Alias Sale
	return json.Marshal(&struct {
		Alias
		Subtotal   float64 `json:"subtotal"`
		Discount   float64 `json:"discount"`
		TaxAmount  float64 `json:"tax_amount"`
		Total      float64 `json:"total"`
		AmountPaid float64 `json:"amount_paid"`
	}{
		Alias:      Alias(s),
		Subtotal:   float64(s.Subtotal) / 100,
		Discount:   float64(s.Discount) / 100,
		TaxAmount:  float64(s.TaxAmount) / 100,
		Total:      float64(s.Total) / 100,
		AmountPaid: float64(s.AmountPaid) / 100,
	})
}

// UnmarshalJSON reverses MarshalJSON so queued sale payloads round-trip
// without losing the paise amounts.
func (s *Sale) UnmarshalJSON(data []byte) error {
	type Alias Sale
	aux := &struct {
		*Alias
		Subtotal   float64 `json:"subtotal"`
		Discount   float64 `json:"discount"`
		TaxAmount  float64 `json:"tax_amount"`
		Total      float64 `json:"total"`
		AmountPaid float64 `json:"amount_paid"`
	}{Alias: (*Alias)(s)}
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	s.Subtotal = int64(aux.Subtotal*100 + 0.5)
	s.Discount = int64(aux.Discount*100 + 0.5)
	s.TaxAmount = int64(aux.TaxAmount*100 + 0.5)
	s.Total = int64(aux.Total*100 + 0.5)
	s.AmountPaid = int64(aux.AmountPaid*100 + 0.5)
	return nil
}

// BeforeCreate keeps a client-assigned ID if present; sales created outside
// the checkout pipeline still get one here.
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// GetTotalDecimal returns the grand total in rupees
func (s *Sale) GetTotalDecimal() float64 {
	return float64(s.Total) / 100
}

// SaleItem is one line of a sale with its resolved GST rate frozen at
// checkout time.
type SaleItem struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	SaleID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName string         `gorm:"size:255;not null" json:"product_name"`
	HSNCode     string         `gorm:"size:20" json:"hsn_code"`
	BatchNumber string         `gorm:"size:100" json:"batch_number"`
	Quantity    int            `gorm:"not null" json:"quantity"`
	UnitPrice   int64          `gorm:"not null" json:"-"` // paise
	Total       int64          `gorm:"not null" json:"-"` // paise
	GSTRate     float64        `gorm:"not null" json:"gst_rate"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Sale    Sale    `gorm:"foreignKey:SaleID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// MarshalJSON converts paise to rupees for API responses
func (si SaleItem) MarshalJSON() ([]byte, error) {
	type Alias SaleItem
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		Total     float64 `json:"total"`
	}{
		Alias:     Alias(si),
		UnitPrice: float64(si.UnitPrice) / 100,
		Total:     float64(si.Total) / 100,
	})
}

// UnmarshalJSON reverses MarshalJSON so queued sale payloads round-trip
// without losing the paise amounts.
func (si *SaleItem) UnmarshalJSON(data []byte) error {
	type Alias SaleItem
	aux := &struct {
		*Alias
		UnitPrice float64 `json:"unit_price"`
		Total     float64 `json:"total"`
	}{Alias: (*Alias)(si)}
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	si.UnitPrice = int64(aux.UnitPrice*100 + 0.5)
	si.Total = int64(aux.Total*100 + 0.5)
	return nil
}

// BeforeCreate generates a UUID before creating a new sale item
func (si *SaleItem) BeforeCreate(tx *gorm.DB) error {
	if si.ID == uuid.Nil {
		si.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleItem model
func (SaleItem) TableName() string {
	return "sale_items"
}
