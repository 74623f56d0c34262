package request

import (
	"time"

	"github.com/google/uuid"
)

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	CategoryID    *uuid.UUID `json:"category_id"`
	Name          string     `json:"name" binding:"required,min=2,max=255"`
	Code          string     `json:"code" binding:"omitempty,max=100"`
	HSNCode       string     `json:"hsn_code" binding:"omitempty,max=20"`
	BatchNumber   string     `json:"batch_number" binding:"omitempty,max=100"`
	ExpiryDate    *time.Time `json:"expiry_date"`
	Quantity      int        `json:"quantity" binding:"min=0"`
	QuantityAlert int        `json:"quantity_alert" binding:"min=0"`
	PurchasePrice float64    `json:"purchase_price" binding:"min=0"`
	SellingPrice  float64    `json:"selling_price" binding:"required,gt=0"`
	GSTRate       *float64   `json:"gst_rate" binding:"omitempty,min=0,max=100"`
	Notes         *string    `json:"notes"`
}

// UpdateProductRequest represents a product update request
type UpdateProductRequest struct {
	CategoryID    *uuid.UUID `json:"category_id"`
	Name          *string    `json:"name" binding:"omitempty,min=2,max=255"`
	HSNCode       *string    `json:"hsn_code" binding:"omitempty,max=20"`
	BatchNumber   *string    `json:"batch_number" binding:"omitempty,max=100"`
	ExpiryDate    *time.Time `json:"expiry_date"`
	QuantityAlert *int       `json:"quantity_alert" binding:"omitempty,min=0"`
	PurchasePrice *float64   `json:"purchase_price" binding:"omitempty,min=0"`
	SellingPrice  *float64   `json:"selling_price" binding:"omitempty,gt=0"`
	GSTRate       *float64   `json:"gst_rate" binding:"omitempty,min=0,max=100"`
	Notes         *string    `json:"notes"`
}

// AdjustStockRequest represents a manual stock adjustment
type AdjustStockRequest struct {
	QuantityChange int    `json:"quantity_change" binding:"required"`
	Reason         string `json:"reason" binding:"omitempty,max=255"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search     string `form:"search"`
	CategoryID string `form:"category_id"`
	LowStock   bool   `form:"low_stock"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}
