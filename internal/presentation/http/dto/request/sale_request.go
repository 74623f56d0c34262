package request

import "github.com/google/uuid"

// CheckoutItemRequest is one cart line at checkout
type CheckoutItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,gt=0"`
}

// CheckoutRequest represents a checkout confirmation
type CheckoutRequest struct {
	CustomerID      *uuid.UUID            `json:"customer_id"`
	Items           []CheckoutItemRequest `json:"items" binding:"required,dive"`
	DiscountType    string                `json:"discount_type" binding:"omitempty,oneof=percentage amount"`
	DiscountValue   float64               `json:"discount_value" binding:"omitempty,min=0"`
	OverrideGSTRate *float64              `json:"override_gst_rate" binding:"omitempty,min=0,max=100"`
	PaymentMethod   string                `json:"payment_method" binding:"omitempty,oneof=cash upi card credit Cash UPI Card Credit"`
	AmountPaid      float64               `json:"amount_paid" binding:"omitempty,min=0"`
	Notes           string                `json:"notes" binding:"omitempty,max=1000"`
}

// PayDueRequest records a payment against a credit sale
type PayDueRequest struct {
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	PaymentMethod string  `json:"payment_method" binding:"omitempty,oneof=cash upi card Cash UPI Card"`
}

// SaleFilterRequest represents sale list filter parameters
type SaleFilterRequest struct {
	Search        string `form:"search"`
	Status        string `form:"status"`
	PaymentMethod string `form:"payment_method"`
	CustomerID    string `form:"customer_id"`
	StartDate     string `form:"start_date"`
	EndDate       string `form:"end_date"`
	SortBy        string `form:"sort_by"`
	SortOrder     string `form:"sort_order"`
	Page          int    `form:"page"`
	PerPage       int    `form:"per_page"`
}
