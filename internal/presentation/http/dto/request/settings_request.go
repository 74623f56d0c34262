package request

// UpdateSettingsRequest represents a shop settings update
type UpdateSettingsRequest struct {
	ShopName          string  `json:"shop_name" binding:"required,min=2,max=255"`
	AddressLine1      string  `json:"address_line1" binding:"omitempty,max=255"`
	AddressLine2      string  `json:"address_line2" binding:"omitempty,max=255"`
	Phone             string  `json:"phone" binding:"omitempty,max=20"`
	Email             string  `json:"email" binding:"omitempty,email"`
	GSTIN             string  `json:"gstin" binding:"omitempty,len=15"`
	StateCode         string  `json:"state_code" binding:"omitempty,max=5"`
	InvoiceFooter     string  `json:"invoice_footer" binding:"omitempty,max=500"`
	DefaultGSTRate    float64 `json:"default_gst_rate" binding:"min=0,max=100"`
	LowStockThreshold int     `json:"low_stock_threshold" binding:"min=0"`
}
