package request

// CreateCategoryRequest represents a category creation request
type CreateCategoryRequest struct {
	Name           string   `json:"name" binding:"required,min=2,max=255"`
	DefaultGSTRate *float64 `json:"default_gst_rate" binding:"omitempty,min=0,max=100"`
}

// UpdateCategoryRequest represents a category update request
type UpdateCategoryRequest struct {
	Name           *string  `json:"name" binding:"omitempty,min=2,max=255"`
	DefaultGSTRate *float64 `json:"default_gst_rate" binding:"omitempty,min=0,max=100"`
}
