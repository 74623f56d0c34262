package request

// CreateCustomerRequest represents a customer creation request
type CreateCustomerRequest struct {
	Name    string  `json:"name" binding:"required,min=2,max=255"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Phone   *string `json:"phone" binding:"omitempty,min=10,max=15"`
	GSTIN   *string `json:"gstin" binding:"omitempty,len=15"`
	Village *string `json:"village" binding:"omitempty,max=255"`
	Address *string `json:"address" binding:"omitempty,max=500"`
}

// UpdateCustomerRequest represents a customer update request
type UpdateCustomerRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=2,max=255"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Phone   *string `json:"phone" binding:"omitempty,min=10,max=15"`
	GSTIN   *string `json:"gstin" binding:"omitempty,len=15"`
	Village *string `json:"village" binding:"omitempty,max=255"`
	Address *string `json:"address" binding:"omitempty,max=500"`
}
