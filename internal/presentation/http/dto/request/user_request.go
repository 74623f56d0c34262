package request

// UpdateUserRequest represents a staff account update request
type UpdateUserRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=2,max=255"`
	Phone *string `json:"phone" binding:"omitempty,max=20"`
	Role  *string `json:"role" binding:"omitempty,oneof=admin cashier"`
}
