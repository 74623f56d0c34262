package request

// EmailInvoiceRequest is the request body for emailing an invoice.
type EmailInvoiceRequest struct {
	Email string `json:"email" binding:"required,email"`
}
