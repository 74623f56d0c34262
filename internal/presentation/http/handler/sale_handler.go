package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/krishisethu/pos-api/internal/application/service"
	"github.com/krishisethu/pos-api/internal/domain/enum"
	"github.com/krishisethu/pos-api/internal/domain/repository"
	"github.com/krishisethu/pos-api/internal/presentation/http/dto/request"
	"github.com/krishisethu/pos-api/internal/presentation/http/dto/response"
	"github.com/krishisethu/pos-api/pkg/billing"
	"github.com/krishisethu/pos-api/pkg/pagination"
)

// SaleHandler handles sale-related HTTP requests
type SaleHandler struct {
	saleService *service.SaleService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

func parsePaymentMethod(s string) enum.PaymentMethod {
	switch strings.ToLower(s) {
	case "upi":
		return enum.PaymentMethodUPI
	case "card":
		return enum.PaymentMethodCard
	case "credit":
		return enum.PaymentMethodCredit
	default:
		return enum.PaymentMethodCash
	}
}

// Checkout handles a checkout confirmation
func (h *SaleHandler) Checkout(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}

	discount := billing.Discount{Value: req.DiscountValue}
	if req.DiscountType == "amount" {
		discount.Kind = billing.DiscountAmount
	}

	input := &service.CheckoutInput{
		UserID:          *userID,
		CustomerID:      req.CustomerID,
		Discount:        discount,
		OverrideGSTRate: req.OverrideGSTRate,
		PaymentMethod:   parsePaymentMethod(req.PaymentMethod),
		AmountPaid:      req.AmountPaid,
		Notes:           req.Notes,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, service.CheckoutItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	result, err := h.saleService.Checkout(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	if result.Queued {
		response.Success(c, 202, "Sale queued for sync", result)
		return
	}

	response.Created(c, "Sale completed successfully", result)
}

// List handles listing sales
func (h *SaleHandler) List(c *gin.Context) {
	var filter request.SaleFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.SaleFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search:    filter.Search,
		SortBy:    filter.SortBy,
		SortOrder: filter.SortOrder,
	}

	if filter.Status != "" {
		status := enum.SaleStatusCompleted
		if strings.ToLower(filter.Status) == "cancelled" {
			status = enum.SaleStatusCancelled
		}
		params.Status = &status
	}

	if filter.PaymentMethod != "" {
		method := parsePaymentMethod(filter.PaymentMethod)
		params.PaymentMethod = &method
	}

	if filter.CustomerID != "" {
		custID, err := uuid.Parse(filter.CustomerID)
		if err == nil {
			params.CustomerID = &custID
		}
	}

	if filter.StartDate != "" {
		if t, err := time.Parse("2006-01-02", filter.StartDate); err == nil {
			params.StartDate = &t
		}
	}
	if filter.EndDate != "" {
		if t, err := time.Parse("2006-01-02", filter.EndDate); err == nil {
			end := t.Add(24*time.Hour - time.Second)
			params.EndDate = &end
		}
	}

	result, err := h.saleService.ListSales(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Sales retrieved successfully", result)
}

// Get handles getting a single sale with its items
func (h *SaleHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	sale, err := h.saleService.GetSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale retrieved successfully", sale)
}

// Cancel handles cancelling a sale and restoring stock
func (h *SaleHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	if err := h.saleService.CancelSale(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale cancelled successfully", nil)
}

// DueSales handles listing credit sales with an outstanding balance
func (h *SaleHandler) DueSales(c *gin.Context) {
	params := pagination.DefaultPagination()
	if err := c.ShouldBindQuery(params); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.saleService.GetDueSales(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Due sales retrieved successfully", result)
}

// PayDue records a payment against a credit sale
func (h *SaleHandler) PayDue(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	var req request.PayDueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}

	if err := h.saleService.PayDue(c.Request.Context(), id, req.Amount); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment recorded successfully", nil)
}
