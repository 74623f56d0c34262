package handler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/krishisethu/pos-api/internal/application/service"
	"github.com/krishisethu/pos-api/internal/presentation/http/dto/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler handles reporting HTTP requests
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// dateRange parses from/to query params, defaulting to the current month.
func dateRange(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := now

	if f := c.Query("from"); f != "" {
		t, err := time.Parse("2006-01-02", f)
		if err != nil {
			return from, to, fmt.Errorf("invalid from date: %w", err)
		}
		from = t
	}
	if tq := c.Query("to"); tq != "" {
		t, err := time.Parse("2006-01-02", tq)
		if err != nil {
			return from, to, fmt.Errorf("invalid to date: %w", err)
		}
		to = t.Add(24*time.Hour - time.Second)
	}

	return from, to, nil
}

// Sales handles the sales report
func (h *ReportHandler) Sales(c *gin.Context) {
	from, to, err := dateRange(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	report, err := h.reportService.GetSalesReport(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sales report generated successfully", report)
}

// GST handles the GST summary report
func (h *ReportHandler) GST(c *gin.Context) {
	from, to, err := dateRange(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	report, err := h.reportService.GetGSTReport(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "GST report generated successfully", report)
}

// Inventory handles the inventory valuation report
func (h *ReportHandler) Inventory(c *gin.Context) {
	valuation, err := h.reportService.GetInventoryValuation(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Inventory valuation retrieved successfully", valuation)
}

// Financial handles the financial summary report
func (h *ReportHandler) Financial(c *gin.Context) {
	from, to, err := dateRange(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	summary, err := h.reportService.GetFinancialSummary(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Financial summary retrieved successfully", summary)
}

// ExportGST handles downloading the GST report as an Excel file
func (h *ReportHandler) ExportGST(c *gin.Context) {
	from, to, err := dateRange(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	buf, err := h.reportService.ExportGSTReport(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("gst-report-%s.xlsx", from.Format("2006-01"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(200, xlsxContentType, buf.Bytes())
}

// ExportSales handles downloading the sales report as an Excel file
func (h *ReportHandler) ExportSales(c *gin.Context) {
	from, to, err := dateRange(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	buf, err := h.reportService.ExportSalesReport(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("sales-report-%s.xlsx", from.Format("2006-01-02"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(200, xlsxContentType, buf.Bytes())
}

// ExportInventory handles downloading the inventory report as an Excel file
func (h *ReportHandler) ExportInventory(c *gin.Context) {
	buf, err := h.reportService.ExportInventoryReport(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("inventory-report-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(200, xlsxContentType, buf.Bytes())
}
