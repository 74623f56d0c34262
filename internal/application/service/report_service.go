package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/krishisethu/pos-api/internal/domain/repository"
)

// ReportService produces sales, GST, inventory and financial reports.
type ReportService struct {
	reportRepo  repository.ReportRepository
	productRepo repository.ProductRepository
}

// NewReportService creates a new report service
func NewReportService(reportRepo repository.ReportRepository, productRepo repository.ProductRepository) *ReportService {
	return &ReportService{
		reportRepo:  reportRepo,
		productRepo: productRepo,
	}
}

// SalesReport aggregates sales performance over a period.
type SalesReport struct {
	From         time.Time                        `json:"from"`
	To           time.Time                        `json:"to"`
	Summary      *repository.FinancialSummary     `json:"summary"`
	TopProducts  []repository.TopProductResult    `json:"top_products"`
	TopCustomers []repository.TopCustomerResult   `json:"top_customers"`
	ByCategory   []repository.CategorySalesResult `json:"by_category"`
}

// GetSalesReport builds the sales report for a period
func (s *ReportService) GetSalesReport(ctx context.Context, from, to time.Time) (*SalesReport, error) {
	summary, err := s.reportRepo.GetFinancialSummary(ctx, from, to)
	if err != nil {
		return nil, err
	}

	topProducts, err := s.reportRepo.GetTopProducts(ctx, 10)
	if err != nil {
		return nil, err
	}

	topCustomers, err := s.reportRepo.GetTopCustomers(ctx, 10)
	if err != nil {
		return nil, err
	}

	byCategory, err := s.reportRepo.GetSalesByCategory(ctx)
	if err != nil {
		return nil, err
	}

	return &SalesReport{
		From:         from,
		To:           to,
		Summary:      summary,
		TopProducts:  topProducts,
		TopCustomers: topCustomers,
		ByCategory:   byCategory,
	}, nil
}

// GSTReport is the filing-oriented per-rate tax breakdown.
type GSTReport struct {
	From         time.Time                   `json:"from"`
	To           time.Time                   `json:"to"`
	Rates        []repository.GSTRateSummary `json:"rates"`
	TotalTaxable float64                     `json:"total_taxable"`
	TotalCGST    float64                     `json:"total_cgst"`
	TotalSGST    float64                     `json:"total_sgst"`
	TotalTax     float64                     `json:"total_tax"`
}

// GetGSTReport builds the GST compliance report for a period
func (s *ReportService) GetGSTReport(ctx context.Context, from, to time.Time) (*GSTReport, error) {
	rates, err := s.reportRepo.GetGSTSummary(ctx, from, to)
	if err != nil {
		return nil, err
	}

	report := &GSTReport{From: from, To: to, Rates: rates}
	for _, r := range rates {
		report.TotalTaxable += r.TaxableValue
		report.TotalCGST += r.CGST
		report.TotalSGST += r.SGST
		report.TotalTax += r.TotalTax
	}

	return report, nil
}

// GetInventoryValuation returns the current stock valuation
func (s *ReportService) GetInventoryValuation(ctx context.Context) (*repository.InventoryValuation, error) {
	return s.reportRepo.GetInventoryValuation(ctx)
}

// GetFinancialSummary returns aggregate revenue/tax/discount for a period
func (s *ReportService) GetFinancialSummary(ctx context.Context, from, to time.Time) (*repository.FinancialSummary, error) {
	return s.reportRepo.GetFinancialSummary(ctx, from, to)
}

// ExportGSTReport renders the GST report as an Excel workbook ready for
// the accountant. Returns the file contents.
func (s *ReportService) ExportGSTReport(ctx context.Context, from, to time.Time) (*bytes.Buffer, error) {
	report, err := s.GetGSTReport(ctx, from, to)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "GST Summary"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"GST Rate (%)", "Taxable Value", "CGST", "SGST", "Total Tax", "Sales"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, r := range report.Rates {
		values := []interface{}{r.GSTRate, r.TaxableValue, r.CGST, r.SGST, r.TotalTax, r.SaleCount}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	totalRow := len(report.Rates) + 2
	totals := []interface{}{"TOTAL", report.TotalTaxable, report.TotalCGST, report.TotalSGST, report.TotalTax, ""}
	for col, v := range totals {
		cell, _ := excelize.CoordinatesToCellName(col+1, totalRow)
		f.SetCellValue(sheet, cell, v)
	}

	f.SetCellValue(sheet, fmt.Sprintf("A%d", totalRow+2),
		fmt.Sprintf("Period: %s to %s", from.Format("02-01-2006"), to.Format("02-01-2006")))

	return f.WriteToBuffer()
}

// ExportSalesReport renders the sales report as an Excel workbook.
func (s *ReportService) ExportSalesReport(ctx context.Context, from, to time.Time) (*bytes.Buffer, error) {
	report, err := s.GetSalesReport(ctx, from, to)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const summarySheet = "Summary"
	f.SetSheetName("Sheet1", summarySheet)

	summaryRows := [][]interface{}{
		{"Period", fmt.Sprintf("%s to %s", from.Format("02-01-2006"), to.Format("02-01-2006"))},
		{"Revenue", report.Summary.Revenue},
		{"Tax Collected", report.Summary.TaxCollected},
		{"Discount Given", report.Summary.DiscountGiven},
		{"Sales", report.Summary.SaleCount},
		{"Amount Due", report.Summary.AmountDue},
	}
	for row, values := range summaryRows {
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+1)
			f.SetCellValue(summarySheet, cell, v)
		}
	}

	const productsSheet = "Top Products"
	if _, err := f.NewSheet(productsSheet); err != nil {
		return nil, err
	}
	productHeaders := []string{"Product", "Code", "Quantity Sold", "Revenue"}
	for i, h := range productHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(productsSheet, cell, h)
	}
	for row, p := range report.TopProducts {
		values := []interface{}{p.ProductName, p.ProductCode, p.QuantitySold, p.Revenue}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(productsSheet, cell, v)
		}
	}

	return f.WriteToBuffer()
}

// ExportInventoryReport renders the current stock list with valuation.
func (s *ReportService) ExportInventoryReport(ctx context.Context) (*bytes.Buffer, error) {
	valuation, err := s.reportRepo.GetInventoryValuation(ctx)
	if err != nil {
		return nil, err
	}

	lowStock, err := s.productRepo.GetLowStock(ctx, 0)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Inventory"
	f.SetSheetName("Sheet1", sheet)

	summaryRows := [][]interface{}{
		{"Products", valuation.ProductCount},
		{"Units In Stock", valuation.TotalUnits},
		{"Purchase Value", valuation.PurchaseValue},
		{"Selling Value", valuation.SellingValue},
	}
	for row, values := range summaryRows {
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+1)
			f.SetCellValue(sheet, cell, v)
		}
	}

	const lowSheet = "Low Stock"
	if _, err := f.NewSheet(lowSheet); err != nil {
		return nil, err
	}
	headers := []string{"Product", "Code", "Batch", "Quantity", "Alert Level"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(lowSheet, cell, h)
	}
	for row, p := range lowStock {
		values := []interface{}{p.Name, p.Code, p.BatchNumber, p.Quantity, p.QuantityAlert}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(lowSheet, cell, v)
		}
	}

	return f.WriteToBuffer()
}
