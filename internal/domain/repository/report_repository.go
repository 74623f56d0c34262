package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TopProductResult represents a product's sales performance
type TopProductResult struct {
	ProductID    uuid.UUID
	ProductName  string
	ProductCode  string
	QuantitySold int
	Revenue      float64
}

// CategorySalesResult represents sales aggregated by category
type CategorySalesResult struct {
	CategoryID   uuid.UUID
	CategoryName string
	TotalSales   float64
	SaleCount    int
	Percentage   float64
}

// TopCustomerResult represents a customer's spending data
type TopCustomerResult struct {
	CustomerID   uuid.UUID
	CustomerName string
	TotalSpent   float64
	SaleCount    int
}

// DailySalesResult represents sales data for a single day
type DailySalesResult struct {
	Date    time.Time
	Revenue float64
	Profit  float64
}

// GSTRateSummary aggregates taxable value and tax collected per GST rate
// over a period, split into central and state halves for filing.
type GSTRateSummary struct {
	GSTRate      float64
	TaxableValue float64
	CGST         float64
	SGST         float64
	TotalTax     float64
	SaleCount    int
}

// InventoryValuation summarizes current stock worth at purchase and selling prices.
type InventoryValuation struct {
	ProductCount  int
	TotalUnits    int
	PurchaseValue float64
	SellingValue  float64
}

// FinancialSummary aggregates revenue, tax, and discount over a period.
type FinancialSummary struct {
	Revenue       float64
	TaxCollected  float64
	DiscountGiven float64
	SaleCount     int
	AmountDue     float64
}

// ReportRepository defines interface for reporting/aggregation queries
type ReportRepository interface {
	// GetTopProducts returns top selling products by revenue
	GetTopProducts(ctx context.Context, limit int) ([]TopProductResult, error)

	// GetSalesByCategory returns sales aggregated by category with percentages
	GetSalesByCategory(ctx context.Context) ([]CategorySalesResult, error)

	// GetTopCustomers returns top customers by total spending
	GetTopCustomers(ctx context.Context, limit int) ([]TopCustomerResult, error)

	// GetDailySales returns daily sales data for the last N days
	GetDailySales(ctx context.Context, days int) ([]DailySalesResult, error)

	// GetTotalRevenue returns total revenue from completed sales
	GetTotalRevenue(ctx context.Context) (float64, error)

	// GetMonthlyRevenue returns revenue for the current month
	GetMonthlyRevenue(ctx context.Context) (float64, error)

	// GetGSTSummary returns per-rate tax totals for completed sales in a period
	GetGSTSummary(ctx context.Context, from, to time.Time) ([]GSTRateSummary, error)

	// GetInventoryValuation returns current stock valuation
	GetInventoryValuation(ctx context.Context) (*InventoryValuation, error)

	// GetFinancialSummary returns aggregate revenue/tax/discount for a period
	GetFinancialSummary(ctx context.Context, from, to time.Time) (*FinancialSummary, error)
}
