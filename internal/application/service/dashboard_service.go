package service

import (
	"context"

	"github.com/krishisethu/pos-api/internal/domain/repository"
	"github.com/krishisethu/pos-api/pkg/pagination"
)

// DashboardService provides the counter-top overview: today's takings,
// stock alerts, expiring batches, recent sales trends.
type DashboardService struct {
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	reportRepo   repository.ReportRepository
	settingsRepo repository.SettingsRepository
	syncSvc      *SyncService
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	reportRepo repository.ReportRepository,
	settingsRepo repository.SettingsRepository,
	syncSvc *SyncService,
) *DashboardService {
	return &DashboardService{
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		reportRepo:   reportRepo,
		settingsRepo: settingsRepo,
		syncSvc:      syncSvc,
	}
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	TotalCustomers    int64                `json:"total_customers"`
	TotalProducts     int64                `json:"total_products"`
	TotalSales        int64                `json:"total_sales"`
	TotalRevenue      float64              `json:"total_revenue"`
	MonthlyRevenue    float64              `json:"monthly_revenue"`
	LowStockCount     int                  `json:"low_stock_count"`
	ExpiringCount     int                  `json:"expiring_count"`
	PendingSyncCount  int64                `json:"pending_sync_count"`
	DailySalesData    []DailySalesPoint    `json:"daily_sales_data"`
	CategorySalesData []CategorySalesPoint `json:"category_sales_data"`
}

// DailySalesPoint represents a daily sales data point
type DailySalesPoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Profit  float64 `json:"profit"`
}

// CategorySalesPoint represents sales by category
type CategorySalesPoint struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// GetDashboardStats returns dashboard statistics
func (s *DashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	countParams := pagination.DefaultPagination()
	countParams.PerPage = 1 // We only need the count

	_, customerCount, err := s.customerRepo.List(ctx, countParams, "")
	if err != nil {
		return nil, err
	}
	stats.TotalCustomers = customerCount

	productParams := &repository.ProductFilterParams{Pagination: &pagination.PaginationParams{Page: 1, PerPage: 1}}
	_, productCount, err := s.productRepo.List(ctx, productParams)
	if err != nil {
		return nil, err
	}
	stats.TotalProducts = productCount

	saleParams := &repository.SaleFilterParams{Pagination: &pagination.PaginationParams{Page: 1, PerPage: 1}}
	_, saleCount, err := s.saleRepo.List(ctx, saleParams)
	if err != nil {
		return nil, err
	}
	stats.TotalSales = saleCount

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	threshold := 10
	if settings != nil {
		threshold = settings.LowStockThreshold
	}

	lowStock, err := s.productRepo.GetLowStock(ctx, threshold)
	if err != nil {
		return nil, err
	}
	stats.LowStockCount = len(lowStock)

	expiring, err := s.productRepo.GetExpiring(ctx, 90)
	if err != nil {
		return nil, err
	}
	stats.ExpiringCount = len(expiring)

	stats.TotalRevenue, err = s.reportRepo.GetTotalRevenue(ctx)
	if err != nil {
		return nil, err
	}

	stats.MonthlyRevenue, err = s.reportRepo.GetMonthlyRevenue(ctx)
	if err != nil {
		return nil, err
	}

	if s.syncSvc != nil {
		if pending, err := s.syncSvc.Pending(ctx); err == nil {
			stats.PendingSyncCount = pending
		}
	}

	daily, err := s.reportRepo.GetDailySales(ctx, 7)
	if err != nil {
		return nil, err
	}
	for _, d := range daily {
		stats.DailySalesData = append(stats.DailySalesData, DailySalesPoint{
			Date:    d.Date.Format("2006-01-02"),
			Revenue: d.Revenue,
			Profit:  d.Profit,
		})
	}

	byCategory, err := s.reportRepo.GetSalesByCategory(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range byCategory {
		stats.CategorySalesData = append(stats.CategorySalesData, CategorySalesPoint{
			Category: c.CategoryName,
			Amount:   c.TotalSales,
		})
	}

	return stats, nil
}
