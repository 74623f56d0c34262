package repository

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"

	domainRepo "github.com/krishisethu/pos-api/internal/domain/repository"
)

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) domainRepo.ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) GetTopProducts(ctx context.Context, limit int) ([]domainRepo.TopProductResult, error) {
	var results []domainRepo.TopProductResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			p.id as product_id,
			p.name as product_name,
			p.code as product_code,
			COALESCE(SUM(si.quantity), 0) as quantity_sold,
			COALESCE(SUM(si.total), 0) / 100.0 as revenue
		FROM sale_items si
		JOIN products p ON p.id = si.product_id
		JOIN sales s ON s.id = si.sale_id
		WHERE s.status = 0
		GROUP BY p.id, p.name, p.code
		ORDER BY revenue DESC
		LIMIT ?
	`, limit).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *reportRepository) GetSalesByCategory(ctx context.Context) ([]domainRepo.CategorySalesResult, error) {
	var results []domainRepo.CategorySalesResult

	// First get total sales for percentage calculation
	var totalSales float64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(si.total), 0) / 100.0
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		WHERE s.status = 0
	`).Scan(&totalSales).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(c.id, '00000000-0000-0000-0000-000000000000') as category_id,
			COALESCE(c.name, 'Uncategorized') as category_name,
			COALESCE(SUM(si.total), 0) / 100.0 as total_sales,
			COUNT(DISTINCT s.id) as sale_count
		FROM sale_items si
		JOIN products p ON p.id = si.product_id
		LEFT JOIN categories c ON c.id = p.category_id
		JOIN sales s ON s.id = si.sale_id
		WHERE s.status = 0
		GROUP BY c.id, c.name
		ORDER BY total_sales DESC
	`).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	for i := range results {
		if totalSales > 0 {
			results[i].Percentage = (results[i].TotalSales / totalSales) * 100
		}
	}

	return results, nil
}

func (r *reportRepository) GetTopCustomers(ctx context.Context, limit int) ([]domainRepo.TopCustomerResult, error) {
	var results []domainRepo.TopCustomerResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			c.id as customer_id,
			c.name as customer_name,
			COALESCE(SUM(s.total), 0) / 100.0 as total_spent,
			COUNT(s.id) as sale_count
		FROM sales s
		JOIN customers c ON c.id = s.customer_id
		WHERE s.status = 0 AND s.customer_id IS NOT NULL
		GROUP BY c.id, c.name
		ORDER BY total_spent DESC
		LIMIT ?
	`, limit).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *reportRepository) GetDailySales(ctx context.Context, days int) ([]domainRepo.DailySalesResult, error) {
	results := make([]domainRepo.DailySalesResult, 0, days)
	now := time.Now()

	// Generate dates for the last N days and get sales for each
	for i := days - 1; i >= 0; i-- {
		date := now.AddDate(0, 0, -i)
		startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
		endOfDay := startOfDay.Add(24 * time.Hour)

		var row struct {
			Revenue sql.NullFloat64
			Cost    sql.NullFloat64
		}
		err := r.db.WithContext(ctx).Raw(`
			SELECT
				COALESCE(SUM(s.total), 0) / 100.0 as revenue,
				COALESCE(SUM(cost.purchase_total), 0) / 100.0 as cost
			FROM sales s
			LEFT JOIN (
				SELECT si.sale_id, SUM(p.purchase_price * si.quantity) as purchase_total
				FROM sale_items si
				JOIN products p ON p.id = si.product_id
				GROUP BY si.sale_id
			) cost ON cost.sale_id = s.id
			WHERE s.status = 0
			AND s.sale_date >= ? AND s.sale_date < ?
		`, startOfDay, endOfDay).Scan(&row).Error

		if err != nil {
			return nil, err
		}

		rev, cost := 0.0, 0.0
		if row.Revenue.Valid {
			rev = row.Revenue.Float64
		}
		if row.Cost.Valid {
			cost = row.Cost.Float64
		}

		results = append(results, domainRepo.DailySalesResult{
			Date:    startOfDay,
			Revenue: rev,
			Profit:  rev - cost,
		})
	}

	return results, nil
}

func (r *reportRepository) GetTotalRevenue(ctx context.Context) (float64, error) {
	var revenue float64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(total), 0) / 100.0
		FROM sales
		WHERE status = 0
	`).Scan(&revenue).Error

	return revenue, err
}

func (r *reportRepository) GetMonthlyRevenue(ctx context.Context) (float64, error) {
	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var revenue float64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(total), 0) / 100.0
		FROM sales
		WHERE status = 0 AND sale_date >= ?
	`, startOfMonth).Scan(&revenue).Error

	return revenue, err
}

// GetGSTSummary aggregates taxable value and tax per GST rate. The tax for a
// line is derived from the frozen sale_items.gst_rate, scaled by the sale's
// overall discount so the split matches what was actually charged.
func (r *reportRepository) GetGSTSummary(ctx context.Context, from, to time.Time) ([]domainRepo.GSTRateSummary, error) {
	var results []domainRepo.GSTRateSummary

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			si.gst_rate as gst_rate,
			COALESCE(SUM(si.total), 0) / 100.0 as taxable_value,
			COALESCE(SUM(si.total * si.gst_rate / 100.0 *
				CASE WHEN s.subtotal > 0
					THEN (s.subtotal - s.discount)::numeric / s.subtotal
					ELSE 1 END), 0) / 100.0 / 2 as cgst,
			COALESCE(SUM(si.total * si.gst_rate / 100.0 *
				CASE WHEN s.subtotal > 0
					THEN (s.subtotal - s.discount)::numeric / s.subtotal
					ELSE 1 END), 0) / 100.0 / 2 as sgst,
			COALESCE(SUM(si.total * si.gst_rate / 100.0 *
				CASE WHEN s.subtotal > 0
					THEN (s.subtotal - s.discount)::numeric / s.subtotal
					ELSE 1 END), 0) / 100.0 as total_tax,
			COUNT(DISTINCT s.id) as sale_count
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		WHERE s.status = 0 AND s.sale_date >= ? AND s.sale_date <= ?
		GROUP BY si.gst_rate
		ORDER BY si.gst_rate ASC
	`, from, to).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *reportRepository) GetInventoryValuation(ctx context.Context) (*domainRepo.InventoryValuation, error) {
	var result domainRepo.InventoryValuation

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) as product_count,
			COALESCE(SUM(quantity), 0) as total_units,
			COALESCE(SUM(quantity * purchase_price), 0) / 100.0 as purchase_value,
			COALESCE(SUM(quantity * selling_price), 0) / 100.0 as selling_value
		FROM products
		WHERE deleted_at IS NULL
	`).Scan(&result).Error

	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *reportRepository) GetFinancialSummary(ctx context.Context, from, to time.Time) (*domainRepo.FinancialSummary, error) {
	var result domainRepo.FinancialSummary

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(SUM(total), 0) / 100.0 as revenue,
			COALESCE(SUM(tax_amount), 0) / 100.0 as tax_collected,
			COALESCE(SUM(discount), 0) / 100.0 as discount_given,
			COUNT(*) as sale_count,
			COALESCE(SUM(total - amount_paid), 0) / 100.0 as amount_due
		FROM sales
		WHERE status = 0 AND sale_date >= ? AND sale_date <= ?
	`, from, to).Scan(&result).Error

	if err != nil {
		return nil, err
	}

	return &result, nil
}
