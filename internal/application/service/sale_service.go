package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/krishisethu/pos-api/internal/domain/entity"
	"github.com/krishisethu/pos-api/internal/domain/enum"
	"github.com/krishisethu/pos-api/internal/domain/repository"
	"github.com/krishisethu/pos-api/internal/infrastructure/cache"
	"github.com/krishisethu/pos-api/pkg/apperror"
	"github.com/krishisethu/pos-api/pkg/billing"
	"github.com/krishisethu/pos-api/pkg/metrics"
	"github.com/krishisethu/pos-api/pkg/pagination"
)

// SaleService owns the checkout pipeline: it builds the sale record from
// the cart, attempts the primary write, falls back to the offline queue,
// and adjusts stock best-effort in both branches.
type SaleService struct {
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	queue        repository.OfflineQueueRepository
	stockCache   *cache.StockCache
}

// NewSaleService creates a new sale service
func NewSaleService(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	queue repository.OfflineQueueRepository,
	stockCache *cache.StockCache,
) *SaleService {
	return &SaleService{
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		queue:        queue,
		stockCache:   stockCache,
	}
}

// CheckoutItemInput is one cart line at checkout.
type CheckoutItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// CheckoutInput is the full cart/customer/payment state at checkout
// confirmation.
type CheckoutInput struct {
	UserID          uuid.UUID
	CustomerID      *uuid.UUID
	Items           []CheckoutItemInput
	Discount        billing.Discount
	OverrideGSTRate *float64
	PaymentMethod   enum.PaymentMethod
	AmountPaid      float64
	Notes           string
}

// CheckoutResult carries the persisted (or queued) sale plus the totals
// used for both the commit and the receipt, so the displayed amount always
// matches the stored amount.
type CheckoutResult struct {
	Sale   *entity.Sale       `json:"sale"`
	Totals billing.SaleTotals `json:"totals"`
	// Queued is true when the sale was parked in the offline queue
	// instead of being written to the primary database.
	Queued bool `json:"queued"`
}

// Checkout runs the commit pipeline. Validation failures are terminal and
// produce no writes. Persistence failures are recovered by enqueueing the
// sale locally. Stock adjustment runs in both branches and is best-effort:
// a failed decrement is logged and skipped, never rolls back the sale.
func (s *SaleService) Checkout(ctx context.Context, input *CheckoutInput) (*CheckoutResult, error) {
	if len(input.Items) == 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "items", Message: "Cart is empty"},
		})
	}

	lines, productMap, online, err := s.buildCartLines(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	customerName := ""
	if input.CustomerID == nil {
		customerName = entity.WalkInCustomerName
	} else {
		// Customer lookup is advisory when the database is down: the
		// sale must still go through with the queued fallback. The name
		// stays empty in that case and the replay fills it in.
		customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err == nil && customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
		if customer != nil {
			customerName = customer.Name
		}
	}

	totals := billing.Calculate(lines, input.Discount, input.OverrideGSTRate)

	sale, err := s.buildSaleRecord(input, lines, totals, customerName)
	if err != nil {
		return nil, err
	}

	result := &CheckoutResult{Sale: sale, Totals: totals}

	// Single attempt at the primary store, no retry. Any failure parks
	// the sale in the local queue; the drain loop replays it later.
	persistErr := fmt.Errorf("offline")
	if online {
		persistErr = s.saleRepo.Create(ctx, sale)
	}
	if persistErr != nil {
		sale.Synced = false
		payload, err := json.Marshal(sale)
		if err != nil {
			return nil, fmt.Errorf("failed to encode sale for offline queue: %w", err)
		}
		if _, err := s.queue.Enqueue(ctx, enum.MutationKindSale, payload); err != nil {
			return nil, fmt.Errorf("sale not persisted and offline enqueue failed: %w", err)
		}
		result.Queued = true
		metrics.SalesQueued.Inc()
		log.Printf("Sale %s saved offline (primary write failed: %v)", sale.SaleNo, persistErr)
	} else {
		metrics.SalesCommitted.Inc()
	}

	s.adjustInventory(ctx, input.Items, productMap, online && !result.Queued)

	return result, nil
}

// buildCartLines loads the cart's products and maps them into calculator
// lines. When the primary database is unreachable it falls back to the
// in-memory stock snapshot so an offline checkout can still price the cart.
func (s *SaleService) buildCartLines(ctx context.Context, items []CheckoutItemInput) ([]billing.CartLine, map[uuid.UUID]*entity.Product, bool, error) {
	productIDs := make([]uuid.UUID, len(items))
	for i, item := range items {
		productIDs[i] = item.ProductID
	}

	online := true
	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		online = false
		products = products[:0]
		for _, id := range productIDs {
			if p, ok := s.stockCache.Get(id); ok {
				products = append(products, p)
			}
		}
		log.Printf("Product lookup failed, using cached snapshot: %v", err)
	}

	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	lines := make([]billing.CartLine, 0, len(items))
	for _, item := range items {
		product, exists := productMap[item.ProductID]
		if !exists {
			return nil, nil, online, apperror.NewNotFoundError(fmt.Sprintf("Product %s", item.ProductID))
		}
		if item.Quantity < 1 {
			return nil, nil, online, apperror.NewValidationError([]apperror.FieldError{
				{Field: "quantity", Message: fmt.Sprintf("Quantity for %s must be at least 1", product.Name)},
			})
		}

		var categoryRate *float64
		if product.Category != nil {
			categoryRate = product.Category.DefaultGSTRate
		}

		lines = append(lines, billing.CartLine{
			ProductID:    product.ID,
			Name:         product.Name,
			UnitPrice:    product.GetSellingPriceDecimal(),
			Quantity:     item.Quantity,
			GSTRate:      product.GSTRate,
			CategoryRate: categoryRate,
			HSNCode:      product.HSNCode,
			BatchNumber:  product.BatchNumber,
		})
	}

	return lines, productMap, online, nil
}

// buildSaleRecord maps the cart into the persisted sale shape. It fails
// loudly on an empty cart, a non-positive total, or a missing bill number;
// a validation failure here means nothing has been written anywhere.
func (s *SaleService) buildSaleRecord(input *CheckoutInput, lines []billing.CartLine, totals billing.SaleTotals, customerName string) (*entity.Sale, error) {
	if len(lines) == 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "items", Message: "Cart is empty"},
		})
	}
	if totals.GrandTotal <= 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "total", Message: "Sale total must be greater than zero"},
		})
	}

	saleNo := billing.NewBillNumber()
	if saleNo == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "sale_no", Message: "Bill number could not be generated"},
		})
	}

	amountPaid := input.AmountPaid
	paymentStatus := enum.PaymentStatusUnpaid
	switch {
	case amountPaid >= totals.GrandTotal:
		paymentStatus = enum.PaymentStatusPaid
	case amountPaid > 0:
		paymentStatus = enum.PaymentStatusPartial
	}
	if input.PaymentMethod == enum.PaymentMethodCash || input.PaymentMethod == enum.PaymentMethodUPI || input.PaymentMethod == enum.PaymentMethodCard {
		// Immediate payment methods settle in full at the counter.
		amountPaid = totals.GrandTotal
		paymentStatus = enum.PaymentStatusPaid
	}

	sale := &entity.Sale{
		// Client-generated ID: an offline replay of the same sale hits
		// the primary key instead of double-writing.
		ID:            uuid.New(),
		UserID:        input.UserID,
		CustomerID:    input.CustomerID,
		CustomerName:  customerName,
		SaleNo:        saleNo,
		SaleDate:      time.Now(),
		Status:        enum.SaleStatusCompleted,
		PaymentMethod: input.PaymentMethod,
		PaymentStatus: paymentStatus,
		Subtotal:      int64(totals.Subtotal*100 + 0.5),
		Discount:      int64(totals.DiscountAmount*100 + 0.5),
		TaxAmount:     int64(totals.TaxAmount*100 + 0.5),
		Total:         int64(totals.GrandTotal*100 + 0.5),
		AmountPaid:    int64(amountPaid*100 + 0.5),
		Notes:         input.Notes,
		Synced:        true,
	}

	for i, line := range lines {
		qty := input.Items[i].Quantity
		unitPaise := int64(line.UnitPrice*100 + 0.5)
		sale.Items = append(sale.Items, entity.SaleItem{
			SaleID:      sale.ID,
			ProductID:   line.ProductID,
			ProductName: line.Name,
			HSNCode:     line.HSNCode,
			BatchNumber: line.BatchNumber,
			Quantity:    qty,
			UnitPrice:   unitPaise,
			Total:       unitPaise * int64(qty),
			GSTRate:     billing.ResolveRate(line, input.OverrideGSTRate),
		})
	}

	return sale, nil
}

// adjustInventory decrements stock for every cart line. It always updates
// the in-memory snapshot so the UI shows fresh quantities; the remote
// decrement is attempted only when the primary write succeeded, otherwise
// the delta is queued. A per-line failure is logged and skipped.
func (s *SaleService) adjustInventory(ctx context.Context, items []CheckoutItemInput, productMap map[uuid.UUID]*entity.Product, online bool) {
	for _, item := range items {
		product, ok := productMap[item.ProductID]
		if !ok {
			continue
		}

		resulting, cached := s.stockCache.Adjust(item.ProductID, -item.Quantity)
		if !cached {
			resulting = product.Quantity - item.Quantity
			if resulting < 0 {
				resulting = 0
			}
			product.Quantity = resulting
			s.stockCache.Put(*product)
		}

		if online {
			failed, err := s.productRepo.AtomicDecrementBatch(ctx, map[uuid.UUID]int{item.ProductID: item.Quantity})
			switch {
			case err != nil:
				metrics.StockAdjustmentErrors.Inc()
				log.Printf("Stock decrement failed for product %s, skipping: %v", item.ProductID, err)
			case len(failed) > 0:
				// Remote stock is below the sold quantity; floor it at
				// zero instead of leaving the count stale.
				if err := s.productRepo.UpdateQuantity(ctx, item.ProductID, resulting); err != nil {
					metrics.StockAdjustmentErrors.Inc()
					log.Printf("Stock floor update failed for product %s, skipping: %v", item.ProductID, err)
				}
			}
			continue
		}

		delta := entity.InventoryDelta{
			ProductID:         item.ProductID.String(),
			QuantityChange:    -item.Quantity,
			ResultingQuantity: resulting,
		}
		payload, err := json.Marshal(delta)
		if err != nil {
			metrics.StockAdjustmentErrors.Inc()
			log.Printf("Failed to encode inventory delta for product %s: %v", item.ProductID, err)
			continue
		}
		if _, err := s.queue.Enqueue(ctx, enum.MutationKindInventoryUpdate, payload); err != nil {
			metrics.StockAdjustmentErrors.Inc()
			log.Printf("Failed to enqueue inventory delta for product %s: %v", item.ProductID, err)
		}
	}
}

// GetSale retrieves a sale with its items
func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// ListSales lists sales with filtering
func (s *SaleService) ListSales(ctx context.Context, params *repository.SaleFilterParams) (*pagination.PaginatedResult[entity.Sale], error) {
	sales, total, err := s.saleRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(sales, pag), nil
}

// CancelSale cancels a sale and restores stock
func (s *SaleService) CancelSale(ctx context.Context, id uuid.UUID) error {
	sale, err := s.saleRepo.GetWithItems(ctx, id)
	if err != nil {
		return err
	}
	if sale == nil {
		return apperror.NewNotFoundError("Sale")
	}

	if sale.Status == enum.SaleStatusCancelled {
		return apperror.NewBadRequestError("Sale is already cancelled")
	}

	stockIncrements := make(map[uuid.UUID]int)
	for _, item := range sale.Items {
		stockIncrements[item.ProductID] = item.Quantity
	}

	if err := s.productRepo.AtomicIncrementBatch(ctx, stockIncrements); err != nil {
		return err
	}

	for id, qty := range stockIncrements {
		s.stockCache.Adjust(id, qty)
	}

	return s.saleRepo.UpdateStatus(ctx, id, enum.SaleStatusCancelled)
}

// GetDueSales returns credit sales with an outstanding balance
func (s *SaleService) GetDueSales(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Sale], error) {
	sales, total, err := s.saleRepo.GetDueSales(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(sales, pag), nil
}

// PayDue records a payment towards a credit sale's outstanding balance
func (s *SaleService) PayDue(ctx context.Context, saleID uuid.UUID, amount float64) error {
	if amount <= 0 {
		return apperror.NewBadRequestError("Payment amount must be greater than zero")
	}

	sale, err := s.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return err
	}
	if sale == nil {
		return apperror.NewNotFoundError("Sale")
	}

	sale.AmountPaid += int64(amount*100 + 0.5)
	if sale.AmountPaid >= sale.Total {
		sale.AmountPaid = sale.Total
		sale.PaymentStatus = enum.PaymentStatusPaid
	} else if sale.AmountPaid > 0 {
		sale.PaymentStatus = enum.PaymentStatusPartial
	}

	return s.saleRepo.Update(ctx, sale)
}
