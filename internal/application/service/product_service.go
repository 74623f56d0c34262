package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/krishisethu/pos-api/internal/domain/entity"
	"github.com/krishisethu/pos-api/internal/domain/repository"
	"github.com/krishisethu/pos-api/internal/infrastructure/cache"
	"github.com/krishisethu/pos-api/pkg/apperror"
	"github.com/krishisethu/pos-api/pkg/pagination"
	"github.com/krishisethu/pos-api/pkg/utils"
)

// ProductService handles product-related operations
type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	stockCache   *cache.StockCache
}

// NewProductService creates a new product service
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	stockCache *cache.StockCache,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		stockCache:   stockCache,
	}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	UserID        uuid.UUID
	CategoryID    *uuid.UUID
	Name          string
	Code          string
	HSNCode       string
	BatchNumber   string
	ExpiryDate    *time.Time
	Quantity      int
	QuantityAlert int
	PurchasePrice float64
	SellingPrice  float64
	GSTRate       *float64
	Notes         *string
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	// Auto-generate code if not provided
	code := input.Code
	if code == "" {
		code = utils.GenerateProductCode()
	}

	existingProduct, err := s.productRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existingProduct != nil {
		return nil, apperror.NewConflictError("Product code already exists")
	}

	if input.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, apperror.NewNotFoundError("Category")
		}
	}

	product := &entity.Product{
		UserID:        input.UserID,
		CategoryID:    input.CategoryID,
		Name:          input.Name,
		Slug:          utils.Slugify(input.Name),
		Code:          code,
		HSNCode:       input.HSNCode,
		BatchNumber:   input.BatchNumber,
		ExpiryDate:    input.ExpiryDate,
		Quantity:      input.Quantity,
		QuantityAlert: input.QuantityAlert,
		GSTRate:       input.GSTRate,
		Notes:         input.Notes,
	}
	product.SetPurchasePriceFromDecimal(input.PurchasePrice)
	product.SetSellingPriceFromDecimal(input.SellingPrice)

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	created, err := s.productRepo.GetByID(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	if created != nil {
		s.stockCache.Put(*created)
	}
	return created, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// UpdateProductInput represents the update product input
type UpdateProductInput struct {
	CategoryID    *uuid.UUID
	Name          *string
	HSNCode       *string
	BatchNumber   *string
	ExpiryDate    *time.Time
	QuantityAlert *int
	PurchasePrice *float64
	SellingPrice  *float64
	GSTRate       *float64
	Notes         *string
}

// UpdateProduct updates an existing product
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	if input.Name != nil {
		product.Name = *input.Name
		product.Slug = utils.Slugify(*input.Name)
	}
	if input.CategoryID != nil {
		product.CategoryID = input.CategoryID
	}
	if input.HSNCode != nil {
		product.HSNCode = *input.HSNCode
	}
	if input.BatchNumber != nil {
		product.BatchNumber = *input.BatchNumber
	}
	if input.ExpiryDate != nil {
		product.ExpiryDate = input.ExpiryDate
	}
	if input.QuantityAlert != nil {
		product.QuantityAlert = *input.QuantityAlert
	}
	if input.PurchasePrice != nil {
		product.SetPurchasePriceFromDecimal(*input.PurchasePrice)
	}
	if input.SellingPrice != nil {
		product.SetSellingPriceFromDecimal(*input.SellingPrice)
	}
	if input.GSTRate != nil {
		product.GSTRate = input.GSTRate
	}
	if input.Notes != nil {
		product.Notes = input.Notes
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.stockCache.Put(*product)
	return product, nil
}

// DeleteProduct deletes a product
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NewNotFoundError("Product")
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.stockCache.Remove(id)
	return nil
}

// ListProducts lists products with filtering and refreshes the stock cache
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	for _, p := range products {
		s.stockCache.Put(p)
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// GetLowStock returns products at or below their alert threshold
func (s *ProductService) GetLowStock(ctx context.Context, threshold int) ([]entity.Product, error) {
	return s.productRepo.GetLowStock(ctx, threshold)
}

// GetExpiring returns products whose batch expires within the given days
func (s *ProductService) GetExpiring(ctx context.Context, withinDays int) ([]entity.Product, error) {
	if withinDays <= 0 {
		withinDays = 90
	}
	return s.productRepo.GetExpiring(ctx, withinDays)
}

// AdjustStock applies a manual stock adjustment (goods received, damage,
// stocktake correction) and keeps the in-memory snapshot in step.
func (s *ProductService) AdjustStock(ctx context.Context, id uuid.UUID, change int) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	if change >= 0 {
		if err := s.productRepo.AtomicIncrementBatch(ctx, map[uuid.UUID]int{id: change}); err != nil {
			return nil, err
		}
	} else {
		failed, err := s.productRepo.AtomicDecrementBatch(ctx, map[uuid.UUID]int{id: -change})
		if err != nil {
			return nil, err
		}
		if len(failed) > 0 {
			return nil, apperror.NewBadRequestError("Adjustment would take stock below zero")
		}
	}

	product, err = s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product != nil {
		s.stockCache.Put(*product)
	}
	return product, nil
}

// WarmStockCache loads the full product list into the in-memory snapshot.
// Called at startup so offline checkouts can price carts immediately.
func (s *ProductService) WarmStockCache(ctx context.Context) error {
	params := &repository.ProductFilterParams{
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: 10000},
	}
	products, _, err := s.productRepo.List(ctx, params)
	if err != nil {
		return err
	}
	s.stockCache.Load(products)
	return nil
}
