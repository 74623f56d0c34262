package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/krishisethu/pos-api/internal/application/service"
	"github.com/krishisethu/pos-api/internal/domain/entity"
	"github.com/krishisethu/pos-api/internal/domain/enum"
	"github.com/krishisethu/pos-api/internal/domain/repository"
	"github.com/krishisethu/pos-api/internal/infrastructure/cache"
	"github.com/krishisethu/pos-api/internal/infrastructure/offline"
	"github.com/krishisethu/pos-api/pkg/apperror"
	"github.com/krishisethu/pos-api/pkg/billing"
)

type fakeSaleRepo struct {
	repository.SaleRepository
	createErr error
	created   []*entity.Sale
}

func (f *fakeSaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, sale)
	return nil
}

type fakeProductRepo struct {
	repository.ProductRepository
	products     []entity.Product
	lookupErr    error
	decrementErr error
	insufficient []uuid.UUID
	decrements   map[uuid.UUID]int
	updated      map[uuid.UUID]int
}

func (f *fakeProductRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	return f.products, nil
}

func (f *fakeProductRepo) AtomicDecrementBatch(ctx context.Context, decrements map[uuid.UUID]int) ([]uuid.UUID, error) {
	if f.decrementErr != nil {
		return nil, f.decrementErr
	}
	if len(f.insufficient) > 0 {
		return f.insufficient, nil
	}
	if f.decrements == nil {
		f.decrements = make(map[uuid.UUID]int)
	}
	for id, qty := range decrements {
		f.decrements[id] += qty
	}
	return nil, nil
}

func (f *fakeProductRepo) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	if f.updated == nil {
		f.updated = make(map[uuid.UUID]int)
	}
	f.updated[id] = quantity
	return nil
}

type fakeCustomerRepo struct {
	repository.CustomerRepository
	customer *entity.Customer
	err      error
}

func (f *fakeCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.customer, nil
}

func rate(v float64) *float64 { return &v }

func fertilizerProduct(priceRupees float64, qty int) entity.Product {
	p := entity.Product{
		ID:       uuid.New(),
		Name:     "DAP 50kg",
		HSNCode:  "31053000",
		Quantity: qty,
		GSTRate:  rate(5),
	}
	p.SetSellingPriceFromDecimal(priceRupees)
	return p
}

func newCheckoutFixture(t *testing.T, products []entity.Product) (*service.SaleService, *fakeSaleRepo, *fakeProductRepo, *offline.Store, *cache.StockCache) {
	t.Helper()

	saleRepo := &fakeSaleRepo{}
	productRepo := &fakeProductRepo{products: products}
	queue, err := offline.NewStore(":memory:")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { queue.Close() })

	stockCache := cache.NewStockCache()
	stockCache.Load(products)

	svc := service.NewSaleService(saleRepo, productRepo, &fakeCustomerRepo{}, queue, stockCache)
	return svc, saleRepo, productRepo, queue, stockCache
}

func TestCheckoutCommitsAndDecrementsStock(t *testing.T) {
	product := fertilizerProduct(100, 20)
	svc, saleRepo, productRepo, queue, stockCache := newCheckoutFixture(t, []entity.Product{product})

	result, err := svc.Checkout(context.Background(), &service.CheckoutInput{
		UserID:        uuid.New(),
		Items:         []service.CheckoutItemInput{{ProductID: product.ID, Quantity: 2}},
		PaymentMethod: enum.PaymentMethodCash,
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	if result.Queued {
		t.Error("sale should not be queued when the primary write succeeds")
	}
	if len(saleRepo.created) != 1 {
		t.Fatalf("expected 1 persisted sale, got %d", len(saleRepo.created))
	}

	sale := saleRepo.created[0]
	if sale.Total != 21000 {
		t.Errorf("total = %d paise, want 21000", sale.Total)
	}
	if sale.SaleNo == "" {
		t.Error("sale number must be set")
	}
	if sale.PaymentStatus != enum.PaymentStatusPaid {
		t.Errorf("cash sale payment status = %v, want Paid", sale.PaymentStatus)
	}
	if sale.CustomerName != entity.WalkInCustomerName {
		t.Errorf("customer name = %q, want %q", sale.CustomerName, entity.WalkInCustomerName)
	}

	if productRepo.decrements[product.ID] != 2 {
		t.Errorf("remote decrement = %d, want 2", productRepo.decrements[product.ID])
	}
	if cached, _ := stockCache.Get(product.ID); cached.Quantity != 18 {
		t.Errorf("cached quantity = %d, want 18", cached.Quantity)
	}

	count, err := queue.CountPending(context.Background())
	if err != nil {
		t.Fatalf("CountPending: %v", err)
	}
	if count != 0 {
		t.Errorf("queue should be empty after an online commit, got %d entries", count)
	}
}

func TestCheckoutFallsBackToOfflineQueue(t *testing.T) {
	product := fertilizerProduct(100, 20)
	svc, saleRepo, _, queue, stockCache := newCheckoutFixture(t, []entity.Product{product})
	saleRepo.createErr = errors.New("connection refused")

	result, err := svc.Checkout(context.Background(), &service.CheckoutInput{
		UserID:        uuid.New(),
		Items:         []service.CheckoutItemInput{{ProductID: product.ID, Quantity: 3}},
		PaymentMethod: enum.PaymentMethodCash,
	})
	if err != nil {
		t.Fatalf("Checkout should succeed via the offline queue, got %v", err)
	}

	if !result.Queued {
		t.Error("result should be flagged as queued")
	}
	if result.Sale.Synced {
		t.Error("queued sale must carry synced=false")
	}

	pending, err := queue.ListPending(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	// One sale mutation plus one inventory delta for the single line.
	if len(pending) != 2 {
		t.Fatalf("expected 2 queued mutations, got %d", len(pending))
	}
	if pending[0].Kind != enum.MutationKindSale {
		t.Errorf("first mutation kind = %s, want %s", pending[0].Kind, enum.MutationKindSale)
	}

	var replayed entity.Sale
	if err := json.Unmarshal(pending[0].Payload, &replayed); err != nil {
		t.Fatalf("queued sale payload does not round-trip: %v", err)
	}
	if replayed.ID != result.Sale.ID {
		t.Errorf("replayed sale ID = %s, want %s", replayed.ID, result.Sale.ID)
	}
	if replayed.Total != result.Sale.Total {
		t.Errorf("replayed total = %d, want %d", replayed.Total, result.Sale.Total)
	}

	if pending[1].Kind != enum.MutationKindInventoryUpdate {
		t.Errorf("second mutation kind = %s, want %s", pending[1].Kind, enum.MutationKindInventoryUpdate)
	}
	var delta entity.InventoryDelta
	if err := json.Unmarshal(pending[1].Payload, &delta); err != nil {
		t.Fatalf("inventory delta payload: %v", err)
	}
	if delta.QuantityChange != -3 {
		t.Errorf("quantity change = %d, want -3", delta.QuantityChange)
	}
	if delta.ResultingQuantity != 17 {
		t.Errorf("resulting quantity = %d, want 17", delta.ResultingQuantity)
	}

	// In-memory stock reflects the sale even though the remote write failed.
	if cached, _ := stockCache.Get(product.ID); cached.Quantity != 17 {
		t.Errorf("cached quantity = %d, want 17", cached.Quantity)
	}
}

func TestCheckoutOfflineProductLookupUsesCache(t *testing.T) {
	product := fertilizerProduct(250, 8)
	svc, saleRepo, productRepo, queue, _ := newCheckoutFixture(t, []entity.Product{product})
	productRepo.lookupErr = errors.New("dial tcp: connection refused")
	saleRepo.createErr = errors.New("connection refused")

	result, err := svc.Checkout(context.Background(), &service.CheckoutInput{
		UserID:        uuid.New(),
		Items:         []service.CheckoutItemInput{{ProductID: product.ID, Quantity: 1}},
		PaymentMethod: enum.PaymentMethodUPI,
	})
	if err != nil {
		t.Fatalf("offline checkout should still succeed, got %v", err)
	}
	if !result.Queued {
		t.Error("offline checkout should be queued")
	}
	if result.Totals.Subtotal != 250 {
		t.Errorf("subtotal priced from cache = %v, want 250", result.Totals.Subtotal)
	}

	count, err := queue.CountPending(context.Background())
	if err != nil {
		t.Fatalf("CountPending: %v", err)
	}
	if count != 2 {
		t.Errorf("queued mutations = %d, want 2", count)
	}
}

func TestCheckoutEmptyCartRejectedWithoutSideEffects(t *testing.T) {
	product := fertilizerProduct(100, 20)
	svc, saleRepo, productRepo, queue, _ := newCheckoutFixture(t, []entity.Product{product})

	_, err := svc.Checkout(context.Background(), &service.CheckoutInput{
		UserID: uuid.New(),
	})
	if err == nil {
		t.Fatal("empty cart must be rejected")
	}
	if !apperror.IsValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}

	if len(saleRepo.created) != 0 {
		t.Error("no sale must be persisted for an empty cart")
	}
	if len(productRepo.decrements) != 0 {
		t.Error("no stock must be decremented for an empty cart")
	}
	count, _ := queue.CountPending(context.Background())
	if count != 0 {
		t.Error("no mutation must be queued for an empty cart")
	}
}

func TestCheckoutZeroTotalRejected(t *testing.T) {
	product := fertilizerProduct(100, 20)
	svc, saleRepo, _, queue, _ := newCheckoutFixture(t, []entity.Product{product})

	// A flat discount larger than the subtotal clamps the total to zero,
	// which the record builder rejects before any write.
	_, err := svc.Checkout(context.Background(), &service.CheckoutInput{
		UserID:        uuid.New(),
		Items:         []service.CheckoutItemInput{{ProductID: product.ID, Quantity: 2}},
		Discount:      billing.Discount{Kind: billing.DiscountAmount, Value: 500},
		PaymentMethod: enum.PaymentMethodCash,
	})
	if err == nil {
		t.Fatal("zero-total sale must be rejected")
	}
	if !apperror.IsValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}

	if len(saleRepo.created) != 0 {
		t.Error("no sale must be persisted")
	}
	count, _ := queue.CountPending(context.Background())
	if count != 0 {
		t.Error("no mutation must be queued")
	}
}

func TestCheckoutUnknownProductRejected(t *testing.T) {
	product := fertilizerProduct(100, 20)
	svc, _, _, _, _ := newCheckoutFixture(t, []entity.Product{product})

	_, err := svc.Checkout(context.Background(), &service.CheckoutInput{
		UserID:        uuid.New(),
		Items:         []service.CheckoutItemInput{{ProductID: uuid.New(), Quantity: 1}},
		PaymentMethod: enum.PaymentMethodCash,
	})
	if err == nil {
		t.Fatal("unknown product must be rejected")
	}
}

func TestCheckoutSucceedsWhenStockDecrementFails(t *testing.T) {
	product := fertilizerProduct(100, 20)
	svc, saleRepo, productRepo, queue, stockCache := newCheckoutFixture(t, []entity.Product{product})
	productRepo.decrementErr = errors.New("deadlock detected")

	result, err := svc.Checkout(context.Background(), &service.CheckoutInput{
		UserID:        uuid.New(),
		Items:         []service.CheckoutItemInput{{ProductID: product.ID, Quantity: 2}},
		PaymentMethod: enum.PaymentMethodCash,
	})
	if err != nil {
		t.Fatalf("a failed stock decrement must not fail the checkout, got %v", err)
	}

	if result.Queued {
		t.Error("sale should commit directly, not be queued")
	}
	if len(saleRepo.created) != 1 {
		t.Fatalf("expected 1 persisted sale, got %d", len(saleRepo.created))
	}

	// The in-memory snapshot still reflects the sale.
	if cached, _ := stockCache.Get(product.ID); cached.Quantity != 18 {
		t.Errorf("cached quantity = %d, want 18", cached.Quantity)
	}

	count, _ := queue.CountPending(context.Background())
	if count != 0 {
		t.Errorf("decrement failure on an online sale must not queue mutations, got %d", count)
	}
}

func TestCheckoutFloorsStockWhenDecrementInsufficient(t *testing.T) {
	product := fertilizerProduct(100, 1)
	svc, saleRepo, productRepo, _, stockCache := newCheckoutFixture(t, []entity.Product{product})
	productRepo.insufficient = []uuid.UUID{product.ID}

	// Selling 3 units against a stock of 1: the guarded decrement refuses,
	// so the remote quantity is floored at zero instead of left stale.
	_, err := svc.Checkout(context.Background(), &service.CheckoutInput{
		UserID:        uuid.New(),
		Items:         []service.CheckoutItemInput{{ProductID: product.ID, Quantity: 3}},
		PaymentMethod: enum.PaymentMethodCash,
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	if len(saleRepo.created) != 1 {
		t.Fatalf("expected 1 persisted sale, got %d", len(saleRepo.created))
	}
	if got, ok := productRepo.updated[product.ID]; !ok || got != 0 {
		t.Errorf("remote quantity floored to = %d (set=%v), want 0", got, ok)
	}
	if cached, _ := stockCache.Get(product.ID); cached.Quantity != 0 {
		t.Errorf("cached quantity = %d, want 0", cached.Quantity)
	}
}

func TestCheckoutOfflineLeavesCustomerNameForReplay(t *testing.T) {
	product := fertilizerProduct(100, 20)
	customerID := uuid.New()

	saleRepo := &fakeSaleRepo{createErr: errors.New("connection refused")}
	productRepo := &fakeProductRepo{products: []entity.Product{product}}
	customerRepo := &fakeCustomerRepo{err: errors.New("connection refused")}
	queue, err := offline.NewStore(":memory:")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { queue.Close() })

	stockCache := cache.NewStockCache()
	stockCache.Load([]entity.Product{product})

	svc := service.NewSaleService(saleRepo, productRepo, customerRepo, queue, stockCache)

	result, err := svc.Checkout(context.Background(), &service.CheckoutInput{
		UserID:        uuid.New(),
		CustomerID:    &customerID,
		Items:         []service.CheckoutItemInput{{ProductID: product.ID, Quantity: 1}},
		PaymentMethod: enum.PaymentMethodCredit,
		AmountPaid:    50,
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if !result.Queued {
		t.Fatal("sale should be queued while the database is down")
	}

	// The unreachable lookup must not stamp the walk-in name onto a sale
	// that carries a customer ID; the replay resolves the real name.
	if result.Sale.CustomerName != "" {
		t.Errorf("customer name = %q, want empty until replay", result.Sale.CustomerName)
	}
	if result.Sale.CustomerID == nil || *result.Sale.CustomerID != customerID {
		t.Error("customer ID must survive the queued sale")
	}
}

func TestCheckoutCreditSaleStaysUnpaid(t *testing.T) {
	product := fertilizerProduct(100, 20)
	svc, saleRepo, _, _, _ := newCheckoutFixture(t, []entity.Product{product})

	_, err := svc.Checkout(context.Background(), &service.CheckoutInput{
		UserID:        uuid.New(),
		Items:         []service.CheckoutItemInput{{ProductID: product.ID, Quantity: 1}},
		PaymentMethod: enum.PaymentMethodCredit,
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	sale := saleRepo.created[0]
	if sale.PaymentStatus != enum.PaymentStatusUnpaid {
		t.Errorf("credit sale payment status = %v, want Unpaid", sale.PaymentStatus)
	}
	if sale.AmountPaid != 0 {
		t.Errorf("credit sale amount paid = %d, want 0", sale.AmountPaid)
	}
}
