package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/krishisethu/pos-api/internal/application/service"
	"github.com/krishisethu/pos-api/internal/domain/entity"
	"github.com/krishisethu/pos-api/internal/domain/enum"
	"github.com/krishisethu/pos-api/internal/infrastructure/offline"
)

type replayProductRepo struct {
	fakeProductRepo
	increments map[uuid.UUID]int
	updated    map[uuid.UUID]int
	failNext   []uuid.UUID
}

func (f *replayProductRepo) AtomicIncrementBatch(ctx context.Context, increments map[uuid.UUID]int) error {
	if f.increments == nil {
		f.increments = make(map[uuid.UUID]int)
	}
	for id, qty := range increments {
		f.increments[id] += qty
	}
	return nil
}

func (f *replayProductRepo) AtomicDecrementBatch(ctx context.Context, decrements map[uuid.UUID]int) ([]uuid.UUID, error) {
	if len(f.failNext) > 0 {
		failed := f.failNext
		f.failNext = nil
		return failed, nil
	}
	return f.fakeProductRepo.AtomicDecrementBatch(ctx, decrements)
}

func (f *replayProductRepo) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	if f.updated == nil {
		f.updated = make(map[uuid.UUID]int)
	}
	f.updated[id] = quantity
	return nil
}

func onlinePing(ctx context.Context) error  { return nil }
func offlinePing(ctx context.Context) error { return errors.New("no route to host") }

func queuedSale(t *testing.T, queue *offline.Store, sale *entity.Sale) {
	t.Helper()
	sale.Synced = false
	payload, err := json.Marshal(sale)
	if err != nil {
		t.Fatalf("marshal sale: %v", err)
	}
	if _, err := queue.Enqueue(context.Background(), enum.MutationKindSale, payload); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
}

func TestDrainOnceReplaysSalesAndDeltas(t *testing.T) {
	queue, err := offline.NewStore(":memory:")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { queue.Close() })

	saleRepo := &fakeSaleRepo{}
	productRepo := &replayProductRepo{}
	svc := service.NewSyncService(queue, saleRepo, productRepo, &fakeCustomerRepo{}, onlinePing, time.Second)

	sale := &entity.Sale{ID: uuid.New(), SaleNo: "BILL260830000001", CustomerName: "Walk-in Customer", Total: 21000}
	queuedSale(t, queue, sale)

	productID := uuid.New()
	delta, _ := json.Marshal(entity.InventoryDelta{ProductID: productID.String(), QuantityChange: -3, ResultingQuantity: 7})
	if _, err := queue.Enqueue(context.Background(), enum.MutationKindInventoryUpdate, delta); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	synced, err := svc.DrainOnce(context.Background())
	if err != nil {
		t.Fatalf("DrainOnce: %v", err)
	}
	if synced != 2 {
		t.Errorf("synced = %d, want 2", synced)
	}

	if len(saleRepo.created) != 1 {
		t.Fatalf("expected 1 replayed sale, got %d", len(saleRepo.created))
	}
	if !saleRepo.created[0].Synced {
		t.Error("replayed sale must be flagged synced")
	}
	if saleRepo.created[0].ID != sale.ID {
		t.Errorf("replayed sale ID = %s, want %s", saleRepo.created[0].ID, sale.ID)
	}

	if productRepo.decrements[productID] != 3 {
		t.Errorf("replayed decrement = %d, want 3", productRepo.decrements[productID])
	}

	count, err := queue.CountPending(context.Background())
	if err != nil {
		t.Fatalf("CountPending: %v", err)
	}
	if count != 0 {
		t.Errorf("pending after drain = %d, want 0", count)
	}
}

func TestDrainOnceSkipsWhenOffline(t *testing.T) {
	queue, err := offline.NewStore(":memory:")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { queue.Close() })

	saleRepo := &fakeSaleRepo{}
	svc := service.NewSyncService(queue, saleRepo, &replayProductRepo{}, &fakeCustomerRepo{}, offlinePing, time.Second)

	queuedSale(t, queue, &entity.Sale{ID: uuid.New(), SaleNo: "BILL260830000002"})

	if _, err := svc.DrainOnce(context.Background()); err == nil {
		t.Fatal("DrainOnce must fail while the database is unreachable")
	}

	count, _ := queue.CountPending(context.Background())
	if count != 1 {
		t.Errorf("pending = %d, want 1 (nothing drained offline)", count)
	}
}

func TestDrainOnceTreatsDuplicateSaleAsSynced(t *testing.T) {
	queue, err := offline.NewStore(":memory:")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { queue.Close() })

	saleRepo := &fakeSaleRepo{createErr: gorm.ErrDuplicatedKey}
	svc := service.NewSyncService(queue, saleRepo, &replayProductRepo{}, &fakeCustomerRepo{}, onlinePing, time.Second)

	queuedSale(t, queue, &entity.Sale{ID: uuid.New(), SaleNo: "BILL260830000003"})

	synced, err := svc.DrainOnce(context.Background())
	if err != nil {
		t.Fatalf("DrainOnce: %v", err)
	}
	if synced != 1 {
		t.Errorf("synced = %d, want 1 (duplicate counts as replayed)", synced)
	}

	count, _ := queue.CountPending(context.Background())
	if count != 0 {
		t.Errorf("pending = %d, want 0", count)
	}
}

func TestDrainOnceKeepsFailedMutationForRetry(t *testing.T) {
	queue, err := offline.NewStore(":memory:")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { queue.Close() })

	saleRepo := &fakeSaleRepo{createErr: errors.New("deadlock detected")}
	svc := service.NewSyncService(queue, saleRepo, &replayProductRepo{}, &fakeCustomerRepo{}, onlinePing, time.Second)

	queuedSale(t, queue, &entity.Sale{ID: uuid.New(), SaleNo: "BILL260830000004"})

	synced, err := svc.DrainOnce(context.Background())
	if err != nil {
		t.Fatalf("DrainOnce: %v", err)
	}
	if synced != 0 {
		t.Errorf("synced = %d, want 0", synced)
	}

	pending, err := queue.ListPending(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending = %d, want 1", len(pending))
	}
	if pending[0].Attempts != 1 {
		t.Errorf("attempts = %d, want 1", pending[0].Attempts)
	}

	// Second round succeeds once the underlying failure clears.
	saleRepo.createErr = nil
	synced, err = svc.DrainOnce(context.Background())
	if err != nil {
		t.Fatalf("DrainOnce retry: %v", err)
	}
	if synced != 1 {
		t.Errorf("synced on retry = %d, want 1", synced)
	}
}

func TestDrainOnceResolvesQueuedCustomerName(t *testing.T) {
	queue, err := offline.NewStore(":memory:")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { queue.Close() })

	customerID := uuid.New()
	customerRepo := &fakeCustomerRepo{customer: &entity.Customer{ID: customerID, Name: "Ramesh Traders"}}
	saleRepo := &fakeSaleRepo{}
	svc := service.NewSyncService(queue, saleRepo, &replayProductRepo{}, customerRepo, onlinePing, time.Second)

	// A sale captured while the database was down carries the customer ID
	// but no name.
	queuedSale(t, queue, &entity.Sale{
		ID:         uuid.New(),
		SaleNo:     "BILL260830000005",
		CustomerID: &customerID,
		Total:      21000,
	})

	if _, err := svc.DrainOnce(context.Background()); err != nil {
		t.Fatalf("DrainOnce: %v", err)
	}

	if len(saleRepo.created) != 1 {
		t.Fatalf("expected 1 replayed sale, got %d", len(saleRepo.created))
	}
	if got := saleRepo.created[0].CustomerName; got != "Ramesh Traders" {
		t.Errorf("replayed customer name = %q, want %q", got, "Ramesh Traders")
	}
}

func TestDrainOnceSkipsExhaustedMutations(t *testing.T) {
	queue, err := offline.NewStore(":memory:")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { queue.Close() })

	saleRepo := &fakeSaleRepo{}
	svc := service.NewSyncService(queue, saleRepo, &replayProductRepo{}, &fakeCustomerRepo{}, onlinePing, time.Second)

	// A mutation that exhausted its attempts must not block the one behind it.
	poisoned, err := queue.Enqueue(context.Background(), enum.MutationKindSale, json.RawMessage(`not json`))
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	for i := 0; i < 10; i++ {
		if err := queue.RecordFailure(context.Background(), poisoned.ID, errors.New("invalid payload")); err != nil {
			t.Fatalf("RecordFailure: %v", err)
		}
	}

	fresh := &entity.Sale{ID: uuid.New(), SaleNo: "BILL260830000006", CustomerName: "Walk-in Customer"}
	queuedSale(t, queue, fresh)

	synced, err := svc.DrainOnce(context.Background())
	if err != nil {
		t.Fatalf("DrainOnce: %v", err)
	}
	if synced != 1 {
		t.Errorf("synced = %d, want 1", synced)
	}
	if len(saleRepo.created) != 1 || saleRepo.created[0].ID != fresh.ID {
		t.Error("the fresh sale behind the exhausted mutation must still be replayed")
	}

	dead, err := svc.Dead(context.Background())
	if err != nil {
		t.Fatalf("Dead: %v", err)
	}
	if dead != 1 {
		t.Errorf("dead = %d, want 1", dead)
	}
}

func TestDrainOnceFloorsStockOnInsufficientReplay(t *testing.T) {
	queue, err := offline.NewStore(":memory:")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { queue.Close() })

	productID := uuid.New()
	productRepo := &replayProductRepo{failNext: []uuid.UUID{productID}}
	svc := service.NewSyncService(queue, &fakeSaleRepo{}, productRepo, &fakeCustomerRepo{}, onlinePing, time.Second)

	delta, _ := json.Marshal(entity.InventoryDelta{ProductID: productID.String(), QuantityChange: -5, ResultingQuantity: 0})
	if _, err := queue.Enqueue(context.Background(), enum.MutationKindInventoryUpdate, delta); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	synced, err := svc.DrainOnce(context.Background())
	if err != nil {
		t.Fatalf("DrainOnce: %v", err)
	}
	if synced != 1 {
		t.Errorf("synced = %d, want 1", synced)
	}
	if got, ok := productRepo.updated[productID]; !ok || got != 0 {
		t.Errorf("quantity floored to = %d (set=%v), want 0", got, ok)
	}
}
