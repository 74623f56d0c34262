package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/krishisethu/pos-api/internal/domain/entity"
	"github.com/krishisethu/pos-api/internal/domain/enum"
	"github.com/krishisethu/pos-api/internal/domain/repository"
	"github.com/krishisethu/pos-api/pkg/metrics"
	"github.com/krishisethu/pos-api/pkg/utils"
)

// maxReplayAttempts is the cap after which a poisoned mutation is skipped
// during drains. It stays in the queue for inspection but no longer blocks
// the entries behind it.
const maxReplayAttempts = 10

// SyncService drains the offline queue back into the primary database.
// It runs as a background loop gated by a connectivity probe with
// exponential backoff, and can also be triggered explicitly (the resync
// endpoint).
type SyncService struct {
	queue        repository.OfflineQueueRepository
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	ping         func(ctx context.Context) error
	interval     time.Duration
}

// NewSyncService creates a new sync service. ping reports whether the
// primary database is reachable; interval is the base poll period.
func NewSyncService(
	queue repository.OfflineQueueRepository,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	ping func(ctx context.Context) error,
	interval time.Duration,
) *SyncService {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &SyncService{
		queue:        queue,
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		ping:         ping,
		interval:     interval,
	}
}

// Run polls connectivity and drains the queue until ctx is cancelled.
// Failed rounds back off exponentially up to 8x the base interval.
func (s *SyncService) Run(ctx context.Context) {
	delay := s.interval
	timer := time.NewTimer(delay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		if _, err := s.DrainOnce(ctx); err != nil {
			metrics.SyncFailures.Inc()
			delay *= 2
			if max := 8 * s.interval; delay > max {
				delay = max
			}
			log.Printf("Offline sync round failed, next attempt in %s: %v", delay, err)
		} else {
			delay = s.interval
		}

		timer.Reset(delay)
	}
}

// DrainOnce replays pending mutations in insertion order. It returns the
// number of mutations synced this round. A mutation that fails is left in
// the queue with its attempt counter bumped; draining continues with the
// next entry so one bad record cannot wedge the queue.
func (s *SyncService) DrainOnce(ctx context.Context) (int, error) {
	if err := s.ping(ctx); err != nil {
		return 0, fmt.Errorf("primary database unreachable: %w", err)
	}

	// Over-limit mutations are filtered out in the query so a run of
	// poisoned entries cannot occupy the drain window.
	pending, err := s.queue.ListPending(ctx, 100, maxReplayAttempts)
	if err != nil {
		return 0, err
	}

	synced := 0
	for _, m := range pending {
		if err := s.replay(ctx, m); err != nil {
			if recErr := s.queue.RecordFailure(ctx, m.ID, err); recErr != nil {
				log.Printf("Failed to record replay failure for %s: %v", m.ID, recErr)
			}
			log.Printf("Replay of mutation %s failed: %v", m.ID, err)
			continue
		}

		if err := s.queue.MarkSynced(ctx, m.ID); err != nil {
			return synced, err
		}
		synced++
		metrics.MutationsSynced.Inc()
	}

	if err := s.queue.PurgeSynced(ctx); err != nil {
		log.Printf("Failed to purge synced mutations: %v", err)
	}

	return synced, nil
}

// Pending returns the number of unsynced mutations in the queue.
func (s *SyncService) Pending(ctx context.Context) (int64, error) {
	return s.queue.CountPending(ctx)
}

// Dead returns the number of mutations that exhausted their replay
// attempts and are held back for manual inspection.
func (s *SyncService) Dead(ctx context.Context) (int64, error) {
	return s.queue.CountDead(ctx, maxReplayAttempts)
}

func (s *SyncService) replay(ctx context.Context, m entity.PendingMutation) error {
	switch m.Kind {
	case enum.MutationKindSale:
		return s.replaySale(ctx, m.Payload)
	case enum.MutationKindInventoryUpdate:
		return s.replayInventoryDelta(ctx, m.Payload)
	default:
		return fmt.Errorf("unknown mutation kind %q", m.Kind)
	}
}

func (s *SyncService) replaySale(ctx context.Context, payload json.RawMessage) error {
	var sale entity.Sale
	if err := json.Unmarshal(payload, &sale); err != nil {
		return fmt.Errorf("failed to decode queued sale: %w", err)
	}

	if sale.CustomerID != nil && sale.CustomerName == "" {
		// The customer lookup was skipped at capture time because the
		// database was down; resolve the name now.
		customer, err := s.customerRepo.GetByID(ctx, *sale.CustomerID)
		if err == nil && customer != nil {
			sale.CustomerName = customer.Name
		}
	}

	sale.Synced = true
	err := s.saleRepo.Create(ctx, &sale)
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		// The sale reached the primary store on a previous attempt;
		// the client-generated ID makes the replay a no-op.
		return nil
	}
	return err
}

func (s *SyncService) replayInventoryDelta(ctx context.Context, payload json.RawMessage) error {
	var delta entity.InventoryDelta
	if err := json.Unmarshal(payload, &delta); err != nil {
		return fmt.Errorf("failed to decode queued inventory delta: %w", err)
	}

	productID, err := utils.ParseUUID(delta.ProductID)
	if err != nil {
		return fmt.Errorf("queued inventory delta has invalid product id: %w", err)
	}

	if delta.QuantityChange >= 0 {
		return s.productRepo.AtomicIncrementBatch(ctx, map[uuid.UUID]int{productID: delta.QuantityChange})
	}

	failed, err := s.productRepo.AtomicDecrementBatch(ctx, map[uuid.UUID]int{productID: -delta.QuantityChange})
	if err != nil {
		return err
	}
	if len(failed) > 0 {
		// Stock moved since the delta was queued and a full decrement
		// would go negative. Floor at the quantity recorded at sale
		// time rather than wedging the queue.
		log.Printf("Insufficient stock replaying delta for product %s, setting quantity to %d", delta.ProductID, delta.ResultingQuantity)
		return s.productRepo.UpdateQuantity(ctx, productID, delta.ResultingQuantity)
	}
	return nil
}
