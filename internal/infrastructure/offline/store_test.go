package offline_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/krishisethu/pos-api/internal/domain/enum"
	"github.com/krishisethu/pos-api/internal/infrastructure/offline"
)

func newTestStore(t *testing.T) *offline.Store {
	t.Helper()
	store, err := offline.NewStore(":memory:")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestEnqueueAndListPending(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	payload := json.RawMessage(`{"sale_no":"BILL260830123456"}`)
	m, err := store.Enqueue(ctx, enum.MutationKindSale, payload)
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if m.ID == "" {
		t.Fatal("Enqueue returned empty ID")
	}

	pending, err := store.ListPending(ctx, 10, 0)
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending mutation, got %d", len(pending))
	}
	if pending[0].ID != m.ID {
		t.Errorf("pending ID = %s, want %s", pending[0].ID, m.ID)
	}
	if pending[0].Kind != enum.MutationKindSale {
		t.Errorf("pending kind = %s, want %s", pending[0].Kind, enum.MutationKindSale)
	}
	if string(pending[0].Payload) != string(payload) {
		t.Errorf("payload = %s, want %s", pending[0].Payload, payload)
	}
}

func TestEnqueueRejectsUnknownKind(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Enqueue(context.Background(), enum.MutationKind("refund"), nil); err == nil {
		t.Fatal("expected error for unknown mutation kind")
	}
}

func TestListPendingPreservesInsertionOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 5; i++ {
		m, err := store.Enqueue(ctx, enum.MutationKindSale, json.RawMessage(`{}`))
		if err != nil {
			t.Fatalf("Enqueue: %v", err)
		}
		ids = append(ids, m.ID)
	}

	pending, err := store.ListPending(ctx, 10, 0)
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(pending) != 5 {
		t.Fatalf("expected 5 pending mutations, got %d", len(pending))
	}
	for i, m := range pending {
		if m.ID != ids[i] {
			t.Errorf("position %d: ID = %s, want %s", i, m.ID, ids[i])
		}
	}
}

func TestMarkSyncedRemovesFromPending(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	m, err := store.Enqueue(ctx, enum.MutationKindInventoryUpdate, json.RawMessage(`{"product_id":"p1"}`))
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	if err := store.MarkSynced(ctx, m.ID); err != nil {
		t.Fatalf("MarkSynced: %v", err)
	}

	count, err := store.CountPending(ctx)
	if err != nil {
		t.Fatalf("CountPending: %v", err)
	}
	if count != 0 {
		t.Errorf("pending count = %d, want 0", count)
	}

	if err := store.MarkSynced(ctx, "no-such-id"); err == nil {
		t.Error("expected error marking unknown mutation synced")
	}
}

func TestRecordFailureBumpsAttempts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	m, err := store.Enqueue(ctx, enum.MutationKindSale, json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	if err := store.RecordFailure(ctx, m.ID, context.DeadlineExceeded); err != nil {
		t.Fatalf("RecordFailure: %v", err)
	}
	if err := store.RecordFailure(ctx, m.ID, context.DeadlineExceeded); err != nil {
		t.Fatalf("RecordFailure: %v", err)
	}

	pending, err := store.ListPending(ctx, 10, 0)
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending mutation, got %d", len(pending))
	}
	if pending[0].Attempts != 2 {
		t.Errorf("attempts = %d, want 2", pending[0].Attempts)
	}
	if pending[0].LastError == "" {
		t.Error("last_error should be recorded")
	}
}

func TestListPendingExcludesExhaustedMutations(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	dead, err := store.Enqueue(ctx, enum.MutationKindSale, json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	fresh, err := store.Enqueue(ctx, enum.MutationKindSale, json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := store.RecordFailure(ctx, dead.ID, context.DeadlineExceeded); err != nil {
			t.Fatalf("RecordFailure: %v", err)
		}
	}

	// The exhausted entry must not crowd out the fresh one.
	pending, err := store.ListPending(ctx, 10, 3)
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 drainable mutation, got %d", len(pending))
	}
	if pending[0].ID != fresh.ID {
		t.Errorf("drainable ID = %s, want %s", pending[0].ID, fresh.ID)
	}

	deadCount, err := store.CountDead(ctx, 3)
	if err != nil {
		t.Fatalf("CountDead: %v", err)
	}
	if deadCount != 1 {
		t.Errorf("dead count = %d, want 1", deadCount)
	}

	// Disabling the cap returns everything for inspection.
	all, err := store.ListPending(ctx, 10, 0)
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("unfiltered pending = %d, want 2", len(all))
	}
}

func TestPurgeSynced(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	synced, err := store.Enqueue(ctx, enum.MutationKindSale, json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if _, err := store.Enqueue(ctx, enum.MutationKindSale, json.RawMessage(`{}`)); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	if err := store.MarkSynced(ctx, synced.ID); err != nil {
		t.Fatalf("MarkSynced: %v", err)
	}
	if err := store.PurgeSynced(ctx); err != nil {
		t.Fatalf("PurgeSynced: %v", err)
	}

	count, err := store.CountPending(ctx)
	if err != nil {
		t.Fatalf("CountPending: %v", err)
	}
	if count != 1 {
		t.Errorf("pending count after purge = %d, want 1", count)
	}
}
