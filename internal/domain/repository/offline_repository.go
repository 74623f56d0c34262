package repository

import (
	"context"

	"github.com/krishisethu/pos-api/internal/domain/entity"
	"github.com/krishisethu/pos-api/internal/domain/enum"
)

// OfflineQueueRepository defines the interface for the local pending-mutation
// queue used when the primary database is unreachable.
type OfflineQueueRepository interface {
	// Enqueue appends a mutation to the queue.
	Enqueue(ctx context.Context, kind enum.MutationKind, payload []byte) (*entity.PendingMutation, error)
	// ListPending returns unsynced mutations in insertion order. Entries
	// with attempts >= maxAttempts are excluded so a run of poisoned
	// mutations cannot occupy the whole window; maxAttempts <= 0 disables
	// the filter.
	ListPending(ctx context.Context, limit, maxAttempts int) ([]entity.PendingMutation, error)
	// MarkSynced flags a mutation as successfully replayed.
	MarkSynced(ctx context.Context, id string) error
	// RecordFailure bumps the attempt counter and stores the last error.
	RecordFailure(ctx context.Context, id string, attemptErr error) error
	// CountPending returns the number of unsynced mutations.
	CountPending(ctx context.Context) (int64, error)
	// CountDead returns the number of unsynced mutations at or over the
	// attempt cap, held back for manual inspection.
	CountDead(ctx context.Context, maxAttempts int) (int64, error)
	// PurgeSynced removes mutations that have been replayed.
	PurgeSynced(ctx context.Context) error
}
