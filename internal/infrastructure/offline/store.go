// Package offline implements the local pending-mutation queue on an
// embedded SQLite database. The queue survives process restarts, so sales
// captured while the primary database is down are replayed once it is back.
package offline

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/krishisethu/pos-api/internal/domain/entity"
	"github.com/krishisethu/pos-api/internal/domain/enum"
	domainRepo "github.com/krishisethu/pos-api/internal/domain/repository"
	"github.com/krishisethu/pos-api/pkg/utils"
)

const schema = `
CREATE TABLE IF NOT EXISTS pending_mutations (
	id         TEXT PRIMARY KEY,
	kind       TEXT NOT NULL,
	payload    BLOB NOT NULL,
	attempts   INTEGER NOT NULL DEFAULT 0,
	last_error TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL,
	synced     INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_pending_mutations_synced ON pending_mutations(synced, created_at);
`

// Store is the SQLite-backed offline queue.
type Store struct {
	db *sqlx.DB
}

// NewStore opens (or creates) the queue database at dsn and bootstraps the
// schema. Use ":memory:" for tests.
func NewStore(dsn string) (*Store, error) {
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open offline store: %w", err)
	}

	// SQLite allows one writer; the queue is low-volume so a single
	// connection avoids SQLITE_BUSY without a busy-timeout dance.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to bootstrap offline store schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

var _ domainRepo.OfflineQueueRepository = (*Store)(nil)

func (s *Store) Enqueue(ctx context.Context, kind enum.MutationKind, payload []byte) (*entity.PendingMutation, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown mutation kind %q", kind)
	}

	m := &entity.PendingMutation{
		ID:        utils.NewUUID().String(),
		Kind:      kind,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pending_mutations (id, kind, payload, created_at, synced) VALUES (?, ?, ?, ?, 0)`,
		m.ID, string(m.Kind), []byte(m.Payload), m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue mutation: %w", err)
	}

	return m, nil
}

func (s *Store) ListPending(ctx context.Context, limit, maxAttempts int) ([]entity.PendingMutation, error) {
	if limit <= 0 {
		limit = 100
	}

	var mutations []entity.PendingMutation
	err := s.db.SelectContext(ctx, &mutations,
		`SELECT id, kind, payload, attempts, last_error, created_at, synced
		 FROM pending_mutations
		 WHERE synced = 0 AND (? <= 0 OR attempts < ?)
		 ORDER BY created_at ASC, id ASC
		 LIMIT ?`, maxAttempts, maxAttempts, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending mutations: %w", err)
	}

	return mutations, nil
}

func (s *Store) MarkSynced(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE pending_mutations SET synced = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark mutation synced: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("mutation %s not found", id)
	}
	return nil
}

func (s *Store) RecordFailure(ctx context.Context, id string, attemptErr error) error {
	msg := ""
	if attemptErr != nil {
		msg = attemptErr.Error()
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE pending_mutations SET attempts = attempts + 1, last_error = ? WHERE id = ?`,
		msg, id)
	if err != nil {
		return fmt.Errorf("failed to record mutation failure: %w", err)
	}
	return nil
}

func (s *Store) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM pending_mutations WHERE synced = 0`)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending mutations: %w", err)
	}
	return count, nil
}

func (s *Store) CountDead(ctx context.Context, maxAttempts int) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM pending_mutations WHERE synced = 0 AND attempts >= ?`,
		maxAttempts)
	if err != nil {
		return 0, fmt.Errorf("failed to count dead mutations: %w", err)
	}
	return count, nil
}

func (s *Store) PurgeSynced(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM pending_mutations WHERE synced = 1`)
	if err != nil {
		return fmt.Errorf("failed to purge synced mutations: %w", err)
	}
	return nil
}
