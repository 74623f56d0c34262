package entity

import (
	"encoding/json"
	"time"

	"github.com/krishisethu/pos-api/internal/domain/enum"
)

// PendingMutation is a write that could not reach the primary database
// and is parked in the local queue until connectivity returns. Stored in
// the embedded SQLite database, not in Postgres.
type PendingMutation struct {
	ID        string            `db:"id" json:"id"`
	Kind      enum.MutationKind `db:"kind" json:"kind"`
	Payload   json.RawMessage   `db:"payload" json:"payload"`
	Attempts  int               `db:"attempts" json:"attempts"`
	LastError string            `db:"last_error" json:"last_error,omitempty"`
	CreatedAt time.Time         `db:"created_at" json:"created_at"`
	Synced    bool              `db:"synced" json:"synced"`
}

// InventoryDelta records one product's stock movement from a sale so the
// adjustment can be replayed if it fails at commit time.
type InventoryDelta struct {
	ProductID         string `json:"product_id"`
	QuantityChange    int    `json:"quantity_change"`
	ResultingQuantity int    `json:"resulting_quantity"`
}
