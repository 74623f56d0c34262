// Package metrics exposes Prometheus counters for the sale pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SalesCommitted counts sales persisted to the primary store on the
	// first attempt.
	SalesCommitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pos",
		Name:      "sales_committed_total",
		Help:      "Sales written to the primary database at checkout.",
	})

	// SalesQueued counts sales that fell back to the offline queue.
	SalesQueued = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pos",
		Name:      "sales_queued_total",
		Help:      "Sales enqueued locally because the primary database was unreachable.",
	})

	// MutationsSynced counts offline queue entries successfully replayed.
	MutationsSynced = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pos",
		Name:      "offline_mutations_synced_total",
		Help:      "Offline mutations replayed to the primary database.",
	})

	// SyncFailures counts drain rounds that ended with an error.
	SyncFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pos",
		Name:      "offline_sync_failures_total",
		Help:      "Offline queue drain rounds that failed.",
	})

	// StockAdjustmentErrors counts per-line inventory updates that failed
	// after a sale was already committed or queued.
	StockAdjustmentErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pos",
		Name:      "stock_adjustment_errors_total",
		Help:      "Best-effort stock decrements that failed and were skipped.",
	})
)
