// Package store provides the durable selection ledger, the stats table,
// and the selection history log.
//
// The ledger and stats stores persist whole snapshots: every successful
// write rewrites the complete mapping through a temp-file rename, so a
// reader never observes a partially applied mutation. Reads degrade to
// empty or seeded defaults when the backing file is missing or corrupt.
package store

import (
	"context"

	"github.com/rcliao/reviewdesk/internal/model"
)

// SelectionStore owns the durable item id -> selection record mapping.
type SelectionStore interface {
	// Load reads all persisted records. Missing or unreadable storage
	// yields an empty ledger, not an error.
	Load(ctx context.Context) (model.Ledger, error)

	// Record adds modelName to the selection set of itemID. The second
	// return reports whether the model was newly added; when it is
	// false the call was a no-op and nothing was persisted.
	Record(ctx context.Context, itemID, modelName string) (model.SelectionRecord, bool, error)
}

// StatsStore owns the durable model name -> selection count mapping.
type StatsStore interface {
	// Load reads the stats table. Missing or unreadable storage yields
	// the known model set seeded at zero.
	Load(ctx context.Context) (model.Stats, error)

	// Increment bumps the counter for modelName by one and returns the
	// new value. Unknown models are accepted and start at 1.
	Increment(ctx context.Context, modelName string) (int, error)

	// Replace overwrites the whole stats table. Used by reconciliation
	// to heal drift; normal operation only ever increments.
	Replace(ctx context.Context, stats model.Stats) error
}
