// Package store persists ledger snapshots keyed by (year, month).
//
// Both backends resolve not-found and corrupt-content conditions
// internally: Load hands back a default-initialized snapshot instead of
// failing, and repairs legacy documents in memory. Errors surface only for
// real I/O failure. Save fully overwrites the stored document; callers are
// expected to load, mutate, and save within one logical operation.
package store

import (
	"context"

	"orcamento/internal/core"
)

// Store is the persistence contract the ledger engine, the installment
// projector, and the summary calculator share.
type Store interface {
	Load(ctx context.Context, period core.Period) (core.Snapshot, error)
	Save(ctx context.Context, period core.Period, snapshot core.Snapshot) error
}
