package driven

import (
	"context"

	"github.com/custodia-labs/docsnap/internal/core/domain"
)

// HistoryStore persists comparison records.
// Backed by SQLite for on-disk storage.
type HistoryStore interface {
	// Record stores a comparison record.
	Record(ctx context.Context, rec *domain.ComparisonRecord) error

	// List returns records matching the filter, newest first.
	List(ctx context.Context, filter domain.HistoryFilter) ([]domain.ComparisonRecord, error)

	// Get retrieves a record by ID.
	Get(ctx context.Context, id string) (*domain.ComparisonRecord, error)

	// Prune deletes all records for a snapshot path and returns the count.
	Prune(ctx context.Context, snapshotPath string) (int, error)
}
