package driving

import (
	"context"

	"github.com/custodia-labs/docsnap/internal/core/domain"
)

// HistoryService exposes recorded comparisons.
type HistoryService interface {
	// List returns records matching the filter, newest first.
	List(ctx context.Context, filter domain.HistoryFilter) ([]domain.ComparisonRecord, error)

	// Get retrieves a record by ID.
	Get(ctx context.Context, id string) (*domain.ComparisonRecord, error)

	// Prune removes all records for a baseline.
	Prune(ctx context.Context, snapshotPath string) (int, error)
}
