package driven

import (
	"context"

	"github.com/custodia-labs/docsnap/internal/core/domain"
)

// SnapshotStore persists baselines and compares content against them.
type SnapshotStore interface {
	// Compare writes content as the baseline if none exists at path and
	// reports domain.OutcomeCreated. Otherwise it compares byte for byte
	// without modifying the baseline.
	Compare(ctx context.Context, content, path string) (*domain.ComparisonResult, error)

	// Read returns the baseline at path, or domain.ErrNotFound.
	Read(ctx context.Context, path string) (*domain.SnapshotRecord, error)

	// Update overwrites (or creates) the baseline at path.
	Update(ctx context.Context, content, path string) error
}
