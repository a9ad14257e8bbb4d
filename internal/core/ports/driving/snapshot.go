package driving

import (
	"context"

	"github.com/custodia-labs/docsnap/internal/core/domain"
)

// SnapshotService runs the extract-normalise-compare pipeline.
type SnapshotService interface {
	// ExtractDocumentContent returns the normalised canonical text of the
	// document at path. Nothing is persisted.
	ExtractDocumentContent(ctx context.Context, path string) (string, error)

	// CompareWithSnapshot extracts the document and compares it with the
	// baseline at snapshotPath, creating the baseline if absent.
	// An empty snapshotPath uses SnapshotPathFor(path).
	CompareWithSnapshot(ctx context.Context, path, snapshotPath string) (*domain.ComparisonResult, error)

	// UpdateSnapshot overwrites the baseline at snapshotPath with the
	// document's current normalised text. This is the only operation that
	// replaces an existing baseline.
	UpdateSnapshot(ctx context.Context, path, snapshotPath string) (*domain.SnapshotRecord, error)

	// SnapshotPathFor returns the default baseline location for a document.
	SnapshotPathFor(path string) string

	// PatternGroups returns the date classes this service strips.
	PatternGroups() []domain.PatternGroup

	// WithPatternGroups returns a service that strips only the given groups.
	WithPatternGroups(groups []domain.PatternGroup) (SnapshotService, error)
}
