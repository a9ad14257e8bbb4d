package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docsnap/internal/core/domain"
	"github.com/custodia-labs/docsnap/internal/core/ports/driven"
	"github.com/custodia-labs/docsnap/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService exposes recorded comparisons.
type HistoryService struct {
	store driven.HistoryStore
}

// NewHistoryService creates a history service. A nil store means history
// is disabled and every call fails with domain.ErrHistoryDisabled.
func NewHistoryService(store driven.HistoryStore) *HistoryService {
	return &HistoryService{store: store}
}

// List returns records matching the filter, newest first.
func (s *HistoryService) List(ctx context.Context, filter domain.HistoryFilter) ([]domain.ComparisonRecord, error) {
	if s.store == nil {
		return nil, domain.ErrHistoryDisabled
	}
	if filter.Outcome != "" && !filter.Outcome.IsValid() {
		return nil, fmt.Errorf("unknown outcome %q: %w", filter.Outcome, domain.ErrInvalidInput)
	}
	return s.store.List(ctx, filter)
}

// Get retrieves a record by ID.
func (s *HistoryService) Get(ctx context.Context, id string) (*domain.ComparisonRecord, error) {
	if s.store == nil {
		return nil, domain.ErrHistoryDisabled
	}
	return s.store.Get(ctx, id)
}

// Prune removes all records for a baseline.
func (s *HistoryService) Prune(ctx context.Context, snapshotPath string) (int, error) {
	if s.store == nil {
		return 0, domain.ErrHistoryDisabled
	}
	if snapshotPath == "" {
		return 0, fmt.Errorf("snapshot path is empty: %w", domain.ErrInvalidInput)
	}
	return s.store.Prune(ctx, snapshotPath)
}
