package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/docsnap/internal/core/domain"
	"github.com/custodia-labs/docsnap/internal/core/ports/driven"
)

// Ensure HistoryStore implements the interface.
var _ driven.HistoryStore = (*HistoryStore)(nil)

// HistoryStore is an in-memory implementation of driven.HistoryStore.
type HistoryStore struct {
	mu      sync.RWMutex
	records map[string]domain.ComparisonRecord
}

// NewHistoryStore creates a new in-memory history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{
		records: make(map[string]domain.ComparisonRecord),
	}
}

// Record stores a comparison record.
func (s *HistoryStore) Record(ctx context.Context, rec *domain.ComparisonRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rec == nil || rec.ID == "" {
		return fmt.Errorf("record without id: %w", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = *rec
	return nil
}

// List returns records matching the filter, newest first.
func (s *HistoryStore) List(ctx context.Context, filter domain.HistoryFilter) ([]domain.ComparisonRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.ComparisonRecord, 0, len(s.records))
	for _, rec := range s.records {
		if filter.SnapshotPath != "" && rec.SnapshotPath != filter.SnapshotPath {
			continue
		}
		if filter.Outcome != "" && rec.Outcome != filter.Outcome {
			continue
		}
		result = append(result, rec)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].ComparedAt.Equal(result[j].ComparedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].ComparedAt.After(result[j].ComparedAt)
	})

	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

// Get retrieves a record by ID.
func (s *HistoryStore) Get(ctx context.Context, id string) (*domain.ComparisonRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("comparison %s: %w", id, domain.ErrNotFound)
	}
	return &rec, nil
}

// Prune deletes all records for a snapshot path.
func (s *HistoryStore) Prune(ctx context.Context, snapshotPath string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for id, rec := range s.records {
		if rec.SnapshotPath == snapshotPath {
			delete(s.records, id)
			count++
		}
	}
	return count, nil
}
