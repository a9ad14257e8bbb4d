package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/docsnap/internal/core/domain"
	"github.com/custodia-labs/docsnap/internal/core/ports/driven"
)

// Ensure SnapshotStore implements the interface.
var _ driven.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore keeps baselines in a map keyed by path.
type SnapshotStore struct {
	mu        sync.Mutex
	snapshots map[string]string
}

// NewSnapshotStore creates a new in-memory snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		snapshots: make(map[string]string),
	}
}

// Compare creates the baseline if absent, otherwise compares against it.
func (s *SnapshotStore) Compare(ctx context.Context, content, path string) (*domain.ComparisonResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if path == "" {
		return nil, fmt.Errorf("snapshot path is empty: %w", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	expected, ok := s.snapshots[path]
	if !ok {
		s.snapshots[path] = content
		return domain.NewCreatedResult(path, content), nil
	}
	return domain.NewComparedResult(path, content, expected), nil
}

// Read returns the baseline at path.
func (s *SnapshotStore) Read(ctx context.Context, path string) (*domain.SnapshotRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	content, ok := s.snapshots[path]
	if !ok {
		return nil, fmt.Errorf("snapshot %s: %w", path, domain.ErrNotFound)
	}
	return &domain.SnapshotRecord{Path: path, Content: content}, nil
}

// Update overwrites the baseline at path.
func (s *SnapshotStore) Update(ctx context.Context, content, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if path == "" {
		return fmt.Errorf("snapshot path is empty: %w", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[path] = content
	return nil
}

// Len returns the number of stored baselines.
func (s *SnapshotStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.snapshots)
}
