package mcp

import (
	"context"

	"github.com/custodia-labs/docsnap/internal/core/domain"
	"github.com/custodia-labs/docsnap/internal/core/ports/driving"
)

// mockSnapshotService is a mock implementation of driving.SnapshotService.
type mockSnapshotService struct {
	content  string
	result   *domain.ComparisonResult
	record   *domain.SnapshotRecord
	groups   []domain.PatternGroup
	err      error
	withErr  error
	lastPath string
	lastSnap string
}

func (m *mockSnapshotService) ExtractDocumentContent(_ context.Context, path string) (string, error) {
	m.lastPath = path
	return m.content, m.err
}

func (m *mockSnapshotService) CompareWithSnapshot(
	_ context.Context,
	path, snapshotPath string,
) (*domain.ComparisonResult, error) {
	m.lastPath = path
	m.lastSnap = snapshotPath
	return m.result, m.err
}

func (m *mockSnapshotService) UpdateSnapshot(
	_ context.Context,
	path, snapshotPath string,
) (*domain.SnapshotRecord, error) {
	m.lastPath = path
	m.lastSnap = snapshotPath
	return m.record, m.err
}

func (m *mockSnapshotService) SnapshotPathFor(path string) string {
	return path + ".snap"
}

func (m *mockSnapshotService) PatternGroups() []domain.PatternGroup {
	if m.groups == nil {
		return domain.AllPatternGroups()
	}
	return m.groups
}

func (m *mockSnapshotService) WithPatternGroups(groups []domain.PatternGroup) (driving.SnapshotService, error) {
	if m.withErr != nil {
		return nil, m.withErr
	}
	clone := *m
	clone.groups = groups
	return &clone, nil
}

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	records    []domain.ComparisonRecord
	err        error
	lastFilter domain.HistoryFilter
}

func (m *mockHistoryService) List(_ context.Context, filter domain.HistoryFilter) ([]domain.ComparisonRecord, error) {
	m.lastFilter = filter
	return m.records, m.err
}

func (m *mockHistoryService) Get(_ context.Context, _ string) (*domain.ComparisonRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.records) == 0 {
		return nil, domain.ErrNotFound
	}
	return &m.records[0], nil
}

func (m *mockHistoryService) Prune(_ context.Context, _ string) (int, error) {
	return len(m.records), m.err
}
