package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docsnap/internal/core/domain"
	"github.com/custodia-labs/docsnap/internal/core/ports/driven"
	"github.com/custodia-labs/docsnap/internal/core/ports/driving"
	"github.com/custodia-labs/docsnap/internal/logger"
)

// Ensure SnapshotService implements the interface.
var _ driving.SnapshotService = (*SnapshotService)(nil)

// SnapshotService runs documents through the normalisation pipeline and
// compares the result with stored baselines.
type SnapshotService struct {
	archive       driven.ArchiveReader
	parser        driven.MarkupParser
	normaliser    driven.Normaliser
	newNormaliser driven.NormaliserFactory
	serialiser    driven.Serialiser
	snapshots     driven.SnapshotStore
	history       driven.HistoryStore

	entryName   string
	snapshotDir string
	now         func() time.Time
}

// NewSnapshotService creates a snapshot service.
// The normaliser is built from settings.PatternGroups with newNormaliser.
// history is optional; if nil, comparisons are not recorded.
func NewSnapshotService(
	archive driven.ArchiveReader,
	parser driven.MarkupParser,
	serialiser driven.Serialiser,
	snapshots driven.SnapshotStore,
	history driven.HistoryStore,
	newNormaliser driven.NormaliserFactory,
	settings domain.Settings,
) (*SnapshotService, error) {
	switch {
	case archive == nil:
		return nil, fmt.Errorf("archive reader is required: %w", domain.ErrInvalidInput)
	case parser == nil:
		return nil, fmt.Errorf("markup parser is required: %w", domain.ErrInvalidInput)
	case serialiser == nil:
		return nil, fmt.Errorf("serialiser is required: %w", domain.ErrInvalidInput)
	case snapshots == nil:
		return nil, fmt.Errorf("snapshot store is required: %w", domain.ErrInvalidInput)
	case newNormaliser == nil:
		return nil, fmt.Errorf("normaliser factory is required: %w", domain.ErrInvalidInput)
	}

	defaults := domain.DefaultSettings()
	if settings.EntryName == "" {
		settings.EntryName = defaults.EntryName
	}
	if settings.SnapshotDir == "" {
		settings.SnapshotDir = defaults.SnapshotDir
	}
	if len(settings.PatternGroups) == 0 {
		settings.PatternGroups = defaults.PatternGroups
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	normaliser, err := newNormaliser(settings.PatternGroups)
	if err != nil {
		return nil, fmt.Errorf("building normaliser: %w", err)
	}

	return &SnapshotService{
		archive:       archive,
		parser:        parser,
		normaliser:    normaliser,
		newNormaliser: newNormaliser,
		serialiser:    serialiser,
		snapshots:     snapshots,
		history:       history,
		entryName:     settings.EntryName,
		snapshotDir:   settings.SnapshotDir,
		now:           time.Now,
	}, nil
}

// ExtractDocumentContent returns the normalised canonical text of a document.
func (s *SnapshotService) ExtractDocumentContent(ctx context.Context, path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("document path is empty: %w", domain.ErrInvalidInput)
	}

	logger.Section("Extract")
	logger.Debug("reading %s from %s", s.entryName, path)

	markup, err := s.archive.ReadEntry(ctx, path, s.entryName)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tree, err := s.parser.Parse(markup)
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", s.entryName, err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	normalised, err := s.normaliser.Normalise(tree)
	if err != nil {
		return "", fmt.Errorf("normalising %s: %w", path, err)
	}

	content := s.serialiser.Serialise(normalised)
	logger.Debug("canonical content is %d bytes", len(content))
	return content, nil
}

// CompareWithSnapshot extracts a document and compares it with its baseline.
func (s *SnapshotService) CompareWithSnapshot(
	ctx context.Context, path, snapshotPath string,
) (*domain.ComparisonResult, error) {
	if snapshotPath == "" {
		snapshotPath = s.SnapshotPathFor(path)
	}

	content, err := s.ExtractDocumentContent(ctx, path)
	if err != nil {
		return nil, err
	}

	logger.Section("Compare")
	result, err := s.snapshots.Compare(ctx, content, snapshotPath)
	if err != nil {
		return nil, err
	}

	if result.Outcome == domain.OutcomeMismatched {
		result.Diff = UnifiedDiff(result.ExpectedContent, result.Content, snapshotPath)
	}

	s.record(ctx, path, result)
	return result, nil
}

// UpdateSnapshot replaces the baseline with the document's current content.
func (s *SnapshotService) UpdateSnapshot(
	ctx context.Context, path, snapshotPath string,
) (*domain.SnapshotRecord, error) {
	if snapshotPath == "" {
		snapshotPath = s.SnapshotPathFor(path)
	}

	content, err := s.ExtractDocumentContent(ctx, path)
	if err != nil {
		return nil, err
	}

	if err := s.snapshots.Update(ctx, content, snapshotPath); err != nil {
		return nil, err
	}
	logger.Info("updated baseline %s", snapshotPath)

	return &domain.SnapshotRecord{Path: snapshotPath, Content: content}, nil
}

// SnapshotPathFor returns <snapshot dir>/<document name without extension>.snap.
func (s *SnapshotService) SnapshotPathFor(path string) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(s.snapshotDir, name+domain.SnapshotExt)
}

// PatternGroups returns the date classes this service strips.
func (s *SnapshotService) PatternGroups() []domain.PatternGroup {
	return s.normaliser.Groups()
}

// WithPatternGroups returns a copy of the service stripping only groups.
func (s *SnapshotService) WithPatternGroups(groups []domain.PatternGroup) (driving.SnapshotService, error) {
	normaliser, err := s.newNormaliser(groups)
	if err != nil {
		return nil, fmt.Errorf("building normaliser: %w", err)
	}

	clone := *s
	clone.normaliser = normaliser
	return &clone, nil
}

// record stores the comparison in history. Failures are logged and do not
// affect the comparison result.
func (s *SnapshotService) record(ctx context.Context, path string, result *domain.ComparisonResult) {
	if s.history == nil {
		return
	}

	sum := sha256.Sum256([]byte(result.Content))
	rec := &domain.ComparisonRecord{
		ID:           uuid.NewString(),
		DocumentPath: path,
		SnapshotPath: result.SnapshotPath,
		Outcome:      result.Outcome,
		ContentHash:  hex.EncodeToString(sum[:]),
		ComparedAt:   s.now().UTC(),
	}
	if err := s.history.Record(ctx, rec); err != nil {
		logger.Warn("recording comparison for %s: %v", path, err)
	}
}
