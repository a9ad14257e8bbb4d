package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/custodia-labs/docsnap/internal/core/domain"
	"github.com/custodia-labs/docsnap/internal/core/ports/driven"
	"github.com/custodia-labs/docsnap/internal/logger"
)

// Ensure SnapshotStore implements the interface.
var _ driven.SnapshotStore = (*SnapshotStore)(nil)

const (
	defaultDirMode  os.FileMode = 0o755
	defaultFileMode os.FileMode = 0o644
)

// SnapshotStore keeps baselines as files.
type SnapshotStore struct {
	dirMode  os.FileMode
	fileMode os.FileMode
}

// NewSnapshotStore creates a filesystem snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		dirMode:  defaultDirMode,
		fileMode: defaultFileMode,
	}
}

// Compare checks content against the baseline at path, creating it when
// absent.
func (s *SnapshotStore) Compare(ctx context.Context, content, path string) (*domain.ComparisonResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if path == "" {
		return nil, fmt.Errorf("empty snapshot path: %w", domain.ErrInvalidInput)
	}

	baseline, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		created, err := s.create(content, path)
		if err != nil {
			return nil, err
		}
		if created {
			logger.Info("created snapshot %s", path)
			return domain.NewCreatedResult(path, content), nil
		}
		// Someone else created it first.
		baseline, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, storageErr("reading snapshot", path, err)
	}

	result := domain.NewComparedResult(path, content, string(baseline))
	logger.Info("snapshot %s: %s", path, result.Outcome)
	return result, nil
}

// Read returns the baseline at path.
func (s *SnapshotStore) Read(ctx context.Context, path string) (*domain.SnapshotRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("snapshot %s: %w", path, domain.ErrNotFound)
	}
	if err != nil {
		return nil, storageErr("reading snapshot", path, err)
	}
	return &domain.SnapshotRecord{Path: path, Content: string(data)}, nil
}

// Update replaces the baseline at path with content.
func (s *SnapshotStore) Update(ctx context.Context, content, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if path == "" {
		return fmt.Errorf("empty snapshot path: %w", domain.ErrInvalidInput)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, s.dirMode); err != nil {
		return storageErr("creating snapshot directory", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return storageErr("creating temp snapshot", path, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return storageErr("writing snapshot", tmpPath, err)
	}
	if err := tmp.Chmod(s.fileMode); err != nil {
		tmp.Close()
		return storageErr("setting snapshot mode", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return storageErr("closing snapshot", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return storageErr("replacing snapshot", path, err)
	}

	logger.Info("updated snapshot %s", path)
	return nil
}

// create writes a new baseline. It returns false without error when the
// file already exists.
func (s *SnapshotStore) create(content, path string) (bool, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, s.dirMode); err != nil {
		return false, storageErr("creating snapshot directory", dir, err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, s.fileMode)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, storageErr("creating snapshot", path, err)
	}

	if _, err := f.WriteString(content); err != nil {
		f.Close()
		os.Remove(path) //nolint:errcheck // best effort
		return false, storageErr("writing snapshot", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path) //nolint:errcheck // best effort
		return false, storageErr("closing snapshot", path, err)
	}
	return true, nil
}

func storageErr(action, path string, err error) error {
	return fmt.Errorf("%s %s: %w: %w", action, path, domain.ErrStorageIO, err)
}
