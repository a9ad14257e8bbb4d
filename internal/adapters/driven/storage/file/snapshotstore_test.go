package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docsnap/internal/core/domain"
)

func TestSnapshotStore_Compare_CreatesBaseline(t *testing.T) {
	store := NewSnapshotStore()
	path := filepath.Join(t.TempDir(), "nested", "dir", "doc.snap")

	result, err := store.Compare(context.Background(), "content\n", path)
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeCreated, result.Outcome)
	assert.True(t, result.Success)
	assert.True(t, result.IsNewSnapshot)
	assert.Equal(t, "created", result.Message)
	assert.Equal(t, "content\n", result.Content)
	assert.Empty(t, result.ExpectedContent)
	assert.Equal(t, path, result.SnapshotPath)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "content\n", string(data))
}

func TestSnapshotStore_Compare_Match(t *testing.T) {
	store := NewSnapshotStore()
	path := filepath.Join(t.TempDir(), "doc.snap")
	require.NoError(t, os.WriteFile(path, []byte("A"), 0o644))

	result, err := store.Compare(context.Background(), "A", path)
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeMatched, result.Outcome)
	assert.True(t, result.Success)
	assert.False(t, result.IsNewSnapshot)
	assert.Equal(t, "A", result.ExpectedContent)
}

func TestSnapshotStore_Compare_MismatchLeavesBaseline(t *testing.T) {
	store := NewSnapshotStore()
	path := filepath.Join(t.TempDir(), "doc.snap")
	require.NoError(t, os.WriteFile(path, []byte("A"), 0o644))

	result, err := store.Compare(context.Background(), "B", path)
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeMismatched, result.Outcome)
	assert.False(t, result.Success)
	assert.False(t, result.IsNewSnapshot)
	assert.Equal(t, "B", result.Content)
	assert.Equal(t, "A", result.ExpectedContent)
	assert.Equal(t, domain.MessageMismatched, result.Message)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "A", string(data), "comparison must not rewrite the baseline")
}

func TestSnapshotStore_Compare_SecondRunMatches(t *testing.T) {
	store := NewSnapshotStore()
	path := filepath.Join(t.TempDir(), "doc.snap")
	ctx := context.Background()

	first, err := store.Compare(ctx, "same", path)
	require.NoError(t, err)
	assert.True(t, first.IsNewSnapshot)

	second, err := store.Compare(ctx, "same", path)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeMatched, second.Outcome)
	assert.False(t, second.IsNewSnapshot)
}

func TestSnapshotStore_Compare_StorageErrors(t *testing.T) {
	store := NewSnapshotStore()
	dir := t.TempDir()

	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	t.Run("parent is a file", func(t *testing.T) {
		_, err := store.Compare(context.Background(), "A", filepath.Join(blocker, "doc.snap"))
		assert.ErrorIs(t, err, domain.ErrStorageIO)
	})

	t.Run("path is a directory", func(t *testing.T) {
		_, err := store.Compare(context.Background(), "A", dir)
		assert.ErrorIs(t, err, domain.ErrStorageIO)
	})
}

func TestSnapshotStore_Compare_InvalidInput(t *testing.T) {
	_, err := NewSnapshotStore().Compare(context.Background(), "A", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSnapshotStore_Compare_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := filepath.Join(t.TempDir(), "doc.snap")
	_, err := NewSnapshotStore().Compare(ctx, "A", path)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, path)
}

func TestSnapshotStore_Read(t *testing.T) {
	store := NewSnapshotStore()
	path := filepath.Join(t.TempDir(), "doc.snap")

	_, err := store.Read(context.Background(), path)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, os.WriteFile(path, []byte("baseline"), 0o644))
	record, err := store.Read(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, record.Path)
	assert.Equal(t, "baseline", record.Content)
}

func TestSnapshotStore_Update(t *testing.T) {
	store := NewSnapshotStore()
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "doc.snap")
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, "first", path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))

	require.NoError(t, store.Update(ctx, "second", path))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(filepath.Join(dir, "sub"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")

	result, err := store.Compare(ctx, "second", path)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeMatched, result.Outcome)
}

func TestSnapshotStore_Update_Errors(t *testing.T) {
	store := NewSnapshotStore()
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := store.Update(context.Background(), "A", filepath.Join(blocker, "doc.snap"))
	assert.ErrorIs(t, err, domain.ErrStorageIO)

	err = store.Update(context.Background(), "A", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
