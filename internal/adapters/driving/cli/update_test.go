package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docsnap/internal/core/domain"
)

func TestUpdateCmd_WritesBaseline(t *testing.T) {
	env := setupTestServices(t)
	doc := writeDocument(t, t.TempDir(), "a.docx", helloBody)
	snapshot := filepath.Join(env.snapshotDir, "a.snap")

	out, err := execute(t, "update", doc)

	require.NoError(t, err)
	assert.Contains(t, out, "updated "+snapshot)
	content, err := os.ReadFile(snapshot)
	require.NoError(t, err)
	assert.Equal(t, helloCanonical, string(content))
}

func TestUpdateCmd_OverwritesExplicitSnapshot(t *testing.T) {
	setupTestServices(t)
	dir := t.TempDir()
	snapshot := filepath.Join(dir, "custom.snap")
	require.NoError(t, os.WriteFile(snapshot, []byte("stale"), 0o600))

	_, err := execute(t, "update", "-s", snapshot, writeDocument(t, dir, "a.docx", helloBody))

	require.NoError(t, err)
	content, err := os.ReadFile(snapshot)
	require.NoError(t, err)
	assert.Equal(t, helloCanonical, string(content))
}

func TestUpdateCmd_MissingDocument(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "update", filepath.Join(t.TempDir(), "missing.docx"))

	assert.ErrorIs(t, err, domain.ErrArchiveOpen)
}
