package services

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docsnap/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/docsnap/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docsnap/internal/core/domain"
	"github.com/custodia-labs/docsnap/internal/core/ports/driven"
	"github.com/custodia-labs/docsnap/internal/normalisers/canonical"
	"github.com/custodia-labs/docsnap/internal/normalisers/dates"
	"github.com/custodia-labs/docsnap/internal/normalisers/docx"
	"github.com/custodia-labs/docsnap/internal/normalisers/markup"
)

const helloBody = `<w:body><w:p>Hello 2024-01-15</w:p></w:body>`

const helloCanonical = `{
  "tag": "w:body",
  "children": [
    {
      "tag": "w:p",
      "children": [
        "Hello "
      ]
    }
  ]
}
`

// writeDOCX writes a zip container holding the given parts and returns its path.
func writeDOCX(t *testing.T, name string, parts map[string]string) string {
	t.Helper()

	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)
	for part, content := range parts {
		f, err := w.Create(part)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func writeDocument(t *testing.T, name, body string) string {
	t.Helper()
	return writeDOCX(t, name, map[string]string{domain.DefaultEntryName: body})
}

type serviceFixture struct {
	service   *SnapshotService
	snapshots driven.SnapshotStore
	history   *memory.HistoryStore
}

func newFixture(t *testing.T, snapshots driven.SnapshotStore, settings domain.Settings) serviceFixture {
	t.Helper()

	history := memory.NewHistoryStore()
	service, err := NewSnapshotService(
		docx.New(),
		markup.New(),
		canonical.New(),
		snapshots,
		history,
		dates.Factory,
		settings,
	)
	require.NoError(t, err)

	return serviceFixture{service: service, snapshots: snapshots, history: history}
}

func TestNewSnapshotService_RequiresPorts(t *testing.T) {
	settings := domain.DefaultSettings()
	store := memory.NewSnapshotStore()

	tests := []struct {
		name string
		make func() (*SnapshotService, error)
	}{
		{"archive", func() (*SnapshotService, error) {
			return NewSnapshotService(nil, markup.New(), canonical.New(), store, nil, dates.Factory, settings)
		}},
		{"parser", func() (*SnapshotService, error) {
			return NewSnapshotService(docx.New(), nil, canonical.New(), store, nil, dates.Factory, settings)
		}},
		{"serialiser", func() (*SnapshotService, error) {
			return NewSnapshotService(docx.New(), markup.New(), nil, store, nil, dates.Factory, settings)
		}},
		{"snapshots", func() (*SnapshotService, error) {
			return NewSnapshotService(docx.New(), markup.New(), canonical.New(), nil, nil, dates.Factory, settings)
		}},
		{"factory", func() (*SnapshotService, error) {
			return NewSnapshotService(docx.New(), markup.New(), canonical.New(), store, nil, nil, settings)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, err := tt.make()
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Nil(t, service)
		})
	}
}

func TestNewSnapshotService_FillsDefaults(t *testing.T) {
	f := newFixture(t, memory.NewSnapshotStore(), domain.Settings{})

	assert.Equal(t, domain.AllPatternGroups(), f.service.PatternGroups())
	assert.Equal(t, filepath.Join(domain.DefaultSnapshotDir, "report.snap"), f.service.SnapshotPathFor("/tmp/report.docx"))
}

func TestNewSnapshotService_RejectsInvalidGroups(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.PatternGroups = []domain.PatternGroup{"roman"}

	_, err := NewSnapshotService(docx.New(), markup.New(), canonical.New(),
		memory.NewSnapshotStore(), nil, dates.Factory, settings)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSnapshotService_ExtractDocumentContent(t *testing.T) {
	f := newFixture(t, memory.NewSnapshotStore(), domain.DefaultSettings())
	path := writeDocument(t, "hello.docx", helloBody)

	content, err := f.service.ExtractDocumentContent(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, helloCanonical, content)
}

func TestSnapshotService_ExtractDocumentContent_Errors(t *testing.T) {
	f := newFixture(t, memory.NewSnapshotStore(), domain.DefaultSettings())
	ctx := context.Background()

	tests := []struct {
		name string
		path string
		want error
	}{
		{"empty path", "", domain.ErrInvalidInput},
		{"missing file", filepath.Join(t.TempDir(), "missing.docx"), domain.ErrArchiveOpen},
		{"missing entry", writeDOCX(t, "empty.docx", map[string]string{"word/styles.xml": "<w:styles/>"}), domain.ErrEntryNotFound},
		{"malformed markup", writeDocument(t, "bad.docx", "<w:body><w:p>open</w:body>"), domain.ErrMalformedMarkup},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, err := f.service.ExtractDocumentContent(ctx, tt.path)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, content)
		})
	}
}

func TestSnapshotService_ExtractDocumentContent_Cancelled(t *testing.T) {
	f := newFixture(t, memory.NewSnapshotStore(), domain.DefaultSettings())
	path := writeDocument(t, "hello.docx", helloBody)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.service.ExtractDocumentContent(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSnapshotService_CompareTwice(t *testing.T) {
	f := newFixture(t, file.NewSnapshotStore(), domain.DefaultSettings())
	path := writeDocument(t, "hello.docx", helloBody)
	snapshotPath := filepath.Join(t.TempDir(), "snaps", "hello.snap")
	ctx := context.Background()

	first, err := f.service.CompareWithSnapshot(ctx, path, snapshotPath)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeCreated, first.Outcome)
	assert.True(t, first.Success)
	assert.True(t, first.IsNewSnapshot)
	assert.Equal(t, domain.MessageCreated, first.Message)
	assert.Equal(t, helloCanonical, first.Content)

	stored, err := os.ReadFile(snapshotPath)
	require.NoError(t, err)
	assert.Equal(t, helloCanonical, string(stored))

	second, err := f.service.CompareWithSnapshot(ctx, path, snapshotPath)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeMatched, second.Outcome)
	assert.True(t, second.Success)
	assert.False(t, second.IsNewSnapshot)
	assert.Equal(t, helloCanonical, second.ExpectedContent)
	assert.Empty(t, second.Diff)
}

func TestSnapshotService_DatesDoNotBreakMatch(t *testing.T) {
	f := newFixture(t, memory.NewSnapshotStore(), domain.DefaultSettings())
	ctx := context.Background()

	monday := writeDocument(t, "report.docx",
		`<w:body><w:p>Generated January 15, 2024 on 1/15/2024</w:p></w:body>`)
	tuesday := writeDocument(t, "report.docx",
		`<w:body><w:p>Generated January 16, 2024 on 1/16/2024</w:p></w:body>`)

	first, err := f.service.CompareWithSnapshot(ctx, monday, "")
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeCreated, first.Outcome)

	second, err := f.service.CompareWithSnapshot(ctx, tuesday, "")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeMatched, second.Outcome)
}

func TestSnapshotService_Mismatch(t *testing.T) {
	f := newFixture(t, memory.NewSnapshotStore(), domain.DefaultSettings())
	ctx := context.Background()
	snapshotPath := "hello.snap"

	_, err := f.service.CompareWithSnapshot(ctx, writeDocument(t, "a.docx", helloBody), snapshotPath)
	require.NoError(t, err)

	changed := writeDocument(t, "b.docx", `<w:body><w:p>Goodbye 2024-01-15</w:p></w:body>`)
	result, err := f.service.CompareWithSnapshot(ctx, changed, snapshotPath)

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeMismatched, result.Outcome)
	assert.False(t, result.Success)
	assert.Equal(t, helloCanonical, result.ExpectedContent)
	assert.Contains(t, result.Content, `"Goodbye "`)
	assert.Contains(t, result.Diff, `-        "Hello "`)
	assert.Contains(t, result.Diff, `+        "Goodbye "`)

	rec, err := f.snapshots.Read(ctx, snapshotPath)
	require.NoError(t, err)
	assert.Equal(t, helloCanonical, rec.Content)
}

func TestSnapshotService_RecordsHistory(t *testing.T) {
	f := newFixture(t, memory.NewSnapshotStore(), domain.DefaultSettings())
	fixed := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	f.service.now = func() time.Time { return fixed }
	ctx := context.Background()
	path := writeDocument(t, "hello.docx", helloBody)

	_, err := f.service.CompareWithSnapshot(ctx, path, "hello.snap")
	require.NoError(t, err)
	_, err = f.service.CompareWithSnapshot(ctx, path, "hello.snap")
	require.NoError(t, err)

	records, err := f.history.List(ctx, domain.HistoryFilter{SnapshotPath: "hello.snap"})
	require.NoError(t, err)
	require.Len(t, records, 2)

	outcomes := []domain.Outcome{records[0].Outcome, records[1].Outcome}
	assert.ElementsMatch(t, []domain.Outcome{domain.OutcomeCreated, domain.OutcomeMatched}, outcomes)
	for _, rec := range records {
		assert.Equal(t, path, rec.DocumentPath)
		assert.Equal(t, fixed, rec.ComparedAt)
		assert.Len(t, rec.ContentHash, 64)
		assert.NotEmpty(t, rec.ID)
	}
	assert.Equal(t, records[0].ContentHash, records[1].ContentHash)
}

type failingHistory struct {
	memory.HistoryStore
}

func (*failingHistory) Record(context.Context, *domain.ComparisonRecord) error {
	return errors.New("disk full")
}

func TestSnapshotService_HistoryFailureDoesNotFailCompare(t *testing.T) {
	service, err := NewSnapshotService(docx.New(), markup.New(), canonical.New(),
		memory.NewSnapshotStore(), &failingHistory{}, dates.Factory, domain.DefaultSettings())
	require.NoError(t, err)

	result, err := service.CompareWithSnapshot(context.Background(),
		writeDocument(t, "hello.docx", helloBody), "hello.snap")

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeCreated, result.Outcome)
}

func TestSnapshotService_UpdateSnapshot(t *testing.T) {
	f := newFixture(t, memory.NewSnapshotStore(), domain.DefaultSettings())
	ctx := context.Background()

	_, err := f.service.CompareWithSnapshot(ctx, writeDocument(t, "a.docx", helloBody), "hello.snap")
	require.NoError(t, err)

	changed := writeDocument(t, "b.docx", `<w:body><w:p>Goodbye</w:p></w:body>`)
	rec, err := f.service.UpdateSnapshot(ctx, changed, "hello.snap")
	require.NoError(t, err)
	assert.Equal(t, "hello.snap", rec.Path)
	assert.Contains(t, rec.Content, `"Goodbye"`)

	result, err := f.service.CompareWithSnapshot(ctx, changed, "hello.snap")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeMatched, result.Outcome)
}

func TestSnapshotService_UpdateSnapshot_DefaultPath(t *testing.T) {
	f := newFixture(t, memory.NewSnapshotStore(), domain.DefaultSettings())
	path := writeDocument(t, "quarterly.docx", helloBody)

	rec, err := f.service.UpdateSnapshot(context.Background(), path, "")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(domain.DefaultSnapshotDir, "quarterly.snap"), rec.Path)
}

func TestSnapshotService_ConfiguredEntry(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.EntryName = "content.xml"
	f := newFixture(t, memory.NewSnapshotStore(), settings)

	path := writeDOCX(t, "sheet.odt", map[string]string{
		"content.xml": `<office:text><text:p>Quarterly</text:p></office:text>`,
	})

	content, err := f.service.ExtractDocumentContent(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, content, `"Quarterly"`)
}

func TestSnapshotService_SnapshotPathFor(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.SnapshotDir = "testdata"
	f := newFixture(t, memory.NewSnapshotStore(), settings)

	tests := []struct {
		path string
		want string
	}{
		{"/downloads/report.docx", filepath.Join("testdata", "report.snap")},
		{"report.v2.docx", filepath.Join("testdata", "report.v2.snap")},
		{"noext", filepath.Join("testdata", "noext.snap")},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, f.service.SnapshotPathFor(tt.path))
		})
	}
}

func TestSnapshotService_WithPatternGroups(t *testing.T) {
	f := newFixture(t, memory.NewSnapshotStore(), domain.DefaultSettings())
	path := writeDocument(t, "mixed.docx", `<w:body><w:p>A 2024-01-15 B 1/15/2024</w:p></w:body>`)

	isoOnly, err := f.service.WithPatternGroups([]domain.PatternGroup{domain.PatternISO})
	require.NoError(t, err)
	assert.Equal(t, []domain.PatternGroup{domain.PatternISO}, isoOnly.PatternGroups())

	content, err := isoOnly.ExtractDocumentContent(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, content, `"A  B 1/15/2024"`)

	// The original service is unchanged.
	assert.Equal(t, domain.AllPatternGroups(), f.service.PatternGroups())

	_, err = f.service.WithPatternGroups([]domain.PatternGroup{"roman"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
