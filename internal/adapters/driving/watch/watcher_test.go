package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docsnap/internal/core/domain"
	"github.com/custodia-labs/docsnap/internal/core/ports/driving"
)

// mockSnapshotService records compared paths.
type mockSnapshotService struct {
	mu       sync.Mutex
	compared []string
	err      error
}

func (m *mockSnapshotService) ExtractDocumentContent(context.Context, string) (string, error) {
	return "", nil
}

func (m *mockSnapshotService) CompareWithSnapshot(
	_ context.Context, path, snapshotPath string,
) (*domain.ComparisonResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.compared = append(m.compared, path)
	if m.err != nil {
		return nil, m.err
	}
	return domain.NewCreatedResult(snapshotPath, "content"), nil
}

func (m *mockSnapshotService) UpdateSnapshot(context.Context, string, string) (*domain.SnapshotRecord, error) {
	return nil, nil
}

func (m *mockSnapshotService) SnapshotPathFor(path string) string { return path + ".snap" }

func (m *mockSnapshotService) PatternGroups() []domain.PatternGroup { return domain.AllPatternGroups() }

func (m *mockSnapshotService) WithPatternGroups([]domain.PatternGroup) (driving.SnapshotService, error) {
	return m, nil
}

func (m *mockSnapshotService) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.compared)
}

// startWatcher runs a watcher in the background and returns its events.
func startWatcher(t *testing.T, svc driving.SnapshotService, dir string) <-chan Event {
	t.Helper()

	events := make(chan Event, 16)
	w := New(svc, dir, func(ev Event) { events <- ev }, WithDebounce(30*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("watcher did not stop")
		}
	})

	// Give fsnotify time to register the directory.
	time.Sleep(50 * time.Millisecond)
	return events
}

func waitEvent(t *testing.T, events <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for comparison event")
		return Event{}
	}
}

func TestWatcher_ComparesNewDocument(t *testing.T) {
	dir := t.TempDir()
	svc := &mockSnapshotService{}
	events := startWatcher(t, svc, dir)

	path := filepath.Join(dir, "report.docx")
	require.NoError(t, os.WriteFile(path, []byte("zip"), 0o600))

	ev := waitEvent(t, events)
	assert.Equal(t, path, ev.Path)
	assert.NoError(t, ev.Err)
	require.NotNil(t, ev.Result)
	assert.Equal(t, domain.OutcomeCreated, ev.Result.Outcome)
}

func TestWatcher_DebouncesRepeatedWrites(t *testing.T) {
	dir := t.TempDir()
	svc := &mockSnapshotService{}
	events := startWatcher(t, svc, dir)

	path := filepath.Join(dir, "report.docx")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte{byte(i)}, 0o600))
		time.Sleep(5 * time.Millisecond)
	}

	waitEvent(t, events)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, svc.count())
}

func TestWatcher_IgnoresUnsupportedFiles(t *testing.T) {
	dir := t.TempDir()
	svc := &mockSnapshotService{}
	events := startWatcher(t, svc, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "~$report.docx"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden.docx"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "real.docx"), []byte("x"), 0o600))

	ev := waitEvent(t, events)
	assert.Equal(t, "real.docx", filepath.Base(ev.Path))
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, svc.count())
}

func TestWatcher_ReportsErrors(t *testing.T) {
	dir := t.TempDir()
	svc := &mockSnapshotService{err: domain.ErrEntryNotFound}
	events := startWatcher(t, svc, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.docx"), []byte("x"), 0o600))

	ev := waitEvent(t, events)
	assert.ErrorIs(t, ev.Err, domain.ErrEntryNotFound)
	assert.Nil(t, ev.Result)
}

func TestWatcher_Run_InvalidDirectory(t *testing.T) {
	svc := &mockSnapshotService{}

	err := New(svc, filepath.Join(t.TempDir(), "missing"), nil).Run(context.Background())
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "file.docx")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))
	err = New(svc, file, nil).Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestWatcher_Run_RequiresService(t *testing.T) {
	err := New(nil, t.TempDir(), nil).Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestWatcher_Relevant(t *testing.T) {
	w := New(&mockSnapshotService{}, "/downloads", nil)

	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"create docx", fsnotify.Event{Name: "/downloads/a.docx", Op: fsnotify.Create}, true},
		{"write docx", fsnotify.Event{Name: "/downloads/a.docx", Op: fsnotify.Write}, true},
		{"remove docx", fsnotify.Event{Name: "/downloads/a.docx", Op: fsnotify.Remove}, false},
		{"chmod docx", fsnotify.Event{Name: "/downloads/a.docx", Op: fsnotify.Chmod}, false},
		{"partial download", fsnotify.Event{Name: "/downloads/a.docx.crdownload", Op: fsnotify.Create}, false},
		{"hidden", fsnotify.Event{Name: "/downloads/.a.docx", Op: fsnotify.Create}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.relevant(tt.ev))
		})
	}
}

func TestWatcher_Options(t *testing.T) {
	only := func(path string) bool { return filepath.Ext(path) == ".xml" }
	w := New(&mockSnapshotService{}, "/d", nil, WithDebounce(time.Second), WithFilter(only), WithDebounce(0), WithFilter(nil))

	assert.Equal(t, time.Second, w.debounce)
	assert.True(t, w.relevant(fsnotify.Event{Name: "/d/a.xml", Op: fsnotify.Create}))
	assert.False(t, w.relevant(fsnotify.Event{Name: "/d/a.docx", Op: fsnotify.Create}))
}

func TestWatcher_CompareSkipsVanishedFile(t *testing.T) {
	svc := &mockSnapshotService{}
	var got []Event
	w := New(svc, t.TempDir(), func(ev Event) { got = append(got, ev) })

	w.compare(context.Background(), filepath.Join(t.TempDir(), "gone.docx"))

	assert.Empty(t, got)
	assert.Equal(t, 0, svc.count())
}

func TestWatcher_CompareDropsCancelled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.docx")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	svc := &mockSnapshotService{err: errors.Join(errors.New("stopped"), context.Canceled)}
	var got []Event
	w := New(svc, dir, func(ev Event) { got = append(got, ev) })

	w.compare(context.Background(), path)

	assert.Empty(t, got)
}

// stopWithin fails the test if d.stop does not return in time.
func stopWithin(t *testing.T, d *debouncer, timeout time.Duration) {
	t.Helper()
	finished := make(chan struct{})
	go func() {
		d.stop()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(timeout):
		t.Fatal("debouncer.stop did not return")
	}
}

func TestDebouncer_StopReleasesFiredTimers(t *testing.T) {
	d := newDebouncer(time.Millisecond)
	d.schedule("report.docx")

	// Let the timer fire with nobody reading ready.
	time.Sleep(50 * time.Millisecond)

	stopWithin(t, d, 2*time.Second)
}

func TestDebouncer_StopCancelsPendingTimers(t *testing.T) {
	d := newDebouncer(time.Hour)
	d.schedule("a.docx")
	d.schedule("b.docx")

	stopWithin(t, d, 2*time.Second)
}

func TestDebouncer_LatestGenerationWins(t *testing.T) {
	d := newDebouncer(10 * time.Millisecond)
	d.schedule("report.docx")
	d.schedule("report.docx")

	select {
	case s := <-d.ready:
		assert.Equal(t, "report.docx", s.path)
		assert.True(t, d.settle(s))
		assert.False(t, d.settle(s), "a settled path is forgotten")
	case <-time.After(2 * time.Second):
		t.Fatal("no settled event")
	}

	stopWithin(t, d, 2*time.Second)
}

func TestDebouncer_StaleGenerationIgnored(t *testing.T) {
	d := newDebouncer(time.Hour)
	d.schedule("report.docx")
	d.schedule("report.docx")

	assert.False(t, d.settle(settled{path: "report.docx", gen: 1}))
	assert.True(t, d.settle(settled{path: "report.docx", gen: 2}))

	stopWithin(t, d, 2*time.Second)
}
