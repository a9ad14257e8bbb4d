package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/docsnap/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/docsnap/internal/core/domain"
	"github.com/custodia-labs/docsnap/internal/core/ports/driven"
)

// DatabaseFile is the file name of the history database.
const DatabaseFile = "history.db"

// Store is a SQLite database holding comparison history.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.docsnap/data/history.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docsnap", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	// WAL lets a watcher and a one-off compare share the file.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// HistoryStore returns a HistoryStore interface backed by this store.
func (s *Store) HistoryStore() driven.HistoryStore {
	return &historyStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_comparison_history.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := s.apply(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// apply runs one migration and records its version atomically.
func (s *Store) apply(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// ==================== History Store ====================

// historyStore implements driven.HistoryStore.
type historyStore struct {
	store *Store
}

var _ driven.HistoryStore = (*historyStore)(nil)

// Record stores a comparison record.
func (s *historyStore) Record(ctx context.Context, rec *domain.ComparisonRecord) error {
	if rec == nil || rec.ID == "" {
		return fmt.Errorf("record without id: %w", domain.ErrInvalidInput)
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO comparisons (id, document_path, snapshot_path, outcome, content_hash, compared_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			document_path = excluded.document_path,
			snapshot_path = excluded.snapshot_path,
			outcome = excluded.outcome,
			content_hash = excluded.content_hash,
			compared_at = excluded.compared_at
	`, rec.ID, rec.DocumentPath, rec.SnapshotPath, string(rec.Outcome), rec.ContentHash,
		formatTime(rec.ComparedAt))
	if err != nil {
		return fmt.Errorf("saving comparison: %w", err)
	}
	return nil
}

// List returns records matching the filter, newest first.
func (s *historyStore) List(ctx context.Context, filter domain.HistoryFilter) ([]domain.ComparisonRecord, error) {
	query := `
		SELECT id, document_path, snapshot_path, outcome, content_hash, compared_at
		FROM comparisons`

	var conds []string
	var args []any
	if filter.SnapshotPath != "" {
		conds = append(conds, "snapshot_path = ?")
		args = append(args, filter.SnapshotPath)
	}
	if filter.Outcome != "" {
		conds = append(conds, "outcome = ?")
		args = append(args, string(filter.Outcome))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY compared_at DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying comparisons: %w", err)
	}
	defer rows.Close()

	var records []domain.ComparisonRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating comparisons: %w", err)
	}

	return records, nil
}

// Get retrieves a record by ID.
func (s *historyStore) Get(ctx context.Context, id string) (*domain.ComparisonRecord, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, document_path, snapshot_path, outcome, content_hash, compared_at
		FROM comparisons WHERE id = ?
	`, id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("comparison %s: %w", id, domain.ErrNotFound)
	}
	return rec, err
}

// Prune deletes all records for a snapshot path.
func (s *historyStore) Prune(ctx context.Context, snapshotPath string) (int, error) {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM comparisons WHERE snapshot_path = ?", snapshotPath)
	if err != nil {
		return 0, fmt.Errorf("deleting comparisons: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted comparisons: %w", err)
	}
	return int(n), nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*domain.ComparisonRecord, error) {
	var rec domain.ComparisonRecord
	var outcome, comparedAt string
	if err := row.Scan(&rec.ID, &rec.DocumentPath, &rec.SnapshotPath, &outcome,
		&rec.ContentHash, &comparedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning comparison: %w", err)
	}

	rec.Outcome = domain.Outcome(outcome)
	t, err := time.Parse(time.RFC3339Nano, comparedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing compared_at %q: %w", comparedAt, err)
	}
	rec.ComparedAt = t
	return &rec, nil
}

// formatTime stores timestamps as fixed-width UTC text so that string
// ordering matches chronological ordering.
func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z07:00")
}
