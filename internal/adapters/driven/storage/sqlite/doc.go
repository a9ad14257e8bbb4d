// Package sqlite provides the SQLite-backed comparison history store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements driven.HistoryStore: every
// snapshot comparison is recorded with its outcome and the hash of the compared content.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// Applied versions are tracked in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.docsnap/data/history.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
