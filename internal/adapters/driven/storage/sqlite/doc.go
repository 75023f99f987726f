// Package sqlite provides a SQLite-backed document index.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO. It is selected with storage.index_backend = "sqlite" and keeps the index in
// <storage root>/index.db instead of index.json.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Ordering
//
// Records are returned in insertion order (the autoincrement seq column). An
// update keyed by file name keeps the row's original position.
package sqlite
