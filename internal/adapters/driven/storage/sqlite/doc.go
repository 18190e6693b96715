// Package sqlite persists batch extraction runs in a local SQLite database.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. A run is stored across three tables:
//
//   - batches: one row per run with its timestamps
//   - batch_rows: one row per extracted document, fields as typed JSON
//   - batch_failures: one row per skipped document
//
// # Schema
//
// The schema is managed through versioned migrations stored in the
// migrations/ directory. Applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.ocrsc/data/batches.db
package sqlite
