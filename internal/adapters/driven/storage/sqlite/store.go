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

	"github.com/leo-dower/ocr-rag-super-charged/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/ports/driven"
)

// DatabaseFile is the file name of the database inside the data directory.
const DatabaseFile = "batches.db"

// Store is a SQLite-backed driven.BatchStore.
type Store struct {
	db   *sql.DB
	path string
}

var _ driven.BatchStore = (*Store)(nil)

// NewStore opens the database in dataDir, creating it if needed.
// If dataDir is empty, defaults to ~/.ocrsc/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".ocrsc", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	// WAL lets a running batch write while another command reads.
	db, err := sql.Open("sqlite",
		dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
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

// migrate applies every numbered .up.sql file above the recorded version.
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
		// "001_batches.up.sql" -> 1
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

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("starting migration %s: %w", name, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", name, err)
		}
	}

	return nil
}

// SchemaVersion returns the highest applied migration.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	row := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&version); err != nil {
		return 0, fmt.Errorf("getting schema version: %w", err)
	}
	return version, nil
}

// Save stores a batch run, replacing any run with the same ID.
func (s *Store) Save(ctx context.Context, result *domain.BatchResult) error {
	if result == nil || result.ID == "" {
		return fmt.Errorf("%w: batch result without id", domain.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := deleteBatch(ctx, tx, result.ID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO batches (id, started_at, completed_at, created_at)
		VALUES (?, ?, ?, ?)
	`, result.ID, result.StartedAt.UTC(), nullTime(result.CompletedAt), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving batch: %w", err)
	}

	for i, row := range result.Rows {
		fieldsJSON, err := encodeFields(row.Result)
		if err != nil {
			return fmt.Errorf("encoding row %d: %w", i, err)
		}
		var docType domain.DocumentType
		var enriched bool
		if row.Result != nil {
			docType = row.Result.DocumentType
			enriched = row.Result.Enriched
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO batch_rows (batch_id, position, path, document_type, enriched, fields)
			VALUES (?, ?, ?, ?, ?, ?)
		`, result.ID, i, row.Path, string(docType), enriched, fieldsJSON)
		if err != nil {
			return fmt.Errorf("saving batch row: %w", err)
		}
	}

	for i, f := range result.Failures {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO batch_failures (batch_id, position, path, error, kind)
			VALUES (?, ?, ?, ?, ?)
		`, result.ID, i, f.Path, f.Error, string(f.Kind))
		if err != nil {
			return fmt.Errorf("saving batch failure: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing batch: %w", err)
	}
	return nil
}

// Get retrieves a batch run with its rows and failures.
func (s *Store) Get(ctx context.Context, id string) (*domain.BatchResult, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, started_at, completed_at FROM batches WHERE id = ?
	`, id)

	var result domain.BatchResult
	var completedAt sql.NullTime
	if err := row.Scan(&result.ID, &result.StartedAt, &completedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning batch: %w", err)
	}
	if completedAt.Valid {
		result.CompletedAt = completedAt.Time
	}

	rows, err := s.getRows(ctx, id)
	if err != nil {
		return nil, err
	}
	result.Rows = rows

	failures, err := s.getFailures(ctx, id)
	if err != nil {
		return nil, err
	}
	result.Failures = failures

	return &result, nil
}

func (s *Store) getRows(ctx context.Context, id string) ([]domain.BatchRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT path, document_type, enriched, fields
		FROM batch_rows WHERE batch_id = ? ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying batch rows: %w", err)
	}
	defer rows.Close()

	var out []domain.BatchRow //nolint:prealloc // size unknown from query
	for rows.Next() {
		var path, docType, fieldsJSON string
		var enriched bool
		if err := rows.Scan(&path, &docType, &enriched, &fieldsJSON); err != nil {
			return nil, fmt.Errorf("scanning batch row: %w", err)
		}
		fields, err := decodeFields(domain.DocumentType(docType), fieldsJSON)
		if err != nil {
			return nil, fmt.Errorf("decoding batch row %s: %w", path, err)
		}
		fields.Enriched = enriched
		out = append(out, domain.BatchRow{Path: path, Result: fields})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating batch rows: %w", err)
	}
	return out, nil
}

func (s *Store) getFailures(ctx context.Context, id string) ([]domain.BatchFailure, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT path, error, kind FROM batch_failures WHERE batch_id = ? ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying batch failures: %w", err)
	}
	defer rows.Close()

	var out []domain.BatchFailure //nolint:prealloc // size unknown from query
	for rows.Next() {
		var f domain.BatchFailure
		var kind string
		if err := rows.Scan(&f.Path, &f.Error, &kind); err != nil {
			return nil, fmt.Errorf("scanning batch failure: %w", err)
		}
		f.Kind = domain.FailureKind(kind)
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating batch failures: %w", err)
	}
	return out, nil
}

// List returns stored runs, newest first.
func (s *Store) List(ctx context.Context) ([]domain.BatchSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.id, b.started_at, b.completed_at,
			(SELECT COUNT(*) FROM batch_rows r WHERE r.batch_id = b.id),
			(SELECT COUNT(*) FROM batch_failures f WHERE f.batch_id = b.id)
		FROM batches b
		ORDER BY b.started_at DESC, b.id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying batches: %w", err)
	}
	defer rows.Close()

	summaries := []domain.BatchSummary{}
	for rows.Next() {
		var sum domain.BatchSummary
		var completedAt sql.NullTime
		if err := rows.Scan(&sum.ID, &sum.StartedAt, &completedAt, &sum.Documents, &sum.Failures); err != nil {
			return nil, fmt.Errorf("scanning batch: %w", err)
		}
		if completedAt.Valid {
			sum.CompletedAt = completedAt.Time
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating batches: %w", err)
	}
	return summaries, nil
}

// Delete removes a batch run.
func (s *Store) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM batches WHERE id = ?", id).Scan(&exists); err != nil {
		return fmt.Errorf("checking batch: %w", err)
	}
	if exists == 0 {
		return domain.ErrNotFound
	}
	if err := deleteBatch(ctx, tx, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing delete: %w", err)
	}
	return nil
}

func deleteBatch(ctx context.Context, tx *sql.Tx, id string) error {
	for _, stmt := range []string{
		"DELETE FROM batch_rows WHERE batch_id = ?",
		"DELETE FROM batch_failures WHERE batch_id = ?",
		"DELETE FROM batches WHERE id = ?",
	} {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("deleting batch: %w", err)
		}
	}
	return nil
}

// nullTime returns nil for the zero time so the column stays NULL.
func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}
