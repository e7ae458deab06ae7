package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/rv-solomasov/dfChunk/internal/frame"
	"github.com/rv-solomasov/dfChunk/pkg/types"
)

var (
	// ErrTableNotFound is returned when the named source table doesn't exist
	ErrTableNotFound = errors.New("table not found")
	// ErrRunNotFound is returned when a requested run manifest doesn't exist
	ErrRunNotFound = errors.New("run not found")
)

// identifierPattern limits table names to plain SQL identifiers, since
// identifiers cannot be bound as query parameters.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Store provides SQLite-backed dataset loading and chunk-run manifest
// persistence.
type Store struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// Open creates a Store over the SQLite database at dbPath and applies
// any pending manifest schema migrations.
func Open(dbPath string) (*Store, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// ListTables returns the user tables in the database, excluding the
// manifest's own tables.
func (s *Store) ListTables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'table'
		  AND name NOT LIKE 'sqlite_%'
		  AND name NOT IN ('schema_version', 'chunk_runs', 'chunk_manifest')
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// tableExists reports whether a user table with the given name exists.
func (s *Store) tableExists(ctx context.Context, table string) (bool, error) {
	var name string
	err := s.db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// LoadTable reads a whole table into a Frame in rowid order. All values
// are scanned as text; NULL becomes the empty string.
func (s *Store) LoadTable(ctx context.Context, table string) (*frame.Frame, error) {
	if !identifierPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	exists, err := s.tableExists(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to check table: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrTableNotFound, table)
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM "%s" ORDER BY rowid`, table))
	if err != nil {
		return nil, fmt.Errorf("failed to query table: %w", err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var records [][]string
	for rows.Next() {
		scanned := make([]sql.NullString, len(columns))
		dest := make([]interface{}, len(columns))
		for i := range scanned {
			dest[i] = &scanned[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		record := make([]string, len(columns))
		for i, v := range scanned {
			if v.Valid {
				record[i] = v.String
			}
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return frame.New(columns, records)
}

// SaveRun persists a chunk-run summary to the manifest tables.
func (s *Store) SaveRun(ctx context.Context, summary *types.RunSummary) error {
	if err := summary.Validate(); err != nil {
		return fmt.Errorf("invalid run summary: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO chunk_runs (id, source, group_column, target_size, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, summary.RunID, summary.Source, summary.GroupColumn, summary.TargetSize,
		summary.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for _, c := range summary.Chunks {
		groups, err := json.Marshal(c.Groups)
		if err != nil {
			return fmt.Errorf("failed to encode groups: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO chunk_manifest (run_id, seq, row_count, groups)
			VALUES (?, ?, ?, ?)
		`, summary.RunID, c.Seq, c.RowCount, string(groups))
		if err != nil {
			return fmt.Errorf("failed to insert chunk %d: %w", c.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// GetRun loads a previously saved run summary by ID.
func (s *Store) GetRun(ctx context.Context, runID string) (*types.RunSummary, error) {
	summary := &types.RunSummary{RunID: runID}

	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT source, group_column, target_size, created_at
		FROM chunk_runs WHERE id = ?
	`, runID).Scan(&summary.Source, &summary.GroupColumn, &summary.TargetSize, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %q", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read run: %w", err)
	}

	if summary.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("invalid run timestamp: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, row_count, groups
		FROM chunk_manifest WHERE run_id = ? ORDER BY seq
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var c types.ChunkInfo
		var groups string
		if err := rows.Scan(&c.Seq, &c.RowCount, &groups); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		if err := json.Unmarshal([]byte(groups), &c.Groups); err != nil {
			return nil, fmt.Errorf("failed to decode groups: %w", err)
		}
		summary.Chunks = append(summary.Chunks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate manifest: %w", err)
	}

	return summary, nil
}
