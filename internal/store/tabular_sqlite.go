package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	_ "modernc.org/sqlite" // Pure Go SQLite driver - no CGO required
)

// SQLiteTabularStore implements TabularStore on a local SQLite file.
// Each logical table is a named sheet; rows are kept as JSON cell arrays
// ordered by a position column.
type SQLiteTabularStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteTabularStore opens (and if needed creates) the backing database.
// dbPath is the path to the SQLite database file (e.g., "./data/citadelle.db")
func NewSQLiteTabularStore(dbPath string) (*SQLiteTabularStore, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}

	// SQLite connection pool settings
	db.SetMaxOpenConns(1) // SQLite only supports 1 writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := createSheetTable(db, "sqlite"); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	log.Printf("[SQLiteTabularStore] Initialized with database: %s", dbPath)
	return &SQLiteTabularStore{db: db}, nil
}

// createSheetTable creates the shared row table for SQL-backed stores.
func createSheetTable(db *sql.DB, dialect string) error {
	autoinc := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if dialect == "mysql" {
		autoinc = "BIGINT PRIMARY KEY AUTO_INCREMENT"
	}
	query := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS sheet_rows (
		id %s,
		sheet VARCHAR(64) NOT NULL,
		cells TEXT NOT NULL
	);`, autoinc)
	if _, err := db.Exec(query); err != nil {
		return err
	}
	if dialect == "mysql" {
		// MySQL has no IF NOT EXISTS for indexes; a duplicate-name error
		// here just means the index already exists.
		_, _ = db.Exec(`CREATE INDEX idx_sheet ON sheet_rows(sheet, id)`)
		return nil
	}
	_, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_sheet ON sheet_rows(sheet, id)`)
	return err
}

// ListRows returns every row of the table in order.
func (s *SQLiteTabularStore) ListRows(ctx context.Context, table string) ([][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listSQLRows(ctx, s.db, table)
}

// AppendRow adds a row after the current last row.
func (s *SQLiteTabularStore) AppendRow(ctx context.Context, table string, cells []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return appendSQLRow(ctx, s.db, table, cells)
}

// UpdateRow replaces the row at the given position.
func (s *SQLiteTabularStore) UpdateRow(ctx context.Context, table string, index int, cells []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return updateSQLRow(ctx, s.db, table, index, cells)
}

// DeleteRow removes the row at the given position.
func (s *SQLiteTabularStore) DeleteRow(ctx context.Context, table string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deleteSQLRow(ctx, s.db, table, index)
}

// Close closes the database connection.
func (s *SQLiteTabularStore) Close() error {
	return s.db.Close()
}

// Shared SQL helpers. Row position is the rank of the internal id within
// the sheet, so deletes shift later rows up without renumbering.

func listSQLRows(ctx context.Context, db *sql.DB, table string) ([][]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT cells FROM sheet_rows WHERE sheet = ? ORDER BY id`, table)
	if err != nil {
		return nil, fmt.Errorf("failed to list rows of %s: %w", table, err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var cells []string
		if err := json.Unmarshal([]byte(raw), &cells); err != nil {
			return nil, fmt.Errorf("malformed row in %s: %w", table, err)
		}
		out = append(out, cells)
	}
	return out, rows.Err()
}

func appendSQLRow(ctx context.Context, db *sql.DB, table string, cells []string) error {
	raw, err := json.Marshal(cells)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO sheet_rows (sheet, cells) VALUES (?, ?)`, table, string(raw))
	if err != nil {
		return fmt.Errorf("failed to append row to %s: %w", table, err)
	}
	return nil
}

func rowIDAt(ctx context.Context, db *sql.DB, table string, index int) (int64, error) {
	var id int64
	err := db.QueryRowContext(ctx,
		`SELECT id FROM sheet_rows WHERE sheet = ? ORDER BY id LIMIT 1 OFFSET ?`,
		table, index).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, ErrRowOutOfRange
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

func updateSQLRow(ctx context.Context, db *sql.DB, table string, index int, cells []string) error {
	id, err := rowIDAt(ctx, db, table, index)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(cells)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`UPDATE sheet_rows SET cells = ? WHERE id = ?`, string(raw), id)
	if err != nil {
		return fmt.Errorf("failed to update row %d of %s: %w", index, table, err)
	}
	return nil
}

func deleteSQLRow(ctx context.Context, db *sql.DB, table string, index int) error {
	id, err := rowIDAt(ctx, db, table, index)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `DELETE FROM sheet_rows WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete row %d of %s: %w", index, table, err)
	}
	return nil
}

// Ensure SQLiteTabularStore implements TabularStore
var _ TabularStore = (*SQLiteTabularStore)(nil)
