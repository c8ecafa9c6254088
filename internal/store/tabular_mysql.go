package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLTabularStore implements TabularStore on MySQL, for deployments that
// already run one. Same sheet_rows schema as the SQLite store.
type MySQLTabularStore struct {
	db *sql.DB
}

// NewMySQLTabularStore connects to MySQL and prepares the row table.
func NewMySQLTabularStore(dsn string) (*MySQLTabularStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	if err := createSheetTable(db, "mysql"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	log.Printf("[MySQLTabularStore] Initialized")
	return &MySQLTabularStore{db: db}, nil
}

// ListRows returns every row of the table in order.
func (s *MySQLTabularStore) ListRows(ctx context.Context, table string) ([][]string, error) {
	return listSQLRows(ctx, s.db, table)
}

// AppendRow adds a row after the current last row.
func (s *MySQLTabularStore) AppendRow(ctx context.Context, table string, cells []string) error {
	return appendSQLRow(ctx, s.db, table, cells)
}

// UpdateRow replaces the row at the given position.
func (s *MySQLTabularStore) UpdateRow(ctx context.Context, table string, index int, cells []string) error {
	return updateSQLRow(ctx, s.db, table, index, cells)
}

// DeleteRow removes the row at the given position.
func (s *MySQLTabularStore) DeleteRow(ctx context.Context, table string, index int) error {
	return deleteSQLRow(ctx, s.db, table, index)
}

// Close closes the database connection.
func (s *MySQLTabularStore) Close() error {
	return s.db.Close()
}

var _ TabularStore = (*MySQLTabularStore)(nil)
