package store

import (
	"context"
	"sync"
)

// MemoryTabularStore is an in-process TabularStore.
// Use this for development/testing; nothing survives a restart.
type MemoryTabularStore struct {
	mu     sync.RWMutex
	tables map[string][][]string
}

// NewMemoryTabularStore creates an empty in-memory store.
func NewMemoryTabularStore() *MemoryTabularStore {
	return &MemoryTabularStore{
		tables: make(map[string][][]string),
	}
}

// Seed replaces a table's contents wholesale. Test helper.
func (s *MemoryTabularStore) Seed(table string, rows [][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([][]string, len(rows))
	for i, r := range rows {
		copied[i] = append([]string(nil), r...)
	}
	s.tables[table] = copied
}

// ListRows returns every row of the table in order.
func (s *MemoryTabularStore) ListRows(ctx context.Context, table string) ([][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.tables[table]
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out, nil
}

// AppendRow adds a row after the current last row.
func (s *MemoryTabularStore) AppendRow(ctx context.Context, table string, cells []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tables[table] = append(s.tables[table], append([]string(nil), cells...))
	return nil
}

// UpdateRow replaces the row at the given position.
func (s *MemoryTabularStore) UpdateRow(ctx context.Context, table string, index int, cells []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.tables[table]
	if index < 0 || index >= len(rows) {
		return ErrRowOutOfRange
	}
	rows[index] = append([]string(nil), cells...)
	return nil
}

// DeleteRow removes the row at the given position.
func (s *MemoryTabularStore) DeleteRow(ctx context.Context, table string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.tables[table]
	if index < 0 || index >= len(rows) {
		return ErrRowOutOfRange
	}
	s.tables[table] = append(rows[:index], rows[index+1:]...)
	return nil
}

// Close is a no-op.
func (s *MemoryTabularStore) Close() error { return nil }

var _ TabularStore = (*MemoryTabularStore)(nil)
