// Package memory provides an in-memory RowStore used by tests and the demo
// backend.
package memory

import (
	"context"
	"sync"
)

// Store keeps the bookings table in memory. Safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	header []string
	rows   [][]string
}

// New creates an empty in-memory store with the given header.
func New(header []string) *Store {
	h := make([]string, len(header))
	copy(h, header)
	return &Store{header: h}
}

// ReadAll returns copies of the header and all rows in insertion order.
func (s *Store) ReadAll(ctx context.Context) ([]string, [][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	header := make([]string, len(s.header))
	copy(header, s.header)

	rows := make([][]string, len(s.rows))
	for i, row := range s.rows {
		r := make([]string, len(row))
		copy(r, row)
		rows[i] = r
	}
	return header, rows, nil
}

// Append adds one row at the end of the table.
func (s *Store) Append(ctx context.Context, row []string) error {
	r := make([]string, len(row))
	copy(r, row)

	s.mu.Lock()
	s.rows = append(s.rows, r)
	s.mu.Unlock()
	return nil
}
