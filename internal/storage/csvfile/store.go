// Package csvfile persists the bookings table as a local CSV file with a
// mandatory header row.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Store reads and appends rows of a single CSV file. The file is created
// empty (header only) on first read if it does not exist.
type Store struct {
	path   string
	header []string
}

// New creates a CSV store at path with the given header row.
func New(path string, header []string) *Store {
	h := make([]string, len(header))
	copy(h, header)
	return &Store{path: path, header: h}
}

// Path returns the location of the backing file.
func (s *Store) Path() string {
	return s.path
}

// ReadAll returns the header and every data row in file order. A missing
// file is created with the header and reads as empty.
func (s *Store) ReadAll(ctx context.Context) ([]string, [][]string, error) {
	records, err := s.readRecords()
	if errors.Is(err, fs.ErrNotExist) {
		if err := s.writeRecords([][]string{s.header}); err != nil {
			return nil, nil, fmt.Errorf("csvfile: create %s: %w", s.path, err)
		}
		return s.headerCopy(), nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("csvfile: read %s: %w", s.path, err)
	}
	if len(records) == 0 {
		// Zero-byte file, e.g. truncated by hand. Restore the header.
		if err := s.writeRecords([][]string{s.header}); err != nil {
			return nil, nil, fmt.Errorf("csvfile: rewrite header %s: %w", s.path, err)
		}
		return s.headerCopy(), nil, nil
	}
	return records[0], records[1:], nil
}

// Append adds one row at the end of the file. The whole table is rewritten
// through a temp file and renamed into place, so the row is durable before
// Append returns.
func (s *Store) Append(ctx context.Context, row []string) error {
	records, err := s.readRecords()
	if errors.Is(err, fs.ErrNotExist) || (err == nil && len(records) == 0) {
		records = [][]string{s.header}
	} else if err != nil {
		return fmt.Errorf("csvfile: read %s: %w", s.path, err)
	}

	records = append(records, row)
	if err := s.writeRecords(records); err != nil {
		return fmt.Errorf("csvfile: write %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) readRecords() ([][]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	// Hand-edited files may have ragged rows; the schema layer pads them.
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func (s *Store) writeRecords(records [][]string) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".bookings-*.csv")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	w := csv.NewWriter(tmp)
	if err := w.WriteAll(records); err != nil {
		tmp.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, s.path)
}

func (s *Store) headerCopy() []string {
	out := make([]string, len(s.header))
	copy(out, s.header)
	return out
}
