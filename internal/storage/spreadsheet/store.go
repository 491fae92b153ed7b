// Package spreadsheet persists the bookings table in a Google Sheets
// spreadsheet through the Sheets values API.
package spreadsheet

import (
	"context"
	"fmt"

	"github.com/kawaclinic/appointment-desk/pkg/logging"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// ValuesAPI is the subset of the Sheets values API used by Store.
// Implementations can be swapped for a fake in tests.
type ValuesAPI interface {
	Get(ctx context.Context, spreadsheetID, readRange string) (*sheets.ValueRange, error)
	Append(ctx context.Context, spreadsheetID, writeRange string, vr *sheets.ValueRange) error
}

// Store reads and appends rows of one sheet range. Credentials come from the
// ambient Google application default credentials; there is no retry or
// timeout policy here, a network failure fails the current operation.
type Store struct {
	api           ValuesAPI
	spreadsheetID string
	readRange     string
	header        []string
	logger        *logging.Logger
}

// New builds a Store backed by the real Sheets service.
func New(ctx context.Context, spreadsheetID, readRange string, header []string, logger *logging.Logger, opts ...option.ClientOption) (*Store, error) {
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("spreadsheet: create sheets service: %w", err)
	}
	return NewWithAPI(&sheetsValues{svc: svc}, spreadsheetID, readRange, header, logger), nil
}

// NewWithAPI builds a Store over any ValuesAPI. Used by tests.
func NewWithAPI(api ValuesAPI, spreadsheetID, readRange string, header []string, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.Default()
	}
	h := make([]string, len(header))
	copy(h, header)
	return &Store{
		api:           api,
		spreadsheetID: spreadsheetID,
		readRange:     readRange,
		header:        h,
		logger:        logger,
	}
}

// ReadAll returns the header row and all data rows of the range. An empty
// sheet gets the header appended so later reads see the canonical layout.
func (s *Store) ReadAll(ctx context.Context) ([]string, [][]string, error) {
	vr, err := s.api.Get(ctx, s.spreadsheetID, s.readRange)
	if err != nil {
		return nil, nil, fmt.Errorf("spreadsheet: read %s: %w", s.readRange, err)
	}

	if len(vr.Values) == 0 {
		s.logger.Info("sheet range empty, writing header row",
			"spreadsheet_id", s.spreadsheetID,
			"range", s.readRange,
		)
		if err := s.Append(ctx, s.header); err != nil {
			return nil, nil, err
		}
		out := make([]string, len(s.header))
		copy(out, s.header)
		return out, nil, nil
	}

	header := cellsToStrings(vr.Values[0])
	rows := make([][]string, 0, len(vr.Values)-1)
	for _, raw := range vr.Values[1:] {
		rows = append(rows, cellsToStrings(raw))
	}
	return header, rows, nil
}

// Append adds one row after the last row of the range.
func (s *Store) Append(ctx context.Context, row []string) error {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	vr := &sheets.ValueRange{Values: [][]interface{}{cells}}
	if err := s.api.Append(ctx, s.spreadsheetID, s.readRange, vr); err != nil {
		return fmt.Errorf("spreadsheet: append to %s: %w", s.readRange, err)
	}
	return nil
}

// cellsToStrings flattens one sheet row; the API returns untyped cells.
func cellsToStrings(raw []interface{}) []string {
	out := make([]string, len(raw))
	for i, cell := range raw {
		if cell == nil {
			continue
		}
		if str, ok := cell.(string); ok {
			out[i] = str
			continue
		}
		out[i] = fmt.Sprint(cell)
	}
	return out
}

// sheetsValues adapts *sheets.Service to ValuesAPI.
type sheetsValues struct {
	svc *sheets.Service
}

func (v *sheetsValues) Get(ctx context.Context, spreadsheetID, readRange string) (*sheets.ValueRange, error) {
	return v.svc.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
}

func (v *sheetsValues) Append(ctx context.Context, spreadsheetID, writeRange string, vr *sheets.ValueRange) error {
	_, err := v.svc.Spreadsheets.Values.Append(spreadsheetID, writeRange, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}
