package booking

import (
	"context"
	"fmt"

	"github.com/kawaclinic/appointment-desk/pkg/logging"
)

// RowStore is the narrow interface a persistence backend exposes: read the
// whole table, append one row. Implementations create the store with its
// header row when it does not exist yet.
type RowStore interface {
	ReadAll(ctx context.Context) (header []string, rows [][]string, err error)
	Append(ctx context.Context, row []string) error
}

// Repository loads and appends bookings through a RowStore using a declared
// schema. It is deliberately read-everything-every-time: the table is small
// and a full reload before each validation keeps the core simple.
type Repository struct {
	store     RowStore
	schema    Schema
	logger    *logging.Logger
	listeners []func()
}

// NewRepository creates a repository over the given backend and schema.
func NewRepository(store RowStore, schema Schema, logger *logging.Logger) *Repository {
	if logger == nil {
		logger = logging.Default()
	}
	return &Repository{store: store, schema: schema, logger: logger}
}

// Subscribe registers a change listener invoked after every successful
// append. Listeners must be registered before the repository starts serving.
func (r *Repository) Subscribe(fn func()) {
	r.listeners = append(r.listeners, fn)
}

// Schema returns the repository's declared column layout.
func (r *Repository) Schema() Schema {
	return r.schema
}

// Load reads every persisted row in insertion order. Rows are coerced to the
// four-field shape; a store whose header drifted from the declared schema is
// decoded by column name instead of failing the whole read.
func (r *Repository) Load(ctx context.Context) ([]Booking, error) {
	header, rows, err := r.store.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("booking: read store: %w", err)
	}

	byPosition := r.schema.Matches(header)
	if !byPosition {
		r.logger.Warn("store header does not match declared schema, decoding by column name",
			"schema", r.schema.Name,
			"header", header,
		)
	}

	out := make([]Booking, 0, len(rows))
	for _, row := range rows {
		if byPosition {
			out = append(out, r.schema.Decode(row))
		} else {
			out = append(out, r.schema.DecodeWithHeader(header, row))
		}
	}
	return out, nil
}

// Append durably adds one booking to the end of the store and then notifies
// subscribers. The write has completed when this returns.
func (r *Repository) Append(ctx context.Context, b Booking) error {
	if err := r.store.Append(ctx, r.schema.Encode(b)); err != nil {
		return fmt.Errorf("booking: append row: %w", err)
	}
	r.logger.Info("booking appended",
		"patient", b.PatientName,
		"date", b.ApptDate,
		"time", b.ApptTime,
	)
	for _, fn := range r.listeners {
		fn()
	}
	return nil
}
