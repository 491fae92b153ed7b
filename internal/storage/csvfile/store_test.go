package csvfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var header = []string{"Appt_Date", "Patient_Name", "Appt_Time", "Payment"}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "bookings.csv"), header)
}

func TestReadAllCreatesMissingFile(t *testing.T) {
	store := newTestStore(t)

	hdr, rows, err := store.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, header, hdr)
	assert.Empty(t, rows)

	// The file now exists with just the header.
	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, "Appt_Date,Patient_Name,Appt_Time,Payment\n", string(data))
}

func TestAppendThenReadAllRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, []string{"2024-01-10", "Alice", "09:00", "Cash"}))
	require.NoError(t, store.Append(ctx, []string{"2024-01-10", "Bob", "10:00", ""}))

	hdr, rows, err := store.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, header, hdr)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"2024-01-10", "Alice", "09:00", "Cash"}, rows[0])
	assert.Equal(t, []string{"2024-01-10", "Bob", "10:00", ""}, rows[1])
}

func TestAppendToMissingFileCreatesHeaderFirst(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Append(context.Background(), []string{"2024-01-10", "Alice", "09:00", ""}))

	hdr, rows, err := store.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, header, hdr)
	require.Len(t, rows, 1)
}

func TestReadAllRestoresTruncatedFile(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.WriteFile(store.Path(), nil, 0o644))

	hdr, rows, err := store.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, header, hdr)
	assert.Empty(t, rows)
}

func TestReadAllToleratesRaggedRows(t *testing.T) {
	store := newTestStore(t)
	raw := "Appt_Date,Patient_Name,Appt_Time,Payment\n2024-01-10,Alice\n"
	require.NoError(t, os.WriteFile(store.Path(), []byte(raw), 0o644))

	_, rows, err := store.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"2024-01-10", "Alice"}, rows[0])
}

func TestReadAllKeepsForeignHeader(t *testing.T) {
	store := newTestStore(t)
	raw := "Patient Name,Appointment Date,Appointment Time (manual),Payment\nAlice,2024-01-10,09:00,Cash\n"
	require.NoError(t, os.WriteFile(store.Path(), []byte(raw), 0o644))

	hdr, rows, err := store.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Patient Name", hdr[0], "an existing store keeps its own layout")
	require.Len(t, rows, 1)
}

func TestAppendPreservesExistingRows(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Append(ctx, []string{"2024-01-09", "Alice", "09:00", ""}))
	require.NoError(t, store.Append(ctx, []string{"2024-01-10", "Bob", "10:00", ""}))

	_, rows, err := store.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Alice", rows[0][1])
	assert.Equal(t, "Bob", rows[1][1])
}
