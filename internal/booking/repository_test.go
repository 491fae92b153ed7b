package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRowStore is an in-memory RowStore recording appends.
type fakeRowStore struct {
	header  []string
	rows    [][]string
	readErr error
	appErr  error
}

func (f *fakeRowStore) ReadAll(context.Context) ([]string, [][]string, error) {
	if f.readErr != nil {
		return nil, nil, f.readErr
	}
	return f.header, f.rows, nil
}

func (f *fakeRowStore) Append(_ context.Context, row []string) error {
	if f.appErr != nil {
		return f.appErr
	}
	f.rows = append(f.rows, row)
	return nil
}

func TestRepositoryAppendThenLoadRoundTrip(t *testing.T) {
	schema := Canonical()
	store := &fakeRowStore{header: schema.Header()}
	repo := NewRepository(store, schema, nil)

	b := New("Alice", "2024-01-10", "09:00", "Cash")
	require.NoError(t, repo.Append(context.Background(), b))

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Alice", got[0].PatientName)
	assert.Equal(t, "2024-01-10", got[0].ApptDate)
	assert.Equal(t, "09:00", got[0].ApptTime)
	assert.Equal(t, "Cash", got[0].Payment)
	assert.True(t, got[0].DateValid)
}

func TestRepositoryLoadKeepsInsertionOrder(t *testing.T) {
	schema := Canonical()
	store := &fakeRowStore{header: schema.Header()}
	repo := NewRepository(store, schema, nil)

	for _, name := range []string{"Alice", "Bob", "Cara"} {
		require.NoError(t, repo.Append(context.Background(), New(name, "2024-01-10", name+"-slot", "")))
	}

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Alice", got[0].PatientName)
	assert.Equal(t, "Bob", got[1].PatientName)
	assert.Equal(t, "Cara", got[2].PatientName)
}

func TestRepositoryLoadRecoversDriftedHeader(t *testing.T) {
	store := &fakeRowStore{
		header: []string{"Patient Name", "Appointment Date", "Appointment Time (manual)", "Payment"},
		rows:   [][]string{{"Alice", "2024-01-10", "09:00", "Cash"}},
	}
	repo := NewRepository(store, Canonical(), nil)

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Alice", got[0].PatientName)
	assert.Equal(t, "09:00", got[0].ApptTime)
}

func TestRepositoryLoadKeepsDatelessRows(t *testing.T) {
	schema := Canonical()
	store := &fakeRowStore{
		header: schema.Header(),
		rows:   [][]string{{"someday", "Ghost", "09:00", ""}},
	}
	repo := NewRepository(store, schema, nil)

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1, "unparsable dates are kept, not dropped")
	assert.False(t, got[0].DateValid)
	assert.Equal(t, "someday", got[0].ApptDate)
}

func TestRepositoryAppendNotifiesSubscribers(t *testing.T) {
	schema := Canonical()
	store := &fakeRowStore{header: schema.Header()}
	repo := NewRepository(store, schema, nil)

	calls := 0
	repo.Subscribe(func() { calls++ })

	require.NoError(t, repo.Append(context.Background(), New("Alice", "2024-01-10", "09:00", "")))
	assert.Equal(t, 1, calls)
}

func TestRepositoryAppendFailureDoesNotNotify(t *testing.T) {
	schema := Canonical()
	store := &fakeRowStore{header: schema.Header(), appErr: errors.New("backend unavailable")}
	repo := NewRepository(store, schema, nil)

	calls := 0
	repo.Subscribe(func() { calls++ })

	err := repo.Append(context.Background(), New("Alice", "2024-01-10", "09:00", ""))
	require.Error(t, err)
	assert.Zero(t, calls, "no notification without a durable write")
	assert.Empty(t, store.rows)
}

func TestRepositoryLoadWrapsStoreError(t *testing.T) {
	store := &fakeRowStore{readErr: errors.New("network down")}
	repo := NewRepository(store, Canonical(), nil)

	_, err := repo.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read store")
}
