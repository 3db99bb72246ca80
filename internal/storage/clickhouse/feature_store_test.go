package clickhouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lemiti/credit-risk-model/internal/domain"
	"github.com/Lemiti/credit-risk-model/internal/storage"
)

func TestCustomerFeatureStore_ReplaceAllAndGetAll(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewCustomerFeatureStore(conn)

	columns := []string{"amount_sum", "amount_mean", "channel_id=web"}
	rows := []*domain.FeatureRow{
		{CustomerID: "cust-b", Values: []float64{10, 5, 1}},
		{CustomerID: "cust-a", Values: []float64{20, 10, 0}},
	}

	err := store.ReplaceAll(ctx, columns, rows)
	require.NoError(t, err)

	gotCols, gotRows, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, columns, gotCols)
	require.Len(t, gotRows, 2)

	// Rows come back ordered by customer_id.
	assert.Equal(t, "cust-a", gotRows[0].CustomerID)
	assert.Equal(t, []float64{20, 10, 0}, gotRows[0].Values)
	assert.Equal(t, "cust-b", gotRows[1].CustomerID)
	assert.Equal(t, []float64{10, 5, 1}, gotRows[1].Values)
}

func TestCustomerFeatureStore_ReplaceAllSwapsLayout(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewCustomerFeatureStore(conn)

	err := store.ReplaceAll(ctx, []string{"a", "b"}, []*domain.FeatureRow{
		{CustomerID: "cust-1", Values: []float64{1, 2}},
	})
	require.NoError(t, err)

	// Second run with a wider layout replaces columns and rows together.
	err = store.ReplaceAll(ctx, []string{"a", "b", "c"}, []*domain.FeatureRow{
		{CustomerID: "cust-2", Values: []float64{3, 4, 5}},
	})
	require.NoError(t, err)

	cols, rows, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, cols)
	require.Len(t, rows, 1)
	assert.Equal(t, "cust-2", rows[0].CustomerID)
}

func TestCustomerFeatureStore_ReplaceAllValidation(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewCustomerFeatureStore(conn)

	// Ragged row.
	err := store.ReplaceAll(ctx, []string{"a", "b"}, []*domain.FeatureRow{
		{CustomerID: "cust-1", Values: []float64{1}},
	})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)

	// Duplicate customer within the batch.
	err = store.ReplaceAll(ctx, []string{"a"}, []*domain.FeatureRow{
		{CustomerID: "cust-1", Values: []float64{1}},
		{CustomerID: "cust-1", Values: []float64{2}},
	})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	// Empty column layout.
	err = store.ReplaceAll(ctx, nil, nil)
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}
