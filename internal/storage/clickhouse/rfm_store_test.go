package clickhouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lemiti/credit-risk-model/internal/domain"
	"github.com/Lemiti/credit-risk-model/internal/storage"
)

func TestRFMStore_ReplaceAllAndGetAll(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewRFMStore(conn)

	err := store.ReplaceAll(ctx, []*domain.RFMRecord{
		{CustomerID: "cust-b", Recency: 30, Frequency: 2, Monetary: 150.5},
		{CustomerID: "cust-a", Recency: 1, Frequency: 10, Monetary: 900},
	})
	require.NoError(t, err)

	records, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "cust-a", records[0].CustomerID)
	assert.Equal(t, 1, records[0].Recency)
	assert.Equal(t, 10, records[0].Frequency)
	assert.InDelta(t, 900.0, records[0].Monetary, 1e-9)

	assert.Equal(t, "cust-b", records[1].CustomerID)
	assert.InDelta(t, 150.5, records[1].Monetary, 1e-9)
}

func TestRFMStore_ReplaceAllSwapsContents(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewRFMStore(conn)

	err := store.ReplaceAll(ctx, []*domain.RFMRecord{
		{CustomerID: "cust-1", Recency: 5, Frequency: 1, Monetary: 10},
	})
	require.NoError(t, err)

	err = store.ReplaceAll(ctx, []*domain.RFMRecord{
		{CustomerID: "cust-2", Recency: 7, Frequency: 3, Monetary: 20},
	})
	require.NoError(t, err)

	records, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "cust-2", records[0].CustomerID)
}

func TestRFMStore_ReplaceAllDuplicateCustomer(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewRFMStore(conn)

	err := store.ReplaceAll(ctx, []*domain.RFMRecord{
		{CustomerID: "cust-1", Recency: 5, Frequency: 1, Monetary: 10},
		{CustomerID: "cust-1", Recency: 6, Frequency: 2, Monetary: 20},
	})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}
