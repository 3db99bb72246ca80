package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Lemiti/credit-risk-model/internal/domain"
	"github.com/Lemiti/credit-risk-model/internal/storage"
)

func TestTransactionStore_InsertAndGetAll(t *testing.T) {
	store := NewTransactionStore()
	ctx := context.Background()

	tx := &domain.Transaction{
		TransactionID: "T1",
		CustomerID:    "C1",
		Amount:        1000,
		Value:         1000,
		ChannelID:     "ChannelId_3",
		StartTime:     time.Date(2018, 11, 15, 2, 18, 49, 0, time.UTC),
	}

	if err := store.Insert(ctx, tx); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	all, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 1 || all[0].Amount != 1000 {
		t.Errorf("unexpected result: %+v", all)
	}
}

func TestTransactionStore_DuplicateKey(t *testing.T) {
	store := NewTransactionStore()
	ctx := context.Background()

	tx := &domain.Transaction{TransactionID: "T1", CustomerID: "C1"}
	if err := store.Insert(ctx, tx); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.Insert(ctx, tx)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestTransactionStore_InsertBulkAtomicOnIntraBatchDuplicate(t *testing.T) {
	store := NewTransactionStore()
	ctx := context.Background()

	err := store.InsertBulk(ctx, []*domain.Transaction{
		{TransactionID: "T1", CustomerID: "C1"},
		{TransactionID: "T1", CustomerID: "C1"},
	})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("Expected ErrDuplicateKey, got %v", err)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("failed bulk insert should store nothing, got %d rows", count)
	}
}

func TestTransactionStore_GetAllOrdering(t *testing.T) {
	store := NewTransactionStore()
	ctx := context.Background()

	base := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	err := store.InsertBulk(ctx, []*domain.Transaction{
		{TransactionID: "T3", CustomerID: "C1", StartTime: base.Add(2 * time.Hour)},
		{TransactionID: "T1", CustomerID: "C1", StartTime: base},
		{TransactionID: "T2", CustomerID: "C1", StartTime: base.Add(time.Hour)},
	})
	if err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	all, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	for i, want := range []string{"T1", "T2", "T3"} {
		if all[i].TransactionID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, all[i].TransactionID)
		}
	}
}

func TestTransactionStore_GetByCustomerID(t *testing.T) {
	store := NewTransactionStore()
	ctx := context.Background()

	_ = store.InsertBulk(ctx, []*domain.Transaction{
		{TransactionID: "T1", CustomerID: "C1"},
		{TransactionID: "T2", CustomerID: "C2"},
		{TransactionID: "T3", CustomerID: "C1"},
	})

	txs, err := store.GetByCustomerID(ctx, "C1")
	if err != nil {
		t.Fatalf("GetByCustomerID failed: %v", err)
	}
	if len(txs) != 2 {
		t.Errorf("expected 2 transactions for C1, got %d", len(txs))
	}
}

func TestTransactionStore_ReturnsCopies(t *testing.T) {
	store := NewTransactionStore()
	ctx := context.Background()

	_ = store.Insert(ctx, &domain.Transaction{TransactionID: "T1", CustomerID: "C1", Amount: 5})

	all, _ := store.GetAll(ctx)
	all[0].Amount = 999

	again, _ := store.GetAll(ctx)
	if again[0].Amount != 5 {
		t.Error("mutating a returned row leaked into the store")
	}
}
