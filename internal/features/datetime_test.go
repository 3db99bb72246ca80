package features

import (
	"testing"
	"time"

	"github.com/Lemiti/credit-risk-model/internal/domain"
)

func TestDecomposeDatetime_CalendarParts(t *testing.T) {
	txs := []domain.Transaction{
		{
			TransactionID: "t1",
			CustomerID:    "c1",
			Amount:        100,
			StartTime:     time.Date(2018, 11, 15, 2, 18, 49, 0, time.UTC),
		},
	}

	out := DecomposeDatetime(txs)

	if len(out) != 1 {
		t.Fatalf("expected 1 row, got %d", len(out))
	}
	if out[0].Hour != 2 {
		t.Errorf("expected hour 2, got %d", out[0].Hour)
	}
	if out[0].Day != 15 {
		t.Errorf("expected day 15, got %d", out[0].Day)
	}
	if out[0].Month != 11 {
		t.Errorf("expected month 11, got %d", out[0].Month)
	}
	if out[0].Year != 2018 {
		t.Errorf("expected year 2018, got %d", out[0].Year)
	}
}

func TestDecomposeDatetime_NormalizesToUTC(t *testing.T) {
	// 23:30 at UTC+3 is 20:30 UTC on the same day
	loc := time.FixedZone("UTC+3", 3*60*60)
	txs := []domain.Transaction{
		{TransactionID: "t1", StartTime: time.Date(2019, 1, 10, 23, 30, 0, 0, loc)},
	}

	out := DecomposeDatetime(txs)

	if out[0].Hour != 20 {
		t.Errorf("expected hour 20 (UTC), got %d", out[0].Hour)
	}
	if out[0].Day != 10 {
		t.Errorf("expected day 10, got %d", out[0].Day)
	}
}

func TestDecomposeDatetime_DoesNotMutateInput(t *testing.T) {
	ts := time.Date(2019, 3, 1, 12, 0, 0, 0, time.UTC)
	txs := []domain.Transaction{
		{TransactionID: "t1", Amount: 50, StartTime: ts},
	}

	_ = DecomposeDatetime(txs)

	if !txs[0].StartTime.Equal(ts) {
		t.Error("input timestamp was mutated")
	}
	if txs[0].Amount != 50 {
		t.Error("input amount was mutated")
	}
}

func TestDecomposeDatetime_PreservesRowOrder(t *testing.T) {
	txs := []domain.Transaction{
		{TransactionID: "t1", StartTime: time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)},
		{TransactionID: "t2", StartTime: time.Date(2019, 1, 2, 0, 0, 0, 0, time.UTC)},
		{TransactionID: "t3", StartTime: time.Date(2019, 1, 3, 0, 0, 0, 0, time.UTC)},
	}

	out := DecomposeDatetime(txs)

	for i, want := range []string{"t1", "t2", "t3"} {
		if out[i].TransactionID != want {
			t.Errorf("row %d: expected %s, got %s", i, want, out[i].TransactionID)
		}
	}
}
