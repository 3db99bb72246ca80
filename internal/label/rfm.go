package label

import (
	"errors"
	"time"

	"github.com/Lemiti/credit-risk-model/internal/domain"
)

// ErrEmptyInput is returned when RFM features are requested for zero
// transactions: no snapshot date is derivable from an empty batch.
var ErrEmptyInput = errors.New("rfm: no transactions to summarize")

// BuildRFM computes per-customer Recency/Frequency/Monetary statistics.
// The snapshot date is global: max observed transaction timestamp plus
// one day, so recency >= 0 holds for every customer by construction
// (the most recently active customer has recency 1).
func BuildRFM(txs []domain.Transaction) ([]domain.RFMRecord, error) {
	if len(txs) == 0 {
		return nil, ErrEmptyInput
	}

	var maxTime time.Time
	for _, tx := range txs {
		if tx.StartTime.After(maxTime) {
			maxTime = tx.StartTime
		}
	}
	snapshot := maxTime.Add(24 * time.Hour)

	type rfmAccum struct {
		latest   time.Time
		count    int
		monetary float64
	}
	groups := make(map[string]*rfmAccum)
	order := make([]string, 0)
	for _, tx := range txs {
		acc, ok := groups[tx.CustomerID]
		if !ok {
			acc = &rfmAccum{}
			groups[tx.CustomerID] = acc
			order = append(order, tx.CustomerID)
		}
		if tx.StartTime.After(acc.latest) {
			acc.latest = tx.StartTime
		}
		acc.count++
		acc.monetary += tx.Amount
	}

	out := make([]domain.RFMRecord, 0, len(order))
	for _, customerID := range order {
		acc := groups[customerID]
		out = append(out, domain.RFMRecord{
			CustomerID: customerID,
			Recency:    int(snapshot.Sub(acc.latest).Hours() / 24),
			Frequency:  acc.count,
			Monetary:   acc.monetary,
		})
	}
	return out, nil
}
