package features

import "github.com/Lemiti/credit-risk-model/internal/domain"

// DecomposeDatetime expands each transaction's timestamp into calendar
// parts (hour, day, month, year) and drops the timestamp itself. The
// input slice is not mutated; the result is a fresh slice in input order.
//
// Timestamps are already parsed at ingest time, so this transform cannot
// fail: malformed timestamps abort the batch before reaching this stage.
func DecomposeDatetime(txs []domain.Transaction) []domain.DecomposedTransaction {
	out := make([]domain.DecomposedTransaction, len(txs))
	for i, tx := range txs {
		ts := tx.StartTime.UTC()
		out[i] = domain.DecomposedTransaction{
			TransactionID:   tx.TransactionID,
			CustomerID:      tx.CustomerID,
			Amount:          tx.Amount,
			Value:           tx.Value,
			ChannelID:       tx.ChannelID,
			ProductCategory: tx.ProductCategory,
			Hour:            ts.Hour(),
			Day:             ts.Day(),
			Month:           int(ts.Month()),
			Year:            ts.Year(),
		}
	}
	return out
}
