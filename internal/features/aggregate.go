package features

import (
	"github.com/Lemiti/credit-risk-model/internal/domain"

	"gonum.org/v1/gonum/stat"
)

// AggregateByCustomer groups transactions by customer_id and computes
// per-customer summary statistics:
//
//   - amount/value: sum, mean, sample standard deviation (N-1). Std is
//     nil for single-transaction customers, never coerced to 0.
//   - transaction_count: exact group row count.
//   - channel_id / product_category: mode, with ties broken by the value
//     first encountered in input order.
//
// Output rows are keyed by customer_id; their order carries no meaning
// and downstream joins must not rely on it. The row count always equals
// the number of distinct customer_ids in the input.
func AggregateByCustomer(txs []domain.DecomposedTransaction) []domain.CustomerAggregate {
	groups := make(map[string][]domain.DecomposedTransaction)
	order := make([]string, 0)
	for _, tx := range txs {
		if _, seen := groups[tx.CustomerID]; !seen {
			order = append(order, tx.CustomerID)
		}
		groups[tx.CustomerID] = append(groups[tx.CustomerID], tx)
	}

	out := make([]domain.CustomerAggregate, 0, len(order))
	for _, customerID := range order {
		group := groups[customerID]

		amounts := make([]float64, len(group))
		values := make([]float64, len(group))
		channels := make([]string, len(group))
		products := make([]string, len(group))
		for i, tx := range group {
			amounts[i] = tx.Amount
			values[i] = tx.Value
			channels[i] = tx.ChannelID
			products[i] = tx.ProductCategory
		}

		agg := domain.CustomerAggregate{
			CustomerID:          customerID,
			AmountSum:           sum(amounts),
			AmountMean:          stat.Mean(amounts, nil),
			ValueSum:            sum(values),
			ValueMean:           stat.Mean(values, nil),
			TransactionCount:    len(group),
			ChannelIDMode:       mode(channels),
			ProductCategoryMode: mode(products),
		}

		// Sample std is undefined for a single observation.
		if len(group) > 1 {
			amountStd := stat.StdDev(amounts, nil)
			valueStd := stat.StdDev(values, nil)
			agg.AmountStd = &amountStd
			agg.ValueStd = &valueStd
		}

		out = append(out, agg)
	}
	return out
}

func sum(xs []float64) float64 {
	total := 0.0
	for _, x := range xs {
		total += x
	}
	return total
}

// mode returns the most frequent value; ties break to the value first
// encountered in input order.
func mode(values []string) string {
	if len(values) == 0 {
		return ""
	}
	counts := make(map[string]int, len(values))
	firstSeen := make(map[string]int, len(values))
	for i, v := range values {
		if _, seen := firstSeen[v]; !seen {
			firstSeen[v] = i
		}
		counts[v]++
	}
	best := values[0]
	for v, c := range counts {
		if c > counts[best] || (c == counts[best] && firstSeen[v] < firstSeen[best]) {
			best = v
		}
	}
	return best
}
