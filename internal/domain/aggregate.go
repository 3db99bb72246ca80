package domain

// CustomerAggregate holds per-customer summary statistics computed from
// raw transactions. One row per distinct customer_id.
//
// Std fields use the sample standard deviation (N-1 denominator) and are
// nil for customers with exactly one transaction: "insufficient data" and
// "zero spread" are different facts and must stay distinguishable until
// imputation.
type CustomerAggregate struct {
	CustomerID          string
	AmountSum           float64
	AmountMean          float64
	AmountStd           *float64 // NULL if transaction_count == 1
	ValueSum            float64
	ValueMean           float64
	ValueStd            *float64 // NULL if transaction_count == 1
	TransactionCount    int      // always >= 1
	ChannelIDMode       string   // most frequent channel, first-seen wins ties
	ProductCategoryMode string   // most frequent product category, first-seen wins ties
}
