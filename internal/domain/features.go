package domain

// FeatureRow is one encoded row of the model-ready feature matrix.
// Values are ordered exactly as the encoder's fitted column layout;
// the layout is fixed at fit time and identical across all rows.
// Corresponds to the customer_features table in ClickHouse.
type FeatureRow struct {
	CustomerID string
	Values     []float64
}

// LabeledRow is a FeatureRow joined with its proxy risk label.
// Produced by the inner join of encoded features and risk labels on
// customer_id; customers present on only one side are dropped.
type LabeledRow struct {
	CustomerID string
	Values     []float64
	IsHighRisk int
}
