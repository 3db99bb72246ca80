package domain

// RFMRecord holds the Recency/Frequency/Monetary summary for one
// customer, measured against a single global snapshot date
// (max observed transaction timestamp + 1 day).
type RFMRecord struct {
	CustomerID string
	Recency    int     // whole days since the customer's latest transaction, >= 0
	Frequency  int     // transaction count
	Monetary   float64 // sum of signed amounts
}

// RiskLabel is the proxy training target derived from clustering RFM
// records. There is no observed default outcome; membership in the
// least-recently-active cluster stands in for "high risk".
type RiskLabel struct {
	CustomerID string
	Cluster    int // k-means cluster index, 0..2
	IsHighRisk int // 1 if member of the max-mean-recency cluster, else 0
}
