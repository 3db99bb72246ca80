package reporting

import "time"

// Report represents the training run report structure.
type Report struct {
	// Metadata
	GeneratedAt time.Time

	// Data Summary
	DataSummary DataSummary

	// Segmentation (sorted by cluster index)
	ClusterSummaries []ClusterSummaryRow

	// Candidate model metrics (sorted by model name)
	ModelMetrics []ModelMetricRow

	// Feature names surviving importance selection, in column order
	SelectedFeatures []string

	// Reproducibility
	Reproducibility Reproducibility
}

// DataSummary describes the ingested data and the label distribution.
type DataSummary struct {
	TotalTransactions int
	TotalCustomers    int
	DateRangeStart    time.Time
	DateRangeEnd      time.Time
	HighRiskCustomers int
	HighRiskRate      float64
	UnseenCategories  int
}

// ClusterSummaryRow summarizes one RFM cluster.
type ClusterSummaryRow struct {
	Cluster       int
	Customers     int
	MeanRecency   float64
	MeanFrequency float64
	MeanMonetary  float64
	HighRisk      bool
}

// ModelMetricRow represents one candidate model's holdout metrics.
type ModelMetricRow struct {
	ModelName string
	Accuracy  float64
	Precision float64
	Recall    float64
	F1        float64
	ROCAUC    float64
	Selected  bool
}

// Reproducibility pins everything needed to rerun a training run
// bit-for-bit.
type Reproducibility struct {
	Seed          int64
	DataVersion   string
	ArtifactID    string
	ReplayCommand string
}
