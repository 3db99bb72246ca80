package reporting

import (
	"fmt"
	"sort"
	"time"

	"github.com/Lemiti/credit-risk-model/internal/domain"
)

// RunInput carries everything a training run produced that the report
// summarizes.
type RunInput struct {
	Transactions     []*domain.Transaction
	RFM              []*domain.RFMRecord
	Labels           []*domain.RiskLabel
	ModelMetrics     []ModelMetricRow
	SelectedFeatures []string
	UnseenCategories int
	Reproducibility  Reproducibility
}

// BuildReport assembles a Report from a completed run. RFM records and
// labels are joined by customer_id; customers missing from either side
// are skipped in the cluster summaries.
func BuildReport(in RunInput, now time.Time) (*Report, error) {
	if len(in.Labels) == 0 {
		return nil, fmt.Errorf("build report: no risk labels")
	}

	report := &Report{
		GeneratedAt:      now.UTC(),
		ModelMetrics:     sortedMetrics(in.ModelMetrics),
		SelectedFeatures: in.SelectedFeatures,
		Reproducibility:  in.Reproducibility,
	}

	report.DataSummary = buildDataSummary(in)
	report.ClusterSummaries = buildClusterSummaries(in.RFM, in.Labels)

	return report, nil
}

func buildDataSummary(in RunInput) DataSummary {
	summary := DataSummary{
		TotalTransactions: len(in.Transactions),
		TotalCustomers:    len(in.Labels),
		UnseenCategories:  in.UnseenCategories,
	}

	for _, tx := range in.Transactions {
		if summary.DateRangeStart.IsZero() || tx.StartTime.Before(summary.DateRangeStart) {
			summary.DateRangeStart = tx.StartTime
		}
		if tx.StartTime.After(summary.DateRangeEnd) {
			summary.DateRangeEnd = tx.StartTime
		}
	}

	for _, label := range in.Labels {
		if label.IsHighRisk == 1 {
			summary.HighRiskCustomers++
		}
	}
	if summary.TotalCustomers > 0 {
		summary.HighRiskRate = float64(summary.HighRiskCustomers) / float64(summary.TotalCustomers)
	}

	return summary
}

func buildClusterSummaries(rfm []*domain.RFMRecord, labels []*domain.RiskLabel) []ClusterSummaryRow {
	rfmByCustomer := make(map[string]*domain.RFMRecord, len(rfm))
	for _, rec := range rfm {
		rfmByCustomer[rec.CustomerID] = rec
	}

	type accumulator struct {
		count     int
		recency   float64
		frequency float64
		monetary  float64
		highRisk  bool
	}
	byCluster := make(map[int]*accumulator)

	for _, label := range labels {
		rec, ok := rfmByCustomer[label.CustomerID]
		if !ok {
			continue
		}
		acc, ok := byCluster[label.Cluster]
		if !ok {
			acc = &accumulator{}
			byCluster[label.Cluster] = acc
		}
		acc.count++
		acc.recency += float64(rec.Recency)
		acc.frequency += float64(rec.Frequency)
		acc.monetary += rec.Monetary
		if label.IsHighRisk == 1 {
			acc.highRisk = true
		}
	}

	clusters := make([]int, 0, len(byCluster))
	for cluster := range byCluster {
		clusters = append(clusters, cluster)
	}
	sort.Ints(clusters)

	rows := make([]ClusterSummaryRow, 0, len(clusters))
	for _, cluster := range clusters {
		acc := byCluster[cluster]
		n := float64(acc.count)
		rows = append(rows, ClusterSummaryRow{
			Cluster:       cluster,
			Customers:     acc.count,
			MeanRecency:   acc.recency / n,
			MeanFrequency: acc.frequency / n,
			MeanMonetary:  acc.monetary / n,
			HighRisk:      acc.highRisk,
		})
	}
	return rows
}

func sortedMetrics(metrics []ModelMetricRow) []ModelMetricRow {
	out := make([]ModelMetricRow, len(metrics))
	copy(out, metrics)
	sort.Slice(out, func(i, j int) bool {
		return out[i].ModelName < out[j].ModelName
	})
	return out
}
