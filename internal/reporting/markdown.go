package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Training Run Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))

	// Data Summary
	sb.WriteString("## Data Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total Transactions | %d |\n", r.DataSummary.TotalTransactions))
	sb.WriteString(fmt.Sprintf("| Total Customers | %d |\n", r.DataSummary.TotalCustomers))
	if !r.DataSummary.DateRangeStart.IsZero() {
		sb.WriteString(fmt.Sprintf("| Date Range Start | %s |\n", r.DataSummary.DateRangeStart.Format(time.RFC3339)))
		sb.WriteString(fmt.Sprintf("| Date Range End | %s |\n", r.DataSummary.DateRangeEnd.Format(time.RFC3339)))
	}
	sb.WriteString(fmt.Sprintf("| High-Risk Customers | %d |\n", r.DataSummary.HighRiskCustomers))
	sb.WriteString(fmt.Sprintf("| High-Risk Rate | %.4f |\n", r.DataSummary.HighRiskRate))
	sb.WriteString(fmt.Sprintf("| Unseen Categories | %d |\n", r.DataSummary.UnseenCategories))
	sb.WriteString("\n")

	// Cluster Summaries
	sb.WriteString("## RFM Clusters\n\n")
	if len(r.ClusterSummaries) > 0 {
		sb.WriteString("| Cluster | Customers | Mean Recency | Mean Frequency | Mean Monetary | High Risk |\n")
		sb.WriteString("|---------|-----------|--------------|----------------|---------------|----------|\n")
		for _, c := range r.ClusterSummaries {
			risk := "no"
			if c.HighRisk {
				risk = "yes"
			}
			sb.WriteString(fmt.Sprintf("| %d | %d | %.2f | %.2f | %.2f | %s |\n",
				c.Cluster, c.Customers, c.MeanRecency, c.MeanFrequency, c.MeanMonetary, risk))
		}
	} else {
		sb.WriteString("No cluster summaries available.\n")
	}
	sb.WriteString("\n")

	// Model Metrics
	sb.WriteString("## Model Metrics\n\n")
	if len(r.ModelMetrics) > 0 {
		sb.WriteString("| Model | Accuracy | Precision | Recall | F1 | ROC-AUC | Selected |\n")
		sb.WriteString("|-------|----------|-----------|--------|----|---------|----------|\n")
		for _, m := range r.ModelMetrics {
			selected := ""
			if m.Selected {
				selected = "yes"
			}
			sb.WriteString(fmt.Sprintf("| %s | %.4f | %.4f | %.4f | %.4f | %.4f | %s |\n",
				m.ModelName, m.Accuracy, m.Precision, m.Recall, m.F1, m.ROCAUC, selected))
		}
	} else {
		sb.WriteString("No model metrics available.\n")
	}
	sb.WriteString("\n")

	// Selected Features
	sb.WriteString("## Selected Features\n\n")
	if len(r.SelectedFeatures) > 0 {
		for _, name := range r.SelectedFeatures {
			sb.WriteString(fmt.Sprintf("- %s\n", name))
		}
	} else {
		sb.WriteString("No features selected.\n")
	}
	sb.WriteString("\n")

	// Reproducibility
	sb.WriteString("## Reproducibility\n\n")
	sb.WriteString("| Field | Value |\n")
	sb.WriteString("|-------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Seed | %d |\n", r.Reproducibility.Seed))
	sb.WriteString(fmt.Sprintf("| Data Version | %s |\n", r.Reproducibility.DataVersion))
	sb.WriteString(fmt.Sprintf("| Artifact ID | %s |\n", r.Reproducibility.ArtifactID))
	if r.Reproducibility.ReplayCommand != "" {
		sb.WriteString(fmt.Sprintf("| Replay | `%s` |\n", r.Reproducibility.ReplayCommand))
	}
	sb.WriteString("\n")

	return sb.String()
}
