package reporting

import (
	"fmt"
	"strings"

	"github.com/Lemiti/credit-risk-model/internal/domain"
)

// RenderFeatureCSV renders the encoded feature matrix as CSV string.
func RenderFeatureCSV(columns []string, rows []*domain.FeatureRow) string {
	var sb strings.Builder

	sb.WriteString("customer_id," + strings.Join(columns, ",") + "\n")

	for _, row := range rows {
		sb.WriteString(row.CustomerID)
		for _, v := range row.Values {
			sb.WriteString(fmt.Sprintf(",%.6f", v))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// RenderLabeledCSV renders the labeled training matrix as CSV string.
// The label column comes last.
func RenderLabeledCSV(columns []string, rows []*domain.LabeledRow) string {
	var sb strings.Builder

	sb.WriteString("customer_id," + strings.Join(columns, ",") + ",is_high_risk\n")

	for _, row := range rows {
		sb.WriteString(row.CustomerID)
		for _, v := range row.Values {
			sb.WriteString(fmt.Sprintf(",%.6f", v))
		}
		sb.WriteString(fmt.Sprintf(",%d\n", row.IsHighRisk))
	}

	return sb.String()
}

// RenderMetricsCSV renders candidate model metrics as CSV string.
func RenderMetricsCSV(metrics []ModelMetricRow) string {
	var sb strings.Builder

	sb.WriteString("model,accuracy,precision,recall,f1,roc_auc,selected\n")

	for _, m := range metrics {
		selected := 0
		if m.Selected {
			selected = 1
		}
		sb.WriteString(fmt.Sprintf("%s,%.6f,%.6f,%.6f,%.6f,%.6f,%d\n",
			m.ModelName, m.Accuracy, m.Precision, m.Recall, m.F1, m.ROCAUC, selected))
	}

	return sb.String()
}
