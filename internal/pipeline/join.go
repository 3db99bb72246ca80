package pipeline

import "github.com/Lemiti/credit-risk-model/internal/domain"

// InnerJoinLabels joins encoded feature rows with risk labels on
// customer_id. Customers present on only one side are dropped. Output
// order follows the feature rows.
func InnerJoinLabels(rows []domain.FeatureRow, labels []domain.RiskLabel) []domain.LabeledRow {
	labelByCustomer := make(map[string]int, len(labels))
	for _, l := range labels {
		labelByCustomer[l.CustomerID] = l.IsHighRisk
	}

	out := make([]domain.LabeledRow, 0, len(rows))
	for _, row := range rows {
		isHighRisk, ok := labelByCustomer[row.CustomerID]
		if !ok {
			continue
		}
		out = append(out, domain.LabeledRow{
			CustomerID: row.CustomerID,
			Values:     row.Values,
			IsHighRisk: isHighRisk,
		})
	}
	return out
}
