package postgres

import (
	"context"
	"fmt"

	"github.com/Lemiti/credit-risk-model/internal/domain"
	"github.com/Lemiti/credit-risk-model/internal/storage"
)

// RiskLabelStore implements storage.RiskLabelStore using PostgreSQL.
type RiskLabelStore struct {
	pool *Pool
}

// NewRiskLabelStore creates a new RiskLabelStore.
func NewRiskLabelStore(pool *Pool) *RiskLabelStore {
	return &RiskLabelStore{pool: pool}
}

var _ storage.RiskLabelStore = (*RiskLabelStore)(nil)

// ReplaceAll atomically replaces the stored label set. Labels are
// recomputed from scratch on every pipeline run, so stale rows from
// a previous run must not survive.
func (s *RiskLabelStore) ReplaceAll(ctx context.Context, labels []*domain.RiskLabel) error {
	dbTx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer dbTx.Rollback(ctx)

	if _, err := dbTx.Exec(ctx, `TRUNCATE TABLE risk_labels`); err != nil {
		return fmt.Errorf("truncate risk_labels: %w", err)
	}

	seen := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		if label == nil || label.CustomerID == "" {
			return storage.ErrInvalidInput
		}
		if _, ok := seen[label.CustomerID]; ok {
			return storage.ErrDuplicateKey
		}
		seen[label.CustomerID] = struct{}{}

		_, err := dbTx.Exec(ctx,
			`INSERT INTO risk_labels (customer_id, cluster, is_high_risk) VALUES ($1, $2, $3)`,
			label.CustomerID, label.Cluster, label.IsHighRisk,
		)
		if err != nil {
			return fmt.Errorf("insert risk label %s: %w", label.CustomerID, err)
		}
	}

	if err := dbTx.Commit(ctx); err != nil {
		return fmt.Errorf("commit risk labels: %w", err)
	}
	return nil
}

// GetAll retrieves every risk label, ordered by customer_id ASC.
func (s *RiskLabelStore) GetAll(ctx context.Context) ([]*domain.RiskLabel, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT customer_id, cluster, is_high_risk FROM risk_labels ORDER BY customer_id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query risk labels: %w", err)
	}
	defer rows.Close()

	var out []*domain.RiskLabel
	for rows.Next() {
		label := &domain.RiskLabel{}
		if err := rows.Scan(&label.CustomerID, &label.Cluster, &label.IsHighRisk); err != nil {
			return nil, fmt.Errorf("scan risk label: %w", err)
		}
		out = append(out, label)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate risk labels: %w", err)
	}
	return out, nil
}
