package clickhouse

import (
	"context"
	"fmt"

	"github.com/Lemiti/credit-risk-model/internal/domain"
	"github.com/Lemiti/credit-risk-model/internal/storage"
)

// CustomerFeatureStore implements storage.CustomerFeatureStore using
// ClickHouse. The column layout lives in feature_columns and the matrix
// rows in customer_features; both are replaced together on every run.
type CustomerFeatureStore struct {
	conn *Conn
}

// NewCustomerFeatureStore creates a new CustomerFeatureStore.
func NewCustomerFeatureStore(conn *Conn) *CustomerFeatureStore {
	return &CustomerFeatureStore{conn: conn}
}

// Compile-time interface check.
var _ storage.CustomerFeatureStore = (*CustomerFeatureStore)(nil)

// ReplaceAll swaps the stored matrix for the given column layout and rows.
// ClickHouse has no multi-statement transactions, so a failure mid-replace
// can leave the store empty; callers rerun the pipeline to repopulate.
func (s *CustomerFeatureStore) ReplaceAll(ctx context.Context, columns []string, rows []*domain.FeatureRow) error {
	if len(columns) == 0 {
		return storage.ErrInvalidInput
	}

	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		if row == nil || row.CustomerID == "" {
			return storage.ErrInvalidInput
		}
		if len(row.Values) != len(columns) {
			return fmt.Errorf("%w: row %s has %d values, want %d",
				storage.ErrInvalidInput, row.CustomerID, len(row.Values), len(columns))
		}
		if _, ok := seen[row.CustomerID]; ok {
			return storage.ErrDuplicateKey
		}
		seen[row.CustomerID] = struct{}{}
	}

	if err := s.conn.Exec(ctx, `TRUNCATE TABLE feature_columns`); err != nil {
		return fmt.Errorf("truncate feature_columns: %w", err)
	}
	if err := s.conn.Exec(ctx, `TRUNCATE TABLE customer_features`); err != nil {
		return fmt.Errorf("truncate customer_features: %w", err)
	}

	colBatch, err := s.conn.PrepareBatch(ctx, `INSERT INTO feature_columns (position, name)`)
	if err != nil {
		return fmt.Errorf("prepare column batch: %w", err)
	}
	for i, name := range columns {
		if err := colBatch.Append(uint32(i), name); err != nil {
			return fmt.Errorf("append column %s: %w", name, err)
		}
	}
	if err := colBatch.Send(); err != nil {
		return fmt.Errorf("send column batch: %w", err)
	}

	if len(rows) == 0 {
		return nil
	}

	rowBatch, err := s.conn.PrepareBatch(ctx, `INSERT INTO customer_features (customer_id, vals)`)
	if err != nil {
		return fmt.Errorf("prepare row batch: %w", err)
	}
	for _, row := range rows {
		if err := rowBatch.Append(row.CustomerID, row.Values); err != nil {
			return fmt.Errorf("append row %s: %w", row.CustomerID, err)
		}
	}
	if err := rowBatch.Send(); err != nil {
		return fmt.Errorf("send row batch: %w", err)
	}

	return nil
}

// GetAll retrieves the column layout and all rows, ordered by customer_id.
func (s *CustomerFeatureStore) GetAll(ctx context.Context) ([]string, []*domain.FeatureRow, error) {
	colRows, err := s.conn.Query(ctx, `SELECT name FROM feature_columns ORDER BY position ASC`)
	if err != nil {
		return nil, nil, fmt.Errorf("query feature columns: %w", err)
	}
	defer colRows.Close()

	var columns []string
	for colRows.Next() {
		var name string
		if err := colRows.Scan(&name); err != nil {
			return nil, nil, fmt.Errorf("scan feature column: %w", err)
		}
		columns = append(columns, name)
	}
	if err := colRows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate feature columns: %w", err)
	}

	rows, err := s.conn.Query(ctx, `SELECT customer_id, vals FROM customer_features ORDER BY customer_id ASC`)
	if err != nil {
		return nil, nil, fmt.Errorf("query customer features: %w", err)
	}
	defer rows.Close()

	var out []*domain.FeatureRow
	for rows.Next() {
		row := &domain.FeatureRow{}
		if err := rows.Scan(&row.CustomerID, &row.Values); err != nil {
			return nil, nil, fmt.Errorf("scan customer features: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate customer features: %w", err)
	}

	return columns, out, nil
}
