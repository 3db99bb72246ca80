package memory

import (
	"context"
	"sync"

	"github.com/Lemiti/credit-risk-model/internal/domain"
	"github.com/Lemiti/credit-risk-model/internal/storage"
)

// CustomerFeatureStore is an in-memory implementation of
// storage.CustomerFeatureStore.
type CustomerFeatureStore struct {
	mu      sync.RWMutex
	columns []string
	rows    []*domain.FeatureRow
}

// NewCustomerFeatureStore creates a new in-memory feature store.
func NewCustomerFeatureStore() *CustomerFeatureStore {
	return &CustomerFeatureStore{}
}

// Compile-time interface check.
var _ storage.CustomerFeatureStore = (*CustomerFeatureStore)(nil)

// ReplaceAll atomically swaps the stored matrix.
func (s *CustomerFeatureStore) ReplaceAll(_ context.Context, columns []string, rows []*domain.FeatureRow) error {
	for _, row := range rows {
		if row == nil || row.CustomerID == "" || len(row.Values) != len(columns) {
			return storage.ErrInvalidInput
		}
	}

	cols := append([]string(nil), columns...)
	copied := make([]*domain.FeatureRow, len(rows))
	for i, row := range rows {
		copied[i] = &domain.FeatureRow{
			CustomerID: row.CustomerID,
			Values:     append([]float64(nil), row.Values...),
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.columns = cols
	s.rows = copied
	return nil
}

// GetAll retrieves the column layout and all rows.
func (s *CustomerFeatureStore) GetAll(_ context.Context) ([]string, []*domain.FeatureRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cols := append([]string(nil), s.columns...)
	rows := make([]*domain.FeatureRow, len(s.rows))
	for i, row := range s.rows {
		rows[i] = &domain.FeatureRow{
			CustomerID: row.CustomerID,
			Values:     append([]float64(nil), row.Values...),
		}
	}
	return cols, rows, nil
}
