package memory

import (
	"context"
	"sync"

	"github.com/Lemiti/credit-risk-model/internal/domain"
	"github.com/Lemiti/credit-risk-model/internal/storage"
)

// RiskLabelStore is an in-memory implementation of
// storage.RiskLabelStore.
type RiskLabelStore struct {
	mu     sync.RWMutex
	labels []*domain.RiskLabel
}

// NewRiskLabelStore creates a new in-memory risk label store.
func NewRiskLabelStore() *RiskLabelStore {
	return &RiskLabelStore{}
}

// Compile-time interface check.
var _ storage.RiskLabelStore = (*RiskLabelStore)(nil)

// ReplaceAll atomically swaps the stored labels.
func (s *RiskLabelStore) ReplaceAll(_ context.Context, labels []*domain.RiskLabel) error {
	copied := make([]*domain.RiskLabel, len(labels))
	for i, l := range labels {
		if l == nil || l.CustomerID == "" {
			return storage.ErrInvalidInput
		}
		cp := *l
		copied[i] = &cp
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.labels = copied
	return nil
}

// GetAll retrieves all labels.
func (s *RiskLabelStore) GetAll(_ context.Context) ([]*domain.RiskLabel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.RiskLabel, len(s.labels))
	for i, l := range s.labels {
		cp := *l
		out[i] = &cp
	}
	return out, nil
}
