package memory

import (
	"context"
	"sync"

	"github.com/Lemiti/credit-risk-model/internal/domain"
	"github.com/Lemiti/credit-risk-model/internal/storage"
)

// RFMStore is an in-memory implementation of storage.RFMStore.
type RFMStore struct {
	mu      sync.RWMutex
	records []*domain.RFMRecord
}

// NewRFMStore creates a new in-memory RFM store.
func NewRFMStore() *RFMStore {
	return &RFMStore{}
}

// Compile-time interface check.
var _ storage.RFMStore = (*RFMStore)(nil)

// ReplaceAll atomically swaps the stored records.
func (s *RFMStore) ReplaceAll(_ context.Context, records []*domain.RFMRecord) error {
	copied := make([]*domain.RFMRecord, len(records))
	for i, r := range records {
		if r == nil || r.CustomerID == "" {
			return storage.ErrInvalidInput
		}
		cp := *r
		copied[i] = &cp
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = copied
	return nil
}

// GetAll retrieves all records.
func (s *RFMStore) GetAll(_ context.Context) ([]*domain.RFMRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.RFMRecord, len(s.records))
	for i, r := range s.records {
		cp := *r
		out[i] = &cp
	}
	return out, nil
}
