package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Lemiti/credit-risk-model/internal/domain"
	"github.com/Lemiti/credit-risk-model/internal/storage"
)

// TransactionStore is an in-memory implementation of
// storage.TransactionStore.
type TransactionStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Transaction // keyed by transaction_id
}

// NewTransactionStore creates a new in-memory transaction store.
func NewTransactionStore() *TransactionStore {
	return &TransactionStore{
		data: make(map[string]*domain.Transaction),
	}
}

// Compile-time interface check.
var _ storage.TransactionStore = (*TransactionStore)(nil)

// Insert adds one transaction. Returns ErrDuplicateKey if
// transaction_id exists.
func (s *TransactionStore) Insert(_ context.Context, tx *domain.Transaction) error {
	if tx == nil || tx.TransactionID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[tx.TransactionID]; exists {
		return storage.ErrDuplicateKey
	}

	cp := *tx
	s.data[tx.TransactionID] = &cp
	return nil
}

// InsertBulk adds multiple transactions atomically. Fails the entire
// batch on any duplicate.
func (s *TransactionStore) InsertBulk(_ context.Context, txs []*domain.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(txs))
	for _, tx := range txs {
		if tx == nil || tx.TransactionID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[tx.TransactionID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[tx.TransactionID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[tx.TransactionID] = struct{}{}
	}

	for _, tx := range txs {
		cp := *tx
		s.data[tx.TransactionID] = &cp
	}
	return nil
}

// GetAll retrieves every transaction, ordered by start_time ASC,
// transaction_id ASC.
func (s *TransactionStore) GetAll(_ context.Context) ([]*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Transaction, 0, len(s.data))
	for _, tx := range s.data {
		cp := *tx
		out = append(out, &cp)
	}
	sortTransactions(out)
	return out, nil
}

// GetByCustomerID retrieves one customer's transactions, ordered by
// start_time ASC.
func (s *TransactionStore) GetByCustomerID(_ context.Context, customerID string) ([]*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Transaction
	for _, tx := range s.data {
		if tx.CustomerID == customerID {
			cp := *tx
			out = append(out, &cp)
		}
	}
	sortTransactions(out)
	return out, nil
}

// Count returns the total number of stored transactions.
func (s *TransactionStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data), nil
}

func sortTransactions(txs []*domain.Transaction) {
	sort.Slice(txs, func(i, j int) bool {
		if !txs[i].StartTime.Equal(txs[j].StartTime) {
			return txs[i].StartTime.Before(txs[j].StartTime)
		}
		return txs[i].TransactionID < txs[j].TransactionID
	})
}
