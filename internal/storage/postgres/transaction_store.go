package postgres

import (
	"context"
	"fmt"

	"github.com/Lemiti/credit-risk-model/internal/domain"
	"github.com/Lemiti/credit-risk-model/internal/storage"
)

// TransactionStore implements storage.TransactionStore using PostgreSQL.
type TransactionStore struct {
	pool *Pool
}

// NewTransactionStore creates a new TransactionStore.
func NewTransactionStore(pool *Pool) *TransactionStore {
	return &TransactionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TransactionStore = (*TransactionStore)(nil)

const insertTransactionQuery = `
	INSERT INTO transactions (
		transaction_id, customer_id, amount, value,
		channel_id, product_category, start_time
	) VALUES ($1, $2, $3, $4, $5, $6, $7)
`

// Insert adds one transaction. Returns ErrDuplicateKey if
// transaction_id exists.
func (s *TransactionStore) Insert(ctx context.Context, tx *domain.Transaction) error {
	if tx == nil || tx.TransactionID == "" {
		return storage.ErrInvalidInput
	}

	_, err := s.pool.Exec(ctx, insertTransactionQuery,
		tx.TransactionID, tx.CustomerID, tx.Amount, tx.Value,
		tx.ChannelID, tx.ProductCategory, tx.StartTime,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// InsertBulk adds multiple transactions atomically. Fails the entire
// batch on any duplicate.
func (s *TransactionStore) InsertBulk(ctx context.Context, txs []*domain.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	dbTx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer dbTx.Rollback(ctx)

	for _, tx := range txs {
		if tx == nil || tx.TransactionID == "" {
			return storage.ErrInvalidInput
		}
		_, err := dbTx.Exec(ctx, insertTransactionQuery,
			tx.TransactionID, tx.CustomerID, tx.Amount, tx.Value,
			tx.ChannelID, tx.ProductCategory, tx.StartTime,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert transaction %s: %w", tx.TransactionID, err)
		}
	}

	if err := dbTx.Commit(ctx); err != nil {
		return fmt.Errorf("commit bulk insert: %w", err)
	}
	return nil
}

const selectTransactionColumns = `
	SELECT transaction_id, customer_id, amount, value,
	       channel_id, product_category, start_time
	FROM transactions
`

// GetAll retrieves every transaction, ordered by start_time ASC,
// transaction_id ASC.
func (s *TransactionStore) GetAll(ctx context.Context) ([]*domain.Transaction, error) {
	rows, err := s.pool.Query(ctx, selectTransactionColumns+` ORDER BY start_time ASC, transaction_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// GetByCustomerID retrieves one customer's transactions, ordered by
// start_time ASC.
func (s *TransactionStore) GetByCustomerID(ctx context.Context, customerID string) ([]*domain.Transaction, error) {
	rows, err := s.pool.Query(ctx,
		selectTransactionColumns+` WHERE customer_id = $1 ORDER BY start_time ASC, transaction_id ASC`,
		customerID,
	)
	if err != nil {
		return nil, fmt.Errorf("query transactions by customer: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// Count returns the total number of stored transactions.
func (s *TransactionStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM transactions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanTransactions(rows rowScanner) ([]*domain.Transaction, error) {
	var out []*domain.Transaction
	for rows.Next() {
		tx := &domain.Transaction{}
		err := rows.Scan(
			&tx.TransactionID, &tx.CustomerID, &tx.Amount, &tx.Value,
			&tx.ChannelID, &tx.ProductCategory, &tx.StartTime,
		)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.StartTime = tx.StartTime.UTC()
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}
