package storage

import (
	"context"

	"github.com/Lemiti/credit-risk-model/internal/domain"
)

// TransactionStore provides access to raw transaction storage.
// Transactions are append-only: ingested once, never updated.
type TransactionStore interface {
	// Insert adds one transaction. Returns ErrDuplicateKey if
	// transaction_id exists.
	Insert(ctx context.Context, tx *domain.Transaction) error

	// InsertBulk adds multiple transactions atomically. Fails the
	// entire batch on any duplicate.
	InsertBulk(ctx context.Context, txs []*domain.Transaction) error

	// GetAll retrieves every transaction, ordered by start_time ASC,
	// transaction_id ASC.
	GetAll(ctx context.Context) ([]*domain.Transaction, error)

	// GetByCustomerID retrieves one customer's transactions, ordered
	// by start_time ASC.
	GetByCustomerID(ctx context.Context, customerID string) ([]*domain.Transaction, error)

	// Count returns the total number of stored transactions.
	Count(ctx context.Context) (int, error)
}

// CustomerFeatureStore persists the encoded feature matrix. The matrix
// is a pure batch output recomputed on every pipeline run, so the store
// replaces its contents wholesale instead of appending.
type CustomerFeatureStore interface {
	// ReplaceAll atomically swaps the stored matrix for the given
	// column layout and rows. Every row must match len(columns).
	ReplaceAll(ctx context.Context, columns []string, rows []*domain.FeatureRow) error

	// GetAll retrieves the column layout and all rows.
	GetAll(ctx context.Context) ([]string, []*domain.FeatureRow, error)
}

// RFMStore persists per-customer RFM summaries, replaced per run.
type RFMStore interface {
	ReplaceAll(ctx context.Context, records []*domain.RFMRecord) error
	GetAll(ctx context.Context) ([]*domain.RFMRecord, error)
}

// RiskLabelStore persists proxy risk labels, replaced per run.
type RiskLabelStore interface {
	ReplaceAll(ctx context.Context, labels []*domain.RiskLabel) error
	GetAll(ctx context.Context) ([]*domain.RiskLabel, error)
}
