package clickhouse

import (
	"context"
	"fmt"

	"github.com/Lemiti/credit-risk-model/internal/domain"
	"github.com/Lemiti/credit-risk-model/internal/storage"
)

// RFMStore implements storage.RFMStore using ClickHouse.
type RFMStore struct {
	conn *Conn
}

// NewRFMStore creates a new RFMStore.
func NewRFMStore(conn *Conn) *RFMStore {
	return &RFMStore{conn: conn}
}

var _ storage.RFMStore = (*RFMStore)(nil)

// ReplaceAll swaps the stored RFM summaries for the given set.
func (s *RFMStore) ReplaceAll(ctx context.Context, records []*domain.RFMRecord) error {
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if rec == nil || rec.CustomerID == "" {
			return storage.ErrInvalidInput
		}
		if _, ok := seen[rec.CustomerID]; ok {
			return storage.ErrDuplicateKey
		}
		seen[rec.CustomerID] = struct{}{}
	}

	if err := s.conn.Exec(ctx, `TRUNCATE TABLE rfm_summaries`); err != nil {
		return fmt.Errorf("truncate rfm_summaries: %w", err)
	}

	if len(records) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `INSERT INTO rfm_summaries (customer_id, recency, frequency, monetary)`)
	if err != nil {
		return fmt.Errorf("prepare rfm batch: %w", err)
	}
	for _, rec := range records {
		err := batch.Append(rec.CustomerID, int32(rec.Recency), int32(rec.Frequency), rec.Monetary)
		if err != nil {
			return fmt.Errorf("append rfm %s: %w", rec.CustomerID, err)
		}
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("send rfm batch: %w", err)
	}

	return nil
}

// GetAll retrieves every RFM summary, ordered by customer_id ASC.
func (s *RFMStore) GetAll(ctx context.Context) ([]*domain.RFMRecord, error) {
	rows, err := s.conn.Query(ctx, `SELECT customer_id, recency, frequency, monetary FROM rfm_summaries ORDER BY customer_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query rfm summaries: %w", err)
	}
	defer rows.Close()

	var out []*domain.RFMRecord
	for rows.Next() {
		var (
			customerID string
			recency    int32
			frequency  int32
			monetary   float64
		)
		if err := rows.Scan(&customerID, &recency, &frequency, &monetary); err != nil {
			return nil, fmt.Errorf("scan rfm summary: %w", err)
		}
		out = append(out, &domain.RFMRecord{
			CustomerID: customerID,
			Recency:    int(recency),
			Frequency:  int(frequency),
			Monetary:   monetary,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rfm summaries: %w", err)
	}

	return out, nil
}
