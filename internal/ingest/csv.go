// Package ingest reads raw transaction batches from CSV. Schema and
// value errors abort the whole batch: a partially parsed batch would
// silently shift every downstream statistic.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Lemiti/credit-risk-model/internal/domain"
)

var (
	// ErrSchemaMismatch is returned before any row is parsed when a
	// required column is missing from the header.
	ErrSchemaMismatch = errors.New("ingest: required column missing")

	// ErrParse is returned for a malformed timestamp or numeric field.
	ErrParse = errors.New("ingest: malformed field")
)

// Required CSV columns, as produced by the upstream export.
var requiredColumns = []string{
	"TransactionId",
	"CustomerId",
	"Amount",
	"Value",
	"ChannelId",
	"ProductCategory",
	"TransactionStartTime",
}

// Accepted timestamp layouts, tried in order.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ReadTransactions parses a transaction CSV. The first record is the
// header; all required columns must be present (extra columns are
// ignored). Any unparseable timestamp or numeric field fails the batch
// with ErrParse carrying the row number, column and offending value.
func ReadTransactions(r io.Reader) ([]domain.Transaction, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s (header has %d columns)", ErrSchemaMismatch, col, len(header))
		}
	}

	var txs []domain.Transaction
	row := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", row+1, err)
		}
		row++

		tx, err := parseRow(record, index, row)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func parseRow(record []string, index map[string]int, row int) (domain.Transaction, error) {
	field := func(col string) string { return record[index[col]] }

	amount, err := parseFloat(field("Amount"), "Amount", row)
	if err != nil {
		return domain.Transaction{}, err
	}
	value, err := parseFloat(field("Value"), "Value", row)
	if err != nil {
		return domain.Transaction{}, err
	}
	startTime, err := parseTime(field("TransactionStartTime"), row)
	if err != nil {
		return domain.Transaction{}, err
	}

	return domain.Transaction{
		TransactionID:   field("TransactionId"),
		CustomerID:      field("CustomerId"),
		Amount:          amount,
		Value:           value,
		ChannelID:       field("ChannelId"),
		ProductCategory: field("ProductCategory"),
		StartTime:       startTime,
	}, nil
}

func parseFloat(s, col string, row int) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: row %d column %s value %q", ErrParse, row, col, s)
	}
	return v, nil
}

func parseTime(s string, row int) (time.Time, error) {
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: row %d column TransactionStartTime value %q", ErrParse, row, s)
}
