package domain

import "time"

// Transaction represents one raw payment event as ingested from the
// source CSV. Corresponds to the transactions table in PostgreSQL.
// Transactions are immutable once ingested.
type Transaction struct {
	TransactionID   string    // unique event identifier
	CustomerID      string    // customer the event belongs to
	Amount          float64   // signed transaction amount
	Value           float64   // absolute transaction value
	ChannelID       string    // categorical: channel the event arrived on
	ProductCategory string    // categorical: product family
	StartTime       time.Time // event timestamp (UTC)
}

// DecomposedTransaction is a Transaction with its timestamp expanded
// into calendar parts. The original timestamp is intentionally absent:
// downstream stages must not depend on it.
type DecomposedTransaction struct {
	TransactionID   string
	CustomerID      string
	Amount          float64
	Value           float64
	ChannelID       string
	ProductCategory string
	Hour            int // 0-23
	Day             int // 1-31
	Month           int // 1-12
	Year            int
}
