// Package main ingests a transactions CSV into PostgreSQL.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Lemiti/credit-risk-model/internal/domain"
	"github.com/Lemiti/credit-risk-model/internal/ingest"
	"github.com/Lemiti/credit-risk-model/internal/observability"
	"github.com/Lemiti/credit-risk-model/internal/storage"
	"github.com/Lemiti/credit-risk-model/internal/storage/migrations"
	pgstore "github.com/Lemiti/credit-risk-model/internal/storage/postgres"
)

func main() {
	loadEnvFile()

	input := flag.String("input", os.Getenv("TRANSACTIONS_CSV"), "Path to transactions CSV")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	timeout := flag.Duration("timeout", 5*time.Minute, "Overall ingest timeout")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if *input == "" {
		log.Fatal("--input is required")
	}
	if *postgresDSN == "" {
		log.Fatal("--postgres-dsn is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := pgstore.NewPool(ctx, *postgresDSN)
	if err != nil {
		log.WithError(err).Fatal("connect to postgres")
	}
	defer pool.Close()

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		log.WithError(err).Fatal("apply migrations")
	}

	f, err := os.Open(*input)
	if err != nil {
		log.WithError(err).Fatal("open input file")
	}
	defer f.Close()

	txs, err := ingest.ReadTransactions(f)
	if err != nil {
		observability.RecordIngestError(classifyIngestError(err))
		log.WithError(err).Fatal("parse transactions CSV")
	}
	log.WithField("rows", len(txs)).Info("parsed transactions")

	batch := make([]*domain.Transaction, len(txs))
	for i := range txs {
		batch[i] = &txs[i]
	}

	store := pgstore.NewTransactionStore(pool)
	if err := store.InsertBulk(ctx, batch); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			log.WithError(err).Fatal("batch contains already-ingested transactions")
		}
		log.WithError(err).Fatal("store transactions")
	}
	observability.RecordTransactionsIngested(len(txs))

	count, err := store.Count(ctx)
	if err != nil {
		log.WithError(err).Fatal("count transactions")
	}
	log.WithFields(logrus.Fields{
		"ingested": len(txs),
		"total":    count,
	}).Info("ingest complete")
}

func classifyIngestError(err error) string {
	switch {
	case errors.Is(err, ingest.ErrSchemaMismatch):
		return "schema_mismatch"
	case errors.Is(err, ingest.ErrParse):
		return "parse"
	}
	return "other"
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Don't override existing env vars
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
