// Package main runs the batch feature pipeline: transactions in
// PostgreSQL are aggregated, RFM-scored, risk-labeled and encoded, and
// the outputs land in ClickHouse, PostgreSQL and CSV exports.
package main

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Lemiti/credit-risk-model/internal/domain"
	"github.com/Lemiti/credit-risk-model/internal/ingest"
	"github.com/Lemiti/credit-risk-model/internal/label"
	"github.com/Lemiti/credit-risk-model/internal/pipeline"
	"github.com/Lemiti/credit-risk-model/internal/storage"
	chstore "github.com/Lemiti/credit-risk-model/internal/storage/clickhouse"
	"github.com/Lemiti/credit-risk-model/internal/storage/memory"
	"github.com/Lemiti/credit-risk-model/internal/storage/migrations"
	pgstore "github.com/Lemiti/credit-risk-model/internal/storage/postgres"
)

type stores struct {
	tx      storage.TransactionStore
	feature storage.CustomerFeatureStore
	rfm     storage.RFMStore
	label   storage.RiskLabelStore

	closers []func()
}

func (s *stores) close() {
	for _, c := range s.closers {
		c()
	}
}

func main() {
	loadEnvFile()

	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of databases")
	input := flag.String("input", "", "Transactions CSV to load first (required with --use-memory)")
	outputDir := flag.String("output-dir", "output", "Output directory for CSV exports")
	seed := flag.Int64("seed", label.DefaultSeed, "Clustering seed")
	timeout := flag.Duration("timeout", 10*time.Minute, "Overall run timeout")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	s, err := buildStores(ctx, *useMemory, *postgresDSN, *clickhouseDSN, log)
	if err != nil {
		log.WithError(err).Fatal("set up storage")
	}
	defer s.close()

	if *input != "" {
		if err := loadCSV(ctx, s.tx, *input); err != nil {
			log.WithError(err).Fatal("load input CSV")
		}
		log.WithField("input", *input).Info("loaded transactions from CSV")
	} else if *useMemory {
		log.Fatal("--use-memory requires --input")
	}

	p := pipeline.New(s.tx, s.feature, s.rfm, s.label, *outputDir).WithSeed(*seed)

	start := time.Now()
	result, err := p.Run(ctx)
	if err != nil {
		log.WithError(err).Fatal("pipeline run failed")
	}

	log.WithFields(logrus.Fields{
		"transactions": len(result.Transactions),
		"customers":    len(result.Labels),
		"high_risk":    result.HighRiskCustomers,
		"columns":      len(result.Columns),
		"unseen":       result.UnseenCategories,
		"data_version": result.DataVersion,
		"duration":     time.Since(start).Round(time.Millisecond).String(),
	}).Info("pipeline complete")
}

func buildStores(ctx context.Context, useMemory bool, postgresDSN, clickhouseDSN string, log *logrus.Logger) (*stores, error) {
	if useMemory {
		return &stores{
			tx:      memory.NewTransactionStore(),
			feature: memory.NewCustomerFeatureStore(),
			rfm:     memory.NewRFMStore(),
			label:   memory.NewRiskLabelStore(),
		}, nil
	}

	if postgresDSN == "" {
		log.Fatal("--postgres-dsn is required (or --use-memory)")
	}
	if clickhouseDSN == "" {
		log.Fatal("--clickhouse-dsn is required (or --use-memory)")
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, err
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	conn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, err
	}

	return &stores{
		tx:      pgstore.NewTransactionStore(pool),
		feature: chstore.NewCustomerFeatureStore(conn),
		rfm:     chstore.NewRFMStore(conn),
		label:   pgstore.NewRiskLabelStore(pool),
		closers: []func(){pool.Close, func() { conn.Close() }},
	}, nil
}

func loadCSV(ctx context.Context, store storage.TransactionStore, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	txs, err := ingest.ReadTransactions(f)
	if err != nil {
		return err
	}

	batch := make([]*domain.Transaction, len(txs))
	for i := range txs {
		batch[i] = &txs[i]
	}
	return store.InsertBulk(ctx, batch)
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
