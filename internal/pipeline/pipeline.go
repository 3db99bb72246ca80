// Package pipeline orchestrates the batch feature run: load
// transactions, aggregate per customer, build RFM summaries, assign
// proxy risk labels, encode the feature matrix and persist everything.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Lemiti/credit-risk-model/internal/domain"
	"github.com/Lemiti/credit-risk-model/internal/features"
	"github.com/Lemiti/credit-risk-model/internal/idhash"
	"github.com/Lemiti/credit-risk-model/internal/label"
	"github.com/Lemiti/credit-risk-model/internal/observability"
	"github.com/Lemiti/credit-risk-model/internal/reporting"
	"github.com/Lemiti/credit-risk-model/internal/storage"
)

// Result carries everything a batch run produced, for downstream
// training and reporting.
type Result struct {
	Transactions []*domain.Transaction
	Aggregates   []domain.CustomerAggregate
	RFM          []domain.RFMRecord
	Labels       []domain.RiskLabel
	Encoder      *features.EncoderState
	Columns      []string
	Features     []domain.FeatureRow
	Labeled      []domain.LabeledRow

	UnseenCategories  int
	HighRiskCustomers int
	DataVersion       string
}

// Pipeline runs the batch feature computation against the stores.
type Pipeline struct {
	txStore      storage.TransactionStore
	featureStore storage.CustomerFeatureStore
	rfmStore     storage.RFMStore
	labelStore   storage.RiskLabelStore

	labeler   *label.Labeler
	outputDir string
	clock     func() time.Time
}

// New creates a pipeline over the given stores. outputDir may be empty
// to skip CSV export.
func New(
	txStore storage.TransactionStore,
	featureStore storage.CustomerFeatureStore,
	rfmStore storage.RFMStore,
	labelStore storage.RiskLabelStore,
	outputDir string,
) *Pipeline {
	return &Pipeline{
		txStore:      txStore,
		featureStore: featureStore,
		rfmStore:     rfmStore,
		labelStore:   labelStore,
		labeler:      label.NewLabeler(label.DefaultSeed),
		outputDir:    outputDir,
		clock:        func() time.Time { return time.Now().UTC() },
	}
}

// WithSeed sets the clustering seed.
func (p *Pipeline) WithSeed(seed int64) *Pipeline {
	p.labeler = label.NewLabeler(seed)
	return p
}

// WithClock sets a custom clock function for deterministic output.
func (p *Pipeline) WithClock(clock func() time.Time) *Pipeline {
	p.clock = clock
	return p
}

// Run executes the full batch pipeline and persists its outputs. When
// outputDir is set it also writes:
//   - customer_features.csv
//   - labeled_features.csv
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	started := p.clock()

	txPtrs, err := p.txStore.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	if len(txPtrs) == 0 {
		return nil, fmt.Errorf("load transactions: store is empty")
	}

	txs := make([]domain.Transaction, len(txPtrs))
	for i, tx := range txPtrs {
		txs[i] = *tx
	}

	decomposed := features.DecomposeDatetime(txs)
	aggregates := features.AggregateByCustomer(decomposed)

	rfm, err := label.BuildRFM(txs)
	if err != nil {
		return nil, fmt.Errorf("build rfm: %w", err)
	}

	labels, err := p.labeler.Label(rfm)
	if err != nil {
		return nil, fmt.Errorf("assign risk labels: %w", err)
	}

	encoder, err := features.FitEncoder(aggregates)
	if err != nil {
		return nil, fmt.Errorf("fit encoder: %w", err)
	}
	rows, unseen := encoder.Transform(aggregates)
	if unseen > 0 {
		observability.DefaultMetrics.UnseenCategories.Add(float64(unseen))
	}

	labeled := InnerJoinLabels(rows, labels)

	result := &Result{
		Transactions:     txPtrs,
		Aggregates:       aggregates,
		RFM:              rfm,
		Labels:           labels,
		Encoder:          encoder,
		Columns:          encoder.Columns,
		Features:         rows,
		Labeled:          labeled,
		UnseenCategories: unseen,
	}
	for _, l := range labels {
		if l.IsHighRisk == 1 {
			result.HighRiskCustomers++
		}
	}
	result.DataVersion = dataVersion(labeled)

	if err := p.persist(ctx, result); err != nil {
		return nil, err
	}

	if p.outputDir != "" {
		if err := p.writeCSVs(result); err != nil {
			return nil, err
		}
	}

	observability.DefaultMetrics.CustomersProcessed.Add(float64(len(labels)))
	observability.DefaultMetrics.HighRiskCustomers.Set(float64(result.HighRiskCustomers))
	observability.RecordPipelineRun("ok", p.clock().Sub(started).Seconds())
	observability.DefaultMetrics.LastSuccessfulPipeline.Set(float64(p.clock().Unix()))

	return result, nil
}

func (p *Pipeline) persist(ctx context.Context, result *Result) error {
	featureRows := make([]*domain.FeatureRow, len(result.Features))
	for i := range result.Features {
		featureRows[i] = &result.Features[i]
	}
	if err := p.featureStore.ReplaceAll(ctx, result.Columns, featureRows); err != nil {
		return fmt.Errorf("persist features: %w", err)
	}

	rfmRecords := make([]*domain.RFMRecord, len(result.RFM))
	for i := range result.RFM {
		rfmRecords[i] = &result.RFM[i]
	}
	if err := p.rfmStore.ReplaceAll(ctx, rfmRecords); err != nil {
		return fmt.Errorf("persist rfm: %w", err)
	}

	labelRecords := make([]*domain.RiskLabel, len(result.Labels))
	for i := range result.Labels {
		labelRecords[i] = &result.Labels[i]
	}
	if err := p.labelStore.ReplaceAll(ctx, labelRecords); err != nil {
		return fmt.Errorf("persist risk labels: %w", err)
	}

	return nil
}

func (p *Pipeline) writeCSVs(result *Result) error {
	if err := os.MkdirAll(p.outputDir, 0755); err != nil {
		return err
	}

	featureRows := make([]*domain.FeatureRow, len(result.Features))
	for i := range result.Features {
		featureRows[i] = &result.Features[i]
	}
	featureCSV := reporting.RenderFeatureCSV(result.Columns, featureRows)
	featurePath := filepath.Join(p.outputDir, "customer_features.csv")
	if err := os.WriteFile(featurePath, []byte(featureCSV), 0644); err != nil {
		return err
	}

	labeledRows := make([]*domain.LabeledRow, len(result.Labeled))
	for i := range result.Labeled {
		labeledRows[i] = &result.Labeled[i]
	}
	labeledCSV := reporting.RenderLabeledCSV(result.Columns, labeledRows)
	labeledPath := filepath.Join(p.outputDir, "labeled_features.csv")
	if err := os.WriteFile(labeledPath, []byte(labeledCSV), 0644); err != nil {
		return err
	}

	return nil
}

// dataVersion pins the labeled dataset so reports can state exactly
// which data produced them.
func dataVersion(labeled []domain.LabeledRow) string {
	pairs := make([]string, len(labeled))
	for i, row := range labeled {
		pairs[i] = fmt.Sprintf("%s|%d", row.CustomerID, row.IsHighRisk)
	}
	return idhash.ComputeDataVersion(pairs)
}
