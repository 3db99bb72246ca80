// Package train runs model training on a completed batch pipeline run:
// importance-based feature selection, candidate model fitting, holdout
// evaluation and artifact assembly.
package train

import (
	"fmt"
	"time"

	"github.com/Lemiti/credit-risk-model/internal/artifact"
	"github.com/Lemiti/credit-risk-model/internal/domain"
	"github.com/Lemiti/credit-risk-model/internal/features"
	"github.com/Lemiti/credit-risk-model/internal/metrics"
	"github.com/Lemiti/credit-risk-model/internal/model"
	"github.com/Lemiti/credit-risk-model/internal/reporting"
)

// Config holds training hyperparameters.
type Config struct {
	Seed         int64
	TestFraction float64
}

// DefaultConfig mirrors the original training run: 80/20 holdout,
// seed 42 everywhere.
func DefaultConfig() Config {
	return Config{Seed: 42, TestFraction: 0.2}
}

// Outcome carries everything a training run produced.
type Outcome struct {
	Bundle           *artifact.Bundle
	BestModel        string
	Metrics          []reporting.ModelMetricRow
	SelectedIndices  []int
	SelectedFeatures []string
}

// Run trains both candidate models on the labeled matrix and keeps the
// one with the higher holdout ROC-AUC. Ties go to logistic regression.
func Run(labeled []domain.LabeledRow, encoder *features.EncoderState, cfg Config, now time.Time) (*Outcome, error) {
	if len(labeled) < 5 {
		return nil, fmt.Errorf("train: %d labeled rows, need at least 5", len(labeled))
	}

	trainRows, testRows := model.TrainTestSplit(labeled, cfg.TestFraction, cfg.Seed)
	if len(trainRows) == 0 || len(testRows) == 0 {
		return nil, fmt.Errorf("train: split produced empty partition (%d train, %d test)", len(trainRows), len(testRows))
	}

	xTrain, yTrain := model.SplitXY(trainRows)
	xTest, yTest := model.SplitXY(testRows)

	// Importance ranking on the training partition only.
	forestCfg := model.DefaultForestConfig()
	forestCfg.Seed = cfg.Seed
	forest := model.FitForest(xTrain, yTrain, forestCfg)
	selected := model.SelectByMedianImportance(forest.Importances)

	xTrainSel := model.ApplySelection(xTrain, selected)
	xTestSel := model.ApplySelection(xTest, selected)

	logisticCfg := model.DefaultLogisticConfig()
	logisticCfg.Seed = cfg.Seed
	logistic := model.FitLogistic(xTrainSel, yTrain, logisticCfg)

	boostingCfg := model.DefaultBoostingConfig()
	boostingCfg.Seed = cfg.Seed
	boosting := model.FitBoosting(xTrainSel, yTrain, boostingCfg)

	logisticReport := evaluate(logistic, xTestSel, yTest)
	boostingReport := evaluate(boosting, xTestSel, yTest)

	bestModel := artifact.ModelLogisticRegression
	if boostingReport.ROCAUC > logisticReport.ROCAUC {
		bestModel = artifact.ModelGradientBoosting
	}

	var bundle *artifact.Bundle
	var err error
	if bestModel == artifact.ModelLogisticRegression {
		bundle, err = artifact.New(bestModel, cfg.Seed, encoder, selected, logistic, nil, now)
	} else {
		bundle, err = artifact.New(bestModel, cfg.Seed, encoder, selected, nil, boosting, now)
	}
	if err != nil {
		return nil, fmt.Errorf("assemble artifact: %w", err)
	}

	outcome := &Outcome{
		Bundle:           bundle,
		BestModel:        bestModel,
		SelectedIndices:  selected,
		SelectedFeatures: bundle.SelectedFeatures,
		Metrics: []reporting.ModelMetricRow{
			metricRow(artifact.ModelLogisticRegression, logisticReport, bestModel == artifact.ModelLogisticRegression),
			metricRow(artifact.ModelGradientBoosting, boostingReport, bestModel == artifact.ModelGradientBoosting),
		},
	}
	return outcome, nil
}

func evaluate(c model.Classifier, x [][]float64, y []int) metrics.Report {
	preds := make([]int, len(x))
	probs := make([]float64, len(x))
	for i, row := range x {
		probs[i] = c.PredictProba(row)
		preds[i] = model.Predict(c, row)
	}
	return metrics.Evaluate(y, preds, probs)
}

func metricRow(name string, r metrics.Report, selected bool) reporting.ModelMetricRow {
	return reporting.ModelMetricRow{
		ModelName: name,
		Accuracy:  r.Accuracy,
		Precision: r.Precision,
		Recall:    r.Recall,
		F1:        r.F1,
		ROCAUC:    r.ROCAUC,
		Selected:  selected,
	}
}
