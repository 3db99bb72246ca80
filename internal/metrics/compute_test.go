package metrics

import (
	"math"
	"testing"
)

func TestAccuracy(t *testing.T) {
	yTrue := []int{1, 0, 1, 1, 0}
	yPred := []int{1, 0, 0, 1, 1}

	if got := Accuracy(yTrue, yPred); got != 0.6 {
		t.Errorf("expected accuracy 0.6, got %f", got)
	}
}

func TestPrecisionRecallF1(t *testing.T) {
	// TP=2, FP=1, FN=1
	yTrue := []int{1, 1, 1, 0, 0}
	yPred := []int{1, 1, 0, 1, 0}

	if got := Precision(yTrue, yPred); math.Abs(got-2.0/3.0) > 1e-12 {
		t.Errorf("expected precision 2/3, got %f", got)
	}
	if got := Recall(yTrue, yPred); math.Abs(got-2.0/3.0) > 1e-12 {
		t.Errorf("expected recall 2/3, got %f", got)
	}
	if got := F1(yTrue, yPred); math.Abs(got-2.0/3.0) > 1e-12 {
		t.Errorf("expected f1 2/3, got %f", got)
	}
}

func TestPrecision_NoPositivePredictions(t *testing.T) {
	if got := Precision([]int{1, 0}, []int{0, 0}); got != 0 {
		t.Errorf("expected precision 0, got %f", got)
	}
}

func TestROCAUC_PerfectRanking(t *testing.T) {
	yTrue := []int{0, 0, 1, 1}
	probs := []float64{0.1, 0.2, 0.8, 0.9}

	if got := ROCAUC(yTrue, probs); got != 1.0 {
		t.Errorf("expected auc 1.0, got %f", got)
	}
}

func TestROCAUC_InvertedRanking(t *testing.T) {
	yTrue := []int{1, 1, 0, 0}
	probs := []float64{0.1, 0.2, 0.8, 0.9}

	if got := ROCAUC(yTrue, probs); got != 0.0 {
		t.Errorf("expected auc 0.0, got %f", got)
	}
}

func TestROCAUC_TiedScoresUseMidranks(t *testing.T) {
	// One positive and one negative share the score 0.5: the tie
	// contributes half a concordant pair.
	yTrue := []int{0, 1, 0, 1}
	probs := []float64{0.2, 0.5, 0.5, 0.9}

	// Pairs: (0.2,0.5)=1, (0.2,0.9)=1, (0.5,0.5)=0.5, (0.5,0.9)=1 → 3.5/4
	if got := ROCAUC(yTrue, probs); math.Abs(got-0.875) > 1e-12 {
		t.Errorf("expected auc 0.875, got %f", got)
	}
}

func TestROCAUC_SingleClassIsUninformative(t *testing.T) {
	if got := ROCAUC([]int{1, 1, 1}, []float64{0.1, 0.5, 0.9}); got != 0.5 {
		t.Errorf("expected auc 0.5 for single-class input, got %f", got)
	}
}

func TestEvaluate_AllMetricsPopulated(t *testing.T) {
	yTrue := []int{1, 0, 1, 0}
	yPred := []int{1, 0, 1, 1}
	probs := []float64{0.9, 0.2, 0.8, 0.6}

	report := Evaluate(yTrue, yPred, probs)
	if report.Accuracy != 0.75 {
		t.Errorf("expected accuracy 0.75, got %f", report.Accuracy)
	}
	if report.Recall != 1.0 {
		t.Errorf("expected recall 1.0, got %f", report.Recall)
	}
	if report.ROCAUC <= 0.5 {
		t.Errorf("expected auc above chance, got %f", report.ROCAUC)
	}
}
