package model

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/Lemiti/credit-risk-model/internal/domain"
)

// separableData builds a 1-informative-feature dataset: feature 0
// separates the classes, feature 1 is pure noise.
func separableData(n int, seed int64) ([][]float64, []int) {
	rng := rand.New(rand.NewSource(seed))
	x := make([][]float64, n)
	y := make([]int, n)
	for i := range x {
		label := i % 2
		center := -2.0
		if label == 1 {
			center = 2.0
		}
		x[i] = []float64{center + rng.NormFloat64()*0.5, rng.NormFloat64()}
		y[i] = label
	}
	return x, y
}

func TestFitLogistic_LearnsSeparableData(t *testing.T) {
	x, y := separableData(200, 1)

	m := FitLogistic(x, y, DefaultLogisticConfig())

	correct := 0
	for i := range x {
		if Predict(m, x[i]) == y[i] {
			correct++
		}
	}
	if acc := float64(correct) / float64(len(x)); acc < 0.95 {
		t.Errorf("expected accuracy >= 0.95 on separable data, got %f", acc)
	}
}

func TestFitLogistic_Deterministic(t *testing.T) {
	x, y := separableData(100, 2)

	first := FitLogistic(x, y, DefaultLogisticConfig())
	second := FitLogistic(x, y, DefaultLogisticConfig())

	if !reflect.DeepEqual(first, second) {
		t.Error("same data and seed produced different weights")
	}
}

func TestFitLogistic_ProbabilitiesInRange(t *testing.T) {
	x, y := separableData(100, 3)
	m := FitLogistic(x, y, DefaultLogisticConfig())

	for i := range x {
		p := m.PredictProba(x[i])
		if p < 0 || p > 1 {
			t.Fatalf("probability %f outside [0,1]", p)
		}
	}
}

func TestFitBoosting_LearnsSeparableData(t *testing.T) {
	x, y := separableData(200, 4)

	cfg := DefaultBoostingConfig()
	cfg.Rounds = 30
	m := FitBoosting(x, y, cfg)

	correct := 0
	for i := range x {
		if Predict(m, x[i]) == y[i] {
			correct++
		}
	}
	if acc := float64(correct) / float64(len(x)); acc < 0.95 {
		t.Errorf("expected accuracy >= 0.95 on separable data, got %f", acc)
	}
}

func TestFitBoosting_SingleClassInput(t *testing.T) {
	x := [][]float64{{1}, {2}, {3}}
	y := []int{1, 1, 1}

	m := FitBoosting(x, y, DefaultBoostingConfig())
	if p := m.PredictProba([]float64{2}); p < 0.99 {
		t.Errorf("expected probability near 1 for all-positive training set, got %f", p)
	}
}

func TestFitForest_ImportanceRanksInformativeFeature(t *testing.T) {
	x, y := separableData(200, 5)

	cfg := DefaultForestConfig()
	cfg.Trees = 20
	f := FitForest(x, y, cfg)

	if len(f.Importances) != 2 {
		t.Fatalf("expected 2 importances, got %d", len(f.Importances))
	}
	if f.Importances[0] <= f.Importances[1] {
		t.Errorf("informative feature should outrank noise: got %v", f.Importances)
	}
}

func TestFitForest_Deterministic(t *testing.T) {
	x, y := separableData(80, 6)

	cfg := DefaultForestConfig()
	cfg.Trees = 10
	first := FitForest(x, y, cfg)
	second := FitForest(x, y, cfg)

	if !reflect.DeepEqual(first.Importances, second.Importances) {
		t.Error("same data and seed produced different importances")
	}
}

func TestSelectByMedianImportance(t *testing.T) {
	importances := []float64{0.5, 0.1, 0.3, 0.1}
	// median = 0.2; keep 0.5 and 0.3
	selected := SelectByMedianImportance(importances)
	if !reflect.DeepEqual(selected, []int{0, 2}) {
		t.Errorf("expected [0 2], got %v", selected)
	}
}

func TestSelectByMedianImportance_UniformKeepsAll(t *testing.T) {
	selected := SelectByMedianImportance([]float64{0.25, 0.25, 0.25, 0.25})
	if !reflect.DeepEqual(selected, []int{0, 1, 2, 3}) {
		t.Errorf("expected all features kept, got %v", selected)
	}
}

func TestApplySelection(t *testing.T) {
	rows := [][]float64{{1, 2, 3}, {4, 5, 6}}
	out := ApplySelection(rows, []int{0, 2})
	want := [][]float64{{1, 3}, {4, 6}}
	if !reflect.DeepEqual(out, want) {
		t.Errorf("expected %v, got %v", want, out)
	}
}

func TestTrainTestSplit_SizesAndDeterminism(t *testing.T) {
	rows := make([]domain.LabeledRow, 10)
	for i := range rows {
		rows[i] = domain.LabeledRow{CustomerID: string(rune('a' + i))}
	}

	train, test := TrainTestSplit(rows, 0.2, 42)
	if len(train) != 8 || len(test) != 2 {
		t.Fatalf("expected 8/2 split, got %d/%d", len(train), len(test))
	}

	train2, test2 := TrainTestSplit(rows, 0.2, 42)
	if !reflect.DeepEqual(train, train2) || !reflect.DeepEqual(test, test2) {
		t.Error("same seed produced a different split")
	}

	// No row lost or duplicated
	seen := make(map[string]bool)
	for _, r := range append(append([]domain.LabeledRow(nil), train...), test...) {
		if seen[r.CustomerID] {
			t.Errorf("row %s duplicated by split", r.CustomerID)
		}
		seen[r.CustomerID] = true
	}
	if len(seen) != len(rows) {
		t.Errorf("expected %d distinct rows after split, got %d", len(rows), len(seen))
	}
}
