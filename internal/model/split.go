package model

import (
	"math/rand"

	"github.com/Lemiti/credit-risk-model/internal/domain"
)

// TrainTestSplit shuffles rows with a seeded generator and splits off
// the trailing testFraction as the held-out set. The input slice is not
// mutated. Deterministic for a fixed seed.
func TrainTestSplit(rows []domain.LabeledRow, testFraction float64, seed int64) (train, test []domain.LabeledRow) {
	shuffled := append([]domain.LabeledRow(nil), rows...)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	testSize := int(float64(len(shuffled)) * testFraction)
	cut := len(shuffled) - testSize
	return shuffled[:cut], shuffled[cut:]
}

// SplitXY unpacks labeled rows into a feature matrix and label vector.
func SplitXY(rows []domain.LabeledRow) ([][]float64, []int) {
	x := make([][]float64, len(rows))
	y := make([]int, len(rows))
	for i, row := range rows {
		x[i] = row.Values
		y[i] = row.IsHighRisk
	}
	return x, y
}
