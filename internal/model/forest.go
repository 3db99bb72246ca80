package model

import (
	"math"
	"math/rand"
)

// ForestConfig holds random forest hyperparameters.
type ForestConfig struct {
	Trees    int
	MaxDepth int
	MinLeaf  int
	Seed     int64
}

// DefaultForestConfig mirrors the original importance ranker
// (100 estimators, seed 42).
func DefaultForestConfig() ForestConfig {
	return ForestConfig{Trees: 100, MaxDepth: 8, MinLeaf: 2, Seed: 42}
}

// Forest is a bootstrap ensemble of regression trees over the 0/1
// label. Its role here is feature-importance ranking for selection;
// Importances are mean impurity decreases, normalized to sum to 1.
type Forest struct {
	Trees       []*TreeNode `json:"trees"`
	Importances []float64   `json:"importances"`
}

// FitForest trains the ensemble. Each tree sees a bootstrap sample and
// sqrt(p) candidate features per split. Deterministic for a fixed seed.
func FitForest(x [][]float64, y []int, cfg ForestConfig) *Forest {
	n := len(x)
	if n == 0 {
		return &Forest{}
	}
	p := len(x[0])

	target := make([]float64, n)
	for i, label := range y {
		target[i] = float64(label)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	importance := make([]float64, p)
	forest := &Forest{Trees: make([]*TreeNode, 0, cfg.Trees)}

	for t := 0; t < cfg.Trees; t++ {
		sample := make([]int, n)
		for i := range sample {
			sample[i] = rng.Intn(n)
		}

		builder := &treeBuilder{
			cfg: treeConfig{
				maxDepth:    cfg.MaxDepth,
				minLeaf:     cfg.MinLeaf,
				maxFeatures: int(math.Ceil(math.Sqrt(float64(p)))),
			},
			rng:        rng,
			importance: importance,
		}
		forest.Trees = append(forest.Trees, builder.fit(x, target, sample, 0))
	}

	total := 0.0
	for _, v := range importance {
		total += v
	}
	if total > 0 {
		for i := range importance {
			importance[i] /= total
		}
	}
	forest.Importances = importance
	return forest
}

// PredictProba averages tree outputs; with a 0/1 target the mean leaf
// value is the positive-class fraction.
func (f *Forest) PredictProba(x []float64) float64 {
	if len(f.Trees) == 0 {
		return 0
	}
	sum := 0.0
	for _, tree := range f.Trees {
		sum += tree.Predict(x)
	}
	return clampProb(sum / float64(len(f.Trees)))
}

func clampProb(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
