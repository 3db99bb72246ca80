package model

import (
	"math"
	"math/rand"
)

// BoostingConfig holds gradient boosting hyperparameters.
type BoostingConfig struct {
	Rounds       int
	LearningRate float64
	MaxDepth     int
	MinLeaf      int
	Seed         int64
}

// DefaultBoostingConfig mirrors scikit-learn's GradientBoostingClassifier
// defaults: 100 stages, shrinkage 0.1, depth-3 trees.
func DefaultBoostingConfig() BoostingConfig {
	return BoostingConfig{Rounds: 100, LearningRate: 0.1, MaxDepth: 3, MinLeaf: 2, Seed: 42}
}

// Boosting is a gradient-boosted ensemble for binary classification
// with logistic loss. Trees are regression trees over pseudo-residuals;
// scores accumulate in logit space.
type Boosting struct {
	InitScore    float64     `json:"init_score"`
	LearningRate float64     `json:"learning_rate"`
	Trees        []*TreeNode `json:"trees"`
}

// FitBoosting trains the ensemble. Each round fits a tree to the
// current pseudo-residuals and rewrites its leaf values with the
// Newton step sum(r) / sum(p(1-p)) over the samples in the leaf.
func FitBoosting(x [][]float64, y []int, cfg BoostingConfig) *Boosting {
	n := len(x)
	if n == 0 {
		return &Boosting{LearningRate: cfg.LearningRate}
	}

	pos := 0
	for _, label := range y {
		if label == 1 {
			pos++
		}
	}
	// Degenerate single-class input: constant score, no trees.
	if pos == 0 || pos == n {
		score := -10.0
		if pos == n {
			score = 10.0
		}
		return &Boosting{InitScore: score, LearningRate: cfg.LearningRate}
	}

	m := &Boosting{
		InitScore:    math.Log(float64(pos) / float64(n-pos)),
		LearningRate: cfg.LearningRate,
		Trees:        make([]*TreeNode, 0, cfg.Rounds),
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	scores := make([]float64, n)
	for i := range scores {
		scores[i] = m.InitScore
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	residual := make([]float64, n)
	for round := 0; round < cfg.Rounds; round++ {
		for i := range residual {
			residual[i] = float64(y[i]) - sigmoid(scores[i])
		}

		builder := &treeBuilder{
			cfg: treeConfig{maxDepth: cfg.MaxDepth, minLeaf: cfg.MinLeaf},
			rng: rng,
		}
		tree := builder.fit(x, residual, idx, 0)
		newtonLeafValues(tree, x, y, scores, idx)

		for i := range scores {
			scores[i] += cfg.LearningRate * tree.Predict(x[i])
		}
		m.Trees = append(m.Trees, tree)
	}

	return m
}

// newtonLeafValues replaces each leaf's mean-residual value with the
// one-step Newton estimate for logistic loss.
func newtonLeafValues(tree *TreeNode, x [][]float64, y []int, scores []float64, idx []int) {
	num := make(map[*TreeNode]float64)
	den := make(map[*TreeNode]float64)
	for _, i := range idx {
		leaf := tree.leafFor(x[i])
		p := sigmoid(scores[i])
		num[leaf] += float64(y[i]) - p
		den[leaf] += p * (1 - p)
	}
	for leaf, d := range den {
		if d > 1e-12 {
			leaf.Value = num[leaf] / d
		}
	}
}

// PredictProba returns the positive-class probability.
func (m *Boosting) PredictProba(x []float64) float64 {
	score := m.InitScore
	for _, tree := range m.Trees {
		score += m.LearningRate * tree.Predict(x)
	}
	return sigmoid(score)
}
