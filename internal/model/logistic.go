// Package model implements the classifiers trained against the proxy
// risk label, plus importance-based feature selection. Models expose
// explicit serializable parameters so a fitted model can travel inside
// the artifact bundle and be reloaded by the prediction server.
package model

import (
	"math"
	"math/rand"
)

// Classifier scores a feature vector with the probability of the
// positive (high-risk) class.
type Classifier interface {
	PredictProba(x []float64) float64
}

// Predict applies the 0.5 decision threshold.
func Predict(c Classifier, x []float64) int {
	if c.PredictProba(x) >= 0.5 {
		return 1
	}
	return 0
}

// LogisticConfig holds logistic regression hyperparameters.
type LogisticConfig struct {
	LearningRate float64
	Epochs       int
	L2           float64
	Seed         int64
}

// DefaultLogisticConfig mirrors the original training run: up to 1000
// full-batch iterations, balanced class weights.
func DefaultLogisticConfig() LogisticConfig {
	return LogisticConfig{
		LearningRate: 0.1,
		Epochs:       1000,
		L2:           1e-3,
		Seed:         42,
	}
}

// Logistic is an L2-regularized logistic regression with balanced class
// weights, fitted by full-batch gradient descent.
type Logistic struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

// FitLogistic trains on rows X with binary labels y. Class weights are
// balanced: each class contributes equally to the gradient regardless
// of its frequency, which matters because the proxy label is produced
// by one cluster out of three and is usually a minority.
func FitLogistic(x [][]float64, y []int, cfg LogisticConfig) *Logistic {
	n := len(x)
	if n == 0 {
		return &Logistic{}
	}
	p := len(x[0])

	pos := 0
	for _, label := range y {
		if label == 1 {
			pos++
		}
	}
	neg := n - pos
	// balanced: w_c = n / (2 * n_c)
	posWeight, negWeight := 1.0, 1.0
	if pos > 0 && neg > 0 {
		posWeight = float64(n) / (2 * float64(pos))
		negWeight = float64(n) / (2 * float64(neg))
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	weights := make([]float64, p)
	for i := range weights {
		weights[i] = rng.NormFloat64() * 0.01
	}
	bias := 0.0

	grad := make([]float64, p)
	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		for i := range grad {
			grad[i] = 0
		}
		biasGrad := 0.0

		for i, row := range x {
			pred := sigmoid(dot(weights, row) + bias)
			sampleWeight := negWeight
			if y[i] == 1 {
				sampleWeight = posWeight
			}
			err := sampleWeight * (pred - float64(y[i]))
			for j, v := range row {
				grad[j] += err * v
			}
			biasGrad += err
		}

		scale := cfg.LearningRate / float64(n)
		maxStep := 0.0
		for j := range weights {
			step := scale * (grad[j] + cfg.L2*weights[j])
			weights[j] -= step
			if s := math.Abs(step); s > maxStep {
				maxStep = s
			}
		}
		bias -= scale * biasGrad

		if maxStep < 1e-8 {
			break
		}
	}

	return &Logistic{Weights: weights, Bias: bias}
}

// PredictProba returns the probability of the high-risk class.
func (m *Logistic) PredictProba(x []float64) float64 {
	return sigmoid(dot(m.Weights, x) + m.Bias)
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func dot(a, b []float64) float64 {
	total := 0.0
	for i := range a {
		total += a[i] * b[i]
	}
	return total
}
