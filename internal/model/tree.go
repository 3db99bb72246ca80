package model

import (
	"math/rand"
	"sort"
)

// TreeNode is one node of a regression tree. Leaves carry Value; split
// nodes route on Feature <= Threshold. Exported fields make fitted
// trees JSON-serializable for the artifact bundle.
type TreeNode struct {
	Feature   int       `json:"feature,omitempty"`
	Threshold float64   `json:"threshold,omitempty"`
	Left      *TreeNode `json:"left,omitempty"`
	Right     *TreeNode `json:"right,omitempty"`
	Value     float64   `json:"value"`
	Leaf      bool      `json:"leaf"`
}

// Predict routes x to a leaf and returns its value.
func (n *TreeNode) Predict(x []float64) float64 {
	node := n
	for !node.Leaf {
		if x[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Value
}

// leafFor returns the leaf node x routes to. Used by gradient boosting
// to adjust leaf values after fitting to residuals.
func (n *TreeNode) leafFor(x []float64) *TreeNode {
	node := n
	for !node.Leaf {
		if x[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node
}

// treeConfig controls regression tree growth.
type treeConfig struct {
	maxDepth    int
	minLeaf     int
	maxFeatures int // features tried per split; 0 means all
}

// treeBuilder grows variance-reducing regression trees. For 0/1 targets
// variance reduction is proportional to gini impurity decrease, so the
// same builder serves both the importance forest and the boosting base
// learner. importance, when non-nil, accumulates the weighted impurity
// decrease per feature across every split.
type treeBuilder struct {
	cfg        treeConfig
	rng        *rand.Rand
	importance []float64
}

// fit grows a tree over the sample index set idx.
func (b *treeBuilder) fit(x [][]float64, target []float64, idx []int, depth int) *TreeNode {
	if len(idx) <= b.cfg.minLeaf || depth >= b.cfg.maxDepth || constantTarget(target, idx) {
		return &TreeNode{Leaf: true, Value: meanTarget(target, idx)}
	}

	feature, threshold, gain := b.bestSplit(x, target, idx)
	if feature < 0 {
		return &TreeNode{Leaf: true, Value: meanTarget(target, idx)}
	}

	var left, right []int
	for _, i := range idx {
		if x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &TreeNode{Leaf: true, Value: meanTarget(target, idx)}
	}

	if b.importance != nil {
		b.importance[feature] += gain * float64(len(idx))
	}

	return &TreeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      b.fit(x, target, left, depth+1),
		Right:     b.fit(x, target, right, depth+1),
	}
}

// bestSplit scans candidate features for the split with the highest
// variance reduction. Returns feature -1 when no split improves.
func (b *treeBuilder) bestSplit(x [][]float64, target []float64, idx []int) (int, float64, float64) {
	p := len(x[0])
	features := make([]int, p)
	for i := range features {
		features[i] = i
	}
	if b.cfg.maxFeatures > 0 && b.cfg.maxFeatures < p {
		b.rng.Shuffle(p, func(i, j int) { features[i], features[j] = features[j], features[i] })
		features = features[:b.cfg.maxFeatures]
		sort.Ints(features) // deterministic scan order for a given draw
	}

	parentImpurity := variance(target, idx)
	bestFeature := -1
	bestThreshold := 0.0
	bestGain := 1e-12

	values := make([]float64, len(idx))
	for _, feature := range features {
		for i, sample := range idx {
			values[i] = x[sample][feature]
		}
		sorted := append([]float64(nil), values...)
		sort.Float64s(sorted)

		for i := 0; i+1 < len(sorted); i++ {
			if sorted[i] == sorted[i+1] {
				continue
			}
			threshold := (sorted[i] + sorted[i+1]) / 2

			var leftN, rightN int
			var leftSum, rightSum, leftSq, rightSq float64
			for _, sample := range idx {
				t := target[sample]
				if x[sample][feature] <= threshold {
					leftN++
					leftSum += t
					leftSq += t * t
				} else {
					rightN++
					rightSum += t
					rightSq += t * t
				}
			}
			if leftN == 0 || rightN == 0 {
				continue
			}

			leftVar := leftSq/float64(leftN) - (leftSum/float64(leftN))*(leftSum/float64(leftN))
			rightVar := rightSq/float64(rightN) - (rightSum/float64(rightN))*(rightSum/float64(rightN))
			weighted := (float64(leftN)*leftVar + float64(rightN)*rightVar) / float64(len(idx))

			if gain := parentImpurity - weighted; gain > bestGain {
				bestGain = gain
				bestFeature = feature
				bestThreshold = threshold
			}
		}
	}

	return bestFeature, bestThreshold, bestGain
}

func variance(target []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	var sum, sq float64
	for _, i := range idx {
		sum += target[i]
		sq += target[i] * target[i]
	}
	n := float64(len(idx))
	mean := sum / n
	return sq/n - mean*mean
}

func meanTarget(target []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	sum := 0.0
	for _, i := range idx {
		sum += target[i]
	}
	return sum / float64(len(idx))
}

func constantTarget(target []float64, idx []int) bool {
	for _, i := range idx[1:] {
		if target[i] != target[idx[0]] {
			return false
		}
	}
	return true
}
