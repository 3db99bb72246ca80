// Package metrics computes classification evaluation metrics for the
// risk models. All functions are pure and deterministic over their
// inputs; positive class is is_high_risk = 1 throughout.
package metrics

import "sort"

// Report holds the evaluation metrics of one model on a held-out set.
type Report struct {
	Accuracy  float64
	Precision float64
	Recall    float64
	F1        float64
	ROCAUC    float64
}

// Evaluate computes all metrics from true labels, hard predictions and
// positive-class probabilities. The three slices are row-aligned.
func Evaluate(yTrue, yPred []int, probs []float64) Report {
	return Report{
		Accuracy:  Accuracy(yTrue, yPred),
		Precision: Precision(yTrue, yPred),
		Recall:    Recall(yTrue, yPred),
		F1:        F1(yTrue, yPred),
		ROCAUC:    ROCAUC(yTrue, probs),
	}
}

// Accuracy is the fraction of exact matches.
func Accuracy(yTrue, yPred []int) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue))
}

// Precision is TP / (TP + FP). Returns 0 when nothing was predicted
// positive.
func Precision(yTrue, yPred []int) float64 {
	tp, fp, _ := confusion(yTrue, yPred)
	if tp+fp == 0 {
		return 0
	}
	return float64(tp) / float64(tp+fp)
}

// Recall is TP / (TP + FN). Returns 0 when no positives exist.
func Recall(yTrue, yPred []int) float64 {
	tp, _, fn := confusion(yTrue, yPred)
	if tp+fn == 0 {
		return 0
	}
	return float64(tp) / float64(tp+fn)
}

// F1 is the harmonic mean of precision and recall.
func F1(yTrue, yPred []int) float64 {
	p := Precision(yTrue, yPred)
	r := Recall(yTrue, yPred)
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

// ROCAUC computes the area under the ROC curve via the rank-sum
// (Mann-Whitney U) formulation, with midranks for tied scores.
// Returns 0.5 when either class is absent: the curve is undefined and
// 0.5 is the uninformative default.
func ROCAUC(yTrue []int, probs []float64) float64 {
	n := len(yTrue)
	pos := 0
	for _, y := range yTrue {
		if y == 1 {
			pos++
		}
	}
	neg := n - pos
	if pos == 0 || neg == 0 {
		return 0.5
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return probs[order[a]] < probs[order[b]]
	})

	// Midranks over tied probability groups.
	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j < n && probs[order[j]] == probs[order[i]] {
			j++
		}
		mid := float64(i+j+1) / 2 // ranks are 1-based
		for k := i; k < j; k++ {
			ranks[order[k]] = mid
		}
		i = j
	}

	rankSum := 0.0
	for i, y := range yTrue {
		if y == 1 {
			rankSum += ranks[i]
		}
	}
	u := rankSum - float64(pos)*float64(pos+1)/2
	return u / (float64(pos) * float64(neg))
}

func confusion(yTrue, yPred []int) (tp, fp, fn int) {
	for i := range yTrue {
		switch {
		case yPred[i] == 1 && yTrue[i] == 1:
			tp++
		case yPred[i] == 1 && yTrue[i] == 0:
			fp++
		case yPred[i] == 0 && yTrue[i] == 1:
			fn++
		}
	}
	return tp, fp, fn
}
