package label

import (
	"errors"
	"fmt"

	"github.com/Lemiti/credit-risk-model/internal/domain"

	"gonum.org/v1/gonum/stat"
)

// ErrInsufficientData is returned when fewer than NumClusters distinct
// customers are available: a 3-way partition needs at least 3 points.
// The cluster count is never silently degraded.
var ErrInsufficientData = errors.New("risk labeler: need at least 3 distinct customers")

// NumClusters is the fixed number of RFM clusters.
const NumClusters = 3

// DefaultSeed matches the original modeling run.
const DefaultSeed = 42

// Labeler derives binary high-risk labels from RFM records. It is an
// immutable configuration; all state lives in the inputs and outputs.
type Labeler struct {
	seed int64
}

// NewLabeler creates a labeler with the given clustering seed.
func NewLabeler(seed int64) *Labeler {
	return &Labeler{seed: seed}
}

// Label standardizes RFM features, clusters customers into exactly
// NumClusters groups, and marks every member of the cluster with the
// highest mean raw recency as high risk.
//
// Clustering runs on standardized features, but the high-risk choice is
// made on original-scale recency: "hasn't transacted in a long time" is
// the business meaning, and it must not depend on the scaling of the
// other two features. Exact ties on mean recency resolve to the lowest
// cluster index so repeated runs agree.
func (l *Labeler) Label(rfm []domain.RFMRecord) ([]domain.RiskLabel, error) {
	if distinct := countDistinct(rfm); distinct < NumClusters {
		return nil, fmt.Errorf("%w: got %d", ErrInsufficientData, distinct)
	}

	points := standardizeRFM(rfm)
	assignments := kmeans(points, NumClusters, l.seed)

	// Mean raw recency per cluster.
	recencySum := make([]float64, NumClusters)
	recencyCount := make([]int, NumClusters)
	for i, r := range rfm {
		c := assignments[i]
		recencySum[c] += float64(r.Recency)
		recencyCount[c]++
	}

	highRisk := 0
	bestMean := -1.0
	for c := 0; c < NumClusters; c++ {
		if recencyCount[c] == 0 {
			continue
		}
		mean := recencySum[c] / float64(recencyCount[c])
		if mean > bestMean {
			bestMean = mean
			highRisk = c
		}
	}

	labels := make([]domain.RiskLabel, len(rfm))
	for i, r := range rfm {
		flag := 0
		if assignments[i] == highRisk {
			flag = 1
		}
		labels[i] = domain.RiskLabel{
			CustomerID: r.CustomerID,
			Cluster:    assignments[i],
			IsHighRisk: flag,
		}
	}
	return labels, nil
}

// standardizeRFM converts records to zero-mean unit-variance points
// using population statistics. A zero-variance feature standardizes to
// identically 0 instead of dividing by zero.
func standardizeRFM(rfm []domain.RFMRecord) [][]float64 {
	n := len(rfm)
	cols := [3][]float64{}
	for f := range cols {
		cols[f] = make([]float64, n)
	}
	for i, r := range rfm {
		cols[0][i] = float64(r.Recency)
		cols[1][i] = float64(r.Frequency)
		cols[2][i] = r.Monetary
	}

	points := make([][]float64, n)
	for i := range points {
		points[i] = make([]float64, 3)
	}
	for f := range cols {
		mean := stat.Mean(cols[f], nil)
		std := stat.PopStdDev(cols[f], nil)
		for i := range cols[f] {
			if std == 0 {
				points[i][f] = 0
				continue
			}
			points[i][f] = (cols[f][i] - mean) / std
		}
	}
	return points
}

func countDistinct(rfm []domain.RFMRecord) int {
	seen := make(map[string]struct{}, len(rfm))
	for _, r := range rfm {
		seen[r.CustomerID] = struct{}{}
	}
	return len(seen)
}
