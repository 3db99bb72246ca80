package label

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// kmeansMaxIter bounds Lloyd iterations. Non-convergence within the
// budget is not an error: the best assignment so far is returned.
const kmeansMaxIter = 300

// kmeans partitions points into k clusters with seeded k-means++
// initialization followed by Lloyd iterations. Given the same points,
// k and seed, the assignment is bit-identical across runs.
func kmeans(points [][]float64, k int, seed int64) []int {
	rng := rand.New(rand.NewSource(seed))
	centroids := seedCentroids(points, k, rng)

	assignments := make([]int, len(points))
	for iter := 0; iter < kmeansMaxIter; iter++ {
		changed := false
		for i, p := range points {
			best := nearestCentroid(p, centroids)
			if assignments[i] != best {
				assignments[i] = best
				changed = true
			}
		}
		if iter > 0 && !changed {
			break
		}
		recomputeCentroids(points, assignments, centroids)
		fixEmptyClusters(points, assignments, centroids)
	}
	return assignments
}

// seedCentroids runs k-means++ seeding: the first centroid is a random
// point, each next is drawn with probability proportional to squared
// distance from the nearest chosen centroid.
func seedCentroids(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)

	first := rng.Intn(len(points))
	centroids = append(centroids, append([]float64(nil), points[first]...))

	dists := make([]float64, len(points))
	for len(centroids) < k {
		total := 0.0
		for i, p := range points {
			d := math.Inf(1)
			for _, c := range centroids {
				if sq := squaredDistance(p, c); sq < d {
					d = sq
				}
			}
			dists[i] = d
			total += d
		}

		var next int
		if total == 0 {
			// All remaining points coincide with chosen centroids;
			// any choice yields the same partition.
			next = rng.Intn(len(points))
		} else {
			target := rng.Float64() * total
			cum := 0.0
			next = len(points) - 1
			for i, d := range dists {
				cum += d
				if cum >= target {
					next = i
					break
				}
			}
		}
		centroids = append(centroids, append([]float64(nil), points[next]...))
	}
	return centroids
}

func nearestCentroid(p []float64, centroids [][]float64) int {
	best := 0
	bestDist := math.Inf(1)
	for c, centroid := range centroids {
		if d := squaredDistance(p, centroid); d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

func recomputeCentroids(points [][]float64, assignments []int, centroids [][]float64) {
	dim := len(points[0])
	counts := make([]int, len(centroids))
	sums := make([][]float64, len(centroids))
	for c := range centroids {
		sums[c] = make([]float64, dim)
	}
	for i, p := range points {
		c := assignments[i]
		floats.Add(sums[c], p)
		counts[c]++
	}
	for c := range centroids {
		if counts[c] == 0 {
			continue // handled by fixEmptyClusters
		}
		for d := 0; d < dim; d++ {
			centroids[c][d] = sums[c][d] / float64(counts[c])
		}
	}
}

// fixEmptyClusters moves the point farthest from its centroid into each
// empty cluster so the partition always has exactly k groups.
func fixEmptyClusters(points [][]float64, assignments []int, centroids [][]float64) {
	counts := make([]int, len(centroids))
	for _, c := range assignments {
		counts[c]++
	}
	for c := range centroids {
		if counts[c] > 0 {
			continue
		}
		farthest := -1
		farthestDist := -1.0
		for i, p := range points {
			if counts[assignments[i]] <= 1 {
				continue
			}
			if d := squaredDistance(p, centroids[assignments[i]]); d > farthestDist {
				farthestDist = d
				farthest = i
			}
		}
		if farthest < 0 {
			continue
		}
		counts[assignments[farthest]]--
		assignments[farthest] = c
		counts[c] = 1
		copy(centroids[c], points[farthest])
	}
}

func squaredDistance(a, b []float64) float64 {
	total := 0.0
	for i := range a {
		d := a[i] - b[i]
		total += d * d
	}
	return total
}
