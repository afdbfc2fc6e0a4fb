package hotspot

import (
	"math"
	"math/rand"
)

const (
	kmeansSeed          = 42
	kmeansMaxIterations = 300
)

// standardize scales each column to zero mean and unit variance, matching
// the preprocessing the clusterer expects. Constant columns keep their
// centered values.
func standardize(points [][2]float64) [][2]float64 {
	n := float64(len(points))
	if n == 0 {
		return nil
	}

	var mean, variance [2]float64
	for _, p := range points {
		mean[0] += p[0]
		mean[1] += p[1]
	}
	mean[0] /= n
	mean[1] /= n

	for _, p := range points {
		variance[0] += (p[0] - mean[0]) * (p[0] - mean[0])
		variance[1] += (p[1] - mean[1]) * (p[1] - mean[1])
	}
	std := [2]float64{math.Sqrt(variance[0] / n), math.Sqrt(variance[1] / n)}
	if std[0] == 0 {
		std[0] = 1
	}
	if std[1] == 0 {
		std[1] = 1
	}

	scaled := make([][2]float64, len(points))
	for i, p := range points {
		scaled[i] = [2]float64{(p[0] - mean[0]) / std[0], (p[1] - mean[1]) / std[1]}
	}
	return scaled
}

// kmeans partitions points into at most k clusters using Lloyd's algorithm
// with a fixed seed, so identical inputs produce identical labels. k is
// clamped to the number of points.
func kmeans(points [][2]float64, k int) []int {
	n := len(points)
	if n == 0 || k <= 0 {
		return nil
	}
	if k > n {
		k = n
	}

	rng := rand.New(rand.NewSource(kmeansSeed))

	// Initialize centroids on distinct input points
	perm := rng.Perm(n)
	centroids := make([][2]float64, k)
	for i := 0; i < k; i++ {
		centroids[i] = points[perm[i]]
	}

	labels := make([]int, n)
	for iter := 0; iter < kmeansMaxIterations; iter++ {
		changed := false

		// Assignment step
		for i, p := range points {
			best := 0
			bestDist := math.MaxFloat64
			for c, centroid := range centroids {
				d := squaredDistance(p, centroid)
				if d < bestDist {
					bestDist = d
					best = c
				}
			}
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}

		if !changed && iter > 0 {
			break
		}

		// Update step
		sums := make([][2]float64, k)
		counts := make([]int, k)
		for i, p := range points {
			c := labels[i]
			sums[c][0] += p[0]
			sums[c][1] += p[1]
			counts[c]++
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				// Re-seed an empty cluster on a random point
				centroids[c] = points[rng.Intn(n)]
				continue
			}
			centroids[c] = [2]float64{sums[c][0] / float64(counts[c]), sums[c][1] / float64(counts[c])}
		}
	}

	return labels
}

func squaredDistance(a, b [2]float64) float64 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	return dx*dx + dy*dy
}
