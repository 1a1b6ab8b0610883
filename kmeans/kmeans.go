// Package kmeans implements Lloyd's algorithm with random restarts over
// the rows of a gonum matrix, used to discretize a spectral embedding into
// hard cluster labels.
package kmeans

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// KMeans clusters the rows of a matrix into Clusters groups. Restarts
// independent runs are performed and the assignment with the lowest
// inertia (sum of squared distances to the assigned center) wins.
type KMeans struct {
	Clusters int
	Restarts int
	MaxIter  int
	Seed     uint64
}

// Fit runs the clustering and returns per-row labels in [0, Clusters),
// the Clusters x d center matrix and the winning inertia.
func (km *KMeans) Fit(points *mat.Dense) (labels []int, centers *mat.Dense, inertia float64, err error) {
	n, d := points.Dims()
	if km.Clusters < 2 {
		return nil, nil, 0, ErrBadClusterCount
	}
	if n < km.Clusters {
		return nil, nil, 0, ErrTooFewPoints
	}
	restarts := km.Restarts
	if restarts < 1 {
		restarts = 1
	}
	maxIter := km.MaxIter
	if maxIter <= 0 {
		maxIter = 300
	}

	rnd := rand.New(rand.NewSource(km.Seed))
	inertia = math.Inf(1)
	for run := 0; run < restarts; run++ {
		l, c, in := km.lloyd(points, n, d, maxIter, rnd)
		if in < inertia {
			labels, centers, inertia = l, c, in
		}
	}
	return labels, centers, inertia, nil
}

// lloyd performs a single run from a random-point initialization.
func (km *KMeans) lloyd(points *mat.Dense, n, d, maxIter int, rnd *rand.Rand) ([]int, *mat.Dense, float64) {
	k := km.Clusters
	centers := mat.NewDense(k, d, nil)

	// Seed centers with distinct data points.
	perm := rnd.Perm(n)
	for j := 0; j < k; j++ {
		centers.SetRow(j, points.RawRowView(perm[j]))
	}

	labels := make([]int, n)
	for i := range labels {
		labels[i] = -1
	}
	counts := make([]int, k)
	sums := mat.NewDense(k, d, nil)

	for iter := 0; iter < maxIter; iter++ {
		changed := false

		// Assignment step.
		for i := 0; i < n; i++ {
			best, _ := nearest(points.RawRowView(i), centers)
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}
		if !changed {
			break
		}

		// Update step.
		sums.Zero()
		for j := range counts {
			counts[j] = 0
		}
		for i := 0; i < n; i++ {
			j := labels[i]
			row := sums.RawRowView(j)
			floats.Add(row, points.RawRowView(i))
			counts[j]++
		}
		for j := 0; j < k; j++ {
			if counts[j] > 0 {
				row := centers.RawRowView(j)
				copy(row, sums.RawRowView(j))
				floats.Scale(1/float64(counts[j]), row)
			} else {
				// Re-seed an empty cluster with a random point.
				centers.SetRow(j, points.RawRowView(rnd.Intn(n)))
			}
		}
	}

	var inertia float64
	for i := 0; i < n; i++ {
		_, d2 := nearest(points.RawRowView(i), centers)
		inertia += d2
	}
	return labels, centers, inertia
}

// nearest returns the index of the closest center row and the squared
// distance to it.
func nearest(p []float64, centers *mat.Dense) (int, float64) {
	k, _ := centers.Dims()
	best := -1
	bestDist := math.Inf(1)
	for j := 0; j < k; j++ {
		c := centers.RawRowView(j)
		var d2 float64
		for i, v := range p {
			diff := v - c[i]
			d2 += diff * diff
		}
		if d2 < bestDist {
			best = j
			bestDist = d2
		}
	}
	return best, bestDist
}

// CheckAssignments verifies that every cluster id in [0, clusters) has at
// least one member, returning an *EmptyClusterError for the first one that
// does not. It is a post-hoc check; Fit itself re-seeds empty clusters
// during iteration and does not call it.
func CheckAssignments(labels []int, clusters int) error {
	seen := make([]bool, clusters)
	for _, l := range labels {
		if l >= 0 && l < clusters {
			seen[l] = true
		}
	}
	for j, ok := range seen {
		if !ok {
			return &EmptyClusterError{Cluster: j}
		}
	}
	return nil
}
