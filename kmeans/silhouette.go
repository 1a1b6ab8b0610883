package kmeans

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrDegenerateLabeling is returned when the silhouette coefficient is
// undefined: fewer than two distinct labels, or as many labels as points.
var ErrDegenerateLabeling = errors.New("kmeans: silhouette undefined for this labeling")

// Silhouette returns the mean silhouette coefficient of the labeled rows
// of points, using Euclidean distances. For each sample, a is the mean
// distance to its own cluster and b the smallest mean distance to another
// cluster; the sample's coefficient is (b - a)/max(a, b), zero for
// singleton clusters. The result is always in [-1, 1].
func Silhouette(points *mat.Dense, labels []int) (float64, error) {
	n, _ := points.Dims()
	if n != len(labels) {
		panic(mat.ErrShape)
	}

	k := 0
	for _, l := range labels {
		if l+1 > k {
			k = l + 1
		}
	}
	sizes := make([]int, k)
	distinct := 0
	for _, l := range labels {
		if sizes[l] == 0 {
			distinct++
		}
		sizes[l]++
	}
	if distinct < 2 || distinct >= n {
		return 0, ErrDegenerateLabeling
	}

	var total float64
	meanDist := make([]float64, k)
	for i := 0; i < n; i++ {
		for j := range meanDist {
			meanDist[j] = 0
		}
		pi := points.RawRowView(i)
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			meanDist[labels[j]] += euclidean(pi, points.RawRowView(j))
		}

		own := labels[i]
		if sizes[own] == 1 {
			// Singleton clusters contribute zero.
			continue
		}
		a := meanDist[own] / float64(sizes[own]-1)
		b := math.Inf(1)
		for j, s := range sizes {
			if j == own || s == 0 {
				continue
			}
			if m := meanDist[j] / float64(s); m < b {
				b = m
			}
		}
		if mx := math.Max(a, b); mx > 0 {
			total += (b - a) / mx
		}
	}
	return total / float64(n), nil
}

func euclidean(a, b []float64) float64 {
	var d2 float64
	for i, v := range a {
		diff := v - b[i]
		d2 += diff * diff
	}
	return math.Sqrt(d2)
}
