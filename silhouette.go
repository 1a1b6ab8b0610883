package tvclust

import (
	"gonum.org/v1/gonum/mat"

	"github.com/ImBeji/TV-Clustering/kmeans"
)

// SilhouetteScore fits the estimator on the collection and returns the
// mean silhouette coefficient of the resulting labeling, computed over the
// pairwise similarities between embedding rows and cluster centers
// (the rows of H Cᵗ). The value lies in [-1, 1].
func (t *TVKernelKMeans) SilhouetteScore(series []*mat.Dense) (float64, error) {
	if err := t.Fit(series); err != nil {
		return 0, err
	}
	var sim mat.Dense
	sim.Mul(t.state.H, t.centers.T())
	return kmeans.Silhouette(&sim, t.labels)
}
