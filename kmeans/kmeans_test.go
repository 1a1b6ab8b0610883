package kmeans

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// twoBlobs returns n points per blob around the given means.
func twoBlobs(n int, meanA, meanB float64, seed uint64) *mat.Dense {
	rnd := rand.New(rand.NewSource(seed))
	pts := mat.NewDense(2*n, 2, nil)
	for i := 0; i < n; i++ {
		pts.Set(i, 0, meanA+rnd.NormFloat64()*0.3)
		pts.Set(i, 1, meanA+rnd.NormFloat64()*0.3)
		pts.Set(n+i, 0, meanB+rnd.NormFloat64()*0.3)
		pts.Set(n+i, 1, meanB+rnd.NormFloat64()*0.3)
	}
	return pts
}

func TestFitSeparatesBlobs(t *testing.T) {
	pts := twoBlobs(30, 0, 8, 1)
	km := &KMeans{Clusters: 2, Restarts: 5, MaxIter: 100, Seed: 1}

	labels, centers, inertia, err := km.Fit(pts)
	require.NoError(t, err)
	require.Len(t, labels, 60)

	// All points of a blob share one label, and the blobs differ.
	for i := 1; i < 30; i++ {
		assert.Equal(t, labels[0], labels[i])
		assert.Equal(t, labels[30], labels[30+i])
	}
	assert.NotEqual(t, labels[0], labels[30])

	r, c := centers.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 2, c)
	assert.Greater(t, inertia, 0.0)
}

func TestFitValidation(t *testing.T) {
	pts := twoBlobs(2, 0, 1, 2)

	_, _, _, err := (&KMeans{Clusters: 1}).Fit(pts)
	assert.ErrorIs(t, err, ErrBadClusterCount)

	_, _, _, err = (&KMeans{Clusters: 5}).Fit(mat.NewDense(3, 2, nil))
	assert.ErrorIs(t, err, ErrTooFewPoints)
}

func TestCheckAssignments(t *testing.T) {
	assert.NoError(t, CheckAssignments([]int{0, 1, 2, 0}, 3))

	err := CheckAssignments([]int{0, 0, 2}, 3)
	require.Error(t, err)
	var empty *EmptyClusterError
	require.True(t, errors.As(err, &empty))
	assert.Equal(t, 1, empty.Cluster)
}

func TestSilhouetteRangeAndQuality(t *testing.T) {
	pts := twoBlobs(20, 0, 8, 3)
	labels := make([]int, 40)
	for i := 20; i < 40; i++ {
		labels[i] = 1
	}

	s, err := Silhouette(pts, labels)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, s, -1.0)
	assert.LessOrEqual(t, s, 1.0)
	// Well separated blobs score high.
	assert.Greater(t, s, 0.8)

	// A shuffled labeling scores worse.
	bad := make([]int, 40)
	for i := range bad {
		bad[i] = i % 2
	}
	sBad, err := Silhouette(pts, bad)
	require.NoError(t, err)
	assert.Less(t, sBad, s)
}

func TestSilhouetteDegenerate(t *testing.T) {
	pts := twoBlobs(5, 0, 1, 4)
	_, err := Silhouette(pts, make([]int, 10))
	assert.ErrorIs(t, err, ErrDegenerateLabeling)
}
