package difference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

func TestNewValidatesLengths(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrNoSeries)

	_, err = New([]int{5, 1, 4})
	assert.ErrorIs(t, err, ErrShortSeries)

	_, err = New([]int{2})
	assert.NoError(t, err)
}

func TestOperatorShapeAndEntries(t *testing.T) {
	lengths := []int{3, 2, 4}
	op, err := New(lengths)
	require.NoError(t, err)

	r, c := op.Dims()
	assert.Equal(t, 9, r)
	assert.Equal(t, 6, c)

	// Expected dense layout: per block, +1 on the diagonal and -1 on the
	// subdiagonal, zero elsewhere.
	want := mat.NewDense(9, 6, nil)
	// block 0 (rows 0..2, cols 0..1)
	want.Set(0, 0, 1)
	want.Set(1, 0, -1)
	want.Set(1, 1, 1)
	want.Set(2, 1, -1)
	// block 1 (rows 3..4, col 2)
	want.Set(3, 2, 1)
	want.Set(4, 2, -1)
	// block 2 (rows 5..8, cols 3..5)
	want.Set(5, 3, 1)
	want.Set(6, 3, -1)
	want.Set(6, 4, 1)
	want.Set(7, 4, -1)
	want.Set(7, 5, 1)
	want.Set(8, 5, -1)

	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			assert.Equal(t, want.At(i, j), op.At(i, j), "entry (%d,%d)", i, j)
		}
	}
	assert.True(t, mat.Equal(want, op.Dense()))
}

func TestStructuredProductsMatchDense(t *testing.T) {
	op, err := New([]int{4, 2, 3})
	require.NoError(t, err)
	n, m := op.Dims()

	rnd := rand.New(rand.NewSource(7))
	q := 3
	a := mat.NewDense(q, n, nil)
	for i := 0; i < q; i++ {
		for j := 0; j < n; j++ {
			a.Set(i, j, rnd.NormFloat64())
		}
	}
	b := mat.NewDense(q, m, nil)
	for i := 0; i < q; i++ {
		for j := 0; j < m; j++ {
			b.Set(i, j, rnd.NormFloat64())
		}
	}

	d := op.Dense()

	var want mat.Dense
	want.Mul(a, d)
	got := op.MulRight(nil, a)
	assert.InDelta(t, 0, frob(&want, got), 1e-12)

	want.Reset()
	want.Mul(d, b.T())
	got = op.MulTrans(nil, b)
	assert.InDelta(t, 0, frob(&want, got), 1e-12)
}

func frob(a, b mat.Matrix) float64 {
	var diff mat.Dense
	diff.Sub(a, b)
	return mat.Norm(&diff, 2)
}
