package admm

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// SoftShrink is the scalar proximal operator of the l1 norm,
// sign(v) max(|v| - kappa, 0), in the branch-free max form.
func SoftShrink(v, kappa float64) float64 {
	return math.Max(0, v-kappa) - math.Max(0, -v-kappa)
}

// SoftShrinkTo applies SoftShrink elementwise to m. If dst is nil a new
// matrix is allocated; either way the result is returned. dst may alias m.
func SoftShrinkTo(dst *mat.Dense, m mat.Matrix, kappa float64) *mat.Dense {
	r, c := m.Dims()
	if dst == nil {
		dst = mat.NewDense(r, c, nil)
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			dst.Set(i, j, SoftShrink(m.At(i, j), kappa))
		}
	}
	return dst
}
