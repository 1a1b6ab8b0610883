// Package stiefel implements optimization over the Stiefel manifold, the
// set of n x p matrices with orthonormal columns. It provides the manifold
// geometry (tangent projection and a Gram-Schmidt retraction) and a
// Riemannian conjugate-gradient minimizer.
package stiefel

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/ImBeji/TV-Clustering/internal/matutil"
)

// Manifold describes the Stiefel manifold St(n, p) of n x p matrices X
// with XᵗX = I.
type Manifold struct {
	N, P int
}

// Dims returns the ambient matrix dimensions (n, p).
func (m Manifold) Dims() (n, p int) { return m.N, m.P }

// Project places into dst the projection of the ambient gradient g onto
// the tangent space at x:
//
//	P_x(g) = g - x sym(xᵗg),  sym(A) = (A + Aᵗ)/2
//
// If dst is nil a new matrix is allocated; either way the result is
// returned.
func (m Manifold) Project(dst, x, g *mat.Dense) *mat.Dense {
	if dst == nil {
		dst = mat.NewDense(m.N, m.P, nil)
	}
	var xtg, sym, corr mat.Dense
	xtg.Mul(x.T(), g)
	sym.Add(&xtg, xtg.T())
	sym.Scale(0.5, &sym)
	corr.Mul(x, &sym)
	dst.Sub(g, &corr)
	return dst
}

// Retract maps an ambient point x back onto the manifold by modified
// Gram-Schmidt orthonormalization of its columns. Columns that vanish
// during orthogonalization (rank-deficient x, including the all-zero
// matrix) are replaced by the first canonical basis vector independent of
// the columns built so far, so the result is always a valid Stiefel point.
// If dst is nil a new matrix is allocated; either way the result is
// returned. dst may alias x.
func (m Manifold) Retract(dst, x *mat.Dense) *mat.Dense {
	if dst == nil {
		dst = mat.NewDense(m.N, m.P, nil)
	}
	if dst != x {
		dst.Copy(x)
	}
	const tiny = 1e-12
	col := make([]float64, m.N)
	prev := make([]float64, m.N)
	for j := 0; j < m.P; j++ {
		mat.Col(col, j, dst)
		for k := 0; k < j; k++ {
			mat.Col(prev, k, dst)
			r := dot(col, prev)
			for i := range col {
				col[i] -= r * prev[i]
			}
		}
		if nrm := norm(col); nrm > tiny {
			scale(col, 1/nrm)
			dst.SetCol(j, col)
			continue
		}
		// Degenerate column: seed with canonical basis vectors until one
		// survives orthogonalization against the columns already placed.
		for e := 0; e < m.N; e++ {
			for i := range col {
				col[i] = 0
			}
			col[e] = 1
			for k := 0; k < j; k++ {
				mat.Col(prev, k, dst)
				r := dot(col, prev)
				for i := range col {
					col[i] -= r * prev[i]
				}
			}
			if nrm := norm(col); nrm > tiny {
				scale(col, 1/nrm)
				break
			}
		}
		dst.SetCol(j, col)
	}
	return dst
}

// Random returns a uniformly drawn point on the manifold, obtained by
// retracting a standard Gaussian matrix.
func (m Manifold) Random(rnd *rand.Rand) *mat.Dense {
	data := make([]float64, m.N*m.P)
	for i := range data {
		data[i] = rnd.NormFloat64()
	}
	return m.Retract(nil, mat.NewDense(m.N, m.P, data))
}

// OrthoError returns the Frobenius norm of xᵗx - I, the distance of x from
// column orthonormality.
func OrthoError(x mat.Matrix) float64 {
	_, p := x.Dims()
	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	return matutil.FrobDiff(&xtx, matutil.Eye(p))
}

func dot(a, b []float64) float64 {
	var s float64
	for i, v := range a {
		s += v * b[i]
	}
	return s
}

func norm(a []float64) float64 {
	var s float64
	for _, v := range a {
		s += v * v
	}
	return math.Sqrt(s)
}

func scale(a []float64, f float64) {
	for i := range a {
		a[i] *= f
	}
}
