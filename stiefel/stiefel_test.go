package stiefel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/ImBeji/TV-Clustering/internal/matutil"
)

func TestRetractGivesOrthonormalColumns(t *testing.T) {
	man := Manifold{N: 8, P: 3}
	rnd := rand.New(rand.NewSource(11))

	x := mat.NewDense(8, 3, nil)
	for i := 0; i < 8; i++ {
		for j := 0; j < 3; j++ {
			x.Set(i, j, rnd.NormFloat64())
		}
	}
	q := man.Retract(nil, x)
	assert.InDelta(t, 0, OrthoError(q), 1e-10)
}

func TestRetractZeroMatrix(t *testing.T) {
	man := Manifold{N: 5, P: 2}
	q := man.Retract(nil, mat.NewDense(5, 2, nil))
	assert.InDelta(t, 0, OrthoError(q), 1e-10)
	// The zero matrix retracts to the leading canonical basis columns.
	assert.InDelta(t, 1, q.At(0, 0), 1e-12)
	assert.InDelta(t, 1, q.At(1, 1), 1e-12)
}

func TestProjectIsTangent(t *testing.T) {
	man := Manifold{N: 7, P: 2}
	rnd := rand.New(rand.NewSource(5))
	x := man.Random(rnd)

	g := mat.NewDense(7, 2, nil)
	for i := 0; i < 7; i++ {
		for j := 0; j < 2; j++ {
			g.Set(i, j, rnd.NormFloat64())
		}
	}
	xi := man.Project(nil, x, g)

	// Tangency at x: xᵗxi + xiᵗx = 0.
	var a, b mat.Dense
	a.Mul(x.T(), xi)
	b.Add(&a, a.T())
	assert.InDelta(t, 0, mat.Norm(&b, 2), 1e-10)
}

// rayleighProblem maximizes tr(XᵗAX) for a symmetric positive definite A,
// i.e. minimizes its negation; the minimizer spans the leading
// eigenvectors.
func rayleighProblem(a *mat.Dense, p int) Problem {
	n, _ := a.Dims()
	return Problem{
		Manifold: Manifold{N: n, P: p},
		Cost: func(x *mat.Dense) float64 {
			var ax mat.Dense
			ax.Mul(a, x)
			return -matutil.FrobDot(x, &ax)
		},
		Grad: func(dst, x *mat.Dense) {
			dst.Mul(a, x)
			dst.Scale(-2, dst)
		},
	}
}

func TestCGSolvesRayleigh(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	n, p := 10, 2
	b := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			b.Set(i, j, rnd.NormFloat64())
		}
	}
	var a mat.Dense
	a.Mul(b, b.T()) // symmetric PSD

	prob := rayleighProblem(&a, p)
	man := prob.Manifold
	x0 := man.Random(rnd)
	startCost := prob.Cost(x0)

	res := NewCG().Minimize(prob, x0)
	require.NotNil(t, res.X)

	// Feasible and no worse than the start.
	assert.InDelta(t, 0, OrthoError(res.X), 1e-6)
	assert.LessOrEqual(t, res.Cost, startCost)
	assert.False(t, matutil.HasNaNOrInf(res.X))
}

func TestCGFromZeroStart(t *testing.T) {
	rnd := rand.New(rand.NewSource(9))
	n, p := 6, 2
	b := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			b.Set(i, j, rnd.NormFloat64())
		}
	}
	var a mat.Dense
	a.Mul(b, b.T())

	res := NewCG().Minimize(rayleighProblem(&a, p), mat.NewDense(n, p, nil))
	assert.InDelta(t, 0, OrthoError(res.X), 1e-6)
}

func TestCGReportsCapWithoutError(t *testing.T) {
	rnd := rand.New(rand.NewSource(4))
	n, p := 12, 3
	b := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			b.Set(i, j, rnd.NormFloat64())
		}
	}
	var a mat.Dense
	a.Mul(b, b.T())

	cg := NewCG()
	cg.MaxIter = 1
	res := cg.Minimize(rayleighProblem(&a, p), Manifold{N: n, P: p}.Random(rnd))

	// Best iterate comes back feasible even when the cap cuts the run
	// short.
	assert.LessOrEqual(t, res.Iterations, 1)
	assert.InDelta(t, 0, OrthoError(res.X), 1e-6)
}
