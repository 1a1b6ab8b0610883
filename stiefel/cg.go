package stiefel

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ImBeji/TV-Clustering/internal/matutil"
)

// Problem bundles a smooth cost and its Euclidean gradient over a Stiefel
// manifold. Grad writes the ambient gradient at x into dst; the minimizer
// projects it onto the tangent space itself.
type Problem struct {
	Manifold Manifold
	Cost     func(x *mat.Dense) float64
	Grad     func(dst, x *mat.Dense)
}

// Result reports the outcome of a minimization. Converged is false when
// the iteration cap was reached before the gradient tolerance; the best
// iterate is still returned.
type Result struct {
	X          *mat.Dense
	Cost       float64
	GradNorm   float64
	Iterations int
	Converged  bool
}

// Minimizer finds a feasible point of low cost for a manifold problem
// starting from x0.
type Minimizer interface {
	Minimize(p Problem, x0 *mat.Dense) Result
}

// CG is a Riemannian conjugate-gradient minimizer with Polak-Ribiere+
// direction updates, vector transport by tangent projection and an Armijo
// backtracking line search with Gram-Schmidt retraction.
type CG struct {
	// MaxIter caps the number of outer iterations.
	MaxIter int
	// GradTol is the Riemannian gradient norm at which the iteration is
	// declared converged.
	GradTol float64
	// InitialStep seeds the very first line search.
	InitialStep float64
}

// NewCG returns a CG minimizer with the default tolerances.
func NewCG() *CG {
	return &CG{
		MaxIter:     100,
		GradTol:     1e-6,
		InitialStep: 1,
	}
}

const (
	armijoSufficient  = 1e-4
	armijoContraction = 0.5
	armijoMaxTrials   = 40
)

// Minimize runs the conjugate-gradient iteration. An infeasible x0
// (including the all-zero matrix) is first retracted onto the manifold.
// Non-convergence within MaxIter is not an error; the caller inspects
// Result.Converged if it cares.
func (cg *CG) Minimize(p Problem, x0 *mat.Dense) Result {
	man := p.Manifold
	x := mat.NewDense(man.N, man.P, nil)
	x.Copy(x0)
	if OrthoError(x) > 1e-10 {
		man.Retract(x, x)
	}

	egrad := mat.NewDense(man.N, man.P, nil)
	grad := mat.NewDense(man.N, man.P, nil)
	dir := mat.NewDense(man.N, man.P, nil)
	cand := mat.NewDense(man.N, man.P, nil)

	cost := p.Cost(x)
	p.Grad(egrad, x)
	man.Project(grad, x, egrad)
	gradNorm := mat.Norm(grad, 2)
	dir.Scale(-1, grad)

	step := cg.InitialStep
	iter := 0
	for ; iter < cg.MaxIter; iter++ {
		if gradNorm < cg.GradTol {
			return Result{X: x, Cost: cost, GradNorm: gradNorm, Iterations: iter, Converged: true}
		}

		slope := matutil.FrobDot(grad, dir)
		if slope >= 0 {
			// Not a descent direction; restart with steepest descent.
			dir.Scale(-1, grad)
			slope = -gradNorm * gradNorm
		}

		t := step
		ok := false
		var candCost float64
		for trial := 0; trial < armijoMaxTrials; trial++ {
			cand.Copy(x)
			cand.Add(cand, scaled(dir, t))
			man.Retract(cand, cand)
			candCost = p.Cost(cand)
			if candCost <= cost+armijoSufficient*t*slope {
				ok = true
				break
			}
			t *= armijoContraction
		}
		if !ok {
			// Line search stalled; x is the best iterate we have.
			break
		}
		// Reuse a slightly enlarged accepted step next time.
		step = t / armijoContraction

		x, cand = cand, x
		cost = candCost

		// New Riemannian gradient and PR+ coefficient. The previous
		// gradient and direction are transported by projection onto the
		// new tangent space.
		prevGradSq := gradNorm * gradNorm
		transported := man.Project(nil, x, grad)
		p.Grad(egrad, x)
		man.Project(grad, x, egrad)
		gradNorm = mat.Norm(grad, 2)

		var diff mat.Dense
		diff.Sub(grad, transported)
		beta := math.Max(0, matutil.FrobDot(grad, &diff)/prevGradSq)

		man.Project(dir, x, dir)
		dir.Scale(beta, dir)
		dir.Sub(dir, grad)
	}

	return Result{X: x, Cost: cost, GradNorm: gradNorm, Iterations: iter, Converged: gradNorm < cg.GradTol}
}

// scaled returns a fresh copy of m scaled by f.
func scaled(m *mat.Dense, f float64) *mat.Dense {
	r, c := m.Dims()
	out := mat.NewDense(r, c, nil)
	out.Scale(f, m)
	return out
}
