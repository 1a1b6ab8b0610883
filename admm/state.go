package admm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ImBeji/TV-Clustering/difference"
	"github.com/ImBeji/TV-Clustering/internal/matutil"
	"github.com/ImBeji/TV-Clustering/stiefel"
)

// Stopping constants of the residual criterion (Boyd et al. defaults for
// this formulation).
const (
	AbsTol = 1e-2
	RelTol = 1e-4
)

// DefaultMaxIter caps the outer loop when the caller does not.
const DefaultMaxIter = 500

// State is the mutable iterate of the loop: the Stiefel embedding H
// (N x K), the TV proxy W and scaled dual Y (both K x (N-A)), the constant
// penalty rho and shrinkage threshold kappa = lambda/rho, and the
// iteration counter. It is owned by exactly one running fit.
type State struct {
	H, W, Y    *mat.Dense
	Rho, Kappa float64
	Iteration  int
}

// Problem is the fixed data of one fit: the kernel matrix, the difference
// operator, the penalty weights, the manifold sub-solver and the loop
// policy.
type Problem struct {
	K       *mat.Dense
	D       *difference.Operator
	Lambda  float64
	Rho     float64
	Solver  stiefel.Minimizer
	MaxIter int
	Verbose int
}

// Diagnostics is what one Step reports back: the residuals, their
// tolerances, the monitored objective, and whether the H sub-solver met
// its own tolerance.
type Diagnostics struct {
	PrimalResidual float64
	DualResidual   float64
	EpsPrimal      float64
	EpsDual        float64
	Objective      float64
	HStepConverged bool
}

// hStep builds the smooth sub-problem for the manifold solver:
//
//	f(H) = -tr(HᵗKH)/N + rho/2 ||HᵗD - (W - Y)||²_F
//	∇f(H) = -2KH/N + rho D (HᵗD - (W - Y))ᵗ
//
// with W, Y frozen at their current values.
func hStep(pr *Problem, st *State) stiefel.Problem {
	n, k := st.H.Dims()
	invN := 1 / float64(n)

	wMinusY := &mat.Dense{}
	wMinusY.Sub(st.W, st.Y)

	residual := func(x *mat.Dense) *mat.Dense {
		r := pr.D.MulRight(nil, x.T())
		r.Sub(r, wMinusY)
		return r
	}

	return stiefel.Problem{
		Manifold: stiefel.Manifold{N: n, P: k},
		Cost: func(x *mat.Dense) float64 {
			var kx mat.Dense
			kx.Mul(pr.K, x)
			r := residual(x)
			rn := mat.Norm(r, 2)
			return -matutil.FrobDot(x, &kx)*invN + 0.5*pr.Rho*rn*rn
		},
		Grad: func(dst, x *mat.Dense) {
			var kx mat.Dense
			kx.Mul(pr.K, x)
			pr.D.MulTrans(dst, residual(x))
			dst.Scale(pr.Rho, dst)
			kx.Scale(-2*invN, &kx)
			dst.Add(dst, &kx)
		},
	}
}

// Step advances the state by one ADMM iteration: H-step on the manifold,
// soft-shrinkage W-step, dual ascent Y-step, then residual bookkeeping.
// It is the only place the state is mutated.
func Step(st *State, pr *Problem) Diagnostics {
	n, k := st.H.Dims()
	_, m := st.W.Dims()

	// H-update. A sub-solver that stops on its iteration cap is tolerated;
	// the loop proceeds with its best iterate.
	res := pr.Solver.Minimize(hStep(pr, st), st.H)
	st.H = res.X

	// W-update: column-wise shrinkage of HᵗD + Y.
	hd := pr.D.MulRight(nil, st.H.T())
	var target mat.Dense
	target.Add(hd, st.Y)
	wOld := mat.DenseCopyOf(st.W)
	SoftShrinkTo(st.W, &target, st.Kappa)

	// Y-update: accumulate the constraint violation HᵗD - W.
	var gap mat.Dense
	gap.Sub(hd, st.W)
	st.Y.Add(st.Y, &gap)

	// Residuals and their adaptive tolerances.
	r := mat.Norm(&gap, 2)
	var dw mat.Dense
	dw.Sub(wOld, st.W)
	s := pr.Rho * mat.Norm(pr.D.MulTrans(nil, &dw), 2)

	epsPrimal := math.Sqrt(float64(k*n))*AbsTol +
		RelTol*math.Max(mat.Norm(st.W, 2), mat.Norm(hd, 2))
	epsDual := math.Sqrt(float64(k*m))*AbsTol +
		RelTol*pr.Rho*mat.Norm(pr.D.MulTrans(nil, st.Y), 2)

	st.Iteration++

	return Diagnostics{
		PrimalResidual: r,
		DualResidual:   s,
		EpsPrimal:      epsPrimal,
		EpsDual:        epsDual,
		Objective:      Objective(st.H, st.W, pr.K, pr.Lambda),
		HStepConverged: res.Converged,
	}
}

// Run iterates Step until both residuals are below tolerance or the
// iteration cap is reached, returning the per-iteration history. Reaching
// the cap is not an error; the caller can inspect the residual trend in
// the returned history.
func Run(st *State, pr *Problem) History {
	maxIter := pr.MaxIter
	if maxIter <= 0 {
		maxIter = DefaultMaxIter
	}
	history := make(History, 0, maxIter)
	for iter := 0; iter < maxIter; iter++ {
		diag := Step(st, pr)
		history = append(history, Record{
			Iteration:      st.Iteration,
			Objective:      diag.Objective,
			PrimalResidual: diag.PrimalResidual,
			DualResidual:   diag.DualResidual,
			EpsPrimal:      diag.EpsPrimal,
			EpsDual:        diag.EpsDual,
		})
		if pr.Verbose > 0 {
			fmt.Printf("iter %3d  J=%.6e  r=%.3e (eps=%.3e)  s=%.3e (eps=%.3e)\n",
				st.Iteration, diag.Objective,
				diag.PrimalResidual, diag.EpsPrimal,
				diag.DualResidual, diag.EpsDual)
			if !diag.HStepConverged {
				fmt.Printf("iter %3d  manifold solver stopped at its iteration cap\n", st.Iteration)
			}
		}
		if diag.PrimalResidual < diag.EpsPrimal && diag.DualResidual < diag.EpsDual {
			if pr.Verbose > 0 {
				fmt.Printf("converged after %d iterations\n", st.Iteration)
			}
			break
		}
	}
	return history
}
