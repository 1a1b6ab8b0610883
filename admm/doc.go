// Package admm implements the alternating-direction loop at the heart of
// the TV kernel k-means estimator. It minimizes
//
//	-tr(HᵗKH)/N + lambda Σ_j ||W[:,j]||₁   s.t.  HᵗD = W,  HᵗH = I
//
// by alternating a Riemannian H-step on the Stiefel manifold, a
// soft-shrinkage W-step and a dual ascent Y-step, stopping on the usual
// primal/dual residual criterion or an iteration cap.
//
// The penalty parameter rho is held constant across iterations. An
// adaptive rho schedule would be a possible extension but changes
// convergence behavior and is deliberately not implemented.
package admm
