package admm

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ImBeji/TV-Clustering/internal/matutil"
)

// Objective evaluates the monitored objective
//
//	J(H, W) = (tr K - tr HᵗKH)/N + lambda Σ_j ||W[:,j]||₁
//
// where N is the total sample count (the row count of K). The trace term
// is normalized by N, matching the H-step cost. The value is recorded per
// iteration for diagnostics; termination is driven by the residuals, not
// by J.
func Objective(h, w *mat.Dense, k mat.Matrix, lambda float64) float64 {
	n, _ := k.Dims()
	var kh mat.Dense
	kh.Mul(k, h)
	trace := mat.Trace(k) - matutil.FrobDot(h, &kh)

	var l1 float64
	raw := w.RawMatrix()
	for i := 0; i < raw.Rows; i++ {
		for _, v := range raw.Data[i*raw.Stride : i*raw.Stride+raw.Cols] {
			l1 += math.Abs(v)
		}
	}
	return trace/float64(n) + lambda*l1
}
