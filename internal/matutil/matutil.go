// Package matutil collects small matrix helpers shared by the solver
// packages.
package matutil

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Eye returns the n by n identity matrix.
func Eye(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

// Ones returns a (m by n) matrix filled with ones.
func Ones(m, n int) *mat.Dense {
	data := make([]float64, m*n)
	for index := range data {
		data[index] = 1.
	}
	return mat.NewDense(m, n, data)
}

// HasNaNOrInf checks if there are any NaN or Inf entries in matrix.
func HasNaNOrInf(matrix mat.Matrix) bool {
	m, n := matrix.Dims()
	for row := 0; row < m; row++ {
		for col := 0; col < n; col++ {
			if math.IsNaN(matrix.At(row, col)) || math.IsInf(matrix.At(row, col), 0) {
				return true
			}
		}
	}
	return false
}

// FrobDiff returns the Frobenius norm of a - b.
func FrobDiff(a, b mat.Matrix) float64 {
	var diff mat.Dense
	diff.Sub(a, b)
	return mat.Norm(&diff, 2)
}

// FrobDot returns the Frobenius inner product sum_ij a_ij b_ij of two
// equally sized dense matrices.
func FrobDot(a, b *mat.Dense) float64 {
	ra := a.RawMatrix()
	rb := b.RawMatrix()
	var sum float64
	for i := 0; i < ra.Rows; i++ {
		arow := ra.Data[i*ra.Stride : i*ra.Stride+ra.Cols]
		brow := rb.Data[i*rb.Stride : i*rb.Stride+rb.Cols]
		for j, v := range arow {
			sum += v * brow[j]
		}
	}
	return sum
}
