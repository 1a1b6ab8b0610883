// Package difference builds the block-diagonal first-difference operator
// used by the TV penalty. For a partition of N samples into A series of
// lengths l_1, ..., l_A the operator D is N x (N - A): each series
// contributes an l_i x (l_i - 1) bidiagonal block with +1 on the main
// diagonal and -1 on the subdiagonal, and all off-block entries are zero.
//
// D is never materialized in the solver hot path; Operator implements
// mat.Matrix and additionally exposes structure-aware products that run in
// O(rows x columns of the dense operand).
package difference

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrNoSeries is returned when the length vector is empty.
var ErrNoSeries = errors.New("difference: empty length vector")

// ErrShortSeries is returned when some series has fewer than two samples
// and would produce a zero-width block.
var ErrShortSeries = errors.New("difference: series shorter than two samples")

// Operator is the block first-difference operator over a series partition.
// The zero value is not usable; construct with New.
type Operator struct {
	lengths []int
	rows    int
	cols    int
	// Per-block offsets into the global row/column index space.
	rowOff []int
	colOff []int
	// Row index -> block index, precomputed for At and MulTrans.
	rowBlock []int
}

// New validates the length vector and returns the corresponding operator.
func New(lengths []int) (*Operator, error) {
	if len(lengths) == 0 {
		return nil, ErrNoSeries
	}
	op := &Operator{
		lengths: make([]int, len(lengths)),
		rowOff:  make([]int, len(lengths)),
		colOff:  make([]int, len(lengths)),
	}
	copy(op.lengths, lengths)
	for i, l := range lengths {
		if l < 2 {
			return nil, fmt.Errorf("%w: series %d has length %d", ErrShortSeries, i, l)
		}
		op.rowOff[i] = op.rows
		op.colOff[i] = op.cols
		op.rows += l
		op.cols += l - 1
	}
	op.rowBlock = make([]int, op.rows)
	for b, l := range op.lengths {
		for i := 0; i < l; i++ {
			op.rowBlock[op.rowOff[b]+i] = b
		}
	}
	return op, nil
}

// Dims returns the operator dimensions (N, N - A).
func (op *Operator) Dims() (r, c int) { return op.rows, op.cols }

// At returns the entry at row i, column j.
func (op *Operator) At(i, j int) float64 {
	if i < 0 || i >= op.rows || j < 0 || j >= op.cols {
		panic(mat.ErrIndexOutOfRange)
	}
	b := op.rowBlock[i]
	lj := j - op.colOff[b]
	if lj < 0 || lj >= op.lengths[b]-1 {
		// Column belongs to another block.
		return 0
	}
	switch li := i - op.rowOff[b]; {
	case li == lj:
		return 1
	case li == lj+1:
		return -1
	}
	return 0
}

// T returns the transpose of the operator.
func (op *Operator) T() mat.Matrix { return mat.Transpose{Matrix: op} }

// Lengths returns the series partition the operator was built from.
func (op *Operator) Lengths() []int {
	out := make([]int, len(op.lengths))
	copy(out, op.lengths)
	return out
}

// MulRight computes dst = m D for a q x N operand m, giving a
// q x (N - A) result. Column c of a block reduces to the difference of two
// adjacent columns of m. If dst is nil a new matrix is allocated; either
// way the result is returned.
func (op *Operator) MulRight(dst *mat.Dense, m mat.Matrix) *mat.Dense {
	q, n := m.Dims()
	if n != op.rows {
		panic(mat.ErrShape)
	}
	if dst == nil {
		dst = mat.NewDense(q, op.cols, nil)
	}
	for b, l := range op.lengths {
		for j := 0; j < l-1; j++ {
			r := op.rowOff[b] + j
			c := op.colOff[b] + j
			for k := 0; k < q; k++ {
				dst.Set(k, c, m.At(k, r)-m.At(k, r+1))
			}
		}
	}
	return dst
}

// MulTrans computes dst = D mᵗ for a q x (N - A) operand m, giving an
// N x q result. If dst is nil a new matrix is allocated; either way the
// result is returned.
func (op *Operator) MulTrans(dst *mat.Dense, m mat.Matrix) *mat.Dense {
	q, c := m.Dims()
	if c != op.cols {
		panic(mat.ErrShape)
	}
	if dst == nil {
		dst = mat.NewDense(op.rows, q, nil)
	}
	for i := 0; i < op.rows; i++ {
		b := op.rowBlock[i]
		li := i - op.rowOff[b]
		for k := 0; k < q; k++ {
			var v float64
			if li < op.lengths[b]-1 {
				v += m.At(k, op.colOff[b]+li)
			}
			if li > 0 {
				v -= m.At(k, op.colOff[b]+li-1)
			}
			dst.Set(i, k, v)
		}
	}
	return dst
}

// Dense materializes the operator. Intended for tests and inspection.
func (op *Operator) Dense() *mat.Dense {
	d := mat.NewDense(op.rows, op.cols, nil)
	for b, l := range op.lengths {
		for j := 0; j < l-1; j++ {
			d.Set(op.rowOff[b]+j, op.colOff[b]+j, 1)
			d.Set(op.rowOff[b]+j+1, op.colOff[b]+j, -1)
		}
	}
	return d
}
