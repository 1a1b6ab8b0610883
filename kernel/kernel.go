// Package kernel provides the pairwise similarity functions used to build
// the Gram matrix of the estimator. A kernel is selected once at
// configuration time, either directly as a value or by name through Parse.
package kernel

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Kernel evaluates a similarity between two feature vectors of equal
// length.
type Kernel interface {
	Eval(x, y []float64) float64
	String() string
}

// Linear is the inner-product kernel x·y.
type Linear struct{}

func (Linear) Eval(x, y []float64) float64 { return floats.Dot(x, y) }
func (Linear) String() string              { return "linear" }

// RBF is the Gaussian kernel exp(-gamma ||x-y||²).
type RBF struct {
	Gamma float64
}

func (k RBF) Eval(x, y []float64) float64 {
	var d2 float64
	for i, v := range x {
		diff := v - y[i]
		d2 += diff * diff
	}
	return math.Exp(-k.Gamma * d2)
}

func (k RBF) String() string { return fmt.Sprintf("rbf(gamma=%g)", k.Gamma) }

// Laplacian is the kernel exp(-gamma ||x-y||₁).
type Laplacian struct {
	Gamma float64
}

func (k Laplacian) Eval(x, y []float64) float64 {
	var d1 float64
	for i, v := range x {
		d1 += math.Abs(v - y[i])
	}
	return math.Exp(-k.Gamma * d1)
}

func (k Laplacian) String() string { return fmt.Sprintf("laplacian(gamma=%g)", k.Gamma) }

// Polynomial is the kernel (gamma x·y + coef0)^degree.
type Polynomial struct {
	Degree int
	Gamma  float64
	Coef0  float64
}

func (k Polynomial) Eval(x, y []float64) float64 {
	return math.Pow(k.Gamma*floats.Dot(x, y)+k.Coef0, float64(k.Degree))
}

func (k Polynomial) String() string {
	return fmt.Sprintf("polynomial(degree=%d,gamma=%g,coef0=%g)", k.Degree, k.Gamma, k.Coef0)
}

// Sigmoid is the kernel tanh(gamma x·y + coef0).
type Sigmoid struct {
	Gamma float64
	Coef0 float64
}

func (k Sigmoid) Eval(x, y []float64) float64 {
	return math.Tanh(k.Gamma*floats.Dot(x, y) + k.Coef0)
}

func (k Sigmoid) String() string { return fmt.Sprintf("sigmoid(gamma=%g,coef0=%g)", k.Gamma, k.Coef0) }

// Func wraps a user-supplied similarity function.
type Func struct {
	Name string
	F    func(x, y []float64) float64
}

func (k Func) Eval(x, y []float64) float64 { return k.F(x, y) }
func (k Func) String() string              { return k.Name }

// param fetches a named hyperparameter with a fallback default.
func param(params map[string]float64, name string, def float64) float64 {
	if v, ok := params[name]; ok {
		return v
	}
	return def
}

// Parse resolves a kernel name and its hyperparameter map into a Kernel
// value. Unrecognized names yield ErrUnknownKernel.
func Parse(name string, params map[string]float64) (Kernel, error) {
	switch name {
	case "linear":
		return Linear{}, nil
	case "rbf", "gaussian":
		return RBF{Gamma: param(params, "gamma", 1)}, nil
	case "laplacian":
		return Laplacian{Gamma: param(params, "gamma", 1)}, nil
	case "polynomial", "poly":
		return Polynomial{
			Degree: int(param(params, "degree", 3)),
			Gamma:  param(params, "gamma", 1),
			Coef0:  param(params, "coef0", 1),
		}, nil
	case "sigmoid":
		return Sigmoid{
			Gamma: param(params, "gamma", 1),
			Coef0: param(params, "coef0", 1),
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKernel, name)
}

// Gram computes the pairwise similarity matrix between the rows of x and
// the rows of y. If dst is nil a new matrix is allocated; either way the
// result is returned.
func Gram(dst *mat.Dense, x, y mat.Matrix, k Kernel) *mat.Dense {
	n, d := x.Dims()
	m, dy := y.Dims()
	if d != dy {
		panic(mat.ErrShape)
	}
	if dst == nil {
		dst = mat.NewDense(n, m, nil)
	}
	xi := make([]float64, d)
	yj := make([]float64, d)
	for i := 0; i < n; i++ {
		mat.Row(xi, i, x)
		for j := 0; j < m; j++ {
			mat.Row(yj, j, y)
			dst.Set(i, j, k.Eval(xi, yj))
		}
	}
	return dst
}

// MedianGamma returns 1/median of the pairwise squared distances between
// the rows of x, a common default bandwidth for RBF kernels. Degenerate
// inputs fall back to 1.
func MedianGamma(x mat.Matrix) float64 {
	n, d := x.Dims()
	if n < 2 {
		return 1
	}
	xi := make([]float64, d)
	xj := make([]float64, d)
	var dists []float64
	for i := 0; i < n; i++ {
		mat.Row(xi, i, x)
		for j := i + 1; j < n; j++ {
			mat.Row(xj, j, x)
			var d2 float64
			for c, v := range xi {
				diff := v - xj[c]
				d2 += diff * diff
			}
			if d2 > 0 {
				dists = append(dists, d2)
			}
		}
	}
	if len(dists) == 0 {
		return 1
	}
	sort.Float64s(dists)
	median := dists[len(dists)/2]
	if median == 0 {
		return 1
	}
	return 1 / median
}
