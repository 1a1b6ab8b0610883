package matutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestEyeAndOnes(t *testing.T) {
	e := Eye(3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if i == j {
				assert.Equal(t, 1.0, e.At(i, j))
			} else {
				assert.Equal(t, 0.0, e.At(i, j))
			}
		}
	}

	o := Ones(2, 4)
	r, c := o.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 4, c)
	assert.Equal(t, 1.0, o.At(1, 3))
}

func TestHasNaNOrInf(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	assert.False(t, HasNaNOrInf(m))

	m.Set(0, 1, math.NaN())
	assert.True(t, HasNaNOrInf(m))

	m.Set(0, 1, math.Inf(-1))
	assert.True(t, HasNaNOrInf(m))
}

func TestFrobHelpers(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	b := mat.NewDense(2, 2, []float64{1, 2, 3, 1})
	assert.InDelta(t, 3, FrobDiff(a, b), 1e-15)
	assert.InDelta(t, 1+4+9+4, FrobDot(a, b), 1e-15)
}
