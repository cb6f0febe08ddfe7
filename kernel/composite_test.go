package kernel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/krigo/pkg/errors"
)

func TestCompositeR(t *testing.T) {
	c, err := ParseComposition("k1(1-2)", map[string]Kernel{
		"k1": NewRBF([]float64{1.0, 1.0}),
	}, 2)
	require.NoError(t, err)

	x := mat.NewDense(2, 2, []float64{
		0, 0,
		1, 1,
	})

	r, err := c.R(x)
	require.NoError(t, err)

	rows, cols := r.Dims()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 2, cols)

	// Diagonal is exp(0) = 1 for a single RBF segment.
	assert.InDelta(t, 1.0, r.At(0, 0), 1e-12)
	assert.InDelta(t, 1.0, r.At(1, 1), 1e-12)

	// Off-diagonal is exp(-2) and symmetric.
	assert.InDelta(t, math.Exp(-2), r.At(0, 1), 1e-12)
	assert.InDelta(t, r.At(0, 1), r.At(1, 0), 1e-12)
}

func TestCompositeRSymmetric(t *testing.T) {
	c, err := ParseComposition("a(1-2)+b(3)", map[string]Kernel{
		"a": NewRBF([]float64{0.7, 1.3}),
		"b": NewRBFCyclic([]float64{2.0}),
	}, 3)
	require.NoError(t, err)

	x := mat.NewDense(5, 3, []float64{
		0.1, 0.2, 0.3,
		1.0, -1.0, 2.0,
		0.5, 0.5, 0.5,
		-0.3, 0.9, -2.1,
		2.0, 0.0, 1.0,
	})

	r, err := c.R(x)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			assert.InDelta(t, r.At(i, j), r.At(j, i), 1e-13, "R not symmetric at (%d,%d)", i, j)
		}
	}
	// Two segments, so the diagonal is 2.
	assert.InDelta(t, 2.0, r.At(0, 0), 1e-12)
}

func TestCompositeCross(t *testing.T) {
	c, err := ParseComposition("k1(1-2)", map[string]Kernel{
		"k1": NewRBF([]float64{1.0, 1.0}),
	}, 2)
	require.NoError(t, err)

	x := mat.NewDense(2, 2, []float64{0, 0, 1, 1})
	xstar := mat.NewDense(1, 2, []float64{0.5, 0.5})

	r, err := c.Cross(x, xstar)
	require.NoError(t, err)

	rows, cols := r.Dims()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 1, cols)

	// Both training points are equidistant from the midpoint.
	assert.InDelta(t, r.At(0, 0), r.At(1, 0), 1e-13)
	assert.InDelta(t, math.Exp(-0.5), r.At(0, 0), 1e-12)
}

func TestCompositeDimensionErrors(t *testing.T) {
	c, err := ParseComposition("k1(1-2)", map[string]Kernel{
		"k1": NewRBF([]float64{1.0, 1.0}),
	}, 2)
	require.NoError(t, err)

	x3 := mat.NewDense(2, 3, nil)
	_, err = c.R(x3)
	var dimErr *errors.DimensionError
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, 2, dimErr.Expected)
	assert.Equal(t, 3, dimErr.Got)

	x2 := mat.NewDense(2, 2, nil)
	_, err = c.Cross(x2, x3)
	require.True(t, errors.As(err, &dimErr))
}
