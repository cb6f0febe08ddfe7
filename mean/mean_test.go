package mean

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/krigo/pkg/errors"
)

func TestZeroMean(t *testing.T) {
	m := NewZero()
	x := mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})

	v, err := m.Value(x)
	require.NoError(t, err)
	require.Equal(t, 3, v.Len())
	for i := 0; i < v.Len(); i++ {
		assert.Equal(t, 0.0, v.AtVec(i))
	}
}

func TestConstantMean(t *testing.T) {
	m := NewConstant(-76.43)
	x := mat.NewDense(2, 5, nil)

	v, err := m.Value(x)
	require.NoError(t, err)
	require.Equal(t, 2, v.Len())
	assert.Equal(t, -76.43, v.AtVec(0))
	assert.Equal(t, -76.43, v.AtVec(1))
	assert.Equal(t, -76.43, m.Constant())
}

func TestQuadraticMean(t *testing.T) {
	m, err := NewQuadratic([]float64{2.0, 0.5}, []float64{1.0, -1.0}, 10.0)
	require.NoError(t, err)

	x := mat.NewDense(2, 2, []float64{
		1.0, -1.0, // at the reference point
		2.0, 1.0, // offsets (1, 2)
	})

	v, err := m.Value(x)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, v.AtVec(0), 1e-12)
	assert.InDelta(t, 10.0+2.0*1+0.5*4, v.AtVec(1), 1e-12)
}

func TestQuadraticMeanShapeErrors(t *testing.T) {
	_, err := NewQuadratic([]float64{1, 2}, []float64{1}, 0)
	var dimErr *errors.DimensionError
	require.True(t, errors.As(err, &dimErr))

	m, err := NewQuadratic([]float64{1, 2}, []float64{0, 0}, 0)
	require.NoError(t, err)

	_, err = m.Value(mat.NewDense(1, 3, nil))
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, 2, dimErr.Expected)
	assert.Equal(t, 3, dimErr.Got)
}

func TestQuadraticMeanImmutable(t *testing.T) {
	beta := []float64{1.0}
	xmin := []float64{0.0}
	m, err := NewQuadratic(beta, xmin, 0)
	require.NoError(t, err)

	beta[0] = 99
	xmin[0] = 99

	v, err := m.Value(mat.NewDense(1, 1, []float64{2.0}))
	require.NoError(t, err)
	assert.InDelta(t, 4.0, v.AtVec(0), 1e-12)
}
