package active

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/krigo/gp"
	"github.com/YuminosukeSato/krigo/kernel"
	"github.com/YuminosukeSato/krigo/pkg/errors"
)

// pointModel builds a 1-feature model with a single training point, so its
// predictive variance grows monotonically with distance from center.
func pointModel(t *testing.T, atom string, center float64) *gp.Model {
	t.Helper()

	composite, err := kernel.ParseComposition("k1(1-1)", map[string]kernel.Kernel{
		"k1": kernel.NewRBF([]float64{1.0}),
	}, 1)
	require.NoError(t, err)

	m, err := gp.NewModel(gp.ModelParams{
		System: "TEST",
		Atom:   atom,
		Nugget: 1e-10,
		Kernel: composite,
		X:      mat.NewDense(1, 1, []float64{center}),
		Y:      mat.NewVecDense(1, []float64{0}),
	})
	require.NoError(t, err)
	return m
}

// wideModel expects 2 features, so it cannot evaluate a 1-feature pool.
func wideModel(t *testing.T) *gp.Model {
	t.Helper()

	composite, err := kernel.ParseComposition("k1(1-2)", map[string]kernel.Kernel{
		"k1": kernel.NewRBF([]float64{1.0, 1.0}),
	}, 2)
	require.NoError(t, err)

	m, err := gp.NewModel(gp.ModelParams{
		System: "TEST",
		Atom:   "X1",
		Nugget: 1e-10,
		Kernel: composite,
		X:      mat.NewDense(1, 2, []float64{0, 0}),
		Y:      mat.NewVecDense(1, []float64{0}),
	})
	require.NoError(t, err)
	return m
}

func TestEPESelectsHighestVariance(t *testing.T) {
	model := pointModel(t, "O1", 0)
	s, err := NewEPE(gp.Models{model})
	require.NoError(t, err)

	pool := mat.NewDense(10, 1, []float64{
		0, 0.5, 1, 2, 3, 4, 0.1, 0.2, 0.3, 0.05,
	})

	got, err := s.GetPoints(pool, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)

	// The three candidates farthest from the training point.
	assert.Equal(t, []int{5, 4, 3}, got)

	// Scores along the returned order are non-increasing.
	prev, err := model.VarianceOne([]float64{pool.At(got[0], 0)})
	require.NoError(t, err)
	for _, idx := range got[1:] {
		v, err := model.VarianceOne([]float64{pool.At(idx, 0)})
		require.NoError(t, err)
		assert.LessOrEqual(t, v, prev)
		prev = v
	}
}

func TestEPETieBreakByPoolIndex(t *testing.T) {
	s, err := NewEPE(gp.Models{pointModel(t, "O1", 0)})
	require.NoError(t, err)

	// Identical candidates score identically; ties resolve to the
	// lowest pool indices, in ascending order.
	pool := mat.NewDense(6, 1, []float64{2, 2, 2, 2, 2, 2})
	got, err := s.GetPoints(pool, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, got)
}

func TestEPEAggregatePolicies(t *testing.T) {
	// Two models trained at ±1 over the pool {-1, 0, 1}: the midpoint
	// maximizes the summed variance, while the extremes each maximize a
	// single model's variance.
	models := gp.Models{
		pointModel(t, "A", 1.0),
		pointModel(t, "B", -1.0),
	}
	pool := mat.NewDense(3, 1, []float64{-1, 0, 1})

	sum, err := NewEPE(models)
	require.NoError(t, err)
	got, err := sum.GetPoints(pool, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0, 2}, got)

	max, err := NewEPE(models, WithAggregate(AggregateMax))
	require.NoError(t, err)
	got, err = max.GetPoints(pool, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 1}, got)

	// Mean preserves the sum ordering; it only rescales the scores.
	mean, err := NewEPE(models, WithAggregate(AggregateMean))
	require.NoError(t, err)
	got, err = mean.GetPoints(pool, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0, 2}, got)
}

func TestEPEFailingModelIsIsolated(t *testing.T) {
	// The 2-feature model cannot evaluate the 1-feature pool; selection
	// proceeds on the healthy model alone.
	s, err := NewEPE(gp.Models{wideModel(t), pointModel(t, "O1", 0)})
	require.NoError(t, err)

	pool := mat.NewDense(4, 1, []float64{0, 1, 2, 3})
	got, err := s.GetPoints(pool, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, got)
}

func TestEPEAllModelsFailing(t *testing.T) {
	s, err := NewEPE(gp.Models{wideModel(t)})
	require.NoError(t, err)

	pool := mat.NewDense(4, 1, []float64{0, 1, 2, 3})
	_, err = s.GetPoints(pool, 2)
	require.Error(t, err)

	var selErr *errors.SelectionError
	require.True(t, errors.As(err, &selErr))
	assert.Equal(t, "epe", selErr.Selector)
}

func TestEPEContractErrors(t *testing.T) {
	s, err := NewEPE(gp.Models{pointModel(t, "O1", 0)})
	require.NoError(t, err)

	var selErr *errors.SelectionError
	_, err = s.GetPoints(mat.NewDense(3, 1, nil), -1)
	require.True(t, errors.As(err, &selErr))

	_, err = s.GetPoints(&mat.Dense{}, 3)
	require.True(t, errors.As(err, &selErr))
}

func TestEPERequiresModels(t *testing.T) {
	_, err := NewEPE(nil)
	assert.Error(t, err)
}

func TestEPEOversizedRequest(t *testing.T) {
	s, err := NewEPE(gp.Models{pointModel(t, "O1", 0)})
	require.NoError(t, err)

	pool := mat.NewDense(3, 1, []float64{0, 1, 2})
	got, err := s.GetPoints(pool, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1, 0}, got)
}
