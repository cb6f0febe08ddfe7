package mean

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/krigo/pkg/errors"
)

// Quadratic is a quadratic prior mean anchored at a reference point:
//
//	m(x) = Σ_d β_d (x_d - xmin_d)² + ymin
//
// xmin is typically the training input with the lowest observed label and
// ymin its value, so extrapolation bends back toward the observed minimum.
type Quadratic struct {
	beta []float64
	xmin []float64
	ymin float64
}

// NewQuadratic creates a quadratic mean. beta and xmin must have the same
// length; both slices are copied.
func NewQuadratic(beta, xmin []float64, ymin float64) (*Quadratic, error) {
	if len(beta) == 0 {
		return nil, errors.NewValueError("mean.NewQuadratic", "empty beta vector")
	}
	if len(beta) != len(xmin) {
		return nil, errors.NewDimensionError("mean.NewQuadratic", len(beta), len(xmin), 1)
	}

	m := &Quadratic{
		beta: make([]float64, len(beta)),
		xmin: make([]float64, len(xmin)),
		ymin: ymin,
	}
	copy(m.beta, beta)
	copy(m.xmin, xmin)
	return m, nil
}

// Kind implements Mean.
func (*Quadratic) Kind() string { return "quadratic" }

// Value implements Mean.
func (m *Quadratic) Value(x mat.Matrix) (*mat.VecDense, error) {
	rows, cols := x.Dims()
	if cols != len(m.beta) {
		return nil, errors.NewDimensionError("Quadratic.Value", len(m.beta), cols, 1)
	}

	out := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		sum := m.ymin
		for d := 0; d < cols; d++ {
			a := x.At(i, d) - m.xmin[d]
			sum += m.beta[d] * a * a
		}
		out.SetVec(i, sum)
	}
	return out, nil
}
