package mean

import (
	"gonum.org/v1/gonum/mat"
)

// Constant broadcasts a single stored scalar to every input row. This is
// the only mean variant present in persisted model files.
type Constant struct {
	value float64
}

// NewConstant creates a constant mean with the given value.
func NewConstant(value float64) *Constant {
	return &Constant{value: value}
}

// Kind implements Mean.
func (*Constant) Kind() string { return "constant" }

// Constant returns the stored mean value.
func (m *Constant) Constant() float64 { return m.value }

// Value implements Mean.
func (m *Constant) Value(x mat.Matrix) (*mat.VecDense, error) {
	rows, _ := x.Dims()
	out := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		out.SetVec(i, m.value)
	}
	return out, nil
}
