package mean

import (
	"gonum.org/v1/gonum/mat"
)

// Zero is the trivial prior mean of 0 for every input row.
type Zero struct{}

// NewZero creates a zero mean.
func NewZero() *Zero { return &Zero{} }

// Kind implements Mean.
func (*Zero) Kind() string { return "zero" }

// Value implements Mean.
func (*Zero) Value(x mat.Matrix) (*mat.VecDense, error) {
	rows, _ := x.Dims()
	return mat.NewVecDense(rows, nil), nil
}
