// Package mean implements the prior mean functions of a Gaussian-process
// surrogate model. Far from the training data the covariance decays to
// zero and predictions fall back to the prior mean, so the choice of mean
// controls extrapolation behavior.
package mean

import (
	"gonum.org/v1/gonum/mat"
)

// Mean is a prior mean function evaluated row-wise over a feature matrix.
// Implementations are immutable and safe for concurrent use.
type Mean interface {
	// Kind returns the variant tag: "zero", "constant" or "quadratic".
	Kind() string

	// Value returns one scalar per row of x.
	Value(x mat.Matrix) (*mat.VecDense, error)
}
