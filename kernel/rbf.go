package kernel

import (
	"math"
)

// KindRBF is the persisted-format type tag of the stationary RBF kernel.
const KindRBF = "rbf"

// RBF is the radial basis function kernel
//
//	k(xi, xj) = exp(-Σ_d θ_d (xi_d - xj_d)²)
//
// where θ_d is the lengthscale of dimension d.
type RBF struct {
	theta []float64
}

// NewRBF creates an RBF kernel with the given per-dimension lengthscales.
// The slice is copied.
func NewRBF(lengthscales []float64) *RBF {
	theta := make([]float64, len(lengthscales))
	copy(theta, lengthscales)
	return &RBF{theta: theta}
}

// Kind implements Kernel.
func (k *RBF) Kind() string { return KindRBF }

// NDims implements Kernel.
func (k *RBF) NDims() int { return len(k.theta) }

// Lengthscales implements Kernel.
func (k *RBF) Lengthscales() []float64 {
	out := make([]float64, len(k.theta))
	copy(out, k.theta)
	return out
}

// Covariance implements Kernel.
func (k *RBF) Covariance(xi, xj []float64) float64 {
	var sum float64
	for d, theta := range k.theta {
		diff := xi[d] - xj[d]
		sum += theta * diff * diff
	}
	return math.Exp(-sum)
}
