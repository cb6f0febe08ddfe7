// Package kernel implements the covariance functions of a Gaussian-process
// surrogate model and the small composition grammar that binds named
// kernels to disjoint feature-index ranges.
//
// A Kernel evaluates covariance over the slice of features assigned to it;
// Composite stitches one or more kernels into full train-train and
// train-test covariance matrices. Kernels are immutable once constructed.
package kernel

// Kernel is a stationary covariance function over a fixed-width feature
// slice. Implementations are immutable and safe for concurrent use.
type Kernel interface {
	// Kind returns the persisted-format type tag, e.g. "rbf" or "rbf-cyclic".
	Kind() string

	// NDims returns the number of feature dimensions the kernel covers.
	NDims() int

	// Lengthscales returns a copy of the per-dimension lengthscale vector.
	Lengthscales() []float64

	// Covariance returns the covariance between two slice-restricted
	// feature vectors. Both arguments must have length NDims.
	Covariance(xi, xj []float64) float64
}
