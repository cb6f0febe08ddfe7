package kernel

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/krigo/core/parallel"
	"github.com/YuminosukeSato/krigo/pkg/errors"
)

// Row counts at or below this run the covariance loops sequentially.
const parallelThreshold = 64

// segment binds a kernel to its zero-based half-open feature range [lo, hi).
type segment struct {
	name   string
	kernel Kernel
	lo, hi int
}

// Composite is an ordered list of kernels over disjoint feature ranges
// that together cover every feature exactly once. The combined covariance
// of two points is the sum of the per-segment covariances. Build one with
// ParseComposition; a Composite is immutable afterwards.
type Composite struct {
	segments []segment
	nfeats   int
}

// NFeatures returns the total number of features the composite covers.
func (c *Composite) NFeatures() int { return c.nfeats }

// NSegments returns the number of kernel segments.
func (c *Composite) NSegments() int { return len(c.segments) }

// Composition re-renders the canonical composition expression,
// e.g. "k1(1-3)+k2(4-6)".
func (c *Composite) Composition() string {
	parts := make([]string, len(c.segments))
	for i, seg := range c.segments {
		parts[i] = fmt.Sprintf("%s(%d-%d)", seg.name, seg.lo+1, seg.hi)
	}
	return strings.Join(parts, "+")
}

// covariance sums the per-segment covariances between row i of a and
// row j of b. rowA and rowB are scratch buffers of length nfeats.
func (c *Composite) covariance(a mat.Matrix, i int, b mat.Matrix, j int, rowA, rowB []float64) float64 {
	for d := 0; d < c.nfeats; d++ {
		rowA[d] = a.At(i, d)
		rowB[d] = b.At(j, d)
	}
	var sum float64
	for _, seg := range c.segments {
		sum += seg.kernel.Covariance(rowA[seg.lo:seg.hi], rowB[seg.lo:seg.hi])
	}
	return sum
}

// R computes the train-train covariance matrix of X (ntrain×ntrain).
// The result is symmetric; entry (i,j) is the summed segment covariance
// of rows i and j.
func (c *Composite) R(x mat.Matrix) (*mat.Dense, error) {
	n, cols := x.Dims()
	if n == 0 {
		return nil, errors.NewValueError("Composite.R", "empty training matrix")
	}
	if cols != c.nfeats {
		return nil, errors.NewDimensionError("Composite.R", c.nfeats, cols, 1)
	}

	r := mat.NewDense(n, n, nil)
	parallel.ParallelizeWithThreshold(n, parallelThreshold, func(start, end int) {
		rowA := make([]float64, c.nfeats)
		rowB := make([]float64, c.nfeats)
		for i := start; i < end; i++ {
			for j := i; j < n; j++ {
				v := c.covariance(x, i, x, j, rowA, rowB)
				r.Set(i, j, v)
				if i != j {
					r.Set(j, i, v)
				}
			}
		}
	})
	return r, nil
}

// Cross computes the train-test covariance matrix (ntrain×m) between the
// rows of X and the rows of Xstar.
func (c *Composite) Cross(x, xstar mat.Matrix) (*mat.Dense, error) {
	n, cols := x.Dims()
	m, colsStar := xstar.Dims()
	if n == 0 || m == 0 {
		return nil, errors.NewValueError("Composite.Cross", "empty input matrix")
	}
	if cols != c.nfeats {
		return nil, errors.NewDimensionError("Composite.Cross", c.nfeats, cols, 1)
	}
	if colsStar != c.nfeats {
		return nil, errors.NewDimensionError("Composite.Cross", c.nfeats, colsStar, 1)
	}

	r := mat.NewDense(n, m, nil)
	parallel.ParallelizeWithThreshold(n, parallelThreshold, func(start, end int) {
		rowA := make([]float64, c.nfeats)
		rowB := make([]float64, c.nfeats)
		for i := start; i < end; i++ {
			for j := 0; j < m; j++ {
				r.Set(i, j, c.covariance(x, i, xstar, j, rowA, rowB))
			}
		}
	})
	return r, nil
}
