// Package active implements active-learning point selection over a pool
// of candidate feature vectors. A selector ranks the candidates and
// returns indices into the pool; the caller promotes the chosen points
// into the training set and refits its models externally.
package active

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/krigo/pkg/errors"
)

// Selector chooses up to n points from a candidate pool. The pool is a
// matrix with one candidate feature vector per row; the result holds
// distinct row indices in [0, rows). Implementations never return more
// than min(n, rows) indices.
type Selector interface {
	// Name returns the selector's configuration tag, e.g. "random" or "epe".
	Name() string

	// GetPoints returns the indices of the selected candidates.
	GetPoints(pool mat.Matrix, n int) ([]int, error)
}

// validateRequest applies the shared GetPoints contract checks and
// returns the pool size.
func validateRequest(selector string, pool mat.Matrix, n int) (rows int, err error) {
	if n <= 0 {
		return 0, errors.NewSelectionError(selector, "requested point count must be positive", nil)
	}
	rows, _ = pool.Dims()
	if rows == 0 {
		return 0, errors.NewSelectionError(selector, "empty candidate pool", nil)
	}
	return rows, nil
}
