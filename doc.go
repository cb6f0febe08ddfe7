// Package krigo provides Gaussian-process surrogate models (kriging) and
// uncertainty-driven active learning for Go, built on gonum.
//
// Krigo reads the model files written by an external hyperparameter-fitting
// program, turns them into immutable regression objects with predictions
// and predictive variances, and selects which unlabeled candidate points
// are worth computing expensive reference labels for next.
//
// # Packages
//
//   - kernel: covariance functions and the composition grammar that binds
//     named kernels to disjoint feature-index ranges
//   - mean: zero, constant and quadratic prior mean functions
//   - gp: the surrogate model itself plus the persisted-format loader
//   - active: random and expected-prediction-error point selectors
//   - metrics: regression metrics for validating a surrogate
//
// # Quick Start
//
// Load a model and rank a candidate pool by predictive uncertainty:
//
//	models, err := gp.LoadDirectory("models/")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	selector, err := active.NewEPE(models)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	indices, err := selector.GetPoints(pool, 5)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The returned indices point into the pool in descending-uncertainty
// order; computing labels for those points and refitting shrinks the
// model's error fastest.
package krigo
