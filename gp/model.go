// Package gp implements the Gaussian-process surrogate model: an immutable
// regression object built from training data, a prior mean and a composite
// kernel, exposing point predictions and predictive variances, together
// with the loader for the persisted model-file format.
package gp

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/krigo/core/parallel"
	"github.com/YuminosukeSato/krigo/kernel"
	"github.com/YuminosukeSato/krigo/mean"
	"github.com/YuminosukeSato/krigo/pkg/errors"
)

// DefaultNugget is the diagonal regularization used when a model file does
// not specify one.
const DefaultNugget = 1e-10

// Column counts at or below this evaluate variance sequentially.
const varianceParallelThreshold = 256

// ModelParams collects everything needed to construct a Model directly.
// The loader fills one of these from a persisted model file; tests and
// programmatic callers fill it by hand.
type ModelParams struct {
	// System is the chemical system label, e.g. "WATER".
	System string
	// Atom is the atom label the model belongs to, e.g. "O1".
	Atom string
	// Property is the modeled property, e.g. "iqa".
	Property string

	// Nugget is added to the diagonal of the train-train covariance
	// matrix. Must not be negative.
	Nugget float64

	// Mean is the prior mean function; nil defaults to the zero mean.
	Mean mean.Mean

	// Kernel is the composite covariance function.
	Kernel *kernel.Composite

	// X is the ntrain×nfeats training input matrix.
	X *mat.Dense

	// Y is the length-ntrain training label vector.
	Y *mat.VecDense
}

// Model is an immutable Gaussian-process regression model. All derived
// quantities (train-train covariance, its inverse, regression weights) are
// computed eagerly at construction, so a Model is safe for concurrent
// Predict and Variance calls with no further synchronization.
type Model struct {
	system   string
	atom     string
	property string
	nugget   float64

	mean   mean.Mean
	kernel *kernel.Composite

	x *mat.Dense    // ntrain×nfeats training inputs
	y *mat.VecDense // ntrain training labels

	invR    *mat.Dense    // inverse of K(X,X) + nugget·I
	weights *mat.VecDense // invR·(y - mean(X))

	// Universal-kriging bias-correction terms, reused by every
	// Variance call: invROnes = invR·1 and onesC = 1ᵀ·invR·1.
	invROnes *mat.VecDense
	onesC    float64
}

// NewModel validates params and eagerly computes the derived matrices.
// It returns a DimensionError on shape mismatches and a NumericalError if
// the covariance matrix cannot be inverted.
func NewModel(params ModelParams) (*Model, error) {
	if params.Kernel == nil {
		return nil, errors.NewValueError("gp.NewModel", "nil kernel")
	}
	if params.X == nil || params.Y == nil {
		return nil, errors.NewValueError("gp.NewModel", "nil training data")
	}
	if params.Nugget < 0 {
		return nil, errors.NewValueError("gp.NewModel", "nugget must not be negative")
	}

	ntrain, nfeats := params.X.Dims()
	if ntrain == 0 {
		return nil, errors.NewValueError("gp.NewModel", "empty training set")
	}
	if params.Y.Len() != ntrain {
		return nil, errors.NewDimensionError("gp.NewModel", ntrain, params.Y.Len(), 0)
	}
	if nfeats != params.Kernel.NFeatures() {
		return nil, errors.NewDimensionError("gp.NewModel", params.Kernel.NFeatures(), nfeats, 1)
	}

	m := &Model{
		system:   params.System,
		atom:     params.Atom,
		property: params.Property,
		nugget:   params.Nugget,
		mean:     params.Mean,
		kernel:   params.Kernel,
		x:        mat.DenseCopyOf(params.X),
		y:        mat.VecDenseCopyOf(params.Y),
	}
	if m.mean == nil {
		m.mean = mean.NewZero()
	}

	if err := m.derive(); err != nil {
		return nil, err
	}
	return m, nil
}

// derive computes R, invR, the regression weights and the bias-correction
// terms. Called exactly once, from NewModel.
func (m *Model) derive() error {
	ntrain := m.NTrain()

	r, err := m.kernel.R(m.x)
	if err != nil {
		return err
	}
	for i := 0; i < ntrain; i++ {
		r.Set(i, i, r.At(i, i)+m.nugget)
	}

	m.invR = mat.NewDense(ntrain, ntrain, nil)
	if err := m.invR.Inverse(r); err != nil {
		return errors.NewNumericalError("Model.invR", "singular covariance matrix",
			errors.Mark(err, errors.ErrSingularMatrix))
	}
	if err := errors.CheckMatrix("Model.invR", m.invR, ntrain, ntrain); err != nil {
		return err
	}

	meanVal, err := m.mean.Value(m.x)
	if err != nil {
		return err
	}
	residual := mat.NewVecDense(ntrain, nil)
	residual.SubVec(m.y, meanVal)

	m.weights = mat.NewVecDense(ntrain, nil)
	m.weights.MulVec(m.invR, residual)

	ones := mat.NewVecDense(ntrain, nil)
	for i := 0; i < ntrain; i++ {
		ones.SetVec(i, 1)
	}
	m.invROnes = mat.NewVecDense(ntrain, nil)
	m.invROnes.MulVec(m.invR, ones)
	m.onesC = mat.Dot(ones, m.invROnes)

	// onesC divides every variance; weights enter every prediction.
	if err := errors.CheckScalar("Model.onesC", m.onesC); err != nil {
		return err
	}
	return errors.CheckNumericalStability("Model.weights", m.weights.RawVector().Data)
}

// System returns the chemical system label.
func (m *Model) System() string { return m.system }

// Atom returns the atom label.
func (m *Model) Atom() string { return m.atom }

// Property returns the modeled property label.
func (m *Model) Property() string { return m.property }

// Nugget returns the diagonal regularization value.
func (m *Model) Nugget() float64 { return m.nugget }

// Mean returns the prior mean function.
func (m *Model) Mean() mean.Mean { return m.mean }

// Kernel returns the composite covariance function.
func (m *Model) Kernel() *kernel.Composite { return m.kernel }

// NTrain returns the number of training points.
func (m *Model) NTrain() int {
	n, _ := m.x.Dims()
	return n
}

// NFeatures returns the number of features the model expects.
func (m *Model) NFeatures() int {
	_, c := m.x.Dims()
	return c
}

// TrainingX returns a read-only view of the training inputs.
func (m *Model) TrainingX() mat.Matrix { return m.x }

// TrainingY returns a read-only view of the training labels.
func (m *Model) TrainingY() mat.Vector { return m.y }

// checkInput validates the shape of a batch of test points.
func (m *Model) checkInput(op string, xstar mat.Matrix) (rows int, err error) {
	rows, cols := xstar.Dims()
	if rows == 0 {
		return 0, errors.NewValueError(op, "empty input matrix")
	}
	if cols != m.NFeatures() {
		return 0, errors.NewDimensionError(op, m.NFeatures(), cols, 1)
	}
	return rows, nil
}

// Predict returns the posterior mean for each row of xstar:
//
//	mean(x*) + r(X, x*)ᵀ · weights
func (m *Model) Predict(xstar mat.Matrix) (out *mat.VecDense, err error) {
	defer errors.Recover(&err, "Model.Predict")

	rows, err := m.checkInput("Model.Predict", xstar)
	if err != nil {
		return nil, err
	}

	cross, err := m.kernel.Cross(m.x, xstar)
	if err != nil {
		return nil, err
	}
	meanVal, err := m.mean.Value(xstar)
	if err != nil {
		return nil, err
	}

	out = mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		ri := cross.ColView(i)
		out.SetVec(i, meanVal.AtVec(i)+mat.Dot(ri, m.weights))
	}
	return out, nil
}

// PredictOne returns the posterior mean for a single feature vector.
func (m *Model) PredictOne(x []float64) (float64, error) {
	if len(x) != m.NFeatures() {
		return 0, errors.NewDimensionError("Model.Predict", m.NFeatures(), len(x), 1)
	}
	out, err := m.Predict(rowMatrix(x))
	if err != nil {
		return 0, err
	}
	return out.AtVec(0), nil
}

// Variance returns the universal-kriging predictive variance for each row
// of xstar. With r the train-test covariance column of a test point,
//
//	a = rᵀ·invR·r
//	b = (1 - 1ᵀ·invR·r)²
//	c = 1ᵀ·invR·1
//	variance = 1 - a + b/c
//
// Values are not clamped: tiny negative results are numerical noise and
// are left visible to the caller.
func (m *Model) Variance(xstar mat.Matrix) (out *mat.VecDense, err error) {
	defer errors.Recover(&err, "Model.Variance")

	rows, err := m.checkInput("Model.Variance", xstar)
	if err != nil {
		return nil, err
	}

	cross, err := m.kernel.Cross(m.x, xstar)
	if err != nil {
		return nil, err
	}

	ntrain := m.NTrain()
	out = mat.NewVecDense(rows, nil)
	parallel.ParallelizeWithThreshold(rows, varianceParallelThreshold, func(start, end int) {
		tmp := mat.NewVecDense(ntrain, nil)
		for i := start; i < end; i++ {
			ri := cross.ColView(i)
			tmp.MulVec(m.invR, ri)

			a := mat.Dot(ri, tmp)
			u := 1.0 - mat.Dot(m.invROnes, ri)
			out.SetVec(i, 1.0-a+u*u/m.onesC)
		}
	})
	return out, nil
}

// VarianceOne returns the predictive variance for a single feature vector.
func (m *Model) VarianceOne(x []float64) (float64, error) {
	if len(x) != m.NFeatures() {
		return 0, errors.NewDimensionError("Model.Variance", m.NFeatures(), len(x), 1)
	}
	out, err := m.Variance(rowMatrix(x))
	if err != nil {
		return 0, err
	}
	return out.AtVec(0), nil
}

// rowMatrix promotes a feature vector to a 1-row matrix without copying.
func rowMatrix(x []float64) mat.Matrix {
	return mat.NewDense(1, len(x), x)
}
