// Package log defines standard attribute keys for model and selection
// operations.
//
// Using these keys consistently keeps the JSON log output filterable:
// every model-related record carries the system/atom/property triple, and
// every selection record carries the selector name and pool size.

package log

// Model identity and shape.
const (
	// SystemKey identifies the chemical system the model belongs to.
	// Examples: "WATER", "METHANOL"
	SystemKey = "model.system"

	// AtomKey identifies the atom the model predicts a property for.
	// Examples: "O1", "H2"
	AtomKey = "model.atom"

	// PropertyKey identifies the modeled property.
	// Examples: "iqa", "q00"
	PropertyKey = "model.property"

	// TrainingPointsKey is the number of training points in the model.
	TrainingPointsKey = "model.ntrain"

	// FeaturesKey is the number of features the model expects.
	FeaturesKey = "model.nfeats"

	// NuggetKey is the diagonal regularization added to the covariance matrix.
	NuggetKey = "model.nugget"

	// CompositionKey is the kernel composition expression of the model.
	CompositionKey = "model.composition"
)

// Component and operation context.
const (
	// ComponentKey identifies which package is performing the operation.
	// Examples: "gp.loader", "active.epe"
	ComponentKey = "component"

	// OperationKey specifies the operation being performed.
	// Standard values: "load", "select"
	OperationKey = "operation"

	// PathKey is the file path a model was loaded from.
	PathKey = "path"

	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"
)

// Selection context.
const (
	// SelectorKey identifies the active-learning selector in use.
	// Examples: "random", "epe"
	SelectorKey = "selection.selector"

	// PoolSizeKey is the number of candidate points available for selection.
	PoolSizeKey = "selection.pool_size"

	// RequestedKey is the number of points requested from the selector.
	RequestedKey = "selection.requested"

	// SelectedKey is the number of points actually returned.
	SelectedKey = "selection.selected"

	// ModelsKey is the number of models contributing to an aggregate score.
	ModelsKey = "selection.models"

	// FailedModelsKey counts models whose variance evaluation failed
	// during a selection and were therefore excluded from the score.
	FailedModelsKey = "selection.failed_models"
)

// Standard operation values. Predictions and variances are hot paths
// and are intentionally not logged per call.
const (
	OperationLoad   = "load"
	OperationSelect = "select"
)
