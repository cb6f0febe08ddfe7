package active

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/krigo/core/parallel"
	"github.com/YuminosukeSato/krigo/gp"
	"github.com/YuminosukeSato/krigo/pkg/errors"
	"github.com/YuminosukeSato/krigo/pkg/log"
)

// Aggregate is the policy for combining per-model predictive variances
// into one score per candidate.
type Aggregate int

const (
	// AggregateSum adds the variances of all models. This is the default:
	// independent models with jointly minimized errors.
	AggregateSum Aggregate = iota

	// AggregateMax scores a candidate by its worst model.
	AggregateMax

	// AggregateMean averages over the models that evaluated successfully.
	AggregateMean
)

// String returns the policy tag.
func (a Aggregate) String() string {
	switch a {
	case AggregateSum:
		return "sum"
	case AggregateMax:
		return "max"
	case AggregateMean:
		return "mean"
	default:
		return "unknown"
	}
}

// EPE is the expected-prediction-error selector: it scores every
// candidate by the aggregated predictive variance of one or more
// Gaussian-process models and picks the n highest-scoring candidates.
// Ties are broken by ascending pool index, so selection is deterministic.
type EPE struct {
	models    gp.Models
	aggregate Aggregate
}

// EPEOption configures an EPE selector.
type EPEOption func(*EPE)

// WithAggregate overrides the default sum aggregation policy.
func WithAggregate(a Aggregate) EPEOption {
	return func(s *EPE) {
		s.aggregate = a
	}
}

// NewEPE creates an uncertainty-maximizing selector over the given models.
func NewEPE(models gp.Models, opts ...EPEOption) (*EPE, error) {
	if len(models) == 0 {
		return nil, errors.NewValueError("active.NewEPE", "at least one model is required")
	}
	s := &EPE{models: models, aggregate: AggregateSum}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Name implements Selector.
func (s *EPE) Name() string { return "epe" }

// GetPoints implements Selector. Variance evaluation runs per model in
// parallel; a model that fails to evaluate is dropped from the aggregate
// (and logged), and the selection only fails if every model failed.
func (s *EPE) GetPoints(pool mat.Matrix, n int) ([]int, error) {
	rows, err := validateRequest(s.Name(), pool, n)
	if err != nil {
		return nil, err
	}

	variances := make([]*mat.VecDense, len(s.models))
	failures := make([]error, len(s.models))
	parallel.Parallelize(len(s.models), func(start, end int) {
		for k := start; k < end; k++ {
			variances[k], failures[k] = s.models[k].Variance(pool)
		}
	})

	logger := log.GetLoggerWithName("active.epe")
	failed := 0
	for k, ferr := range failures {
		if ferr == nil {
			continue
		}
		failed++
		m := s.models[k]
		logger.Warn("model excluded from uncertainty score",
			log.ErrAttr(ferr),
			log.SystemKey, m.System(),
			log.AtomKey, m.Atom(),
			log.PropertyKey, m.Property(),
		)
	}
	if failed == len(s.models) {
		first := failures[0]
		return nil, errors.NewSelectionError(s.Name(), "all models failed to evaluate", first)
	}

	scores := s.aggregateScores(rows, variances)

	order := make([]int, rows)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		ia, ib := order[a], order[b]
		if scores[ia] != scores[ib] {
			return scores[ia] > scores[ib]
		}
		return ia < ib
	})

	if n > rows {
		n = rows
	}
	selected := order[:n]

	logger.Info("points selected",
		log.SelectorKey, s.Name(),
		log.OperationKey, log.OperationSelect,
		log.PoolSizeKey, rows,
		log.RequestedKey, n,
		log.SelectedKey, len(selected),
		log.ModelsKey, len(s.models),
		log.FailedModelsKey, failed,
		"aggregate", s.aggregate.String(),
	)
	return selected, nil
}

// aggregateScores folds the per-model variance vectors into one score per
// candidate according to the configured policy. Models that failed are
// represented by a nil vector and skipped.
func (s *EPE) aggregateScores(rows int, variances []*mat.VecDense) []float64 {
	scores := make([]float64, rows)
	counted := 0
	for _, v := range variances {
		if v == nil {
			continue
		}
		first := counted == 0
		for i := 0; i < rows; i++ {
			x := v.AtVec(i)
			switch s.aggregate {
			case AggregateMax:
				if first || x > scores[i] {
					scores[i] = x
				}
			default:
				scores[i] += x
			}
		}
		counted++
	}

	if s.aggregate == AggregateMean && counted > 0 {
		for i := range scores {
			scores[i] /= float64(counted)
		}
	}
	return scores
}
