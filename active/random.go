package active

import (
	"math/rand"
	"time"

	"gonum.org/v1/gonum/mat"
)

// Random selects a uniform sample of candidates without replacement.
// It is the baseline selection strategy used to bootstrap a training set
// before any model exists to estimate uncertainty from.
//
// The randomness source is explicit so selections can be reproduced;
// without WithSeed or WithRand the selector falls back to a time-seeded
// source.
type Random struct {
	rng *rand.Rand
}

// RandomOption configures a Random selector.
type RandomOption func(*Random)

// WithSeed makes the selector deterministic for a given seed.
func WithSeed(seed int64) RandomOption {
	return func(s *Random) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRand supplies an external randomness source. The caller keeps
// ownership; the source must not be shared with concurrent users.
func WithRand(rng *rand.Rand) RandomOption {
	return func(s *Random) {
		s.rng = rng
	}
}

// NewRandom creates a uniform-random selector.
func NewRandom(opts ...RandomOption) *Random {
	s := &Random{}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return s
}

// Name implements Selector.
func (s *Random) Name() string { return "random" }

// GetPoints implements Selector. It returns min(n, rows) distinct indices
// in draw order.
func (s *Random) GetPoints(pool mat.Matrix, n int) ([]int, error) {
	rows, err := validateRequest(s.Name(), pool, n)
	if err != nil {
		return nil, err
	}

	if n > rows {
		n = rows
	}
	return s.rng.Perm(rows)[:n], nil
}
