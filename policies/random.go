package policies

import (
	"time"

	"github.com/zeu5/tabular-rl/core"
	erand "golang.org/x/exp/rand"
)

// RandomLearner picks actions uniformly and never learns. Used as a
// baseline next to Agent.
type RandomLearner[S comparable] struct {
	actions int
	rand    *erand.Rand
}

var _ core.Learner[string] = &RandomLearner[string]{}

func NewRandomLearner[S comparable](actions int, seed uint64) *RandomLearner[S] {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &RandomLearner[S]{
		actions: actions,
		rand:    erand.New(erand.NewSource(seed)),
	}
}

func (r *RandomLearner[S]) SelectAction(_ S) int {
	return r.rand.Intn(r.actions)
}

func (r *RandomLearner[S]) Step(_ S, _ int, _ float64, _ S, _ bool) {}

type RandomLearnerConstructor[S comparable] struct {
	Actions int
	// Seed, offset by the run number, 0 seeds from the clock.
	Seed uint64
}

func (r *RandomLearnerConstructor[S]) NewLearner(run int) (core.Learner[S], error) {
	if r.Actions <= 0 {
		return nil, ErrInvalidActions
	}
	seed := r.Seed
	if seed != 0 {
		seed += uint64(run)
	}
	return NewRandomLearner[S](r.Actions, seed), nil
}
