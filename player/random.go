package player

import (
	"context"
	"sync"

	"gameframe/experiments/metrics"
	"gameframe/game"
	"gameframe/searcher"
	"gameframe/searcher/agent"

	"golang.org/x/exp/rand"
)

// Random plays a uniformly random legal move. It is the weakest baseline for experiments.
type Random[S game.State] struct {
	rules game.Rules[S]
	mu    sync.Mutex
	rng   *rand.Rand
}

func NewRandom[S game.State](rules game.Rules[S], seed uint64) *Random[S] {
	return &Random[S]{
		rules: rules,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

func (r *Random[S]) FindMove(_ context.Context, state S, _ []searcher.Segment) (S, metrics.SearchMetric, error) {
	successors := r.rules.Expand(state)
	if len(successors) == 0 {
		var zero S
		return zero, metrics.SearchMetric{}, agent.ErrNoMoves
	}
	r.mu.Lock()
	i := r.rng.Intn(len(successors))
	r.mu.Unlock()
	return successors[i], metrics.SearchMetric{}, nil
}
