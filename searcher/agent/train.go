package agent

import (
	"context"
	"math"
	"sync"

	"gameframe/experiments/metrics"
	"gameframe/game"
	"gameframe/searcher"

	"golang.org/x/exp/rand"
)

type trainingAgent[S game.State] struct {
	mcts        Searcher[S]
	temperature float64
	mu          sync.Mutex
	rng         *rand.Rand
}

// NewTrainingAgent returns a new agent for self-play during training. Moves are sampled in
// proportion to visits^(1/temperature); a temperature of 0 or less picks the most visited move.
func NewTrainingAgent[S game.State](mcts Searcher[S], temperature float64, seed uint64) Agent[S] {
	return &trainingAgent[S]{
		mcts:        mcts,
		temperature: temperature,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

func (a *trainingAgent[S]) FindMove(ctx context.Context, state S, updates []searcher.Segment) (S, metrics.SearchMetric, error) {
	policy, metric := a.mcts.Simulate(ctx, state, updates)
	if len(policy) == 0 {
		var zero S
		return zero, metric, ErrNoMoves
	}
	if a.temperature <= 0 {
		return findMax(policy), metric, nil
	}

	probs := adjustTemperature(policy, a.temperature)
	a.mu.Lock()
	sampled := a.rng.Float64()
	a.mu.Unlock()
	return policy[sample(probs, sampled)].State, metric, nil
}

func adjustTemperature[S game.State](policy []searcher.Choice[S], temperature float64) []float64 {
	// Compute temperature-adjusted move probabilities
	exponent := 1.0 / temperature
	sum := 0.0
	adjusted := make([]float64, len(policy))
	for i, choice := range policy {
		prob := math.Pow(choice.Visits, exponent)
		sum += prob
		adjusted[i] = prob
	}
	if sum == 0 {
		for i := range adjusted {
			adjusted[i] = 1 / float64(len(adjusted))
		}
		return adjusted
	}
	// Normalize
	for i := range adjusted {
		adjusted[i] /= sum
	}
	return adjusted
}

func sample(probs []float64, sampled float64) int {
	cumulative := 0.0
	for i, prob := range probs {
		cumulative += prob
		if sampled < cumulative {
			return i
		}
	}
	return len(probs) - 1 // Fallback in case of rounding errors
}
