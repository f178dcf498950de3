package agent

import (
	"context"

	"gameframe/experiments/metrics"
	"gameframe/game"
	"gameframe/searcher"
)

type evaluationAgent[S game.State] struct {
	mcts Searcher[S]
}

// NewEvaluationAgent returns a new agent for actual game play during evaluation.
func NewEvaluationAgent[S game.State](mcts Searcher[S]) Agent[S] {
	return evaluationAgent[S]{mcts: mcts}
}

func (a evaluationAgent[S]) FindMove(ctx context.Context, state S, updates []searcher.Segment) (S, metrics.SearchMetric, error) {
	policy, metric := a.mcts.Simulate(ctx, state, updates)
	if len(policy) == 0 {
		var zero S
		return zero, metric, ErrNoMoves
	}
	return findMax(policy), metric, nil
}

// findMax keeps the first choice on ties so the successor order of Expand breaks them.
func findMax[S game.State](policy []searcher.Choice[S]) S {
	maxIndex := 0
	for i, choice := range policy {
		if choice.Visits > policy[maxIndex].Visits {
			maxIndex = i
		}
	}
	return policy[maxIndex].State
}
