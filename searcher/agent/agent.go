package agent

import (
	"context"
	"errors"

	"gameframe/experiments/metrics"
	"gameframe/game"
	"gameframe/searcher"
)

var ErrNoMoves = errors.New("search returned no moves")

type Agent[S game.State] interface {
	// FindMove returns the chosen successor and performance metrics (if collected) from the simulation process
	FindMove(ctx context.Context, state S, updates []searcher.Segment) (S, metrics.SearchMetric, error)
}

// Searcher is the part of *searcher.MCTS an agent depends on.
type Searcher[S game.State] interface {
	Simulate(ctx context.Context, state S, path []searcher.Segment) ([]searcher.Choice[S], metrics.SearchMetric)
}
