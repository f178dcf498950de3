package agent

import (
	"context"
	"testing"

	"gameframe/experiments/metrics"
	"gameframe/game/tictactoe"
	"gameframe/searcher"

	"github.com/stretchr/testify/require"
)

type fixedSearcher struct {
	policy []searcher.Choice[tictactoe.State]
	paths  [][]searcher.Segment
}

func (f *fixedSearcher) Simulate(_ context.Context, _ tictactoe.State, path []searcher.Segment) ([]searcher.Choice[tictactoe.State], metrics.SearchMetric) {
	f.paths = append(f.paths, path)
	return f.policy, metrics.SearchMetric{Episodes: 42}
}

func successor(t *testing.T, move int) tictactoe.State {
	t.Helper()
	state, err := tictactoe.Empty().ApplyMove(move)
	require.NoError(t, err)
	return state
}

func TestEvaluationAgent(t *testing.T) {
	t.Run("picks the most visited move", func(t *testing.T) {
		s := &fixedSearcher{policy: []searcher.Choice[tictactoe.State]{
			{State: successor(t, 0), Visits: 3},
			{State: successor(t, 4), Visits: 10},
			{State: successor(t, 8), Visits: 5},
		}}
		updates := []searcher.Segment{searcher.SegmentOf(tictactoe.Empty())}

		got, metric, err := NewEvaluationAgent[tictactoe.State](s).FindMove(context.Background(), tictactoe.Empty(), updates)

		require.NoError(t, err)
		require.Equal(t, 4, got.LastMove())
		require.Equal(t, 42, metric.Episodes)
		require.Equal(t, [][]searcher.Segment{updates}, s.paths, "Updates should be forwarded to the searcher")
	})

	t.Run("keeps the first move on ties", func(t *testing.T) {
		s := &fixedSearcher{policy: []searcher.Choice[tictactoe.State]{
			{State: successor(t, 2), Visits: 7},
			{State: successor(t, 6), Visits: 7},
		}}

		got, _, err := NewEvaluationAgent[tictactoe.State](s).FindMove(context.Background(), tictactoe.Empty(), nil)

		require.NoError(t, err)
		require.Equal(t, 2, got.LastMove())
	})

	t.Run("fails without moves", func(t *testing.T) {
		_, _, err := NewEvaluationAgent[tictactoe.State](&fixedSearcher{}).FindMove(context.Background(), tictactoe.Empty(), nil)
		require.ErrorIs(t, err, ErrNoMoves)
	})

	t.Run("plays the winning move with a real search", func(t *testing.T) {
		mcts := searcher.NewMCTS[tictactoe.State](tictactoe.NewRules(), 2, searcher.WithEpisodes(1000), searcher.WithSeed(1))
		state := tictactoe.Empty()
		for _, move := range []int{0, 3, 1, 4} {
			state, _ = state.ApplyMove(move)
		}

		got, _, err := NewEvaluationAgent[tictactoe.State](mcts).FindMove(context.Background(), state, nil)

		require.NoError(t, err)
		require.Equal(t, 2, got.LastMove())
	})
}

func TestTrainingAgent(t *testing.T) {
	policy := []searcher.Choice[tictactoe.State]{
		{State: successor(t, 0), Visits: 0},
		{State: successor(t, 4), Visits: 10},
	}

	t.Run("never samples unvisited moves", func(t *testing.T) {
		a := NewTrainingAgent[tictactoe.State](&fixedSearcher{policy: policy}, 1.0, 5)
		for i := 0; i < 20; i++ {
			got, _, err := a.FindMove(context.Background(), tictactoe.Empty(), nil)
			require.NoError(t, err)
			require.Equal(t, 4, got.LastMove())
		}
	})

	t.Run("zero temperature is greedy", func(t *testing.T) {
		a := NewTrainingAgent[tictactoe.State](&fixedSearcher{policy: policy}, 0, 5)
		got, _, err := a.FindMove(context.Background(), tictactoe.Empty(), nil)
		require.NoError(t, err)
		require.Equal(t, 4, got.LastMove())
	})

	t.Run("fails without moves", func(t *testing.T) {
		a := NewTrainingAgent[tictactoe.State](&fixedSearcher{}, 1.0, 5)
		_, _, err := a.FindMove(context.Background(), tictactoe.Empty(), nil)
		require.ErrorIs(t, err, ErrNoMoves)
	})
}

func TestAdjustTemperature(t *testing.T) {
	policy := []searcher.Choice[tictactoe.State]{{Visits: 1}, {Visits: 3}}

	require.InDeltaSlice(t, []float64{0.25, 0.75}, adjustTemperature(policy, 1.0), 1e-9)
	require.InDeltaSlice(t, []float64{0.1, 0.9}, adjustTemperature(policy, 0.5), 1e-9)
	require.InDeltaSlice(t, []float64{0.5, 0.5}, adjustTemperature([]searcher.Choice[tictactoe.State]{{}, {}}, 1.0), 1e-9)
}

func TestSample(t *testing.T) {
	probs := []float64{0.2, 0.3, 0.5}

	require.Equal(t, 0, sample(probs, 0.1))
	require.Equal(t, 1, sample(probs, 0.2))
	require.Equal(t, 2, sample(probs, 0.99))
	require.Equal(t, 1, sample([]float64{0.5, 0.4999}, 0.99999), "Rounding errors should fall back to the last move")
}
