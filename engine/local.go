package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gameframe/experiments/metrics"
	"gameframe/game"
	"gameframe/searcher"
	"gameframe/searcher/agent"

	"github.com/rs/zerolog/log"
)

var ErrMaxMoves = errors.New("game stopped before a winner was decided")

type LocalEngine[S game.State] struct {
	State    S
	rules    game.Rules[S]
	agents   []agent.Agent[S] // Indexed by role
	maxMoves int
	observer func(S)
}

type Option[S game.State] func(e *LocalEngine[S])

func WithMaxMoves[S game.State](moves int) Option[S] {
	return func(e *LocalEngine[S]) {
		if moves > 0 {
			e.maxMoves = moves
		}
	}
}

// WithObserver registers a callback invoked with every state after a move is played.
func WithObserver[S game.State](observer func(S)) Option[S] {
	return func(e *LocalEngine[S]) {
		e.observer = observer
	}
}

// NewLocalEngine pits one agent per role against each other, starting from state.
func NewLocalEngine[S game.State](rules game.Rules[S], state S, agents []agent.Agent[S], options ...Option[S]) *LocalEngine[S] {
	if len(agents) != len(rules.Roles()) {
		panic("number of roles does not match number of agents")
	}
	e := &LocalEngine[S]{
		State:    state,
		rules:    rules,
		agents:   agents,
		maxMoves: MaxMoves,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Run executes the entire game loop until a winner is found.
func (e *LocalEngine[S]) Run(ctx context.Context) (string, metrics.GameMetric, []metrics.MoveMetric, error) {
	// Segments played since each agent last searched
	updates := make([][]searcher.Segment, len(e.agents))

	gameMetric := metrics.GameMetric{
		StartingPlayer: game.RoleName(e.rules, e.State.ActivePlayer()),
		StartTime:      time.Now(),
	}
	log.Info().Msgf("%s is starting %s", gameMetric.StartingPlayer, e.rules.Name())

	var moveMetrics []metrics.MoveMetric
	winner, decided := e.rules.WinningPlayerNumber(e.State)
	for step := 1; !decided && step <= e.maxMoves; step++ {
		index := e.State.ActivePlayerIndex()
		player := game.RoleName(e.rules, e.State.ActivePlayer())

		next, searchMetric, err := e.agents[index].FindMove(ctx, e.State, updates[index])
		if err != nil {
			return "", gameMetric, moveMetrics, fmt.Errorf("%s failed to find a move at step %d: %w", player, step, err)
		}
		if !game.IsSuccessor(e.rules, e.State, next) {
			return "", gameMetric, moveMetrics, fmt.Errorf("%s played %q at step %d: %w", player, next.LastMoveDescription(), step, game.ErrInvalidMove)
		}
		updates[index] = nil
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step,
			Player:       player,
			SearchMetric: searchMetric,
		})

		segment := searcher.SegmentOf(next)
		for i := range updates {
			updates[i] = append(updates[i], segment)
		}

		log.Debug().Msgf("step %d: %s played %s", step, player, next.LastMoveDescription())
		e.State = next
		if e.observer != nil {
			e.observer(next)
		}
		winner, decided = e.rules.WinningPlayerNumber(e.State)
	}

	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = len(moveMetrics)

	if !decided {
		log.Warn().Msgf("stopped after %d moves (no winner yet)", e.maxMoves)
		return "", gameMetric, moveMetrics, ErrMaxMoves
	}

	gameMetric.Winner = game.RoleName(e.rules, winner)
	log.Info().Msgf("game ended after %d moves, winner: %s", gameMetric.TotalMoves, gameMetric.Winner)
	return gameMetric.Winner, gameMetric, moveMetrics, nil
}
