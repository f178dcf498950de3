package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type stubState struct{ heuristic float64 }

func (s stubState) ActivePlayer() int           { return FirstPlayer }
func (s stubState) ActivePlayerIndex() int      { return 0 }
func (s stubState) StateHash() StateHash        { return 0 }
func (s stubState) HistoryHash() HistoryHash    { return 0 }
func (s stubState) HeuristicValue() float64     { return s.heuristic }
func (s stubState) LastMoveDescription() string { return "" }
func (s stubState) PreRun()                     {}
func (s stubState) PostRun()                    {}

type stubRules struct{}

func (stubRules) Name() string                              { return "stub" }
func (stubRules) Roles() []string                           { return []string{"A", "B"} }
func (stubRules) Expand(stubState) []stubState              { return nil }
func (stubRules) DetermineWinner(stubState) (float64, bool) { return 0, true }
func (stubRules) WinningPlayerNumber(stubState) (int, bool) { return Draw, true }

func TestRoleIndex(t *testing.T) {
	require.Equal(t, 0, RoleIndex(FirstPlayer))
	require.Equal(t, 1, RoleIndex(SecondPlayer))
	require.Equal(t, FirstPlayer, PlayerOf(RoleIndex(FirstPlayer)))
	require.Equal(t, SecondPlayer, PlayerOf(RoleIndex(SecondPlayer)))
}

func TestRoleName(t *testing.T) {
	var rules Rules[stubState] = stubRules{}
	require.Equal(t, "A", RoleName(rules, FirstPlayer))
	require.Equal(t, "B", RoleName(rules, SecondPlayer))
	require.Equal(t, "draw", RoleName(rules, Draw))
}

func TestHeuristic(t *testing.T) {
	require.Equal(t, 0.25, Heuristic(stubState{heuristic: 0.25}))
}

type pathState struct {
	position int
	history  int
}

func (s pathState) ActivePlayer() int           { return FirstPlayer }
func (s pathState) ActivePlayerIndex() int      { return 0 }
func (s pathState) StateHash() StateHash        { return StateHash(s.position) }
func (s pathState) HistoryHash() HistoryHash    { return HistoryHash(s.history) }
func (s pathState) HeuristicValue() float64     { return 0 }
func (s pathState) LastMoveDescription() string { return "" }
func (s pathState) PreRun()                     {}
func (s pathState) PostRun()                    {}

// pathRules steps forward by one or two positions.
type pathRules struct{ stubRules }

func (pathRules) Expand(s pathState) []pathState {
	return []pathState{
		{position: s.position + 1, history: s.history*10 + 1},
		{position: s.position + 2, history: s.history*10 + 2},
	}
}
func (pathRules) DetermineWinner(pathState) (float64, bool) { return 0, false }
func (pathRules) WinningPlayerNumber(pathState) (int, bool) { return Draw, false }

func TestIsSuccessor(t *testing.T) {
	var rules Rules[pathState] = pathRules{}
	start := pathState{}

	require.True(t, IsSuccessor(rules, start, pathState{position: 1, history: 1}))
	require.True(t, IsSuccessor(rules, start, pathState{position: 2, history: 2}))
	require.False(t, IsSuccessor(rules, start, start), "A state does not follow itself")
	require.False(t, IsSuccessor(rules, start, pathState{position: 3, history: 12}), "Two steps are not one move")
	require.False(t, IsSuccessor(rules, start, pathState{position: 2, history: 11}), "Same position reached through another history")
	require.False(t, IsSuccessor[stubState](stubRules{}, stubState{}, stubState{}), "Terminal states have no successors")
}
