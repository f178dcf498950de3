package game

import "golang.org/x/exp/slices"

// Any game that aims to be playable by the searcher implements State and Rules. The searcher
// never looks inside a state: board encodings stay private to each game package.

type StateHash uint64

type HistoryHash uint64

// Player identities as reported by State.ActivePlayer and Rules.WinningPlayerNumber.
const (
	FirstPlayer  = 1
	SecondPlayer = -1
	Draw         = 0
)

// State is one position at one point in the game. States are immutable values: a transition
// always returns a new state and never touches the receiver.
type State interface {
	// ActivePlayer is +1 or -1 depending on whose turn is next
	ActivePlayer() int
	// ActivePlayerIndex is the zero-based role index of ActivePlayer
	ActivePlayerIndex() int
	// StateHash depends on board content only and is used as a transposition key
	StateHash() StateHash
	// HistoryHash identifies the path that led to this state
	HistoryHash() HistoryHash
	// HeuristicValue estimates the position from the active player's perspective, in [-1, 1]
	HeuristicValue() float64
	LastMoveDescription() string
	// PreRun and PostRun are called by a searcher around processing the state. They must not
	// change the outcome and may be called any number of times.
	PreRun()
	PostRun()
}

// Rules drives the search for one concrete game.
type Rules[S State] interface {
	Name() string
	Roles() []string
	// Expand returns every state reachable by one legal move, in a deterministic order
	Expand(state S) []S
	// DetermineWinner reports decided == false while the game continues. Otherwise score is 0 for
	// a draw and nonzero for a decisive result of the player who moved last (-1: last mover won).
	DetermineWinner(state S) (score float64, decided bool)
	// WinningPlayerNumber is 0 for a draw, or the ActivePlayer identity of the winner
	WinningPlayerNumber(state S) (player int, decided bool)
}

// Evaluates the state to a score between -1 and 1 indicating how favorable the position is for
// the player to move.
type Evaluate[S State] func(S) float64

// Heuristic is the default evaluation, deferring to the state itself.
func Heuristic[S State](s S) float64 {
	return s.HeuristicValue()
}

// RoleIndex maps a player identity to its index in Rules.Roles.
func RoleIndex(player int) int {
	if player == SecondPlayer {
		return 1
	}
	return 0
}

// PlayerOf maps a role index back to its player identity.
func PlayerOf(index int) int {
	if index == 1 {
		return SecondPlayer
	}
	return FirstPlayer
}

// RoleName returns the role label of a player, or "draw".
func RoleName[S State](rules Rules[S], player int) string {
	if player == Draw {
		return "draw"
	}
	return rules.Roles()[RoleIndex(player)]
}

// IsSuccessor reports whether next is one of the states rules.Expand lists for state.
func IsSuccessor[S State](rules Rules[S], state, next S) bool {
	return slices.IndexFunc(rules.Expand(state), func(successor S) bool {
		return successor.StateHash() == next.StateHash() && successor.HistoryHash() == next.HistoryHash()
	}) >= 0
}
