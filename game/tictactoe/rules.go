package tictactoe

import "gameframe/game"

// Cells of every row, column and diagonal
var lines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// winners[cell] lists the X-aligned bitmask of every line through cell. A move can only complete
// a line it belongs to, so only these need checking.
var winners [BoardLength][]uint32

func init() {
	for _, line := range lines {
		var mask uint32
		for _, cell := range line {
			mask |= uint32(CellX) << (cell * cellBits)
		}
		for _, cell := range line {
			winners[cell] = append(winners[cell], mask)
		}
	}
}

var _ game.Rules[State] = Rules{}

type Rules struct{}

func NewRules() Rules {
	return Rules{}
}

func (Rules) Name() string {
	return "tictactoe"
}

func (Rules) Roles() []string {
	return []string{"X", "O"}
}

func (Rules) Expand(state State) []State {
	successors := make([]State, 0, BoardLength)
	for i := 0; i < BoardLength; i++ {
		if state.Cell(i) != CellEmpty {
			continue
		}
		successors = append(successors, state.play(i))
	}
	return successors
}

func (Rules) DetermineWinner(state State) (float64, bool) {
	if state.last == NoMove {
		return 0, false
	}

	// Align the last mover's marks with the X masks: O's code sits one bit higher
	shift := 0
	if state.active == game.FirstPlayer {
		shift = 1
	}
	moves := state.board >> shift
	for _, line := range winners[state.last] {
		if moves&line == line {
			return -1, true
		}
	}

	if state.occupied() == occupancyMask {
		return 0, true
	}
	return 0, false
}

func (r Rules) WinningPlayerNumber(state State) (int, bool) {
	score, decided := r.DetermineWinner(state)
	if !decided {
		return 0, false
	}
	if score == 0 {
		return game.Draw, true
	}
	return -state.ActivePlayer(), true
}

// Play applies a move by cell index, refusing moves once the game is decided.
func (r Rules) Play(state State, move int) (State, error) {
	if _, decided := r.DetermineWinner(state); decided {
		return state, game.ErrGameOver
	}
	return state.ApplyMove(move)
}
