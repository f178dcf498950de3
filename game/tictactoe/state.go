package tictactoe

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"strconv"
	"strings"

	"gameframe/game"
)

const (
	BoardLength = 9
	// NoMove marks the initial state
	NoMove = -1
)

const (
	cellBits = 2
	cellMask = 0b11
	// Low bit of every cell slot
	occupancyMask uint32 = 0x15555
	boardMask     uint32 = 1<<(BoardLength*cellBits) - 1
	historyBits          = 4
)

// Constant heuristic: tic-tac-toe carries no positional evaluation.
const heuristicValue = 0.01

type Cell uint8

const (
	CellEmpty Cell = 0
	CellX     Cell = 1
	CellO     Cell = 2
)

func (c Cell) String() string {
	switch c {
	case CellX:
		return "X"
	case CellO:
		return "O"
	default:
		return " "
	}
}

var _ game.State = State{}

// State packs the 3x3 board into 18 bits, two bits per cell in row-major order.
type State struct {
	board   uint32
	active  int8
	last    int8
	history uint64
}

// Empty returns the initial state: an empty board with X to move.
func Empty() State {
	return State{active: game.FirstPlayer, last: NoMove}
}

func (s State) Board() uint32 {
	return s.board
}

func (s State) LastMove() int {
	return int(s.last)
}

func (s State) Cell(i int) Cell {
	return Cell((s.board >> (i * cellBits)) & cellMask)
}

func (s State) ActivePlayer() int {
	return int(s.active)
}

func (s State) ActivePlayerIndex() int {
	return game.RoleIndex(int(s.active))
}

func (s State) StateHash() game.StateHash {
	return game.StateHash(s.board)
}

// HistoryHash packs the whole move order, four bits per move, so no two paths collide.
func (s State) HistoryHash() game.HistoryHash {
	return game.HistoryHash(s.history)
}

func (s State) HeuristicValue() float64 {
	return heuristicValue
}

func (s State) LastMoveDescription() string {
	if s.last == NoMove {
		return "none"
	}
	return strconv.Itoa(int(s.last))
}

func (s State) PreRun()  {}
func (s State) PostRun() {}

// ApplyMove returns the state after the active player marks the given cell.
func (s State) ApplyMove(move int) (State, error) {
	if move < 0 || move >= BoardLength {
		return s, fmt.Errorf("%w: %d", game.ErrIndexOutOfRange, move)
	}
	if s.Cell(move) != CellEmpty {
		return s, fmt.Errorf("%w: cell %d is occupied", game.ErrInvalidMove, move)
	}
	return s.play(move), nil
}

// play assumes move indexes an empty cell.
func (s State) play(move int) State {
	code := uint32(CellX)
	if s.active == game.SecondPlayer {
		code = uint32(CellO)
	}
	return State{
		board:   s.board | code<<(move*cellBits),
		active:  -s.active,
		last:    int8(move),
		history: s.history<<historyBits | uint64(move+1),
	}
}

func (s State) occupied() uint32 {
	return (s.board | s.board>>1) & occupancyMask
}

func (s State) String() string {
	var sb strings.Builder
	for row := 0; row < 3; row++ {
		if row > 0 {
			sb.WriteString("\n-+-+-\n")
		}
		for col := 0; col < 3; col++ {
			if col > 0 {
				sb.WriteByte('|')
			}
			sb.WriteString(s.Cell(row*3 + col).String())
		}
	}
	return sb.String()
}

type snapshot struct {
	Board        uint32 `json:"board"`
	ActivePlayer int    `json:"activePlayer"`
	LastMove     int    `json:"lastMove"`
	History      uint64 `json:"history"`
}

func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(snapshot{
		Board:        s.board,
		ActivePlayer: int(s.active),
		LastMove:     int(s.last),
		History:      s.history,
	})
}

func (s *State) UnmarshalJSON(data []byte) error {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("failed to decode state: %w", err)
	}
	if snap.LastMove < NoMove || snap.LastMove >= BoardLength {
		return fmt.Errorf("%w: last move %d", game.ErrInvalidState, snap.LastMove)
	}
	if snap.ActivePlayer != game.FirstPlayer && snap.ActivePlayer != game.SecondPlayer {
		return fmt.Errorf("%w: active player %d", game.ErrInvalidState, snap.ActivePlayer)
	}
	decoded := State{
		board:   snap.Board,
		active:  int8(snap.ActivePlayer),
		last:    int8(snap.LastMove),
		history: snap.History,
	}
	if err := decoded.validate(); err != nil {
		return err
	}
	*s = decoded
	return nil
}

// validate checks that the state is reachable from Empty through its own move history, with no
// move played after the game was decided.
func (s State) validate() error {
	if s.board&^boardMask != 0 {
		return fmt.Errorf("%w: board %#x has bits beyond nine cells", game.ErrInvalidState, s.board)
	}
	if s.active != game.FirstPlayer && s.active != game.SecondPlayer {
		return fmt.Errorf("%w: active player %d", game.ErrInvalidState, s.active)
	}

	moves := bits.OnesCount32(s.occupied())
	if s.history>>(moves*historyBits) != 0 {
		return fmt.Errorf("%w: history has more moves than the board", game.ErrInvalidState)
	}

	replayed := Empty()
	for i := moves - 1; i >= 0; i-- {
		move := int((s.history>>(i*historyBits))&(1<<historyBits-1)) - 1
		next, err := Rules{}.Play(replayed, move)
		if err != nil {
			return fmt.Errorf("%w: history replay: %v", game.ErrInvalidState, err)
		}
		replayed = next
	}
	if replayed != s {
		return fmt.Errorf("%w: history does not reproduce the board", game.ErrInvalidState)
	}
	return nil
}
