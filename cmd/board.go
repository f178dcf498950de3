package cmd

import (
	"strconv"
	"strings"

	"gameframe/game/tictactoe"

	"github.com/muesli/termenv"
)

// boardRenderer draws a tic-tac-toe board, colouring marks and numbering free cells.
type boardRenderer struct {
	out *termenv.Output
}

func (b boardRenderer) render(state tictactoe.State) string {
	var sb strings.Builder
	for row := 0; row < 3; row++ {
		if row > 0 {
			sb.WriteString("\n---+---+---\n")
		}
		for col := 0; col < 3; col++ {
			if col > 0 {
				sb.WriteString("|")
			}
			i := row*3 + col
			sb.WriteString(" " + b.cell(state.Cell(i), i) + " ")
		}
	}
	return sb.String()
}

func (b boardRenderer) cell(cell tictactoe.Cell, i int) string {
	switch cell {
	case tictactoe.CellX:
		return b.out.String("X").Foreground(b.out.Color("1")).Bold().String()
	case tictactoe.CellO:
		return b.out.String("O").Foreground(b.out.Color("4")).Bold().String()
	default:
		return b.out.String(strconv.Itoa(i)).Faint().String()
	}
}
