package player

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"gameframe/experiments/metrics"
	"gameframe/game"
	"gameframe/searcher"

	"golang.org/x/exp/slices"
)

var ErrNoInput = errors.New("input closed before a move was entered")

// Human asks for moves on a line-based console. Each line must match the description of one of
// the successors listed by the rules.
type Human[S game.State] struct {
	rules  game.Rules[S]
	input  *bufio.Scanner
	output io.Writer
	render func(S) string
}

// NewHuman reads moves from in and writes the board and prompts to out. render may be nil.
func NewHuman[S game.State](rules game.Rules[S], in io.Reader, out io.Writer, render func(S) string) *Human[S] {
	return &Human[S]{
		rules:  rules,
		input:  bufio.NewScanner(in),
		output: out,
		render: render,
	}
}

func (h *Human[S]) FindMove(ctx context.Context, state S, _ []searcher.Segment) (S, metrics.SearchMetric, error) {
	var zero S
	successors := h.rules.Expand(state)
	moves := make([]string, len(successors))
	for i, successor := range successors {
		moves[i] = successor.LastMoveDescription()
	}

	if h.render != nil {
		fmt.Fprintln(h.output, h.render(state))
	}
	for {
		if err := ctx.Err(); err != nil {
			return zero, metrics.SearchMetric{}, err
		}
		fmt.Fprintf(h.output, "%s to move [%s]: ", game.RoleName(h.rules, state.ActivePlayer()), strings.Join(moves, " "))
		if !h.input.Scan() {
			if err := h.input.Err(); err != nil {
				return zero, metrics.SearchMetric{}, fmt.Errorf("failed to read move: %w", err)
			}
			return zero, metrics.SearchMetric{}, ErrNoInput
		}

		move := strings.TrimSpace(h.input.Text())
		if i := slices.Index(moves, move); i >= 0 {
			return successors[i], metrics.SearchMetric{}, nil
		}
		fmt.Fprintf(h.output, "%v: %q\n", game.ErrInvalidMove, move)
	}
}
