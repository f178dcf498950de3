package cmd

import (
	"errors"
	"fmt"
	"strings"

	"gameframe/engine"
	"gameframe/game/tictactoe"
	"gameframe/player"
	"gameframe/searcher"
	"gameframe/searcher/agent"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

func Play(s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play tic-tac-toe in the terminal against the search",
		Args:  cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			as, _ := cmd.Flags().GetString("as")
			rules := tictactoe.NewRules()
			board := boardRenderer{out: termenv.NewOutput(cmd.OutOrStdout())}

			human := -1
			for i, role := range rules.Roles() {
				if strings.EqualFold(role, as) {
					human = i
				}
			}
			if human < 0 && !strings.EqualFold(as, "none") {
				return fmt.Errorf("unknown role %q, want one of %s or none", as, strings.Join(rules.Roles(), ", "))
			}

			agents := make([]agent.Agent[tictactoe.State], len(rules.Roles()))
			for i := range agents {
				if i == human {
					agents[i] = player.NewHuman[tictactoe.State](rules, cmd.InOrStdin(), cmd.OutOrStdout(), board.render)
					continue
				}
				mcts := searcher.NewMCTS[tictactoe.State](rules, s.Goroutines, s.searchOptions()...)
				agents[i] = agent.NewEvaluationAgent[tictactoe.State](mcts)
			}

			e := engine.NewLocalEngine(rules, tictactoe.Empty(), agents)
			winner, _, _, err := e.Run(cmd.Context())
			if err != nil && !errors.Is(err, engine.ErrMaxMoves) {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), board.render(e.State))
			fmt.Fprintf(cmd.OutOrStdout(), "winner: %s\n", winner)
			return nil
		},
	}

	cmd.Flags().String("as", "X", "Role played from the terminal (X, O or none for self-play)")
	return cmd
}
