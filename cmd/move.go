package cmd

import (
	"fmt"

	"gameframe/game/tictactoe"
	"gameframe/server"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

func Move(s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move [cell]",
		Short: "Send a move to a running server, or show its game without one",
		Args:  cobra.MaximumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			url, _ := cmd.Flags().GetString("server")
			if url == "" {
				url = "http://" + s.Address
			}
			reset, _ := cmd.Flags().GetBool("reset")
			client := server.NewClient[tictactoe.State](url)

			var snapshot server.Snapshot[tictactoe.State]
			var err error
			switch {
			case reset:
				snapshot, err = client.Reset(cmd.Context())
			case len(args) == 1:
				snapshot, err = client.Move(cmd.Context(), args[0])
			default:
				snapshot, err = client.State(cmd.Context())
			}
			if err != nil {
				return err
			}

			board := boardRenderer{out: termenv.NewOutput(cmd.OutOrStdout())}
			fmt.Fprintln(cmd.OutOrStdout(), board.render(snapshot.State))
			if snapshot.Over {
				fmt.Fprintf(cmd.OutOrStdout(), "winner: %s\n", snapshot.Winner)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s to move %v\n", snapshot.ActivePlayer, snapshot.Moves)
			}
			return nil
		},
	}

	cmd.Flags().String("server", "", "Server URL (defaults to the configured address)")
	cmd.Flags().Bool("reset", false, "Start a new game")
	return cmd
}
