package cmd

import (
	"fmt"
	"strings"

	"gameframe/experiments"
	"gameframe/game/tictactoe"

	"github.com/spf13/cobra"
)

func Experiment(s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "experiment <name>",
		Short:     "Run a match up experiment and store the results as CSV",
		Long:      "Available experiments: " + strings.Join(experiments.Names(), ", "),
		Args:      cobra.ExactArgs(1),
		ValidArgs: experiments.Names(),

		RunE: func(cmd *cobra.Command, args []string) error {
			newExperiment, ok := experiments.Catalog[args[0]]
			if !ok {
				return fmt.Errorf("unknown experiment %q, want one of %s", args[0], strings.Join(experiments.Names(), ", "))
			}
			budget := s.Duration
			if budget <= 0 {
				budget = experiments.TimeBudget
			}
			games := s.Games
			if cmd.Flags().Changed("games") {
				games, _ = cmd.Flags().GetInt("games")
			}
			output := s.OutputDir
			if cmd.Flags().Changed("output") {
				output, _ = cmd.Flags().GetString("output")
			}

			dir, err := experiments.Run(cmd.Context(), tictactoe.NewRules(), tictactoe.Empty(), newExperiment(budget), games, output)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}

	cmd.Flags().Int("games", 0, "Games per match up (defaults to the configured number)")
	cmd.Flags().String("output", "", "Output directory (defaults to the configured directory)")
	return cmd
}
