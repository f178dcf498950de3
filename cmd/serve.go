package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"gameframe/game"
	"gameframe/game/tictactoe"
	"gameframe/searcher"
	"gameframe/searcher/agent"
	"gameframe/server"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func Serve(s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a tic-tac-toe game over HTTP and websocket",
		Args:  cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			if addr == "" {
				addr = s.Address
			}
			opponent, _ := cmd.Flags().GetString("opponent")

			rules := tictactoe.NewRules()
			options := []server.Option[tictactoe.State]{server.WithLogger[tictactoe.State](log.Logger)}
			if !strings.EqualFold(opponent, "none") {
				player := 0
				for i, role := range rules.Roles() {
					if strings.EqualFold(role, opponent) {
						player = game.PlayerOf(i)
					}
				}
				if player == 0 {
					return fmt.Errorf("unknown opponent role %q", opponent)
				}
				mcts := searcher.NewMCTS[tictactoe.State](rules, s.Goroutines, s.searchOptions()...)
				options = append(options, server.WithOpponent[tictactoe.State](agent.NewEvaluationAgent[tictactoe.State](mcts), player))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			srv, err := server.New(ctx, rules, tictactoe.Empty(), options...)
			if err != nil {
				return err
			}
			httpServer := &http.Server{
				Addr:    addr,
				Handler: srv.Handler(),
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info().Msgf("serving %s on %s", rules.Name(), addr)
				errCh <- httpServer.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			log.Info().Msg("shutting down")
			return httpServer.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (defaults to the configured address)")
	cmd.Flags().String("opponent", "O", "Role answered by the search (X, O or none)")
	return cmd
}
