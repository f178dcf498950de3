package experiments

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gameframe/experiments/metrics"
	"gameframe/game/tictactoe"

	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCatalog(t *testing.T) {
	require.Equal(t, []string{"cutoff", "parallelization_to_strength", "temperature", "throughput"}, Names())

	for _, name := range Names() {
		exp := Catalog[name](time.Millisecond)
		require.Equal(t, name, exp.Name)
		require.NotEmpty(t, exp.MatchUps)

		ids := map[int]bool{}
		for _, config := range exp.Configs {
			require.False(t, ids[config.ID], "Agent config IDs should be unique")
			ids[config.ID] = true
			require.Equal(t, time.Millisecond, config.Duration)
		}
		for _, matchUp := range exp.MatchUps {
			require.True(t, ids[matchUp[0].ID], "Match ups should only use listed configs")
			require.True(t, ids[matchUp[1].ID], "Match ups should only use listed configs")
		}
	}
}

func TestRun(t *testing.T) {
	greedy := metrics.AgentConfig{ID: 1, Goroutines: 2, Episodes: 50}
	sampling := metrics.AgentConfig{ID: 2, Goroutines: 1, Episodes: 50, Cutoff: 2, Temperature: 1}
	exp := Experiment{
		Name:     "smoke",
		Configs:  []metrics.AgentConfig{greedy, sampling},
		MatchUps: [][2]metrics.AgentConfig{{greedy, sampling}},
	}

	dir, err := Run(context.Background(), tictactoe.NewRules(), tictactoe.Empty(), exp, 2, t.TempDir())
	require.NoError(t, err)

	configs := readCSV(t, filepath.Join(dir, "agent_configs.csv"))
	require.Len(t, configs, 3)

	games := readCSV(t, filepath.Join(dir, "game_records.csv"))
	require.Len(t, games, 3)
	require.Equal(t, []string{"1", "1", "2", "X"}, games[1][:4])
	require.Equal(t, []string{"2", "2", "1", "X"}, games[2][:4], "Roles should alternate between games")
	for _, game := range games[1:] {
		require.Contains(t, []string{"X", "O", "draw"}, game[4])
	}

	moves := readCSV(t, filepath.Join(dir, "move_records.csv"))
	require.GreaterOrEqual(t, len(moves), 1+2*5, "Every game takes at least five moves")
	require.Equal(t, "1", moves[1][0])
	require.Equal(t, "X", moves[1][2])
	require.Equal(t, "50", moves[1][5])
}

func TestRunStopsOnContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	config := metrics.AgentConfig{ID: 1, Goroutines: 1, Episodes: 10}
	exp := Experiment{Name: "canceled", Configs: []metrics.AgentConfig{config}, MatchUps: [][2]metrics.AgentConfig{{config, config}}}

	_, err := Run(ctx, tictactoe.NewRules(), tictactoe.Empty(), exp, 1, t.TempDir())

	require.Error(t, err)
}
