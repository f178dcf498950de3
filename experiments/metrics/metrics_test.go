package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	t.Run("counts events between start and complete", func(t *testing.T) {
		c := NewCollector()
		c.Start(4, 9)
		c.SetTreeReset(true)
		for i := 0; i < 3; i++ {
			c.AddEpisode()
		}
		c.AddFullPlayout()
		c.AddCacheHit()
		c.AddCacheHit()

		got := c.Complete()

		require.Equal(t, 4, got.Goroutines)
		require.Equal(t, 9, got.Cutoff)
		require.Equal(t, 3, got.Episodes)
		require.Equal(t, 1, got.FullPlayouts)
		require.Equal(t, 2, got.CacheHits)
		require.True(t, got.IsTreeReset)
	})

	t.Run("start resets counters", func(t *testing.T) {
		c := NewCollector()
		c.Start(1, 1)
		c.AddEpisode()
		c.Start(1, 1)

		require.Zero(t, c.Complete().Episodes)
	})

	t.Run("dummy collector reports nothing", func(t *testing.T) {
		c := NewDummyCollector()
		c.Start(4, 9)
		c.AddEpisode()
		require.Equal(t, SearchMetric{}, c.Complete())
	})
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriter(t *testing.T) {
	w, err := NewWriter(t.TempDir(), "cutoff")
	require.NoError(t, err)
	require.DirExists(t, w.Dir())

	require.NoError(t, w.WriteAgentConfigs([]AgentConfig{
		{ID: 1, Goroutines: 2, Duration: 10 * time.Millisecond, Cutoff: 3},
	}))
	require.NoError(t, w.WriteGameRecords([]GameRecord{
		{ID: 1, Agent1: 1, Agent2: 2, GameMetric: GameMetric{StartingPlayer: "X", Winner: "draw", TotalMoves: 9}},
	}))
	require.NoError(t, w.WriteMoveRecords([]MoveRecord{
		{Game: 1, MoveMetric: MoveMetric{Step: 1, Player: "X", SearchMetric: SearchMetric{Episodes: 50}}},
	}))

	configs := readCSV(t, filepath.Join(w.Dir(), "agent_configs.csv"))
	require.Equal(t, [][]string{
		{"id", "goroutines", "duration", "episodes", "cutoff", "temperature"},
		{"1", "2", "10ms", "0", "3", "0"},
	}, configs)

	games := readCSV(t, filepath.Join(w.Dir(), "game_records.csv"))
	require.Len(t, games, 2)
	require.Equal(t, "draw", games[1][4])
	require.Equal(t, "9", games[1][8])

	moves := readCSV(t, filepath.Join(w.Dir(), "move_records.csv"))
	require.Len(t, moves, 2)
	require.Equal(t, []string{"1", "1", "X", "0", "0s", "50", "0", "0", "false"}, moves[1])
}
