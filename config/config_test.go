package config

import (
	"testing"
	"time"

	"gameframe/meta"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.Equal(t, meta.GO_ROUTINES, cfg.Goroutines)
	require.Equal(t, meta.ADDRESS, cfg.Address)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("GAMEFRAME_ADDRESS", ":9000")
	t.Setenv("GAMEFRAME_GOROUTINES", "2")
	t.Setenv("GAMEFRAME_EPISODES", "0")
	t.Setenv("GAMEFRAME_DURATION", "250ms")
	t.Setenv("GAMEFRAME_SEED", "42")

	cfg, err := Load()

	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.Address)
	require.Equal(t, 2, cfg.Goroutines)
	require.Zero(t, cfg.Episodes)
	require.Equal(t, 250*time.Millisecond, cfg.Duration)
	require.Equal(t, uint64(42), cfg.Seed)
	require.Equal(t, meta.OUTPUT_DIR, cfg.OutputDir, "Unset variables should keep defaults")
}

func TestLoadErrors(t *testing.T) {
	t.Run("malformed value", func(t *testing.T) {
		t.Setenv("GAMEFRAME_GOROUTINES", "many")
		_, err := Load()
		require.ErrorContains(t, err, "parse env:")
	})

	t.Run("no search budget", func(t *testing.T) {
		t.Setenv("GAMEFRAME_EPISODES", "0")
		_, err := Load()
		require.ErrorContains(t, err, "episodes or duration")
	})

	t.Run("no goroutines", func(t *testing.T) {
		t.Setenv("GAMEFRAME_GOROUTINES", "0")
		_, err := Load()
		require.ErrorContains(t, err, "goroutines")
	})
}
