package config

import (
	"fmt"
	"time"

	"gameframe/meta"

	"github.com/caarlos0/env/v11"
)

const EnvPrefix = "GAMEFRAME_"

type Config struct {
	Address    string        `env:"ADDRESS"`
	Goroutines int           `env:"GOROUTINES"`
	Episodes   int           `env:"EPISODES"`
	Duration   time.Duration `env:"DURATION"`
	Cutoff     int           `env:"CUTOFF"`
	LogLevel   string        `env:"LOG_LEVEL"`
	OutputDir  string        `env:"OUTPUT_DIR"`
	Games      int           `env:"GAMES"`
	Seed       uint64        `env:"SEED"` // Zero seeds from the clock
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Address:    meta.ADDRESS,
		Goroutines: meta.GO_ROUTINES,
		Episodes:   meta.EPISODES,
		Duration:   meta.MOVE_DURATION,
		Cutoff:     meta.WITH_CUTOFF,
		LogLevel:   meta.LOG_LEVEL,
		OutputDir:  meta.OUTPUT_DIR,
		Games:      meta.GAMES_PER_MATCHUP,
	}
}

// Load overlays GAMEFRAME_* environment variables on the defaults.
func Load() (Config, error) {
	cfg := Default()
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings no search can run with.
func (c Config) Validate() error {
	if c.Goroutines < 1 {
		return fmt.Errorf("goroutines must be positive, got %d", c.Goroutines)
	}
	if c.Episodes <= 0 && c.Duration <= 0 {
		return fmt.Errorf("either episodes or duration must be positive")
	}
	if c.Cutoff < 0 {
		return fmt.Errorf("cutoff must not be negative, got %d", c.Cutoff)
	}
	return nil
}
