package experiments

import (
	"time"

	"gameframe/experiments/metrics"
)

// Throughput plays every parallel configuration against itself, for the same playing strength
// and similar game length, to measure episodes per move as goroutines grow.
func Throughput(budget time.Duration) Experiment {
	configs := parallelConfigs(budget)
	matchUps := [][2]metrics.AgentConfig{}
	for _, config := range configs {
		matchUps = append(matchUps, [2]metrics.AgentConfig{config, config})
	}
	return Experiment{
		Name:     "throughput",
		Configs:  configs,
		MatchUps: matchUps,
	}
}
