package experiments

import (
	"context"
	"fmt"
	"time"

	"gameframe/engine"
	"gameframe/experiments/metrics"
	"gameframe/game"
	"gameframe/searcher"
	"gameframe/searcher/agent"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

const (
	NumGames   = 30 // Per match up
	TimeBudget = 10 * time.Millisecond
)

// Experiment pairs agent configurations against each other. Within a match up the first agent
// plays the first role; roles alternate every game.
type Experiment struct {
	Name     string
	Configs  []metrics.AgentConfig
	MatchUps [][2]metrics.AgentConfig
}

// Catalog lists the named experiments that can be launched, each built for a per-move time budget.
var Catalog = map[string]func(budget time.Duration) Experiment{
	"parallelization_to_strength": ParallelizationToStrength,
	"throughput":                  Throughput,
	"cutoff":                      Cutoff,
	"temperature":                 Temperature,
}

// Names returns the catalog entries in a stable order.
func Names() []string {
	names := make([]string, 0, len(Catalog))
	for name := range Catalog {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func parallelConfigs(budget time.Duration) []metrics.AgentConfig {
	return []metrics.AgentConfig{
		{ID: 1, Goroutines: 1, Duration: budget},
		{ID: 2, Goroutines: 2, Duration: budget},
		{ID: 3, Goroutines: 4, Duration: budget},
		{ID: 4, Goroutines: 8, Duration: budget},
		{ID: 5, Goroutines: 16, Duration: budget},
	}
}

// ParallelizationToStrength pairs every parallel agent against the baseline sequential agent.
func ParallelizationToStrength(budget time.Duration) Experiment {
	baseline := metrics.AgentConfig{ID: 0, Goroutines: 1, Duration: budget}
	configs := parallelConfigs(budget)
	matchUps := [][2]metrics.AgentConfig{}
	for _, config := range configs {
		matchUps = append(matchUps, [2]metrics.AgentConfig{baseline, config})
	}
	return Experiment{
		Name:     "parallelization_to_strength",
		Configs:  append(configs, baseline),
		MatchUps: matchUps,
	}
}

// Cutoff pairs the full playout baseline against agents whose rollouts stop early and fall back to
// the state heuristic.
func Cutoff(budget time.Duration) Experiment {
	baseline := metrics.AgentConfig{ID: 0, Goroutines: 4, Duration: budget} // Without cutoff (full playout)
	configs := []metrics.AgentConfig{
		{ID: 1, Goroutines: baseline.Goroutines, Duration: baseline.Duration}, // Baseline equivalent
		{ID: 2, Goroutines: baseline.Goroutines, Duration: baseline.Duration, Cutoff: 1},
		{ID: 3, Goroutines: baseline.Goroutines, Duration: baseline.Duration, Cutoff: 3},
		{ID: 4, Goroutines: baseline.Goroutines, Duration: baseline.Duration, Cutoff: 5},
	}
	matchUps := [][2]metrics.AgentConfig{}
	for _, config := range configs {
		matchUps = append(matchUps, [2]metrics.AgentConfig{baseline, config})
	}
	return Experiment{
		Name:     "cutoff",
		Configs:  append(configs, baseline),
		MatchUps: matchUps,
	}
}

// Temperature pairs a greedy agent against sampling agents.
func Temperature(budget time.Duration) Experiment {
	baseline := metrics.AgentConfig{ID: 0, Goroutines: 4, Duration: budget}
	configs := []metrics.AgentConfig{
		{ID: 1, Goroutines: baseline.Goroutines, Duration: budget, Temperature: 0.5},
		{ID: 2, Goroutines: baseline.Goroutines, Duration: budget, Temperature: 1},
		{ID: 3, Goroutines: baseline.Goroutines, Duration: budget, Temperature: 2},
	}
	matchUps := [][2]metrics.AgentConfig{}
	for _, config := range configs {
		matchUps = append(matchUps, [2]metrics.AgentConfig{baseline, config})
	}
	return Experiment{
		Name:     "temperature",
		Configs:  append(configs, baseline),
		MatchUps: matchUps,
	}
}

// Run plays games per match up and writes the agent configs, game records and move records as CSV
// under outputDir. It returns the directory holding the files.
func Run[S game.State](ctx context.Context, rules game.Rules[S], start S, exp Experiment, games int, outputDir string) (string, error) {
	if games <= 0 {
		games = NumGames
	}

	// Run a number of games for each matchup
	count := 0
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	log.Info().Msgf("starting %s experiment...", exp.Name)

	for mi, matchUp := range exp.MatchUps {
		log.Info().Msgf("starting matchup %d of %d between agent1=%+v and agent2=%+v...", mi+1, len(exp.MatchUps), matchUp[0], matchUp[1])

		for i := 0; i < games; i++ {
			first, second := matchUp[0], matchUp[1]
			if i%2 == 1 {
				first, second = second, first
			}

			count++
			winner, gameMetric, moveMetrics, err := runGame(ctx, rules, start, first, second, uint64(count))
			if err != nil {
				return "", fmt.Errorf("matchup %d game %d: %w", mi+1, i+1, err)
			}
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         count,
				Agent1:     first.ID,
				Agent2:     second.ID,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}

			log.Info().Msgf("completed matchup %d of %d game %d with winner: %s", mi+1, len(exp.MatchUps), i+1, winner)
		}
	}

	log.Info().Msgf("completed %s experiment", exp.Name)
	return writeResults(outputDir, exp, gameRecords, moveRecords)
}

func writeResults(outputDir string, exp Experiment, gameRecords []metrics.GameRecord, moveRecords []metrics.MoveRecord) (string, error) {
	writer, err := metrics.NewWriter(outputDir, exp.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	// Store experiment metadata
	if err := writer.WriteAgentConfigs(exp.Configs); err != nil {
		return "", err
	}
	log.Info().Msg("stored agent configs")

	// Store experiment results
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return "", err
	}
	log.Info().Msg("stored game records")

	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return "", err
	}
	log.Info().Msgf("stored move records in %s", writer.Dir())

	return writer.Dir(), nil
}

// runGame executes a single game between two agents and returns the winner
func runGame[S game.State](ctx context.Context, rules game.Rules[S], start S, config1, config2 metrics.AgentConfig, seed uint64) (string, metrics.GameMetric, []metrics.MoveMetric, error) {
	agents := []agent.Agent[S]{
		NewAgent(rules, config1, seed),
		NewAgent(rules, config2, seed),
	}
	return engine.NewLocalEngine(rules, start, agents).Run(ctx)
}

// NewAgent builds the agent described by config. A positive temperature selects the training agent.
func NewAgent[S game.State](rules game.Rules[S], config metrics.AgentConfig, seed uint64) agent.Agent[S] {
	mcts := createMCTS(rules, config)
	if config.Temperature > 0 {
		return agent.NewTrainingAgent[S](mcts, config.Temperature, seed)
	}
	return agent.NewEvaluationAgent[S](mcts)
}

func createMCTS[S game.State](rules game.Rules[S], config metrics.AgentConfig) *searcher.MCTS[S] {
	options := []searcher.Option{}

	if config.Episodes > 0 {
		options = append(options, searcher.WithEpisodes(config.Episodes))
	}
	if config.Duration > 0 {
		options = append(options, searcher.WithDuration(config.Duration))
	}
	if config.Cutoff > 0 {
		options = append(options, searcher.WithCutoff(config.Cutoff))
	}
	if config.Episodes <= 0 && config.Duration <= 0 {
		options = append(options, searcher.WithDuration(TimeBudget))
	}

	options = append(options, searcher.WithMetrics())
	return searcher.NewMCTS(rules, config.Goroutines, options...)
}
