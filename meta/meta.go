package meta

import "time"

// GO_ROUTINES defines the number of goroutines to use.
const GO_ROUTINES = 8

// EPISODES defines the number of episodes for MCTS.
const EPISODES = 2000

// WITH_CUTOFF defines the cutoff value for MCTS. Zero plays rollouts to the end.
const WITH_CUTOFF = 0

// MOVE_DURATION bounds one search; zero leaves only the episode budget.
const MOVE_DURATION = time.Duration(0)

// ADDRESS is where the game server listens.
const ADDRESS = "localhost:8080"

// OUTPUT_DIR is where experiment CSV files are stored.
const OUTPUT_DIR = "results"

// GAMES_PER_MATCHUP defines how many games each experiment match up plays.
const GAMES_PER_MATCHUP = 30

// LOG_LEVEL is the zerolog level name used when none is configured.
const LOG_LEVEL = "info"
