package searcher

// Hyperparameters for MCTS

const CSquared = 2.0 // Exploration constant

// Rewards estimate the chance of winning
const Win = 1.0
const Loss = 1 - Win
const Draw = (Win + Loss) / 2

// MaxCutoff lets rollouts run until the game is decided
const MaxCutoff = int(^uint(0) >> 1)
