package searcher

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"gameframe/experiments/metrics"
	"gameframe/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// Segment identifies one state along the path played since the previous search.
type Segment struct {
	StateHash   game.StateHash   `json:"stateHash"`
	HistoryHash game.HistoryHash `json:"historyHash"`
}

func SegmentOf[S game.State](state S) Segment {
	return Segment{StateHash: state.StateHash(), HistoryHash: state.HistoryHash()}
}

// Choice is one successor of the searched state with its visit count.
type Choice[S game.State] struct {
	State  S
	Visits float64
}

type Option func(s *settings)

type settings struct {
	duration time.Duration
	episodes int
	cutoff   int
	seed     uint64
	metrics  metrics.Collector
}

func WithDuration(duration time.Duration) Option {
	return func(s *settings) {
		if duration > 0 {
			s.duration = duration
		}
	}
}

func WithEpisodes(episodes int) Option {
	return func(s *settings) {
		if episodes > 0 {
			s.episodes = episodes
		}
	}
}

func WithCutoff(depth int) Option {
	return func(s *settings) {
		if depth > 0 {
			s.cutoff = depth
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(s *settings) {
		s.seed = seed
	}
}

func WithMetrics() Option {
	return func(s *settings) {
		s.metrics = metrics.NewCollector()
	}
}

type outcome struct {
	player int
	score  float64 // Reward for player
}

func (o outcome) reward(player int) float64 {
	if player == o.player {
		return o.score
	}
	return Win + Loss - o.score
}

type cacheKey struct {
	hash   game.StateHash
	player int
}

type cacheEntry struct {
	result  outcome
	decided bool
}

// MCTS builds one shared tree from several goroutines (tree parallelization with virtual loss).
type MCTS[S game.State] struct {
	settings
	rules      game.Rules[S]
	goroutines int
	root       *decision[S]
	outcomes   sync.Map // cacheKey -> cacheEntry
	searches   atomic.Uint64
}

func NewMCTS[S game.State](rules game.Rules[S], goroutines int, options ...Option) *MCTS[S] {
	s := settings{ // Default values
		cutoff:  MaxCutoff,
		seed:    uint64(time.Now().UnixNano()),
		metrics: metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(&s)
	}
	if s.episodes <= 0 && s.duration <= 0 {
		panic("Must specify search episodes or duration")
	}
	if goroutines < 1 {
		goroutines = 1
	}
	return &MCTS[S]{
		settings:   s,
		rules:      rules,
		goroutines: goroutines,
	}
}

// Simulate searches from state and returns the visit count of every explored successor. path
// lists the states played since the previous call; when it leads to state the previous tree is
// reused. A duration bounds the search even when episodes are set, and so does ctx.
func (m *MCTS[S]) Simulate(ctx context.Context, state S, path []Segment) ([]Choice[S], metrics.SearchMetric) {
	m.metrics.Start(m.goroutines, m.cutoff)
	m.findRoot(path, state)
	m.outcomes.Clear()

	if m.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.duration)
		defer cancel()
	}

	seed := m.seed + m.searches.Add(1)*uint64(m.goroutines)
	if m.episodes > 0 {
		m.iterate(ctx, seed)
	} else {
		m.countdown(ctx, seed)
	}
	metric := m.metrics.Complete()

	return m.root.Policy(), metric
}

func (m *MCTS[S]) iterate(ctx context.Context, seed uint64) {
	task := make(chan any, m.episodes)
	for i := 0; i < m.episodes; i++ {
		task <- nil
	}
	close(task)

	var wg sync.WaitGroup
	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		go func(rng *rand.Rand) {
			defer wg.Done()

			for range task {
				if ctx.Err() != nil {
					return
				}
				m.simulate(rng)
				m.metrics.AddEpisode()
			}
		}(rand.New(rand.NewSource(seed + uint64(i))))
	}

	wg.Wait()
}

func (m *MCTS[S]) countdown(ctx context.Context, seed uint64) {
	var wg sync.WaitGroup
	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		go func(rng *rand.Rand) {
			defer wg.Done()

			for {
				select {
				case <-ctx.Done():
					return
				default:
					m.simulate(rng)
					m.metrics.AddEpisode()
				}
			}
		}(rand.New(rand.NewSource(seed + uint64(i))))
	}

	wg.Wait()
}

func (m *MCTS[S]) findRoot(path []Segment, state S) {
	root := traverse(m.root, path)
	if root == nil || root.hash != state.StateHash() || root.history != state.HistoryHash() {
		if root != nil {
			log.Debug().Msgf("reused node state hash %d does not match state hash %d", root.hash, state.StateHash())
		}
		m.root = newDecision(nil, state)
		m.metrics.SetTreeReset(true)
	} else {
		root.parent = nil
		m.root = root
		m.metrics.SetTreeReset(false)
	}
}

func traverse[S game.State](root *decision[S], path []Segment) *decision[S] {
	node := root
	for _, segment := range path {
		if node == nil {
			return nil
		}
		node = node.child(segment)
	}
	return node
}

func (m *MCTS[S]) simulate(rng *rand.Rand) {
	node := selectThenExpand(m.root, m.expand)
	result := m.rollout(node.state, rng)
	backup(node, result)
}

func selectThenExpand[S game.State](root *decision[S], expand Expander[S]) *decision[S] {
	parent := root
	child, selected := parent.SelectOrExpand(expand)
	for selected && (child != parent) {
		parent = child
		child, selected = parent.SelectOrExpand(expand)
	}
	return child
}

func (m *MCTS[S]) expand(state S) ([]S, bool) {
	state.PreRun()
	defer state.PostRun()

	if _, decided := m.outcome(state); decided {
		return nil, true
	}
	return m.rules.Expand(state), false
}

// outcome memoizes terminal checks by state hash and player to move.
func (m *MCTS[S]) outcome(state S) (outcome, bool) {
	key := cacheKey{hash: state.StateHash(), player: state.ActivePlayer()}
	if entry, ok := m.outcomes.Load(key); ok {
		m.metrics.AddCacheHit()
		e := entry.(cacheEntry)
		return e.result, e.decided
	}

	var result outcome
	winner, decided := m.rules.WinningPlayerNumber(state)
	if decided {
		result = outcome{player: winner, score: Win}
		if winner == game.Draw {
			result.score = Draw
		}
	}
	m.outcomes.Store(key, cacheEntry{result: result, decided: decided})
	return result, decided
}

func (m *MCTS[S]) rollout(state S, rng *rand.Rand) outcome {
	// Rollout till game over or for cutoff number of moves
	for depth := 0; ; depth++ {
		next, result, done := m.step(state, depth, rng)
		if done {
			return result
		}
		state = next
	}
}

func (m *MCTS[S]) step(state S, depth int, rng *rand.Rand) (S, outcome, bool) {
	state.PreRun()
	defer state.PostRun()

	if result, decided := m.outcome(state); decided {
		m.metrics.AddFullPlayout()
		return state, result, true
	}

	// At cutoff, score the state from the perspective of the player to move
	if depth >= m.cutoff {
		h := math.Max(-1, math.Min(1, state.HeuristicValue()))
		return state, outcome{player: state.ActivePlayer(), score: (1 + h) / 2}, true
	}

	successors := m.rules.Expand(state)
	if len(successors) == 0 {
		return state, outcome{score: Draw}, true
	}
	return successors[rng.Intn(len(successors))], outcome{}, false // Random rollout policy
}

func backup[S game.State](newNode *decision[S], result outcome) {
	node := newNode
	for node != nil {
		node = node.Backup(result)
	}
}
