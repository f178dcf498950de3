package searcher

import (
	"math"
	"sync"

	"gameframe/game"
)

// Expander lists the successors of a state, or reports it as terminal.
type Expander[S game.State] func(state S) (successors []S, terminal bool)

type decision[S game.State] struct {
	sync.RWMutex
	parent   *decision[S]
	state    S
	player   int // Player who moved into this state
	hash     game.StateHash
	history  game.HistoryHash
	expanded bool
	terminal bool
	moves    []S // Successors not yet added as children
	children []*decision[S]
	rewards  float64
	visits   float64
}

func newDecision[S game.State](parent *decision[S], state S) *decision[S] {
	return &decision[S]{
		parent:  parent,
		state:   state,
		player:  -state.ActivePlayer(),
		hash:    state.StateHash(),
		history: state.HistoryHash(),
	}
}

// SelectOrExpand descends one level. selected is true when an already expanded child was picked,
// so the caller keeps descending; a new child or a terminal node ends the descent.
func (d *decision[S]) SelectOrExpand(expand Expander[S]) (child *decision[S], selected bool) {
	d.Lock()
	defer d.Unlock()

	if !d.expanded {
		d.moves, d.terminal = expand(d.state)
		d.terminal = d.terminal || len(d.moves) == 0
		d.expanded = true
	}

	if d.terminal {
		return d, false
	}

	if len(d.moves) > 0 { // Expandable node
		added := newDecision(d, d.moves[0])
		d.moves = d.moves[1:]
		d.children = append(d.children, added)
		added.applyLoss()
		return added, false
	}

	// Fully expanded node
	child = d.children[d.pickChild()]
	child.applyLoss()
	return child, true
}

func (d *decision[S]) pickChild() int {
	// Children visits include in-flight virtual losses, so their sum is never below one
	total := 0.0
	for _, child := range d.children {
		total += child.Visits()
	}
	policy := newUCT(CSquared, math.Max(total, 1))

	maxIndex := -1
	maxScore := math.Inf(-1)
	for i, child := range d.children {
		rewards, visits := child.stats()
		if visits == 0 {
			return i
		}
		score := policy.evaluate(rewards, visits)
		if score > maxScore {
			maxScore = score
			maxIndex = i
		}
	}
	return maxIndex
}

func (d *decision[S]) applyLoss() {
	d.Lock()
	defer d.Unlock()

	d.rewards += Loss
	d.visits++
}

func (d *decision[S]) reverseLoss() {
	d.rewards -= Loss
	d.visits--
}

func (d *decision[S]) Backup(result outcome) *decision[S] {
	d.Lock()
	defer d.Unlock()

	if d.parent != nil { // Non-root node
		d.reverseLoss()
	}

	d.rewards += result.reward(d.player)
	d.visits++

	return d.parent
}

func (d *decision[S]) stats() (rewards float64, visits float64) {
	d.RLock()
	defer d.RUnlock()

	return d.rewards, d.visits
}

func (d *decision[S]) Visits() float64 {
	d.RLock()
	defer d.RUnlock()

	return d.visits
}

// child finds the expanded child reached through the given segment.
func (d *decision[S]) child(segment Segment) *decision[S] {
	d.RLock()
	defer d.RUnlock()

	for _, child := range d.children {
		if child.hash == segment.StateHash && child.history == segment.HistoryHash {
			return child
		}
	}
	return nil
}

func (d *decision[S]) Policy() []Choice[S] {
	d.RLock()
	defer d.RUnlock()

	policy := make([]Choice[S], 0, len(d.children))
	for _, child := range d.children {
		policy = append(policy, Choice[S]{State: child.state, Visits: child.Visits()})
	}
	return policy
}
