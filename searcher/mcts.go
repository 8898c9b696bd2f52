package searcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gomoku/experiments/metrics"
	"gomoku/game"
	"gomoku/meta"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// Index of the root in the arena
const root = 0

var ErrGameOver = errors.New("game is over")

type Option func(t *SearchTree)

// SearchTree is a Monte-Carlo search tree over board states. Nodes live in an
// arena and refer to their children by index. The tree is driven from a single
// goroutine; only playouts run concurrently.
type SearchTree struct {
	nodes           []node
	exploration     float64
	batchSize       int
	cutoff          int
	heuristicWeight float64
	threatBias      float64
	threatSpread    float64
	rng             *rand.Rand
	metrics         metrics.Collector
}

func WithExploration(c float64) Option {
	return func(t *SearchTree) {
		if c >= 0 {
			t.exploration = c
		}
	}
}

func WithBatchSize(n int) Option {
	return func(t *SearchTree) {
		if n > 0 {
			t.batchSize = n
		}
	}
}

func WithCutoff(depth int) Option {
	return func(t *SearchTree) {
		if depth > 0 {
			t.cutoff = depth
		}
	}
}

func WithHeuristicWeight(weight float64) Option {
	return func(t *SearchTree) {
		if weight >= 0 {
			t.heuristicWeight = weight
		}
	}
}

// WithThreatBias sets the probability p that a child with threats on both
// sides has its selection score multiplied by 1 + spread*U[0,1).
func WithThreatBias(p, spread float64) Option {
	return func(t *SearchTree) {
		if p >= 0 && p <= 1 && spread >= 0 {
			t.threatBias = p
			t.threatSpread = spread
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(t *SearchTree) {
		t.rng = rand.New(rand.NewSource(seed))
	}
}

func WithMetrics() Option {
	return func(t *SearchTree) {
		t.metrics = metrics.NewCollector()
	}
}

func NewSearchTree(state *game.Board, options ...Option) *SearchTree {
	t := &SearchTree{ // Default values
		exploration:     meta.EXPLORATION,
		batchSize:       meta.BATCH_SIZE,
		cutoff:          meta.CUTOFF,
		heuristicWeight: meta.HEURISTIC_WEIGHT,
		threatBias:      meta.THREAT_BIAS,
		threatSpread:    meta.THREAT_SPREAD,
		rng:             rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
		metrics:         metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(t)
	}
	t.reset(state.Clone())
	return t
}

func (t *SearchTree) reset(state *game.Board) {
	t.nodes = []node{newNode(state, game.Move{}, false)}
}

// MonteCarlo searches for budget and returns the root move with the most
// visits. A cancelled ctx ends the search early like an expired budget.
func (t *SearchTree) MonteCarlo(ctx context.Context, budget time.Duration) (game.Move, metrics.SearchMetric, error) {
	if t.nodes[root].terminal() {
		return game.Move{}, metrics.SearchMetric{}, ErrGameOver
	}

	metric, err := t.Search(ctx, budget)
	if err != nil {
		return game.Move{}, metric, err
	}
	best := t.robustChild()
	return t.nodes[best].move, metric, nil
}

// Search runs select-expand-simulate-backpropagate episodes until budget has
// elapsed. The budget is only checked between episodes.
func (t *SearchTree) Search(ctx context.Context, budget time.Duration) (metrics.SearchMetric, error) {
	player := t.nodes[root].state.Player()
	t.metrics.Start(t.batchSize, t.cutoff)

	start := time.Now()
	for time.Since(start) < budget && ctx.Err() == nil {
		err := t.iterate(ctx, player)
		if err != nil && ctx.Err() == nil {
			return t.metrics.Complete(), fmt.Errorf("simulate: %w", err)
		}
	}

	metric := t.metrics.Complete()
	log.Debug().Msgf("games simulated: %d", metric.Playouts)
	return metric, nil
}

// iterate runs one episode. A batch interrupted by ctx is discarded.
func (t *SearchTree) iterate(ctx context.Context, player game.Player) error {
	path := t.selectPath()
	leaf := path[len(path)-1]
	if t.nodes[leaf].visits > 0 && !t.nodes[leaf].terminal() {
		path = append(path, t.expand(leaf))
	}

	utility, err := t.simulate(ctx, t.nodes[path[len(path)-1]].state, player, t.batchSize)
	if err != nil {
		return err
	}
	t.backpropagate(path, utility, t.batchSize)
	t.metrics.AddEpisode()
	return nil
}

// selectPath descends from the root to a leaf, returning the visited indices.
func (t *SearchTree) selectPath() []int {
	path := []int{root}
	current := root
	for !t.nodes[current].isLeaf() {
		current = t.bestChild(current)
		path = append(path, current)
	}
	return path
}

// bestChild returns the child with the highest UCB1 score. Ties go to the
// first child.
func (t *SearchTree) bestChild(parent int) int {
	policy := newUCT(t.exploration, max(t.nodes[parent].visits, 1))
	best, bestScore := -1, 0.0
	for _, c := range t.nodes[parent].children {
		score := t.score(policy, c)
		if best < 0 || score > bestScore {
			best, bestScore = c, score
		}
	}
	if best < 0 {
		panic("cannot select from a node without children")
	}
	return best
}

// score rates child c under policy. With probability threatBias a child
// where both players have forced moves gets its score scaled up by a random
// factor in [1, 1+threatSpread).
func (t *SearchTree) score(policy *uct, c int) float64 {
	child := &t.nodes[c]
	score := policy.evaluate(child.utility, child.visits)
	if t.rng.Float64() < t.threatBias && child.state.AreThereThreats(t.rng) {
		score *= 1 + t.threatSpread*t.rng.Float64()
	}
	return score
}

// expand creates one child per legal move of a leaf, then returns a random
// child. Expanding a node twice keeps its children.
func (t *SearchTree) expand(parent int) int {
	if t.nodes[parent].isLeaf() {
		state := t.nodes[parent].state
		actions := state.Actions(t.rng)
		if len(actions) == 0 {
			panic(fmt.Sprintf("cannot expand a node without legal moves:\n%s", state))
		}

		children := make([]int, 0, len(actions))
		for _, m := range actions {
			next := state.Clone()
			if err := next.Place(m); err != nil {
				panic(fmt.Sprintf("cannot expand move (%d, %d): %v", m.X, m.Y, err))
			}
			children = append(children, len(t.nodes))
			t.nodes = append(t.nodes, newNode(next, m, true))
		}
		t.nodes[parent].children = children
	}

	children := t.nodes[parent].children
	return children[t.rng.Intn(len(children))]
}

func (t *SearchTree) backpropagate(path []int, utility float64, playouts int) {
	if len(path) == 0 {
		panic("cannot backpropagate an empty path")
	}
	for _, i := range path {
		t.nodes[i].visits += playouts
		t.nodes[i].utility += utility
	}
}

// robustChild returns the root child with the most visits. When no child has
// been visited a random child is returned, expanding the root if needed.
func (t *SearchTree) robustChild() int {
	best, bestVisits := -1, 0
	for _, c := range t.nodes[root].children {
		if t.nodes[c].visits > bestVisits {
			best, bestVisits = c, t.nodes[c].visits
		}
	}
	if best < 0 {
		return t.expand(root)
	}
	return best
}

// ApplyMove advances the root by m. The subtree under the matching child is
// kept; a move the tree never expanded starts a new tree.
func (t *SearchTree) ApplyMove(m game.Move) error {
	if t.nodes[root].isLeaf() && !t.nodes[root].terminal() {
		t.expand(root)
	}
	for _, c := range t.nodes[root].children {
		if t.nodes[c].move == m {
			t.rebase(c)
			t.metrics.SetTreeReset(false)
			return nil
		}
	}

	state := t.nodes[root].state.Clone()
	err := state.Place(m)
	if err != nil {
		return fmt.Errorf("apply move: %w", err)
	}
	log.Debug().Msgf("move (%d, %d) not in tree, creating new tree", m.X, m.Y)
	t.reset(state)
	t.metrics.SetTreeReset(true)
	return nil
}

// rebase makes newRoot the root and compacts the arena to its subtree in
// breadth-first order.
func (t *SearchTree) rebase(newRoot int) {
	order := []int{newRoot}
	for i := 0; i < len(order); i++ {
		order = append(order, t.nodes[order[i]].children...)
	}
	index := make(map[int]int, len(order))
	for i, old := range order {
		index[old] = i
	}

	nodes := make([]node, len(order))
	for i, old := range order {
		n := t.nodes[old]
		children := make([]int, len(n.children))
		for k, c := range n.children {
			children[k] = index[c]
		}
		n.children = children
		nodes[i] = n
	}
	nodes[root].move, nodes[root].hasMove = game.Move{}, false
	t.nodes = nodes
}

// Policy returns the visit count of every expanded root move.
func (t *SearchTree) Policy() map[game.Move]int {
	policy := make(map[game.Move]int, len(t.nodes[root].children))
	for _, c := range t.nodes[root].children {
		policy[t.nodes[c].move] = t.nodes[c].visits
	}
	return policy
}

// Root returns a copy of the root state.
func (t *SearchTree) Root() *game.Board {
	return t.nodes[root].state.Clone()
}

// Size returns the number of nodes in the tree.
func (t *SearchTree) Size() int {
	return len(t.nodes)
}
