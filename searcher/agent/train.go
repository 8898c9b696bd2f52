package agent

import (
	"context"
	"math"
	"time"

	"gomoku/experiments/metrics"
	"gomoku/game"
	"gomoku/searcher"

	"golang.org/x/exp/rand"
	"golang.org/x/exp/slices"
)

type trainingAgent struct {
	tree        *searcher.SearchTree
	temperature float64
	rng         *rand.Rand
}

// NewTrainingAgent returns a new agent for self-play during training. It
// samples moves in proportion to visits^(1/temperature).
func NewTrainingAgent(tree *searcher.SearchTree, temperature float64, seed uint64) Agent {
	if temperature <= 0 {
		panic("temperature must be positive")
	}
	return &trainingAgent{
		tree:        tree,
		temperature: temperature,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

func (a *trainingAgent) FindMove(ctx context.Context, budget time.Duration) (game.Move, metrics.SearchMetric, error) {
	metric, err := a.tree.Search(ctx, budget)
	if err != nil {
		return game.Move{}, metric, err
	}

	policy := adjustTemperature(a.tree.Policy(), a.temperature)
	if move, ok := sample(policy, a.rng); ok {
		return move, metric, nil
	}
	// No visited moves yet: fall back to the tree's own choice
	move, _, err := a.tree.MonteCarlo(ctx, 0)
	return move, metric, err
}

func (a *trainingAgent) Observe(move game.Move) error {
	return a.tree.ApplyMove(move)
}

type weightedMove struct {
	move game.Move
	prob float64
}

// adjustTemperature returns the moves with their temperature-adjusted
// probabilities in row-major order, or nil if no move has been visited.
func adjustTemperature(policy map[game.Move]int, temperature float64) []weightedMove {
	exponent := 1.0 / temperature
	sum := 0.0
	adjusted := make([]weightedMove, 0, len(policy))
	for move, visits := range policy {
		prob := math.Pow(float64(visits), exponent)
		sum += prob
		adjusted = append(adjusted, weightedMove{move: move, prob: prob})
	}
	if sum == 0 {
		return nil
	}
	// Normalize
	for i := range adjusted {
		adjusted[i].prob /= sum
	}
	// Map iteration order is random; sort so a seeded rng replays the same game
	slices.SortFunc(adjusted, func(a, b weightedMove) int {
		if a.move.Y != b.move.Y {
			return a.move.Y - b.move.Y
		}
		return a.move.X - b.move.X
	})
	return adjusted
}

func sample(policy []weightedMove, rng *rand.Rand) (game.Move, bool) {
	if len(policy) == 0 {
		return game.Move{}, false
	}
	sampled := rng.Float64()
	cumulative := 0.0
	for _, wm := range policy {
		cumulative += wm.prob
		if sampled < cumulative {
			return wm.move, true
		}
	}
	return policy[len(policy)-1].move, true // Fallback in case of rounding errors
}
