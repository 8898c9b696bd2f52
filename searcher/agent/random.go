package agent

import (
	"context"
	"time"

	"gomoku/experiments/metrics"
	"gomoku/game"

	"golang.org/x/exp/rand"
)

type randomAgent struct {
	state *game.Board
	rng   *rand.Rand
}

// NewRandomAgent returns an agent that plays the board's random playout
// policy. It serves as a baseline opponent.
func NewRandomAgent(state *game.Board, seed uint64) Agent {
	return &randomAgent{
		state: state.Clone(),
		rng:   rand.New(rand.NewSource(seed)),
	}
}

func (a *randomAgent) FindMove(ctx context.Context, budget time.Duration) (game.Move, metrics.SearchMetric, error) {
	next := a.state.Clone()
	if err := next.PlaceRandom(a.rng); err != nil {
		return game.Move{}, metrics.SearchMetric{}, err
	}
	move, _ := next.LastPlacement()
	return move, metrics.SearchMetric{}, nil
}

func (a *randomAgent) Observe(move game.Move) error {
	return a.state.Place(move)
}
