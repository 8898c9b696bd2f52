package agent

import (
	"context"
	"time"

	"gomoku/experiments/metrics"
	"gomoku/game"
)

type Agent interface {
	// FindMove returns the move to play within budget and performance metrics (if collected) from the search
	FindMove(ctx context.Context, budget time.Duration) (game.Move, metrics.SearchMetric, error)
	// Observe advances the agent's view of the game by a move of either player
	Observe(move game.Move) error
}
