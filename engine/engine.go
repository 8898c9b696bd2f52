package engine

import (
	"context"
	"time"

	"gomoku/experiments/metrics"
)

type Engine interface {
	// Run plays a game till there's a winner or the board is full
	Run(ctx context.Context) (winner string, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}

// TimeBudget returns the search time of the n-th move of a game (n >= 1):
// maxTime*(1 - 7/(n+6.7)), never less than minTime. Early moves, which the
// search can barely tell apart, get the least time.
func TimeBudget(n int, maxTime, minTime time.Duration) time.Duration {
	n = max(n, 1)
	budget := time.Duration(float64(maxTime) * (1 - 7/(float64(n)+6.7)))
	return max(budget, minTime)
}
