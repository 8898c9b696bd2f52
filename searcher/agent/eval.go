package agent

import (
	"context"
	"time"

	"gomoku/experiments/metrics"
	"gomoku/game"
	"gomoku/searcher"
)

type evaluationAgent struct {
	tree *searcher.SearchTree
}

// NewEvaluationAgent returns a new agent for actual game play during evaluation.
// It plays the most visited move.
func NewEvaluationAgent(tree *searcher.SearchTree) Agent {
	return evaluationAgent{tree: tree}
}

func (a evaluationAgent) FindMove(ctx context.Context, budget time.Duration) (game.Move, metrics.SearchMetric, error) {
	return a.tree.MonteCarlo(ctx, budget)
}

func (a evaluationAgent) Observe(move game.Move) error {
	return a.tree.ApplyMove(move)
}
