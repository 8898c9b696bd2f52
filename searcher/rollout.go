package searcher

import (
	"context"
	"fmt"

	"gomoku/game"

	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

// simulate plays n random games from state in parallel and returns the sum of
// their utilities for player. Every rollout owns a clone of state and an rng
// seeded from the tree's rng. Any failed rollout fails the whole batch.
func (t *SearchTree) simulate(ctx context.Context, state *game.Board, player game.Player, n int) (float64, error) {
	g, ctx := errgroup.WithContext(ctx)
	results := make([]float64, n)
	for i := 0; i < n; i++ {
		clone := state.Clone()
		rng := rand.New(rand.NewSource(t.rng.Uint64()))
		g.Go(func() error {
			utility, err := t.rollout(ctx, clone, player, rng)
			if err != nil {
				return err
			}
			results[i] = utility
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	t.metrics.AddPlayouts(n)

	sum := 0.0
	for _, utility := range results {
		sum += utility
	}
	return sum, nil
}

// rollout places random stones until the game ends or more than cutoff moves
// were played, then scores the position for player.
func (t *SearchTree) rollout(ctx context.Context, state *game.Board, player game.Player, rng *rand.Rand) (float64, error) {
	for depth := 0; ; depth++ {
		if utility, ok := state.Utility(player); ok {
			t.metrics.AddFullPlayout()
			return utility, nil
		}
		if depth > t.cutoff {
			return state.Heuristic(player) * t.heuristicWeight, nil
		}
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if err := state.PlaceRandom(rng); err != nil {
			return 0, fmt.Errorf("rollout move %d: %w", depth+1, err)
		}
	}
}
