package experiments

import (
	"context"

	"gomoku/config"
	"gomoku/experiments/metrics"
)

// RunThroughputExperiment measures playouts per move for growing batch sizes.
// Both players of a game share a config for the same playing strength and
// similar game length.
func RunThroughputExperiment(ctx context.Context, base config.Config, games int, outDir string) (string, error) {
	configs := []metrics.AgentConfig{}
	matchUps := [][2]metrics.AgentConfig{}
	for i, batchSize := range []int{1, 2, 4, 8, 16, 32, 64, 128} {
		config := agentConfig(i+1, base)
		config.BatchSize = batchSize
		configs = append(configs, config)
		matchUps = append(matchUps, [2]metrics.AgentConfig{config, config})
	}
	return runExperiment(ctx, "throughput", base, games, outDir, configs, matchUps)
}
