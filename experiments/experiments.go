package experiments

import (
	"context"
	"fmt"

	"gomoku/config"
	"gomoku/engine"
	"gomoku/experiments/metrics"
	"gomoku/game"
	"gomoku/searcher"
	"gomoku/searcher/agent"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

// Experiment plays games per matchup under the base configuration and writes
// its records below outDir. It returns the directory of the records.
type Experiment func(ctx context.Context, base config.Config, games int, outDir string) (string, error)

var registry = map[string]Experiment{
	"baseline":   RunBaselineExperiment,
	"batch_size": RunBatchSizeExperiment,
	"cutoff":     RunCutoffExperiment,
	"throughput": RunThroughputExperiment,
}

func Lookup(name string) (Experiment, bool) {
	experiment, ok := registry[name]
	return experiment, ok
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// RunBaselineExperiment pairs the configured search agent against the random
// playout policy.
func RunBaselineExperiment(ctx context.Context, base config.Config, games int, outDir string) (string, error) {
	random := metrics.AgentConfig{ID: 0, Random: true, Seed: base.Search.Seed}
	search := agentConfig(1, base)
	return runExperiment(ctx, "baseline", base, games, outDir,
		[]metrics.AgentConfig{random, search},
		[][2]metrics.AgentConfig{{search, random}},
	)
}

// RunBatchSizeExperiment pairs agents simulating larger playout batches
// against a single-playout agent with the same time budget.
func RunBatchSizeExperiment(ctx context.Context, base config.Config, games int, outDir string) (string, error) {
	baseline := agentConfig(0, base)
	baseline.BatchSize = 1
	configs := []metrics.AgentConfig{baseline}
	matchUps := [][2]metrics.AgentConfig{}
	for i, batchSize := range []int{4, 16, 64} {
		config := agentConfig(i+1, base)
		config.BatchSize = batchSize
		configs = append(configs, config)
		matchUps = append(matchUps, [2]metrics.AgentConfig{baseline, config})
	}
	return runExperiment(ctx, "batch_size", base, games, outDir, configs, matchUps)
}

// RunCutoffExperiment pairs agents scoring playouts by the heuristic after
// fewer or more moves against the configured cutoff.
func RunCutoffExperiment(ctx context.Context, base config.Config, games int, outDir string) (string, error) {
	baseline := agentConfig(0, base)
	configs := []metrics.AgentConfig{baseline}
	matchUps := [][2]metrics.AgentConfig{}
	for i, cutoff := range []int{10, 40, 150} {
		config := agentConfig(i+1, base)
		config.Cutoff = cutoff
		configs = append(configs, config)
		matchUps = append(matchUps, [2]metrics.AgentConfig{baseline, config})
	}
	return runExperiment(ctx, "cutoff", base, games, outDir, configs, matchUps)
}

func agentConfig(id int, base config.Config) metrics.AgentConfig {
	return metrics.AgentConfig{
		ID:          id,
		BatchSize:   base.Search.BatchSize,
		MaxTime:     base.Schedule.MaxTime,
		Cutoff:      base.Search.Cutoff,
		Exploration: base.Search.Exploration,
		Seed:        base.Search.Seed,
	}
}

func runExperiment(ctx context.Context, name string, base config.Config, games int, outDir string, configs []metrics.AgentConfig, matchUps [][2]metrics.AgentConfig) (string, error) {
	// Run a number of games for each matchup
	count := 0
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	log.Info().Msgf("starting %s experiment...", name)

	for mi, matchup := range matchUps {
		log.Info().Msgf("starting matchup %d of %d between agent1=%+v and agent2=%+v...", mi+1, len(matchUps), matchup[0], matchup[1])

		for i := 0; i < games; i++ {
			// Alternate the starting agent
			x, o := matchup[0], matchup[1]
			if i%2 == 1 {
				x, o = o, x
			}
			count++

			log.Info().Msgf("starting matchup %d of %d game %d of %d...", mi+1, len(matchUps), i+1, games)

			winner, gameMetric, moveMetrics, err := runGame(ctx, base, x, o, uint64(count))
			if err != nil {
				return "", fmt.Errorf("%s experiment game %d: %w", name, count, err)
			}
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         count,
				Agent1:     x.ID,
				Agent2:     o.ID,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}

			log.Info().Msgf("completed matchup %d of %d game %d with winner: %s", mi+1, len(matchUps), i+1, winner)
		}
		log.Info().Msgf("completed matchup %d of %d", mi+1, len(matchUps))
	}

	log.Info().Msgf("completed %s experiment", name)

	return writeRecords(name, outDir, configs, gameRecords, moveRecords)
}

func writeRecords(name, outDir string, configs []metrics.AgentConfig, gameRecords []metrics.GameRecord, moveRecords []metrics.MoveRecord) (string, error) {
	writer, err := metrics.NewWriter(outDir, name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	err = writer.WriteAgentConfigs(configs)
	if err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	err = writer.WriteGameRecords(gameRecords)
	if err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	err = writer.WriteMoveRecords(moveRecords)
	if err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msgf("stored move records in %s", writer.Dir())

	return writer.Dir(), nil
}

// runGame executes a single game between two agents and returns the winner
func runGame(ctx context.Context, base config.Config, x, o metrics.AgentConfig, gameID uint64) (string, metrics.GameMetric, []metrics.MoveMetric, error) {
	board := base.NewBoard()
	agents := [2]agent.Agent{
		createAgent(x, base, board, 2*gameID),
		createAgent(o, base, board, 2*gameID+1),
	}
	minTime := min(base.Schedule.MinTime, x.MaxTime, o.MaxTime)
	maxTime := max(x.MaxTime, o.MaxTime)
	e := engine.LocalEngine(board, agents, maxTime, minTime)
	return e.Run(ctx)
}

// createAgent builds the agent of agentConfig. offset varies the seed between the
// agents of an experiment. Agents without a seed draw one from the clock.
func createAgent(agentConfig metrics.AgentConfig, base config.Config, board *game.Board, offset uint64) agent.Agent {
	if agentConfig.Random {
		return agent.NewRandomAgent(board, config.Seed(agentConfig.Seed, offset))
	}

	options := base.SearchOptions(offset)
	if agentConfig.BatchSize > 0 {
		options = append(options, searcher.WithBatchSize(agentConfig.BatchSize))
	}
	if agentConfig.Cutoff > 0 {
		options = append(options, searcher.WithCutoff(agentConfig.Cutoff))
	}
	if agentConfig.Exploration > 0 {
		options = append(options, searcher.WithExploration(agentConfig.Exploration))
	}

	options = append(options, searcher.WithMetrics())
	return agent.NewEvaluationAgent(searcher.NewSearchTree(board, options...))
}
