package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"gomoku/config"
	"gomoku/engine"
	"gomoku/experiments"
	"gomoku/searcher"
	"gomoku/searcher/agent"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	configPath     string
	logLevel       string
	seed           uint64
	selfPlayGames  int
	matchupGames   int
	randomOpponent bool
	experimentName string
	outDir         string

	cfg config.Config

	rootCmd = &cobra.Command{
		Use:           "gomoku",
		Short:         "Five-in-a-row played by Monte-Carlo tree search",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Log.Level = logLevel
			}
			if cmd.Flags().Changed("seed") {
				cfg.Search.Seed = seed
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid flags: %w", err)
			}
			return setupLogging(cfg.Log.Level)
		},
	}

	selfPlayCmd = &cobra.Command{
		Use:   "selfplay",
		Short: "Play games between two search agents and print the final boards",
		RunE:  runSelfPlay,
	}

	experimentCmd = &cobra.Command{
		Use:   "experiment",
		Short: "Run a matchup experiment and write its records as CSV",
		Long:  "Run a matchup experiment and write its records as CSV.\nExperiments: " + strings.Join(experiments.Names(), ", "),
		RunE:  runExperiment,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "trace, debug, info, warn or error")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 0, "Random seed, 0 seeds from the clock")

	selfPlayCmd.Flags().IntVarP(&selfPlayGames, "games", "n", 1, "Number of games")
	selfPlayCmd.Flags().BoolVar(&randomOpponent, "random-opponent", false, "O plays random moves instead of searching")

	experimentCmd.Flags().StringVar(&experimentName, "name", "baseline", "Experiment to run")
	experimentCmd.Flags().IntVarP(&matchupGames, "games", "n", 10, "Games per matchup")
	experimentCmd.Flags().StringVarP(&outDir, "out", "o", "experiments", "Directory of the records")

	rootCmd.AddCommand(selfPlayCmd, experimentCmd)
}

func setupLogging(level string) error {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	zerolog.SetGlobalLevel(parsed)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	return nil
}

func runSelfPlay(cmd *cobra.Command, args []string) error {
	if selfPlayGames < 1 {
		return fmt.Errorf("games must be positive, got %d", selfPlayGames)
	}

	wins := map[string]int{}
	for i := 0; i < selfPlayGames; i++ {
		board := cfg.NewBoard()
		x := agent.NewEvaluationAgent(searcher.NewSearchTree(board, cfg.SearchOptions(uint64(2*i))...))
		var o agent.Agent
		if randomOpponent {
			o = agent.NewRandomAgent(board, cfg.AgentSeed(uint64(2*i+1)))
		} else {
			o = agent.NewEvaluationAgent(searcher.NewSearchTree(board, cfg.SearchOptions(uint64(2*i+1))...))
		}

		e := engine.LocalEngine(board, [2]agent.Agent{x, o}, cfg.Schedule.MaxTime, cfg.Schedule.MinTime)
		winner, gameMetric, _, err := e.Run(cmd.Context())
		if err != nil {
			return fmt.Errorf("game %d: %w", i+1, err)
		}
		wins[winner]++

		fmt.Fprintf(cmd.OutOrStdout(), "game %d: %s after %d moves (%v)\n%s\n",
			i+1, winner, gameMetric.TotalMoves, gameMetric.Duration.Round(time.Millisecond), e.State())
	}

	fmt.Fprintf(cmd.OutOrStdout(), "X %d, O %d, draw %d\n", wins["X"], wins["O"], wins[engine.Draw])
	return nil
}

func runExperiment(cmd *cobra.Command, args []string) error {
	experiment, ok := experiments.Lookup(experimentName)
	if !ok {
		return fmt.Errorf("unknown experiment %q, want one of: %s", experimentName, strings.Join(experiments.Names(), ", "))
	}
	if matchupGames < 1 {
		return fmt.Errorf("games must be positive, got %d", matchupGames)
	}

	dir, err := experiment(cmd.Context(), cfg, matchupGames, outDir)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), dir)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("gomoku failed")
		os.Exit(1)
	}
}
