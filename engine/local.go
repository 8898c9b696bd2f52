package engine

import (
	"context"
	"fmt"
	"time"

	"gomoku/experiments/metrics"
	"gomoku/game"
	"gomoku/searcher/agent"

	"github.com/rs/zerolog/log"
)

const Draw = "draw"

type Local struct {
	state   *game.Board
	agents  [2]agent.Agent // Indexed by game.Player
	maxTime time.Duration
	minTime time.Duration
}

// LocalEngine plays a game between two in-process agents on a copy of state.
// agents[game.PlayerX] moves for X. Every agent observes every move.
func LocalEngine(state *game.Board, agents [2]agent.Agent, maxTime, minTime time.Duration) *Local {
	if agents[game.PlayerX] == nil || agents[game.PlayerO] == nil {
		panic("need an agent for each player")
	}
	if minTime > maxTime {
		panic("minimum move time exceeds maximum move time")
	}
	return &Local{
		state:   state.Clone(),
		agents:  agents,
		maxTime: maxTime,
		minTime: minTime,
	}
}

// State returns a copy of the current board.
func (e *Local) State() *game.Board {
	return e.state.Clone()
}

// Run executes the entire game loop until the game is decided.
func (e *Local) Run(ctx context.Context) (string, metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{StartTime: time.Now()}
	var moveMetrics []metrics.MoveMetric

	log.Info().Msgf("player %s is starting", e.state.Player())

	for !e.over() {
		if err := ctx.Err(); err != nil {
			return "", gameMetric, moveMetrics, err
		}

		player := e.state.Player()
		step := e.state.Stones() + 1
		budget := TimeBudget(step, e.maxTime, e.minTime)

		move, searchMetric, err := e.agents[player].FindMove(ctx, budget)
		if err != nil {
			return "", gameMetric, moveMetrics, fmt.Errorf("player %s move %d: %w", player, step, err)
		}
		if err := e.state.Place(move); err != nil {
			return "", gameMetric, moveMetrics, fmt.Errorf("player %s move %d: %w", player, step, err)
		}
		for _, a := range e.agents {
			if err := a.Observe(move); err != nil {
				return "", gameMetric, moveMetrics, fmt.Errorf("observe move %d: %w", step, err)
			}
		}

		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step,
			Player:       player.String(),
			SearchMetric: searchMetric,
		})
		log.Debug().Msgf("move %d: player %s plays (%d, %d) after %v\n%s", step, player, move.X, move.Y, searchMetric.Duration, e.state)
	}

	winner := e.winner()
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = len(moveMetrics)
	gameMetric.Winner = winner
	log.Info().Msgf("game over after %d moves, winner: %s", gameMetric.TotalMoves, winner)

	return winner, gameMetric, moveMetrics, nil
}

func (e *Local) over() bool {
	_, ok := e.state.Utility(game.PlayerX)
	return ok
}

func (e *Local) winner() string {
	utility, _ := e.state.Utility(game.PlayerX)
	switch utility {
	case 1:
		return game.PlayerX.String()
	case 0:
		return game.PlayerO.String()
	default:
		return Draw
	}
}
