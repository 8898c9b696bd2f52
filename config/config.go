package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gomoku/game"
	"gomoku/meta"
	"gomoku/searcher"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type Config struct {
	Board    BoardConfig    `yaml:"board"`
	Search   SearchConfig   `yaml:"search"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Log      LogConfig      `yaml:"log"`
}

type BoardConfig struct {
	Width         int  `yaml:"width" validate:"min=5,max=26"`
	Height        int  `yaml:"height" validate:"min=5,max=26"`
	ExtendedFours bool `yaml:"extended_fours"` // Also force replies to fours with a gap
}

type SearchConfig struct {
	Exploration     float64 `yaml:"exploration" validate:"gte=0"`
	BatchSize       int     `yaml:"batch_size" validate:"min=1,max=1024"`
	Cutoff          int     `yaml:"cutoff" validate:"min=1"`
	HeuristicWeight float64 `yaml:"heuristic_weight" validate:"gte=0,lt=1"`
	ThreatBias      float64 `yaml:"threat_bias" validate:"gte=0,lte=1"`
	ThreatSpread    float64 `yaml:"threat_spread" validate:"gte=0"`
	Seed            uint64  `yaml:"seed"` // 0 seeds from the clock
}

type ScheduleConfig struct {
	MaxTime time.Duration `yaml:"max_time" validate:"gt=0"`
	MinTime time.Duration `yaml:"min_time" validate:"gte=0,ltefield=MaxTime"`
}

type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=trace debug info warn error"`
}

func Default() Config {
	return Config{
		Board: BoardConfig{
			Width:  meta.WIDTH,
			Height: meta.HEIGHT,
		},
		Search: SearchConfig{
			Exploration:     meta.EXPLORATION,
			BatchSize:       meta.BATCH_SIZE,
			Cutoff:          meta.CUTOFF,
			HeuristicWeight: meta.HEURISTIC_WEIGHT,
			ThreatBias:      meta.THREAT_BIAS,
			ThreatSpread:    meta.THREAT_SPREAD,
		},
		Schedule: ScheduleConfig{
			MaxTime: meta.MAX_TIME_LIMIT,
			MinTime: meta.MIN_TIME_LIMIT,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load overlays the YAML file at path (if any) and GOMOKU_* environment
// variables on the defaults, then validates the result. A missing file leaves
// the defaults in place.
func Load(path string) (Config, error) {
	config := Default()

	if path != "" {
		if err := loadFile(path, &config); err != nil {
			return config, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	loadEnv(&config)

	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

func loadFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Warn().Msgf("config file %s not found, using defaults", path)
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, config)
}

func loadEnv(config *Config) {
	if v := os.Getenv("GOMOKU_LOG_LEVEL"); v != "" {
		config.Log.Level = v
	}
	if v := os.Getenv("GOMOKU_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			log.Warn().Err(err).Msgf("ignoring invalid GOMOKU_SEED %q", v)
		} else {
			config.Search.Seed = seed
		}
	}
	if v := os.Getenv("GOMOKU_MAX_TIME"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Warn().Err(err).Msgf("ignoring invalid GOMOKU_MAX_TIME %q", v)
		} else {
			config.Schedule.MaxTime = d
		}
	}
}

func (c Config) Validate() error {
	return validate.Struct(c)
}

// NewBoard returns an empty board of the configured size.
func (c Config) NewBoard() *game.Board {
	matcher := game.DefaultMatcher()
	if c.Board.ExtendedFours {
		matcher = game.ExtendedMatcher()
	}
	return game.NewBoard(c.Board.Width, c.Board.Height, game.WithMatcher(matcher))
}

// SearchOptions returns the search tree options of the configuration. seed
// offsets the configured seed so that several trees of one run differ.
func (c Config) SearchOptions(seed uint64) []searcher.Option {
	options := []searcher.Option{
		searcher.WithExploration(c.Search.Exploration),
		searcher.WithBatchSize(c.Search.BatchSize),
		searcher.WithCutoff(c.Search.Cutoff),
		searcher.WithHeuristicWeight(c.Search.HeuristicWeight),
		searcher.WithThreatBias(c.Search.ThreatBias, c.Search.ThreatSpread),
	}
	if c.Search.Seed != 0 {
		options = append(options, searcher.WithSeed(c.Search.Seed+seed))
	}
	return options
}

// Seed offsets a configured seed. A zero seed draws from the clock instead.
func Seed(seed, offset uint64) uint64 {
	if seed == 0 {
		return uint64(time.Now().UnixNano()) + offset
	}
	return seed + offset
}

// AgentSeed returns the seed of a random agent of the run.
func (c Config) AgentSeed(offset uint64) uint64 {
	return Seed(c.Search.Seed, offset)
}
