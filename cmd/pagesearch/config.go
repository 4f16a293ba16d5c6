package main

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/pagesearch"
	"github.com/hupe1980/pagesearch/internal/puzzle"
)

// Config is the YAML configuration of the CLI. Command-line flags override
// the values loaded from the file.
type Config struct {
	Puzzle  PuzzleConfig  `yaml:"puzzle"`
	Search  SearchConfig  `yaml:"search"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// PuzzleConfig selects the initial board. Tiles wins over a scramble.
type PuzzleConfig struct {
	Width    int    `yaml:"width" validate:"gte=2,lte=8"`
	Tiles    string `yaml:"tiles"`
	Scramble int    `yaml:"scramble" validate:"gte=0"`
	Seed     uint64 `yaml:"seed"`
}

// SearchConfig maps onto pagesearch.Options.
type SearchConfig struct {
	FanOut       int           `yaml:"fan_out" validate:"gte=3"`
	Workers      int           `yaml:"workers" validate:"gte=1,lte=256"`
	Heuristics   []string      `yaml:"heuristics" validate:"required,min=1,dive,oneof=manhattan misplaced linear-conflict"`
	TimeBudget   time.Duration `yaml:"time_budget" validate:"gte=0"`
	MaxExpanded  int           `yaml:"max_expanded" validate:"gte=0"`
	Debug        bool          `yaml:"debug"`
	Stats        bool          `yaml:"stats"`
	PathTracking bool          `yaml:"path_tracking"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// MetricsConfig enables the Prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr string `yaml:"addr" validate:"omitempty,hostname_port"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Puzzle: PuzzleConfig{
			Width:    3,
			Scramble: 40,
			Seed:     1,
		},
		Search: SearchConfig{
			FanOut:       pagesearch.DefaultFanOut,
			Workers:      1,
			Heuristics:   []string{"manhattan", "linear-conflict"},
			TimeBudget:   30 * time.Second,
			PathTracking: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

var validate = validator.New()

// Validate checks the configuration constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if c.Puzzle.Tiles != "" {
		width, _, err := puzzle.Parse(c.Puzzle.Tiles)
		if err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		if width != c.Puzzle.Width {
			return fmt.Errorf("invalid config: tiles form a width %d board, width is %d", width, c.Puzzle.Width)
		}
	}

	return nil
}

// LoadConfig reads path on top of DefaultConfig and validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
