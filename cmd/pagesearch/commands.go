package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/pagesearch/internal/puzzle"
)

// flags holds the command-line overrides of Config.
type flags struct {
	config    string
	logLevel  string
	logFormat string

	width    int
	tiles    string
	scramble int
	seed     uint64

	fanOut       int
	workers      int
	heuristics   []string
	timeBudget   time.Duration
	maxExpanded  int
	debug        bool
	stats        bool
	pathTracking bool
	metricsAddr  string
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	rootCmd := &cobra.Command{
		Use:           "pagesearch",
		Short:         "Best-first search over sliding-tile puzzles",
		Long:          "pagesearch explores sliding-tile puzzles with a multi-heuristic A* engine whose frontier lives in page B*-trees.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&f.config, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&f.logFormat, "log-format", "", "log format (text, json)")

	rootCmd.AddCommand(newSolveCmd(f), newScrambleCmd(f))

	return rootCmd
}

func newSolveCmd(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve a puzzle given by --tiles or scrambled from the goal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := f.resolve(cmd)
			if err != nil {
				return err
			}
			return runSolve(cmd, cfg)
		},
	}

	fs := cmd.Flags()
	fs.IntVarP(&f.width, "width", "w", 0, "board width")
	fs.StringVarP(&f.tiles, "tiles", "t", "", `initial layout, e.g. "1 2 3 4 5 6 0 7 8"`)
	fs.IntVar(&f.scramble, "scramble", 0, "random moves away from the goal when --tiles is not set")
	fs.Uint64Var(&f.seed, "seed", 0, "scramble seed")
	fs.IntVar(&f.fanOut, "fan-out", 0, "frontier page capacity")
	fs.IntVarP(&f.workers, "workers", "j", 0, "worker goroutines (1 runs sequentially)")
	fs.StringSliceVar(&f.heuristics, "heuristics", nil, "heuristics, one frontier tree each ("+strings.Join(puzzle.HeuristicNames(), ", ")+")")
	fs.DurationVar(&f.timeBudget, "time-budget", 0, "wall-clock budget, 0 for unbounded")
	fs.IntVar(&f.maxExpanded, "max-expanded", 0, "expanded-state cap, 0 for unbounded")
	fs.BoolVar(&f.debug, "debug", false, "log every expansion (ignores the time budget)")
	fs.BoolVar(&f.stats, "stats", false, "log periodic statistics")
	fs.BoolVar(&f.pathTracking, "path", true, "keep parents alive and print the move sequence")
	fs.StringVar(&f.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")

	return cmd
}

func newScrambleCmd(f *flags) *cobra.Command {
	var moves int

	cmd := &cobra.Command{
		Use:   "scramble",
		Short: "Print a solvable layout reached by random moves from the goal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := f.resolve(cmd)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("moves") {
				cfg.Puzzle.Scramble = moves
			}

			tiles := puzzle.Scramble(cfg.Puzzle.Width, cfg.Puzzle.Scramble, cfg.Puzzle.Seed)

			out := make([]string, len(tiles))
			for i, t := range tiles {
				out[i] = fmt.Sprint(t)
			}

			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(out, " "))

			return nil
		},
	}

	cmd.Flags().IntVarP(&f.width, "width", "w", 0, "board width")
	cmd.Flags().IntVarP(&moves, "moves", "m", 0, "random moves")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "seed")

	return cmd
}

// resolve loads the config file (or the defaults) and applies every flag
// set on the command line.
func (f *flags) resolve(cmd *cobra.Command) (Config, error) {
	cfg := DefaultConfig()

	if f.config != "" {
		loaded, err := LoadConfig(f.config)
		if err != nil {
			return Config{}, err
		}
		cfg = loaded
	}

	changed := cmd.Flags().Changed

	set := func(name string, apply func()) {
		if changed(name) {
			apply()
		}
	}

	set("log-level", func() { cfg.Log.Level = f.logLevel })
	set("log-format", func() { cfg.Log.Format = f.logFormat })
	set("width", func() { cfg.Puzzle.Width = f.width })
	set("tiles", func() { cfg.Puzzle.Tiles = f.tiles })
	set("scramble", func() { cfg.Puzzle.Scramble = f.scramble })
	set("seed", func() { cfg.Puzzle.Seed = f.seed })
	set("fan-out", func() { cfg.Search.FanOut = f.fanOut })
	set("workers", func() { cfg.Search.Workers = f.workers })
	set("heuristics", func() { cfg.Search.Heuristics = f.heuristics })
	set("time-budget", func() { cfg.Search.TimeBudget = f.timeBudget })
	set("max-expanded", func() { cfg.Search.MaxExpanded = f.maxExpanded })
	set("debug", func() { cfg.Search.Debug = f.debug })
	set("stats", func() { cfg.Search.Stats = f.stats })
	set("path", func() { cfg.Search.PathTracking = f.pathTracking })
	set("metrics-addr", func() { cfg.Metrics.Addr = f.metricsAddr })

	// A layout given on the command line decides the width.
	if changed("tiles") && !changed("width") {
		if width, _, err := puzzle.Parse(f.tiles); err == nil {
			cfg.Puzzle.Width = width
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
