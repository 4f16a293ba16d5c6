package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/hupe1980/pagesearch"
	"github.com/hupe1980/pagesearch/internal/puzzle"
)

// errNoSolution is returned when a budget ends the search first.
var errNoSolution = errors.New("no solution found")

func newLogger(cfg LogConfig, w io.Writer) (*pagesearch.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		return pagesearch.NewLogger(slog.NewJSONHandler(w, opts)), nil
	}

	return pagesearch.NewLogger(slog.NewTextHandler(w, opts)), nil
}

func newEngine(cfg SearchConfig, optFn func(o *pagesearch.Options[*puzzle.Board])) (*pagesearch.Engine[*puzzle.Board], error) {
	if cfg.Workers <= 1 {
		return pagesearch.New(optFn)
	}

	return pagesearch.NewConcurrent(optFn, func(o *pagesearch.Options[*puzzle.Board]) {
		o.Workers = cfg.Workers
	})
}

// serveMetrics exposes reg on addr until the returned stop function runs.
func serveMetrics(addr string, reg *prometheus.Registry, logger *pagesearch.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()

	logger.Info("serving metrics", "addr", ln.Addr().String())

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}

func runSolve(cmd *cobra.Command, cfg Config) error {
	logger, err := newLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	heuristics, err := puzzle.Heuristics(cfg.Search.Heuristics...)
	if err != nil {
		return err
	}

	var metrics pagesearch.MetricsCollector
	if cfg.Metrics.Addr != "" {
		reg := prometheus.NewRegistry()
		metrics = NewPrometheusCollector(reg)

		stop, err := serveMetrics(cfg.Metrics.Addr, reg, logger)
		if err != nil {
			return err
		}
		defer stop()
	}

	states := puzzle.NewPool()

	eng, err := newEngine(cfg.Search, func(o *pagesearch.Options[*puzzle.Board]) {
		o.FanOut = cfg.Search.FanOut
		o.Operators = []pagesearch.Operator[*puzzle.Board]{puzzle.Slide()}
		o.Heuristics = heuristics
		o.Pool = states
		o.TimeBudget = cfg.Search.TimeBudget
		o.MaxExpanded = cfg.Search.MaxExpanded
		o.Debug = cfg.Search.Debug
		o.Stats = cfg.Search.Stats
		o.PathTracking = cfg.Search.PathTracking
		o.Logger = logger
		o.Metrics = metrics
	})
	if err != nil {
		return err
	}

	width, tiles := cfg.Puzzle.Width, puzzle.Scramble(cfg.Puzzle.Width, cfg.Puzzle.Scramble, cfg.Puzzle.Seed)
	if cfg.Puzzle.Tiles != "" {
		if width, tiles, err = puzzle.Parse(cfg.Puzzle.Tiles); err != nil {
			return err
		}
	}

	start, err := puzzle.NewBoard(eng.Allocator(), width, tiles)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "initial:\n%s\n\n", start)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	goal, ok := eng.Start(ctx, start)
	stats := eng.Stats()

	if ok {
		fmt.Fprintf(out, "solved in %d moves\n", goal.Cost)

		if cfg.Search.PathTracking {
			path, err := eng.Path(goal)
			if err != nil {
				return err
			}

			moves := puzzle.Moves(path)
			names := make([]string, len(moves))
			for i, m := range moves {
				names[i] = string(m)
			}

			fmt.Fprintf(out, "moves: %s\n", strings.Join(names, " "))
		}
	}

	fmt.Fprintf(out, "expanded: %d  generated: %d  duplicates: %d  frontier: %d  time: %s\n",
		stats.Expanded, stats.Generated, stats.Duplicates, stats.FrontierSize, stats.RunTime.Round(time.Microsecond))

	if !ok {
		if best, found := eng.Best(); found {
			fmt.Fprintf(out, "closest board (heuristic %d):\n%s\n", best.Heuristic(), best)
		}
		return errNoSolution
	}

	return nil
}
